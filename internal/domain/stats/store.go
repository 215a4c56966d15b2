package stats

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ganot/rota/internal/domain/scoring"
	"github.com/ganot/rota/internal/repository"
)

// Store owns atomic load/modify/save of the persisted document. No loaded
// copy is authoritative across operations; the underlying medium may be
// synchronized externally between calls.
type Store struct {
	backend      repository.DocumentBackend
	defaultScore float64
	logger       *slog.Logger
}

// NewStore creates a stats store over the given backend.
func NewStore(backend repository.DocumentBackend, defaultScore float64, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{backend: backend, defaultScore: defaultScore, logger: logger}
}

// Load returns the current document. A missing document is created empty
// and persisted. Read or decode failures return an empty document along
// with a wrapped ErrStorageRead so callers can choose between aborting
// (mutations) and degrading to an empty payload (selection).
func (s *Store) Load(ctx context.Context) (*Document, error) {
	data, err := s.backend.Read(ctx)
	if errors.Is(err, repository.ErrNotFound) {
		doc := NewDocument()
		if err := s.Save(ctx, doc); err != nil {
			return doc, err
		}
		return doc, nil
	}
	if err != nil {
		return NewDocument(), fmt.Errorf("%w: %w", repository.ErrStorageRead, err)
	}

	doc, err := decodeDocument(data)
	if err != nil {
		return NewDocument(), fmt.Errorf("%w: %w", repository.ErrStorageRead, err)
	}
	return doc, nil
}

// Save persists the full document.
func (s *Store) Save(ctx context.Context, doc *Document) error {
	doc.ensureProjects()
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("%w: encode document: %w", repository.ErrStorageWrite, err)
	}
	if err := s.backend.Write(ctx, data); err != nil {
		s.logger.Error("stats document write failed", "error", err)
		return fmt.Errorf("%w: %w", repository.ErrStorageWrite, err)
	}
	return nil
}

// Update runs one load → modify → save cycle. The mutate callback must not
// suspend; the freshly loaded document is the only authoritative copy.
func (s *Store) Update(ctx context.Context, mutate func(doc *Document) error) (*Document, error) {
	doc, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	doc.ensureProjects()
	if err := mutate(doc); err != nil {
		return nil, err
	}
	if err := s.Save(ctx, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// GetOrCreate returns the stats record for key, creating and persisting a
// default record on first access. seed overrides the default score for a
// newly created record.
func (s *Store) GetOrCreate(ctx context.Context, key string, seed *float64) (*ProjectStats, error) {
	doc, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	if rec := doc.Project(key); rec != nil {
		return rec, nil
	}

	doc, err = s.Update(ctx, func(doc *Document) error {
		if doc.Project(key) == nil {
			doc.Stats.Projects[key] = s.newRecord(seed)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return doc.Project(key), nil
}

// DefaultScore returns the score assigned to lazily created records.
func (s *Store) DefaultScore() float64 {
	return s.defaultScore
}

func (s *Store) newRecord(seed *float64) *ProjectStats {
	score := s.defaultScore
	if seed != nil {
		score = *seed
	}
	return &ProjectStats{CurrentScore: scoring.Clamp(score)}
}

// decodeDocument parses the persisted bytes, tolerating the legacy flat
// layout (a bare item-keyed score map) and the absence of either the
// settings or the stats key.
func decodeDocument(data []byte) (*Document, error) {
	if flat, ok := decodeFlatScores(data); ok {
		legacy := NewDocument()
		legacy.Version = 1
		legacy.legacyScores = flat
		return legacy, nil
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("unrecognized document layout: %w", err)
	}
	doc.ensureProjects()
	if doc.Version == 0 {
		doc.Version = 1
	}
	return &doc, nil
}

// decodeFlatScores recognizes the legacy flat layout: a non-empty object
// whose values are all numbers and whose keys carry none of the current
// document's structure.
func decodeFlatScores(data []byte) (map[string]float64, bool) {
	var flat map[string]float64
	if err := json.Unmarshal(data, &flat); err != nil || len(flat) == 0 {
		return nil, false
	}
	for _, key := range []string{"version", "settings", "stats", "migrations"} {
		if _, clash := flat[key]; clash {
			return nil, false
		}
	}
	return flat, true
}
