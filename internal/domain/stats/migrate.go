package stats

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/ganot/rota/internal/domain/scoring"
	"github.com/ganot/rota/internal/repository"
)

// Migrate brings the persisted document up to the current schema. Each
// step is gated by its own flag and is a no-op once that flag is set, so
// an interrupted migration resumes safely on the next run.
//
// Steps, in order:
//  1. merge the legacy standalone statistics file into the document
//  2. seed records for items known only by a legacy per-item score
//  3. normalize any out-of-range score span into [1, 100]
//
// Malformed legacy data is logged and skipped per record; it never blocks
// the remaining steps.
func (s *Store) Migrate(ctx context.Context) error {
	doc, err := s.Load(ctx)
	if err != nil {
		return err
	}
	doc.ensureProjects()

	changed := false
	if s.mergeLegacyFile(ctx, doc) {
		changed = true
	}
	if s.seedLegacyScores(doc) {
		changed = true
	}
	if s.normalizeScores(doc) {
		changed = true
	}
	if doc.Version != CurrentVersion {
		doc.Version = CurrentVersion
		changed = true
	}

	if !changed {
		return nil
	}
	return s.Save(ctx, doc)
}

// mergeLegacyFile relocates the standalone statistics file, if any, into
// the unified document. Records already present in the document win; the
// document is the migrated truth and must not be re-derived.
func (s *Store) mergeLegacyFile(ctx context.Context, doc *Document) bool {
	if doc.Migrations.LegacyStatsMerged {
		return false
	}
	doc.Migrations.LegacyStatsMerged = true

	data, err := s.backend.ReadLegacy(ctx)
	if errors.Is(err, repository.ErrNotFound) {
		return true
	}
	if err != nil {
		s.logger.Warn("legacy stats file unreadable, skipping merge", "error", err)
		return true
	}

	payload, flat, err := decodeLegacyBlob(data)
	if err != nil {
		s.logger.Warn("legacy stats file malformed, skipping merge", "error", errors.Join(ErrMigration, err))
		return true
	}

	for key, rec := range payload.Projects {
		if rec == nil {
			s.logger.Warn("legacy stats record malformed, skipped", "item", key, "error", ErrMigration)
			continue
		}
		if doc.Project(key) == nil {
			doc.Stats.Projects[key] = rec
		}
	}
	if doc.Stats.Global == (GlobalStats{}) {
		doc.Stats.Global = payload.Global
	}
	if len(flat) > 0 {
		if doc.legacyScores == nil {
			doc.legacyScores = map[string]float64{}
		}
		for key, score := range flat {
			if _, dup := doc.legacyScores[key]; !dup {
				doc.legacyScores[key] = score
			}
		}
	}
	return true
}

// seedLegacyScores creates a record for every item that only exists as a
// legacy per-item score override. Items without an override get records
// lazily with the default score, so only override carriers matter here.
func (s *Store) seedLegacyScores(doc *Document) bool {
	if doc.Migrations.ScoresSeeded {
		return false
	}
	doc.Migrations.ScoresSeeded = true

	for key, score := range doc.legacyScores {
		if doc.Project(key) != nil {
			continue
		}
		doc.Stats.Projects[key] = &ProjectStats{
			CurrentScore: score,
			Seen:         true,
		}
	}
	doc.legacyScores = nil
	return true
}

// normalizeScores rescales scores linearly against the observed maximum
// when any score exceeds the ceiling, then clamps everything into range.
func (s *Store) normalizeScores(doc *Document) bool {
	if doc.Migrations.ScoresNormalized {
		return false
	}
	doc.Migrations.ScoresNormalized = true

	maxScore := 0.0
	for _, rec := range doc.Stats.Projects {
		if rec.CurrentScore > maxScore {
			maxScore = rec.CurrentScore
		}
	}
	scale := 1.0
	if maxScore > scoring.ScoreCeiling {
		scale = scoring.ScoreCeiling / maxScore
	}
	for _, rec := range doc.Stats.Projects {
		rec.CurrentScore = scoring.Clamp(rec.CurrentScore * scale)
	}
	return true
}

// decodeLegacyBlob accepts either a full legacy StatsPayload or the flat
// item-keyed score map used by the oldest layout.
func decodeLegacyBlob(data []byte) (StatsPayload, map[string]float64, error) {
	if flat, ok := decodeFlatScores(data); ok {
		return StatsPayload{Projects: map[string]*ProjectStats{}}, flat, nil
	}

	var payload StatsPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return StatsPayload{}, nil, err
	}
	if payload.Projects == nil {
		payload.Projects = map[string]*ProjectStats{}
	}
	return payload, nil, nil
}
