// Package selector picks the next item to present for review: new items
// first in display-name order, then the reviewed item with the highest
// effective score.
package selector

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"github.com/ganot/rota/internal/domain/scoring"
	"github.com/ganot/rota/internal/domain/session"
	"github.com/ganot/rota/internal/domain/stats"
)

// Candidate is one eligible item as supplied by the host. The host has
// already filtered for tag membership and archive exclusion.
type Candidate struct {
	Key                string     `json:"key"`
	DisplayName        string     `json:"display_name"`
	BaseScoreOverride  *float64   `json:"base_score_override,omitempty"`
	LastKnownTimestamp *time.Time `json:"last_known_timestamp,omitempty"`
}

// Service selects the next review item.
type Service struct {
	store  *stats.Store
	engine scoring.Engine
	logger *slog.Logger
}

// NewService creates a selector service.
func NewService(store *stats.Store, engine scoring.Engine, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: store, engine: engine, logger: logger}
}

// SelectNext returns the key of the next item to present.
//
// New items (never yet recorded) take absolute priority and are served in
// display-name order so every new item gets visited predictably. Reviewed
// items compete on effective score; ties keep the first in input order.
// Session-ignored items are excluded; an empty remainder is
// ErrNoCandidates.
func (s *Service) SelectNext(ctx context.Context, sess *session.Context, candidates []Candidate) (string, error) {
	eligible := make([]Candidate, 0, len(candidates))
	for _, cand := range candidates {
		if sess.IsIgnored(cand.Key) {
			continue
		}
		eligible = append(eligible, cand)
	}
	if len(eligible) == 0 {
		return "", ErrNoCandidates
	}

	doc, err := s.store.Load(ctx)
	if err != nil {
		// Selection degrades to an empty payload rather than failing; every
		// candidate is then treated as new.
		s.logger.Warn("stats unavailable for selection, treating all candidates as new", "error", err)
		doc = stats.NewDocument()
	}

	var fresh, reviewed []Candidate
	for _, cand := range eligible {
		rec := doc.Project(cand.Key)
		if rec == nil || !rec.Seen {
			fresh = append(fresh, cand)
			continue
		}
		reviewed = append(reviewed, cand)
	}

	if len(fresh) > 0 {
		sort.SliceStable(fresh, func(i, j int) bool {
			return fresh[i].DisplayName < fresh[j].DisplayName
		})
		next := fresh[0]
		if _, err := s.store.GetOrCreate(ctx, next.Key, next.BaseScoreOverride); err != nil {
			s.logger.Warn("could not persist default stats for new item", "item", next.Key, "error", err)
		}
		return next.Key, nil
	}

	best := reviewed[0]
	bestScore := s.effectiveScore(doc, sess, best)
	for _, cand := range reviewed[1:] {
		if score := s.effectiveScore(doc, sess, cand); score > bestScore {
			best, bestScore = cand, score
		}
	}
	return best.Key, nil
}

func (s *Service) effectiveScore(doc *stats.Document, sess *session.Context, cand Candidate) float64 {
	rec := doc.Project(cand.Key)
	return s.engine.EffectiveScore(rec.CurrentScore, rec.RotationBonus, sess.ReviewCount(cand.Key))
}
