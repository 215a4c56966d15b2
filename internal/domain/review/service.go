// Package review applies one review outcome to the chosen item and
// persists the consequences in a single load → modify → save pass.
package review

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ganot/rota/internal/domain/scoring"
	"github.com/ganot/rota/internal/domain/session"
	"github.com/ganot/rota/internal/domain/stats"
)

// Service records review actions.
type Service struct {
	store  *stats.Store
	engine scoring.Engine
	clock  func() time.Time
	logger *slog.Logger
}

// NewService creates a review service. clock defaults to time.Now.
func NewService(store *stats.Store, engine scoring.Engine, clock func() time.Time, logger *slog.Logger) *Service {
	if clock == nil {
		clock = time.Now
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: store, engine: engine, clock: clock, logger: logger}
}

// RecordAction applies one user action to an item.
//
// The first action on an item always persists its score and marks it seen,
// but is not counted: no history entry, no totalReviews increment, no
// rotation bonus for the others, no global aggregates. Every later action
// is counted. The in-session review counter advances on every call either
// way.
//
// On persistence failure the durable state is untouched and the error is
// surfaced; the caller must not advance to the next selection cycle.
func (s *Service) RecordAction(ctx context.Context, sess *session.Context, key string, action scoring.Action) (*stats.ProjectStats, error) {
	if !action.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownAction, action)
	}

	var result *stats.ProjectStats
	_, err := s.store.Update(ctx, func(doc *stats.Document) error {
		rec := doc.Project(key)
		if rec == nil {
			rec = &stats.ProjectStats{CurrentScore: scoring.Clamp(s.store.DefaultScore())}
			doc.Stats.Projects[key] = rec
		}

		firstReview := !rec.Seen
		rec.Seen = true

		if action != scoring.ActionFinished {
			rec.CurrentScore = s.engine.ApplyAction(rec.CurrentScore, action)
		}

		if !firstReview {
			rec.TotalReviews++
			rec.RotationBonus = 0
			rec.LastReviewDate = stats.FormatDate(s.clock())
			rec.AppendHistory(stats.ReviewEntry{
				Date:       rec.LastReviewDate,
				Action:     string(action),
				ScoreAfter: rec.CurrentScore,
			})
			doc.Stats.Global.TotalReviews++

			delta := s.engine.RotationBonusDelta()
			for otherKey, other := range doc.Stats.Projects {
				if otherKey == key {
					continue
				}
				other.RotationBonus += delta
			}
		}

		copied := *rec
		copied.ReviewHistory = append([]stats.ReviewEntry(nil), rec.ReviewHistory...)
		result = &copied
		return nil
	})
	if err != nil {
		return nil, err
	}

	sess.CountReview(key)
	s.logger.Debug("review recorded", "item", key, "action", action, "score", result.CurrentScore)
	return result, nil
}

// AddReviewMinutes adds completed timed-activity minutes to the global
// aggregate.
func (s *Service) AddReviewMinutes(ctx context.Context, minutes float64) error {
	if minutes <= 0 {
		return nil
	}
	_, err := s.store.Update(ctx, func(doc *stats.Document) error {
		doc.Stats.Global.TotalReviewMinutes += minutes
		return nil
	})
	return err
}
