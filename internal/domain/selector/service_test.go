package selector_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/ganot/rota/internal/domain/review"
	"github.com/ganot/rota/internal/domain/scoring"
	"github.com/ganot/rota/internal/domain/selector"
	"github.com/ganot/rota/internal/domain/session"
	"github.com/ganot/rota/internal/domain/stats"
	"github.com/ganot/rota/internal/jsonfile"
	"github.com/stretchr/testify/require"
)

func testEngine() scoring.Engine {
	return scoring.NewEngine(scoring.Params{
		DefaultScore:         50,
		RapprochementFactor:  0.2,
		RotationBonus:        1,
		SessionPenaltyWeight: 1,
	})
}

func newFixture(t *testing.T) (*selector.Service, *review.Service, *stats.Store, *session.Context) {
	t.Helper()

	backend, err := jsonfile.New(filepath.Join(t.TempDir(), "rota.json"), "")
	require.NoError(t, err)

	engine := testEngine()
	store := stats.NewStore(backend, 50, nil)
	sel := selector.NewService(store, engine, nil)
	rev := review.NewService(store, engine, func() time.Time {
		return time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	}, nil)
	return sel, rev, store, session.NewContext(nil, nil)
}

func cand(key string) selector.Candidate {
	return selector.Candidate{Key: key, DisplayName: filepath.Base(key)}
}

func TestSelectNext_EmptyCandidates(t *testing.T) {
	sel, _, _, sess := newFixture(t)

	_, err := sel.SelectNext(context.Background(), sess, nil)
	require.ErrorIs(t, err, selector.ErrNoCandidates)
}

func TestSelectNext_AllIgnoredIsEmpty(t *testing.T) {
	sel, _, _, sess := newFixture(t)
	sess.Ignore("notes/a.md")

	_, err := sel.SelectNext(context.Background(), sess, []selector.Candidate{cand("notes/a.md")})
	require.ErrorIs(t, err, selector.ErrNoCandidates)
}

func TestSelectNext_NewItemsFirst(t *testing.T) {
	sel, rev, _, sess := newFixture(t)
	ctx := context.Background()

	// Make one item reviewed with a towering score.
	_, err := rev.RecordAction(ctx, sess, "notes/old.md", scoring.ActionPriorityMax)
	require.NoError(t, err)

	key, err := sel.SelectNext(ctx, sess, []selector.Candidate{
		cand("notes/old.md"),
		cand("notes/new.md"),
	})
	require.NoError(t, err)
	require.Equal(t, "notes/new.md", key)
}

func TestSelectNext_NewItemsByDisplayName(t *testing.T) {
	sel, _, _, sess := newFixture(t)

	key, err := sel.SelectNext(context.Background(), sess, []selector.Candidate{
		cand("notes/zebra.md"),
		cand("notes/apple.md"),
		cand("notes/mango.md"),
	})
	require.NoError(t, err)
	require.Equal(t, "notes/apple.md", key)
}

func TestSelectNext_Deterministic(t *testing.T) {
	sel, _, _, sess := newFixture(t)
	ctx := context.Background()

	candidates := []selector.Candidate{
		cand("notes/b.md"),
		cand("notes/a.md"),
		cand("notes/c.md"),
	}

	first, err := sel.SelectNext(ctx, sess, candidates)
	require.NoError(t, err)
	second, err := sel.SelectNext(ctx, sess, candidates)
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestSelectNext_HighestEffectiveScoreWins(t *testing.T) {
	sel, rev, _, sess := newFixture(t)
	ctx := context.Background()

	// Two actions each: the first marks the item seen, the second sets
	// the score apart.
	for _, step := range []struct {
		key    string
		action scoring.Action
	}{
		{"notes/low.md", scoring.ActionOK},
		{"notes/high.md", scoring.ActionOK},
		{"notes/low.md", scoring.ActionLessOften},
		{"notes/high.md", scoring.ActionMoreOften},
	} {
		_, err := rev.RecordAction(ctx, sess, step.key, step.action)
		require.NoError(t, err)
	}

	// Fresh session: no recency penalty clouding the comparison.
	key, err := sel.SelectNext(ctx, session.NewContext(nil, nil), []selector.Candidate{
		cand("notes/low.md"),
		cand("notes/high.md"),
	})
	require.NoError(t, err)
	require.Equal(t, "notes/high.md", key)
}

func TestSelectNext_SessionPenaltyDemotesRecentlyReviewed(t *testing.T) {
	sel, rev, _, sess := newFixture(t)
	ctx := context.Background()

	// Both items seen and counted once, equal scores, but only one of the
	// counted reviews happened in this session.
	staleSession := session.NewContext(nil, nil)
	for _, key := range []string{"notes/a.md", "notes/b.md"} {
		_, err := rev.RecordAction(ctx, staleSession, key, scoring.ActionOK)
		require.NoError(t, err)
	}
	_, err := rev.RecordAction(ctx, staleSession, "notes/a.md", scoring.ActionOK)
	require.NoError(t, err)
	_, err = rev.RecordAction(ctx, sess, "notes/b.md", scoring.ActionOK)
	require.NoError(t, err)

	key, err := sel.SelectNext(ctx, sess, []selector.Candidate{
		cand("notes/b.md"),
		cand("notes/a.md"),
	})
	require.NoError(t, err)
	require.Equal(t, "notes/a.md", key)
}

func TestSelectNext_IgnoredExcludedFromBothPartitions(t *testing.T) {
	sel, rev, _, sess := newFixture(t)
	ctx := context.Background()

	_, err := rev.RecordAction(ctx, sess, "notes/seen.md", scoring.ActionOK)
	require.NoError(t, err)

	sess.Ignore("notes/new.md")

	key, err := sel.SelectNext(ctx, sess, []selector.Candidate{
		cand("notes/new.md"),
		cand("notes/seen.md"),
	})
	require.NoError(t, err)
	require.Equal(t, "notes/seen.md", key)
}

func TestSelectNext_PersistsDefaultsForNewPick(t *testing.T) {
	sel, _, store, sess := newFixture(t)
	ctx := context.Background()

	override := 75.0
	key, err := sel.SelectNext(ctx, sess, []selector.Candidate{
		{Key: "notes/a.md", DisplayName: "a.md", BaseScoreOverride: &override},
	})
	require.NoError(t, err)
	require.Equal(t, "notes/a.md", key)

	doc, err := store.Load(ctx)
	require.NoError(t, err)
	rec := doc.Project("notes/a.md")
	require.NotNil(t, rec)
	require.Equal(t, 75.0, rec.CurrentScore)
	require.False(t, rec.Seen)
}
