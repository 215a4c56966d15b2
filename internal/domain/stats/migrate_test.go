package stats

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMigrate_FreshInstall(t *testing.T) {
	backend := &memBackend{}
	store := newTestStore(backend)
	ctx := context.Background()

	require.NoError(t, store.Migrate(ctx))

	doc, err := store.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, CurrentVersion, doc.Version)
	require.True(t, doc.Migrations.LegacyStatsMerged)
	require.True(t, doc.Migrations.ScoresSeeded)
	require.True(t, doc.Migrations.ScoresNormalized)
}

func TestMigrate_MergesLegacyFile(t *testing.T) {
	backend := &memBackend{
		legacy: []byte(`{
			"projects": {
				"notes/a.md": {"currentScore": 61, "totalReviews": 4, "seen": true}
			},
			"global": {"totalReviews": 4, "totalReviewMinutes": 90}
		}`),
	}
	store := newTestStore(backend)
	ctx := context.Background()

	require.NoError(t, store.Migrate(ctx))

	doc, err := store.Load(ctx)
	require.NoError(t, err)
	rec := doc.Project("notes/a.md")
	require.NotNil(t, rec)
	require.Equal(t, 61.0, rec.CurrentScore)
	require.Equal(t, 4, rec.TotalReviews)
	require.Equal(t, 4, doc.Stats.Global.TotalReviews)
	require.Equal(t, 90.0, doc.Stats.Global.TotalReviewMinutes)
}

func TestMigrate_ExistingRecordsWin(t *testing.T) {
	backend := &memBackend{
		data: []byte(`{"version":1,"stats":{"projects":{"notes/a.md":{"currentScore":30,"seen":true}}}}`),
		legacy: []byte(`{
			"projects": {"notes/a.md": {"currentScore": 90, "seen": true}}
		}`),
	}
	store := newTestStore(backend)
	ctx := context.Background()

	require.NoError(t, store.Migrate(ctx))

	doc, err := store.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, 30.0, doc.Project("notes/a.md").CurrentScore)
}

func TestMigrate_SeedsFlatLegacyScores(t *testing.T) {
	// The main document itself is in the oldest flat layout.
	backend := &memBackend{data: []byte(`{"notes/a.md": 72, "notes/b.md": 15}`)}
	store := newTestStore(backend)
	ctx := context.Background()

	require.NoError(t, store.Migrate(ctx))

	doc, err := store.Load(ctx)
	require.NoError(t, err)

	recA := doc.Project("notes/a.md")
	require.NotNil(t, recA)
	require.Equal(t, 72.0, recA.CurrentScore)
	require.True(t, recA.Seen)
	require.Zero(t, recA.TotalReviews)

	recB := doc.Project("notes/b.md")
	require.NotNil(t, recB)
	require.Equal(t, 15.0, recB.CurrentScore)
}

func TestMigrate_NormalizesOutOfRangeScores(t *testing.T) {
	backend := &memBackend{data: []byte(`{"notes/a.md": 500, "notes/b.md": 250, "notes/c.md": 50}`)}
	store := newTestStore(backend)
	ctx := context.Background()

	require.NoError(t, store.Migrate(ctx))

	doc, err := store.Load(ctx)
	require.NoError(t, err)

	// Linear rescale against the observed maximum (500 → 100).
	require.InDelta(t, 100, doc.Project("notes/a.md").CurrentScore, 1e-9)
	require.InDelta(t, 50, doc.Project("notes/b.md").CurrentScore, 1e-9)
	require.InDelta(t, 10, doc.Project("notes/c.md").CurrentScore, 1e-9)
}

func TestMigrate_NormalizationClampsFloor(t *testing.T) {
	backend := &memBackend{data: []byte(`{"notes/a.md": 1000, "notes/b.md": 2}`)}
	store := newTestStore(backend)
	ctx := context.Background()

	require.NoError(t, store.Migrate(ctx))

	doc, err := store.Load(ctx)
	require.NoError(t, err)
	require.InDelta(t, 100, doc.Project("notes/a.md").CurrentScore, 1e-9)
	require.InDelta(t, 1, doc.Project("notes/b.md").CurrentScore, 1e-9)
}

func TestMigrate_InRangeScoresUntouched(t *testing.T) {
	backend := &memBackend{data: []byte(`{"notes/a.md": 80, "notes/b.md": 20}`)}
	store := newTestStore(backend)
	ctx := context.Background()

	require.NoError(t, store.Migrate(ctx))

	doc, err := store.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, 80.0, doc.Project("notes/a.md").CurrentScore)
	require.Equal(t, 20.0, doc.Project("notes/b.md").CurrentScore)
}

func TestMigrate_Idempotent(t *testing.T) {
	backend := &memBackend{
		data:   []byte(`{"notes/a.md": 300, "notes/b.md": 150}`),
		legacy: []byte(`{"projects": {"notes/c.md": {"currentScore": 44, "seen": true}}}`),
	}
	store := newTestStore(backend)
	ctx := context.Background()

	require.NoError(t, store.Migrate(ctx))
	first := append([]byte(nil), backend.data...)

	require.NoError(t, store.Migrate(ctx))
	require.JSONEq(t, string(first), string(backend.data))
}

func TestMigrate_MalformedLegacyFileSkipped(t *testing.T) {
	backend := &memBackend{legacy: []byte(`{{not json`)}
	store := newTestStore(backend)
	ctx := context.Background()

	// Malformed legacy data never blocks migration.
	require.NoError(t, store.Migrate(ctx))

	doc, err := store.Load(ctx)
	require.NoError(t, err)
	require.True(t, doc.Migrations.LegacyStatsMerged)
}
