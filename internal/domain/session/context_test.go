package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestContext_Ignore(t *testing.T) {
	sess := NewContext(nil, nil)

	require.False(t, sess.IsIgnored("notes/a.md"))
	sess.Ignore("notes/a.md")
	require.True(t, sess.IsIgnored("notes/a.md"))
	require.False(t, sess.IsIgnored("notes/b.md"))
}

func TestContext_ReviewCounts(t *testing.T) {
	sess := NewContext(nil, nil)

	require.Zero(t, sess.ReviewCount("notes/a.md"))
	sess.CountReview("notes/a.md")
	sess.CountReview("notes/a.md")
	sess.CountReview("notes/b.md")
	require.Equal(t, 2, sess.ReviewCount("notes/a.md"))
	require.Equal(t, 1, sess.ReviewCount("notes/b.md"))
}

func TestTimedActivity_SingleSlot(t *testing.T) {
	sess := NewContext(nil, nil)
	defer sess.CancelTimedActivity()

	id, started := sess.StartTimedActivity(time.Minute)
	require.True(t, started)
	require.NotEmpty(t, id)

	// Starting while active is a no-op returning the active ID.
	again, started := sess.StartTimedActivity(time.Hour)
	require.False(t, started)
	require.Equal(t, id, again)

	act, ok := sess.ActiveTimedActivity()
	require.True(t, ok)
	require.Equal(t, time.Minute, act.Duration)
}

func TestTimedActivity_Tick(t *testing.T) {
	start := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	sess := NewContext(func() time.Time { return start }, nil)
	defer sess.CancelTimedActivity()

	_, started := sess.StartTimedActivity(10 * time.Minute)
	require.True(t, started)

	status, active := sess.TickTimedActivity(start.Add(4 * time.Minute))
	require.True(t, active)
	require.Equal(t, int64(6*60*1000), status.RemainingMS)
	require.InDelta(t, 40, status.PercentComplete, 1e-9)

	// Past the end the countdown pins at done.
	status, active = sess.TickTimedActivity(start.Add(15 * time.Minute))
	require.True(t, active)
	require.Zero(t, status.RemainingMS)
	require.InDelta(t, 100, status.PercentComplete, 1e-9)
}

func TestTimedActivity_TickWhenInactive(t *testing.T) {
	sess := NewContext(nil, nil)

	_, active := sess.TickTimedActivity(time.Now())
	require.False(t, active)
}

func TestTimedActivity_Cancel(t *testing.T) {
	sess := NewContext(nil, nil)

	_, started := sess.StartTimedActivity(time.Hour)
	require.True(t, started)

	sess.CancelTimedActivity()
	_, active := sess.TickTimedActivity(time.Now())
	require.False(t, active)

	// Cancel with nothing active is a no-op.
	sess.CancelTimedActivity()

	// The slot is free again.
	_, started = sess.StartTimedActivity(time.Minute)
	require.True(t, started)
	sess.CancelTimedActivity()
}

func TestTimedActivity_LoopExpiresSlot(t *testing.T) {
	sess := NewContext(nil, nil)

	// The countdown is over well before the first loop tick, which then
	// clears the slot.
	_, started := sess.StartTimedActivity(time.Millisecond)
	require.True(t, started)

	require.Eventually(t, func() bool {
		_, active := sess.TickTimedActivity(time.Now())
		return !active
	}, 5*time.Second, 50*time.Millisecond)
}
