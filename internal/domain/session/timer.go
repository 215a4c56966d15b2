package session

import (
	"time"

	"github.com/google/uuid"
)

// tickInterval is how often the background loop advances the countdown.
const tickInterval = time.Second

// TimedActivity is the single global timed-activity slot.
type TimedActivity struct {
	ID        string        `json:"id"`
	StartTime time.Time     `json:"start_time"`
	Duration  time.Duration `json:"duration"`
}

// TickStatus reports countdown progress for one tick.
type TickStatus struct {
	ActivityID      string  `json:"activity_id"`
	RemainingMS     int64   `json:"remaining_ms"`
	PercentComplete float64 `json:"percent_complete"`
}

// StartTimedActivity occupies the timed-activity slot and starts the tick
// loop. Starting while an activity is active is a no-op; the existing
// activity's ID is returned with started=false.
func (c *Context) StartTimedActivity(d time.Duration) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.activity != nil {
		return c.activity.ID, false
	}

	act := &TimedActivity{
		ID:        uuid.NewString(),
		StartTime: c.clock(),
		Duration:  d,
	}
	stop := make(chan struct{})
	c.activity = act
	c.stop = stop

	go c.runTickLoop(act.ID, stop)
	return act.ID, true
}

// CancelTimedActivity clears the slot and releases the tick loop
// immediately. Safe to call when nothing is active.
func (c *Context) CancelTimedActivity() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.clearActivityLocked()
}

// TickTimedActivity reports countdown progress at the given instant.
// Returns false when no activity is active.
func (c *Context) TickTimedActivity(now time.Time) (TickStatus, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.activity == nil {
		return TickStatus{}, false
	}

	elapsed := now.Sub(c.activity.StartTime)
	remaining := c.activity.Duration - elapsed
	if remaining < 0 {
		remaining = 0
	}
	percent := 100.0
	if c.activity.Duration > 0 && remaining > 0 {
		percent = float64(elapsed) / float64(c.activity.Duration) * 100
	}
	return TickStatus{
		ActivityID:      c.activity.ID,
		RemainingMS:     remaining.Milliseconds(),
		PercentComplete: percent,
	}, true
}

// ActiveTimedActivity returns a copy of the active slot, if any.
func (c *Context) ActiveTimedActivity() (TimedActivity, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.activity == nil {
		return TimedActivity{}, false
	}
	return *c.activity, true
}

func (c *Context) runTickLoop(activityID string, stop chan struct{}) {
	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			status, active := c.TickTimedActivity(c.clock())
			if !active || status.ActivityID != activityID {
				return
			}
			if c.onTick != nil {
				c.onTick(status)
			}
			if status.RemainingMS <= 0 {
				c.expire(activityID)
				return
			}
		}
	}
}

// expire clears the slot once the countdown reaches zero, unless the slot
// was already replaced or cancelled.
func (c *Context) expire(activityID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.activity == nil || c.activity.ID != activityID {
		return
	}
	c.clearActivityLocked()
}

func (c *Context) clearActivityLocked() {
	if c.stop != nil {
		close(c.stop)
		c.stop = nil
	}
	c.activity = nil
}
