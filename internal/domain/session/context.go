// Package session holds process-lifetime scheduler state: items ignored
// for the rest of the run, per-item in-session review counts, and the
// single timed-activity slot. Nothing here is ever persisted.
package session

import (
	"sync"
	"time"
)

// Context is the session-scoped state passed into selector and review
// calls. It is an explicit handle, never a hidden singleton, and is safe
// for use from interleaved handler calls.
type Context struct {
	mu           sync.Mutex
	ignored      map[string]struct{}
	reviewCounts map[string]int

	clock  func() time.Time
	onTick func(TickStatus)

	activity *TimedActivity
	stop     chan struct{}
}

// NewContext creates an empty session context. clock defaults to time.Now.
// onTick, if non-nil, is invoked on every timed-activity tick.
func NewContext(clock func() time.Time, onTick func(TickStatus)) *Context {
	if clock == nil {
		clock = time.Now
	}
	return &Context{
		ignored:      map[string]struct{}{},
		reviewCounts: map[string]int{},
		clock:        clock,
		onTick:       onTick,
	}
}

// Ignore excludes an item from selection for the rest of the session.
func (c *Context) Ignore(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ignored[key] = struct{}{}
}

// IsIgnored reports whether the item was ignored this session.
func (c *Context) IsIgnored(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.ignored[key]
	return ok
}

// CountReview bumps the in-session review counter for an item. Every
// recorded click counts here, including an item's first.
func (c *Context) CountReview(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.reviewCounts[key]++
}

// ReviewCount returns how many times the item was reviewed this session.
func (c *Context) ReviewCount(key string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.reviewCounts[key]
}
