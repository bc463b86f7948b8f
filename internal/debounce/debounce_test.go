package debounce

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// manualClock collects scheduled calls and runs the due ones when the
// test advances time.
type manualClock struct {
	mu     sync.Mutex
	now    time.Time
	timers []*manualTimer
}

type manualTimer struct {
	deadline time.Time
	f        func()
	stopped  bool
	fired    bool
}

func (t *manualTimer) Stop() bool {
	t.stopped = true
	return !t.fired
}

func newManualClock() *manualClock {
	return &manualClock{now: time.Date(2026, 1, 5, 10, 0, 0, 0, time.UTC)}
}

func (c *manualClock) AfterFunc(d time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &manualTimer{deadline: c.now.Add(d), f: f}
	c.timers = append(c.timers, t)
	return t
}

func (c *manualClock) advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	var due []*manualTimer
	for _, t := range c.timers {
		if !t.stopped && !t.fired && !t.deadline.After(c.now) {
			t.fired = true
			due = append(due, t)
		}
	}
	c.mu.Unlock()

	for _, t := range due {
		t.f()
	}
}

func TestRawUpdatesImmediately(t *testing.T) {
	clock := newManualClock()
	d := NewWithClock(clock, DefaultWindow, nil)

	d.Set("an")
	assert.Equal(t, "an", d.Raw())
	assert.Equal(t, "", d.Committed())
}

func TestOneFetchPerQuiescenceWindow(t *testing.T) {
	clock := newManualClock()
	var fired []string
	d := NewWithClock(clock, DefaultWindow, func(v string) { fired = append(fired, v) })

	d.Set("anna")
	clock.advance(100 * time.Millisecond)
	d.Set("annab")
	clock.advance(300 * time.Millisecond)

	require.Len(t, fired, 1)
	assert.Equal(t, "annab", fired[0])
	assert.Equal(t, "annab", d.Committed())
}

func TestNoFireWhenValueSettlesBack(t *testing.T) {
	clock := newManualClock()
	var fired []string
	d := NewWithClock(clock, DefaultWindow, func(v string) { fired = append(fired, v) })

	d.Set("x")
	clock.advance(300 * time.Millisecond)
	require.Len(t, fired, 1)

	d.Set("xy")
	clock.advance(100 * time.Millisecond)
	d.Set("x")
	clock.advance(300 * time.Millisecond)

	assert.Len(t, fired, 1, "settling back to the committed value must not refetch")
}

func TestSubmitBypassesWindow(t *testing.T) {
	clock := newManualClock()
	var fired []string
	d := NewWithClock(clock, DefaultWindow, func(v string) { fired = append(fired, v) })

	d.Set("golang")
	d.Submit()

	require.Len(t, fired, 1)
	assert.Equal(t, "golang", fired[0])

	// The cancelled timer must not fire a second time.
	clock.advance(time.Second)
	assert.Len(t, fired, 1)
}

func TestSubmitRefiresUnchangedValue(t *testing.T) {
	clock := newManualClock()
	var fired []string
	d := NewWithClock(clock, DefaultWindow, func(v string) { fired = append(fired, v) })

	d.Set("golang")
	clock.advance(300 * time.Millisecond)
	require.Equal(t, []string{"golang"}, fired)

	// Enter on an already-committed value forces a fresh fetch.
	d.Submit()
	assert.Equal(t, []string{"golang", "golang"}, fired)
}

func TestStopCancelsPendingCommit(t *testing.T) {
	clock := newManualClock()
	var fired []string
	d := NewWithClock(clock, DefaultWindow, func(v string) { fired = append(fired, v) })

	d.Set("late")
	d.Stop()
	clock.advance(time.Second)

	assert.Empty(t, fired)
	assert.Equal(t, "", d.Committed())

	// Post-stop sets are ignored entirely.
	d.Set("after")
	clock.advance(time.Second)
	assert.Empty(t, fired)
}
