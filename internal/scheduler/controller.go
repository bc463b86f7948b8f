// Package scheduler drives the auto-scrape scheduler view: a three-state
// toggle persisted as one combined update, a locally decremented
// countdown, and a fixed run-now window that ends on a timer rather
// than on server completion.
package scheduler

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"github.com/hnguyen/recruitmail/internal/api"
	"github.com/hnguyen/recruitmail/internal/model"
)

// State is the scheduler's position as shown in the view.
type State int

const (
	StateDisabled State = iota
	StateEnabledIdle
	StateEnabledRunning
)

func (s State) String() string {
	switch s {
	case StateDisabled:
		return "disabled"
	case StateEnabledIdle:
		return "enabled"
	case StateEnabledRunning:
		return "running"
	default:
		return "unknown"
	}
}

const (
	fetchTimeout = 15 * time.Second

	// runWindow is how long the view shows the running state after a
	// manual trigger, independent of when the server actually finishes.
	runWindow = 3 * time.Second

	// DefaultReconcileInterval is how often the countdown is reconciled
	// against the server while the view is active, unless configured.
	DefaultReconcileInterval = 30 * time.Second
)

// StatusMsg is a tea.Msg carrying a status poll.
type StatusMsg struct {
	Config *model.SchedulerConfig
	Err    error
}

// SavedMsg is a tea.Msg confirming a combined config update.
type SavedMsg struct {
	Config *model.SchedulerConfig
	Err    error
}

// RunTriggeredMsg is a tea.Msg carrying the run-now request's outcome.
// It does not end the running window; RunWindowElapsedMsg does.
type RunTriggeredMsg struct {
	Err error
}

// RunWindowElapsedMsg is a tea.Msg sent when the fixed running window
// ends.
type RunWindowElapsedMsg struct{}

// Controller owns the scheduler view state.
type Controller struct {
	client    *api.Client
	log       *logrus.Entry
	reconcile time.Duration

	cfg       model.SchedulerConfig
	running   bool // manual run window active
	countdown int  // seconds, decremented locally
}

// NewController creates a controller with no config loaded yet.
// reconcileSec sets the active-view reconcile poll; below 1 it falls
// back to the default.
func NewController(client *api.Client, reconcileSec int, log *logrus.Entry) *Controller {
	reconcile := DefaultReconcileInterval
	if reconcileSec >= 1 {
		reconcile = time.Duration(reconcileSec) * time.Second
	}
	return &Controller{client: client, log: log, reconcile: reconcile}
}

// ReconcileEvery returns the configured reconcile poll interval.
func (c *Controller) ReconcileEvery() time.Duration {
	return c.reconcile
}

// State derives the displayed state.
func (c *Controller) State() State {
	switch {
	case c.running:
		return StateEnabledRunning
	case c.cfg.Enabled:
		return StateEnabledIdle
	default:
		return StateDisabled
	}
}

// Config returns the last known configuration.
func (c *Controller) Config() model.SchedulerConfig {
	return c.cfg
}

// Countdown returns the locally tracked seconds until the next run.
func (c *Controller) Countdown() int {
	return c.countdown
}

// Load returns a tea.Cmd polling the scheduler status. Also used by the
// periodic reconcile while the view is active.
func (c *Controller) Load() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()

		cfg, err := c.client.SchedulerStatus(ctx)
		return StatusMsg{Config: cfg, Err: err}
	}
}

// HandleStatus adopts server truth: config values and the countdown.
// The local countdown is display-only and yields to this on every poll.
func (c *Controller) HandleStatus(msg StatusMsg) {
	if msg.Err != nil {
		c.log.WithError(msg.Err).Warn("scheduler status poll failed")
		return
	}
	c.cfg = *msg.Config
	c.countdown = msg.Config.NextRunSeconds
}

// Save persists the full form in one request: the enabled flag and the
// interval/folder/filter values always travel together, so a toggle
// can never race a form edit.
func (c *Controller) Save(cfg model.SchedulerConfig) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()

		saved, err := c.client.SaveSchedulerConfig(ctx, cfg)
		return SavedMsg{Config: saved, Err: err}
	}
}

// Toggle flips the enabled flag, carrying the current form values along.
func (c *Controller) Toggle(form model.SchedulerConfig) tea.Cmd {
	form.Enabled = !c.cfg.Enabled
	return c.Save(form)
}

// HandleSaved adopts the confirmed configuration. On failure the local
// state stays as the server left it.
func (c *Controller) HandleSaved(msg SavedMsg) {
	if msg.Err != nil {
		c.log.WithError(msg.Err).Warn("saving scheduler config failed")
		return
	}
	c.cfg = *msg.Config
	c.countdown = msg.Config.NextRunSeconds
}

// RunNow triggers an immediate cycle. The view enters the running state
// for a fixed window; when it elapses the status is re-polled, whether
// or not the server finished.
func (c *Controller) RunNow() tea.Cmd {
	c.running = true

	trigger := func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()
		return RunTriggeredMsg{Err: c.client.RunSchedulerNow(ctx)}
	}
	window := tea.Tick(runWindow, func(time.Time) tea.Msg {
		return RunWindowElapsedMsg{}
	})

	return tea.Batch(trigger, window)
}

// HandleRunTriggered logs a failed trigger; the window still runs its
// course.
func (c *Controller) HandleRunTriggered(msg RunTriggeredMsg) {
	if msg.Err != nil {
		c.log.WithError(msg.Err).Warn("run-now request failed")
	}
}

// HandleRunWindowElapsed leaves the running state and re-polls.
func (c *Controller) HandleRunWindowElapsed() tea.Cmd {
	c.running = false
	return c.Load()
}

// TickCountdown decrements the local countdown by one second, flooring
// at zero. Called by the view's one-second tick.
func (c *Controller) TickCountdown() {
	if c.countdown > 0 {
		c.countdown--
	}
}
