package scheduler

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hnguyen/recruitmail/internal/api"
	"github.com/hnguyen/recruitmail/internal/model"
)

func testLog() *logrus.Entry {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logrus.NewEntry(logger)
}

// fakeSchedulerBackend records saved configs and serves its current one.
type fakeSchedulerBackend struct {
	cfg   model.SchedulerConfig
	saves []model.SchedulerConfig
}

func (b *fakeSchedulerBackend) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/scheduler/status", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(b.cfg)
	})
	mux.HandleFunc("/api/scheduler/config", func(w http.ResponseWriter, r *http.Request) {
		var cfg model.SchedulerConfig
		json.NewDecoder(r.Body).Decode(&cfg)
		b.saves = append(b.saves, cfg)
		b.cfg = cfg
		json.NewEncoder(w).Encode(cfg)
	})
	mux.HandleFunc("/api/scheduler/run-now", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return mux
}

func newTestController(t *testing.T, backend *fakeSchedulerBackend) *Controller {
	t.Helper()
	srv := httptest.NewServer(backend.handler())
	t.Cleanup(srv.Close)
	client := api.NewClient(model.ServerConfig{BaseURL: srv.URL, TimeoutSec: 5}, nil)
	return NewController(client, 0, testLog())
}

func TestReconcileIntervalConfigurable(t *testing.T) {
	backend := &fakeSchedulerBackend{}
	srv := httptest.NewServer(backend.handler())
	t.Cleanup(srv.Close)
	client := api.NewClient(model.ServerConfig{BaseURL: srv.URL, TimeoutSec: 5}, nil)

	assert.Equal(t, DefaultReconcileInterval, NewController(client, 0, testLog()).ReconcileEvery())
	assert.Equal(t, 10*time.Second, NewController(client, 10, testLog()).ReconcileEvery())
}

func TestStateDerivation(t *testing.T) {
	backend := &fakeSchedulerBackend{cfg: model.SchedulerConfig{
		Enabled: false, IntervalMinutes: 30,
	}}
	c := newTestController(t, backend)

	c.HandleStatus(c.Load()().(StatusMsg))
	assert.Equal(t, StateDisabled, c.State())

	backend.cfg.Enabled = true
	backend.cfg.NextRunSeconds = 120
	c.HandleStatus(c.Load()().(StatusMsg))
	assert.Equal(t, StateEnabledIdle, c.State())
	assert.Equal(t, 120, c.Countdown())
}

func TestToggleSendsOneCombinedUpdate(t *testing.T) {
	backend := &fakeSchedulerBackend{cfg: model.SchedulerConfig{
		Enabled: false, IntervalMinutes: 30, Folder: "inbox",
	}}
	c := newTestController(t, backend)
	c.HandleStatus(c.Load()().(StatusMsg))

	form := model.SchedulerConfig{
		IntervalMinutes: 45,
		Folder:          "inbox",
		SubjectFilter:   "application",
	}
	msg := c.Toggle(form)().(SavedMsg)
	require.NoError(t, msg.Err)
	c.HandleSaved(msg)

	// One request carried both the flipped flag and the form values.
	require.Len(t, backend.saves, 1)
	assert.True(t, backend.saves[0].Enabled)
	assert.Equal(t, 45, backend.saves[0].IntervalMinutes)
	assert.Equal(t, "application", backend.saves[0].SubjectFilter)
	assert.Equal(t, StateEnabledIdle, c.State())
}

func TestSaveRejectsInvalidInterval(t *testing.T) {
	backend := &fakeSchedulerBackend{}
	c := newTestController(t, backend)

	msg := c.Save(model.SchedulerConfig{IntervalMinutes: 0})().(SavedMsg)
	require.Error(t, msg.Err)
	assert.Empty(t, backend.saves, "invalid config must not reach the server")
}

func TestRunNowWindow(t *testing.T) {
	backend := &fakeSchedulerBackend{cfg: model.SchedulerConfig{
		Enabled: true, IntervalMinutes: 30, NextRunSeconds: 60,
	}}
	c := newTestController(t, backend)
	c.HandleStatus(c.Load()().(StatusMsg))

	require.NotNil(t, c.RunNow())
	assert.Equal(t, StateEnabledRunning, c.State())

	// The window elapsing leaves the running state and re-polls.
	reload := c.HandleRunWindowElapsed()
	require.NotNil(t, reload)
	assert.Equal(t, StateEnabledIdle, c.State())

	c.HandleStatus(reload().(StatusMsg))
	assert.Equal(t, 60, c.Countdown())
}

func TestCountdownTicksAndReconciles(t *testing.T) {
	backend := &fakeSchedulerBackend{cfg: model.SchedulerConfig{
		Enabled: true, IntervalMinutes: 30, NextRunSeconds: 3,
	}}
	c := newTestController(t, backend)
	c.HandleStatus(c.Load()().(StatusMsg))

	c.TickCountdown()
	c.TickCountdown()
	assert.Equal(t, 1, c.Countdown())

	// Flooring at zero.
	c.TickCountdown()
	c.TickCountdown()
	assert.Equal(t, 0, c.Countdown())

	// Server truth wins on the next poll.
	backend.cfg.NextRunSeconds = 1800
	c.HandleStatus(c.Load()().(StatusMsg))
	assert.Equal(t, 1800, c.Countdown())
}

func TestStatusPollFailureKeepsLocalState(t *testing.T) {
	backend := &fakeSchedulerBackend{cfg: model.SchedulerConfig{
		Enabled: true, IntervalMinutes: 30, NextRunSeconds: 90,
	}}
	c := newTestController(t, backend)
	c.HandleStatus(c.Load()().(StatusMsg))

	c.HandleStatus(StatusMsg{Err: assert.AnError})
	assert.Equal(t, StateEnabledIdle, c.State())
	assert.Equal(t, 90, c.Countdown())
}
