package notify

import (
	"context"
	"encoding/json"
	"fmt"
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

// fakeNotifyBackend serves a mutable unread count and item list.
type fakeNotifyBackend struct {
	count int
	items []model.Notification
}

func (b *fakeNotifyBackend) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/notifications/unread-count", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"count": %d}`, b.count)
	})
	mux.HandleFunc("/api/notifications", func(w http.ResponseWriter, r *http.Request) {
		items := b.items
		if r.URL.Query().Get("unread_only") == "true" {
			var unread []model.Notification
			for _, n := range items {
				if !n.Read {
					unread = append(unread, n)
				}
			}
			items = unread
		}
		json.NewEncoder(w).Encode(items)
	})
	return mux
}

func testLog() *logrus.Entry {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logrus.NewEntry(logger)
}

func newTestPoller(t *testing.T, backend *fakeNotifyBackend) *Poller {
	t.Helper()
	srv := httptest.NewServer(backend.handler())
	t.Cleanup(srv.Close)
	client := api.NewClient(model.ServerConfig{BaseURL: srv.URL, TimeoutSec: 5}, nil)
	return New(client, 60, testLog())
}

func highFit(id int64) model.Notification {
	return model.Notification{
		ID:        id,
		Type:      model.NotificationHighFitMatch,
		Title:     "High fit match",
		CreatedAt: time.Date(2026, 1, 5, 10, 0, 0, 0, time.UTC),
	}
}

func TestObservedCountTracksPreviousTick(t *testing.T) {
	backend := &fakeNotifyBackend{count: 2}
	p := newTestPoller(t, backend)
	ctx := context.Background()

	msg := p.Tick(ctx)
	require.NoError(t, msg.Err)
	assert.Equal(t, 2, p.ObservedCount())

	backend.count = 5
	p.Tick(ctx)
	assert.Equal(t, 5, p.ObservedCount())

	backend.count = 1
	msg = p.Tick(ctx)
	assert.Equal(t, 1, p.ObservedCount(), "count must update even when it shrinks")
	assert.Empty(t, msg.Toasts)
}

func TestOnlyNewHighFitItemsToast(t *testing.T) {
	backend := &fakeNotifyBackend{count: 2, items: []model.Notification{
		highFit(2), highFit(1),
	}}
	p := newTestPoller(t, backend)
	ctx := context.Background()

	// First tick observes the baseline of 2.
	require.Empty(t, p.Tick(ctx).Toasts)

	// 2 → 5: three new items arrive, newest first; one is not high-fit.
	backend.count = 5
	backend.items = append([]model.Notification{
		highFit(5),
		{ID: 4, Type: model.NotificationScrapeComplete},
		highFit(3),
	}, backend.items...)

	msg := p.Tick(ctx)
	require.NoError(t, msg.Err)
	require.Len(t, msg.Toasts, 2, "only the new high-fit items may toast")
	assert.Equal(t, int64(5), msg.Toasts[0].Notification.ID)
	assert.Equal(t, int64(3), msg.Toasts[1].Notification.ID)
	assert.NotEqual(t, msg.Toasts[0].ID, msg.Toasts[1].ID)
}

func TestToastsCappedAtThree(t *testing.T) {
	backend := &fakeNotifyBackend{count: 0}
	p := newTestPoller(t, backend)
	ctx := context.Background()

	require.Empty(t, p.Tick(ctx).Toasts)

	backend.count = 6
	for i := int64(6); i >= 1; i-- {
		backend.items = append(backend.items, highFit(i))
	}

	msg := p.Tick(ctx)
	assert.Len(t, msg.Toasts, 3)
}

func TestFirstTickSeedsBaselineWithoutToasts(t *testing.T) {
	backend := &fakeNotifyBackend{count: 3, items: []model.Notification{
		highFit(3), highFit(2), highFit(1),
	}}
	p := newTestPoller(t, backend)
	ctx := context.Background()

	// Unread items that predate the poller are a baseline, not news.
	msg := p.Tick(ctx)
	require.NoError(t, msg.Err)
	assert.Empty(t, msg.Toasts)
	assert.Equal(t, 3, p.ObservedCount())

	backend.count = 4
	backend.items = append([]model.Notification{highFit(4)}, backend.items...)

	msg = p.Tick(ctx)
	require.Len(t, msg.Toasts, 1)
	assert.Equal(t, int64(4), msg.Toasts[0].Notification.ID)
}

func TestPollerRestartsAfterStop(t *testing.T) {
	backend := &fakeNotifyBackend{count: 2, items: []model.Notification{
		highFit(2), highFit(1),
	}}
	srv := httptest.NewServer(backend.handler())
	t.Cleanup(srv.Close)
	client := api.NewClient(model.ServerConfig{BaseURL: srv.URL, TimeoutSec: 5}, nil)
	p := New(client, 1, testLog())

	cmd := p.Start()
	require.NotNil(t, cmd)
	first, ok := cmd().(TickMsg)
	require.True(t, ok)
	require.NoError(t, first.Err)
	p.Stop()
	assert.Equal(t, 0, p.ObservedCount(), "stopping drops the session baseline")

	// A second session must poll again: priming tick, then the ticker.
	cmd = p.Start()
	require.NotNil(t, cmd)
	primed, ok := cmd().(TickMsg)
	require.True(t, ok)
	require.NoError(t, primed.Err)
	assert.Empty(t, primed.Toasts)

	periodic := make(chan TickMsg, 1)
	go func() {
		if msg, ok := p.WaitForNextResult()().(TickMsg); ok {
			periodic <- msg
		}
	}()
	select {
	case msg := <-periodic:
		require.NoError(t, msg.Err)
		assert.Equal(t, 2, msg.Count)
	case <-time.After(3 * time.Second):
		t.Fatal("no periodic tick after restart")
	}
	p.Stop()
}

func TestTickErrorKeepsObservedCount(t *testing.T) {
	backend := &fakeNotifyBackend{count: 4}
	p := newTestPoller(t, backend)
	ctx := context.Background()

	require.NoError(t, p.Tick(ctx).Err)
	require.Equal(t, 4, p.ObservedCount())

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()
	failing := New(api.NewClient(model.ServerConfig{BaseURL: srv.URL, TimeoutSec: 5}, nil), 60, testLog())
	failing.lastCount = 4

	msg := failing.Tick(ctx)
	assert.Error(t, msg.Err)
	assert.Equal(t, 4, failing.ObservedCount())
}
