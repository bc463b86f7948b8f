package notify

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hnguyen/recruitmail/internal/api"
	"github.com/hnguyen/recruitmail/internal/model"
)

func newTestCenter(t *testing.T) *Center {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(srv.Close)
	client := api.NewClient(model.ServerConfig{BaseURL: srv.URL, TimeoutSec: 5}, nil)
	return NewCenter(client, testLog())
}

func TestMarkReadDecrementsBeforeConfirmation(t *testing.T) {
	c := newTestCenter(t)
	c.SetCount(3)
	c.HandleList(ListMsg{Items: []model.Notification{
		{ID: 1}, {ID: 2},
	}})

	cmd := c.MarkRead(1)
	assert.Equal(t, 2, c.Count(), "badge must drop before the request resolves")
	assert.True(t, c.Items()[0].Read)
	assert.False(t, c.Items()[1].Read)

	msg := cmd().(ReadResultMsg)
	require.NoError(t, msg.Err)
	assert.Equal(t, int64(1), msg.ID)
}

func TestMarkReadFloorsAtZero(t *testing.T) {
	c := newTestCenter(t)
	c.SetCount(0)
	c.MarkRead(9)
	assert.Equal(t, 0, c.Count())
}

func TestMarkAllReadZeroesBeforeConfirmation(t *testing.T) {
	c := newTestCenter(t)
	c.SetCount(5)
	c.HandleList(ListMsg{Items: []model.Notification{{ID: 1}, {ID: 2}}})

	cmd := c.MarkAllRead()
	assert.Equal(t, 0, c.Count())
	for _, n := range c.Items() {
		assert.True(t, n.Read)
	}

	msg := cmd().(ReadResultMsg)
	require.NoError(t, msg.Err)
	assert.True(t, msg.All)
}

func TestClearReadDropsReadItemsLocally(t *testing.T) {
	c := newTestCenter(t)
	c.HandleList(ListMsg{Items: []model.Notification{
		{ID: 1, Read: true},
		{ID: 2},
		{ID: 3, Read: true},
	}})

	c.ClearRead()
	require.Len(t, c.Items(), 1)
	assert.Equal(t, int64(2), c.Items()[0].ID)
}

func TestHandleListKeepsItemsOnError(t *testing.T) {
	c := newTestCenter(t)
	c.HandleList(ListMsg{Items: []model.Notification{{ID: 1}}})
	c.HandleList(ListMsg{Err: assert.AnError})
	assert.Len(t, c.Items(), 1)
}
