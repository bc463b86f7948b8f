package listing

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hnguyen/recruitmail/internal/api"
	"github.com/hnguyen/recruitmail/internal/model"
	"github.com/hnguyen/recruitmail/tests/testutil"
)

// fakeBackend serves a fixed listing and can be switched to fail, which
// stands in for a backend outage.
type fakeBackend struct {
	failing bool
	emails  []model.EmailSummary
	total   int
}

func (b *fakeBackend) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if b.failing {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"emails": b.emails,
			"total":  b.total,
			"skip":   0,
			"top":    25,
		})
	})
}

func testLog() *logrus.Entry {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logrus.NewEntry(logger)
}

func fixtureEmails(n int) []model.EmailSummary {
	out := make([]model.EmailSummary, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, model.EmailSummary{
			ID:       fmt.Sprintf("m%03d", i),
			Subject:  fmt.Sprintf("Application %d", i),
			Received: fmt.Sprintf("2026-01-%02dT09:00:00Z", i%27+1),
			Folder:   "inbox",
		})
	}
	return out
}

func newTestController(t *testing.T, backend *fakeBackend) *Controller {
	t.Helper()
	srv := httptest.NewServer(backend.handler())
	t.Cleanup(srv.Close)

	client := api.NewClient(model.ServerConfig{BaseURL: srv.URL, TimeoutSec: 5}, nil)
	mirror := testutil.NewTestStore(t)
	return NewController(client, mirror, 25, testLog())
}

func TestLiveFetchPopulatesListing(t *testing.T) {
	backend := &fakeBackend{emails: fixtureEmails(12), total: 12}
	c := newTestController(t, backend)

	cmd := c.SetFolder("inbox")
	msg := cmd().(ResultMsg)
	require.True(t, c.Apply(msg))

	assert.Equal(t, ModeLive, c.Mode())
	assert.Len(t, c.Emails(), 12)
	assert.Equal(t, 12, c.Total())
}

func TestFallbackServesMirrorWithIdenticalFilters(t *testing.T) {
	backend := &fakeBackend{emails: fixtureEmails(12), total: 12}
	c := newTestController(t, backend)

	// A successful live fetch seeds the mirror.
	require.True(t, c.Apply(c.SetFolder("inbox")().(ResultMsg)))

	// Outage: the next fetch must serve all 12 mirrored rows and flag
	// the cached mode.
	backend.failing = true
	msg := c.Refresh()().(ResultMsg)
	require.NoError(t, msg.Err)
	require.True(t, c.Apply(msg))

	assert.Equal(t, ModeCached, c.Mode())
	assert.Len(t, c.Emails(), 12)
}

func TestBothFailKeepsPriorListing(t *testing.T) {
	backend := &fakeBackend{emails: fixtureEmails(3), total: 3}
	c := newTestController(t, backend)

	require.True(t, c.Apply(c.SetFolder("inbox")().(ResultMsg)))

	// Outage plus a mirror miss: searching for something never cached.
	backend.failing = true
	msg := c.Search("no such candidate")().(ResultMsg)
	require.Error(t, msg.Err)

	assert.False(t, c.Apply(msg))
	assert.Len(t, c.Emails(), 3, "prior listing must stay displayed")
}

func TestLiveRecoveryClearsCachedMode(t *testing.T) {
	backend := &fakeBackend{emails: fixtureEmails(5), total: 5}
	c := newTestController(t, backend)

	require.True(t, c.Apply(c.SetFolder("inbox")().(ResultMsg)))

	backend.failing = true
	require.True(t, c.Apply(c.Refresh()().(ResultMsg)))
	require.Equal(t, ModeCached, c.Mode())

	backend.failing = false
	require.True(t, c.Apply(c.Refresh()().(ResultMsg)))
	assert.Equal(t, ModeLive, c.Mode())
}

func TestSupersededResultIsDiscarded(t *testing.T) {
	backend := &fakeBackend{emails: fixtureEmails(5), total: 5}
	c := newTestController(t, backend)

	first := c.Search("anna")
	second := c.Search("annab")

	firstMsg := first().(ResultMsg)
	secondMsg := second().(ResultMsg)

	// The older request completes last: it must not clobber the newer one.
	require.True(t, c.Apply(secondMsg))
	assert.False(t, c.Apply(firstMsg))
	assert.False(t, c.IsCurrent(firstMsg))
}

func TestPaginationClampAndBounds(t *testing.T) {
	backend := &fakeBackend{emails: fixtureEmails(25), total: 51}
	c := newTestController(t, backend)
	require.True(t, c.Apply(c.SetFolder("inbox")().(ResultMsg)))

	require.NotNil(t, c.NextPage())
	assert.Equal(t, 25, c.Query().Skip)

	// Total shrank server-side below the requested offset.
	backend.total = 10
	require.True(t, c.Apply(c.NextPage()().(ResultMsg)))
	assert.Equal(t, 0, c.Query().Skip, "window must clamp to the reported total")

	assert.Nil(t, c.PrevPage(), "first page has no previous")
	assert.Nil(t, c.NextPage(), "total of 10 fits one page")
}

func TestResetClearsState(t *testing.T) {
	backend := &fakeBackend{emails: fixtureEmails(4), total: 4}
	c := newTestController(t, backend)
	require.True(t, c.Apply(c.SetFolder("inbox")().(ResultMsg)))

	c.Reset()
	assert.Empty(t, c.Emails())
	assert.Equal(t, 0, c.Total())
	assert.Equal(t, ModeLive, c.Mode())
}
