package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hnguyen/recruitmail/internal/model"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c := NewClient(model.ServerConfig{BaseURL: srv.URL, TimeoutSec: 5}, nil)
	return c, srv
}

func TestClientRetriesOn429(t *testing.T) {
	var calls int32
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.Header().Set("Retry-After", "0")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		fmt.Fprint(w, `{"count": 7}`)
	}))

	var out struct {
		Count int `json:"count"`
	}
	err := c.Get(context.Background(), "/api/notifications/unread-count", &out)
	require.NoError(t, err)
	assert.Equal(t, 7, out.Count)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestClientUnauthorizedIsAuthError(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"detail": "not authenticated"}`)
	}))

	err := c.Get(context.Background(), "/api/folders", nil)
	require.Error(t, err)
	assert.True(t, IsAuthError(err))
	assert.Contains(t, err.Error(), "not authenticated")
}

func TestClientWrapsBackendErrorDetail(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		fmt.Fprint(w, `{"detail": "max_results must be at most 500"}`)
	}))

	err := c.Post(context.Background(), "/api/scrape", map[string]int{"max_results": 900}, nil)
	require.Error(t, err)
	assert.False(t, IsAuthError(err))
	assert.Contains(t, err.Error(), "max_results must be at most 500")
}

func TestQueryOmitsEmptyValues(t *testing.T) {
	q := newQuery().
		set("search", "").
		set("folder_id", "inbox").
		setInt("skip", 0).
		setInt("top", 25)

	encoded := q.encode()
	assert.Contains(t, encoded, "folder_id=inbox")
	assert.Contains(t, encoded, "skip=0")
	assert.Contains(t, encoded, "top=25")
	assert.NotContains(t, encoded, "search")

	assert.Equal(t, "", newQuery().set("search", "").encode())
}

func TestDispositionFilename(t *testing.T) {
	assert.Equal(t, "resume.pdf",
		dispositionFilename(`attachment; filename="resume.pdf"`))
	assert.Equal(t, "", dispositionFilename(""))
	assert.Equal(t, "", dispositionFilename("not a header;;;"))
}

func TestClearDataRequiresExactConfirmation(t *testing.T) {
	var calls int32
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusNoContent)
	}))

	ctx := context.Background()
	assert.ErrorIs(t, c.ClearData(ctx, "confirm"), ErrConfirmRequired)
	assert.ErrorIs(t, c.ClearData(ctx, ""), ErrConfirmRequired)
	assert.ErrorIs(t, c.ClearData(ctx, "Confirm"), ErrConfirmRequired)
	assert.Equal(t, int32(0), atomic.LoadInt32(&calls), "no request may be sent without confirmation")

	require.NoError(t, c.ClearData(ctx, "CONFIRM"))
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestLoginValidatesBeforeRequest(t *testing.T) {
	var calls int32
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusOK)
	}))

	_, err := c.Login(context.Background(), "not-an-email", "hunter2")
	require.Error(t, err)
	assert.Equal(t, int32(0), atomic.LoadInt32(&calls))

	s, err := c.Login(context.Background(), "recruiter@example.com", "hunter2")
	require.NoError(t, err)
	assert.True(t, s.Authenticated)
	assert.Equal(t, model.AuthMethodPassword, s.Method)
	assert.Equal(t, "recruiter", s.User.Name)
}

func TestUpdateCandidateTagsSendsEmptySliceForNil(t *testing.T) {
	var got tagsUpdate
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPatch, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, `{}`)
	}))

	require.NoError(t, c.UpdateCandidateTags(context.Background(), 4, nil))
	require.NotNil(t, got.Tags)
	assert.Empty(t, got.Tags)
}
