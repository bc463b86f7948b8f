package candidates

import (
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
	"github.com/hnguyen/recruitmail/tests/testutil"
)

func testLog() *logrus.Entry {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logrus.NewEntry(logger)
}

func newTestCollection(t *testing.T, handler http.Handler) *Collection {
	t.Helper()
	if handler == nil {
		handler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		})
	}
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	client := api.NewClient(model.ServerConfig{BaseURL: srv.URL, TimeoutSec: 5}, nil)
	return NewCollection(client, testutil.NewTestStore(t), testLog())
}

func seed(t *testing.T, c *Collection) {
	t.Helper()
	c.HandleLoaded(LoadedMsg{Candidates: []model.Candidate{
		{
			ID: 1, Name: "Ana Petrov", Notes: "phone screen done",
			Tags:      []string{"Shortlist"},
			CreatedAt: time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC),
		},
		{
			ID: 2, Name: "Ben Okafor",
			CreatedAt: time.Date(2026, 1, 12, 9, 0, 0, 0, time.UTC),
		},
	}})
}

func TestLoadedReplacesAndKeepsOrder(t *testing.T) {
	c := newTestCollection(t, nil)
	seed(t, c)

	all := c.All()
	require.Len(t, all, 2)
	assert.Equal(t, "Ana Petrov", all[0].Name)

	// A failed reload leaves the collection untouched.
	c.HandleLoaded(LoadedMsg{Err: assert.AnError})
	assert.Len(t, c.All(), 2)
}

func TestNotesDraftSeparateFromConfirmed(t *testing.T) {
	c := newTestCollection(t, nil)
	seed(t, c)

	c.EditNotes(1, "phone screen done; schedule onsite")
	assert.Equal(t, "phone screen done; schedule onsite", c.NotesDraft(1))

	got, _ := c.Get(1)
	assert.Equal(t, "phone screen done", got.Notes, "confirmed value must not change before commit")
}

func TestCommitNotesSkipsUnchangedDraft(t *testing.T) {
	c := newTestCollection(t, nil)
	seed(t, c)

	assert.Nil(t, c.CommitNotes(1), "no draft, nothing to send")

	c.EditNotes(1, "phone screen done")
	assert.Nil(t, c.CommitNotes(1), "draft equal to confirmed value, nothing to send")
}

func TestCommitNotesFoldsOnSuccess(t *testing.T) {
	c := newTestCollection(t, nil)
	seed(t, c)

	c.EditNotes(1, "onsite scheduled")
	cmd := c.CommitNotes(1)
	require.NotNil(t, cmd)

	msg := cmd().(NotesSavedMsg)
	require.NoError(t, msg.Err)
	c.HandleNotesSaved(msg)

	got, _ := c.Get(1)
	assert.Equal(t, "onsite scheduled", got.Notes)
}

func TestCommitNotesFailureKeepsDraftAndConfirmed(t *testing.T) {
	c := newTestCollection(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	seed(t, c)

	c.EditNotes(1, "onsite scheduled")
	msg := c.CommitNotes(1)().(NotesSavedMsg)
	require.Error(t, msg.Err)
	c.HandleNotesSaved(msg)

	got, _ := c.Get(1)
	assert.Equal(t, "phone screen done", got.Notes)
	assert.Equal(t, "onsite scheduled", c.NotesDraft(1), "draft must survive a failed commit")
}

func TestAddTagCaseInsensitiveDuplicateIsNoOp(t *testing.T) {
	c := newTestCollection(t, nil)
	seed(t, c)

	assert.Nil(t, c.AddTag(1, "shortlist"))
	assert.Nil(t, c.AddTag(1, "SHORTLIST"))

	got, _ := c.Get(1)
	assert.Equal(t, []string{"Shortlist"}, got.Tags)
}

func TestAddAndRemoveTagOptimistic(t *testing.T) {
	c := newTestCollection(t, nil)
	seed(t, c)

	cmd := c.AddTag(2, "interview")
	require.NotNil(t, cmd)
	got, _ := c.Get(2)
	assert.Equal(t, []string{"interview"}, got.Tags, "tag must appear before confirmation")

	msg := cmd().(TagsSavedMsg)
	require.NoError(t, msg.Err)
	c.HandleTagsSaved(msg)

	cmd = c.RemoveTag(2, "INTERVIEW")
	require.NotNil(t, cmd)
	got, _ = c.Get(2)
	assert.Empty(t, got.Tags)
}

func TestTagsRevertOnFailure(t *testing.T) {
	c := newTestCollection(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	seed(t, c)

	msg := c.AddTag(1, "remote")().(TagsSavedMsg)
	require.Error(t, msg.Err)
	c.HandleTagsSaved(msg)

	got, _ := c.Get(1)
	assert.Equal(t, []string{"Shortlist"}, got.Tags)
}
