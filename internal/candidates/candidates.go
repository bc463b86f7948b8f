// Package candidates keeps one normalized candidate collection keyed by
// id. Every view reads from it, so a notes or tag change is visible
// everywhere at once instead of being patched into per-view copies.
package candidates

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"github.com/hnguyen/recruitmail/internal/api"
	"github.com/hnguyen/recruitmail/internal/model"
	"github.com/hnguyen/recruitmail/internal/store"
)

const fetchTimeout = 30 * time.Second

// LoadedMsg is a tea.Msg carrying a candidate list fetch.
type LoadedMsg struct {
	Candidates []model.Candidate
	Err        error
}

// NotesSavedMsg is a tea.Msg confirming a notes commit.
type NotesSavedMsg struct {
	ID    int64
	Notes string
	Err   error
}

// TagsSavedMsg is a tea.Msg confirming a tag-set replacement. Prev
// carries the set to restore when the request failed.
type TagsSavedMsg struct {
	ID   int64
	Tags []string
	Prev []string
	Err  error
}

// Collection is the normalized candidate state plus its pending edits.
type Collection struct {
	client *api.Client
	mirror store.Store
	log    *logrus.Entry

	byID  map[int64]model.Candidate
	order []int64

	// notesBuf holds in-progress notes edits, separate from the
	// confirmed value until the backend accepts the commit.
	notesBuf map[int64]string
}

// NewCollection creates an empty collection.
func NewCollection(client *api.Client, mirror store.Store, log *logrus.Entry) *Collection {
	return &Collection{
		client:   client,
		mirror:   mirror,
		log:      log,
		byID:     make(map[int64]model.Candidate),
		notesBuf: make(map[int64]string),
	}
}

// Load returns a tea.Cmd fetching candidates with an optional search.
func (c *Collection) Load(search string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()

		list, err := c.client.ListCandidates(ctx, search)
		return LoadedMsg{Candidates: list, Err: err}
	}
}

// HandleLoaded replaces the collection with a fresh fetch. A failed
// fetch leaves the prior state untouched.
func (c *Collection) HandleLoaded(msg LoadedMsg) {
	if msg.Err != nil {
		c.log.WithError(msg.Err).Warn("loading candidates failed")
		return
	}

	c.byID = make(map[int64]model.Candidate, len(msg.Candidates))
	c.order = c.order[:0]
	for _, cand := range msg.Candidates {
		c.byID[cand.ID] = cand
		c.order = append(c.order, cand.ID)
	}

	ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
	defer cancel()
	if err := c.mirror.UpsertCandidates(ctx, msg.Candidates); err != nil {
		c.log.WithError(err).Warn("mirroring candidates failed")
	}
}

// All returns the candidates in fetch order.
func (c *Collection) All() []model.Candidate {
	out := make([]model.Candidate, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.byID[id])
	}
	return out
}

// Get returns one candidate by id.
func (c *Collection) Get(id int64) (model.Candidate, bool) {
	cand, ok := c.byID[id]
	return cand, ok
}

// EditNotes records an in-progress notes edit without touching the
// confirmed value.
func (c *Collection) EditNotes(id int64, text string) {
	c.notesBuf[id] = text
}

// NotesDraft returns the pending edit if one exists, otherwise the
// confirmed value.
func (c *Collection) NotesDraft(id int64) string {
	if draft, ok := c.notesBuf[id]; ok {
		return draft
	}
	return c.byID[id].Notes
}

// CommitNotes persists the pending edit on blur. When the draft matches
// the confirmed value (or there is no draft) nothing is sent.
func (c *Collection) CommitNotes(id int64) tea.Cmd {
	draft, ok := c.notesBuf[id]
	if !ok || draft == c.byID[id].Notes {
		delete(c.notesBuf, id)
		return nil
	}

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()
		err := c.client.UpdateCandidateNotes(ctx, id, draft)
		return NotesSavedMsg{ID: id, Notes: draft, Err: err}
	}
}

// HandleNotesSaved folds a confirmed commit into the canonical record.
// On failure the canonical value stays and the draft is preserved so
// the user's text is not lost.
func (c *Collection) HandleNotesSaved(msg NotesSavedMsg) {
	if msg.Err != nil {
		c.log.WithError(msg.Err).Warn("saving notes failed")
		return
	}

	cand, ok := c.byID[msg.ID]
	if !ok {
		return
	}
	cand.Notes = msg.Notes
	c.byID[msg.ID] = cand
	delete(c.notesBuf, msg.ID)

	ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
	defer cancel()
	if err := c.mirror.SetCandidateNotes(ctx, msg.ID, msg.Notes); err != nil {
		c.log.WithError(err).Warn("mirroring notes failed")
	}
}

// AddTag applies the tag locally and persists the complete new set.
// Adding a tag the candidate already has in any casing is a no-op.
func (c *Collection) AddTag(id int64, tag string) tea.Cmd {
	cand, ok := c.byID[id]
	if !ok {
		return nil
	}

	newSet := cand.WithTag(tag)
	if len(newSet) == len(cand.Tags) {
		return nil
	}
	return c.replaceTags(id, cand.Tags, newSet)
}

// RemoveTag drops the tag locally (case-insensitively) and persists the
// complete new set.
func (c *Collection) RemoveTag(id int64, tag string) tea.Cmd {
	cand, ok := c.byID[id]
	if !ok {
		return nil
	}

	newSet := cand.WithoutTag(tag)
	if len(newSet) == len(cand.Tags) {
		return nil
	}
	return c.replaceTags(id, cand.Tags, newSet)
}

func (c *Collection) replaceTags(id int64, prev, next []string) tea.Cmd {
	cand := c.byID[id]
	cand.Tags = next
	c.byID[id] = cand

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()
		err := c.client.UpdateCandidateTags(ctx, id, next)
		return TagsSavedMsg{ID: id, Tags: next, Prev: prev, Err: err}
	}
}

// HandleTagsSaved reverts the optimistic set when the backend rejected
// it, and mirrors the confirmed set otherwise.
func (c *Collection) HandleTagsSaved(msg TagsSavedMsg) {
	cand, ok := c.byID[msg.ID]
	if !ok {
		return
	}

	if msg.Err != nil {
		c.log.WithError(msg.Err).Warn("saving tags failed, reverting")
		cand.Tags = msg.Prev
		c.byID[msg.ID] = cand
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
	defer cancel()
	if err := c.mirror.SetCandidateTags(ctx, msg.ID, msg.Tags); err != nil {
		c.log.WithError(err).Warn("mirroring tags failed")
	}
}

// Reset clears the collection, used when the session ends.
func (c *Collection) Reset() {
	c.byID = make(map[int64]model.Candidate)
	c.order = nil
	c.notesBuf = make(map[int64]string)
}
