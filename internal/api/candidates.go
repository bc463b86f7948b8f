package api

import (
	"context"
	"fmt"

	"github.com/hnguyen/recruitmail/internal/model"
)

// notesUpdate carries the full replacement notes value.
type notesUpdate struct {
	Notes string `json:"notes"`
}

// tagsUpdate carries the full replacement tag set.
type tagsUpdate struct {
	Tags []string `json:"tags"`
}

// ListCandidates fetches candidates, optionally filtered by a free-text
// search over name, skills, and titles.
func (c *Client) ListCandidates(ctx context.Context, search string) ([]model.Candidate, error) {
	qs := newQuery().set("search", search)

	var candidates []model.Candidate
	if err := c.Get(ctx, "/api/candidates"+qs.encode(), &candidates); err != nil {
		return nil, err
	}
	return candidates, nil
}

// GetCandidate fetches the detailed profile for one candidate.
func (c *Client) GetCandidate(ctx context.Context, id int64) (*model.Candidate, error) {
	var candidate model.Candidate
	if err := c.Get(ctx, fmt.Sprintf("/api/candidates/%d", id), &candidate); err != nil {
		return nil, err
	}
	return &candidate, nil
}

// UpdateCandidateNotes persists the full replacement notes text.
func (c *Client) UpdateCandidateNotes(ctx context.Context, id int64, notes string) error {
	path := fmt.Sprintf("/api/candidates/%d/notes", id)
	return c.Patch(ctx, path, notesUpdate{Notes: notes}, nil)
}

// UpdateCandidateTags persists the full replacement tag set.
func (c *Client) UpdateCandidateTags(ctx context.Context, id int64, tags []string) error {
	if tags == nil {
		tags = []string{}
	}
	path := fmt.Sprintf("/api/candidates/%d/tags", id)
	return c.Patch(ctx, path, tagsUpdate{Tags: tags}, nil)
}
