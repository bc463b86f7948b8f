package api

import (
	"context"
	"fmt"

	"github.com/hnguyen/recruitmail/internal/model"
)

// JobCreateRequest is the job requisition form payload.
type JobCreateRequest struct {
	Title          string   `json:"title" validate:"required,max=255"`
	RequiredSkills []string `json:"required_skills"`
	MinExp         float64  `json:"min_exp" validate:"min=0,max=60"`
	Location       string   `json:"location,omitempty"`
	RemoteOK       bool     `json:"remote_ok"`
	JDRaw          string   `json:"jd_raw,omitempty"`
}

// ListJobs fetches all job requisitions.
func (c *Client) ListJobs(ctx context.Context) ([]model.JobRequisition, error) {
	var jobs []model.JobRequisition
	if err := c.Get(ctx, "/api/jobs", &jobs); err != nil {
		return nil, err
	}
	return jobs, nil
}

// CreateJob submits a new job requisition.
func (c *Client) CreateJob(ctx context.Context, req JobCreateRequest) (*model.JobRequisition, error) {
	if err := c.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("invalid job request: %w", err)
	}

	var job model.JobRequisition
	if err := c.Post(ctx, "/api/jobs", req, &job); err != nil {
		return nil, err
	}
	c.log.WithField("title", job.Title).Info("job created")
	return &job, nil
}

// RunMatch scores every candidate against the job and returns the
// ranked results. Replaces any previous results for this job.
func (c *Client) RunMatch(ctx context.Context, jobID int64) ([]model.MatchResult, error) {
	var results []model.MatchResult
	path := fmt.Sprintf("/api/jobs/%d/match", jobID)
	if err := c.Post(ctx, path, nil, &results); err != nil {
		return nil, err
	}
	return results, nil
}

// GetMatchResults fetches the stored results from the last run-match
// action for the job.
func (c *Client) GetMatchResults(ctx context.Context, jobID int64) ([]model.MatchResult, error) {
	var results []model.MatchResult
	path := fmt.Sprintf("/api/jobs/%d/results", jobID)
	if err := c.Get(ctx, path, &results); err != nil {
		return nil, err
	}
	return results, nil
}
