package model

import "time"

// FitLevel buckets a numeric match score, computed by the backend.
type FitLevel string

const (
	FitHigh   FitLevel = "high"
	FitMedium FitLevel = "medium"
	FitLow    FitLevel = "low"
)

// JobRequisition is an open position candidates are matched against.
// Created wholly through the client form; immutable afterwards except
// via re-submission.
type JobRequisition struct {
	ID             int64     `json:"id"`
	Title          string    `json:"title"`
	RequiredSkills []string  `json:"required_skills"`
	MinExp         float64   `json:"min_exp"`
	Location       string    `json:"location"`
	RemoteOK       bool      `json:"remote_ok"`
	JDRaw          string    `json:"jd_raw"`
	CreatedAt      time.Time `json:"created_at"`
}

// MatchResult is one candidate's score against a job, produced only by
// an explicit run-match action, never incrementally updated.
type MatchResult struct {
	MatchID      int64     `json:"match_id"`
	Candidate    Candidate `json:"candidate"`
	Score        float64   `json:"score"`
	FitLevel     FitLevel  `json:"fit_level"`
	MatchReasons []string  `json:"match_reasons"`
}
