package model

// SchedulerConfig is the auto-scrape scheduler's settings and last-run
// summary as reported by the backend. The enabled flag and the form
// values are always persisted together in one update.
type SchedulerConfig struct {
	Enabled         bool   `json:"enabled"`
	IntervalMinutes int    `json:"interval_minutes" validate:"min=1,max=1440"`
	Folder          string `json:"folder"`
	SubjectFilter   string `json:"subject_filter,omitempty"`
	LastRun         string `json:"last_run,omitempty"`
	LastRunSummary  string `json:"last_run_summary,omitempty"`
	NextRunSeconds  int    `json:"next_run_seconds"`
}
