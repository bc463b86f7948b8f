package model

import (
	"strings"
	"time"
)

// Candidate is a candidate record extracted by the backend from a resume
// attachment. Notes and Tags are the only fields the client may change;
// everything else is read-only extraction output.
type Candidate struct {
	ID               int64     `json:"id" db:"id"`
	Name             string    `json:"name" db:"name"`
	Email            string    `json:"email" db:"email"`
	Phone            string    `json:"phone" db:"phone"`
	Location         string    `json:"location" db:"location"`
	Titles           []string  `json:"titles"`
	Skills           []string  `json:"skills"`
	YearsExp         float64   `json:"years_exp" db:"years_exp"`
	Notes            string    `json:"notes" db:"notes"`
	Tags             []string  `json:"tags"`
	DuplicateGroupID string    `json:"duplicate_group_id,omitempty" db:"duplicate_group_id"`
	IsDuplicate      bool      `json:"is_duplicate" db:"is_duplicate"`
	SourceEmailUID   string    `json:"source_email_uid" db:"source_email_uid"`
	CreatedAt        time.Time `json:"created_at" db:"created_at"`
}

// HasTag reports whether the candidate already carries the tag,
// compared case-insensitively.
func (c *Candidate) HasTag(tag string) bool {
	for _, t := range c.Tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}

// WithTag returns the candidate's tag set plus the given tag. Adding a
// tag that exists in any casing is a no-op and returns the set unchanged.
func (c *Candidate) WithTag(tag string) []string {
	tag = strings.TrimSpace(tag)
	if tag == "" || c.HasTag(tag) {
		return c.Tags
	}
	out := make([]string, 0, len(c.Tags)+1)
	out = append(out, c.Tags...)
	return append(out, tag)
}

// WithoutTag returns the candidate's tag set minus the given tag,
// matched case-insensitively.
func (c *Candidate) WithoutTag(tag string) []string {
	out := make([]string, 0, len(c.Tags))
	for _, t := range c.Tags {
		if !strings.EqualFold(t, tag) {
			out = append(out, t)
		}
	}
	return out
}
