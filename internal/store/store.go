package store

import (
	"context"

	"github.com/hnguyen/recruitmail/internal/model"
)

// EmailFilter controls filtering and pagination for cached listing
// queries. It mirrors the live listing parameters so a cached page can
// stand in for the live one filter-for-filter.
type EmailFilter struct {
	Folder   string
	Search   string // matches subject, sender, and preview
	Sender   string
	FromDate string // YYYY-MM-DD, inclusive
	ToDate   string // YYYY-MM-DD, inclusive
	Skip     int
	Top      int
}

// Store defines the persistence interface for the local mirror: cached
// mailbox listings, folder counts, and the candidate cache.
type Store interface {
	// === Cached mailbox listings ===

	UpsertEmails(ctx context.Context, folder string, emails []model.EmailSummary) error
	GetEmails(ctx context.Context, filter EmailFilter) ([]model.EmailSummary, error)
	CountEmails(ctx context.Context, filter EmailFilter) (int, error)
	MarkEmailRead(ctx context.Context, id string, read bool) error

	// === Folders ===

	UpsertFolders(ctx context.Context, folders []model.Folder) error
	GetFolders(ctx context.Context) ([]model.Folder, error)

	// === Candidate cache ===

	UpsertCandidates(ctx context.Context, candidates []model.Candidate) error
	GetCandidates(ctx context.Context, search string) ([]model.Candidate, error)
	GetCandidateByID(ctx context.Context, id int64) (*model.Candidate, error)
	SetCandidateNotes(ctx context.Context, id int64, notes string) error
	SetCandidateTags(ctx context.Context, id int64, tags []string) error
}
