package store_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hnguyen/recruitmail/internal/model"
	"github.com/hnguyen/recruitmail/internal/store"
	"github.com/hnguyen/recruitmail/tests/testutil"
)

func seedEmails(t *testing.T, s *store.SQLiteStore, folder string, n int) {
	t.Helper()
	emails := make([]model.EmailSummary, 0, n)
	for i := 0; i < n; i++ {
		emails = append(emails, model.EmailSummary{
			ID:          fmt.Sprintf("%s-m%03d", folder, i),
			Subject:     fmt.Sprintf("Application %d", i),
			Sender:      "Dana Ortiz",
			SenderEmail: "dana@example.com",
			Received:    fmt.Sprintf("2026-01-%02dT09:00:00Z", i%27+1),
			Preview:     "resume attached",
			Importance:  model.ImportanceNormal,
		})
	}
	require.NoError(t, s.UpsertEmails(context.Background(), folder, emails))
}

func TestUpsertEmailsIsIdempotent(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	seedEmails(t, s, "inbox", 5)
	seedEmails(t, s, "inbox", 5)

	count, err := s.CountEmails(ctx, store.EmailFilter{Folder: "inbox"})
	require.NoError(t, err)
	assert.Equal(t, 5, count)
}

func TestGetEmailsPagination(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	seedEmails(t, s, "inbox", 30)

	page, err := s.GetEmails(ctx, store.EmailFilter{Folder: "inbox", Skip: 25, Top: 25})
	require.NoError(t, err)
	assert.Len(t, page, 5)

	full, err := s.GetEmails(ctx, store.EmailFilter{Folder: "inbox", Top: 25})
	require.NoError(t, err)
	assert.Len(t, full, 25)

	// Newest first.
	for i := 1; i < len(full); i++ {
		assert.GreaterOrEqual(t, full[i-1].Received, full[i].Received)
	}
}

func TestGetEmailsFilters(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.UpsertEmails(ctx, "inbox", []model.EmailSummary{
		{
			ID: "m1", Subject: "Senior Go engineer application",
			Sender: "Ana Petrov", SenderEmail: "ana@example.com",
			Received: "2026-01-10T09:00:00Z",
		},
		{
			ID: "m2", Subject: "Invoice",
			Sender: "Billing", SenderEmail: "billing@example.com",
			Received: "2026-02-01T09:00:00Z",
		},
	}))

	bySearch, err := s.GetEmails(ctx, store.EmailFilter{Search: "Go engineer"})
	require.NoError(t, err)
	require.Len(t, bySearch, 1)
	assert.Equal(t, "m1", bySearch[0].ID)

	bySender, err := s.GetEmails(ctx, store.EmailFilter{Sender: "billing"})
	require.NoError(t, err)
	require.Len(t, bySender, 1)
	assert.Equal(t, "m2", bySender[0].ID)

	byDate, err := s.GetEmails(ctx, store.EmailFilter{
		FromDate: "2026-01-01",
		ToDate:   "2026-01-31",
	})
	require.NoError(t, err)
	require.Len(t, byDate, 1)
	assert.Equal(t, "m1", byDate[0].ID)
}

func TestMarkEmailRead(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.UpsertEmails(ctx, "inbox", []model.EmailSummary{
		{ID: "m1", Subject: "x", Received: "2026-01-10T09:00:00Z"},
	}))

	require.NoError(t, s.MarkEmailRead(ctx, "m1", true))

	got, err := s.GetEmails(ctx, store.EmailFilter{})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.True(t, got[0].IsRead)
}

func TestFoldersRoundTrip(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.UpsertFolders(ctx, []model.Folder{
		{ID: "inbox", Name: "Inbox", TotalCount: 51, UnreadCount: 3},
		{ID: "archive", Name: "Archive", TotalCount: 200},
	}))

	folders, err := s.GetFolders(ctx)
	require.NoError(t, err)
	require.Len(t, folders, 2)
	assert.Equal(t, "Archive", folders[0].Name)
	assert.Equal(t, 3, folders[1].UnreadCount)
}
