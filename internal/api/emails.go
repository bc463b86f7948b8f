package api

import (
	"context"
	"fmt"
	"net/url"

	"github.com/hnguyen/recruitmail/internal/model"
)

// EmailQuery holds listing filters. Empty fields are omitted from the
// request entirely rather than sent as blank parameters.
type EmailQuery struct {
	Folder   string
	Search   string
	FromDate string // YYYY-MM-DD
	ToDate   string // YYYY-MM-DD
	Sender   string
	Skip     int
	Top      int
}

// EmailPage is one page of a mailbox listing.
type EmailPage struct {
	Emails []model.EmailSummary `json:"emails"`
	Total  int                  `json:"total"`
	Skip   int                  `json:"skip"`
	Top    int                  `json:"top"`
}

// ListEmails fetches one page of the live mailbox listing.
func (c *Client) ListEmails(ctx context.Context, q EmailQuery) (*EmailPage, error) {
	qs := newQuery().
		set("folder_id", q.Folder).
		set("search", q.Search).
		set("from_date", q.FromDate).
		set("to_date", q.ToDate).
		set("sender", q.Sender).
		setInt("skip", q.Skip).
		setInt("top", q.Top)

	var page EmailPage
	if err := c.Get(ctx, "/api/emails"+qs.encode(), &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// GetEmail fetches the full detail for a single message.
func (c *Client) GetEmail(ctx context.Context, id string) (*model.EmailDetail, error) {
	var detail model.EmailDetail
	path := "/api/emails/" + url.PathEscape(id)
	if err := c.Get(ctx, path, &detail); err != nil {
		return nil, err
	}
	return &detail, nil
}

// ListFolders fetches all mailbox folders with counts.
func (c *Client) ListFolders(ctx context.Context) ([]model.Folder, error) {
	var folders []model.Folder
	if err := c.Get(ctx, "/api/folders", &folders); err != nil {
		return nil, err
	}
	return folders, nil
}

// GetStats fetches mailbox-wide statistics for the dashboard.
func (c *Client) GetStats(ctx context.Context) (*model.MailboxStats, error) {
	var stats model.MailboxStats
	if err := c.Get(ctx, "/api/stats", &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// DownloadAttachment fetches one attachment of a message as a binary
// stream; the filename comes from the Content-Disposition header.
func (c *Client) DownloadAttachment(
	ctx context.Context, emailID, attachmentID string,
) (*Download, error) {
	path := fmt.Sprintf(
		"/api/emails/%s/attachments/%s",
		url.PathEscape(emailID), url.PathEscape(attachmentID),
	)
	return c.download(ctx, "GET", path, nil)
}

// ListStoredAttachments fetches the backend's scraped-attachment index,
// optionally filtered by file type ("pdf", "document", "image", "other").
func (c *Client) ListStoredAttachments(
	ctx context.Context, fileType string,
) ([]model.StoredAttachment, error) {
	qs := newQuery().set("file_type", fileType)

	var atts []model.StoredAttachment
	if err := c.Get(ctx, "/api/attachments"+qs.encode(), &atts); err != nil {
		return nil, err
	}
	return atts, nil
}
