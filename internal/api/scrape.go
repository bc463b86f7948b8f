package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/hnguyen/recruitmail/internal/model"
)

// ScrapeRequest is the filter body for a bulk scrape or export. Dates
// must be YYYY-MM-DD; the backend caps max_results at 500.
type ScrapeRequest struct {
	FolderID           string `json:"folder_id,omitempty"`
	FromDate           string `json:"from_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	ToDate             string `json:"to_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	SenderFilter       string `json:"sender_filter,omitempty"`
	SubjectFilter      string `json:"subject_filter,omitempty"`
	Search             string `json:"search,omitempty"`
	MaxResults         int    `json:"max_results" validate:"min=1,max=500"`
	IncludeAttachments bool   `json:"include_attachments"`
}

// ScrapedAttachment is an attachment captured during a scrape, with the
// backend's stored location when attachments were included.
type ScrapedAttachment struct {
	Name        string `json:"name"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
	IsInline    bool   `json:"is_inline"`
	Filename    string `json:"filename,omitempty"`
	DownloadURL string `json:"download_url,omitempty"`
}

// ScrapedEmail is one message captured by a scrape run.
type ScrapedEmail struct {
	ID             string              `json:"id"`
	Subject        string              `json:"subject"`
	SenderName     string              `json:"sender_name"`
	SenderEmail    string              `json:"sender_email"`
	To             []model.Recipient   `json:"to"`
	Cc             []model.Recipient   `json:"cc"`
	Received       string              `json:"received"`
	BodyType       string              `json:"body_type"`
	Body           string              `json:"body"`
	IsRead         bool                `json:"is_read"`
	HasAttachments bool                `json:"has_attachments"`
	Importance     string              `json:"importance"`
	Attachments    []ScrapedAttachment `json:"attachments"`
}

// ScrapeResult is the scrape summary plus per-item results.
type ScrapeResult struct {
	TotalScraped int            `json:"total_scraped"`
	Emails       []ScrapedEmail `json:"emails"`
	ExportedAt   string         `json:"exported_at"`
}

// Scrape runs a bulk fetch over the mailbox with the given filters.
// This is an explicit user action with server-side effects and is never
// retried automatically.
func (c *Client) Scrape(ctx context.Context, req ScrapeRequest) (*ScrapeResult, error) {
	if req.MaxResults == 0 {
		req.MaxResults = 50
	}
	if err := c.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("invalid scrape request: %w", err)
	}

	var result ScrapeResult
	if err := c.Post(ctx, "/api/scrape", req, &result); err != nil {
		return nil, err
	}
	c.log.WithField("scraped", result.TotalScraped).Info("scrape complete")
	return &result, nil
}

// ExportJSON scrapes with the given filters and returns the export as a
// JSON file stream.
func (c *Client) ExportJSON(ctx context.Context, req ScrapeRequest) (*Download, error) {
	return c.export(ctx, "/api/export/json", req)
}

// ExportCSV scrapes with the given filters and returns the export as a
// CSV file stream.
func (c *Client) ExportCSV(ctx context.Context, req ScrapeRequest) (*Download, error) {
	return c.export(ctx, "/api/export/csv", req)
}

func (c *Client) export(ctx context.Context, path string, req ScrapeRequest) (*Download, error) {
	if req.MaxResults == 0 {
		req.MaxResults = 50
	}
	if err := c.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("invalid export request: %w", err)
	}
	return c.download(ctx, http.MethodPost, path, req)
}
