package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListEmailsQueryParameters(t *testing.T) {
	var gotQuery map[string][]string
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		fmt.Fprint(w, `{"emails": [], "total": 0, "skip": 0, "top": 25}`)
	}))

	_, err := c.ListEmails(context.Background(), EmailQuery{
		Folder: "inbox",
		Search: "golang developer",
		Skip:   25,
		Top:    25,
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"inbox"}, gotQuery["folder_id"])
	assert.Equal(t, []string{"golang developer"}, gotQuery["search"])
	assert.Equal(t, []string{"25"}, gotQuery["skip"])
	assert.Equal(t, []string{"25"}, gotQuery["top"])
	assert.NotContains(t, gotQuery, "sender")
	assert.NotContains(t, gotQuery, "from_date")
}

func TestListEmailsPageDecoding(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{
			"emails": [
				{"id": "m1", "subject": "Application: backend engineer",
				 "sender": "Dana Ortiz", "sender_email": "dana@example.com",
				 "is_read": false, "has_attachments": true}
			],
			"total": 51, "skip": 50, "top": 25
		}`)
	}))

	page, err := c.ListEmails(context.Background(), EmailQuery{Skip: 50, Top: 25})
	require.NoError(t, err)
	assert.Equal(t, 51, page.Total)
	require.Len(t, page.Emails, 1)
	assert.Equal(t, "m1", page.Emails[0].ID)
	assert.True(t, page.Emails[0].HasAttachments)
	assert.False(t, page.Emails[0].IsRead)
}

func TestScrapeValidatesFilters(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("request must not reach the server")
	}))

	_, err := c.Scrape(context.Background(), ScrapeRequest{MaxResults: 900})
	require.Error(t, err)

	_, err = c.Scrape(context.Background(), ScrapeRequest{
		MaxResults: 10,
		FromDate:   "12/01/2025",
	})
	require.Error(t, err)
}

func TestScrapeDefaultsMaxResults(t *testing.T) {
	var gotMax int
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req ScrapeRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		gotMax = req.MaxResults
		fmt.Fprint(w, `{"total_scraped": 0, "emails": [], "exported_at": "2026-01-05T10:00:00Z"}`)
	}))

	_, err := c.Scrape(context.Background(), ScrapeRequest{})
	require.NoError(t, err)
	assert.Equal(t, 50, gotMax)
}

func TestDownloadAttachmentUsesDispositionFilename(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/emails/m1/attachments/a1", r.URL.Path)
		w.Header().Set("Content-Disposition", `attachment; filename="cv.pdf"`)
		w.Header().Set("Content-Type", "application/pdf")
		w.Write([]byte("%PDF-1.7"))
	}))

	dl, err := c.DownloadAttachment(context.Background(), "m1", "a1")
	require.NoError(t, err)
	assert.Equal(t, "cv.pdf", dl.Filename)
	assert.Equal(t, "application/pdf", dl.ContentType)
	assert.Equal(t, []byte("%PDF-1.7"), dl.Content)
}
