// Package listing drives the email listing: live fetches against the
// backend, a cached fallback from the local mirror when the backend is
// unreachable, and last-request-wins handling for overlapping fetches.
package listing

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/hnguyen/recruitmail/internal/api"
	"github.com/hnguyen/recruitmail/internal/model"
	"github.com/hnguyen/recruitmail/internal/store"
)

// Mode says where the displayed listing came from.
type Mode int

const (
	// ModeLive means the listing reflects the backend's current answer.
	ModeLive Mode = iota
	// ModeCached means the backend was unreachable and the listing shows
	// the local mirror; the UI flags this with a banner.
	ModeCached
)

// fetchTimeout bounds a single listing fetch.
const fetchTimeout = 30 * time.Second

// ResultMsg is a tea.Msg carrying one completed listing fetch. Apply
// discards it when Token is no longer the latest.
type ResultMsg struct {
	Token  string
	Emails []model.EmailSummary
	Total  int
	Mode   Mode
	Err    error
}

// Query holds the listing filters and pagination window.
type Query struct {
	Folder   string
	Search   string
	Sender   string
	FromDate string
	ToDate   string
	Skip     int
	Top      int
}

// storeFilter translates the query into the mirror's filter so a
// fallback read is scoped exactly like the live request was.
func (q Query) storeFilter() store.EmailFilter {
	return store.EmailFilter{
		Folder:   q.Folder,
		Search:   q.Search,
		Sender:   q.Sender,
		FromDate: q.FromDate,
		ToDate:   q.ToDate,
		Skip:     q.Skip,
		Top:      q.Top,
	}
}

// Controller owns the listing state for the mailbox view.
type Controller struct {
	client   *api.Client
	mirror   store.Store
	log      *logrus.Entry
	pageSize int

	mode   Mode
	token  string
	query  Query
	emails []model.EmailSummary
	total  int
}

// NewController creates a live-mode controller with an empty listing.
func NewController(client *api.Client, mirror store.Store, pageSize int, log *logrus.Entry) *Controller {
	if pageSize <= 0 {
		pageSize = 25
	}
	return &Controller{
		client:   client,
		mirror:   mirror,
		log:      log,
		pageSize: pageSize,
		query:    Query{Top: pageSize},
	}
}

// Mode returns where the current listing came from.
func (c *Controller) Mode() Mode {
	return c.mode
}

// Emails returns the currently displayed page.
func (c *Controller) Emails() []model.EmailSummary {
	return c.emails
}

// Total returns the last known total for the active filters.
func (c *Controller) Total() int {
	return c.total
}

// Query returns the active filters.
func (c *Controller) Query() Query {
	return c.query
}

// Page returns the 1-based page number and page count for the status bar.
func (c *Controller) Page() (page, pages int) {
	pages = (c.total + c.pageSize - 1) / c.pageSize
	if pages == 0 {
		pages = 1
	}
	page = c.query.Skip/c.pageSize + 1
	return page, pages
}

// SetFolder switches folders and resets to the first page.
func (c *Controller) SetFolder(folder string) tea.Cmd {
	c.query.Folder = folder
	c.query.Skip = 0
	return c.fetch()
}

// Search applies a committed search term and resets to the first page.
func (c *Controller) Search(term string) tea.Cmd {
	c.query.Search = term
	c.query.Skip = 0
	return c.fetch()
}

// SetDateRange applies a received-date window and resets to the first page.
func (c *Controller) SetDateRange(from, to string) tea.Cmd {
	c.query.FromDate = from
	c.query.ToDate = to
	c.query.Skip = 0
	return c.fetch()
}

// SetSender applies a sender filter and resets to the first page.
func (c *Controller) SetSender(sender string) tea.Cmd {
	c.query.Sender = sender
	c.query.Skip = 0
	return c.fetch()
}

// NextPage advances one page, clamped to the last known total.
func (c *Controller) NextPage() tea.Cmd {
	if c.query.Skip+c.pageSize >= c.total {
		return nil
	}
	c.query.Skip += c.pageSize
	return c.fetch()
}

// PrevPage steps back one page.
func (c *Controller) PrevPage() tea.Cmd {
	if c.query.Skip == 0 {
		return nil
	}
	c.query.Skip -= c.pageSize
	if c.query.Skip < 0 {
		c.query.Skip = 0
	}
	return c.fetch()
}

// Refresh re-runs the current query.
func (c *Controller) Refresh() tea.Cmd {
	return c.fetch()
}

// Reset clears the listing, used when the session ends.
func (c *Controller) Reset() {
	c.mode = ModeLive
	c.token = ""
	c.query = Query{Top: c.pageSize}
	c.emails = nil
	c.total = 0
}

// fetch issues a live request for the current query. On live failure it
// falls back to the mirror with identical filters; the fallback is
// adopted only when it yields at least one item.
func (c *Controller) fetch() tea.Cmd {
	token := uuid.New().String()
	c.token = token
	q := c.query
	q.Top = c.pageSize

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()

		page, err := c.client.ListEmails(ctx, api.EmailQuery{
			Folder:   q.Folder,
			Search:   q.Search,
			Sender:   q.Sender,
			FromDate: q.FromDate,
			ToDate:   q.ToDate,
			Skip:     q.Skip,
			Top:      q.Top,
		})
		if err == nil {
			// Mirror the fresh page so a later outage can serve it.
			if upsertErr := c.mirror.UpsertEmails(ctx, q.Folder, page.Emails); upsertErr != nil {
				c.log.WithError(upsertErr).Warn("mirroring listing page failed")
			}
			return ResultMsg{
				Token:  token,
				Emails: page.Emails,
				Total:  page.Total,
				Mode:   ModeLive,
			}
		}

		if api.IsAuthError(err) {
			return ResultMsg{Token: token, Err: err}
		}

		c.log.WithError(err).Warn("live listing failed, trying mirror")

		cached, cacheErr := c.mirror.GetEmails(ctx, q.storeFilter())
		if cacheErr == nil && len(cached) > 0 {
			total, countErr := c.mirror.CountEmails(ctx, q.storeFilter())
			if countErr != nil {
				total = q.Skip + len(cached)
			}
			return ResultMsg{
				Token:  token,
				Emails: cached,
				Total:  total,
				Mode:   ModeCached,
			}
		}

		// Both paths failed (or the mirror was empty): the caller keeps
		// whatever it is already showing.
		return ResultMsg{Token: token, Err: err}
	}
}

// Apply folds a fetch result into the controller. It returns false when
// the result was superseded or failed; on failure the prior listing
// stays untouched and the caller raises a notice from msg.Err.
func (c *Controller) Apply(msg ResultMsg) bool {
	if msg.Token != c.token {
		return false
	}
	if msg.Err != nil {
		return false
	}

	c.emails = msg.Emails
	c.total = msg.Total
	c.mode = msg.Mode

	// Clamp the window: the server's total may have shrunk below the
	// requested offset (messages deleted between pages).
	if c.total > 0 && c.query.Skip >= c.total {
		c.query.Skip = ((c.total - 1) / c.pageSize) * c.pageSize
	}

	return true
}

// IsCurrent reports whether the message belongs to the latest request.
func (c *Controller) IsCurrent(msg ResultMsg) bool {
	return msg.Token == c.token
}
