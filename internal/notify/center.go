package notify

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"github.com/hnguyen/recruitmail/internal/api"
	"github.com/hnguyen/recruitmail/internal/model"
)

// ListMsg is a tea.Msg carrying the dropdown's on-demand item fetch.
type ListMsg struct {
	Items []model.Notification
	Err   error
}

// ReadResultMsg is a tea.Msg confirming a read-state mutation. On Err
// the center re-syncs its count from the server on the next tick.
type ReadResultMsg struct {
	All bool
	ID  int64
	Err error
}

// Center holds the badge count and the dropdown items. Read mutations
// update the local state first and send the request after, so the badge
// never lags behind the user's click.
type Center struct {
	client *api.Client
	log    *logrus.Entry

	count int
	items []model.Notification
}

// NewCenter creates an empty notification center.
func NewCenter(client *api.Client, log *logrus.Entry) *Center {
	return &Center{client: client, log: log}
}

// Count returns the displayed unread count.
func (c *Center) Count() int {
	return c.count
}

// Items returns the dropdown items from the last fetch.
func (c *Center) Items() []model.Notification {
	return c.items
}

// SetCount adopts a server-reported count, called on every poller tick.
func (c *Center) SetCount(count int) {
	c.count = count
}

// Load returns a tea.Cmd fetching the dropdown items on demand.
func (c *Center) Load() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()

		items, err := c.client.ListNotifications(ctx, false)
		return ListMsg{Items: items, Err: err}
	}
}

// HandleList folds a dropdown fetch into the center. A failed fetch
// leaves the previous items in place.
func (c *Center) HandleList(msg ListMsg) {
	if msg.Err != nil {
		c.log.WithError(msg.Err).Warn("loading notifications failed")
		return
	}
	c.items = msg.Items
}

// MarkRead decrements the badge and flips the item locally, then asks
// the server to confirm. The optimistic change stands unless the
// request errors, in which case the next tick restores server truth.
func (c *Center) MarkRead(id int64) tea.Cmd {
	if c.count > 0 {
		c.count--
	}
	for i := range c.items {
		if c.items[i].ID == id {
			c.items[i].Read = true
		}
	}

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()
		return ReadResultMsg{ID: id, Err: c.client.MarkNotificationRead(ctx, id)}
	}
}

// MarkAllRead zeroes the badge locally, then confirms with the server.
func (c *Center) MarkAllRead() tea.Cmd {
	c.count = 0
	for i := range c.items {
		c.items[i].Read = true
	}

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()
		return ReadResultMsg{All: true, Err: c.client.MarkAllNotificationsRead(ctx)}
	}
}

// ClearRead removes read items locally and asks the server to delete
// them.
func (c *Center) ClearRead() tea.Cmd {
	kept := c.items[:0]
	for _, n := range c.items {
		if !n.Read {
			kept = append(kept, n)
		}
	}
	c.items = kept

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()
		return ReadResultMsg{Err: c.client.ClearReadNotifications(ctx)}
	}
}

// HandleReadResult logs a failed confirmation. The poller's next tick
// reconciles the badge with server truth.
func (c *Center) HandleReadResult(msg ReadResultMsg) {
	if msg.Err != nil {
		c.log.WithError(msg.Err).Warn("confirming read state failed")
	}
}
