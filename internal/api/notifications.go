package api

import (
	"context"
	"fmt"

	"github.com/hnguyen/recruitmail/internal/model"
)

type unreadCount struct {
	Count int `json:"count"`
}

// UnreadCount returns the number of unread notifications.
func (c *Client) UnreadCount(ctx context.Context) (int, error) {
	var out unreadCount
	if err := c.Get(ctx, "/api/notifications/unread-count", &out); err != nil {
		return 0, err
	}
	return out.Count, nil
}

// ListNotifications fetches notifications, newest first. unreadOnly
// restricts the result to unread ones.
func (c *Client) ListNotifications(ctx context.Context, unreadOnly bool) ([]model.Notification, error) {
	q := newQuery()
	if unreadOnly {
		q.set("unread_only", "true")
	}

	var notifs []model.Notification
	if err := c.Get(ctx, "/api/notifications"+q.encode(), &notifs); err != nil {
		return nil, err
	}
	return notifs, nil
}

// MarkNotificationRead marks a single notification as read.
func (c *Client) MarkNotificationRead(ctx context.Context, id int64) error {
	path := fmt.Sprintf("/api/notifications/%d/read", id)
	return c.Post(ctx, path, nil, nil)
}

// MarkAllNotificationsRead marks every notification as read.
func (c *Client) MarkAllNotificationsRead(ctx context.Context) error {
	return c.Post(ctx, "/api/notifications/read-all", nil, nil)
}

// ClearReadNotifications deletes all notifications that have been read.
func (c *Client) ClearReadNotifications(ctx context.Context) error {
	return c.Delete(ctx, "/api/notifications/read", nil, nil)
}
