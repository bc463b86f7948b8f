package model

import "time"

// NotificationType is the closed set of notification kinds the backend
// emits. Unknown wire values map to NotificationGeneric.
type NotificationType string

const (
	NotificationHighFitMatch   NotificationType = "new_high_fit"
	NotificationNewCandidate   NotificationType = "new_candidate"
	NotificationScrapeComplete NotificationType = "scrape_complete"
	NotificationGeneric        NotificationType = "generic"
)

// ParseNotificationType maps a wire type tag to the closed enum.
func ParseNotificationType(s string) NotificationType {
	switch NotificationType(s) {
	case NotificationHighFitMatch, NotificationNewCandidate, NotificationScrapeComplete:
		return NotificationType(s)
	default:
		return NotificationGeneric
	}
}

// Notification is an alert surfaced to the user. The read flag is the
// only field the client mutates.
type Notification struct {
	ID        int64            `json:"id"`
	Type      NotificationType `json:"type"`
	Title     string           `json:"title"`
	Message   string           `json:"message"`
	Read      bool             `json:"read"`
	CreatedAt time.Time        `json:"created_at"`
}
