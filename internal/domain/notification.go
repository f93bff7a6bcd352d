package domain

import "time"

// NotificationType classifies feed entries.
type NotificationType string

const (
	NotificationTicketCreated  NotificationType = "ticket_created"
	NotificationTicketUpdated  NotificationType = "ticket_updated"
	NotificationTicketAssigned NotificationType = "ticket_assigned"
	NotificationTicketResolved NotificationType = "ticket_resolved"
	NotificationMention        NotificationType = "mention"
)

// Notification is a feed entry owned by one user.
type Notification struct {
	ID        string           `json:"id"`
	UserID    string           `json:"userId"`
	Type      NotificationType `json:"type"`
	Message   string           `json:"message"`
	RelatedID string           `json:"relatedId,omitempty"`
	IsRead    bool             `json:"isRead"`
	CreatedAt time.Time        `json:"createdAt"`
}
