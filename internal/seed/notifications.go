package seed

import (
	"time"

	"github.com/spec-kit/office-helpdesk/internal/domain"
)

// Notifications returns the static notification table.
func Notifications(now time.Time) []domain.Notification {
	return []domain.Notification{
		{
			ID: "notif1", UserID: "user1", Type: domain.NotificationTicketAssigned,
			Message:   "You have been assigned to ticket 'Computer won't turn on'",
			RelatedID: "ticket1", CreatedAt: now.Add(-30 * time.Minute),
		},
		{
			ID: "notif2", UserID: "user1", Type: domain.NotificationTicketUpdated,
			Message:   "Ticket 'Email client not syncing' has been updated",
			RelatedID: "ticket2", IsRead: true, CreatedAt: now.Add(-2 * time.Hour),
		},
		{
			ID: "notif3", UserID: "user1", Type: domain.NotificationMention,
			Message:   "You were mentioned in a comment on 'Internet connection unstable'",
			RelatedID: "ticket3", CreatedAt: now.Add(-5 * time.Hour),
		},
		{
			ID: "notif4", UserID: "user1", Type: domain.NotificationTicketResolved,
			Message:   "Ticket 'Broken chair in office' has been resolved",
			RelatedID: "ticket4", CreatedAt: now.Add(-24 * time.Hour),
		},
		{
			ID: "notif5", UserID: "user2", Type: domain.NotificationTicketCreated,
			Message:   "New ticket created: 'Request for new software license'",
			RelatedID: "ticket5", IsRead: true, CreatedAt: now.Add(-36 * time.Hour),
		},
	}
}

// UserSettings returns the stored settings rows. Users without a row get
// domain.DefaultUserSettings.
func UserSettings() []domain.UserSettings {
	return []domain.UserSettings{
		{UserID: "user1", Theme: domain.ThemeLight, EmailNotifications: true, DesktopNotifications: true, Language: "en"},
		{UserID: "user2", Theme: domain.ThemeDark, EmailNotifications: true, DesktopNotifications: false, Language: "en"},
	}
}
