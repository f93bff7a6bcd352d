package service

import (
	"sync"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/spec-kit/office-helpdesk/internal/clock"
	"github.com/spec-kit/office-helpdesk/internal/domain"
	"github.com/spec-kit/office-helpdesk/internal/seed"
)

// NotificationFeed is the process-wide notification table, newest last.
type NotificationFeed struct {
	mu    sync.RWMutex
	clock clock.Clock
	items []domain.Notification
}

// NewNotificationFeed creates a feed holding the seeded notifications.
func NewNotificationFeed(clk clock.Clock) *NotificationFeed {
	if clk == nil {
		clk = clock.Real()
	}
	return &NotificationFeed{clock: clk, items: seed.Notifications(clk.Now())}
}

// ForUser returns the notifications owned by userID.
func (f *NotificationFeed) ForUser(userID string) []domain.Notification {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return lo.Filter(f.items, func(n domain.Notification, _ int) bool { return n.UserID == userID })
}

// Append stores n, filling in id and timestamp when missing.
func (f *NotificationFeed) Append(n domain.Notification) domain.Notification {
	if n.ID == "" {
		n.ID = "notif-" + uuid.NewString()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = f.clock.Now()
	}
	f.mu.Lock()
	f.items = append(f.items, n)
	f.mu.Unlock()
	return n
}

// MarkRead flags the given notifications of userID as read.
func (f *NotificationFeed) MarkRead(userID string, ids ...string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.items {
		if f.items[i].UserID == userID && lo.Contains(ids, f.items[i].ID) {
			f.items[i].IsRead = true
		}
	}
}
