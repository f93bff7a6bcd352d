package worker

import (
	"github.com/spec-kit/office-helpdesk/internal/events"
	"github.com/spec-kit/office-helpdesk/internal/service"
)

// StartNotificationWorker registers the event consumers: notification
// fan-out and the dashboard activity log.
func StartNotificationWorker(dispatcher events.Dispatcher, notificationService *service.NotificationService, statsService *service.StatsService) {
	if notificationService != nil {
		notificationService.RegisterHandlers()
	}
	if statsService != nil {
		statsService.RegisterHandlers(dispatcher)
	}
}
