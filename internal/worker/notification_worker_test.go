package worker

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/office-helpdesk/internal/clock"
	"github.com/spec-kit/office-helpdesk/internal/config"
	"github.com/spec-kit/office-helpdesk/internal/domain"
	"github.com/spec-kit/office-helpdesk/internal/events"
	"github.com/spec-kit/office-helpdesk/internal/service"
)

func TestStartNotificationWorkerWiresConsumers(t *testing.T) {
	ctx := context.Background()
	clk := clock.NewFake(time.Date(2024, time.June, 3, 9, 0, 0, 0, time.UTC))
	cfg := config.StoreConfig{EscalationThreshold: service.DefaultEscalationThreshold}
	dispatcher := events.NewInMemoryDispatcher(zap.NewNop())
	users := service.NewUserService(service.UserDependencies{Clock: clk, Config: cfg})
	tickets := service.NewTicketService(service.TicketDependencies{Users: users, Dispatcher: dispatcher, Clock: clk, Config: cfg})
	require.NoError(t, tickets.FetchTickets(ctx))
	feed := service.NewNotificationFeed(clk)
	notifications := service.NewNotificationService(service.NotificationDependencies{
		Dispatcher: dispatcher, Feed: feed, Tickets: tickets, Users: users,
	})
	stats := service.NewStatsService(tickets, users)

	StartNotificationWorker(dispatcher, notifications, stats)

	_, err := tickets.AssignTicket(ctx, "ticket6", "user8")
	require.NoError(t, err)

	got := feed.ForUser("user8")
	require.Len(t, got, 1)
	assert.Equal(t, domain.NotificationTicketAssigned, got[0].Type)
	assert.Len(t, stats.Dashboard().RecentActivity, 1)
}

func TestStartNotificationWorkerToleratesMissingServices(t *testing.T) {
	assert.NotPanics(t, func() { StartNotificationWorker(nil, nil, nil) })
}
