package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/office-helpdesk/internal/domain"
	"github.com/spec-kit/office-helpdesk/internal/events"
)

func TestDashboardOverSeedData(t *testing.T) {
	f := loaded(t)
	stats := NewStatsService(f.svc, f.users).Dashboard()

	assert.Equal(t, 10, stats.TotalTickets)
	assert.Equal(t, 3, stats.OpenTickets)
	assert.Equal(t, 2, stats.ResolvedTickets)
	// ticket4: 15d-11d = 4d, ticket5: 25d-22d = 3d
	assert.Equal(t, 3.5, stats.AverageResolutionTime)

	require.Len(t, stats.TicketsByCategory, 7)
	assert.Equal(t, domain.CategoryCount{CategoryID: "cat1", Category: "Hardware", Count: 3}, stats.TicketsByCategory[0])
	assert.Equal(t, domain.PriorityCount{Priority: domain.TicketPriorityHigh, Count: 3}, stats.TicketsByPriority[2])
	assert.Equal(t, domain.StatusCount{Status: domain.TicketStatusInProgress, Count: 3}, stats.TicketsByStatus[1])
	assert.Empty(t, stats.RecentActivity)
}

func TestDashboardTracksLiveCollection(t *testing.T) {
	f := loaded(t)
	stats := NewStatsService(f.svc, f.users)
	ctx := context.Background()

	require.NoError(t, f.svc.DeleteTicket(ctx, "ticket1"))
	_, err := f.svc.ChangeTicketStatus(ctx, "ticket6", domain.TicketStatusClosed)
	require.NoError(t, err)

	dashboard := stats.Dashboard()
	assert.Equal(t, 9, dashboard.TotalTickets)
	assert.Equal(t, 1, dashboard.OpenTickets)
	assert.Equal(t, 3, dashboard.ResolvedTickets)
}

func TestRecentActivityFromEvents(t *testing.T) {
	f := loaded(t)
	stats := NewStatsService(f.svc, f.users)
	stats.RegisterHandlers(f.dispatcher)
	ctx := context.Background()

	_, err := f.svc.UpvoteTicket(ctx, "ticket2", "user1")
	require.NoError(t, err)
	f.clock.Advance(time.Minute)
	_, err = f.svc.ChangePriority(ctx, "ticket2", domain.TicketPriorityHigh)
	require.NoError(t, err)

	activity := stats.Dashboard().RecentActivity
	require.Len(t, activity, 2)
	assert.Equal(t, string(events.EventTicketPriorityChanged), activity[0].Type)
	assert.Equal(t, "system", activity[0].User)
	assert.Equal(t, "John Doe", activity[1].User)
	assert.Equal(t, "Email client not syncing", activity[1].Target)

	for i := 0; i < 15; i++ {
		_, err := f.svc.AddWatcher(ctx, "ticket3", "user1")
		require.NoError(t, err)
	}
	assert.Len(t, stats.Dashboard().RecentActivity, recentActivityLimit)
}

func TestAverageResolutionDays(t *testing.T) {
	created := testNow
	resolved := created.Add(36 * time.Hour)
	before := created.Add(-time.Hour)
	tickets := []domain.Ticket{
		{CreatedAt: created, ResolvedAt: &resolved},
		{CreatedAt: created},
		{CreatedAt: created, ResolvedAt: &before},
	}
	assert.Equal(t, 1.5, averageResolutionDays(tickets))
	assert.Equal(t, 0.0, averageResolutionDays(nil))
}
