package service

import (
	"context"
	"math"
	"sync"

	"github.com/samber/lo"

	"github.com/spec-kit/office-helpdesk/internal/domain"
	"github.com/spec-kit/office-helpdesk/internal/events"
)

const recentActivityLimit = 10

// TicketSource exposes the ticket store collections.
type TicketSource interface {
	Tickets() []domain.Ticket
	Categories() []domain.Category
}

// StatsService computes dashboard figures from the live collections and
// keeps a short activity log fed by ticket events.
type StatsService struct {
	tickets TicketSource
	users   UserDirectory

	mu       sync.Mutex
	activity []domain.Activity
}

// NewStatsService constructs the service.
func NewStatsService(tickets TicketSource, users UserDirectory) *StatsService {
	return &StatsService{tickets: tickets, users: users}
}

// RegisterHandlers records every ticket event as activity.
func (s *StatsService) RegisterHandlers(dispatcher events.Dispatcher) {
	if dispatcher == nil {
		return
	}
	events.SubscribeAll(dispatcher, s.recordActivity)
}

func (s *StatsService) recordActivity(_ context.Context, event events.Event) error {
	actor := "system"
	if event.ActorID != "" {
		actor = event.ActorID
		if s.users != nil {
			if user, ok := s.users.GetUserByID(event.ActorID); ok {
				actor = user.Name
			}
		}
	}
	entry := domain.Activity{
		ID:        event.ID,
		Type:      string(event.Type),
		User:      actor,
		Target:    event.TicketTitle,
		Timestamp: event.Timestamp,
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.activity = append([]domain.Activity{entry}, s.activity...)
	if len(s.activity) > recentActivityLimit {
		s.activity = s.activity[:recentActivityLimit]
	}
	return nil
}

// Dashboard summarizes the current ticket collection.
func (s *StatsService) Dashboard() domain.DashboardStats {
	tickets := s.tickets.Tickets()

	stats := domain.DashboardStats{
		TotalTickets: len(tickets),
		OpenTickets: lo.CountBy(tickets, func(t domain.Ticket) bool {
			return t.Status == domain.TicketStatusOpen
		}),
		ResolvedTickets: lo.CountBy(tickets, func(t domain.Ticket) bool {
			return t.Status == domain.TicketStatusResolved || t.Status == domain.TicketStatusClosed
		}),
		AverageResolutionTime: averageResolutionDays(tickets),
	}

	byCategory := lo.CountValuesBy(tickets, func(t domain.Ticket) string { return t.Category.ID })
	stats.TicketsByCategory = lo.Map(s.tickets.Categories(), func(c domain.Category, _ int) domain.CategoryCount {
		return domain.CategoryCount{CategoryID: c.ID, Category: c.Name, Count: byCategory[c.ID]}
	})

	byPriority := lo.CountValuesBy(tickets, func(t domain.Ticket) domain.TicketPriority { return t.Priority })
	stats.TicketsByPriority = lo.Map(domain.TicketPriorities, func(p domain.TicketPriority, _ int) domain.PriorityCount {
		return domain.PriorityCount{Priority: p, Count: byPriority[p]}
	})

	byStatus := lo.CountValuesBy(tickets, func(t domain.Ticket) domain.TicketStatus { return t.Status })
	stats.TicketsByStatus = lo.Map(domain.TicketStatuses, func(st domain.TicketStatus, _ int) domain.StatusCount {
		return domain.StatusCount{Status: st, Count: byStatus[st]}
	})

	s.mu.Lock()
	stats.RecentActivity = append([]domain.Activity{}, s.activity...)
	s.mu.Unlock()
	return stats
}

// averageResolutionDays is the mean created→resolved span in days, one decimal.
func averageResolutionDays(tickets []domain.Ticket) float64 {
	resolved := lo.Filter(tickets, func(t domain.Ticket, _ int) bool {
		return t.ResolvedAt != nil && !t.ResolvedAt.Before(t.CreatedAt)
	})
	if len(resolved) == 0 {
		return 0
	}
	total := lo.SumBy(resolved, func(t domain.Ticket) float64 {
		return t.ResolvedAt.Sub(t.CreatedAt).Hours() / 24
	})
	return math.Round(total/float64(len(resolved))*10) / 10
}
