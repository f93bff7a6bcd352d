package service

import (
	"strings"

	"github.com/samber/lo"

	"github.com/spec-kit/office-helpdesk/internal/domain"
)

// Filter values with special meaning.
const (
	FilterAll        = "all"
	FilterUnassigned = "unassigned"
)

// TicketFilter describes ticket listing filters. Empty or "all" fields match
// every ticket; Assignee "unassigned" matches tickets without an assignee.
type TicketFilter struct {
	Status   string
	Category string
	Priority string
	Assignee string
	Reporter string
	Search   string
}

func isWildcard(value string) bool {
	return value == "" || value == FilterAll
}

// MatchesFilter reports whether ticket satisfies every predicate in f.
func MatchesFilter(ticket domain.Ticket, f TicketFilter) bool {
	if !isWildcard(f.Status) && string(ticket.Status) != f.Status {
		return false
	}
	if !isWildcard(f.Category) && ticket.Category.ID != f.Category {
		return false
	}
	if !isWildcard(f.Priority) && string(ticket.Priority) != f.Priority {
		return false
	}
	switch {
	case f.Assignee == FilterUnassigned:
		if ticket.Assignee != nil {
			return false
		}
	case !isWildcard(f.Assignee):
		if ticket.Assignee == nil || ticket.Assignee.ID != f.Assignee {
			return false
		}
	}
	if !isWildcard(f.Reporter) && ticket.Reporter.ID != f.Reporter {
		return false
	}
	if query := strings.ToLower(strings.TrimSpace(f.Search)); query != "" {
		return matchesSearch(ticket, query)
	}
	return true
}

func matchesSearch(ticket domain.Ticket, query string) bool {
	if strings.Contains(strings.ToLower(ticket.Title), query) ||
		strings.Contains(strings.ToLower(ticket.Description), query) {
		return true
	}
	return lo.SomeBy(ticket.Tags, func(tag string) bool {
		return strings.Contains(strings.ToLower(tag), query)
	})
}

// FilterTickets keeps the tickets matching f, preserving order.
func FilterTickets(tickets []domain.Ticket, f TicketFilter) []domain.Ticket {
	return lo.Filter(tickets, func(ticket domain.Ticket, _ int) bool {
		return MatchesFilter(ticket, f)
	})
}

// VisibleTo reports whether user may see ticket: admins see everything,
// others see public tickets plus the ones they reported or are assigned to.
func VisibleTo(ticket domain.Ticket, user domain.User) bool {
	if user.Role == domain.UserRoleAdmin || !ticket.IsPrivate {
		return true
	}
	return ticket.Reporter.ID == user.ID || (ticket.Assignee != nil && ticket.Assignee.ID == user.ID)
}
