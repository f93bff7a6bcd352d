package domain

import "time"

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusOpen       TicketStatus = "open"
	TicketStatusInProgress TicketStatus = "in-progress"
	TicketStatusReview     TicketStatus = "review"
	TicketStatusResolved   TicketStatus = "resolved"
	TicketStatusClosed     TicketStatus = "closed"
)

// TicketStatuses lists every status in board order.
var TicketStatuses = []TicketStatus{
	TicketStatusOpen,
	TicketStatusInProgress,
	TicketStatusReview,
	TicketStatusResolved,
	TicketStatusClosed,
}

// Valid reports whether s is a known status.
func (s TicketStatus) Valid() bool {
	for _, candidate := range TicketStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// TicketPriority enumerates how urgently a ticket should be handled.
type TicketPriority string

const (
	TicketPriorityLow    TicketPriority = "low"
	TicketPriorityMedium TicketPriority = "medium"
	TicketPriorityHigh   TicketPriority = "high"
	TicketPriorityUrgent TicketPriority = "urgent"
)

// TicketPriorities lists priorities from lowest to highest.
var TicketPriorities = []TicketPriority{
	TicketPriorityLow,
	TicketPriorityMedium,
	TicketPriorityHigh,
	TicketPriorityUrgent,
}

func (p TicketPriority) Valid() bool {
	for _, candidate := range TicketPriorities {
		if candidate == p {
			return true
		}
	}
	return false
}

// TicketSeverity enumerates business impact.
type TicketSeverity string

const (
	TicketSeverityLow      TicketSeverity = "low"
	TicketSeverityMedium   TicketSeverity = "medium"
	TicketSeverityHigh     TicketSeverity = "high"
	TicketSeverityCritical TicketSeverity = "critical"
)

// SeverityLevels is the fixed escalation order.
var SeverityLevels = []TicketSeverity{
	TicketSeverityLow,
	TicketSeverityMedium,
	TicketSeverityHigh,
	TicketSeverityCritical,
}

func (s TicketSeverity) Valid() bool {
	return s.index() >= 0
}

// Escalate returns the next severity level, clamped at critical.
func (s TicketSeverity) Escalate() TicketSeverity {
	idx := s.index()
	if idx < 0 || idx >= len(SeverityLevels)-1 {
		return s
	}
	return SeverityLevels[idx+1]
}

func (s TicketSeverity) index() int {
	for i, candidate := range SeverityLevels {
		if candidate == s {
			return i
		}
	}
	return -1
}

// Ticket is the aggregate for support requests.
type Ticket struct {
	ID          string         `json:"id"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Category    Category       `json:"category"`
	Status      TicketStatus   `json:"status"`
	Priority    TicketPriority `json:"priority"`
	Severity    TicketSeverity `json:"severity"`
	Upvotes     int            `json:"upvotes"`
	UpvotedBy   []string       `json:"upvotedBy"`
	Assignee    *User          `json:"assignee,omitempty"`
	Reporter    User           `json:"reporter"`
	Comments    []Comment      `json:"comments"`
	Attachments []Attachment   `json:"attachments"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
	ResolvedAt  *time.Time     `json:"resolvedAt,omitempty"`
	DueDate     *time.Time     `json:"dueDate,omitempty"`
	Tags        []string       `json:"tags"`
	IsPrivate   bool           `json:"isPrivate"`
	Watchers    []string       `json:"watchers"`
}

// Clone returns a deep copy so callers never share slices with the store.
func (t Ticket) Clone() Ticket {
	out := t
	out.UpvotedBy = append([]string{}, t.UpvotedBy...)
	out.Tags = append([]string{}, t.Tags...)
	out.Watchers = append([]string{}, t.Watchers...)
	out.Comments = make([]Comment, len(t.Comments))
	for i, c := range t.Comments {
		out.Comments[i] = c.Clone()
	}
	out.Attachments = append([]Attachment{}, t.Attachments...)
	if t.Assignee != nil {
		assignee := *t.Assignee
		out.Assignee = &assignee
	}
	if t.ResolvedAt != nil {
		resolved := *t.ResolvedAt
		out.ResolvedAt = &resolved
	}
	if t.DueDate != nil {
		due := *t.DueDate
		out.DueDate = &due
	}
	return out
}

// HasVoted reports whether userID is in the voter set.
func (t *Ticket) HasVoted(userID string) bool {
	for _, id := range t.UpvotedBy {
		if id == userID {
			return true
		}
	}
	return false
}
