package dto

import (
	"time"

	"github.com/spec-kit/office-helpdesk/internal/domain"
)

// CreateTicketRequest payload. The reporter is the session user.
type CreateTicketRequest struct {
	Title       string                `json:"title"`
	Description string                `json:"description"`
	CategoryID  string                `json:"categoryId"`
	AssigneeID  string                `json:"assigneeId"`
	Status      domain.TicketStatus   `json:"status"`
	Priority    domain.TicketPriority `json:"priority"`
	Severity    domain.TicketSeverity `json:"severity"`
	DueDate     *time.Time            `json:"dueDate"`
	Tags        []string              `json:"tags"`
	IsPrivate   bool                  `json:"isPrivate"`
}

// UpdateTicketRequest merges the present fields into a ticket.
type UpdateTicketRequest struct {
	Title       *string                `json:"title"`
	Description *string                `json:"description"`
	CategoryID  *string                `json:"categoryId"`
	Status      *domain.TicketStatus   `json:"status"`
	Priority    *domain.TicketPriority `json:"priority"`
	Severity    *domain.TicketSeverity `json:"severity"`
	AssigneeID  *string                `json:"assigneeId"`
	DueDate     *time.Time             `json:"dueDate"`
	Tags        []string               `json:"tags"`
	IsPrivate   *bool                  `json:"isPrivate"`
}

// StatusRequest payload for PUT /tickets/:id/status.
type StatusRequest struct {
	Status domain.TicketStatus `json:"status"`
}

// PriorityRequest payload for PUT /tickets/:id/priority.
type PriorityRequest struct {
	Priority domain.TicketPriority `json:"priority"`
}

// SeverityRequest payload for PUT /tickets/:id/severity.
type SeverityRequest struct {
	Severity domain.TicketSeverity `json:"severity"`
}

// AssignRequest payload; an empty userId unassigns.
type AssignRequest struct {
	UserID string `json:"userId"`
}

// CommentRequest payload. The author is the session user.
type CommentRequest struct {
	Content  string   `json:"content"`
	Mentions []string `json:"mentions"`
}

// AttachmentRequest describes attachment metadata.
type AttachmentRequest struct {
	Name string `json:"name"`
	URL  string `json:"url"`
	Size int64  `json:"size"`
	Type string `json:"type"`
}

// WatcherRequest payload; defaults to the session user.
type WatcherRequest struct {
	UserID string `json:"userId"`
}

// TicketListResponse wraps a filtered listing.
type TicketListResponse struct {
	Items []domain.Ticket `json:"items"`
	Total int             `json:"total"`
}
