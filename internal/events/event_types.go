package events

import (
	"time"

	"github.com/spec-kit/office-helpdesk/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated           EventType = "ticket_created"
	EventTicketUpdated           EventType = "ticket_updated"
	EventTicketDeleted           EventType = "ticket_deleted"
	EventTicketStatusChanged     EventType = "ticket_status_changed"
	EventTicketPriorityChanged   EventType = "ticket_priority_changed"
	EventTicketSeverityChanged   EventType = "ticket_severity_changed"
	EventTicketAssigned          EventType = "ticket_assigned"
	EventTicketUpvoted           EventType = "ticket_upvoted"
	EventTicketCommentAdded      EventType = "ticket_comment_added"
	EventTicketAttachmentAdded   EventType = "ticket_attachment_added"
	EventTicketAttachmentRemoved EventType = "ticket_attachment_removed"
	EventTicketWatcherChanged    EventType = "ticket_watcher_changed"
)

// AllEventTypes lists every event the ticket store publishes.
var AllEventTypes = []EventType{
	EventTicketCreated,
	EventTicketUpdated,
	EventTicketDeleted,
	EventTicketStatusChanged,
	EventTicketPriorityChanged,
	EventTicketSeverityChanged,
	EventTicketAssigned,
	EventTicketUpvoted,
	EventTicketCommentAdded,
	EventTicketAttachmentAdded,
	EventTicketAttachmentRemoved,
	EventTicketWatcherChanged,
}

// Event represents a domain event emitted by services.
type Event struct {
	ID          string    `json:"id"`
	Type        EventType `json:"type"`
	TicketID    string    `json:"ticket_id"`
	TicketTitle string    `json:"ticket_title"`
	ActorID     string    `json:"actor_id,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
	Payload     any       `json:"payload"`
}

// TicketCreatedPayload payload.
type TicketCreatedPayload struct {
	ReporterID string                `json:"reporter_id"`
	CategoryID string                `json:"category_id"`
	Priority   domain.TicketPriority `json:"priority"`
	Severity   domain.TicketSeverity `json:"severity"`
}

// TicketUpdatedPayload lists the fields a partial update touched.
type TicketUpdatedPayload struct {
	Fields []string `json:"fields"`
}

// TicketStatusChangedPayload payload.
type TicketStatusChangedPayload struct {
	OldStatus domain.TicketStatus `json:"old_status"`
	NewStatus domain.TicketStatus `json:"new_status"`
}

// TicketPriorityChangedPayload payload.
type TicketPriorityChangedPayload struct {
	OldPriority domain.TicketPriority `json:"old_priority"`
	NewPriority domain.TicketPriority `json:"new_priority"`
}

// TicketSeverityChangedPayload payload. Escalated is set when the upvote rule raised it.
type TicketSeverityChangedPayload struct {
	OldSeverity domain.TicketSeverity `json:"old_severity"`
	NewSeverity domain.TicketSeverity `json:"new_severity"`
	Escalated   bool                  `json:"escalated"`
}

// TicketAssignedPayload payload. An empty AssigneeID means the ticket was unassigned.
type TicketAssignedPayload struct {
	AssigneeID         string `json:"assignee_id,omitempty"`
	PreviousAssigneeID string `json:"previous_assignee_id,omitempty"`
}

// TicketUpvotedPayload payload.
type TicketUpvotedPayload struct {
	UserID  string `json:"user_id"`
	Added   bool   `json:"added"`
	Upvotes int    `json:"upvotes"`
}

// TicketCommentAddedPayload payload.
type TicketCommentAddedPayload struct {
	CommentID   string   `json:"comment_id"`
	AuthorID    string   `json:"author_id"`
	Mentions    []string `json:"mentions,omitempty"`
	BodyPreview string   `json:"body_preview"`
}

// TicketAttachmentPayload is shared by attachment added and removed events.
type TicketAttachmentPayload struct {
	AttachmentID string `json:"attachment_id"`
	Name         string `json:"name"`
}

// TicketWatcherChangedPayload payload.
type TicketWatcherChangedPayload struct {
	UserID   string `json:"user_id"`
	Watching bool   `json:"watching"`
}
