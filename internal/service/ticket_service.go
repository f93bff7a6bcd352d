package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/spec-kit/office-helpdesk/internal/clock"
	"github.com/spec-kit/office-helpdesk/internal/config"
	"github.com/spec-kit/office-helpdesk/internal/domain"
	"github.com/spec-kit/office-helpdesk/internal/events"
	"github.com/spec-kit/office-helpdesk/internal/observability"
	"github.com/spec-kit/office-helpdesk/internal/repository"
	"github.com/spec-kit/office-helpdesk/internal/seed"
	apperrors "github.com/spec-kit/office-helpdesk/pkg/util"
)

var (
	opFetchTickets     = operation{"fetch_tickets", "Failed to fetch tickets"}
	opFetchCategories  = operation{"fetch_categories", "Failed to fetch categories"}
	opCreateTicket     = operation{"create_ticket", "Failed to create ticket"}
	opUpdateTicket     = operation{"update_ticket", "Failed to update ticket"}
	opDeleteTicket     = operation{"delete_ticket", "Failed to delete ticket"}
	opUpvoteTicket     = operation{"upvote_ticket", "Failed to upvote ticket"}
	opChangeStatus     = operation{"change_ticket_status", "Failed to change ticket status"}
	opChangePriority   = operation{"change_priority", "Failed to change ticket priority"}
	opChangeSeverity   = operation{"change_severity", "Failed to change ticket severity"}
	opAssignTicket     = operation{"assign_ticket", "Failed to assign ticket"}
	opAddComment       = operation{"add_comment", "Failed to add comment"}
	opAddAttachment    = operation{"add_attachment", "Failed to add attachment"}
	opRemoveAttachment = operation{"remove_attachment", "Failed to remove attachment"}
	opAddWatcher       = operation{"add_watcher", "Failed to add watcher"}
	opRemoveWatcher    = operation{"remove_watcher", "Failed to remove watcher"}
	opCreateCategory   = operation{"create_category", "Failed to create category"}
	opUpdateCategory   = operation{"update_category", "Failed to update category"}
	opDeleteCategory   = operation{"delete_category", "Failed to delete category"}
)

// errUnchanged tells mutateTicket to leave the ticket exactly as it was.
var errUnchanged = errors.New("ticket unchanged")

// DefaultEscalationThreshold is the upvote count a ticket must exceed before
// each further upvote raises its severity.
const DefaultEscalationThreshold = 5

// TicketService owns the ticket and category collections.
type TicketService struct {
	*opRunner

	repo       repository.TicketSnapshotRepository
	users      UserDirectory
	dispatcher events.Dispatcher
	clock      clock.Clock
	logger     *zap.Logger
	sanitizer  *bluemonday.Policy

	escalationThreshold int
	locks               *keyedLocks

	mu         sync.RWMutex
	tickets    []domain.Ticket
	categories []domain.Category
}

// TicketDependencies bundles collaborators for the ticket service.
type TicketDependencies struct {
	Repo       repository.TicketSnapshotRepository
	Users      UserDirectory
	Dispatcher events.Dispatcher
	Clock      clock.Clock
	Logger     *zap.Logger
	Metrics    *observability.Metrics
	Config     config.StoreConfig
}

// TicketCreateInput describes ticket creation payload.
type TicketCreateInput struct {
	Title       string
	Description string
	CategoryID  string
	ReporterID  string
	AssigneeID  string
	Status      domain.TicketStatus
	Priority    domain.TicketPriority
	Severity    domain.TicketSeverity
	DueDate     *time.Time
	Tags        []string
	IsPrivate   bool
}

// TicketUpdate holds the fields to merge into a ticket. Nil fields are
// untouched; an empty AssigneeID removes the assignee.
type TicketUpdate struct {
	Title       *string
	Description *string
	CategoryID  *string
	Status      *domain.TicketStatus
	Priority    *domain.TicketPriority
	Severity    *domain.TicketSeverity
	AssigneeID  *string
	DueDate     *time.Time
	Tags        []string
	IsPrivate   *bool
}

// CommentInput describes a new comment.
type CommentInput struct {
	Content  string
	Author   domain.User
	Mentions []string
}

// AttachmentInput describes new attachment metadata.
type AttachmentInput struct {
	Name       string
	URL        string
	Size       int64
	Type       string
	UploadedBy domain.User
}

// CategoryInput describes a new category.
type CategoryInput struct {
	Name        string
	Description string
	Color       string
	Icon        string
	ParentID    string
}

// CategoryUpdate holds the category fields to merge.
type CategoryUpdate struct {
	Name        *string
	Description *string
	Color       *string
	Icon        *string
	ParentID    *string
}

// NewTicketService constructs the service with empty collections.
func NewTicketService(deps TicketDependencies) *TicketService {
	if deps.Clock == nil {
		deps.Clock = clock.Real()
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	threshold := deps.Config.EscalationThreshold
	if threshold <= 0 {
		threshold = DefaultEscalationThreshold
	}
	svc := &TicketService{
		opRunner:            newOpRunner(deps.Config, deps.Metrics, deps.Logger),
		repo:                deps.Repo,
		users:               deps.Users,
		dispatcher:          deps.Dispatcher,
		clock:               deps.Clock,
		logger:              deps.Logger,
		sanitizer:           bluemonday.UGCPolicy(),
		escalationThreshold: threshold,
	}
	if deps.Config.SerializePerTicket {
		svc.locks = newKeyedLocks()
	}
	return svc
}

// runTicket is run holding the per-ticket lock when serialization is on.
func (s *TicketService) runTicket(ctx context.Context, op operation, ticketID string, fn func() error) error {
	if s.locks != nil {
		unlock := s.locks.Lock(ticketID)
		defer unlock()
	}
	return s.run(ctx, op, fn)
}

// FetchTickets loads the persisted collection, falling back to the seed data.
func (s *TicketService) FetchTickets(ctx context.Context) error {
	return s.run(ctx, opFetchTickets, func() error {
		var tickets []domain.Ticket
		ok := false
		if s.repo != nil {
			tickets, ok = s.repo.Load(ctx)
		}
		if !ok {
			tickets = seed.Tickets(s.clock.Now())
		}
		s.mu.Lock()
		s.tickets = tickets
		s.mu.Unlock()
		return nil
	})
}

// FetchCategories resets the categories to the seed data.
func (s *TicketService) FetchCategories(ctx context.Context) error {
	return s.run(ctx, opFetchCategories, func() error {
		categories := seed.Categories()
		s.mu.Lock()
		s.categories = categories
		s.mu.Unlock()
		return nil
	})
}

// Tickets returns a copy of the collection, newest first.
func (s *TicketService) Tickets() []domain.Ticket {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneTickets(s.tickets)
}

// Categories returns a copy of the categories.
func (s *TicketService) Categories() []domain.Category {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Category{}, s.categories...)
}

// GetTicketByID looks a ticket up without latency. The bool is false when absent.
func (s *TicketService) GetTicketByID(id string) (domain.Ticket, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	idx := s.indexLocked(id)
	if idx < 0 {
		return domain.Ticket{}, false
	}
	return s.tickets[idx].Clone(), true
}

// GetFilteredTickets returns the tickets matching every filter, in collection order.
func (s *TicketService) GetFilteredTickets(filter TicketFilter) []domain.Ticket {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneTickets(FilterTickets(s.tickets, filter))
}

// CreateTicket validates input and prepends the new ticket.
func (s *TicketService) CreateTicket(ctx context.Context, input TicketCreateInput) (domain.Ticket, error) {
	var created domain.Ticket
	err := s.run(ctx, opCreateTicket, func() error {
		title := strings.TrimSpace(input.Title)
		description := strings.TrimSpace(input.Description)
		if title == "" || description == "" || input.CategoryID == "" || input.ReporterID == "" {
			return apperrors.NewValidationError("title, description, category and reporter are required", nil)
		}

		ticket := domain.Ticket{
			ID:          "ticket-" + uuid.NewString(),
			Title:       title,
			Description: description,
			Status:      lo.Ternary(input.Status == "", domain.TicketStatusOpen, input.Status),
			Priority:    lo.Ternary(input.Priority == "", domain.TicketPriorityMedium, input.Priority),
			Severity:    lo.Ternary(input.Severity == "", domain.TicketSeverityLow, input.Severity),
			UpvotedBy:   []string{},
			Comments:    []domain.Comment{},
			Attachments: []domain.Attachment{},
			Tags:        normalizeTags(input.Tags),
			IsPrivate:   input.IsPrivate,
			Watchers:    []string{},
		}
		if err := validateEnums(ticket.Status, ticket.Priority, ticket.Severity); err != nil {
			return err
		}
		if input.DueDate != nil {
			due := *input.DueDate
			ticket.DueDate = &due
		}

		reporter, ok := s.lookupUser(input.ReporterID)
		if !ok {
			return apperrors.NewValidationError("unknown reporter", map[string]any{"reporter": input.ReporterID})
		}
		ticket.Reporter = reporter
		if input.AssigneeID != "" {
			assignee, ok := s.lookupUser(input.AssigneeID)
			if !ok {
				return apperrors.NewValidationError("unknown assignee", map[string]any{"assignee": input.AssigneeID})
			}
			ticket.Assignee = &assignee
		}

		s.mu.Lock()
		defer s.mu.Unlock()
		category, ok := s.categoryLocked(input.CategoryID)
		if !ok {
			return apperrors.NewValidationError("unknown category", map[string]any{"category": input.CategoryID})
		}
		ticket.Category = category

		now := s.clock.Now()
		ticket.CreatedAt = now
		ticket.UpdatedAt = now
		if ticket.Status == domain.TicketStatusResolved {
			ticket.ResolvedAt = &now
		}

		s.tickets = append([]domain.Ticket{ticket}, s.tickets...)
		s.persistLocked(ctx)
		created = ticket.Clone()
		return nil
	})
	if err != nil {
		return domain.Ticket{}, err
	}
	s.publish(ctx, created, events.EventTicketCreated, created.Reporter.ID, events.TicketCreatedPayload{
		ReporterID: created.Reporter.ID,
		CategoryID: created.Category.ID,
		Priority:   created.Priority,
		Severity:   created.Severity,
	})
	return created, nil
}

// UpdateTicket merges update into the ticket. Status changes follow the same
// resolvedAt rule as ChangeTicketStatus.
func (s *TicketService) UpdateTicket(ctx context.Context, id string, update TicketUpdate) (domain.Ticket, error) {
	var (
		before, after domain.Ticket
		fields        []string
	)
	err := s.runTicket(ctx, opUpdateTicket, id, func() error {
		if err := validateUpdate(update); err != nil {
			return err
		}
		var assignee *domain.User
		if update.AssigneeID != nil && *update.AssigneeID != "" {
			user, ok := s.lookupUser(*update.AssigneeID)
			if !ok {
				return apperrors.NewValidationError("unknown assignee", map[string]any{"assignee": *update.AssigneeID})
			}
			assignee = &user
		}

		var err error
		before, after, err = s.mutateTicket(ctx, id, func(t *domain.Ticket, now time.Time) error {
			if update.Title != nil {
				t.Title = strings.TrimSpace(*update.Title)
				fields = append(fields, "title")
			}
			if update.Description != nil {
				t.Description = strings.TrimSpace(*update.Description)
				fields = append(fields, "description")
			}
			if update.CategoryID != nil {
				category, ok := s.categoryLocked(*update.CategoryID)
				if !ok {
					return apperrors.NewValidationError("unknown category", map[string]any{"category": *update.CategoryID})
				}
				t.Category = category
				fields = append(fields, "category")
			}
			if update.Status != nil {
				applyStatus(t, *update.Status, now)
				fields = append(fields, "status")
			}
			if update.Priority != nil {
				t.Priority = *update.Priority
				fields = append(fields, "priority")
			}
			if update.Severity != nil {
				t.Severity = *update.Severity
				fields = append(fields, "severity")
			}
			if update.AssigneeID != nil {
				t.Assignee = assignee
				fields = append(fields, "assignee")
			}
			if update.DueDate != nil {
				due := *update.DueDate
				t.DueDate = &due
				fields = append(fields, "dueDate")
			}
			if update.Tags != nil {
				t.Tags = normalizeTags(update.Tags)
				fields = append(fields, "tags")
			}
			if update.IsPrivate != nil {
				t.IsPrivate = *update.IsPrivate
				fields = append(fields, "isPrivate")
			}
			return nil
		})
		return err
	})
	if err != nil {
		return domain.Ticket{}, err
	}

	s.publish(ctx, after, events.EventTicketUpdated, "", events.TicketUpdatedPayload{Fields: fields})
	if before.Status != after.Status {
		s.publish(ctx, after, events.EventTicketStatusChanged, "", events.TicketStatusChangedPayload{
			OldStatus: before.Status, NewStatus: after.Status,
		})
	}
	if assigneeID(before) != assigneeID(after) {
		s.publish(ctx, after, events.EventTicketAssigned, "", events.TicketAssignedPayload{
			AssigneeID: assigneeID(after), PreviousAssigneeID: assigneeID(before),
		})
	}
	return after, nil
}

// DeleteTicket removes the ticket permanently. Unknown ids are not an error.
func (s *TicketService) DeleteTicket(ctx context.Context, id string) error {
	var (
		removed domain.Ticket
		found   bool
	)
	err := s.runTicket(ctx, opDeleteTicket, id, func() error {
		s.mu.Lock()
		defer s.mu.Unlock()
		idx := s.indexLocked(id)
		if idx >= 0 {
			removed, found = s.tickets[idx], true
			s.tickets = append(s.tickets[:idx:idx], s.tickets[idx+1:]...)
		}
		s.persistLocked(ctx)
		return nil
	})
	if err != nil {
		return err
	}
	if found {
		s.publish(ctx, removed, events.EventTicketDeleted, "", nil)
	}
	return nil
}

// UpvoteTicket toggles userID's vote. Adding a vote that takes the count past
// the escalation threshold raises severity one level; removing a vote never
// lowers it.
func (s *TicketService) UpvoteTicket(ctx context.Context, id, userID string) (domain.Ticket, error) {
	var (
		before, after domain.Ticket
		added         bool
	)
	err := s.runTicket(ctx, opUpvoteTicket, id, func() error {
		if strings.TrimSpace(userID) == "" {
			return apperrors.NewValidationError("user is required", nil)
		}
		var err error
		before, after, err = s.mutateTicket(ctx, id, func(t *domain.Ticket, _ time.Time) error {
			if t.HasVoted(userID) {
				t.UpvotedBy = lo.Without(t.UpvotedBy, userID)
				t.Upvotes--
				added = false
				return nil
			}
			t.UpvotedBy = append(t.UpvotedBy, userID)
			t.Upvotes++
			added = true
			if t.Upvotes > s.escalationThreshold && t.Severity != domain.TicketSeverityCritical {
				t.Severity = t.Severity.Escalate()
			}
			return nil
		})
		return err
	})
	if err != nil {
		return domain.Ticket{}, err
	}

	s.publish(ctx, after, events.EventTicketUpvoted, userID, events.TicketUpvotedPayload{
		UserID: userID, Added: added, Upvotes: after.Upvotes,
	})
	if before.Severity != after.Severity {
		s.publish(ctx, after, events.EventTicketSeverityChanged, userID, events.TicketSeverityChangedPayload{
			OldSeverity: before.Severity, NewSeverity: after.Severity, Escalated: true,
		})
	}
	return after, nil
}

// ChangeTicketStatus sets the status. Entering resolved stamps resolvedAt;
// leaving resolved keeps it.
func (s *TicketService) ChangeTicketStatus(ctx context.Context, id string, status domain.TicketStatus) (domain.Ticket, error) {
	var before, after domain.Ticket
	err := s.runTicket(ctx, opChangeStatus, id, func() error {
		if !status.Valid() {
			return apperrors.NewValidationError("invalid status", map[string]any{"status": status})
		}
		var err error
		before, after, err = s.mutateTicket(ctx, id, func(t *domain.Ticket, now time.Time) error {
			applyStatus(t, status, now)
			return nil
		})
		return err
	})
	if err != nil {
		return domain.Ticket{}, err
	}
	s.publish(ctx, after, events.EventTicketStatusChanged, "", events.TicketStatusChangedPayload{
		OldStatus: before.Status, NewStatus: after.Status,
	})
	return after, nil
}

// ChangePriority sets the priority.
func (s *TicketService) ChangePriority(ctx context.Context, id string, priority domain.TicketPriority) (domain.Ticket, error) {
	var before, after domain.Ticket
	err := s.runTicket(ctx, opChangePriority, id, func() error {
		if !priority.Valid() {
			return apperrors.NewValidationError("invalid priority", map[string]any{"priority": priority})
		}
		var err error
		before, after, err = s.mutateTicket(ctx, id, func(t *domain.Ticket, _ time.Time) error {
			t.Priority = priority
			return nil
		})
		return err
	})
	if err != nil {
		return domain.Ticket{}, err
	}
	s.publish(ctx, after, events.EventTicketPriorityChanged, "", events.TicketPriorityChangedPayload{
		OldPriority: before.Priority, NewPriority: after.Priority,
	})
	return after, nil
}

// ChangeSeverity sets the severity.
func (s *TicketService) ChangeSeverity(ctx context.Context, id string, severity domain.TicketSeverity) (domain.Ticket, error) {
	var before, after domain.Ticket
	err := s.runTicket(ctx, opChangeSeverity, id, func() error {
		if !severity.Valid() {
			return apperrors.NewValidationError("invalid severity", map[string]any{"severity": severity})
		}
		var err error
		before, after, err = s.mutateTicket(ctx, id, func(t *domain.Ticket, _ time.Time) error {
			t.Severity = severity
			return nil
		})
		return err
	})
	if err != nil {
		return domain.Ticket{}, err
	}
	s.publish(ctx, after, events.EventTicketSeverityChanged, "", events.TicketSeverityChangedPayload{
		OldSeverity: before.Severity, NewSeverity: after.Severity,
	})
	return after, nil
}

// AssignTicket sets the assignee from the user directory; an empty userID
// unassigns. An unknown user leaves the ticket unchanged and is not an error.
func (s *TicketService) AssignTicket(ctx context.Context, id, userID string) (domain.Ticket, error) {
	var before, after domain.Ticket
	err := s.runTicket(ctx, opAssignTicket, id, func() error {
		var assignee *domain.User
		if userID != "" {
			user, ok := s.lookupUser(userID)
			if !ok {
				s.logger.Warn("assign ignored: unknown user", zap.String("ticket_id", id), zap.String("user_id", userID))
			} else {
				assignee = &user
			}
		}
		var err error
		before, after, err = s.mutateTicket(ctx, id, func(t *domain.Ticket, _ time.Time) error {
			if userID != "" && assignee == nil {
				return errUnchanged
			}
			t.Assignee = assignee
			return nil
		})
		return err
	})
	if err != nil {
		return domain.Ticket{}, err
	}
	if assigneeID(before) != assigneeID(after) {
		s.publish(ctx, after, events.EventTicketAssigned, "", events.TicketAssignedPayload{
			AssigneeID: assigneeID(after), PreviousAssigneeID: assigneeID(before),
		})
	}
	return after, nil
}

// AddComment appends a sanitized comment.
func (s *TicketService) AddComment(ctx context.Context, id string, input CommentInput) (domain.Ticket, error) {
	var (
		after   domain.Ticket
		comment domain.Comment
	)
	err := s.runTicket(ctx, opAddComment, id, func() error {
		content := strings.TrimSpace(s.sanitizer.Sanitize(input.Content))
		if content == "" || input.Author.ID == "" {
			return apperrors.NewValidationError("comment content and author are required", nil)
		}
		var err error
		_, after, err = s.mutateTicket(ctx, id, func(t *domain.Ticket, now time.Time) error {
			comment = domain.Comment{
				ID:        "comment-" + uuid.NewString(),
				Content:   content,
				Author:    input.Author,
				CreatedAt: now,
			}
			if mentions := lo.Uniq(lo.Compact(input.Mentions)); len(mentions) > 0 {
				comment.Mentions = mentions
			}
			t.Comments = append(t.Comments, comment)
			return nil
		})
		return err
	})
	if err != nil {
		return domain.Ticket{}, err
	}
	s.publish(ctx, after, events.EventTicketCommentAdded, comment.Author.ID, events.TicketCommentAddedPayload{
		CommentID:   comment.ID,
		AuthorID:    comment.Author.ID,
		Mentions:    comment.Mentions,
		BodyPreview: stringPreview(comment.Content, 120),
	})
	return after, nil
}

// AddAttachment appends attachment metadata.
func (s *TicketService) AddAttachment(ctx context.Context, id string, input AttachmentInput) (domain.Ticket, error) {
	var (
		after      domain.Ticket
		attachment domain.Attachment
	)
	err := s.runTicket(ctx, opAddAttachment, id, func() error {
		if strings.TrimSpace(input.Name) == "" || strings.TrimSpace(input.URL) == "" {
			return apperrors.NewValidationError("attachment name and url are required", nil)
		}
		if input.Size < 0 {
			return apperrors.NewValidationError("attachment size cannot be negative", nil)
		}
		var err error
		_, after, err = s.mutateTicket(ctx, id, func(t *domain.Ticket, now time.Time) error {
			attachment = domain.Attachment{
				ID:         "attachment-" + uuid.NewString(),
				Name:       strings.TrimSpace(input.Name),
				URL:        strings.TrimSpace(input.URL),
				Size:       input.Size,
				Type:       input.Type,
				UploadedBy: input.UploadedBy,
				UploadedAt: now,
			}
			t.Attachments = append(t.Attachments, attachment)
			return nil
		})
		return err
	})
	if err != nil {
		return domain.Ticket{}, err
	}
	s.publish(ctx, after, events.EventTicketAttachmentAdded, attachment.UploadedBy.ID, events.TicketAttachmentPayload{
		AttachmentID: attachment.ID, Name: attachment.Name,
	})
	return after, nil
}

// RemoveAttachment deletes the attachment from the ticket.
func (s *TicketService) RemoveAttachment(ctx context.Context, ticketID, attachmentID string) (domain.Ticket, error) {
	var (
		after   domain.Ticket
		removed domain.Attachment
	)
	err := s.runTicket(ctx, opRemoveAttachment, ticketID, func() error {
		var err error
		_, after, err = s.mutateTicket(ctx, ticketID, func(t *domain.Ticket, _ time.Time) error {
			attachment, idx, ok := lo.FindIndexOf(t.Attachments, func(a domain.Attachment) bool { return a.ID == attachmentID })
			if !ok {
				return apperrors.NewNotFound("attachment", map[string]any{"id": attachmentID, "ticket_id": ticketID})
			}
			removed = attachment
			t.Attachments = append(t.Attachments[:idx:idx], t.Attachments[idx+1:]...)
			return nil
		})
		return err
	})
	if err != nil {
		return domain.Ticket{}, err
	}
	s.publish(ctx, after, events.EventTicketAttachmentRemoved, "", events.TicketAttachmentPayload{
		AttachmentID: removed.ID, Name: removed.Name,
	})
	return after, nil
}

// AddWatcher adds userID to the watcher set.
func (s *TicketService) AddWatcher(ctx context.Context, id, userID string) (domain.Ticket, error) {
	return s.changeWatcher(ctx, opAddWatcher, id, userID, true)
}

// RemoveWatcher removes userID from the watcher set.
func (s *TicketService) RemoveWatcher(ctx context.Context, id, userID string) (domain.Ticket, error) {
	return s.changeWatcher(ctx, opRemoveWatcher, id, userID, false)
}

func (s *TicketService) changeWatcher(ctx context.Context, op operation, id, userID string, watching bool) (domain.Ticket, error) {
	var after domain.Ticket
	err := s.runTicket(ctx, op, id, func() error {
		if strings.TrimSpace(userID) == "" {
			return apperrors.NewValidationError("user is required", nil)
		}
		var err error
		_, after, err = s.mutateTicket(ctx, id, func(t *domain.Ticket, _ time.Time) error {
			if watching {
				if !lo.Contains(t.Watchers, userID) {
					t.Watchers = append(t.Watchers, userID)
				}
				return nil
			}
			t.Watchers = lo.Without(t.Watchers, userID)
			return nil
		})
		return err
	})
	if err != nil {
		return domain.Ticket{}, err
	}
	s.publish(ctx, after, events.EventTicketWatcherChanged, userID, events.TicketWatcherChangedPayload{
		UserID: userID, Watching: watching,
	})
	return after, nil
}

// CreateCategory appends a category with a zero item count.
func (s *TicketService) CreateCategory(ctx context.Context, input CategoryInput) (domain.Category, error) {
	var created domain.Category
	err := s.run(ctx, opCreateCategory, func() error {
		name := strings.TrimSpace(input.Name)
		if name == "" {
			return apperrors.NewValidationError("category name is required", nil)
		}
		created = domain.Category{
			ID:          "cat-" + uuid.NewString(),
			Name:        name,
			Description: input.Description,
			Color:       input.Color,
			Icon:        input.Icon,
			ParentID:    input.ParentID,
		}
		s.mu.Lock()
		s.categories = append(s.categories, created)
		s.mu.Unlock()
		return nil
	})
	return created, err
}

// UpdateCategory merges update into the category. Tickets keep the category
// snapshot they were filed with.
func (s *TicketService) UpdateCategory(ctx context.Context, id string, update CategoryUpdate) (domain.Category, error) {
	var updated domain.Category
	err := s.run(ctx, opUpdateCategory, func() error {
		s.mu.Lock()
		defer s.mu.Unlock()
		_, idx, ok := lo.FindIndexOf(s.categories, func(c domain.Category) bool { return c.ID == id })
		if !ok {
			return apperrors.NewNotFound("category", map[string]any{"id": id})
		}
		category := s.categories[idx]
		if update.Name != nil {
			name := strings.TrimSpace(*update.Name)
			if name == "" {
				return apperrors.NewValidationError("category name is required", nil)
			}
			category.Name = name
		}
		if update.Description != nil {
			category.Description = *update.Description
		}
		if update.Color != nil {
			category.Color = *update.Color
		}
		if update.Icon != nil {
			category.Icon = *update.Icon
		}
		if update.ParentID != nil {
			category.ParentID = *update.ParentID
		}
		s.categories[idx] = category
		updated = category
		return nil
	})
	return updated, err
}

// DeleteCategory removes the category. Unknown ids are not an error.
func (s *TicketService) DeleteCategory(ctx context.Context, id string) error {
	return s.run(ctx, opDeleteCategory, func() error {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.categories = lo.Reject(s.categories, func(c domain.Category, _ int) bool { return c.ID == id })
		return nil
	})
}

// mutateTicket applies fn to a copy of the ticket under the store lock,
// refreshes updatedAt, stores the copy and persists the collection. It
// returns the ticket before and after the change.
func (s *TicketService) mutateTicket(ctx context.Context, id string, fn func(t *domain.Ticket, now time.Time) error) (domain.Ticket, domain.Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexLocked(id)
	if idx < 0 {
		return domain.Ticket{}, domain.Ticket{}, apperrors.NewNotFound("ticket", map[string]any{"id": id})
	}
	before := s.tickets[idx].Clone()
	updated := s.tickets[idx].Clone()
	now := s.clock.Now()
	if err := fn(&updated, now); err != nil {
		if errors.Is(err, errUnchanged) {
			return before, before.Clone(), nil
		}
		return domain.Ticket{}, domain.Ticket{}, err
	}
	if now.After(updated.UpdatedAt) {
		updated.UpdatedAt = now
	}
	s.tickets[idx] = updated
	s.persistLocked(ctx)
	return before, updated.Clone(), nil
}

// persistLocked saves the collection. Storage failures are logged and do not
// fail the operation.
func (s *TicketService) persistLocked(ctx context.Context) {
	if s.repo == nil {
		return
	}
	if err := s.repo.Save(ctx, s.tickets); err != nil {
		s.logger.Warn("ticket snapshot not persisted", zap.Error(err))
	}
}

func (s *TicketService) publish(ctx context.Context, ticket domain.Ticket, eventType events.EventType, actorID string, payload any) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:          uuid.NewString(),
		Type:        eventType,
		TicketID:    ticket.ID,
		TicketTitle: ticket.Title,
		ActorID:     actorID,
		Timestamp:   s.clock.Now(),
		Payload:     payload,
	})
}

func (s *TicketService) indexLocked(id string) int {
	_, idx, ok := lo.FindIndexOf(s.tickets, func(t domain.Ticket) bool { return t.ID == id })
	if !ok {
		return -1
	}
	return idx
}

func (s *TicketService) categoryLocked(id string) (domain.Category, bool) {
	return lo.Find(s.categories, func(c domain.Category) bool { return c.ID == id })
}

func (s *TicketService) lookupUser(id string) (domain.User, bool) {
	if s.users == nil {
		return domain.User{}, false
	}
	return s.users.GetUserByID(id)
}

func applyStatus(t *domain.Ticket, status domain.TicketStatus, now time.Time) {
	t.Status = status
	if status == domain.TicketStatusResolved {
		resolved := now
		t.ResolvedAt = &resolved
	}
}

func validateEnums(status domain.TicketStatus, priority domain.TicketPriority, severity domain.TicketSeverity) error {
	details := map[string]any{}
	if !status.Valid() {
		details["status"] = status
	}
	if !priority.Valid() {
		details["priority"] = priority
	}
	if !severity.Valid() {
		details["severity"] = severity
	}
	if len(details) > 0 {
		return apperrors.NewValidationError("invalid ticket fields", details)
	}
	return nil
}

func validateUpdate(update TicketUpdate) error {
	if update.Title != nil && strings.TrimSpace(*update.Title) == "" {
		return apperrors.NewValidationError("title cannot be empty", nil)
	}
	if update.Description != nil && strings.TrimSpace(*update.Description) == "" {
		return apperrors.NewValidationError("description cannot be empty", nil)
	}
	status := domain.TicketStatusOpen
	priority := domain.TicketPriorityMedium
	severity := domain.TicketSeverityLow
	if update.Status != nil {
		status = *update.Status
	}
	if update.Priority != nil {
		priority = *update.Priority
	}
	if update.Severity != nil {
		severity = *update.Severity
	}
	return validateEnums(status, priority, severity)
}

func normalizeTags(tags []string) []string {
	trimmed := lo.Map(tags, func(tag string, _ int) string { return strings.TrimSpace(tag) })
	return lo.Uniq(lo.Compact(trimmed))
}

func assigneeID(t domain.Ticket) string {
	if t.Assignee == nil {
		return ""
	}
	return t.Assignee.ID
}

func cloneTickets(tickets []domain.Ticket) []domain.Ticket {
	return lo.Map(tickets, func(t domain.Ticket, _ int) domain.Ticket { return t.Clone() })
}

func stringPreview(body string, max int) string {
	runes := []rune(strings.TrimSpace(body))
	if len(runes) <= max {
		return string(runes)
	}
	if max <= 3 {
		return string(runes[:max])
	}
	return string(runes[:max-3]) + "..."
}
