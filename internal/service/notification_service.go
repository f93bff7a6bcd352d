package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/spec-kit/office-helpdesk/internal/config"
	"github.com/spec-kit/office-helpdesk/internal/domain"
	"github.com/spec-kit/office-helpdesk/internal/events"
)

// NotificationSink receives notifications as they are created.
type NotificationSink interface {
	Deliver(n domain.Notification)
}

// TicketReader looks tickets up by id.
type TicketReader interface {
	GetTicketByID(id string) (domain.Ticket, bool)
}

// RoleDirectory lists users holding a role.
type RoleDirectory interface {
	UsersByRole(role domain.UserRole) []domain.User
}

// NotificationDependencies bundles collaborators for the notification service.
type NotificationDependencies struct {
	Dispatcher events.Dispatcher
	Feed       *NotificationFeed
	Tickets    TicketReader
	Users      RoleDirectory
	Sinks      []NotificationSink
	Logger     *zap.Logger
	Config     config.NotificationConfig
}

// NotificationService turns ticket events into feed notifications.
type NotificationService struct {
	dispatcher events.Dispatcher
	feed       *NotificationFeed
	tickets    TicketReader
	users      RoleDirectory
	sinks      []NotificationSink
	logger     *zap.Logger
	cfg        config.NotificationConfig
}

// NewNotificationService creates the service.
func NewNotificationService(deps NotificationDependencies) *NotificationService {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	return &NotificationService{
		dispatcher: deps.Dispatcher,
		feed:       deps.Feed,
		tickets:    deps.Tickets,
		users:      deps.Users,
		sinks:      deps.Sinks,
		logger:     deps.Logger,
		cfg:        deps.Config,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventTicketCreated, n.handleTicketCreated)
	n.dispatcher.Subscribe(events.EventTicketAssigned, n.handleTicketAssigned)
	n.dispatcher.Subscribe(events.EventTicketStatusChanged, n.handleTicketStatusChanged)
	n.dispatcher.Subscribe(events.EventTicketCommentAdded, n.handleTicketCommentAdded)
	for _, eventType := range []events.EventType{
		events.EventTicketUpdated,
		events.EventTicketPriorityChanged,
		events.EventTicketSeverityChanged,
		events.EventTicketAttachmentAdded,
		events.EventTicketAttachmentRemoved,
	} {
		n.dispatcher.Subscribe(eventType, n.handleTicketUpdated)
	}
}

func (n *NotificationService) handleTicketCreated(ctx context.Context, event events.Event) error {
	payload, _ := event.Payload.(events.TicketCreatedPayload)
	var admins []string
	if n.users != nil {
		admins = lo.Map(n.users.UsersByRole(domain.UserRoleAdmin), func(u domain.User, _ int) string { return u.ID })
	}
	message := fmt.Sprintf("New ticket created: '%s'", event.TicketTitle)
	n.notify(event, domain.NotificationTicketCreated, message, lo.Without(admins, payload.ReporterID))
	n.sendEmailNotificationStub(ctx, event)
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleTicketAssigned(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.TicketAssignedPayload)
	if !ok {
		return fmt.Errorf("unexpected payload %T", event.Payload)
	}
	if payload.AssigneeID != "" {
		message := fmt.Sprintf("You have been assigned to ticket '%s'", event.TicketTitle)
		n.notify(event, domain.NotificationTicketAssigned, message, []string{payload.AssigneeID})
	}
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleTicketStatusChanged(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.TicketStatusChangedPayload)
	if !ok {
		return fmt.Errorf("unexpected payload %T", event.Payload)
	}
	ticket, found := n.lookup(event.TicketID)
	if !found {
		return nil
	}
	if payload.NewStatus == domain.TicketStatusResolved {
		message := fmt.Sprintf("Ticket '%s' has been resolved", event.TicketTitle)
		recipients := append([]string{ticket.Reporter.ID}, ticket.Watchers...)
		n.notify(event, domain.NotificationTicketResolved, message, recipients)
	} else {
		message := fmt.Sprintf("Ticket '%s' has been updated", event.TicketTitle)
		n.notify(event, domain.NotificationTicketUpdated, message, ticket.Watchers)
	}
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleTicketCommentAdded(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.TicketCommentAddedPayload)
	if !ok {
		return fmt.Errorf("unexpected payload %T", event.Payload)
	}
	mentionMessage := fmt.Sprintf("You were mentioned in a comment on '%s'", event.TicketTitle)
	n.notify(event, domain.NotificationMention, mentionMessage, payload.Mentions)

	if ticket, found := n.lookup(event.TicketID); found {
		message := fmt.Sprintf("Ticket '%s' has been updated", event.TicketTitle)
		watchers := lo.Without(ticket.Watchers, payload.Mentions...)
		n.notify(event, domain.NotificationTicketUpdated, message, watchers)
	}
	n.sendEmailNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleTicketUpdated(ctx context.Context, event events.Event) error {
	ticket, found := n.lookup(event.TicketID)
	if !found {
		return nil
	}
	message := fmt.Sprintf("Ticket '%s' has been updated", event.TicketTitle)
	n.notify(event, domain.NotificationTicketUpdated, message, ticket.Watchers)
	return nil
}

// notify creates one notification per distinct recipient, skipping the actor.
func (n *NotificationService) notify(event events.Event, kind domain.NotificationType, message string, recipients []string) {
	recipients = lo.Without(lo.Uniq(lo.Compact(recipients)), event.ActorID)
	for _, userID := range recipients {
		notification := domain.Notification{
			UserID:    userID,
			Type:      kind,
			Message:   message,
			RelatedID: event.TicketID,
			CreatedAt: event.Timestamp,
		}
		if n.feed != nil {
			notification = n.feed.Append(notification)
		}
		for _, sink := range n.sinks {
			sink.Deliver(notification)
		}
		n.logger.Debug("notification created",
			zap.String("user_id", userID),
			zap.String("type", string(kind)),
			zap.String("ticket_id", event.TicketID))
	}
}

func (n *NotificationService) lookup(ticketID string) (domain.Ticket, bool) {
	if n.tickets == nil {
		return domain.Ticket{}, false
	}
	return n.tickets.GetTicketByID(ticketID)
}

func (n *NotificationService) sendEmailNotificationStub(ctx context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.EmailFrom) == "" {
		return
	}
	n.logger.Debug("sendEmailNotificationStub",
		zap.String("from", n.cfg.EmailFrom),
		zap.String("ticket_id", event.TicketID),
		zap.String("event_type", string(event.Type)))
}

func (n *NotificationService) sendWebhookNotificationStub(ctx context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.WebhookURL) == "" {
		return
	}
	n.logger.Debug("sendWebhookNotificationStub",
		zap.String("url", n.cfg.WebhookURL),
		zap.String("ticket_id", event.TicketID),
		zap.String("event_type", string(event.Type)))
}
