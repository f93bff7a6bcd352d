package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/office-helpdesk/internal/api/dto"
	"github.com/spec-kit/office-helpdesk/internal/auth"
	"github.com/spec-kit/office-helpdesk/internal/domain"
	"github.com/spec-kit/office-helpdesk/internal/service"
	apperrors "github.com/spec-kit/office-helpdesk/pkg/util"
)

// TicketsHandler exposes the ticket store.
type TicketsHandler struct {
	service  *service.TicketService
	sessions auth.SessionView
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(ticketService *service.TicketService, sessions auth.SessionView) *TicketsHandler {
	return &TicketsHandler{service: ticketService, sessions: sessions}
}

// ListTickets GET /tickets.
func (h *TicketsHandler) ListTickets(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	filter := service.TicketFilter{
		Status:   c.Query("status"),
		Category: c.Query("category"),
		Priority: c.Query("priority"),
		Assignee: c.Query("assignee"),
		Reporter: c.Query("reporter"),
		Search:   c.Query("search"),
	}
	items := make([]domain.Ticket, 0)
	for _, ticket := range h.service.GetFilteredTickets(filter) {
		if service.VisibleTo(ticket, principal.User) {
			items = append(items, ticket)
		}
	}
	return c.JSON(fiber.Map{"data": dto.TicketListResponse{Items: items, Total: len(items)}})
}

// GetTicket GET /tickets/:id.
func (h *TicketsHandler) GetTicket(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	ticket, err := h.visibleTicket(c.Params("id"), principal.User)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticket})
}

// CreateTicket POST /tickets.
func (h *TicketsHandler) CreateTicket(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	var req dto.CreateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	ticket, err := h.service.CreateTicket(c.UserContext(), service.TicketCreateInput{
		Title:       req.Title,
		Description: req.Description,
		CategoryID:  req.CategoryID,
		ReporterID:  principal.User.ID,
		AssigneeID:  req.AssigneeID,
		Status:      req.Status,
		Priority:    req.Priority,
		Severity:    req.Severity,
		DueDate:     req.DueDate,
		Tags:        req.Tags,
		IsPrivate:   req.IsPrivate,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": ticket})
}

// UpdateTicket PUT /tickets/:id.
func (h *TicketsHandler) UpdateTicket(c *fiber.Ctx) error {
	if err := h.authorizeEdit(c); err != nil {
		return err
	}
	var req dto.UpdateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.AssigneeID != nil && !h.sessions.HasPermission(domain.PermAssignTicket) {
		return apperrors.NewForbidden("missing permission " + domain.PermAssignTicket)
	}
	ticket, err := h.service.UpdateTicket(c.UserContext(), c.Params("id"), service.TicketUpdate{
		Title:       req.Title,
		Description: req.Description,
		CategoryID:  req.CategoryID,
		Status:      req.Status,
		Priority:    req.Priority,
		Severity:    req.Severity,
		AssigneeID:  req.AssigneeID,
		DueDate:     req.DueDate,
		Tags:        req.Tags,
		IsPrivate:   req.IsPrivate,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticket})
}

// DeleteTicket DELETE /tickets/:id.
func (h *TicketsHandler) DeleteTicket(c *fiber.Ctx) error {
	if err := h.service.DeleteTicket(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Upvote POST /tickets/:id/upvote toggles the session user's vote.
func (h *TicketsHandler) Upvote(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	if _, err := h.visibleTicket(c.Params("id"), principal.User); err != nil {
		return err
	}
	ticket, err := h.service.UpvoteTicket(c.UserContext(), c.Params("id"), principal.User.ID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticket})
}

// ChangeStatus PUT /tickets/:id/status.
func (h *TicketsHandler) ChangeStatus(c *fiber.Ctx) error {
	if err := h.authorizeEdit(c); err != nil {
		return err
	}
	var req dto.StatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	ticket, err := h.service.ChangeTicketStatus(c.UserContext(), c.Params("id"), req.Status)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticket})
}

// ChangePriority PUT /tickets/:id/priority.
func (h *TicketsHandler) ChangePriority(c *fiber.Ctx) error {
	if err := h.authorizeEdit(c); err != nil {
		return err
	}
	var req dto.PriorityRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	ticket, err := h.service.ChangePriority(c.UserContext(), c.Params("id"), req.Priority)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticket})
}

// ChangeSeverity PUT /tickets/:id/severity.
func (h *TicketsHandler) ChangeSeverity(c *fiber.Ctx) error {
	if err := h.authorizeEdit(c); err != nil {
		return err
	}
	var req dto.SeverityRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	ticket, err := h.service.ChangeSeverity(c.UserContext(), c.Params("id"), req.Severity)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticket})
}

// Assign PUT /tickets/:id/assignee.
func (h *TicketsHandler) Assign(c *fiber.Ctx) error {
	var req dto.AssignRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	ticket, err := h.service.AssignTicket(c.UserContext(), c.Params("id"), req.UserID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticket})
}

// AddComment POST /tickets/:id/comments.
func (h *TicketsHandler) AddComment(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	if _, err := h.visibleTicket(c.Params("id"), principal.User); err != nil {
		return err
	}
	var req dto.CommentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	ticket, err := h.service.AddComment(c.UserContext(), c.Params("id"), service.CommentInput{
		Content:  req.Content,
		Author:   principal.User,
		Mentions: req.Mentions,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": ticket})
}

// AddAttachment POST /tickets/:id/attachments.
func (h *TicketsHandler) AddAttachment(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	if _, err := h.visibleTicket(c.Params("id"), principal.User); err != nil {
		return err
	}
	var req dto.AttachmentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	ticket, err := h.service.AddAttachment(c.UserContext(), c.Params("id"), service.AttachmentInput{
		Name:       req.Name,
		URL:        req.URL,
		Size:       req.Size,
		Type:       req.Type,
		UploadedBy: principal.User,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": ticket})
}

// RemoveAttachment DELETE /tickets/:id/attachments/:attachmentId.
func (h *TicketsHandler) RemoveAttachment(c *fiber.Ctx) error {
	if err := h.authorizeEdit(c); err != nil {
		return err
	}
	ticket, err := h.service.RemoveAttachment(c.UserContext(), c.Params("id"), c.Params("attachmentId"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticket})
}

// AddWatcher POST /tickets/:id/watchers. Without a userId the session user watches.
func (h *TicketsHandler) AddWatcher(c *fiber.Ctx) error {
	return h.changeWatcher(c, h.service.AddWatcher)
}

// RemoveWatcher DELETE /tickets/:id/watchers.
func (h *TicketsHandler) RemoveWatcher(c *fiber.Ctx) error {
	return h.changeWatcher(c, h.service.RemoveWatcher)
}

type watcherFunc func(ctx context.Context, id, userID string) (domain.Ticket, error)

func (h *TicketsHandler) changeWatcher(c *fiber.Ctx, change watcherFunc) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	if _, err := h.visibleTicket(c.Params("id"), principal.User); err != nil {
		return err
	}
	var req dto.WatcherRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return apperrors.NewValidationError("invalid payload", nil)
		}
	}
	userID := req.UserID
	if userID == "" {
		userID = principal.User.ID
	}
	if userID != principal.User.ID && !h.sessions.HasPermission(domain.PermEditTicket) {
		return apperrors.NewForbidden("cannot change watchers for another user")
	}
	ticket, err := change(c.UserContext(), c.Params("id"), userID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticket})
}

// authorizeEdit passes holders of edit_ticket, and holders of edit_own_ticket
// for tickets they reported.
func (h *TicketsHandler) authorizeEdit(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	if h.sessions.HasPermission(domain.PermEditTicket) {
		return nil
	}
	if !h.sessions.HasPermission(domain.PermEditOwnTicket) {
		return apperrors.NewForbidden("missing permission " + domain.PermEditTicket)
	}
	ticket, ok := h.service.GetTicketByID(c.Params("id"))
	if !ok {
		return apperrors.NewNotFound("ticket", map[string]any{"id": c.Params("id")})
	}
	if ticket.Reporter.ID != principal.User.ID {
		return apperrors.NewForbidden("only the reporter may edit this ticket")
	}
	return nil
}

func (h *TicketsHandler) visibleTicket(id string, user domain.User) (domain.Ticket, error) {
	ticket, ok := h.service.GetTicketByID(id)
	if !ok || !service.VisibleTo(ticket, user) {
		return domain.Ticket{}, apperrors.NewNotFound("ticket", map[string]any{"id": id})
	}
	return ticket, nil
}

func requirePrincipal(c *fiber.Ctx) (*auth.Principal, error) {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return nil, apperrors.NewUnauthorized("authentication required")
	}
	return principal, nil
}
