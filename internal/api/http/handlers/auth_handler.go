package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/office-helpdesk/internal/api/dto"
	"github.com/spec-kit/office-helpdesk/internal/auth"
	"github.com/spec-kit/office-helpdesk/internal/domain"
	"github.com/spec-kit/office-helpdesk/internal/service"
	apperrors "github.com/spec-kit/office-helpdesk/pkg/util"
)

// AuthHandler exposes the session, its notifications and settings.
type AuthHandler struct {
	auth        *service.AuthService
	permissions *service.PermissionTable
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService, permissions *service.PermissionTable) *AuthHandler {
	return &AuthHandler{auth: authService, permissions: permissions}
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		return apperrors.NewValidationError("email and password required", nil)
	}

	session, err := h.auth.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}
	resp := h.sessionResponse(session.User)
	resp.Auth = &dto.AuthResponse{Token: session.Token, ExpiresAt: session.ExpiresAt}
	return c.JSON(fiber.Map{"data": resp})
}

// Logout handles POST /auth/logout.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	h.auth.Logout(c.UserContext())
	return c.SendStatus(fiber.StatusNoContent)
}

// Me handles GET /auth/me.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	return c.JSON(fiber.Map{"data": h.sessionResponse(principal.User)})
}

// Notifications handles GET /notifications.
func (h *AuthHandler) Notifications(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"data": dto.NotificationListResponse{
		Items:  h.auth.Notifications(),
		Unread: h.auth.UnreadNotificationsCount(),
	}})
}

// MarkNotificationRead handles POST /notifications/:id/read.
func (h *AuthHandler) MarkNotificationRead(c *fiber.Ctx) error {
	h.auth.MarkNotificationAsRead(c.Params("id"))
	return c.JSON(fiber.Map{"data": fiber.Map{"unread": h.auth.UnreadNotificationsCount()}})
}

// MarkAllNotificationsRead handles POST /notifications/read-all.
func (h *AuthHandler) MarkAllNotificationsRead(c *fiber.Ctx) error {
	h.auth.MarkAllNotificationsAsRead()
	return c.JSON(fiber.Map{"data": fiber.Map{"unread": h.auth.UnreadNotificationsCount()}})
}

// Settings handles GET /settings.
func (h *AuthHandler) Settings(c *fiber.Ctx) error {
	settings, ok := h.auth.UserSettings()
	if !ok {
		return apperrors.NewNotFound("settings", nil)
	}
	return c.JSON(fiber.Map{"data": settings})
}

// UpdateSettings handles PUT /settings.
func (h *AuthHandler) UpdateSettings(c *fiber.Ctx) error {
	var req dto.SettingsRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	err := h.auth.UpdateUserSettings(service.SettingsUpdate{
		Theme:                req.Theme,
		EmailNotifications:   req.EmailNotifications,
		DesktopNotifications: req.DesktopNotifications,
		Language:             req.Language,
	})
	if err != nil {
		return err
	}
	return h.Settings(c)
}

func (h *AuthHandler) sessionResponse(user domain.User) dto.SessionResponse {
	resp := dto.SessionResponse{
		User:        user,
		Permissions: h.permissions.Permissions(user.Role),
		Unread:      h.auth.UnreadNotificationsCount(),
	}
	if resp.Permissions == nil {
		resp.Permissions = []string{}
	}
	if settings, ok := h.auth.UserSettings(); ok {
		resp.Settings = &settings
	}
	return resp
}
