package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/samber/lo"

	"github.com/spec-kit/office-helpdesk/internal/api/dto"
	"github.com/spec-kit/office-helpdesk/internal/domain"
	"github.com/spec-kit/office-helpdesk/internal/service"
	apperrors "github.com/spec-kit/office-helpdesk/pkg/util"
)

// UsersHandler exposes the user directory.
type UsersHandler struct {
	service *service.UserService
}

// NewUsersHandler constructs handler.
func NewUsersHandler(userService *service.UserService) *UsersHandler {
	return &UsersHandler{service: userService}
}

// ListUsers GET /users. search, department and role narrow the listing.
func (h *UsersHandler) ListUsers(c *fiber.Ctx) error {
	users := h.service.SearchUsers(c.Query("search"))
	if department := c.Query("department"); department != "" {
		users = lo.Filter(users, func(u domain.User, _ int) bool { return u.Department == department })
	}
	if role := c.Query("role"); role != "" {
		users = lo.Filter(users, func(u domain.User, _ int) bool { return string(u.Role) == role })
	}
	return c.JSON(fiber.Map{"data": users})
}

// GetUser GET /users/:id.
func (h *UsersHandler) GetUser(c *fiber.Ctx) error {
	user, ok := h.service.GetUserByID(c.Params("id"))
	if !ok {
		return apperrors.NewNotFound("user", map[string]any{"id": c.Params("id")})
	}
	return c.JSON(fiber.Map{"data": user})
}

// CreateUser POST /users.
func (h *UsersHandler) CreateUser(c *fiber.Ctx) error {
	var req dto.CreateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	user, err := h.service.CreateUser(c.UserContext(), service.UserInput{
		Name:       req.Name,
		Email:      req.Email,
		Avatar:     req.Avatar,
		Role:       req.Role,
		Department: req.Department,
		Position:   req.Position,
		Phone:      req.Phone,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": user})
}

// UpdateUser PUT /users/:id.
func (h *UsersHandler) UpdateUser(c *fiber.Ctx) error {
	var req dto.UpdateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	user, err := h.service.UpdateUser(c.UserContext(), c.Params("id"), service.UserUpdate{
		Name:       req.Name,
		Email:      req.Email,
		Avatar:     req.Avatar,
		Role:       req.Role,
		Department: req.Department,
		Position:   req.Position,
		Phone:      req.Phone,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": user})
}

// DeleteUser DELETE /users/:id.
func (h *UsersHandler) DeleteUser(c *fiber.Ctx) error {
	if err := h.service.DeleteUser(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ToggleStatus POST /users/:id/toggle-status.
func (h *UsersHandler) ToggleStatus(c *fiber.Ctx) error {
	user, err := h.service.ToggleUserStatus(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": user})
}
