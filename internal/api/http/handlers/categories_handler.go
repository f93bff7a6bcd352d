package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/office-helpdesk/internal/api/dto"
	"github.com/spec-kit/office-helpdesk/internal/service"
	apperrors "github.com/spec-kit/office-helpdesk/pkg/util"
)

// CategoriesHandler exposes category management.
type CategoriesHandler struct {
	service *service.TicketService
}

// NewCategoriesHandler constructs handler.
func NewCategoriesHandler(ticketService *service.TicketService) *CategoriesHandler {
	return &CategoriesHandler{service: ticketService}
}

// ListCategories GET /categories.
func (h *CategoriesHandler) ListCategories(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"data": h.service.Categories()})
}

// CreateCategory POST /categories.
func (h *CategoriesHandler) CreateCategory(c *fiber.Ctx) error {
	var req dto.CreateCategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	category, err := h.service.CreateCategory(c.UserContext(), service.CategoryInput{
		Name:        req.Name,
		Description: req.Description,
		Color:       req.Color,
		Icon:        req.Icon,
		ParentID:    req.ParentID,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": category})
}

// UpdateCategory PUT /categories/:id.
func (h *CategoriesHandler) UpdateCategory(c *fiber.Ctx) error {
	var req dto.UpdateCategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	category, err := h.service.UpdateCategory(c.UserContext(), c.Params("id"), service.CategoryUpdate{
		Name:        req.Name,
		Description: req.Description,
		Color:       req.Color,
		Icon:        req.Icon,
		ParentID:    req.ParentID,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": category})
}

// DeleteCategory DELETE /categories/:id.
func (h *CategoriesHandler) DeleteCategory(c *fiber.Ctx) error {
	if err := h.service.DeleteCategory(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
