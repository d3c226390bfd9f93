package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/complaint-service/internal/api/dto"
	"github.com/spec-kit/complaint-service/internal/service"
)

// CategoriesHandler lists complaint categories for the submission form.
type CategoriesHandler struct {
	service *service.ComplaintService
}

// NewCategoriesHandler constructs handler.
func NewCategoriesHandler(complaintService *service.ComplaintService) *CategoriesHandler {
	return &CategoriesHandler{service: complaintService}
}

// List GET /categories.
func (h *CategoriesHandler) List(c *fiber.Ctx) error {
	categories, err := h.service.ListCategories(c.Context())
	if err != nil {
		return err
	}
	items := make([]dto.CategoryResponse, 0, len(categories))
	for _, cat := range categories {
		items = append(items, dto.CategoryResponse{
			ID:          cat.ID,
			Name:        cat.Name,
			Description: cat.Description,
			CreatedAt:   cat.CreatedAt,
		})
	}
	return c.JSON(fiber.Map{"data": items})
}
