package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/complaint-service/internal/api/dto"
	"github.com/spec-kit/complaint-service/internal/auth"
	"github.com/spec-kit/complaint-service/internal/observability"
	"github.com/spec-kit/complaint-service/internal/service"
	apperrors "github.com/spec-kit/complaint-service/pkg/util/errorutil"
)

// AdminHandler serves admin-only endpoints: analytics, staff listing,
// category management and the metrics snapshot.
type AdminHandler struct {
	complaints *service.ComplaintService
	analytics  *service.AnalyticsService
	metrics    *observability.Metrics
}

// NewAdminHandler constructs handler.
func NewAdminHandler(complaints *service.ComplaintService, analytics *service.AnalyticsService, metrics *observability.Metrics) *AdminHandler {
	return &AdminHandler{complaints: complaints, analytics: analytics, metrics: metrics}
}

// Analytics GET /admin/analytics.
func (h *AdminHandler) Analytics(c *fiber.Ctx) error {
	report, err := h.analytics.Report(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": report})
}

// ListStaff GET /admin/staff.
func (h *AdminHandler) ListStaff(c *fiber.Ctx) error {
	staff, err := h.complaints.ListStaff(c.Context())
	if err != nil {
		return err
	}
	items := make([]dto.StaffResponse, 0, len(staff))
	for _, p := range staff {
		items = append(items, dto.StaffResponse{ID: p.ID, Name: p.Name, Email: p.Email})
	}
	return c.JSON(fiber.Map{"data": items})
}

// CreateCategory POST /admin/categories.
func (h *AdminHandler) CreateCategory(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthenticated("authentication required")
	}
	var req dto.CreateCategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	category, err := h.complaints.CreateCategory(c.Context(), principal.Profile, req.Name, req.Description)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.CategoryResponse{
		ID:          category.ID,
		Name:        category.Name,
		Description: category.Description,
		CreatedAt:   category.CreatedAt,
	}})
}

// Metrics GET /admin/metrics.
func (h *AdminHandler) Metrics(c *fiber.Ctx) error {
	requests, errs := h.metrics.Snapshot()
	return c.JSON(fiber.Map{"data": fiber.Map{
		"requests": requests,
		"errors":   errs,
	}})
}
