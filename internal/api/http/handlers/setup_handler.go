package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/complaint-service/internal/api/dto"
	"github.com/spec-kit/complaint-service/internal/service"
	apperrors "github.com/spec-kit/complaint-service/pkg/util/errorutil"
)

// SetupHandler exposes the one-time first-admin provisioning endpoint.
type SetupHandler struct {
	setup *service.SetupService
}

// NewSetupHandler constructs handler.
func NewSetupHandler(setupService *service.SetupService) *SetupHandler {
	return &SetupHandler{setup: setupService}
}

// CreateFirstAdmin handles POST /setup/first-admin.
func (h *SetupHandler) CreateFirstAdmin(c *fiber.Ctx) error {
	var req dto.FirstAdminRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	profile, err := h.setup.CreateFirstAdmin(c.Context(), req.Name, req.Email, req.Password, req.Batch)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": fiber.Map{
		"id":    profile.ID,
		"name":  profile.Name,
		"email": profile.Email,
		"role":  profile.Role,
	}})
}
