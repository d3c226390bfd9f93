package service

import (
	"context"
	"strings"

	"github.com/spec-kit/complaint-service/internal/auth"
	"github.com/spec-kit/complaint-service/internal/domain"
	"github.com/spec-kit/complaint-service/internal/repository"
	apperrors "github.com/spec-kit/complaint-service/pkg/util/errorutil"
)

// SetupService provisions the first administrator. The endpoint is open
// exactly until one admin exists; afterwards every call conflicts.
type SetupService struct {
	profiles   repository.ProfileRepository
	bcryptCost int
}

// NewSetupService constructs the service.
func NewSetupService(profiles repository.ProfileRepository, bcryptCost int) *SetupService {
	return &SetupService{profiles: profiles, bcryptCost: bcryptCost}
}

// CreateFirstAdmin creates the initial admin profile if none exists yet.
func (s *SetupService) CreateFirstAdmin(ctx context.Context, name, email, password string, batch *string) (*domain.Profile, error) {
	if strings.TrimSpace(name) == "" || strings.TrimSpace(email) == "" || password == "" {
		return nil, apperrors.NewValidationError("name, email, password required", nil)
	}

	hasAdmin, err := s.profiles.HasAdmin(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if hasAdmin {
		return nil, apperrors.NewConflict("an admin user already exists", nil)
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	profile := &domain.Profile{
		Name:         strings.TrimSpace(name),
		Email:        strings.ToLower(strings.TrimSpace(email)),
		PasswordHash: hash,
		Role:         domain.RoleAdmin,
		Batch:        batch,
	}
	if err := s.profiles.Create(ctx, profile); err != nil {
		return nil, apperrors.MapError(err)
	}
	return profile, nil
}
