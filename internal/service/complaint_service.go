package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/complaint-service/internal/domain"
	"github.com/spec-kit/complaint-service/internal/events"
	"github.com/spec-kit/complaint-service/internal/repository"
	"github.com/spec-kit/complaint-service/internal/scope"
	apperrors "github.com/spec-kit/complaint-service/pkg/util/errorutil"
)

// ComplaintService coordinates complaint workflows.
type ComplaintService struct {
	complaints repository.ComplaintRepository
	categories repository.CategoryRepository
	profiles   repository.ProfileRepository
	dispatcher events.Dispatcher
}

// ComplaintDependencies bundles repositories for the complaint service.
type ComplaintDependencies struct {
	ComplaintRepo repository.ComplaintRepository
	CategoryRepo  repository.CategoryRepository
	ProfileRepo   repository.ProfileRepository
	Dispatcher    events.Dispatcher
}

// ComplaintCreateInput describes complaint submission payload.
type ComplaintCreateInput struct {
	CategoryID    string
	Title         string
	Description   string
	AttachmentURL *string
}

// NewComplaintService constructs the service.
func NewComplaintService(deps ComplaintDependencies) *ComplaintService {
	return &ComplaintService{
		complaints: deps.ComplaintRepo,
		categories: deps.CategoryRepo,
		profiles:   deps.ProfileRepo,
		dispatcher: deps.Dispatcher,
	}
}

// CreateComplaint submits a complaint on behalf of a student.
func (s *ComplaintService) CreateComplaint(ctx context.Context, studentID string, input ComplaintCreateInput) (*domain.Complaint, error) {
	if studentID == "" {
		return nil, apperrors.NewUnauthenticated("submitter identity required")
	}
	if strings.TrimSpace(input.Title) == "" || strings.TrimSpace(input.Description) == "" {
		return nil, apperrors.NewValidationError("title and description required", nil)
	}
	if _, err := s.categories.GetByID(ctx, input.CategoryID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("category", map[string]any{"category_id": input.CategoryID})
		}
		return nil, apperrors.MapError(err)
	}

	complaint := &domain.Complaint{
		Title:         strings.TrimSpace(input.Title),
		Description:   strings.TrimSpace(input.Description),
		Status:        domain.ComplaintStatusPending,
		CategoryID:    input.CategoryID,
		StudentID:     studentID,
		AttachmentURL: input.AttachmentURL,
	}
	if err := s.complaints.Create(ctx, complaint); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publish(ctx, studentID, events.EventComplaintCreated, complaint.ID, events.ComplaintCreatedPayload{
		CategoryID: complaint.CategoryID,
		Title:      complaint.Title,
	})
	return complaint, nil
}

// ListComplaints returns the complaints visible to the actor, newest first.
// The status filter is either scope.StatusAll or one concrete status.
func (s *ComplaintService) ListComplaints(ctx context.Context, actorID string, role domain.ProfileRole, statusFilter string) ([]domain.Complaint, error) {
	sc, err := scope.New(actorID, role, statusFilter)
	if err != nil {
		return nil, err
	}
	complaints, err := s.complaints.ListScoped(ctx, sc)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return complaints, nil
}

// GetComplaint fetches one complaint, enforcing the actor's scope.
func (s *ComplaintService) GetComplaint(ctx context.Context, actorID string, role domain.ProfileRole, complaintID string) (*domain.Complaint, error) {
	sc, err := scope.New(actorID, role, scope.StatusAll)
	if err != nil {
		return nil, err
	}
	complaint, err := s.complaints.GetByID(ctx, complaintID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("complaint", map[string]any{"complaint_id": complaintID})
		}
		return nil, apperrors.MapError(err)
	}
	if !sc.Match(*complaint) {
		return nil, apperrors.NewForbidden("access denied")
	}
	return complaint, nil
}

// UpdateStatus transitions a complaint. Staff may transition only their own
// assignments; admins may transition any complaint. resolved_at is set
// exactly once, on the first transition into resolved, and never cleared by
// later transitions.
func (s *ComplaintService) UpdateStatus(ctx context.Context, actor *domain.Profile, complaintID string, newStatus domain.ComplaintStatus) (*domain.Complaint, error) {
	if actor == nil {
		return nil, apperrors.NewUnauthenticated("actor required")
	}
	if !newStatus.Valid() {
		return nil, apperrors.NewValidationError("unknown status", map[string]any{"status": string(newStatus)})
	}

	complaint, err := s.complaints.GetByID(ctx, complaintID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("complaint", map[string]any{"complaint_id": complaintID})
		}
		return nil, apperrors.MapError(err)
	}

	switch actor.Role {
	case domain.RoleAdmin:
	case domain.RoleStaff:
		if complaint.AssignedTo == nil || *complaint.AssignedTo != actor.ID {
			return nil, apperrors.NewForbidden("complaint not assigned to you")
		}
	default:
		return nil, apperrors.NewForbidden("staff or admin role required")
	}

	oldStatus := complaint.Status
	complaint.Status = newStatus
	if newStatus == domain.ComplaintStatusResolved && complaint.ResolvedAt == nil {
		now := time.Now()
		complaint.ResolvedAt = &now
	}
	if err := s.complaints.Update(ctx, complaint); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publish(ctx, actor.ID, events.EventComplaintStatusChanged, complaint.ID, events.ComplaintStatusChangedPayload{
		OldStatus: oldStatus,
		NewStatus: newStatus,
	})
	if newStatus == domain.ComplaintStatusResolved && oldStatus != domain.ComplaintStatusResolved {
		s.publish(ctx, actor.ID, events.EventComplaintResolved, complaint.ID, events.ComplaintResolvedPayload{
			ResolvedAt: *complaint.ResolvedAt,
		})
	}
	return complaint, nil
}

// AssignComplaint assigns a complaint to a staff profile. Admin only.
func (s *ComplaintService) AssignComplaint(ctx context.Context, actor *domain.Profile, complaintID, staffID string) (*domain.Complaint, error) {
	if actor == nil {
		return nil, apperrors.NewUnauthenticated("actor required")
	}
	if actor.Role != domain.RoleAdmin {
		return nil, apperrors.NewForbidden("admin role required")
	}

	staff, err := s.profiles.GetByID(ctx, staffID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("staff profile", map[string]any{"staff_id": staffID})
		}
		return nil, apperrors.MapError(err)
	}
	if staff.Role != domain.RoleStaff && staff.Role != domain.RoleAdmin {
		return nil, apperrors.NewValidationError("assignee must be staff", map[string]any{"staff_id": staffID})
	}

	complaint, err := s.complaints.GetByID(ctx, complaintID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("complaint", map[string]any{"complaint_id": complaintID})
		}
		return nil, apperrors.MapError(err)
	}

	complaint.AssignedTo = &staff.ID
	if complaint.Status == domain.ComplaintStatusPending {
		complaint.Status = domain.ComplaintStatusInProgress
	}
	if err := s.complaints.Update(ctx, complaint); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publish(ctx, actor.ID, events.EventComplaintAssigned, complaint.ID, events.ComplaintAssignedPayload{
		AssigneeID: complaint.AssignedTo,
	})
	return complaint, nil
}

// ListStaff returns assignable staff profiles for the admin dashboard.
func (s *ComplaintService) ListStaff(ctx context.Context) ([]domain.Profile, error) {
	staff, err := s.profiles.ListByRole(ctx, domain.RoleStaff)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return staff, nil
}

// ListCategories returns all complaint categories.
func (s *ComplaintService) ListCategories(ctx context.Context) ([]domain.Category, error) {
	categories, err := s.categories.List(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return categories, nil
}

// CreateCategory adds a category. Admin only.
func (s *ComplaintService) CreateCategory(ctx context.Context, actor *domain.Profile, name, description string) (*domain.Category, error) {
	if actor == nil {
		return nil, apperrors.NewUnauthenticated("actor required")
	}
	if actor.Role != domain.RoleAdmin {
		return nil, apperrors.NewForbidden("admin role required")
	}
	if strings.TrimSpace(name) == "" {
		return nil, apperrors.NewValidationError("name required", nil)
	}
	category := &domain.Category{Name: strings.TrimSpace(name), Description: strings.TrimSpace(description)}
	if err := s.categories.Create(ctx, category); err != nil {
		return nil, apperrors.MapError(err)
	}
	return category, nil
}

func (s *ComplaintService) publish(ctx context.Context, actorID string, eventType events.EventType, complaintID string, payload interface{}) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:          uuid.NewString(),
		Type:        eventType,
		ComplaintID: complaintID,
		ActorID:     actorID,
		Timestamp:   time.Now(),
		Payload:     payload,
	})
}
