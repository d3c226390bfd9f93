package scope

import (
	"sort"

	"github.com/spec-kit/complaint-service/internal/domain"
	apperrors "github.com/spec-kit/complaint-service/pkg/util/errorutil"
)

// StatusAll is the sentinel status filter meaning "no status restriction".
const StatusAll = "all"

// Scope restricts a complaint set to what one actor may view. Construct it
// through New; a zero Scope matches nothing.
type Scope struct {
	actorID string
	role    domain.ProfileRole
	status  *domain.ComplaintStatus
}

// New builds the scope for an actor. An empty actorID fails with an
// UNAUTHENTICATED error: an unauthenticated caller must never receive a
// scope that silently looks like "no complaints" or "all complaints".
func New(actorID string, role domain.ProfileRole, statusFilter string) (Scope, error) {
	if actorID == "" {
		return Scope{}, apperrors.NewUnauthenticated("actor identity required to scope complaints")
	}

	s := Scope{actorID: actorID, role: role}
	if statusFilter != "" && statusFilter != StatusAll {
		status := domain.ComplaintStatus(statusFilter)
		if !status.Valid() {
			return Scope{}, apperrors.NewValidationError("unknown status filter", map[string]any{"status": statusFilter})
		}
		s.status = &status
	}
	return s, nil
}

// Match reports whether the actor may view the complaint.
func (s Scope) Match(c domain.Complaint) bool {
	if s.actorID == "" {
		return false
	}
	if s.status != nil && c.Status != *s.status {
		return false
	}
	switch s.role {
	case domain.RoleAdmin:
		return true
	case domain.RoleStaff:
		return c.AssignedTo != nil && *c.AssignedTo == s.actorID
	default:
		// Students and any unrecognized role see only their own submissions.
		return c.StudentID == s.actorID
	}
}

// Apply filters the snapshot down to the visible subset ordered newest
// first. Equal timestamps keep their input order.
func (s Scope) Apply(records []domain.Complaint) []domain.Complaint {
	result := make([]domain.Complaint, 0, len(records))
	for _, c := range records {
		if s.Match(c) {
			result = append(result, c)
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result
}

// StudentID returns the submitter restriction for query shaping, or nil.
func (s Scope) StudentID() *string {
	switch s.role {
	case domain.RoleAdmin, domain.RoleStaff:
		return nil
	}
	id := s.actorID
	return &id
}

// AssigneeID returns the assignee restriction for query shaping, or nil.
func (s Scope) AssigneeID() *string {
	if s.role != domain.RoleStaff {
		return nil
	}
	id := s.actorID
	return &id
}

// Status returns the concrete status restriction, or nil for "all".
func (s Scope) Status() *domain.ComplaintStatus {
	if s.status == nil {
		return nil
	}
	status := *s.status
	return &status
}
