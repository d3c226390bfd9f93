package scope_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/complaint-service/internal/domain"
	"github.com/spec-kit/complaint-service/internal/scope"
	apperrors "github.com/spec-kit/complaint-service/pkg/util/errorutil"
)

var base = time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)

func fixture() []domain.Complaint {
	staffX := "staff-x"
	return []domain.Complaint{
		{ID: "c1", StudentID: "student-a", Status: domain.ComplaintStatusPending, CreatedAt: base.Add(1 * time.Hour)},
		{ID: "c2", StudentID: "student-a", Status: domain.ComplaintStatusResolved, AssignedTo: &staffX, CreatedAt: base.Add(3 * time.Hour)},
		{ID: "c3", StudentID: "student-b", Status: domain.ComplaintStatusInProgress, AssignedTo: &staffX, CreatedAt: base.Add(2 * time.Hour)},
	}
}

func ids(records []domain.Complaint) []string {
	out := make([]string, 0, len(records))
	for _, c := range records {
		out = append(out, c.ID)
	}
	return out
}

func TestNew_RequiresActorID(t *testing.T) {
	_, err := scope.New("", domain.RoleAdmin, scope.StatusAll)
	require.Error(t, err)
	assert.True(t, apperrors.IsUnauthenticated(err),
		"missing identity must surface as UNAUTHENTICATED, not an empty scope")
}

func TestNew_RejectsUnknownStatusFilter(t *testing.T) {
	_, err := scope.New("student-a", domain.RoleStudent, "escalated")
	require.Error(t, err)
}

func TestApply_RoleScoping(t *testing.T) {
	tests := []struct {
		name    string
		actorID string
		role    domain.ProfileRole
		status  string
		want    []string
	}{
		{"student sees own submissions", "student-a", domain.RoleStudent, scope.StatusAll, []string{"c2", "c1"}},
		{"staff sees assignments only", "staff-x", domain.RoleStaff, scope.StatusAll, []string{"c2", "c3"}},
		{"admin sees everything", "admin-1", domain.RoleAdmin, scope.StatusAll, []string{"c2", "c3", "c1"}},
		{"unknown role falls back to submitter scope", "student-b", domain.ProfileRole("auditor"), scope.StatusAll, []string{"c3"}},
		{"status filter narrows admin", "admin-1", domain.RoleAdmin, "pending", []string{"c1"}},
		{"status filter narrows staff", "staff-x", domain.RoleStaff, "resolved", []string{"c2"}},
		{"staff with no assignments gets empty, not error", "staff-y", domain.RoleStaff, scope.StatusAll, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sc, err := scope.New(tt.actorID, tt.role, tt.status)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids(sc.Apply(fixture())))
		})
	}
}

func TestApply_OrdersNewestFirstStably(t *testing.T) {
	shared := base.Add(5 * time.Hour)
	records := []domain.Complaint{
		{ID: "old", StudentID: "s", CreatedAt: base, Status: domain.ComplaintStatusPending},
		{ID: "tie-1", StudentID: "s", CreatedAt: shared, Status: domain.ComplaintStatusPending},
		{ID: "tie-2", StudentID: "s", CreatedAt: shared, Status: domain.ComplaintStatusPending},
		{ID: "new", StudentID: "s", CreatedAt: base.Add(9 * time.Hour), Status: domain.ComplaintStatusPending},
	}

	sc, err := scope.New("s", domain.RoleStudent, scope.StatusAll)
	require.NoError(t, err)
	assert.Equal(t, []string{"new", "tie-1", "tie-2", "old"}, ids(sc.Apply(records)))
}

func TestMatch_NeverLeaksAcrossRoles(t *testing.T) {
	staffX := "staff-x"
	record := domain.Complaint{ID: "c", StudentID: "student-a", AssignedTo: &staffX, Status: domain.ComplaintStatusPending, CreatedAt: base}

	otherStudent, err := scope.New("student-b", domain.RoleStudent, scope.StatusAll)
	require.NoError(t, err)
	assert.False(t, otherStudent.Match(record))

	otherStaff, err := scope.New("staff-y", domain.RoleStaff, scope.StatusAll)
	require.NoError(t, err)
	assert.False(t, otherStaff.Match(record))
}

func TestQueryShaping(t *testing.T) {
	student, err := scope.New("student-a", domain.RoleStudent, "pending")
	require.NoError(t, err)
	require.NotNil(t, student.StudentID())
	assert.Equal(t, "student-a", *student.StudentID())
	assert.Nil(t, student.AssigneeID())
	require.NotNil(t, student.Status())
	assert.Equal(t, domain.ComplaintStatusPending, *student.Status())

	staff, err := scope.New("staff-x", domain.RoleStaff, scope.StatusAll)
	require.NoError(t, err)
	assert.Nil(t, staff.StudentID())
	require.NotNil(t, staff.AssigneeID())
	assert.Equal(t, "staff-x", *staff.AssigneeID())
	assert.Nil(t, staff.Status())

	admin, err := scope.New("admin-1", domain.RoleAdmin, scope.StatusAll)
	require.NoError(t, err)
	assert.Nil(t, admin.StudentID())
	assert.Nil(t, admin.AssigneeID())
	assert.Nil(t, admin.Status())
}
