package service_test

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/complaint-service/internal/domain"
	"github.com/spec-kit/complaint-service/internal/scope"
	"github.com/spec-kit/complaint-service/internal/service"
)

type fakeComplaintRepo struct {
	seq   int
	items map[string]*domain.Complaint
	order []string
}

func newFakeComplaintRepo() *fakeComplaintRepo {
	return &fakeComplaintRepo{items: map[string]*domain.Complaint{}}
}

func (r *fakeComplaintRepo) Create(_ context.Context, complaint *domain.Complaint) error {
	r.seq++
	complaint.ID = "complaint-" + strconv.Itoa(r.seq)
	complaint.CreatedAt = time.Now()
	complaint.UpdatedAt = complaint.CreatedAt
	stored := *complaint
	r.items[complaint.ID] = &stored
	r.order = append(r.order, complaint.ID)
	return nil
}

func (r *fakeComplaintRepo) Update(_ context.Context, complaint *domain.Complaint) error {
	if _, ok := r.items[complaint.ID]; !ok {
		return pgx.ErrNoRows
	}
	stored := *complaint
	stored.UpdatedAt = time.Now()
	r.items[complaint.ID] = &stored
	return nil
}

func (r *fakeComplaintRepo) GetByID(_ context.Context, id string) (*domain.Complaint, error) {
	stored, ok := r.items[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *stored
	return &copied, nil
}

func (r *fakeComplaintRepo) ListScoped(_ context.Context, sc scope.Scope) ([]domain.Complaint, error) {
	return sc.Apply(r.snapshot()), nil
}

func (r *fakeComplaintRepo) ListAll(_ context.Context) ([]domain.Complaint, error) {
	return r.snapshot(), nil
}

func (r *fakeComplaintRepo) snapshot() []domain.Complaint {
	out := make([]domain.Complaint, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, *r.items[id])
	}
	return out
}

type fakeCategoryRepo struct {
	items map[string]*domain.Category
}

func (r *fakeCategoryRepo) Create(_ context.Context, category *domain.Category) error {
	category.ID = "category-" + strconv.Itoa(len(r.items)+1)
	category.CreatedAt = time.Now()
	stored := *category
	r.items[category.ID] = &stored
	return nil
}

func (r *fakeCategoryRepo) GetByID(_ context.Context, id string) (*domain.Category, error) {
	stored, ok := r.items[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *stored
	return &copied, nil
}

func (r *fakeCategoryRepo) List(_ context.Context) ([]domain.Category, error) {
	out := make([]domain.Category, 0, len(r.items))
	for _, c := range r.items {
		out = append(out, *c)
	}
	return out, nil
}

type fakeProfileRepo struct {
	items map[string]*domain.Profile
}

func (r *fakeProfileRepo) Create(_ context.Context, profile *domain.Profile) error {
	profile.ID = "profile-" + strconv.Itoa(len(r.items)+1)
	stored := *profile
	r.items[profile.ID] = &stored
	return nil
}

func (r *fakeProfileRepo) Update(_ context.Context, profile *domain.Profile) error {
	if _, ok := r.items[profile.ID]; !ok {
		return pgx.ErrNoRows
	}
	stored := *profile
	r.items[profile.ID] = &stored
	return nil
}

func (r *fakeProfileRepo) GetByID(_ context.Context, id string) (*domain.Profile, error) {
	stored, ok := r.items[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *stored
	return &copied, nil
}

func (r *fakeProfileRepo) GetByEmail(_ context.Context, email string) (*domain.Profile, error) {
	for _, p := range r.items {
		if p.Email == email {
			copied := *p
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeProfileRepo) ListByRole(_ context.Context, role domain.ProfileRole) ([]domain.Profile, error) {
	out := make([]domain.Profile, 0)
	for _, p := range r.items {
		if p.Role == role {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *fakeProfileRepo) HasAdmin(_ context.Context) (bool, error) {
	for _, p := range r.items {
		if p.Role == domain.RoleAdmin {
			return true, nil
		}
	}
	return false, nil
}

func newService(t *testing.T) (*service.ComplaintService, *fakeComplaintRepo, *fakeProfileRepo, string) {
	t.Helper()
	complaints := newFakeComplaintRepo()
	categories := &fakeCategoryRepo{items: map[string]*domain.Category{}}
	profiles := &fakeProfileRepo{items: map[string]*domain.Profile{}}

	category := &domain.Category{Name: "Hostel"}
	require.NoError(t, categories.Create(context.Background(), category))

	svc := service.NewComplaintService(service.ComplaintDependencies{
		ComplaintRepo: complaints,
		CategoryRepo:  categories,
		ProfileRepo:   profiles,
	})
	return svc, complaints, profiles, category.ID
}

func addProfile(t *testing.T, profiles *fakeProfileRepo, name string, role domain.ProfileRole) *domain.Profile {
	t.Helper()
	profile := &domain.Profile{Name: name, Email: name + "@example.com", Role: role}
	require.NoError(t, profiles.Create(context.Background(), profile))
	return profile
}

func TestCreateComplaint_UnknownCategory(t *testing.T) {
	svc, _, _, _ := newService(t)

	_, err := svc.CreateComplaint(context.Background(), "student-1", service.ComplaintCreateInput{
		CategoryID:  "missing",
		Title:       "Broken heater",
		Description: "No heat in room 12",
	})
	require.Error(t, err)
}

func TestUpdateStatus_LatchesResolvedAtOnce(t *testing.T) {
	svc, complaints, profiles, categoryID := newService(t)
	staff := addProfile(t, profiles, "staff", domain.RoleStaff)
	admin := addProfile(t, profiles, "admin", domain.RoleAdmin)

	created, err := svc.CreateComplaint(context.Background(), "student-1", service.ComplaintCreateInput{
		CategoryID:  categoryID,
		Title:       "Broken heater",
		Description: "No heat in room 12",
	})
	require.NoError(t, err)

	_, err = svc.AssignComplaint(context.Background(), admin, created.ID, staff.ID)
	require.NoError(t, err)

	resolved, err := svc.UpdateStatus(context.Background(), staff, created.ID, domain.ComplaintStatusResolved)
	require.NoError(t, err)
	require.NotNil(t, resolved.ResolvedAt)
	firstResolvedAt := *resolved.ResolvedAt

	// Later transitions must not clear or move the resolution timestamp.
	closed, err := svc.UpdateStatus(context.Background(), staff, created.ID, domain.ComplaintStatusClosed)
	require.NoError(t, err)
	require.NotNil(t, closed.ResolvedAt)
	assert.Equal(t, firstResolvedAt, *closed.ResolvedAt)

	reopened, err := svc.UpdateStatus(context.Background(), staff, created.ID, domain.ComplaintStatusResolved)
	require.NoError(t, err)
	require.NotNil(t, reopened.ResolvedAt)
	assert.Equal(t, firstResolvedAt, *reopened.ResolvedAt)

	stored, err := complaints.GetByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, firstResolvedAt, *stored.ResolvedAt)
}

func TestUpdateStatus_StaffMustOwnAssignment(t *testing.T) {
	svc, _, profiles, categoryID := newService(t)
	staff := addProfile(t, profiles, "staff", domain.RoleStaff)
	other := addProfile(t, profiles, "other", domain.RoleStaff)
	admin := addProfile(t, profiles, "admin", domain.RoleAdmin)

	created, err := svc.CreateComplaint(context.Background(), "student-1", service.ComplaintCreateInput{
		CategoryID:  categoryID,
		Title:       "Noise",
		Description: "Construction at night",
	})
	require.NoError(t, err)

	_, err = svc.AssignComplaint(context.Background(), admin, created.ID, staff.ID)
	require.NoError(t, err)

	_, err = svc.UpdateStatus(context.Background(), other, created.ID, domain.ComplaintStatusInProgress)
	require.Error(t, err)

	// Admin may transition any complaint.
	_, err = svc.UpdateStatus(context.Background(), admin, created.ID, domain.ComplaintStatusInProgress)
	require.NoError(t, err)
}

func TestUpdateStatus_StudentForbidden(t *testing.T) {
	svc, _, profiles, categoryID := newService(t)
	student := addProfile(t, profiles, "student", domain.RoleStudent)

	created, err := svc.CreateComplaint(context.Background(), student.ID, service.ComplaintCreateInput{
		CategoryID:  categoryID,
		Title:       "Wi-Fi down",
		Description: "No network in block C",
	})
	require.NoError(t, err)

	_, err = svc.UpdateStatus(context.Background(), student, created.ID, domain.ComplaintStatusResolved)
	require.Error(t, err)
}

func TestAssignComplaint_RulesAndTransition(t *testing.T) {
	svc, _, profiles, categoryID := newService(t)
	staff := addProfile(t, profiles, "staff", domain.RoleStaff)
	student := addProfile(t, profiles, "student", domain.RoleStudent)
	admin := addProfile(t, profiles, "admin", domain.RoleAdmin)

	created, err := svc.CreateComplaint(context.Background(), student.ID, service.ComplaintCreateInput{
		CategoryID:  categoryID,
		Title:       "Leaking tap",
		Description: "Bathroom tap leaks",
	})
	require.NoError(t, err)

	_, err = svc.AssignComplaint(context.Background(), staff, created.ID, staff.ID)
	require.Error(t, err, "only admins may assign")

	_, err = svc.AssignComplaint(context.Background(), admin, created.ID, student.ID)
	require.Error(t, err, "assignee must hold the staff role")

	assigned, err := svc.AssignComplaint(context.Background(), admin, created.ID, staff.ID)
	require.NoError(t, err)
	require.NotNil(t, assigned.AssignedTo)
	assert.Equal(t, staff.ID, *assigned.AssignedTo)
	assert.Equal(t, domain.ComplaintStatusInProgress, assigned.Status, "pending complaints move to in_progress on assignment")
}

func TestListComplaints_ScopesByRole(t *testing.T) {
	svc, _, profiles, categoryID := newService(t)
	staff := addProfile(t, profiles, "staff", domain.RoleStaff)
	admin := addProfile(t, profiles, "admin", domain.RoleAdmin)

	first, err := svc.CreateComplaint(context.Background(), "student-a", service.ComplaintCreateInput{
		CategoryID:  categoryID,
		Title:       "One",
		Description: "First complaint",
	})
	require.NoError(t, err)
	_, err = svc.CreateComplaint(context.Background(), "student-b", service.ComplaintCreateInput{
		CategoryID:  categoryID,
		Title:       "Two",
		Description: "Second complaint",
	})
	require.NoError(t, err)

	_, err = svc.AssignComplaint(context.Background(), admin, first.ID, staff.ID)
	require.NoError(t, err)

	mine, err := svc.ListComplaints(context.Background(), "student-a", domain.RoleStudent, scope.StatusAll)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, first.ID, mine[0].ID)

	queue, err := svc.ListComplaints(context.Background(), staff.ID, domain.RoleStaff, scope.StatusAll)
	require.NoError(t, err)
	require.Len(t, queue, 1)
	assert.Equal(t, first.ID, queue[0].ID)

	everything, err := svc.ListComplaints(context.Background(), admin.ID, domain.RoleAdmin, scope.StatusAll)
	require.NoError(t, err)
	assert.Len(t, everything, 2)

	_, err = svc.ListComplaints(context.Background(), "", domain.RoleAdmin, scope.StatusAll)
	require.Error(t, err, "unauthenticated listing must fail loudly")
}
