package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/complaint-service/internal/domain"
	"github.com/spec-kit/complaint-service/internal/scope"
)

// ComplaintRepository encapsulates complaint persistence.
type ComplaintRepository interface {
	Create(ctx context.Context, complaint *domain.Complaint) error
	Update(ctx context.Context, complaint *domain.Complaint) error
	GetByID(ctx context.Context, id string) (*domain.Complaint, error)
	// ListScoped returns the complaints visible inside sc, newest first.
	ListScoped(ctx context.Context, sc scope.Scope) ([]domain.Complaint, error)
	// ListAll returns the unrestricted snapshot for admin analytics,
	// oldest first (encounter order feeds stable performance ties).
	ListAll(ctx context.Context) ([]domain.Complaint, error)
}

type complaintRepository struct {
	pool *pgxpool.Pool
}

// NewComplaintRepository instantiates repository.
func NewComplaintRepository(pool *pgxpool.Pool) ComplaintRepository {
	return &complaintRepository{pool: pool}
}

// selectColumns joins the denormalized display names the dashboards and the
// aggregator expect alongside the raw complaint row.
const selectColumns = `
        SELECT c.id, c.title, c.description, c.status, c.category_id, c.student_id,
               c.assigned_to, c.attachment_url, c.created_at, c.updated_at, c.resolved_at,
               COALESCE(sp.name, ''), COALESCE(ap.name, ''), COALESCE(cat.name, '')
        FROM complaints c
        LEFT JOIN profiles sp ON sp.id = c.student_id
        LEFT JOIN profiles ap ON ap.id = c.assigned_to
        LEFT JOIN categories cat ON cat.id = c.category_id`

func (r *complaintRepository) Create(ctx context.Context, complaint *domain.Complaint) error {
	const query = `
        INSERT INTO complaints (title, description, status, category_id, student_id, assigned_to, attachment_url)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		complaint.Title,
		complaint.Description,
		complaint.Status,
		complaint.CategoryID,
		complaint.StudentID,
		complaint.AssignedTo,
		complaint.AttachmentURL,
	).Scan(&complaint.ID, &complaint.CreatedAt, &complaint.UpdatedAt)
}

func (r *complaintRepository) Update(ctx context.Context, complaint *domain.Complaint) error {
	const query = `
        UPDATE complaints SET title=$1, description=$2, status=$3, category_id=$4,
            assigned_to=$5, attachment_url=$6, resolved_at=$7, updated_at=NOW()
        WHERE id=$8`
	cmd, err := r.pool.Exec(ctx, query,
		complaint.Title,
		complaint.Description,
		complaint.Status,
		complaint.CategoryID,
		complaint.AssignedTo,
		complaint.AttachmentURL,
		complaint.ResolvedAt,
		complaint.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *complaintRepository) GetByID(ctx context.Context, id string) (*domain.Complaint, error) {
	query := selectColumns + ` WHERE c.id=$1`
	var complaint domain.Complaint
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&complaint.ID,
		&complaint.Title,
		&complaint.Description,
		&complaint.Status,
		&complaint.CategoryID,
		&complaint.StudentID,
		&complaint.AssignedTo,
		&complaint.AttachmentURL,
		&complaint.CreatedAt,
		&complaint.UpdatedAt,
		&complaint.ResolvedAt,
		&complaint.StudentName,
		&complaint.AssigneeName,
		&complaint.CategoryName,
	); err != nil {
		return nil, err
	}
	return &complaint, nil
}

func (r *complaintRepository) ListScoped(ctx context.Context, sc scope.Scope) ([]domain.Complaint, error) {
	clauses := []string{"1=1"}
	args := []any{}

	if studentID := sc.StudentID(); studentID != nil {
		args = append(args, *studentID)
		clauses = append(clauses, fmt.Sprintf("c.student_id=$%d", len(args)))
	}
	if assigneeID := sc.AssigneeID(); assigneeID != nil {
		args = append(args, *assigneeID)
		clauses = append(clauses, fmt.Sprintf("c.assigned_to=$%d", len(args)))
	}
	if status := sc.Status(); status != nil {
		args = append(args, *status)
		clauses = append(clauses, fmt.Sprintf("c.status=$%d", len(args)))
	}

	// Newest first is a contract, not a default: it is the reading order of
	// every dashboard.
	query := fmt.Sprintf("%s WHERE %s ORDER BY c.created_at DESC", selectColumns, strings.Join(clauses, " AND "))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanComplaints(rows)
}

func (r *complaintRepository) ListAll(ctx context.Context) ([]domain.Complaint, error) {
	query := selectColumns + ` ORDER BY c.created_at ASC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanComplaints(rows)
}

func scanComplaints(rows pgx.Rows) ([]domain.Complaint, error) {
	var result []domain.Complaint
	for rows.Next() {
		var complaint domain.Complaint
		if err := rows.Scan(
			&complaint.ID,
			&complaint.Title,
			&complaint.Description,
			&complaint.Status,
			&complaint.CategoryID,
			&complaint.StudentID,
			&complaint.AssignedTo,
			&complaint.AttachmentURL,
			&complaint.CreatedAt,
			&complaint.UpdatedAt,
			&complaint.ResolvedAt,
			&complaint.StudentName,
			&complaint.AssigneeName,
			&complaint.CategoryName,
		); err != nil {
			return nil, err
		}
		result = append(result, complaint)
	}
	return result, rows.Err()
}
