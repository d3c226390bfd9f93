package dto

import (
	"time"

	"github.com/spec-kit/complaint-service/internal/domain"
)

// CreateComplaintRequest payload.
type CreateComplaintRequest struct {
	CategoryID    string  `json:"category_id"`
	Title         string  `json:"title"`
	Description   string  `json:"description"`
	AttachmentURL *string `json:"attachment_url,omitempty"`
}

// UpdateStatusRequest payload.
type UpdateStatusRequest struct {
	Status domain.ComplaintStatus `json:"status"`
}

// AssignComplaintRequest payload.
type AssignComplaintRequest struct {
	StaffID string `json:"staff_id"`
}

// ComplaintResponse is the dashboard view of a complaint.
type ComplaintResponse struct {
	ID            string                 `json:"id"`
	Title         string                 `json:"title"`
	Description   string                 `json:"description"`
	Status        domain.ComplaintStatus `json:"status"`
	CategoryID    string                 `json:"category_id"`
	CategoryName  string                 `json:"category_name,omitempty"`
	StudentID     string                 `json:"student_id"`
	StudentName   string                 `json:"student_name,omitempty"`
	AssignedTo    *string                `json:"assigned_to,omitempty"`
	AssigneeName  string                 `json:"assignee_name,omitempty"`
	AttachmentURL *string                `json:"attachment_url,omitempty"`
	CreatedAt     time.Time              `json:"created_at"`
	UpdatedAt     time.Time              `json:"updated_at"`
	ResolvedAt    *time.Time             `json:"resolved_at,omitempty"`
}

// FromComplaint maps the domain model to its response form.
func FromComplaint(c *domain.Complaint) ComplaintResponse {
	return ComplaintResponse{
		ID:            c.ID,
		Title:         c.Title,
		Description:   c.Description,
		Status:        c.Status,
		CategoryID:    c.CategoryID,
		CategoryName:  c.CategoryName,
		StudentID:     c.StudentID,
		StudentName:   c.StudentName,
		AssignedTo:    c.AssignedTo,
		AssigneeName:  c.AssigneeName,
		AttachmentURL: c.AttachmentURL,
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     c.UpdatedAt,
		ResolvedAt:    c.ResolvedAt,
	}
}

// CreateCategoryRequest payload.
type CreateCategoryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// CategoryResponse view.
type CategoryResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// StaffResponse is the assignable-staff view for the admin dashboard.
type StaffResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}
