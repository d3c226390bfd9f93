package domain

import "time"

// ComplaintStatus enumerates lifecycle states for complaints.
type ComplaintStatus string

const (
	ComplaintStatusPending    ComplaintStatus = "pending"
	ComplaintStatusInProgress ComplaintStatus = "in_progress"
	ComplaintStatusResolved   ComplaintStatus = "resolved"
	ComplaintStatusClosed     ComplaintStatus = "closed"
)

// ComplaintStatuses lists the recognized statuses in display order.
var ComplaintStatuses = []ComplaintStatus{
	ComplaintStatusPending,
	ComplaintStatusInProgress,
	ComplaintStatusResolved,
	ComplaintStatusClosed,
}

// Valid reports whether the status is one of the recognized values.
func (s ComplaintStatus) Valid() bool {
	switch s {
	case ComplaintStatusPending, ComplaintStatusInProgress, ComplaintStatusResolved, ComplaintStatusClosed:
		return true
	}
	return false
}

// Complaint is the aggregate for submitted complaints.
type Complaint struct {
	ID            string
	Title         string
	Description   string
	Status        ComplaintStatus
	CategoryID    string
	StudentID     string
	AssignedTo    *string
	AttachmentURL *string
	CreatedAt     time.Time
	UpdatedAt     time.Time
	ResolvedAt    *time.Time

	// Denormalized display names joined in by the repository.
	StudentName  string
	AssigneeName string
	CategoryName string
}
