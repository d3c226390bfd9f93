package domain

import "time"

// ProfileRole enumerates actor roles. Each profile carries exactly one role.
type ProfileRole string

const (
	RoleStudent ProfileRole = "student"
	RoleStaff   ProfileRole = "staff"
	RoleAdmin   ProfileRole = "admin"
)

// Profile is the domain model for an authenticated actor.
type Profile struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         ProfileRole
	Batch        *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
