package domain

import "time"

// Category groups complaints for display and analytics.
type Category struct {
	ID          string
	Name        string
	Description string
	CreatedAt   time.Time
}
