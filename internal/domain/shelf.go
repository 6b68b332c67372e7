package domain

import "time"

// Shelf groups items within an organization. Names are unique per
// organization.
type Shelf struct {
	ID             string
	OrganizationID string
	Name           string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
