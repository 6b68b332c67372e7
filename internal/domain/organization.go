package domain

import "time"

// Organization is the tenant boundary. Every shelf, item, label, and
// non-super-admin user belongs to exactly one organization.
type Organization struct {
	ID        string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}
