package domain

import "time"

// Label is an organization-scoped tag that can be attached to items.
// Color is a hex string like "#RRGGBB"; TextColor is derived from it so the
// frontend renders readable label chips.
type Label struct {
	ID             string
	OrganizationID string
	Name           string
	Color          string
	TextColor      string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
