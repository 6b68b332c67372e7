package domain

import (
	"strings"
	"time"

	"github.com/invertar/invertar/pkg/cryptox"
)

// Item is a tracked inventory entry on a shelf. PriceCents and CostCents are
// integer cents to avoid float drift. IdentityHash uniquely identifies the
// item within its shelf regardless of name casing or surrounding whitespace.
type Item struct {
	ID             string
	OrganizationID string
	ShelfID        string
	Name           string
	IdentityHash   string
	PriceCents     int64
	CostCents      int64
	Quantity       int64
	Unit           string
	Labels         []Label
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// ItemIdentityHash derives the uniqueness key for an item: the fingerprint of
// organization, shelf, and the normalized name. Two items on the same shelf
// whose names differ only in case or whitespace collide.
func ItemIdentityHash(organizationID, shelfID, name string) string {
	normalized := strings.ToLower(strings.TrimSpace(name))
	return cryptox.Fingerprint(organizationID + "|" + shelfID + "|" + normalized)
}
