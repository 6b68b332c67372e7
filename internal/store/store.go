package store

import (
	"context"
	"errors"
	"time"

	"github.com/invertar/invertar/internal/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite today)
// implement it. Sub-repositories keep the surface tidy and make it obvious
// which tables an operation touches.
type Store interface {
	Organizations() Organizations
	Users() Users
	Shelves() Shelves
	Items() Items
	Labels() Labels

	ApplyMigrations() error

	// Tx starts a read/write transaction scoped Store. The caller MUST call
	// Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes fn within a transaction, committing when fn returns
	// nil and rolling back otherwise. Prefer this over Tx directly.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	Close() error
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repositories and adds
// Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Organizations interface {
	CreateOrganization(ctx context.Context, o domain.Organization) error
	GetOrganizationByID(ctx context.Context, id string) (domain.Organization, error)

	// GetOrganizationByName resolves the tenant during login.
	GetOrganizationByName(ctx context.Context, name string) (domain.Organization, error)

	ListOrganizations(ctx context.Context) ([]domain.Organization, error)
}

type Users interface {
	CreateUser(ctx context.Context, u domain.User) error
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByOrgAndUsername is the login lookup; usernames are unique per
	// organization, not globally.
	GetUserByOrgAndUsername(ctx context.Context, organizationID, username string) (domain.User, error)

	// ListUsersByOrganization returns accounts of one role within an
	// organization, newest first.
	ListUsersByOrganization(ctx context.Context, organizationID string, role domain.Role) ([]domain.User, error)

	// ListUsersByRole returns all accounts of a role across organizations
	// (super-admin view of admins).
	ListUsersByRole(ctx context.Context, role domain.Role) ([]domain.User, error)

	// SetPassword stores the bcrypt hash and clears the one-time access code
	// fields in the same statement, upholding the single-credential invariant.
	SetPassword(ctx context.Context, userID, passwordHash string) error

	// SetAccessCode stores a fresh one-time access code and clears any
	// password hash, returning the account to onboarding mode.
	SetAccessCode(ctx context.Context, userID, code string, expiresAt time.Time) error

	DeleteUser(ctx context.Context, userID string) error

	// IsEmpty reports whether any user exists at all (bootstrap guard).
	IsEmpty(ctx context.Context) (bool, error)

	// ClearExpiredAccessCodes nulls out codes whose expiry has passed
	// (housekeeping).
	ClearExpiredAccessCodes(ctx context.Context, now time.Time) error
}

type Shelves interface {
	CreateShelf(ctx context.Context, s domain.Shelf) error
	GetShelfByID(ctx context.Context, id string) (domain.Shelf, error)
	ListShelvesByOrganization(ctx context.Context, organizationID string) ([]domain.Shelf, error)
	RenameShelf(ctx context.Context, shelfID, name string) error

	// DeleteShelf cascades to its items (per schema).
	DeleteShelf(ctx context.Context, shelfID string) error
}

// SearchItemsParams narrows and pages an item search. Query matches item
// names case-insensitively as a substring.
type SearchItemsParams struct {
	OrganizationID string
	Query          string
	ShelfID        string // optional
	LabelID        string // optional
	Limit          int
	Offset         int
}

type Items interface {
	CreateItem(ctx context.Context, it domain.Item) error
	GetItemByID(ctx context.Context, id string) (domain.Item, error)
	UpdateItem(ctx context.Context, it domain.Item) error
	DeleteItem(ctx context.Context, itemID string) error

	// SearchItems returns one page of matches ordered by name plus the total
	// match count.
	SearchItems(ctx context.Context, p SearchItemsParams) ([]domain.Item, int, error)

	// SetItemLabels replaces the label set attached to an item.
	SetItemLabels(ctx context.Context, itemID string, labelIDs []string) error
}

type Labels interface {
	CreateLabel(ctx context.Context, l domain.Label) error
	GetLabelByID(ctx context.Context, id string) (domain.Label, error)
	ListLabelsByOrganization(ctx context.Context, organizationID string) ([]domain.Label, error)
	UpdateLabel(ctx context.Context, l domain.Label) error
	DeleteLabel(ctx context.Context, labelID string) error
	ListLabelsByItem(ctx context.Context, itemID string) ([]domain.Label, error)
}
