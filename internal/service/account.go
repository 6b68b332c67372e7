package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/invertar/invertar/internal/domain"
	"github.com/invertar/invertar/internal/store"
	"github.com/invertar/invertar/pkg/cryptox"
	"github.com/invertar/invertar/pkg/idx"
	"github.com/invertar/invertar/pkg/jwtx"
	"github.com/invertar/invertar/pkg/slogx"
)

// DefaultAccessCodeTTL is how long a freshly issued one-time access code
// stays valid.
const DefaultAccessCodeTTL = 24 * time.Hour

var (
	ErrNotFound      = errors.New("not_found")
	ErrAlreadyExists = errors.New("already_exists")

	// ErrForbidden marks an operation outside the actor's management scope:
	// another organization's account, a role the actor cannot manage, or the
	// actor's own account.
	ErrForbidden = errors.New("forbidden")
)

// IssuedCode is returned whenever an account is (re)set to onboarding mode.
// The plain code is only ever available here; it is stored server-side for
// comparison but never shown again.
type IssuedCode struct {
	Code      string
	ExpiresAt time.Time
}

// AccountService manages admin and user accounts. Admins manage USER
// accounts inside their own organization; super admins manage ADMIN accounts
// in any organization.
type AccountService struct {
	Store      store.Store
	CodeTTL    time.Duration
	CodeLength int
}

func (s *AccountService) codeTTL() time.Duration {
	if s.CodeTTL <= 0 {
		return DefaultAccessCodeTTL
	}
	return s.CodeTTL
}

func (s *AccountService) codeLength() int {
	if s.CodeLength < cryptox.MinAccessCodeLength {
		return cryptox.MinAccessCodeLength
	}
	return s.CodeLength
}

// CreateAdmin provisions an ADMIN account in the given organization with a
// fresh one-time access code. Super admin only.
func (s *AccountService) CreateAdmin(ctx context.Context, organizationID, username string) (domain.User, IssuedCode, error) {
	return s.createAccount(ctx, organizationID, username, domain.RoleAdmin)
}

// CreateUser provisions a USER account in the actor's own organization.
func (s *AccountService) CreateUser(ctx context.Context, actor jwtx.Identity, username string) (domain.User, IssuedCode, error) {
	return s.createAccount(ctx, actor.OrganizationID, username, domain.RoleUser)
}

func (s *AccountService) createAccount(ctx context.Context, organizationID, username string, role domain.Role) (domain.User, IssuedCode, error) {
	l := slogx.FromContext(ctx)

	username = strings.TrimSpace(username)
	if err := ValidateName("username", username); err != nil {
		return domain.User{}, IssuedCode{}, err
	}

	if _, err := s.Store.Organizations().GetOrganizationByID(ctx, organizationID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, IssuedCode{}, ErrNotFound
		}
		return domain.User{}, IssuedCode{}, err
	}

	code, err := cryptox.GenerateAccessCode(s.codeLength())
	if err != nil {
		return domain.User{}, IssuedCode{}, err
	}

	now := time.Now().UTC()
	expiresAt := now.Add(s.codeTTL())
	user := domain.User{
		ID:             idx.New().String(),
		OrganizationID: organizationID,
		Username:       username,
		Role:           role,
		AccessCode:     &code,
		AccessCodeExp:  &expiresAt,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.Store.Users().CreateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.User{}, IssuedCode{}, ErrAlreadyExists
		}
		return domain.User{}, IssuedCode{}, err
	}

	l.Info("account created",
		slog.String("user_id", user.ID),
		slog.String("org_id", organizationID),
		slog.String("role", string(role)),
	)
	return user, IssuedCode{Code: code, ExpiresAt: expiresAt}, nil
}

// ListAdmins returns the ADMIN accounts of one organization, or of every
// organization when organizationID is empty. Super admin only.
func (s *AccountService) ListAdmins(ctx context.Context, organizationID string) ([]domain.User, error) {
	if organizationID == "" {
		return s.Store.Users().ListUsersByRole(ctx, domain.RoleAdmin)
	}
	return s.Store.Users().ListUsersByOrganization(ctx, organizationID, domain.RoleAdmin)
}

// ListUsers returns the USER accounts of the actor's organization.
func (s *AccountService) ListUsers(ctx context.Context, actor jwtx.Identity) ([]domain.User, error) {
	return s.Store.Users().ListUsersByOrganization(ctx, actor.OrganizationID, domain.RoleUser)
}

// ResetAccessCode issues a fresh one-time access code for an account the
// actor manages, clearing any password so the account returns to onboarding
// mode.
func (s *AccountService) ResetAccessCode(ctx context.Context, actor jwtx.Identity, userID string) (domain.User, IssuedCode, error) {
	l := slogx.FromContext(ctx)

	code, err := cryptox.GenerateAccessCode(s.codeLength())
	if err != nil {
		return domain.User{}, IssuedCode{}, err
	}
	expiresAt := time.Now().UTC().Add(s.codeTTL())

	var user domain.User
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		target, err := tx.Users().GetUserByID(ctx, userID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrNotFound
			}
			return err
		}
		if err := checkManageScope(actor, target); err != nil {
			return err
		}
		if err := tx.Users().SetAccessCode(ctx, target.ID, code, expiresAt); err != nil {
			return err
		}
		user, err = tx.Users().GetUserByID(ctx, target.ID)
		return err
	})
	if err != nil {
		return domain.User{}, IssuedCode{}, err
	}

	l.Info("access code reset", slog.String("user_id", user.ID))
	return user, IssuedCode{Code: code, ExpiresAt: expiresAt}, nil
}

// DeleteAccount removes an account the actor manages.
func (s *AccountService) DeleteAccount(ctx context.Context, actor jwtx.Identity, userID string) error {
	l := slogx.FromContext(ctx)

	target, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	if err := checkManageScope(actor, target); err != nil {
		return err
	}

	if err := s.Store.Users().DeleteUser(ctx, userID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}

	l.Info("account deleted", slog.String("user_id", userID), slog.String("by", actor.UserID))
	return nil
}

// checkManageScope enforces who may manage whom: super admins manage ADMIN
// accounts anywhere; admins manage USER accounts in their own organization.
// Nobody manages their own account through these operations.
func checkManageScope(actor jwtx.Identity, target domain.User) error {
	if actor.UserID == target.ID {
		return ErrForbidden
	}
	switch domain.Role(actor.Role) {
	case domain.RoleSuperAdmin:
		if target.Role != domain.RoleAdmin {
			return ErrForbidden
		}
	case domain.RoleAdmin:
		if target.Role != domain.RoleUser || target.OrganizationID != actor.OrganizationID {
			return ErrForbidden
		}
	default:
		return ErrForbidden
	}
	return nil
}
