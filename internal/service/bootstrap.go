package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/invertar/invertar/internal/domain"
	"github.com/invertar/invertar/internal/store"
	"github.com/invertar/invertar/pkg/cryptox"
	"github.com/invertar/invertar/pkg/idx"
	"github.com/invertar/invertar/pkg/slogx"
)

var (
	ErrBootstrapAlready      = errors.New("system already bootstrapped")
	ErrBootstrapUnauthorized = errors.New("unauthorized bootstrap attempt")
)

// BootstrapService performs first-run setup: it creates the first
// organization and its SUPER_ADMIN account. It only works while the users
// table is empty and only with the pre-shared token.
type BootstrapService struct {
	Store      store.Store
	Token      string // pre-configured bootstrap token
	BcryptCost int
}

func (s *BootstrapService) IsBootstrapped(ctx context.Context) (bool, error) {
	empty, err := s.Store.Users().IsEmpty(ctx)
	if err != nil {
		return false, err
	}
	return !empty, nil
}

// Bootstrap creates the first organization and its SUPER_ADMIN with the
// given password, skipping the onboarding-code flow since there is nobody to
// hand a code to yet.
func (s *BootstrapService) Bootstrap(ctx context.Context, token, orgName, username, password string) (domain.User, error) {
	l := slogx.FromContext(ctx)

	if bootstrapped, err := s.IsBootstrapped(ctx); err != nil {
		return domain.User{}, err
	} else if bootstrapped {
		l.Warn("attempted bootstrap on already-bootstrapped system")
		return domain.User{}, ErrBootstrapAlready
	}

	if s.Token == "" || subtle.ConstantTimeCompare([]byte(token), []byte(s.Token)) != 1 {
		l.Warn("unauthorized bootstrap attempt")
		return domain.User{}, ErrBootstrapUnauthorized
	}

	orgName = strings.TrimSpace(orgName)
	username = strings.TrimSpace(username)
	if err := ValidateName("organization name", orgName); err != nil {
		return domain.User{}, err
	}
	if err := ValidateName("username", username); err != nil {
		return domain.User{}, err
	}
	if err := ValidatePassword(password); err != nil {
		return domain.User{}, err
	}

	hash, err := cryptox.HashPassword(password, s.BcryptCost)
	if err != nil {
		return domain.User{}, err
	}

	now := time.Now().UTC()
	org := domain.Organization{
		ID:        idx.New().String(),
		Name:      orgName,
		CreatedAt: now,
		UpdatedAt: now,
	}
	user := domain.User{
		ID:             idx.New().String(),
		OrganizationID: org.ID,
		Username:       username,
		Role:           domain.RoleSuperAdmin,
		PasswordHash:   &hash,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		// Re-check inside the transaction so concurrent bootstrap attempts
		// cannot both succeed.
		empty, err := tx.Users().IsEmpty(ctx)
		if err != nil {
			return err
		}
		if !empty {
			return ErrBootstrapAlready
		}
		if err := tx.Organizations().CreateOrganization(ctx, org); err != nil {
			return err
		}
		return tx.Users().CreateUser(ctx, user)
	})
	if err != nil {
		return domain.User{}, err
	}

	l.Info("system bootstrapped",
		slog.String("org_id", org.ID),
		slog.String("super_admin_id", user.ID),
	)
	return user, nil
}
