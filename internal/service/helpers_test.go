package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/invertar/invertar/internal/domain"
	"github.com/invertar/invertar/internal/store"
	"github.com/invertar/invertar/internal/store/drivers/sqlite"
	"github.com/invertar/invertar/pkg/cryptox"
	"github.com/invertar/invertar/pkg/idx"
	"github.com/invertar/invertar/pkg/jwtx"
)

// testBcryptCost keeps hashing fast in tests.
const testBcryptCost = bcrypt.MinCost

func newTestStore(t *testing.T) store.Store {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	require.NoError(t, st.ApplyMigrations())
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func newTestCodec(t *testing.T) *jwtx.Codec {
	t.Helper()

	codec, err := jwtx.NewCodec(
		[]byte("test-secret"),
		"invertar",
		0, 0,
		[]string{"USER", "ADMIN", "SUPER_ADMIN"},
	)
	require.NoError(t, err)
	return codec
}

func seedOrg(t *testing.T, st store.Store, name string) domain.Organization {
	t.Helper()

	now := time.Now().UTC()
	org := domain.Organization{
		ID:        idx.New().String(),
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, st.Organizations().CreateOrganization(context.Background(), org))
	return org
}

// seedUserWithCode creates an account in onboarding mode.
func seedUserWithCode(t *testing.T, st store.Store, orgID, username string, role domain.Role, code string, exp time.Time) domain.User {
	t.Helper()

	now := time.Now().UTC()
	user := domain.User{
		ID:             idx.New().String(),
		OrganizationID: orgID,
		Username:       username,
		Role:           role,
		AccessCode:     &code,
		AccessCodeExp:  &exp,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	require.NoError(t, st.Users().CreateUser(context.Background(), user))
	return user
}

// seedUserWithPassword creates an activated account.
func seedUserWithPassword(t *testing.T, st store.Store, orgID, username string, role domain.Role, password string) domain.User {
	t.Helper()

	hash, err := cryptox.HashPassword(password, testBcryptCost)
	require.NoError(t, err)

	now := time.Now().UTC()
	user := domain.User{
		ID:             idx.New().String(),
		OrganizationID: orgID,
		Username:       username,
		Role:           role,
		PasswordHash:   &hash,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	require.NoError(t, st.Users().CreateUser(context.Background(), user))
	return user
}

func seedShelf(t *testing.T, st store.Store, orgID, name string) domain.Shelf {
	t.Helper()

	now := time.Now().UTC()
	shelf := domain.Shelf{
		ID:             idx.New().String(),
		OrganizationID: orgID,
		Name:           name,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	require.NoError(t, st.Shelves().CreateShelf(context.Background(), shelf))
	return shelf
}

func identityFor(u domain.User) jwtx.Identity {
	return jwtx.Identity{
		UserID:         u.ID,
		OrganizationID: u.OrganizationID,
		Role:           string(u.Role),
	}
}
