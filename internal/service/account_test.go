package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/invertar/invertar/internal/domain"
	"github.com/invertar/invertar/internal/service"
	"github.com/invertar/invertar/internal/store"
	"github.com/invertar/invertar/pkg/jwtx"
)

func TestCreateAdmin(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	accounts := &service.AccountService{Store: st}
	org := seedOrg(t, st, "Acme")

	before := time.Now()
	user, issued, err := accounts.CreateAdmin(context.Background(), org.ID, "new-admin")
	require.NoError(t, err)

	require.Equal(t, domain.RoleAdmin, user.Role)
	require.Equal(t, org.ID, user.OrganizationID)
	require.True(t, user.AwaitingPassword())
	require.Nil(t, user.PasswordHash)

	require.Len(t, issued.Code, 12)
	require.WithinDuration(t, before.Add(service.DefaultAccessCodeTTL), issued.ExpiresAt, time.Minute)

	t.Run("duplicate username", func(t *testing.T) {
		_, _, err := accounts.CreateAdmin(context.Background(), org.ID, "new-admin")
		require.ErrorIs(t, err, service.ErrAlreadyExists)
	})

	t.Run("unknown organization", func(t *testing.T) {
		_, _, err := accounts.CreateAdmin(context.Background(), "missing-org", "someone")
		require.ErrorIs(t, err, service.ErrNotFound)
	})

	t.Run("empty username", func(t *testing.T) {
		_, _, err := accounts.CreateAdmin(context.Background(), org.ID, "   ")
		require.ErrorIs(t, err, service.ErrValidation)
	})
}

func TestCreateUserScopedToActorOrg(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	accounts := &service.AccountService{Store: st}
	org := seedOrg(t, st, "Acme")
	admin := seedUserWithPassword(t, st, org.ID, "admin", domain.RoleAdmin, "password123")

	user, issued, err := accounts.CreateUser(context.Background(), identityFor(admin), "worker")
	require.NoError(t, err)
	require.Equal(t, domain.RoleUser, user.Role)
	require.Equal(t, org.ID, user.OrganizationID)
	require.NotEmpty(t, issued.Code)
}

func TestListAdmins(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	accounts := &service.AccountService{Store: st}

	acme := seedOrg(t, st, "Acme")
	globex := seedOrg(t, st, "Globex")
	seedUserWithPassword(t, st, acme.ID, "a1", domain.RoleAdmin, "password123")
	seedUserWithPassword(t, st, globex.ID, "g1", domain.RoleAdmin, "password123")
	seedUserWithPassword(t, st, acme.ID, "not-admin", domain.RoleUser, "password123")

	t.Run("scoped to one organization", func(t *testing.T) {
		admins, err := accounts.ListAdmins(context.Background(), acme.ID)
		require.NoError(t, err)
		require.Len(t, admins, 1)
		require.Equal(t, "a1", admins[0].Username)
	})

	t.Run("all organizations", func(t *testing.T) {
		admins, err := accounts.ListAdmins(context.Background(), "")
		require.NoError(t, err)
		require.Len(t, admins, 2)
	})
}

func TestListUsers(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	accounts := &service.AccountService{Store: st}

	acme := seedOrg(t, st, "Acme")
	globex := seedOrg(t, st, "Globex")
	admin := seedUserWithPassword(t, st, acme.ID, "admin", domain.RoleAdmin, "password123")
	seedUserWithPassword(t, st, acme.ID, "worker", domain.RoleUser, "password123")
	seedUserWithPassword(t, st, globex.ID, "other-org-worker", domain.RoleUser, "password123")

	users, err := accounts.ListUsers(context.Background(), identityFor(admin))
	require.NoError(t, err)
	require.Len(t, users, 1)
	require.Equal(t, "worker", users[0].Username)
}

func TestResetAccessCode(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	accounts := &service.AccountService{Store: st}

	org := seedOrg(t, st, "Acme")
	admin := seedUserWithPassword(t, st, org.ID, "admin", domain.RoleAdmin, "password123")
	worker := seedUserWithPassword(t, st, org.ID, "worker", domain.RoleUser, "password123")

	user, issued, err := accounts.ResetAccessCode(context.Background(), identityFor(admin), worker.ID)
	require.NoError(t, err)

	require.NotEmpty(t, issued.Code)
	require.True(t, user.AwaitingPassword())
	require.Nil(t, user.PasswordHash, "reset must clear the password")
	require.NotNil(t, user.AccessCodeExp)

	t.Run("unknown account", func(t *testing.T) {
		_, _, err := accounts.ResetAccessCode(context.Background(), identityFor(admin), "missing-id")
		require.ErrorIs(t, err, service.ErrNotFound)
	})
}

func TestManageScope(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	accounts := &service.AccountService{Store: st}

	acme := seedOrg(t, st, "Acme")
	globex := seedOrg(t, st, "Globex")

	super := seedUserWithPassword(t, st, acme.ID, "root", domain.RoleSuperAdmin, "password123")
	acmeAdmin := seedUserWithPassword(t, st, acme.ID, "acme-admin", domain.RoleAdmin, "password123")
	globexAdmin := seedUserWithPassword(t, st, globex.ID, "globex-admin", domain.RoleAdmin, "password123")
	acmeWorker := seedUserWithPassword(t, st, acme.ID, "acme-worker", domain.RoleUser, "password123")
	globexWorker := seedUserWithPassword(t, st, globex.ID, "globex-worker", domain.RoleUser, "password123")

	cases := []struct {
		name    string
		actor   jwtx.Identity
		target  domain.User
		allowed bool
	}{
		{"super admin manages admin in any org", identityFor(super), globexAdmin, true},
		{"super admin cannot manage a user", identityFor(super), acmeWorker, false},
		{"super admin cannot manage themselves", identityFor(super), super, false},
		{"admin manages user in own org", identityFor(acmeAdmin), acmeWorker, true},
		{"admin cannot manage user in another org", identityFor(acmeAdmin), globexWorker, false},
		{"admin cannot manage another admin", identityFor(acmeAdmin), globexAdmin, false},
		{"admin cannot manage themselves", identityFor(acmeAdmin), acmeAdmin, false},
		{"user manages nobody", identityFor(acmeWorker), globexWorker, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := accounts.ResetAccessCode(context.Background(), tc.actor, tc.target.ID)
			if tc.allowed {
				require.NoError(t, err)
			} else {
				require.ErrorIs(t, err, service.ErrForbidden)
			}
		})
	}
}

func TestDeleteAccount(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	accounts := &service.AccountService{Store: st}

	org := seedOrg(t, st, "Acme")
	admin := seedUserWithPassword(t, st, org.ID, "admin", domain.RoleAdmin, "password123")
	worker := seedUserWithPassword(t, st, org.ID, "worker", domain.RoleUser, "password123")

	require.NoError(t, accounts.DeleteAccount(context.Background(), identityFor(admin), worker.ID))

	_, err := st.Users().GetUserByID(context.Background(), worker.ID)
	require.ErrorIs(t, err, store.ErrNotFound)

	t.Run("already deleted", func(t *testing.T) {
		err := accounts.DeleteAccount(context.Background(), identityFor(admin), worker.ID)
		require.ErrorIs(t, err, service.ErrNotFound)
	})

	t.Run("out of scope", func(t *testing.T) {
		other := seedOrg(t, st, "Globex")
		outsider := seedUserWithPassword(t, st, other.ID, "outsider", domain.RoleUser, "password123")

		err := accounts.DeleteAccount(context.Background(), identityFor(admin), outsider.ID)
		require.ErrorIs(t, err, service.ErrForbidden)
	})
}
