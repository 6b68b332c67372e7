package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/invertar/invertar/internal/domain"
	"github.com/invertar/invertar/internal/service"
	"github.com/invertar/invertar/pkg/jwtx"
)

func TestLoginWithAccessCode(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	auth := &service.AuthService{Store: st, Codec: newTestCodec(t)}

	org := seedOrg(t, st, "Acme")
	code := "ABCDEF123456"
	user := seedUserWithCode(t, st, org.ID, "alice", domain.RoleUser, code, time.Now().Add(time.Hour))

	t.Run("valid code", func(t *testing.T) {
		result, err := auth.Login(context.Background(), "Acme", "alice", code)
		require.NoError(t, err)
		require.Equal(t, service.LoginOutcomeValidAccessCode, result.Outcome)
		require.Equal(t, user.ID, result.User.ID)
		require.Nil(t, result.Tokens, "no tokens until a password is set")
	})

	t.Run("wrong code", func(t *testing.T) {
		_, err := auth.Login(context.Background(), "Acme", "alice", "WRONGCODE999")
		require.ErrorIs(t, err, service.ErrInvalidOrExpiredCode)
	})
}

func TestLoginWithExpiredAccessCode(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	auth := &service.AuthService{Store: st, Codec: newTestCodec(t)}

	org := seedOrg(t, st, "Acme")
	code := "ABCDEF123456"
	seedUserWithCode(t, st, org.ID, "bob", domain.RoleUser, code, time.Now().Add(-time.Minute))

	// The correct but expired code answers exactly like a wrong one.
	_, err := auth.Login(context.Background(), "Acme", "bob", code)
	require.ErrorIs(t, err, service.ErrInvalidOrExpiredCode)
}

func TestLoginWithPassword(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	auth := &service.AuthService{Store: st, Codec: newTestCodec(t)}

	org := seedOrg(t, st, "Acme")
	user := seedUserWithPassword(t, st, org.ID, "carol", domain.RoleAdmin, "open sesame 42")

	t.Run("success issues a token pair", func(t *testing.T) {
		result, err := auth.Login(context.Background(), "Acme", "carol", "open sesame 42")
		require.NoError(t, err)
		require.Equal(t, service.LoginOutcomeSuccess, result.Outcome)
		require.NotNil(t, result.Tokens)
		require.NotEmpty(t, result.Tokens.AccessToken)
		require.NotEmpty(t, result.Tokens.RefreshToken)
		require.True(t, result.Tokens.RefreshExpiresAt.After(result.Tokens.AccessExpiresAt))

		identity, err := auth.Codec.Verify(result.Tokens.AccessToken, jwtx.TokenKindAccess, time.Now())
		require.NoError(t, err)
		require.Equal(t, user.ID, identity.UserID)
		require.Equal(t, org.ID, identity.OrganizationID)
		require.Equal(t, "ADMIN", identity.Role)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := auth.Login(context.Background(), "Acme", "carol", "not the password")
		require.ErrorIs(t, err, service.ErrInvalidCredentials)
	})

	t.Run("unknown username", func(t *testing.T) {
		_, err := auth.Login(context.Background(), "Acme", "nobody", "open sesame 42")
		require.ErrorIs(t, err, service.ErrInvalidCredentials)
	})

	t.Run("unknown organization", func(t *testing.T) {
		_, err := auth.Login(context.Background(), "Globex", "carol", "open sesame 42")
		require.ErrorIs(t, err, service.ErrInvalidCredentials)
	})

	t.Run("empty fields", func(t *testing.T) {
		_, err := auth.Login(context.Background(), "", "carol", "open sesame 42")
		require.ErrorIs(t, err, service.ErrInvalidCredentials)
		_, err = auth.Login(context.Background(), "Acme", "carol", "")
		require.ErrorIs(t, err, service.ErrInvalidCredentials)
	})
}

func TestSetPasswordWithCode(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	auth := &service.AuthService{Store: st, Codec: newTestCodec(t)}

	org := seedOrg(t, st, "Acme")
	code := "QWERTY654321"
	user := seedUserWithCode(t, st, org.ID, "dave", domain.RoleUser, code, time.Now().Add(time.Hour))

	updated, err := auth.SetPasswordWithCode(context.Background(), user.ID, code, "brand new password", testBcryptCost)
	require.NoError(t, err)
	require.NotNil(t, updated.PasswordHash)
	require.Nil(t, updated.AccessCode, "code must be cleared once the password is set")
	require.Nil(t, updated.AccessCodeExp)
	require.False(t, updated.AwaitingPassword())

	t.Run("code cannot be reused", func(t *testing.T) {
		_, err := auth.SetPasswordWithCode(context.Background(), user.ID, code, "another password", testBcryptCost)
		require.ErrorIs(t, err, service.ErrInvalidOrExpiredCode)
	})

	t.Run("password login now works", func(t *testing.T) {
		result, err := auth.Login(context.Background(), "Acme", "dave", "brand new password")
		require.NoError(t, err)
		require.Equal(t, service.LoginOutcomeSuccess, result.Outcome)
	})
}

func TestSetPasswordWithCodeFailures(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	auth := &service.AuthService{Store: st, Codec: newTestCodec(t)}

	org := seedOrg(t, st, "Acme")
	code := "QWERTY654321"
	user := seedUserWithCode(t, st, org.ID, "erin", domain.RoleUser, code, time.Now().Add(time.Hour))
	expired := seedUserWithCode(t, st, org.ID, "frank", domain.RoleUser, code, time.Now().Add(-time.Minute))

	t.Run("wrong code", func(t *testing.T) {
		_, err := auth.SetPasswordWithCode(context.Background(), user.ID, "WRONGCODE999", "a valid password", testBcryptCost)
		require.ErrorIs(t, err, service.ErrInvalidOrExpiredCode)
	})

	t.Run("expired code", func(t *testing.T) {
		_, err := auth.SetPasswordWithCode(context.Background(), expired.ID, code, "a valid password", testBcryptCost)
		require.ErrorIs(t, err, service.ErrInvalidOrExpiredCode)
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := auth.SetPasswordWithCode(context.Background(), "missing-id", code, "a valid password", testBcryptCost)
		require.ErrorIs(t, err, service.ErrInvalidOrExpiredCode)
	})

	t.Run("weak password", func(t *testing.T) {
		_, err := auth.SetPasswordWithCode(context.Background(), user.ID, code, "short", testBcryptCost)
		require.ErrorIs(t, err, service.ErrWeakPassword)
	})

	// Failed attempts must not have consumed the code.
	result, err := auth.Login(context.Background(), "Acme", "erin", code)
	require.NoError(t, err)
	require.Equal(t, service.LoginOutcomeValidAccessCode, result.Outcome)
}

func TestRefresh(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	auth := &service.AuthService{Store: st, Codec: newTestCodec(t)}

	org := seedOrg(t, st, "Acme")
	user := seedUserWithPassword(t, st, org.ID, "grace", domain.RoleUser, "open sesame 42")

	result, err := auth.Login(context.Background(), "Acme", "grace", "open sesame 42")
	require.NoError(t, err)
	refreshToken := result.Tokens.RefreshToken

	t.Run("issues a fresh pair", func(t *testing.T) {
		refreshed, pair, err := auth.Refresh(context.Background(), refreshToken)
		require.NoError(t, err)
		require.Equal(t, user.ID, refreshed.ID)
		require.NotEmpty(t, pair.AccessToken)
		require.NotEmpty(t, pair.RefreshToken)
	})

	t.Run("access token is not a refresh token", func(t *testing.T) {
		_, _, err := auth.Refresh(context.Background(), result.Tokens.AccessToken)
		require.ErrorIs(t, err, service.ErrInvalidCredentials)
	})

	t.Run("garbage token", func(t *testing.T) {
		_, _, err := auth.Refresh(context.Background(), "not-a-token")
		require.ErrorIs(t, err, service.ErrInvalidCredentials)
	})
}

func TestRefreshRereadsAccountState(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	auth := &service.AuthService{Store: st, Codec: newTestCodec(t)}

	org := seedOrg(t, st, "Acme")
	seedUserWithPassword(t, st, org.ID, "heidi", domain.RoleUser, "open sesame 42")

	result, err := auth.Login(context.Background(), "Acme", "heidi", "open sesame 42")
	require.NoError(t, err)
	refreshToken := result.Tokens.RefreshToken

	t.Run("code reset stops refreshing", func(t *testing.T) {
		// Resetting the account to onboarding mode clears the password, so
		// outstanding refresh tokens stop working.
		err := st.Users().SetAccessCode(context.Background(), result.User.ID, "NEWCODE12345", time.Now().Add(time.Hour))
		require.NoError(t, err)

		_, _, err = auth.Refresh(context.Background(), refreshToken)
		require.ErrorIs(t, err, service.ErrPasswordNotSet)
	})

	t.Run("deleted account stops refreshing", func(t *testing.T) {
		require.NoError(t, st.Users().DeleteUser(context.Background(), result.User.ID))

		_, _, err := auth.Refresh(context.Background(), refreshToken)
		require.ErrorIs(t, err, service.ErrInvalidCredentials)
	})
}
