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
	"github.com/invertar/invertar/pkg/jwtx"
	"github.com/invertar/invertar/pkg/slogx"
)

var (
	// ErrInvalidCredentials covers unknown organization, unknown username,
	// wrong password and wrong access code alike so callers cannot probe
	// which part was wrong.
	ErrInvalidCredentials = errors.New("invalid_credentials")

	// ErrInvalidOrExpiredCode is returned when setting a password with a
	// code that does not match or has passed its expiry.
	ErrInvalidOrExpiredCode = errors.New("invalid_or_expired_code")

	// ErrPasswordNotSet is returned when a refresh or password login hits an
	// account still waiting for its first password.
	ErrPasswordNotSet = errors.New("password_not_set")
)

// LoginOutcome distinguishes the two successful login shapes.
type LoginOutcome string

const (
	// LoginOutcomeValidAccessCode means the one-time access code matched; the
	// caller must now set a password. No tokens are issued.
	LoginOutcomeValidAccessCode LoginOutcome = "VALID_ACCESS_CODE"

	// LoginOutcomeSuccess means the password matched and a token pair was
	// issued.
	LoginOutcomeSuccess LoginOutcome = "SUCCESS"
)

type LoginResult struct {
	Outcome LoginOutcome
	User    domain.User
	Tokens  *domain.TokenPair // nil unless Outcome == LoginOutcomeSuccess
}

// AuthService verifies credentials and issues token pairs. Accounts are in
// one of two modes: onboarding (one-time access code set, no password) or
// active (password set, no code).
type AuthService struct {
	Store store.Store
	Codec *jwtx.Codec
}

// Login resolves the organization and user, then verifies the supplied
// credential against whichever mode the account is in.
func (s *AuthService) Login(ctx context.Context, orgName, username, credential string) (LoginResult, error) {
	l := slogx.FromContext(ctx)
	now := time.Now()

	orgName = strings.TrimSpace(orgName)
	username = strings.TrimSpace(username)
	if orgName == "" || username == "" || credential == "" {
		return LoginResult{}, ErrInvalidCredentials
	}

	user, err := s.lookupUser(ctx, orgName, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			l.Info("login failed: unknown account", slog.String("org", orgName))
			return LoginResult{}, ErrInvalidCredentials
		}
		return LoginResult{}, err
	}

	if user.AwaitingPassword() {
		// Wrong code and expired code answer identically so a caller cannot
		// tell which part failed.
		if !codeMatches(user, credential, now) {
			l.Info("login failed: access code mismatch", slog.String("user_id", user.ID))
			return LoginResult{}, ErrInvalidOrExpiredCode
		}
		return LoginResult{Outcome: LoginOutcomeValidAccessCode, User: user}, nil
	}

	if user.PasswordHash == nil {
		// Neither code nor password; unusable account.
		return LoginResult{}, ErrInvalidCredentials
	}

	if err := cryptox.VerifyPassword(credential, *user.PasswordHash); err != nil {
		l.Info("login failed: password mismatch", slog.String("user_id", user.ID))
		return LoginResult{}, ErrInvalidCredentials
	}

	pair, err := s.issuePair(user, now)
	if err != nil {
		return LoginResult{}, err
	}
	l.Info("login succeeded", slog.String("user_id", user.ID), slog.String("role", string(user.Role)))
	return LoginResult{Outcome: LoginOutcomeSuccess, User: user, Tokens: &pair}, nil
}

// SetPasswordWithCode exchanges a valid one-time access code for a password.
// The code is cleared in the same transaction that stores the hash, so it can
// never be used twice.
func (s *AuthService) SetPasswordWithCode(ctx context.Context, userID, code, newPassword string, bcryptCost int) (domain.User, error) {
	l := slogx.FromContext(ctx)
	now := time.Now()

	if err := ValidatePassword(newPassword); err != nil {
		return domain.User{}, err
	}

	hash, err := cryptox.HashPassword(newPassword, bcryptCost)
	if err != nil {
		return domain.User{}, err
	}

	var updated domain.User
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		user, err := tx.Users().GetUserByID(ctx, userID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrInvalidOrExpiredCode
			}
			return err
		}

		if !codeMatches(user, code, now) {
			return ErrInvalidOrExpiredCode
		}

		if err := tx.Users().SetPassword(ctx, user.ID, hash); err != nil {
			return err
		}

		updated, err = tx.Users().GetUserByID(ctx, user.ID)
		return err
	})
	if err != nil {
		if !errors.Is(err, ErrInvalidOrExpiredCode) {
			l.Error("set password failed", slog.Any("error", err))
		}
		return domain.User{}, err
	}

	l.Info("password set via access code", slog.String("user_id", updated.ID))
	return updated, nil
}

// Refresh verifies a refresh token and issues a brand new pair. The user's
// role and organization are re-read from the database rather than trusted
// from the old claims, so role changes and deletions take effect within one
// access-token lifetime.
func (s *AuthService) Refresh(ctx context.Context, rawRefreshToken string) (domain.User, domain.TokenPair, error) {
	now := time.Now()

	identity, err := s.Codec.Verify(rawRefreshToken, jwtx.TokenKindRefresh, now)
	if err != nil {
		return domain.User{}, domain.TokenPair{}, ErrInvalidCredentials
	}

	user, err := s.Store.Users().GetUserByID(ctx, identity.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, domain.TokenPair{}, ErrInvalidCredentials
		}
		return domain.User{}, domain.TokenPair{}, err
	}

	if user.PasswordHash == nil {
		// Account was reset back to onboarding mode since the token was
		// issued; existing sessions stop refreshing.
		return domain.User{}, domain.TokenPair{}, ErrPasswordNotSet
	}

	pair, err := s.issuePair(user, now)
	if err != nil {
		return domain.User{}, domain.TokenPair{}, err
	}
	return user, pair, nil
}

func (s *AuthService) lookupUser(ctx context.Context, orgName, username string) (domain.User, error) {
	org, err := s.Store.Organizations().GetOrganizationByName(ctx, orgName)
	if err != nil {
		return domain.User{}, err
	}
	return s.Store.Users().GetUserByOrgAndUsername(ctx, org.ID, username)
}

func (s *AuthService) issuePair(user domain.User, now time.Time) (domain.TokenPair, error) {
	identity := jwtx.Identity{
		UserID:         user.ID,
		OrganizationID: user.OrganizationID,
		Role:           string(user.Role),
	}

	access, err := s.Codec.Issue(identity, jwtx.TokenKindAccess, now)
	if err != nil {
		return domain.TokenPair{}, err
	}
	refresh, err := s.Codec.Issue(identity, jwtx.TokenKindRefresh, now)
	if err != nil {
		return domain.TokenPair{}, err
	}

	return domain.TokenPair{
		AccessToken:      access,
		AccessExpiresAt:  now.Add(s.Codec.TTL(jwtx.TokenKindAccess)),
		RefreshToken:     refresh,
		RefreshExpiresAt: now.Add(s.Codec.TTL(jwtx.TokenKindRefresh)),
	}, nil
}

// codeMatches compares the supplied code against the stored one in constant
// time and enforces the expiry (a code at exactly its expiry is no longer
// valid).
func codeMatches(user domain.User, code string, now time.Time) bool {
	if user.AccessCode == nil || user.AccessCodeExp == nil {
		return false
	}
	if !now.Before(*user.AccessCodeExp) {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(*user.AccessCode), []byte(code)) == 1
}
