// Package jwtx issues and verifies the signed session tokens. Tokens are
// HS256 JWTs carrying the identity claim (user, organization, role) plus a
// kind marker distinguishing access from refresh tokens.
package jwtx

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Default token lifetimes. Access tokens are short-lived; refresh tokens are
// long-lived and only ever exchanged for a new pair.
const (
	DefaultAccessTTL  = 15 * time.Minute
	DefaultRefreshTTL = 30 * 24 * time.Hour
)

// TokenKind tags a token as access or refresh so one cannot stand in for the
// other.
type TokenKind string

const (
	TokenKindAccess  TokenKind = "access"
	TokenKindRefresh TokenKind = "refresh"
)

var (
	ErrNoSecret     = errors.New("jwtx: signing secret is empty")
	ErrMalformed    = errors.New("jwtx: malformed token")
	ErrInvalidSig   = errors.New("jwtx: invalid signature")
	ErrExpired      = errors.New("jwtx: token expired")
	ErrInvalidClaim = errors.New("jwtx: invalid claims")
	ErrWrongKind    = errors.New("jwtx: wrong token kind")
)

// Identity is the decoded payload of a valid token.
type Identity struct {
	UserID         string
	OrganizationID string
	Role           string
}

// Claims is the wire shape of the identity embedded in a token.
type Claims struct {
	jwt.RegisteredClaims

	OrganizationID string `json:"org"`
	Role           string `json:"role"`
	Kind           string `json:"kind"`
}

// Codec signs and verifies session tokens with a single symmetric secret.
type Codec struct {
	secret     []byte
	issuer     string
	accessTTL  time.Duration
	refreshTTL time.Duration
	roles      map[string]struct{}
}

// NewCodec builds a Codec. The secret is mandatory; allowedRoles is the
// closed set of role strings a verified claim may carry.
func NewCodec(
	secret []byte,
	issuer string,
	accessTTL, refreshTTL time.Duration,
	allowedRoles []string,
) (*Codec, error) {
	if len(secret) == 0 {
		return nil, ErrNoSecret
	}
	if accessTTL <= 0 {
		accessTTL = DefaultAccessTTL
	}
	if refreshTTL <= 0 {
		refreshTTL = DefaultRefreshTTL
	}

	roles := make(map[string]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		roles[r] = struct{}{}
	}

	return &Codec{
		secret:     secret,
		issuer:     issuer,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		roles:      roles,
	}, nil
}

// TTL returns the configured lifetime for a token kind.
func (c *Codec) TTL(kind TokenKind) time.Duration {
	if kind == TokenKindRefresh {
		return c.refreshTTL
	}
	return c.accessTTL
}

// Issue signs a token of the given kind for the identity, expiring TTL(kind)
// after now.
func (c *Codec) Issue(id Identity, kind TokenKind, now time.Time) (string, error) {
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    c.issuer,
			Subject:   id.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.TTL(kind))),
		},
		OrganizationID: id.OrganizationID,
		Role:           id.Role,
		Kind:           string(kind),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("jwtx: sign token: %w", err)
	}
	return signed, nil
}

// Verify decodes a token and returns its identity claim. It fails on a bad
// signature, a wrong kind, a missing or malformed claim field, a role outside
// the allowed set, or expiry. Expiry is exclusive: a token presented at
// exactly exp is invalid. Callers treat every failure uniformly as
// unauthenticated.
func (c *Codec) Verify(raw string, kind TokenKind, now time.Time) (Identity, error) {
	var claims Claims

	// Signature and structural checks only; claim validation happens below
	// so the expiry boundary stays exclusive.
	_, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("jwtx: unexpected signing method %q", t.Method.Alg())
		}
		return c.secret, nil
	}, jwt.WithoutClaimsValidation())
	if err != nil {
		if errors.Is(err, jwt.ErrTokenSignatureInvalid) {
			return Identity{}, ErrInvalidSig
		}
		return Identity{}, ErrMalformed
	}

	if claims.Kind != string(kind) {
		return Identity{}, ErrWrongKind
	}
	if claims.ExpiresAt == nil || !now.Before(claims.ExpiresAt.Time) {
		return Identity{}, ErrExpired
	}
	if claims.Subject == "" || claims.OrganizationID == "" {
		return Identity{}, ErrInvalidClaim
	}
	if _, ok := c.roles[claims.Role]; !ok {
		return Identity{}, ErrInvalidClaim
	}
	if c.issuer != "" && claims.Issuer != c.issuer {
		return Identity{}, ErrInvalidClaim
	}

	return Identity{
		UserID:         claims.Subject,
		OrganizationID: claims.OrganizationID,
		Role:           claims.Role,
	}, nil
}
