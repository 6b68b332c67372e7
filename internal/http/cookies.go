package http

import (
	"net/http"
	"time"

	"github.com/invertar/invertar/internal/domain"
)

// Session cookie names. Both are HTTP-only; the browser never reads them.
const (
	AccessTokenCookie  = "accessToken"
	RefreshTokenCookie = "refreshToken"
)

// CookieWriter stamps the session token pair onto responses. Secure is
// enabled in production so the cookies only travel over TLS.
type CookieWriter struct {
	Secure bool
}

func (c CookieWriter) sessionCookie(name, value string, expiresAt time.Time) *http.Cookie {
	// Max-Age carries the token lifetime; Expires rides along for ancient
	// clients. A past expiry deletes the cookie.
	maxAge := int(time.Until(expiresAt).Seconds())
	if maxAge <= 0 {
		maxAge = -1
	}
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Expires:  expiresAt,
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// Set writes both session cookies from a freshly issued token pair.
func (c CookieWriter) Set(w http.ResponseWriter, pair domain.TokenPair) {
	http.SetCookie(w, c.sessionCookie(AccessTokenCookie, pair.AccessToken, pair.AccessExpiresAt))
	http.SetCookie(w, c.sessionCookie(RefreshTokenCookie, pair.RefreshToken, pair.RefreshExpiresAt))
}

// Clear expires both session cookies immediately.
func (c CookieWriter) Clear(w http.ResponseWriter) {
	expired := time.Unix(0, 0)
	http.SetCookie(w, c.sessionCookie(AccessTokenCookie, "", expired))
	http.SetCookie(w, c.sessionCookie(RefreshTokenCookie, "", expired))
}
