package httpx

import (
	"net/http"
	"slices"

	"github.com/invertar/invertar/pkg/jwtx"
	"github.com/invertar/invertar/pkg/slogx"
)

// IdentityResolver extracts and verifies the caller identity from a request,
// typically by decoding the access-token cookie.
type IdentityResolver func(*http.Request) (jwtx.Identity, error)

// Check is one predicate in a gate: it inspects the verified identity and
// either allows the request to continue (nil) or terminates it with an error.
type Check func(jwtx.Identity) *APIError

// Gate guards a handler with an ordered list of predicate checks. With no
// checks the handler is public and the identity is not even resolved. With
// checks, the identity is resolved first; any resolution failure is a uniform
// Unauthorized. Checks then run in order and the first failure ends the
// request before the handler sees it.
func Gate(next http.Handler, resolve IdentityResolver, checks ...Check) http.Handler {
	if len(checks) == 0 {
		return next
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := resolve(r)
		if err != nil {
			slogx.FromContext(r.Context()).Debug("request authentication failed", "err", err)
			Unauthorized("missing or invalid access token").Write(w)
			return
		}

		for _, check := range checks {
			if apiErr := check(id); apiErr != nil {
				apiErr.Write(w)
				return
			}
		}

		next.ServeHTTP(w, r.WithContext(ContextWithIdentity(r.Context(), id)))
	})
}

// RequireAnyRole passes identities whose role is in the allowed set and
// fails the rest with Unauthorized.
func RequireAnyRole(roles ...string) Check {
	return func(id jwtx.Identity) *APIError {
		if slices.Contains(roles, id.Role) {
			return nil
		}
		return Unauthorized("insufficient role")
	}
}

// RequireExactRole passes only identities with exactly the given role;
// authenticated callers with any other role fail with Forbidden.
func RequireExactRole(role string) Check {
	return func(id jwtx.Identity) *APIError {
		if id.Role == role {
			return nil
		}
		return Forbidden("requires " + role + " role")
	}
}
