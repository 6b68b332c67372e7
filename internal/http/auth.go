package http

import (
	"errors"
	"net/http"

	"github.com/invertar/invertar/internal/service"
	"github.com/invertar/invertar/pkg/httpx"
	"github.com/invertar/invertar/pkg/slogx"
)

// Status strings surfaced to the web client.
const (
	StatusValidAccessCode = "VALID_ACCESS_CODE"
	StatusLoginSuccess    = "SUCCESS"
	StatusPasswordSet     = "PASSWORD_SET"
	StatusTokenRefreshed  = "TOKEN_REFRESHED"
	StatusLoggedOut       = "LOGGED_OUT"
)

type AuthHandler struct {
	AuthService *service.AuthService
	Cookies     CookieWriter
	BcryptCost  int
}

type loginRequest struct {
	Username         string `json:"username"`
	OrganizationName string `json:"organizationName"`
	Password         string `json:"password"`
}

type statusResponse struct {
	Status string `json:"status"`
	UserID string `json:"userId,omitempty"`
}

// HandleLogin accepts either an account's password or, during onboarding,
// its one-time access code in the password field. A matching code answers
// VALID_ACCESS_CODE (plus the user id for the follow-up set-password call)
// without issuing tokens; a matching password answers SUCCESS and sets the
// session cookies.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req loginRequest
	if apiErr := httpx.DecodeJSON(r, &req); apiErr != nil {
		apiErr.Write(w)
		return
	}

	var v httpx.Violations
	if req.Username == "" {
		v.Add("username", "must not be empty")
	}
	if req.OrganizationName == "" {
		v.Add("organizationName", "must not be empty")
	}
	if req.Password == "" {
		v.Add("password", "must not be empty")
	}
	if apiErr := v.Err(); apiErr != nil {
		apiErr.Write(w)
		return
	}

	result, err := h.AuthService.Login(ctx, req.OrganizationName, req.Username, req.Password)
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}

	httpx.NoCache(w)
	switch result.Outcome {
	case service.LoginOutcomeValidAccessCode:
		httpx.WriteJSON(w, http.StatusOK, statusResponse{
			Status: StatusValidAccessCode,
			UserID: result.User.ID,
		})
	case service.LoginOutcomeSuccess:
		h.Cookies.Set(w, *result.Tokens)
		httpx.WriteJSON(w, http.StatusOK, statusResponse{Status: StatusLoginSuccess})
	default:
		slogx.FromContext(ctx).Error("unexpected login outcome", "outcome", result.Outcome)
		httpx.Internal().Write(w)
	}
}

type setPasswordRequest struct {
	UserID            string `json:"userId"`
	NewPassword       string `json:"newPassword"`
	OneTimeAccessCode string `json:"oneTimeAccessCode"`
}

// HandleSetPasswordWithCode exchanges a valid one-time access code for the
// account's first password. The code is consumed in the process.
func (h *AuthHandler) HandleSetPasswordWithCode(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req setPasswordRequest
	if apiErr := httpx.DecodeJSON(r, &req); apiErr != nil {
		apiErr.Write(w)
		return
	}

	var v httpx.Violations
	if req.UserID == "" {
		v.Add("userId", "must not be empty")
	}
	if req.OneTimeAccessCode == "" {
		v.Add("oneTimeAccessCode", "must not be empty")
	}
	if req.NewPassword == "" {
		v.Add("newPassword", "must not be empty")
	}
	if apiErr := v.Err(); apiErr != nil {
		apiErr.Write(w)
		return
	}

	_, err := h.AuthService.SetPasswordWithCode(ctx, req.UserID, req.OneTimeAccessCode, req.NewPassword, h.BcryptCost)
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, statusResponse{Status: StatusPasswordSet})
}

// HandleRefresh exchanges a valid refresh-token cookie for a brand new
// cookie pair. The account is re-read so role changes and deletions take
// effect here rather than riding out the old claims.
func (h *AuthHandler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	cookie, err := r.Cookie(RefreshTokenCookie)
	if err != nil || cookie.Value == "" {
		httpx.Unauthorized("missing refresh token").Write(w)
		return
	}

	_, pair, err := h.AuthService.Refresh(ctx, cookie.Value)
	if err != nil {
		h.Cookies.Clear(w)
		if errors.Is(err, service.ErrInvalidCredentials) || errors.Is(err, service.ErrPasswordNotSet) {
			httpx.Unauthorized("invalid refresh token").Write(w)
			return
		}
		writeServiceError(ctx, w, err)
		return
	}

	httpx.NoCache(w)
	h.Cookies.Set(w, pair)
	httpx.WriteJSON(w, http.StatusOK, statusResponse{Status: StatusTokenRefreshed})
}

// HandleLogout clears the session cookies. Tokens are stateless, so there is
// nothing to revoke server side; the cookies simply stop being sent.
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	httpx.NoCache(w)
	h.Cookies.Clear(w)
	httpx.WriteJSON(w, http.StatusOK, statusResponse{Status: StatusLoggedOut})
}
