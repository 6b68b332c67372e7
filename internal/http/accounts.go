package http

import (
	"net/http"
	"time"

	"github.com/invertar/invertar/internal/domain"
	"github.com/invertar/invertar/internal/service"
	"github.com/invertar/invertar/pkg/httpx"
)

// AccountsHandler serves the admin-management endpoints (super admin) and
// the user-management endpoints (admin). Scope rules live in the service;
// the gates only decide which role may reach each route.
type AccountsHandler struct {
	AccountService *service.AccountService
}

type createAccountRequest struct {
	OrganizationID string `json:"organizationId,omitempty"`
	Username       string `json:"username"`
}

// createdAccountResponse carries the one-time access code. This is the only
// place the plain code ever appears.
type createdAccountResponse struct {
	User      userResponse `json:"user"`
	Code      string       `json:"code"`
	ExpiresAt time.Time    `json:"expiresAt"`
}

func (h *AccountsHandler) HandleCreateAdmin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req createAccountRequest
	if apiErr := httpx.DecodeJSON(r, &req); apiErr != nil {
		apiErr.Write(w)
		return
	}

	var v httpx.Violations
	if req.OrganizationID == "" {
		v.Add("organizationId", "must not be empty")
	}
	if req.Username == "" {
		v.Add("username", "must not be empty")
	}
	if apiErr := v.Err(); apiErr != nil {
		apiErr.Write(w)
		return
	}

	user, issued, err := h.AccountService.CreateAdmin(ctx, req.OrganizationID, req.Username)
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusCreated, createdAccountResponse{
		User:      toUserResponse(user, ""),
		Code:      issued.Code,
		ExpiresAt: issued.ExpiresAt,
	})
}

func (h *AccountsHandler) HandleListAdmins(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	admins, err := h.AccountService.ListAdmins(ctx, r.URL.Query().Get("organizationId"))
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	writeUserList(w, admins)
}

func (h *AccountsHandler) HandleCreateUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	identity, ok := httpx.IdentityFromContext(ctx)
	if !ok {
		httpx.Unauthorized("missing or invalid access token").Write(w)
		return
	}

	var req createAccountRequest
	if apiErr := httpx.DecodeJSON(r, &req); apiErr != nil {
		apiErr.Write(w)
		return
	}
	if req.Username == "" {
		httpx.BadRequest("username must not be empty").Write(w)
		return
	}

	user, issued, err := h.AccountService.CreateUser(ctx, identity, req.Username)
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusCreated, createdAccountResponse{
		User:      toUserResponse(user, ""),
		Code:      issued.Code,
		ExpiresAt: issued.ExpiresAt,
	})
}

func (h *AccountsHandler) HandleListUsers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	identity, ok := httpx.IdentityFromContext(ctx)
	if !ok {
		httpx.Unauthorized("missing or invalid access token").Write(w)
		return
	}

	users, err := h.AccountService.ListUsers(ctx, identity)
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	writeUserList(w, users)
}

func (h *AccountsHandler) HandleResetAccessCode(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	identity, ok := httpx.IdentityFromContext(ctx)
	if !ok {
		httpx.Unauthorized("missing or invalid access token").Write(w)
		return
	}

	user, issued, err := h.AccountService.ResetAccessCode(ctx, identity, r.PathValue("id"))
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, createdAccountResponse{
		User:      toUserResponse(user, ""),
		Code:      issued.Code,
		ExpiresAt: issued.ExpiresAt,
	})
}

func (h *AccountsHandler) HandleDeleteAccount(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	identity, ok := httpx.IdentityFromContext(ctx)
	if !ok {
		httpx.Unauthorized("missing or invalid access token").Write(w)
		return
	}

	if err := h.AccountService.DeleteAccount(ctx, identity, r.PathValue("id")); err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeUserList(w http.ResponseWriter, users []domain.User) {
	out := make([]userResponse, 0, len(users))
	for _, u := range users {
		out = append(out, toUserResponse(u, ""))
	}
	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, out)
}
