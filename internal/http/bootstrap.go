package http

import (
	"net/http"

	"github.com/invertar/invertar/internal/service"
	"github.com/invertar/invertar/pkg/httpx"
)

type BootstrapHandler struct {
	BootstrapService *service.BootstrapService
}

type bootstrapRequest struct {
	Token        string `json:"token"`
	Organization string `json:"organization"`
	Username     string `json:"username"`
	Password     string `json:"password"`
}

// HandleBootstrap performs first-run setup. It works exactly once, while no
// users exist, and requires the pre-shared bootstrap token.
func (h *BootstrapHandler) HandleBootstrap(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req bootstrapRequest
	if apiErr := httpx.DecodeJSON(r, &req); apiErr != nil {
		apiErr.Write(w)
		return
	}

	var v httpx.Violations
	if req.Token == "" {
		v.Add("token", "must not be empty")
	}
	if req.Organization == "" {
		v.Add("organization", "must not be empty")
	}
	if req.Username == "" {
		v.Add("username", "must not be empty")
	}
	if req.Password == "" {
		v.Add("password", "must not be empty")
	}
	if apiErr := v.Err(); apiErr != nil {
		apiErr.Write(w)
		return
	}

	user, err := h.BootstrapService.Bootstrap(ctx, req.Token, req.Organization, req.Username, req.Password)
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusCreated, toUserResponse(user, req.Organization))
}
