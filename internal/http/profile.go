package http

import (
	"net/http"
	"time"

	"github.com/invertar/invertar/internal/domain"
	"github.com/invertar/invertar/internal/store"
	"github.com/invertar/invertar/pkg/httpx"
	"github.com/invertar/invertar/pkg/slogx"
)

type ProfileHandler struct {
	Store store.Store
}

type userResponse struct {
	ID               string     `json:"id"`
	OrganizationID   string     `json:"organizationId"`
	OrganizationName string     `json:"organizationName,omitempty"`
	Username         string     `json:"username"`
	Role             string     `json:"role"`
	AwaitingPassword bool       `json:"awaitingPassword"`
	AccessCodeExp    *time.Time `json:"accessCodeExpiresAt,omitempty"`
	CreatedAt        time.Time  `json:"createdAt"`
}

func toUserResponse(u domain.User, orgName string) userResponse {
	return userResponse{
		ID:               u.ID,
		OrganizationID:   u.OrganizationID,
		OrganizationName: orgName,
		Username:         u.Username,
		Role:             string(u.Role),
		AwaitingPassword: u.AwaitingPassword(),
		AccessCodeExp:    u.AccessCodeExp,
		CreatedAt:        u.CreatedAt,
	}
}

// HandleGetCurrentUser returns the authenticated account with its
// organization name, which the client shows in the header.
func (h *ProfileHandler) HandleGetCurrentUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	identity, ok := httpx.IdentityFromContext(ctx)
	if !ok {
		httpx.Unauthorized("missing or invalid access token").Write(w)
		return
	}

	user, err := h.Store.Users().GetUserByID(ctx, identity.UserID)
	if err != nil {
		log.Warn("failed to load current user", "user_id", identity.UserID, "err", err)
		httpx.Unauthorized("account no longer exists").Write(w)
		return
	}

	org, err := h.Store.Organizations().GetOrganizationByID(ctx, user.OrganizationID)
	if err != nil {
		log.Error("failed to load organization", "org_id", user.OrganizationID, "err", err)
		httpx.Internal().Write(w)
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, toUserResponse(user, org.Name))
}
