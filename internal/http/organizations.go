package http

import (
	"net/http"
	"time"

	"github.com/invertar/invertar/internal/domain"
	"github.com/invertar/invertar/internal/service"
	"github.com/invertar/invertar/pkg/httpx"
)

type OrganizationsHandler struct {
	OrganizationService *service.OrganizationService
}

type organizationResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

func toOrganizationResponse(o domain.Organization) organizationResponse {
	return organizationResponse{ID: o.ID, Name: o.Name, CreatedAt: o.CreatedAt}
}

type createOrganizationRequest struct {
	Name string `json:"name"`
}

func (h *OrganizationsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req createOrganizationRequest
	if apiErr := httpx.DecodeJSON(r, &req); apiErr != nil {
		apiErr.Write(w)
		return
	}

	org, err := h.OrganizationService.CreateOrganization(ctx, req.Name)
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, toOrganizationResponse(org))
}

func (h *OrganizationsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	orgs, err := h.OrganizationService.ListOrganizations(ctx)
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}

	out := make([]organizationResponse, 0, len(orgs))
	for _, o := range orgs {
		out = append(out, toOrganizationResponse(o))
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}
