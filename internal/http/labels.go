package http

import (
	"net/http"

	"github.com/invertar/invertar/internal/domain"
	"github.com/invertar/invertar/internal/service"
	"github.com/invertar/invertar/pkg/httpx"
)

type LabelsHandler struct {
	InventoryService *service.InventoryService
}

type labelResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Color     string `json:"color"`
	TextColor string `json:"textColor"`
}

func toLabelResponse(l domain.Label) labelResponse {
	return labelResponse{ID: l.ID, Name: l.Name, Color: l.Color, TextColor: l.TextColor}
}

type labelRequest struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

func (h *LabelsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity, ok := httpx.IdentityFromContext(ctx)
	if !ok {
		httpx.Unauthorized("missing or invalid access token").Write(w)
		return
	}

	var req labelRequest
	if apiErr := httpx.DecodeJSON(r, &req); apiErr != nil {
		apiErr.Write(w)
		return
	}

	label, err := h.InventoryService.CreateLabel(ctx, identity, req.Name, req.Color)
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, toLabelResponse(label))
}

func (h *LabelsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity, ok := httpx.IdentityFromContext(ctx)
	if !ok {
		httpx.Unauthorized("missing or invalid access token").Write(w)
		return
	}

	labels, err := h.InventoryService.ListLabels(ctx, identity)
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}

	out := make([]labelResponse, 0, len(labels))
	for _, l := range labels {
		out = append(out, toLabelResponse(l))
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

func (h *LabelsHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity, ok := httpx.IdentityFromContext(ctx)
	if !ok {
		httpx.Unauthorized("missing or invalid access token").Write(w)
		return
	}

	var req labelRequest
	if apiErr := httpx.DecodeJSON(r, &req); apiErr != nil {
		apiErr.Write(w)
		return
	}

	label, err := h.InventoryService.UpdateLabel(ctx, identity, r.PathValue("id"), req.Name, req.Color)
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toLabelResponse(label))
}

func (h *LabelsHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity, ok := httpx.IdentityFromContext(ctx)
	if !ok {
		httpx.Unauthorized("missing or invalid access token").Write(w)
		return
	}

	if err := h.InventoryService.DeleteLabel(ctx, identity, r.PathValue("id")); err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
