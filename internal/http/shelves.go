package http

import (
	"net/http"
	"time"

	"github.com/invertar/invertar/internal/domain"
	"github.com/invertar/invertar/internal/service"
	"github.com/invertar/invertar/pkg/httpx"
)

type ShelvesHandler struct {
	InventoryService *service.InventoryService
}

type shelfResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

func toShelfResponse(s domain.Shelf) shelfResponse {
	return shelfResponse{ID: s.ID, Name: s.Name, CreatedAt: s.CreatedAt}
}

type shelfRequest struct {
	Name string `json:"name"`
}

func (h *ShelvesHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity, ok := httpx.IdentityFromContext(ctx)
	if !ok {
		httpx.Unauthorized("missing or invalid access token").Write(w)
		return
	}

	var req shelfRequest
	if apiErr := httpx.DecodeJSON(r, &req); apiErr != nil {
		apiErr.Write(w)
		return
	}

	shelf, err := h.InventoryService.CreateShelf(ctx, identity, req.Name)
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, toShelfResponse(shelf))
}

func (h *ShelvesHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity, ok := httpx.IdentityFromContext(ctx)
	if !ok {
		httpx.Unauthorized("missing or invalid access token").Write(w)
		return
	}

	shelves, err := h.InventoryService.ListShelves(ctx, identity)
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}

	out := make([]shelfResponse, 0, len(shelves))
	for _, s := range shelves {
		out = append(out, toShelfResponse(s))
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

func (h *ShelvesHandler) HandleRename(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity, ok := httpx.IdentityFromContext(ctx)
	if !ok {
		httpx.Unauthorized("missing or invalid access token").Write(w)
		return
	}

	var req shelfRequest
	if apiErr := httpx.DecodeJSON(r, &req); apiErr != nil {
		apiErr.Write(w)
		return
	}

	shelf, err := h.InventoryService.RenameShelf(ctx, identity, r.PathValue("id"), req.Name)
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toShelfResponse(shelf))
}

func (h *ShelvesHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity, ok := httpx.IdentityFromContext(ctx)
	if !ok {
		httpx.Unauthorized("missing or invalid access token").Write(w)
		return
	}

	if err := h.InventoryService.DeleteShelf(ctx, identity, r.PathValue("id")); err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
