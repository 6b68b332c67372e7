package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/invertar/invertar/internal/domain"
	"github.com/invertar/invertar/internal/service"
	"github.com/invertar/invertar/pkg/httpx"
)

type ItemsHandler struct {
	InventoryService *service.InventoryService
}

type itemResponse struct {
	ID         string          `json:"id"`
	ShelfID    string          `json:"shelfId"`
	Name       string          `json:"name"`
	Quantity   int64           `json:"quantity"`
	Unit       string          `json:"unit"`
	PriceCents int64           `json:"priceCents"`
	CostCents  int64           `json:"costCents"`
	Labels     []labelResponse `json:"labels"`
	CreatedAt  time.Time       `json:"createdAt"`
	UpdatedAt  time.Time       `json:"updatedAt"`
}

func toItemResponse(it domain.Item) itemResponse {
	labels := make([]labelResponse, 0, len(it.Labels))
	for _, l := range it.Labels {
		labels = append(labels, toLabelResponse(l))
	}
	return itemResponse{
		ID:         it.ID,
		ShelfID:    it.ShelfID,
		Name:       it.Name,
		Quantity:   it.Quantity,
		Unit:       it.Unit,
		PriceCents: it.PriceCents,
		CostCents:  it.CostCents,
		Labels:     labels,
		CreatedAt:  it.CreatedAt,
		UpdatedAt:  it.UpdatedAt,
	}
}

type itemRequest struct {
	ShelfID    string   `json:"shelfId"`
	Name       string   `json:"name"`
	Quantity   int64    `json:"quantity"`
	Unit       string   `json:"unit"`
	PriceCents int64    `json:"priceCents"`
	CostCents  int64    `json:"costCents"`
	LabelIDs   []string `json:"labelIds"`
}

func (req itemRequest) params() service.ItemParams {
	return service.ItemParams{
		ShelfID:    req.ShelfID,
		Name:       req.Name,
		Quantity:   req.Quantity,
		Unit:       req.Unit,
		PriceCents: req.PriceCents,
		CostCents:  req.CostCents,
		LabelIDs:   req.LabelIDs,
	}
}

func (h *ItemsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity, ok := httpx.IdentityFromContext(ctx)
	if !ok {
		httpx.Unauthorized("missing or invalid access token").Write(w)
		return
	}

	var req itemRequest
	if apiErr := httpx.DecodeJSON(r, &req); apiErr != nil {
		apiErr.Write(w)
		return
	}

	item, err := h.InventoryService.CreateItem(ctx, identity, req.params())
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, toItemResponse(item))
}

func (h *ItemsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity, ok := httpx.IdentityFromContext(ctx)
	if !ok {
		httpx.Unauthorized("missing or invalid access token").Write(w)
		return
	}

	item, err := h.InventoryService.GetItem(ctx, identity, r.PathValue("id"))
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toItemResponse(item))
}

func (h *ItemsHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity, ok := httpx.IdentityFromContext(ctx)
	if !ok {
		httpx.Unauthorized("missing or invalid access token").Write(w)
		return
	}

	var req itemRequest
	if apiErr := httpx.DecodeJSON(r, &req); apiErr != nil {
		apiErr.Write(w)
		return
	}

	item, err := h.InventoryService.UpdateItem(ctx, identity, r.PathValue("id"), req.params())
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toItemResponse(item))
}

func (h *ItemsHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity, ok := httpx.IdentityFromContext(ctx)
	if !ok {
		httpx.Unauthorized("missing or invalid access token").Write(w)
		return
	}

	if err := h.InventoryService.DeleteItem(ctx, identity, r.PathValue("id")); err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type itemPageResponse struct {
	Items   []itemResponse `json:"items"`
	Total   int            `json:"total"`
	Page    int            `json:"page"`
	PerPage int            `json:"perPage"`
}

// HandleSearch filters the organization's items by name substring, shelf and
// label, returning one page plus the overall match count.
func (h *ItemsHandler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity, ok := httpx.IdentityFromContext(ctx)
	if !ok {
		httpx.Unauthorized("missing or invalid access token").Write(w)
		return
	}

	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	perPage, _ := strconv.Atoi(q.Get("perPage"))

	result, err := h.InventoryService.SearchItems(ctx, identity, service.SearchParams{
		Query:    q.Get("query"),
		ShelfID:  q.Get("shelfId"),
		LabelID:  q.Get("labelId"),
		Page:     page,
		PageSize: perPage,
	})
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}

	items := make([]itemResponse, 0, len(result.Items))
	for _, it := range result.Items {
		items = append(items, toItemResponse(it))
	}
	httpx.WriteJSON(w, http.StatusOK, itemPageResponse{
		Items:   items,
		Total:   result.Total,
		Page:    result.Page,
		PerPage: result.PageSize,
	})
}
