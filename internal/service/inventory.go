package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/invertar/invertar/internal/domain"
	"github.com/invertar/invertar/internal/store"
	"github.com/invertar/invertar/pkg/colorx"
	"github.com/invertar/invertar/pkg/idx"
	"github.com/invertar/invertar/pkg/jwtx"
	"github.com/invertar/invertar/pkg/slogx"
)

// Search page bounds. A request without a page size gets the default; larger
// requests are capped rather than rejected.
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// InventoryService manages shelves, items and labels. Every operation is
// scoped to the actor's organization; touching another organization's
// resources fails with ErrForbidden regardless of role.
type InventoryService struct {
	Store store.Store
}

// --- Shelves ---

func (s *InventoryService) CreateShelf(ctx context.Context, actor jwtx.Identity, name string) (domain.Shelf, error) {
	l := slogx.FromContext(ctx)

	name = strings.TrimSpace(name)
	if err := ValidateName("shelf name", name); err != nil {
		return domain.Shelf{}, err
	}

	now := time.Now().UTC()
	shelf := domain.Shelf{
		ID:             idx.New().String(),
		OrganizationID: actor.OrganizationID,
		Name:           name,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.Store.Shelves().CreateShelf(ctx, shelf); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.Shelf{}, ErrAlreadyExists
		}
		return domain.Shelf{}, err
	}

	l.Info("shelf created", slog.String("shelf_id", shelf.ID), slog.String("org_id", shelf.OrganizationID))
	return shelf, nil
}

func (s *InventoryService) ListShelves(ctx context.Context, actor jwtx.Identity) ([]domain.Shelf, error) {
	return s.Store.Shelves().ListShelvesByOrganization(ctx, actor.OrganizationID)
}

func (s *InventoryService) RenameShelf(ctx context.Context, actor jwtx.Identity, shelfID, name string) (domain.Shelf, error) {
	name = strings.TrimSpace(name)
	if err := ValidateName("shelf name", name); err != nil {
		return domain.Shelf{}, err
	}

	if _, err := s.getShelfScoped(ctx, actor, shelfID); err != nil {
		return domain.Shelf{}, err
	}
	if err := s.Store.Shelves().RenameShelf(ctx, shelfID, name); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.Shelf{}, ErrAlreadyExists
		}
		return domain.Shelf{}, err
	}
	return s.Store.Shelves().GetShelfByID(ctx, shelfID)
}

// DeleteShelf removes a shelf and, through the schema cascade, every item on
// it.
func (s *InventoryService) DeleteShelf(ctx context.Context, actor jwtx.Identity, shelfID string) error {
	l := slogx.FromContext(ctx)

	if _, err := s.getShelfScoped(ctx, actor, shelfID); err != nil {
		return err
	}
	if err := s.Store.Shelves().DeleteShelf(ctx, shelfID); err != nil {
		return err
	}
	l.Info("shelf deleted", slog.String("shelf_id", shelfID))
	return nil
}

func (s *InventoryService) getShelfScoped(ctx context.Context, actor jwtx.Identity, shelfID string) (domain.Shelf, error) {
	shelf, err := s.Store.Shelves().GetShelfByID(ctx, shelfID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Shelf{}, ErrNotFound
		}
		return domain.Shelf{}, err
	}
	if shelf.OrganizationID != actor.OrganizationID {
		return domain.Shelf{}, ErrForbidden
	}
	return shelf, nil
}

// --- Items ---

type ItemParams struct {
	ShelfID    string
	Name       string
	Quantity   int64
	Unit       string
	PriceCents int64
	CostCents  int64
	LabelIDs   []string
}

func (s *InventoryService) CreateItem(ctx context.Context, actor jwtx.Identity, p ItemParams) (domain.Item, error) {
	l := slogx.FromContext(ctx)

	p.Name = strings.TrimSpace(p.Name)
	if err := validateItemParams(p); err != nil {
		return domain.Item{}, err
	}
	if _, err := s.getShelfScoped(ctx, actor, p.ShelfID); err != nil {
		return domain.Item{}, err
	}

	now := time.Now().UTC()
	item := domain.Item{
		ID:             idx.New().String(),
		OrganizationID: actor.OrganizationID,
		ShelfID:        p.ShelfID,
		Name:           p.Name,
		Quantity:       p.Quantity,
		Unit:           p.Unit,
		PriceCents:     p.PriceCents,
		CostCents:      p.CostCents,
		IdentityHash:   domain.ItemIdentityHash(actor.OrganizationID, p.ShelfID, p.Name),
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := s.checkLabelsScoped(ctx, tx, actor, p.LabelIDs); err != nil {
			return err
		}
		if err := tx.Items().CreateItem(ctx, item); err != nil {
			if errors.Is(err, store.ErrAlreadyExists) {
				return ErrAlreadyExists
			}
			return err
		}
		return tx.Items().SetItemLabels(ctx, item.ID, p.LabelIDs)
	})
	if err != nil {
		return domain.Item{}, err
	}

	l.Info("item created", slog.String("item_id", item.ID), slog.String("shelf_id", item.ShelfID))
	return s.GetItem(ctx, actor, item.ID)
}

func (s *InventoryService) GetItem(ctx context.Context, actor jwtx.Identity, itemID string) (domain.Item, error) {
	item, err := s.Store.Items().GetItemByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Item{}, ErrNotFound
		}
		return domain.Item{}, err
	}
	if item.OrganizationID != actor.OrganizationID {
		return domain.Item{}, ErrForbidden
	}
	return item, nil
}

func (s *InventoryService) UpdateItem(ctx context.Context, actor jwtx.Identity, itemID string, p ItemParams) (domain.Item, error) {
	p.Name = strings.TrimSpace(p.Name)
	if err := validateItemParams(p); err != nil {
		return domain.Item{}, err
	}

	existing, err := s.GetItem(ctx, actor, itemID)
	if err != nil {
		return domain.Item{}, err
	}
	if _, err := s.getShelfScoped(ctx, actor, p.ShelfID); err != nil {
		return domain.Item{}, err
	}

	updated := existing
	updated.ShelfID = p.ShelfID
	updated.Name = p.Name
	updated.Quantity = p.Quantity
	updated.Unit = p.Unit
	updated.PriceCents = p.PriceCents
	updated.CostCents = p.CostCents
	updated.IdentityHash = domain.ItemIdentityHash(actor.OrganizationID, p.ShelfID, p.Name)

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := s.checkLabelsScoped(ctx, tx, actor, p.LabelIDs); err != nil {
			return err
		}
		if err := tx.Items().UpdateItem(ctx, updated); err != nil {
			if errors.Is(err, store.ErrAlreadyExists) {
				return ErrAlreadyExists
			}
			return err
		}
		return tx.Items().SetItemLabels(ctx, itemID, p.LabelIDs)
	})
	if err != nil {
		return domain.Item{}, err
	}
	return s.GetItem(ctx, actor, itemID)
}

func (s *InventoryService) DeleteItem(ctx context.Context, actor jwtx.Identity, itemID string) error {
	l := slogx.FromContext(ctx)

	if _, err := s.GetItem(ctx, actor, itemID); err != nil {
		return err
	}
	if err := s.Store.Items().DeleteItem(ctx, itemID); err != nil {
		return err
	}
	l.Info("item deleted", slog.String("item_id", itemID))
	return nil
}

// ItemPage is one page of search results plus the overall match count.
type ItemPage struct {
	Items    []domain.Item
	Total    int
	Page     int
	PageSize int
}

type SearchParams struct {
	Query    string
	ShelfID  string
	LabelID  string
	Page     int
	PageSize int
}

// SearchItems pages through the actor's organization's items. Page numbers
// start at 1 and the page size is clamped to [1, MaxPageSize], defaulting to
// DefaultPageSize when unset.
func (s *InventoryService) SearchItems(ctx context.Context, actor jwtx.Identity, p SearchParams) (ItemPage, error) {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize <= 0 {
		p.PageSize = DefaultPageSize
	}
	if p.PageSize > MaxPageSize {
		p.PageSize = MaxPageSize
	}

	items, total, err := s.Store.Items().SearchItems(ctx, store.SearchItemsParams{
		OrganizationID: actor.OrganizationID,
		Query:          p.Query,
		ShelfID:        p.ShelfID,
		LabelID:        p.LabelID,
		Limit:          p.PageSize,
		Offset:         (p.Page - 1) * p.PageSize,
	})
	if err != nil {
		return ItemPage{}, err
	}
	return ItemPage{Items: items, Total: total, Page: p.Page, PageSize: p.PageSize}, nil
}

func validateItemParams(p ItemParams) error {
	if err := ValidateName("item name", p.Name); err != nil {
		return err
	}
	if p.ShelfID == "" {
		return validationError("shelfId", "must not be empty")
	}
	if p.Quantity < 0 {
		return validationError("quantity", "must not be negative")
	}
	if p.PriceCents < 0 {
		return validationError("price", "must not be negative")
	}
	if p.CostCents < 0 {
		return validationError("cost", "must not be negative")
	}
	return nil
}

// checkLabelsScoped verifies every referenced label exists and belongs to the
// actor's organization before it is attached.
func (s *InventoryService) checkLabelsScoped(ctx context.Context, tx store.Tx, actor jwtx.Identity, labelIDs []string) error {
	for _, id := range labelIDs {
		label, err := tx.Labels().GetLabelByID(ctx, id)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrNotFound
			}
			return err
		}
		if label.OrganizationID != actor.OrganizationID {
			return ErrForbidden
		}
	}
	return nil
}

// --- Labels ---

// CreateLabel stores a label with its text colour derived from the
// background so chips stay readable.
func (s *InventoryService) CreateLabel(ctx context.Context, actor jwtx.Identity, name, color string) (domain.Label, error) {
	l := slogx.FromContext(ctx)

	name = strings.TrimSpace(name)
	if err := ValidateName("label name", name); err != nil {
		return domain.Label{}, err
	}
	normalized, textColor, err := labelColors(color)
	if err != nil {
		return domain.Label{}, err
	}

	now := time.Now().UTC()
	label := domain.Label{
		ID:             idx.New().String(),
		OrganizationID: actor.OrganizationID,
		Name:           name,
		Color:          normalized,
		TextColor:      textColor,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.Store.Labels().CreateLabel(ctx, label); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.Label{}, ErrAlreadyExists
		}
		return domain.Label{}, err
	}

	l.Info("label created", slog.String("label_id", label.ID))
	return label, nil
}

func (s *InventoryService) ListLabels(ctx context.Context, actor jwtx.Identity) ([]domain.Label, error) {
	return s.Store.Labels().ListLabelsByOrganization(ctx, actor.OrganizationID)
}

func (s *InventoryService) UpdateLabel(ctx context.Context, actor jwtx.Identity, labelID, name, color string) (domain.Label, error) {
	name = strings.TrimSpace(name)
	if err := ValidateName("label name", name); err != nil {
		return domain.Label{}, err
	}
	normalized, textColor, err := labelColors(color)
	if err != nil {
		return domain.Label{}, err
	}

	label, err := s.getLabelScoped(ctx, actor, labelID)
	if err != nil {
		return domain.Label{}, err
	}

	label.Name = name
	label.Color = normalized
	label.TextColor = textColor
	if err := s.Store.Labels().UpdateLabel(ctx, label); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.Label{}, ErrAlreadyExists
		}
		return domain.Label{}, err
	}
	return s.Store.Labels().GetLabelByID(ctx, labelID)
}

func (s *InventoryService) DeleteLabel(ctx context.Context, actor jwtx.Identity, labelID string) error {
	if _, err := s.getLabelScoped(ctx, actor, labelID); err != nil {
		return err
	}
	return s.Store.Labels().DeleteLabel(ctx, labelID)
}

// labelColors normalises a user-supplied background color and derives the
// readable text color for it.
func labelColors(color string) (normalized, textColor string, err error) {
	normalized, err = colorx.Normalize(color)
	if err != nil {
		return "", "", validationError("color", "must be a hex color like #RRGGBB")
	}
	textColor, err = colorx.ContrastText(normalized)
	if err != nil {
		return "", "", validationError("color", "must be a hex color like #RRGGBB")
	}
	return normalized, textColor, nil
}

func (s *InventoryService) getLabelScoped(ctx context.Context, actor jwtx.Identity, labelID string) (domain.Label, error) {
	label, err := s.Store.Labels().GetLabelByID(ctx, labelID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Label{}, ErrNotFound
		}
		return domain.Label{}, err
	}
	if label.OrganizationID != actor.OrganizationID {
		return domain.Label{}, ErrForbidden
	}
	return label, nil
}
