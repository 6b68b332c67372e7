package service_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/invertar/invertar/internal/domain"
	"github.com/invertar/invertar/internal/service"
)

func TestShelves(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	inv := &service.InventoryService{Store: st}

	org := seedOrg(t, st, "Acme")
	actor := identityFor(seedUserWithPassword(t, st, org.ID, "worker", domain.RoleUser, "password123"))

	shelf, err := inv.CreateShelf(context.Background(), actor, "  Cold Storage  ")
	require.NoError(t, err)
	require.Equal(t, "Cold Storage", shelf.Name, "names are trimmed")
	require.Equal(t, org.ID, shelf.OrganizationID)

	t.Run("duplicate name", func(t *testing.T) {
		_, err := inv.CreateShelf(context.Background(), actor, "Cold Storage")
		require.ErrorIs(t, err, service.ErrAlreadyExists)
	})

	t.Run("rename", func(t *testing.T) {
		renamed, err := inv.RenameShelf(context.Background(), actor, shelf.ID, "Freezer")
		require.NoError(t, err)
		require.Equal(t, "Freezer", renamed.Name)
	})

	t.Run("list", func(t *testing.T) {
		shelves, err := inv.ListShelves(context.Background(), actor)
		require.NoError(t, err)
		require.Len(t, shelves, 1)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, inv.DeleteShelf(context.Background(), actor, shelf.ID))
		shelves, err := inv.ListShelves(context.Background(), actor)
		require.NoError(t, err)
		require.Empty(t, shelves)
	})
}

func TestShelfCrossOrganization(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	inv := &service.InventoryService{Store: st}

	acme := seedOrg(t, st, "Acme")
	globex := seedOrg(t, st, "Globex")
	outsider := identityFor(seedUserWithPassword(t, st, globex.ID, "outsider", domain.RoleUser, "password123"))
	shelf := seedShelf(t, st, acme.ID, "Acme Shelf")

	_, err := inv.RenameShelf(context.Background(), outsider, shelf.ID, "Hijacked")
	require.ErrorIs(t, err, service.ErrForbidden)

	err = inv.DeleteShelf(context.Background(), outsider, shelf.ID)
	require.ErrorIs(t, err, service.ErrForbidden)

	shelves, err := inv.ListShelves(context.Background(), outsider)
	require.NoError(t, err)
	require.Empty(t, shelves, "listing never crosses the organization boundary")
}

func TestItems(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	inv := &service.InventoryService{Store: st}

	org := seedOrg(t, st, "Acme")
	actor := identityFor(seedUserWithPassword(t, st, org.ID, "worker", domain.RoleUser, "password123"))
	shelf := seedShelf(t, st, org.ID, "Pantry")

	label, err := inv.CreateLabel(context.Background(), actor, "Perishable", "#FF0000")
	require.NoError(t, err)

	item, err := inv.CreateItem(context.Background(), actor, service.ItemParams{
		ShelfID:    shelf.ID,
		Name:       "Olive Oil",
		Quantity:   4,
		Unit:       "bottle",
		PriceCents: 1299,
		CostCents:  850,
		LabelIDs:   []string{label.ID},
	})
	require.NoError(t, err)
	require.Equal(t, "Olive Oil", item.Name)
	require.Equal(t, int64(1299), item.PriceCents)
	require.Len(t, item.Labels, 1)
	require.Equal(t, "Perishable", item.Labels[0].Name)

	t.Run("same name differing only in case collides", func(t *testing.T) {
		_, err := inv.CreateItem(context.Background(), actor, service.ItemParams{
			ShelfID: shelf.ID, Name: "  OLIVE OIL ", Quantity: 1,
		})
		require.ErrorIs(t, err, service.ErrAlreadyExists)
	})

	t.Run("same name on another shelf is fine", func(t *testing.T) {
		other := seedShelf(t, st, org.ID, "Backroom")
		_, err := inv.CreateItem(context.Background(), actor, service.ItemParams{
			ShelfID: other.ID, Name: "Olive Oil", Quantity: 2,
		})
		require.NoError(t, err)
	})

	t.Run("update", func(t *testing.T) {
		updated, err := inv.UpdateItem(context.Background(), actor, item.ID, service.ItemParams{
			ShelfID:    shelf.ID,
			Name:       "Olive Oil (Extra Virgin)",
			Quantity:   3,
			Unit:       "bottle",
			PriceCents: 1499,
			CostCents:  900,
		})
		require.NoError(t, err)
		require.Equal(t, "Olive Oil (Extra Virgin)", updated.Name)
		require.Equal(t, int64(3), updated.Quantity)
		require.Empty(t, updated.Labels, "update replaces the label set")
	})

	t.Run("negative quantity", func(t *testing.T) {
		_, err := inv.CreateItem(context.Background(), actor, service.ItemParams{
			ShelfID: shelf.ID, Name: "Bad", Quantity: -1,
		})
		require.ErrorIs(t, err, service.ErrValidation)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, inv.DeleteItem(context.Background(), actor, item.ID))
		_, err := inv.GetItem(context.Background(), actor, item.ID)
		require.ErrorIs(t, err, service.ErrNotFound)
	})
}

func TestItemCrossOrganization(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	inv := &service.InventoryService{Store: st}

	acme := seedOrg(t, st, "Acme")
	globex := seedOrg(t, st, "Globex")
	owner := identityFor(seedUserWithPassword(t, st, acme.ID, "owner", domain.RoleUser, "password123"))
	outsider := identityFor(seedUserWithPassword(t, st, globex.ID, "outsider", domain.RoleUser, "password123"))

	shelf := seedShelf(t, st, acme.ID, "Pantry")
	item, err := inv.CreateItem(context.Background(), owner, service.ItemParams{
		ShelfID: shelf.ID, Name: "Olive Oil", Quantity: 1,
	})
	require.NoError(t, err)

	_, err = inv.GetItem(context.Background(), outsider, item.ID)
	require.ErrorIs(t, err, service.ErrForbidden)

	err = inv.DeleteItem(context.Background(), outsider, item.ID)
	require.ErrorIs(t, err, service.ErrForbidden)

	t.Run("foreign label cannot be attached", func(t *testing.T) {
		foreign, err := inv.CreateLabel(context.Background(), outsider, "Foreign", "#00FF00")
		require.NoError(t, err)

		_, err = inv.CreateItem(context.Background(), owner, service.ItemParams{
			ShelfID: shelf.ID, Name: "Vinegar", Quantity: 1, LabelIDs: []string{foreign.ID},
		})
		require.ErrorIs(t, err, service.ErrForbidden)
	})
}

func TestSearchItems(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	inv := &service.InventoryService{Store: st}

	org := seedOrg(t, st, "Acme")
	actor := identityFor(seedUserWithPassword(t, st, org.ID, "worker", domain.RoleUser, "password123"))
	pantry := seedShelf(t, st, org.ID, "Pantry")
	freezer := seedShelf(t, st, org.ID, "Freezer")

	tagged, err := inv.CreateLabel(context.Background(), actor, "Imported", "#0000FF")
	require.NoError(t, err)

	for i := range 25 {
		_, err := inv.CreateItem(context.Background(), actor, service.ItemParams{
			ShelfID: pantry.ID, Name: fmt.Sprintf("Pantry Item %02d", i), Quantity: 1,
		})
		require.NoError(t, err)
	}
	_, err = inv.CreateItem(context.Background(), actor, service.ItemParams{
		ShelfID: freezer.ID, Name: "Frozen Peas", Quantity: 1, LabelIDs: []string{tagged.ID},
	})
	require.NoError(t, err)

	t.Run("defaults", func(t *testing.T) {
		page, err := inv.SearchItems(context.Background(), actor, service.SearchParams{})
		require.NoError(t, err)
		require.Equal(t, 26, page.Total)
		require.Equal(t, 1, page.Page)
		require.Equal(t, service.DefaultPageSize, page.PageSize)
		require.Len(t, page.Items, service.DefaultPageSize)
	})

	t.Run("second page", func(t *testing.T) {
		page, err := inv.SearchItems(context.Background(), actor, service.SearchParams{Page: 2})
		require.NoError(t, err)
		require.Equal(t, 26, page.Total)
		require.Len(t, page.Items, 6)
	})

	t.Run("page size is capped", func(t *testing.T) {
		page, err := inv.SearchItems(context.Background(), actor, service.SearchParams{PageSize: 10_000})
		require.NoError(t, err)
		require.Equal(t, service.MaxPageSize, page.PageSize)
		require.Len(t, page.Items, 26)
	})

	t.Run("query matches substrings case-insensitively", func(t *testing.T) {
		page, err := inv.SearchItems(context.Background(), actor, service.SearchParams{Query: "frozen"})
		require.NoError(t, err)
		require.Equal(t, 1, page.Total)
		require.Equal(t, "Frozen Peas", page.Items[0].Name)
	})

	t.Run("shelf filter", func(t *testing.T) {
		page, err := inv.SearchItems(context.Background(), actor, service.SearchParams{ShelfID: freezer.ID})
		require.NoError(t, err)
		require.Equal(t, 1, page.Total)
	})

	t.Run("label filter", func(t *testing.T) {
		page, err := inv.SearchItems(context.Background(), actor, service.SearchParams{LabelID: tagged.ID})
		require.NoError(t, err)
		require.Equal(t, 1, page.Total)
		require.Equal(t, "Frozen Peas", page.Items[0].Name)
	})

	t.Run("results are ordered by name", func(t *testing.T) {
		page, err := inv.SearchItems(context.Background(), actor, service.SearchParams{PageSize: 5})
		require.NoError(t, err)
		for i := 1; i < len(page.Items); i++ {
			require.LessOrEqual(t, page.Items[i-1].Name, page.Items[i].Name)
		}
	})
}

func TestLabels(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	inv := &service.InventoryService{Store: st}

	org := seedOrg(t, st, "Acme")
	actor := identityFor(seedUserWithPassword(t, st, org.ID, "worker", domain.RoleUser, "password123"))

	label, err := inv.CreateLabel(context.Background(), actor, "Fragile", "#ffee00")
	require.NoError(t, err)
	require.Equal(t, "#FFEE00", label.Color, "colors are normalized to uppercase #RRGGBB")
	require.Equal(t, "#000000", label.TextColor, "bright backgrounds get black text")

	t.Run("dark background gets white text", func(t *testing.T) {
		dark, err := inv.CreateLabel(context.Background(), actor, "Night", "#111")
		require.NoError(t, err)
		require.Equal(t, "#111111", dark.Color)
		require.Equal(t, "#FFFFFF", dark.TextColor)
	})

	t.Run("invalid color", func(t *testing.T) {
		_, err := inv.CreateLabel(context.Background(), actor, "Broken", "red")
		require.ErrorIs(t, err, service.ErrValidation)
	})

	t.Run("duplicate name", func(t *testing.T) {
		_, err := inv.CreateLabel(context.Background(), actor, "Fragile", "#00FF00")
		require.ErrorIs(t, err, service.ErrAlreadyExists)
	})

	t.Run("update rederives text color", func(t *testing.T) {
		updated, err := inv.UpdateLabel(context.Background(), actor, label.ID, "Fragile", "#222222")
		require.NoError(t, err)
		require.Equal(t, "#FFFFFF", updated.TextColor)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, inv.DeleteLabel(context.Background(), actor, label.ID))
		labels, err := inv.ListLabels(context.Background(), actor)
		require.NoError(t, err)
		require.Len(t, labels, 1) // "Night" remains
	})
}
