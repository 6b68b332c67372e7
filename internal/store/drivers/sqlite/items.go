package sqlite

import (
	"context"
	"strings"
	"time"

	"github.com/invertar/invertar/internal/domain"
	"github.com/invertar/invertar/internal/store"
)

type itemsRepo struct {
	q querier
}

const itemColumns = `id, organization_id, shelf_id, name, quantity, unit, price_cents, cost_cents, identity_hash, created_at, updated_at`

func (r *itemsRepo) CreateItem(ctx context.Context, it domain.Item) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO items (`+itemColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		it.ID, it.OrganizationID, it.ShelfID, it.Name,
		it.Quantity, it.Unit, it.PriceCents, it.CostCents,
		it.IdentityHash, it.CreatedAt, it.UpdatedAt,
	)
	return mapConflict(err)
}

func (r *itemsRepo) GetItemByID(ctx context.Context, id string) (domain.Item, error) {
	row := r.q.QueryRowContext(ctx, `
		SELECT `+itemColumns+`
		FROM items
		WHERE id = ?`, id,
	)
	it, err := scanItem(row)
	if err != nil {
		return domain.Item{}, err
	}
	labels, err := (&labelsRepo{q: r.q}).ListLabelsByItem(ctx, it.ID)
	if err != nil {
		return domain.Item{}, err
	}
	it.Labels = labels
	return it, nil
}

func (r *itemsRepo) UpdateItem(ctx context.Context, it domain.Item) error {
	res, err := r.q.ExecContext(ctx, `
		UPDATE items
		SET shelf_id = ?, name = ?, quantity = ?, unit = ?,
		    price_cents = ?, cost_cents = ?, identity_hash = ?, updated_at = ?
		WHERE id = ?`,
		it.ShelfID, it.Name, it.Quantity, it.Unit,
		it.PriceCents, it.CostCents, it.IdentityHash, time.Now().UTC(),
		it.ID,
	)
	if err != nil {
		return mapConflict(err)
	}
	return requireRowsAffected(res)
}

func (r *itemsRepo) DeleteItem(ctx context.Context, itemID string) error {
	res, err := r.q.ExecContext(ctx, `DELETE FROM items WHERE id = ?`, itemID)
	if err != nil {
		return err
	}
	return requireRowsAffected(res)
}

func (r *itemsRepo) SearchItems(ctx context.Context, p store.SearchItemsParams) ([]domain.Item, int, error) {
	var (
		where []string
		args  []any
	)
	where = append(where, "i.organization_id = ?")
	args = append(args, p.OrganizationID)

	if q := strings.TrimSpace(p.Query); q != "" {
		where = append(where, "i.name LIKE ? ESCAPE '\\'")
		args = append(args, "%"+escapeLike(q)+"%")
	}
	if p.ShelfID != "" {
		where = append(where, "i.shelf_id = ?")
		args = append(args, p.ShelfID)
	}
	if p.LabelID != "" {
		where = append(where, "EXISTS (SELECT 1 FROM item_labels il WHERE il.item_id = i.id AND il.label_id = ?)")
		args = append(args, p.LabelID)
	}

	cond := strings.Join(where, " AND ")

	var total int
	if err := r.q.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM items i WHERE `+cond, args...,
	).Scan(&total); err != nil {
		return nil, 0, err
	}

	pageArgs := append(append([]any{}, args...), p.Limit, p.Offset)
	rows, err := r.q.QueryContext(ctx, `
		SELECT i.id, i.organization_id, i.shelf_id, i.name, i.quantity, i.unit,
		       i.price_cents, i.cost_cents, i.identity_hash, i.created_at, i.updated_at
		FROM items i
		WHERE `+cond+`
		ORDER BY i.name
		LIMIT ? OFFSET ?`,
		pageArgs...,
	)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []domain.Item
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	labels := &labelsRepo{q: r.q}
	for idx := range items {
		ls, err := labels.ListLabelsByItem(ctx, items[idx].ID)
		if err != nil {
			return nil, 0, err
		}
		items[idx].Labels = ls
	}
	return items, total, nil
}

func (r *itemsRepo) SetItemLabels(ctx context.Context, itemID string, labelIDs []string) error {
	if _, err := r.q.ExecContext(ctx, `DELETE FROM item_labels WHERE item_id = ?`, itemID); err != nil {
		return err
	}
	for _, labelID := range labelIDs {
		if _, err := r.q.ExecContext(ctx, `
			INSERT INTO item_labels (item_id, label_id) VALUES (?, ?)`,
			itemID, labelID,
		); err != nil {
			return mapConflict(err)
		}
	}
	return nil
}

// escapeLike neutralises LIKE wildcards in user input. SQLite's LIKE is
// already case-insensitive for ASCII, which matches the search semantics.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}

func scanItem(row rowScanner) (domain.Item, error) {
	var it domain.Item
	err := row.Scan(
		&it.ID, &it.OrganizationID, &it.ShelfID, &it.Name,
		&it.Quantity, &it.Unit, &it.PriceCents, &it.CostCents,
		&it.IdentityHash, &it.CreatedAt, &it.UpdatedAt,
	)
	if err != nil {
		return domain.Item{}, mapNotFound(err)
	}
	return it, nil
}
