package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/invertar/invertar/internal/domain"
)

type labelsRepo struct {
	q querier
}

const labelColumns = `id, organization_id, name, color, text_color, created_at, updated_at`

func (r *labelsRepo) CreateLabel(ctx context.Context, l domain.Label) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO labels (`+labelColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		l.ID, l.OrganizationID, l.Name, l.Color, l.TextColor,
		l.CreatedAt, l.UpdatedAt,
	)
	return mapConflict(err)
}

func (r *labelsRepo) GetLabelByID(ctx context.Context, id string) (domain.Label, error) {
	row := r.q.QueryRowContext(ctx, `
		SELECT `+labelColumns+`
		FROM labels
		WHERE id = ?`, id,
	)
	return scanLabel(row)
}

func (r *labelsRepo) ListLabelsByOrganization(ctx context.Context, organizationID string) ([]domain.Label, error) {
	rows, err := r.q.QueryContext(ctx, `
		SELECT `+labelColumns+`
		FROM labels
		WHERE organization_id = ?
		ORDER BY name`,
		organizationID,
	)
	if err != nil {
		return nil, err
	}
	return scanLabels(rows)
}

func (r *labelsRepo) UpdateLabel(ctx context.Context, l domain.Label) error {
	res, err := r.q.ExecContext(ctx, `
		UPDATE labels
		SET name = ?, color = ?, text_color = ?, updated_at = ?
		WHERE id = ?`,
		l.Name, l.Color, l.TextColor, time.Now().UTC(), l.ID,
	)
	if err != nil {
		return mapConflict(err)
	}
	return requireRowsAffected(res)
}

func (r *labelsRepo) DeleteLabel(ctx context.Context, labelID string) error {
	res, err := r.q.ExecContext(ctx, `DELETE FROM labels WHERE id = ?`, labelID)
	if err != nil {
		return err
	}
	return requireRowsAffected(res)
}

func (r *labelsRepo) ListLabelsByItem(ctx context.Context, itemID string) ([]domain.Label, error) {
	rows, err := r.q.QueryContext(ctx, `
		SELECT l.id, l.organization_id, l.name, l.color, l.text_color, l.created_at, l.updated_at
		FROM labels l
		JOIN item_labels il ON il.label_id = l.id
		WHERE il.item_id = ?
		ORDER BY l.name`,
		itemID,
	)
	if err != nil {
		return nil, err
	}
	return scanLabels(rows)
}

func scanLabel(row rowScanner) (domain.Label, error) {
	var l domain.Label
	err := row.Scan(&l.ID, &l.OrganizationID, &l.Name, &l.Color, &l.TextColor, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		return domain.Label{}, mapNotFound(err)
	}
	return l, nil
}

func scanLabels(rows *sql.Rows) ([]domain.Label, error) {
	defer rows.Close()

	var out []domain.Label
	for rows.Next() {
		l, err := scanLabel(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}
