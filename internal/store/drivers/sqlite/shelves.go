package sqlite

import (
	"context"
	"time"

	"github.com/invertar/invertar/internal/domain"
)

type shelvesRepo struct {
	q querier
}

func (r *shelvesRepo) CreateShelf(ctx context.Context, s domain.Shelf) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO shelves (id, organization_id, name, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)`,
		s.ID, s.OrganizationID, s.Name, s.CreatedAt, s.UpdatedAt,
	)
	return mapConflict(err)
}

func (r *shelvesRepo) GetShelfByID(ctx context.Context, id string) (domain.Shelf, error) {
	row := r.q.QueryRowContext(ctx, `
		SELECT id, organization_id, name, created_at, updated_at
		FROM shelves
		WHERE id = ?`, id,
	)
	var s domain.Shelf
	if err := row.Scan(&s.ID, &s.OrganizationID, &s.Name, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return domain.Shelf{}, mapNotFound(err)
	}
	return s, nil
}

func (r *shelvesRepo) ListShelvesByOrganization(ctx context.Context, organizationID string) ([]domain.Shelf, error) {
	rows, err := r.q.QueryContext(ctx, `
		SELECT id, organization_id, name, created_at, updated_at
		FROM shelves
		WHERE organization_id = ?
		ORDER BY name`,
		organizationID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Shelf
	for rows.Next() {
		var s domain.Shelf
		if err := rows.Scan(&s.ID, &s.OrganizationID, &s.Name, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *shelvesRepo) RenameShelf(ctx context.Context, shelfID, name string) error {
	res, err := r.q.ExecContext(ctx, `
		UPDATE shelves
		SET name = ?, updated_at = ?
		WHERE id = ?`,
		name, time.Now().UTC(), shelfID,
	)
	if err != nil {
		return mapConflict(err)
	}
	return requireRowsAffected(res)
}

func (r *shelvesRepo) DeleteShelf(ctx context.Context, shelfID string) error {
	res, err := r.q.ExecContext(ctx, `DELETE FROM shelves WHERE id = ?`, shelfID)
	if err != nil {
		return err
	}
	return requireRowsAffected(res)
}
