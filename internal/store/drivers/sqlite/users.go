package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/invertar/invertar/internal/domain"
	"github.com/invertar/invertar/internal/store"
)

type usersRepo struct {
	q querier
}

const userColumns = `id, organization_id, username, role, password_hash, access_code, access_code_exp, created_at, updated_at`

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO users (`+userColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		u.ID, u.OrganizationID, u.Username, string(u.Role),
		mapOptionalString(u.PasswordHash),
		mapOptionalString(u.AccessCode),
		mapOptionalTime(u.AccessCodeExp),
		u.CreatedAt, u.UpdatedAt,
	)
	return mapConflict(err)
}

func (r *usersRepo) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	row := r.q.QueryRowContext(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE id = ?`, id,
	)
	return scanUser(row)
}

func (r *usersRepo) GetUserByOrgAndUsername(ctx context.Context, organizationID, username string) (domain.User, error) {
	row := r.q.QueryRowContext(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE organization_id = ? AND username = ?`,
		organizationID, username,
	)
	return scanUser(row)
}

func (r *usersRepo) ListUsersByOrganization(ctx context.Context, organizationID string, role domain.Role) ([]domain.User, error) {
	rows, err := r.q.QueryContext(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE organization_id = ? AND role = ?
		ORDER BY created_at DESC`,
		organizationID, string(role),
	)
	if err != nil {
		return nil, err
	}
	return scanUsers(rows)
}

func (r *usersRepo) ListUsersByRole(ctx context.Context, role domain.Role) ([]domain.User, error) {
	rows, err := r.q.QueryContext(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE role = ?
		ORDER BY created_at DESC`,
		string(role),
	)
	if err != nil {
		return nil, err
	}
	return scanUsers(rows)
}

func (r *usersRepo) SetPassword(ctx context.Context, userID, passwordHash string) error {
	res, err := r.q.ExecContext(ctx, `
		UPDATE users
		SET password_hash = ?, access_code = NULL, access_code_exp = NULL, updated_at = ?
		WHERE id = ?`,
		passwordHash, time.Now().UTC(), userID,
	)
	if err != nil {
		return err
	}
	return requireRowsAffected(res)
}

func (r *usersRepo) SetAccessCode(ctx context.Context, userID, code string, expiresAt time.Time) error {
	res, err := r.q.ExecContext(ctx, `
		UPDATE users
		SET access_code = ?, access_code_exp = ?, password_hash = NULL, updated_at = ?
		WHERE id = ?`,
		code, expiresAt, time.Now().UTC(), userID,
	)
	if err != nil {
		return err
	}
	return requireRowsAffected(res)
}

func (r *usersRepo) DeleteUser(ctx context.Context, userID string) error {
	res, err := r.q.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, userID)
	if err != nil {
		return err
	}
	return requireRowsAffected(res)
}

func (r *usersRepo) IsEmpty(ctx context.Context) (bool, error) {
	var count int64
	if err := r.q.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&count); err != nil {
		return false, err
	}
	return count == 0, nil
}

func (r *usersRepo) ClearExpiredAccessCodes(ctx context.Context, now time.Time) error {
	_, err := r.q.ExecContext(ctx, `
		UPDATE users
		SET access_code = NULL, access_code_exp = NULL, updated_at = ?
		WHERE access_code_exp IS NOT NULL AND access_code_exp <= ?`,
		now, now,
	)
	return err
}

func requireRowsAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func scanUser(row rowScanner) (domain.User, error) {
	var (
		u       domain.User
		role    string
		hash    sql.NullString
		code    sql.NullString
		codeExp sql.NullTime
	)
	err := row.Scan(
		&u.ID, &u.OrganizationID, &u.Username, &role,
		&hash, &code, &codeExp,
		&u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	u.Role = domain.Role(role)
	u.PasswordHash = mapNullStringPtr(hash)
	u.AccessCode = mapNullStringPtr(code)
	u.AccessCodeExp = mapNullTimePtr(codeExp)
	return u, nil
}

func scanUsers(rows *sql.Rows) ([]domain.User, error) {
	defer rows.Close()

	var out []domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}
