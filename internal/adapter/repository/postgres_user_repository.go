package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"helperhub/internal/domain/entity"
	"helperhub/pkg/errors"
)

type postgresUserRepository struct {
	pool *pgxpool.Pool
}

const userColumns = `id, name, email, role, average_rating, created_at, updated_at`

func scanUser(row pgx.Row) (*entity.User, error) {
	var u entity.User
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Role, &u.AverageRating, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *postgresUserRepository) Create(ctx context.Context, user *entity.User) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now

	_, err := r.pool.Exec(ctx,
		`INSERT INTO users (`+userColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		user.ID, user.Name, user.Email, user.Role, user.AverageRating, user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return errors.Validation("User already exists")
		}
		return errors.Internal("Failed to create user", err)
	}
	return nil
}

func (r *postgresUserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	u, err := scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, errors.NotFound("User", err)
		}
		return nil, errors.Internal("Failed to get user", err)
	}
	return u, nil
}

func (r *postgresUserRepository) List(ctx context.Context) ([]*entity.User, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY created_at`)
	if err != nil {
		return nil, errors.Internal("Failed to list users", err)
	}
	users, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*entity.User, error) { return scanUser(row) })
	if err != nil {
		return nil, errors.Internal("Failed to list users", err)
	}
	return users, nil
}

func (r *postgresUserRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM users`).Scan(&n); err != nil {
		return 0, errors.Internal("Failed to count users", err)
	}
	return n, nil
}

func (r *postgresUserRepository) UpdateAverageRating(ctx context.Context, id string, average float64) error {
	tag, err := r.pool.Exec(ctx, `UPDATE users SET average_rating = $2, updated_at = now() WHERE id = $1`, id, average)
	if err != nil {
		return errors.Internal("Failed to update user rating", err)
	}
	if tag.RowsAffected() == 0 {
		return errors.NotFound("User", nil)
	}
	return nil
}

func (r *postgresUserRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id); err != nil {
		return errors.Internal("Failed to delete user", err)
	}
	return nil
}
