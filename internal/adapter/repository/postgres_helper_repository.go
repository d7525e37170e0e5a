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

type postgresHelperRepository struct {
	pool *pgxpool.Pool
}

const helperColumns = `id, name, email, category, is_available, earnings, average_rating, created_at, updated_at`

func scanHelper(row pgx.Row) (*entity.Helper, error) {
	var h entity.Helper
	err := row.Scan(&h.ID, &h.Name, &h.Email, &h.Category, &h.IsAvailable, &h.Earnings, &h.AverageRating, &h.CreatedAt, &h.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &h, nil
}

func collectHelpers(rows pgx.Rows, err error) ([]*entity.Helper, error) {
	if err != nil {
		return nil, errors.Internal("Failed to list helpers", err)
	}
	helpers, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*entity.Helper, error) { return scanHelper(row) })
	if err != nil {
		return nil, errors.Internal("Failed to list helpers", err)
	}
	return helpers, nil
}

func (r *postgresHelperRepository) Create(ctx context.Context, helper *entity.Helper) error {
	if helper.ID == "" {
		helper.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	helper.CreatedAt = now
	helper.UpdatedAt = now

	_, err := r.pool.Exec(ctx,
		`INSERT INTO helpers (`+helperColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		helper.ID, helper.Name, helper.Email, helper.Category, helper.IsAvailable, helper.Earnings,
		helper.AverageRating, helper.CreatedAt, helper.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return errors.Validation("Helper already exists")
		}
		return errors.Internal("Failed to create helper", err)
	}
	return nil
}

func (r *postgresHelperRepository) GetByID(ctx context.Context, id string) (*entity.Helper, error) {
	h, err := scanHelper(r.pool.QueryRow(ctx, `SELECT `+helperColumns+` FROM helpers WHERE id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, errors.NotFound("Helper", err)
		}
		return nil, errors.Internal("Failed to get helper", err)
	}
	return h, nil
}

func (r *postgresHelperRepository) List(ctx context.Context) ([]*entity.Helper, error) {
	return collectHelpers(r.pool.Query(ctx, `SELECT `+helperColumns+` FROM helpers ORDER BY created_at`))
}

func (r *postgresHelperRepository) ListAvailable(ctx context.Context, category string) ([]*entity.Helper, error) {
	return collectHelpers(r.pool.Query(ctx,
		`SELECT `+helperColumns+` FROM helpers WHERE is_available AND ($1 = '' OR category = $1) ORDER BY created_at`,
		category,
	))
}

func (r *postgresHelperRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM helpers`).Scan(&n); err != nil {
		return 0, errors.Internal("Failed to count helpers", err)
	}
	return n, nil
}

func (r *postgresHelperRepository) TotalEarnings(ctx context.Context) (int64, error) {
	var total int64
	if err := r.pool.QueryRow(ctx, `SELECT COALESCE(sum(earnings), 0) FROM helpers`).Scan(&total); err != nil {
		return 0, errors.Internal("Failed to sum helper earnings", err)
	}
	return total, nil
}

// SetAvailability locks the helper row the same way a claiming transition does,
// so it cannot interleave with an accept.
func (r *postgresHelperRepository) SetAvailability(ctx context.Context, id string, available bool) (*entity.Helper, error) {
	var helper *entity.Helper
	err := inTx(ctx, r.pool, func(tx pgx.Tx) error {
		h, err := scanHelper(tx.QueryRow(ctx, `SELECT `+helperColumns+` FROM helpers WHERE id = $1 FOR UPDATE`, id))
		if err != nil {
			if isNoRows(err) {
				return errors.NotFound("Helper", err)
			}
			return err
		}

		hasActive := false
		if available {
			err = tx.QueryRow(ctx,
				`SELECT EXISTS (SELECT 1 FROM bookings WHERE helper_id = $1 AND status = ANY($2))`,
				id, activeStatusNames(),
			).Scan(&hasActive)
			if err != nil {
				return err
			}
		}
		if err := applyAvailability(h, available, hasActive, time.Now().UTC()); err != nil {
			return err
		}

		if _, err := tx.Exec(ctx,
			`UPDATE helpers SET is_available = $2, updated_at = $3 WHERE id = $1`,
			id, h.IsAvailable, h.UpdatedAt,
		); err != nil {
			return err
		}
		helper = h
		return nil
	})
	if err != nil {
		return nil, passAppError(err, "Failed to update availability")
	}
	return helper, nil
}

func activeStatusNames() []string {
	names := make([]string, len(entity.ActiveBookingStatuses))
	for i, s := range entity.ActiveBookingStatuses {
		names[i] = string(s)
	}
	return names
}

func (r *postgresHelperRepository) UpdateAverageRating(ctx context.Context, id string, average float64) error {
	tag, err := r.pool.Exec(ctx, `UPDATE helpers SET average_rating = $2, updated_at = now() WHERE id = $1`, id, average)
	if err != nil {
		return errors.Internal("Failed to update helper rating", err)
	}
	if tag.RowsAffected() == 0 {
		return errors.NotFound("Helper", nil)
	}
	return nil
}

func (r *postgresHelperRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM helpers WHERE id = $1`, id); err != nil {
		return errors.Internal("Failed to delete helper", err)
	}
	return nil
}
