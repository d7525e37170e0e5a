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

type postgresRatingRepository struct {
	pool *pgxpool.Pool
}

func (r *postgresRatingRepository) Create(ctx context.Context, rating *entity.Rating) error {
	if rating.ID == "" {
		rating.ID = uuid.New().String()
	}
	rating.CreatedAt = time.Now().UTC()

	_, err := r.pool.Exec(ctx,
		`INSERT INTO ratings (id, from_kind, from_id, to_kind, to_id, booking_id, score, review, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		rating.ID, string(rating.From.Kind), rating.From.ID, string(rating.To.Kind), rating.To.ID,
		rating.BookingID, rating.Score, rating.Review, rating.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return errors.Validation("You already rated this booking")
		}
		return errors.Internal("Failed to create rating", err)
	}
	return nil
}

func (r *postgresRatingRepository) ListByRatee(ctx context.Context, ratee entity.Party) ([]*entity.Rating, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, from_kind, from_id, to_kind, to_id, booking_id, score, review, created_at
		 FROM ratings WHERE to_kind = $1 AND to_id = $2 ORDER BY created_at DESC`,
		string(ratee.Kind), ratee.ID,
	)
	if err != nil {
		return nil, errors.Internal("Failed to list ratings", err)
	}

	ratings, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*entity.Rating, error) {
		var rt entity.Rating
		var fromKind, toKind string
		err := row.Scan(&rt.ID, &fromKind, &rt.From.ID, &toKind, &rt.To.ID, &rt.BookingID, &rt.Score, &rt.Review, &rt.CreatedAt)
		rt.From.Kind = entity.PartyKind(fromKind)
		rt.To.Kind = entity.PartyKind(toKind)
		return &rt, err
	})
	if err != nil {
		return nil, errors.Internal("Failed to list ratings", err)
	}
	return ratings, nil
}
