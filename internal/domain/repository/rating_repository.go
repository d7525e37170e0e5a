package repository

import (
	"context"

	"helperhub/internal/domain/entity"
)

type RatingRepository interface {
	// Create fails with a validation error when the rater already rated the booking.
	Create(ctx context.Context, rating *entity.Rating) error
	// ListByRatee returns ratings received by ratee, matching both kind and id, newest first.
	ListByRatee(ctx context.Context, ratee entity.Party) ([]*entity.Rating, error)
}
