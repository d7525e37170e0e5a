package repository

import (
	"context"

	"helperhub/internal/domain/entity"
)

type HelperRepository interface {
	Create(ctx context.Context, helper *entity.Helper) error
	GetByID(ctx context.Context, id string) (*entity.Helper, error)
	List(ctx context.Context) ([]*entity.Helper, error)
	// ListAvailable returns available helpers, narrowed to category when it is not empty.
	ListAvailable(ctx context.Context, category string) ([]*entity.Helper, error)
	Count(ctx context.Context) (int64, error)
	TotalEarnings(ctx context.Context) (int64, error)
	// SetAvailability stores isAvailable and returns the stored helper. Going
	// available fails with InvalidState while the helper holds an active booking;
	// the check and the write are one atomic step.
	SetAvailability(ctx context.Context, id string, available bool) (*entity.Helper, error)
	UpdateAverageRating(ctx context.Context, id string, average float64) error
	Delete(ctx context.Context, id string) error
}
