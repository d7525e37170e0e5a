package repository

import (
	"context"

	"helperhub/internal/domain/entity"
)

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	List(ctx context.Context) ([]*entity.User, error)
	Count(ctx context.Context) (int64, error)
	UpdateAverageRating(ctx context.Context, id string, average float64) error
	Delete(ctx context.Context, id string) error
}
