package repository

import (
	"context"
	"time"

	"helperhub/internal/domain/entity"
)

type BookingFilter struct {
	HelperID string
	Status   entity.BookingStatus
}

type BookingRepository interface {
	// CreateForAvailableHelper inserts the booking only if its helper exists and is available,
	// checked in the same commit as the insert.
	CreateForAvailableHelper(ctx context.Context, booking *entity.Booking) error
	GetByID(ctx context.Context, id string) (*entity.Booking, error)
	// ApplyTransition commits the status compare-and-set and the helper effect atomically.
	ApplyTransition(ctx context.Context, t entity.Transition) (*entity.Booking, error)
	ListByUser(ctx context.Context, userID string) ([]*entity.Booking, error)
	ListByHelper(ctx context.Context, helperID string) ([]*entity.Booking, error)
	List(ctx context.Context, limit, offset int) ([]*entity.Booking, int64, error)
	Count(ctx context.Context, filter BookingFilter) (int64, error)
	// ListOverdue returns accepted bookings whose arrival time is before now.
	ListOverdue(ctx context.Context, now time.Time) ([]*entity.Booking, error)
}
