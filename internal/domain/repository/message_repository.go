package repository

import (
	"context"

	"helperhub/internal/domain/entity"
)

type MessageRepository interface {
	Create(ctx context.Context, message *entity.Message) error
	// ListByBooking and ListSupport return messages oldest first.
	ListByBooking(ctx context.Context, bookingID string) ([]*entity.Message, error)
	ListSupport(ctx context.Context, userID string) ([]*entity.Message, error)
	// ListSupportUsers returns the ids of users with at least one support message.
	ListSupportUsers(ctx context.Context) ([]string, error)
}
