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

type postgresMessageRepository struct {
	pool *pgxpool.Pool
}

const messageColumns = `id, type, COALESCE(booking_id, ''), COALESCE(support_user_id, ''), sender_id, message, created_at`

func scanMessage(row pgx.CollectableRow) (*entity.Message, error) {
	var m entity.Message
	var kind string
	if err := row.Scan(&m.ID, &kind, &m.BookingID, &m.SupportUserID, &m.SenderID, &m.Content, &m.CreatedAt); err != nil {
		return nil, err
	}
	m.Type = entity.MessageType(kind)
	return &m, nil
}

func (r *postgresMessageRepository) Create(ctx context.Context, message *entity.Message) error {
	if !message.Valid() {
		return errors.Validation("Message must reference exactly one channel")
	}
	if message.ID == "" {
		message.ID = uuid.New().String()
	}
	message.CreatedAt = time.Now().UTC()

	_, err := r.pool.Exec(ctx,
		`INSERT INTO messages (id, type, booking_id, support_user_id, sender_id, message, created_at)
		 VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''), $5, $6, $7)`,
		message.ID, string(message.Type), message.BookingID, message.SupportUserID,
		message.SenderID, message.Content, message.CreatedAt,
	)
	if err != nil {
		return errors.Internal("Failed to create message", err)
	}
	return nil
}

func (r *postgresMessageRepository) list(ctx context.Context, where string, arg string) ([]*entity.Message, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+messageColumns+` FROM messages WHERE `+where+` ORDER BY created_at, id`, arg)
	if err != nil {
		return nil, errors.Internal("Failed to list messages", err)
	}
	messages, err := pgx.CollectRows(rows, scanMessage)
	if err != nil {
		return nil, errors.Internal("Failed to list messages", err)
	}
	return messages, nil
}

func (r *postgresMessageRepository) ListByBooking(ctx context.Context, bookingID string) ([]*entity.Message, error) {
	return r.list(ctx, `booking_id = $1`, bookingID)
}

func (r *postgresMessageRepository) ListSupport(ctx context.Context, userID string) ([]*entity.Message, error) {
	return r.list(ctx, `support_user_id = $1`, userID)
}

func (r *postgresMessageRepository) ListSupportUsers(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx, `SELECT DISTINCT support_user_id FROM messages WHERE type = 'support' ORDER BY support_user_id`)
	if err != nil {
		return nil, errors.Internal("Failed to list support sessions", err)
	}
	users, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, errors.Internal("Failed to list support sessions", err)
	}
	return users, nil
}
