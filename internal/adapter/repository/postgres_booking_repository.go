package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"helperhub/internal/domain/entity"
	"helperhub/internal/domain/repository"
	"helperhub/pkg/errors"
)

type postgresBookingRepository struct {
	pool *pgxpool.Pool
}

const bookingColumns = `id, user_id, helper_id, category, status, arrival_time, completed_at, created_at, updated_at`

func scanBooking(row pgx.Row) (*entity.Booking, error) {
	var b entity.Booking
	var status string
	err := row.Scan(&b.ID, &b.UserID, &b.HelperID, &b.Category, &status, &b.ArrivalTime, &b.CompletedAt, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	b.Status = entity.BookingStatus(status)
	return &b, nil
}

func collectBookings(rows pgx.Rows, err error) ([]*entity.Booking, error) {
	if err != nil {
		return nil, errors.Internal("Failed to list bookings", err)
	}
	bookings, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*entity.Booking, error) { return scanBooking(row) })
	if err != nil {
		return nil, errors.Internal("Failed to list bookings", err)
	}
	return bookings, nil
}

// CreateForAvailableHelper locks the helper row so a concurrent claim cannot interleave with the check.
func (r *postgresBookingRepository) CreateForAvailableHelper(ctx context.Context, booking *entity.Booking) error {
	if booking.ID == "" {
		booking.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	booking.CreatedAt = now
	booking.UpdatedAt = now

	err := inTx(ctx, r.pool, func(tx pgx.Tx) error {
		var available bool
		err := tx.QueryRow(ctx, `SELECT is_available FROM helpers WHERE id = $1 FOR SHARE`, booking.HelperID).Scan(&available)
		if err != nil {
			if isNoRows(err) {
				return errors.NotFound("Helper", err)
			}
			return err
		}
		if !available {
			return errors.InvalidState("Helper not available")
		}

		_, err = tx.Exec(ctx,
			`INSERT INTO bookings (`+bookingColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			booking.ID, booking.UserID, booking.HelperID, booking.Category, string(booking.Status),
			booking.ArrivalTime, booking.CompletedAt, booking.CreatedAt, booking.UpdatedAt,
		)
		return err
	})
	if err != nil {
		return passAppError(err, "Failed to create booking")
	}
	return nil
}

func (r *postgresBookingRepository) GetByID(ctx context.Context, id string) (*entity.Booking, error) {
	b, err := scanBooking(r.pool.QueryRow(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, errors.NotFound("Booking", err)
		}
		return nil, errors.Internal("Failed to get booking", err)
	}
	return b, nil
}

// ApplyTransition takes row locks on the booking and then its helper, in that order, before deciding.
func (r *postgresBookingRepository) ApplyTransition(ctx context.Context, t entity.Transition) (*entity.Booking, error) {
	var result *entity.Booking

	err := inTx(ctx, r.pool, func(tx pgx.Tx) error {
		b, err := scanBooking(tx.QueryRow(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id = $1 FOR UPDATE`, t.BookingID))
		if err != nil {
			if isNoRows(err) {
				return errors.NotFound("Booking", err)
			}
			return err
		}

		var h *entity.Helper
		if touchesHelper(t) {
			h, err = scanHelper(tx.QueryRow(ctx, `SELECT `+helperColumns+` FROM helpers WHERE id = $1 FOR UPDATE`, b.HelperID))
			if err != nil && !isNoRows(err) {
				return err
			}
		}

		if err := applyTransition(b, h, t); err != nil {
			return err
		}

		_, err = tx.Exec(ctx,
			`UPDATE bookings SET status = $2, arrival_time = $3, completed_at = $4, updated_at = $5 WHERE id = $1`,
			b.ID, string(b.Status), b.ArrivalTime, b.CompletedAt, b.UpdatedAt,
		)
		if err != nil {
			return err
		}

		if h != nil {
			_, err = tx.Exec(ctx,
				`UPDATE helpers SET is_available = $2, earnings = $3, updated_at = $4 WHERE id = $1`,
				h.ID, h.IsAvailable, h.Earnings, h.UpdatedAt,
			)
			if err != nil {
				return err
			}
		}

		result = b
		return nil
	})
	if err != nil {
		return nil, passAppError(err, "Failed to update booking")
	}
	return result, nil
}

func (r *postgresBookingRepository) ListByUser(ctx context.Context, userID string) ([]*entity.Booking, error) {
	return collectBookings(r.pool.Query(ctx,
		`SELECT `+bookingColumns+` FROM bookings WHERE user_id = $1 ORDER BY created_at DESC`, userID))
}

func (r *postgresBookingRepository) ListByHelper(ctx context.Context, helperID string) ([]*entity.Booking, error) {
	return collectBookings(r.pool.Query(ctx,
		`SELECT `+bookingColumns+` FROM bookings WHERE helper_id = $1 ORDER BY created_at DESC`, helperID))
}

func (r *postgresBookingRepository) List(ctx context.Context, limit, offset int) ([]*entity.Booking, int64, error) {
	var total int64
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM bookings`).Scan(&total); err != nil {
		return nil, 0, errors.Internal("Failed to count bookings", err)
	}

	var limitArg any
	if limit > 0 {
		limitArg = limit
	}
	bookings, err := collectBookings(r.pool.Query(ctx,
		`SELECT `+bookingColumns+` FROM bookings ORDER BY created_at DESC LIMIT $1 OFFSET $2`, limitArg, offset))
	if err != nil {
		return nil, 0, err
	}
	return bookings, total, nil
}

func (r *postgresBookingRepository) Count(ctx context.Context, filter repository.BookingFilter) (int64, error) {
	var n int64
	err := r.pool.QueryRow(ctx,
		`SELECT count(*) FROM bookings WHERE ($1 = '' OR helper_id = $1) AND ($2 = '' OR status = $2)`,
		filter.HelperID, string(filter.Status),
	).Scan(&n)
	if err != nil {
		return 0, errors.Internal("Failed to count bookings", err)
	}
	return n, nil
}

func (r *postgresBookingRepository) ListOverdue(ctx context.Context, now time.Time) ([]*entity.Booking, error) {
	return collectBookings(r.pool.Query(ctx,
		`SELECT `+bookingColumns+` FROM bookings WHERE status = $1 AND arrival_time < $2 ORDER BY arrival_time`,
		string(entity.BookingAccepted), now,
	))
}
