package repository

import (
	"context"
	"sort"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"helperhub/internal/domain/entity"
	"helperhub/internal/domain/repository"
	"helperhub/pkg/errors"
)

type firestoreBookingRepository struct {
	client *firestore.Client
}

func NewFirestoreBookingRepository(client *firestore.Client) repository.BookingRepository {
	return &firestoreBookingRepository{
		client: client,
	}
}

func (r *firestoreBookingRepository) CreateForAvailableHelper(ctx context.Context, booking *entity.Booking) error {
	if booking.ID == "" {
		booking.ID = uuid.New().String()
	}

	now := time.Now()
	booking.CreatedAt = now
	booking.UpdatedAt = now

	helperRef := r.client.Collection(helpersCollection).Doc(booking.HelperID)
	bookingRef := r.client.Collection(bookingsCollection).Doc(booking.ID)

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(helperRef)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return errors.NotFound("Helper", err)
			}
			return err
		}

		var helper entity.Helper
		if err := doc.DataTo(&helper); err != nil {
			return err
		}
		if !helper.IsAvailable {
			return errors.InvalidState("Helper not available")
		}

		return tx.Create(bookingRef, booking)
	})
	if err != nil {
		return passAppError(err, "Failed to create booking")
	}
	return nil
}

func (r *firestoreBookingRepository) GetByID(ctx context.Context, id string) (*entity.Booking, error) {
	doc, err := r.client.Collection(bookingsCollection).Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Booking", err)
		}
		return nil, errors.Internal("Failed to get booking", err)
	}

	var booking entity.Booking
	if err := doc.DataTo(&booking); err != nil {
		return nil, errors.Internal("Failed to parse booking data", err)
	}
	return &booking, nil
}

// ApplyTransition reads the booking and its helper, then writes both inside one Firestore transaction.
// Concurrent transitions on the same booking contend on the booking document and only one commits.
func (r *firestoreBookingRepository) ApplyTransition(ctx context.Context, t entity.Transition) (*entity.Booking, error) {
	bookingRef := r.client.Collection(bookingsCollection).Doc(t.BookingID)
	var result entity.Booking

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(bookingRef)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return errors.NotFound("Booking", err)
			}
			return err
		}

		var booking entity.Booking
		if err := doc.DataTo(&booking); err != nil {
			return err
		}

		var helper *entity.Helper
		helperRef := r.client.Collection(helpersCollection).Doc(booking.HelperID)
		if touchesHelper(t) {
			helperDoc, err := tx.Get(helperRef)
			switch {
			case status.Code(err) == codes.NotFound:
			case err != nil:
				return err
			default:
				helper = &entity.Helper{}
				if err := helperDoc.DataTo(helper); err != nil {
					return err
				}
			}
		}

		if err := applyTransition(&booking, helper, t); err != nil {
			return err
		}

		if err := tx.Set(bookingRef, booking); err != nil {
			return err
		}
		if helper != nil {
			if err := tx.Set(helperRef, helper); err != nil {
				return err
			}
		}

		result = booking
		return nil
	})
	if err != nil {
		return nil, passAppError(err, "Failed to update booking")
	}
	return &result, nil
}

func (r *firestoreBookingRepository) newestFirst(ctx context.Context, q firestore.Query) ([]*entity.Booking, error) {
	bookings, err := collectDocs[entity.Booking](q.Documents(ctx))
	if err != nil {
		return nil, errors.Internal("Failed to list bookings", err)
	}
	sort.SliceStable(bookings, func(i, j int) bool { return bookings[i].CreatedAt.After(bookings[j].CreatedAt) })
	return bookings, nil
}

func (r *firestoreBookingRepository) ListByUser(ctx context.Context, userID string) ([]*entity.Booking, error) {
	return r.newestFirst(ctx, r.client.Collection(bookingsCollection).Where("userId", "==", userID))
}

func (r *firestoreBookingRepository) ListByHelper(ctx context.Context, helperID string) ([]*entity.Booking, error) {
	return r.newestFirst(ctx, r.client.Collection(bookingsCollection).Where("helperId", "==", helperID))
}

func (r *firestoreBookingRepository) List(ctx context.Context, limit, offset int) ([]*entity.Booking, int64, error) {
	total, err := countDocs(ctx, r.client.Collection(bookingsCollection).Query)
	if err != nil {
		return nil, 0, errors.Internal("Failed to count bookings", err)
	}

	query := r.client.Collection(bookingsCollection).OrderBy("createdAt", firestore.Desc)
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	bookings, err := collectDocs[entity.Booking](query.Documents(ctx))
	if err != nil {
		return nil, 0, errors.Internal("Failed to list bookings", err)
	}
	return bookings, total, nil
}

func (r *firestoreBookingRepository) Count(ctx context.Context, filter repository.BookingFilter) (int64, error) {
	query := r.client.Collection(bookingsCollection).Query
	if filter.HelperID != "" {
		query = query.Where("helperId", "==", filter.HelperID)
	}
	if filter.Status != "" {
		query = query.Where("status", "==", string(filter.Status))
	}

	n, err := countDocs(ctx, query)
	if err != nil {
		return 0, errors.Internal("Failed to count bookings", err)
	}
	return n, nil
}

func (r *firestoreBookingRepository) ListOverdue(ctx context.Context, now time.Time) ([]*entity.Booking, error) {
	accepted, err := r.newestFirst(ctx, r.client.Collection(bookingsCollection).Where("status", "==", string(entity.BookingAccepted)))
	if err != nil {
		return nil, err
	}

	overdue := accepted[:0]
	for _, b := range accepted {
		if b.ArrivalTime != nil && b.ArrivalTime.Before(now) {
			overdue = append(overdue, b)
		}
	}
	return overdue, nil
}
