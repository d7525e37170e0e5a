package repository

import (
	"fmt"
	"time"

	"helperhub/internal/domain/entity"
	"helperhub/internal/domain/repository"
	"helperhub/pkg/errors"
)

// Repositories bundles one storage backend.
type Repositories struct {
	Users    repository.UserRepository
	Helpers  repository.HelperRepository
	Bookings repository.BookingRepository
	Messages repository.MessageRepository
	Ratings  repository.RatingRepository

	closer func() error
}

func (r *Repositories) Close() error {
	if r.closer == nil {
		return nil
	}
	return r.closer()
}

// applyTransition validates t against the loaded records and mutates them in place.
// helper may be nil when the helper document no longer exists.
func applyTransition(b *entity.Booking, h *entity.Helper, t entity.Transition) error {
	if b.Status != t.From {
		msg := t.NotInStateMessage
		if msg == "" {
			msg = "Booking already processed"
		}
		return errors.InvalidState(msg)
	}
	if !t.From.CanTransitionTo(t.To) {
		return errors.InvalidState(fmt.Sprintf("Booking cannot move from %s to %s", t.From, t.To))
	}

	if h == nil {
		if t.Helper.Claim {
			return errors.NotFound("Helper", nil)
		}
	} else {
		if t.Helper.Claim {
			if !h.IsAvailable {
				return errors.InvalidState("Helper not available")
			}
			h.IsAvailable = false
		}
		if t.Helper.Release {
			h.IsAvailable = true
		}
		h.Earnings += t.Helper.EarningsDelta
		h.UpdatedAt = t.At
	}

	b.Status = t.To
	if t.Apply != nil {
		t.Apply(b)
	}
	b.UpdatedAt = t.At
	return nil
}

// applyAvailability stores available on h unless that would free a helper
// who still holds an active booking.
func applyAvailability(h *entity.Helper, available, hasActive bool, at time.Time) error {
	if available && hasActive {
		return errors.InvalidState("Finish the active booking before going available")
	}
	h.IsAvailable = available
	h.UpdatedAt = at
	return nil
}

func touchesHelper(t entity.Transition) bool {
	return t.Helper != (entity.HelperEffect{})
}

// passAppError keeps domain errors raised inside a transaction and wraps everything else.
func passAppError(err error, message string) error {
	if appErr, ok := errors.As(err); ok {
		return appErr
	}
	return errors.Internal(message, err)
}
