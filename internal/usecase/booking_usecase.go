package usecase

import (
	"context"
	"strings"
	"time"

	"helperhub/internal/domain/entity"
	"helperhub/internal/domain/repository"
	ws "helperhub/internal/infrastructure/websocket"
	"helperhub/pkg/errors"
	"helperhub/pkg/logger"
)

const (
	ArrivalWindow            = 15 * time.Minute
	CompletionEarnings int64 = 500
)

type BookingUseCase struct {
	bookingRepo repository.BookingRepository
	notifier    Notifier
	publisher   EventPublisher
	now         func() time.Time
}

func NewBookingUseCase(
	bookingRepo repository.BookingRepository,
	notifier Notifier,
	publisher EventPublisher,
) *BookingUseCase {
	return &BookingUseCase{
		bookingRepo: bookingRepo,
		notifier:    notifier,
		publisher:   publisher,
		now:         time.Now,
	}
}

type CreateBookingInput struct {
	HelperID string `json:"helper_id" validate:"required"`
	Category string `json:"category"`
}

// BookingEvent is the broker payload for every lifecycle change.
type BookingEvent struct {
	BookingID string               `json:"booking_id"`
	UserID    string               `json:"user_id"`
	HelperID  string               `json:"helper_id"`
	Status    entity.BookingStatus `json:"status"`
	At        time.Time            `json:"at"`
}

func (uc *BookingUseCase) publish(ctx context.Context, key string, b *entity.Booking) {
	if uc.publisher == nil {
		return
	}
	event := BookingEvent{BookingID: b.ID, UserID: b.UserID, HelperID: b.HelperID, Status: b.Status, At: uc.now()}
	if err := uc.publisher.PublishJSON(ctx, key, event); err != nil {
		logger.Warn("Failed to publish %s for booking %s: %v", key, b.ID, err)
	}
}

func (uc *BookingUseCase) Create(ctx context.Context, requesterID string, input CreateBookingInput) (*entity.Booking, error) {
	if strings.TrimSpace(input.HelperID) == "" {
		return nil, errors.Validation("Helper is required")
	}
	if strings.TrimSpace(input.Category) == "" {
		return nil, errors.Validation("Category is required")
	}

	booking := &entity.Booking{
		UserID:   requesterID,
		HelperID: input.HelperID,
		Category: input.Category,
		Status:   entity.BookingWaiting,
	}
	if err := uc.bookingRepo.CreateForAvailableHelper(ctx, booking); err != nil {
		return nil, err
	}

	logger.Info("Booking %s created by %s for helper %s", booking.ID, requesterID, booking.HelperID)
	uc.notifier.Notify(booking.HelperID, ws.EventBookingUpdate, booking)
	uc.publish(ctx, "booking.created", booking)
	return booking, nil
}

// transition loads the booking, lets authorize reject the caller, then commits t.
func (uc *BookingUseCase) transition(ctx context.Context, authorize func(*entity.Booking) error, t entity.Transition) (*entity.Booking, error) {
	current, err := uc.bookingRepo.GetByID(ctx, t.BookingID)
	if err != nil {
		return nil, err
	}
	if err := authorize(current); err != nil {
		return nil, err
	}

	updated, err := uc.bookingRepo.ApplyTransition(ctx, t)
	if err != nil {
		return nil, err
	}

	logger.Info("Booking %s moved %s -> %s", updated.ID, t.From, t.To)
	uc.notifier.Broadcast(updated.RoomKey(), ws.EventBookingUpdated, updated)
	uc.publish(ctx, "booking."+string(updated.Status), updated)
	return updated, nil
}

func onlyHelper(helperID string) func(*entity.Booking) error {
	return func(b *entity.Booking) error {
		if b.HelperID != helperID {
			return errors.Forbidden("Only the assigned helper can update this booking", nil)
		}
		return nil
	}
}

func onlyRequester(requesterID string) func(*entity.Booking) error {
	return func(b *entity.Booking) error {
		if b.UserID != requesterID {
			return errors.Forbidden("Only the requester can complete this booking", nil)
		}
		return nil
	}
}

// Accept claims the helper and starts the arrival window.
func (uc *BookingUseCase) Accept(ctx context.Context, helperID, bookingID string) (*entity.Booking, error) {
	now := uc.now()
	arrival := now.Add(ArrivalWindow)

	updated, err := uc.transition(ctx, onlyHelper(helperID), entity.Transition{
		BookingID:         bookingID,
		From:              entity.BookingWaiting,
		To:                entity.BookingAccepted,
		At:                now,
		Apply:             func(b *entity.Booking) { b.ArrivalTime = &arrival },
		Helper:            entity.HelperEffect{Claim: true},
		NotInStateMessage: "Booking already processed",
	})
	if err != nil {
		return nil, err
	}

	uc.notifier.Notify(updated.UserID, ws.EventBookingUpdate, updated)
	return updated, nil
}

func (uc *BookingUseCase) MarkReached(ctx context.Context, helperID, bookingID string) (*entity.Booking, error) {
	return uc.transition(ctx, onlyHelper(helperID), entity.Transition{
		BookingID:         bookingID,
		From:              entity.BookingAccepted,
		To:                entity.BookingReached,
		At:                uc.now(),
		NotInStateMessage: "Booking must be accepted first",
	})
}

// Complete frees the helper and credits the fixed completion earnings.
func (uc *BookingUseCase) Complete(ctx context.Context, requesterID, bookingID string) (*entity.Booking, error) {
	now := uc.now()

	return uc.transition(ctx, onlyRequester(requesterID), entity.Transition{
		BookingID:         bookingID,
		From:              entity.BookingReached,
		To:                entity.BookingCompleted,
		At:                now,
		Apply:             func(b *entity.Booking) { b.CompletedAt = &now },
		Helper:            entity.HelperEffect{Release: true, EarningsDelta: CompletionEarnings},
		NotInStateMessage: "Booking must be marked as reached first",
	})
}

// Cancel is reserved; no lifecycle path produces the cancelled status yet.
func (uc *BookingUseCase) Cancel(ctx context.Context, caller entity.Account, bookingID string) (*entity.Booking, error) {
	if _, err := uc.GetByID(ctx, caller, bookingID); err != nil {
		return nil, err
	}
	return nil, errors.InvalidState("booking cancellation is not supported")
}

func (uc *BookingUseCase) GetByID(ctx context.Context, caller entity.Account, bookingID string) (*entity.Booking, error) {
	booking, err := uc.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !booking.IsParty(caller.ID) && !caller.IsAdmin() {
		return nil, errors.Forbidden("Not authorized to view this booking", nil)
	}
	return booking, nil
}

func (uc *BookingUseCase) ListForUser(ctx context.Context, userID string) ([]*entity.Booking, error) {
	return uc.bookingRepo.ListByUser(ctx, userID)
}

func (uc *BookingUseCase) ListForHelper(ctx context.Context, helperID string) ([]*entity.Booking, error) {
	return uc.bookingRepo.ListByHelper(ctx, helperID)
}
