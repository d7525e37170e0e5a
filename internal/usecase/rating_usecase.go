package usecase

import (
	"context"

	"helperhub/internal/domain/entity"
	"helperhub/internal/domain/repository"
	"helperhub/pkg/errors"
	"helperhub/pkg/logger"
)

type RatingUseCase struct {
	ratingRepo  repository.RatingRepository
	bookingRepo repository.BookingRepository
	userRepo    repository.UserRepository
	helperRepo  repository.HelperRepository
}

func NewRatingUseCase(
	ratingRepo repository.RatingRepository,
	bookingRepo repository.BookingRepository,
	userRepo repository.UserRepository,
	helperRepo repository.HelperRepository,
) *RatingUseCase {
	return &RatingUseCase{
		ratingRepo:  ratingRepo,
		bookingRepo: bookingRepo,
		userRepo:    userRepo,
		helperRepo:  helperRepo,
	}
}

type CreateRatingInput struct {
	BookingID string `json:"booking_id" validate:"required"`
	Rating    int    `json:"rating"`
	Review    string `json:"review"`
}

func isSide(b *entity.Booking, p entity.Party) bool {
	switch p.Kind {
	case entity.PartyUser:
		return b.UserID == p.ID
	case entity.PartyHelper:
		return b.HelperID == p.ID
	}
	return false
}

func (uc *RatingUseCase) Create(ctx context.Context, rater entity.Account, input CreateRatingInput) (*entity.Rating, error) {
	if input.Rating < 1 || input.Rating > 5 {
		return nil, errors.Validation("Rating must be between 1 and 5")
	}

	booking, err := uc.bookingRepo.GetByID(ctx, input.BookingID)
	if err != nil {
		return nil, err
	}
	if booking.Status != entity.BookingCompleted {
		return nil, errors.InvalidState("Only completed bookings can be rated")
	}

	from := rater.Party()
	if !isSide(booking, from) {
		return nil, errors.Forbidden("Not a participant of this booking", nil)
	}

	rating := &entity.Rating{
		From:      from,
		To:        from.Counterpart(booking),
		BookingID: booking.ID,
		Score:     input.Rating,
		Review:    input.Review,
	}
	if err := uc.ratingRepo.Create(ctx, rating); err != nil {
		return nil, err
	}

	uc.refreshAverage(ctx, rating.To)
	return rating, nil
}

// refreshAverage recomputes the ratee's average. The rating is already stored, so failures are only logged.
func (uc *RatingUseCase) refreshAverage(ctx context.Context, ratee entity.Party) {
	ratings, err := uc.ratingRepo.ListByRatee(ctx, ratee)
	if err != nil {
		logger.Error("Failed to list ratings for %s: %v", ratee.ID, err)
		return
	}

	average := entity.AverageScore(ratings)
	if ratee.Kind == entity.PartyHelper {
		err = uc.helperRepo.UpdateAverageRating(ctx, ratee.ID, average)
	} else {
		err = uc.userRepo.UpdateAverageRating(ctx, ratee.ID, average)
	}
	if err != nil {
		logger.Warn("Failed to store average rating for %s %s: %v", ratee.Kind, ratee.ID, err)
	}
}

func (uc *RatingUseCase) ListFor(ctx context.Context, ratee entity.Party) ([]*entity.Rating, error) {
	return uc.ratingRepo.ListByRatee(ctx, ratee)
}
