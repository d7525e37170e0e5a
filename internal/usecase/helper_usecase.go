package usecase

import (
	"context"

	"helperhub/internal/domain/entity"
	"helperhub/internal/domain/repository"
	"helperhub/pkg/logger"
)

type HelperUseCase struct {
	helperRepo  repository.HelperRepository
	bookingRepo repository.BookingRepository
}

func NewHelperUseCase(helperRepo repository.HelperRepository, bookingRepo repository.BookingRepository) *HelperUseCase {
	return &HelperUseCase{
		helperRepo:  helperRepo,
		bookingRepo: bookingRepo,
	}
}

type CreateHelperInput struct {
	ID          string `json:"id"`
	Name        string `json:"name" validate:"required"`
	Email       string `json:"email" validate:"omitempty,email"`
	Category    string `json:"category" validate:"required"`
	IsAvailable bool   `json:"is_available"`
}

func (uc *HelperUseCase) Create(ctx context.Context, input CreateHelperInput) (*entity.Helper, error) {
	helper := &entity.Helper{
		ID:          input.ID,
		Name:        input.Name,
		Email:       input.Email,
		Category:    input.Category,
		IsAvailable: input.IsAvailable,
	}
	if err := uc.helperRepo.Create(ctx, helper); err != nil {
		return nil, err
	}
	return helper, nil
}

func (uc *HelperUseCase) GetByID(ctx context.Context, id string) (*entity.Helper, error) {
	return uc.helperRepo.GetByID(ctx, id)
}

// ToggleAvailability flips the availability the helper currently sees.
func (uc *HelperUseCase) ToggleAvailability(ctx context.Context, helperID string) (*entity.Helper, error) {
	helper, err := uc.helperRepo.GetByID(ctx, helperID)
	if err != nil {
		return nil, err
	}
	return uc.SetAvailability(ctx, helperID, !helper.IsAvailable)
}

// SetAvailability refuses to free a helper who still holds an active booking.
func (uc *HelperUseCase) SetAvailability(ctx context.Context, helperID string, available bool) (*entity.Helper, error) {
	helper, err := uc.helperRepo.SetAvailability(ctx, helperID, available)
	if err != nil {
		return nil, err
	}
	logger.Info("Helper %s availability set to %t", helperID, helper.IsAvailable)
	return helper, nil
}

func (uc *HelperUseCase) ListAvailable(ctx context.Context, category string) ([]*entity.Helper, error) {
	return uc.helperRepo.ListAvailable(ctx, category)
}

func (uc *HelperUseCase) Dashboard(ctx context.Context, helperID string) (*entity.HelperDashboard, error) {
	helper, err := uc.helperRepo.GetByID(ctx, helperID)
	if err != nil {
		return nil, err
	}

	total, err := uc.bookingRepo.Count(ctx, repository.BookingFilter{HelperID: helperID})
	if err != nil {
		return nil, err
	}
	completed, err := uc.bookingRepo.Count(ctx, repository.BookingFilter{HelperID: helperID, Status: entity.BookingCompleted})
	if err != nil {
		return nil, err
	}
	pending, err := uc.bookingRepo.Count(ctx, repository.BookingFilter{HelperID: helperID, Status: entity.BookingWaiting})
	if err != nil {
		return nil, err
	}

	return &entity.HelperDashboard{
		TotalBookings:     total,
		CompletedBookings: completed,
		PendingBookings:   pending,
		Earnings:          helper.Earnings,
		IsAvailable:       helper.IsAvailable,
	}, nil
}
