package usecase

import (
	"context"

	"helperhub/internal/domain/entity"
	"helperhub/internal/domain/repository"
	"helperhub/pkg/logger"
)

type AdminUseCase struct {
	userRepo    repository.UserRepository
	helperRepo  repository.HelperRepository
	bookingRepo repository.BookingRepository
}

func NewAdminUseCase(
	userRepo repository.UserRepository,
	helperRepo repository.HelperRepository,
	bookingRepo repository.BookingRepository,
) *AdminUseCase {
	return &AdminUseCase{
		userRepo:    userRepo,
		helperRepo:  helperRepo,
		bookingRepo: bookingRepo,
	}
}

func (uc *AdminUseCase) ListUsers(ctx context.Context) ([]*entity.User, error) {
	return uc.userRepo.List(ctx)
}

func (uc *AdminUseCase) ListHelpers(ctx context.Context) ([]*entity.Helper, error) {
	return uc.helperRepo.List(ctx)
}

func (uc *AdminUseCase) ListActiveHelpers(ctx context.Context) ([]*entity.Helper, error) {
	return uc.helperRepo.ListAvailable(ctx, "")
}

func (uc *AdminUseCase) ListBookings(ctx context.Context, limit, offset int) ([]*entity.Booking, int64, error) {
	return uc.bookingRepo.List(ctx, limit, offset)
}

func (uc *AdminUseCase) Stats(ctx context.Context) (*entity.PlatformStats, error) {
	users, err := uc.userRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	helpers, err := uc.helperRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	bookings, err := uc.bookingRepo.Count(ctx, repository.BookingFilter{})
	if err != nil {
		return nil, err
	}
	completed, err := uc.bookingRepo.Count(ctx, repository.BookingFilter{Status: entity.BookingCompleted})
	if err != nil {
		return nil, err
	}
	earnings, err := uc.helperRepo.TotalEarnings(ctx)
	if err != nil {
		return nil, err
	}

	return &entity.PlatformStats{
		TotalUsers:        users,
		TotalHelpers:      helpers,
		TotalBookings:     bookings,
		CompletedBookings: completed,
		TotalEarnings:     earnings,
	}, nil
}

func (uc *AdminUseCase) DeleteUser(ctx context.Context, id string) error {
	if _, err := uc.userRepo.GetByID(ctx, id); err != nil {
		return err
	}
	logger.Info("Admin deleting user %s", id)
	return uc.userRepo.Delete(ctx, id)
}

func (uc *AdminUseCase) DeleteHelper(ctx context.Context, id string) error {
	if _, err := uc.helperRepo.GetByID(ctx, id); err != nil {
		return err
	}
	logger.Info("Admin deleting helper %s", id)
	return uc.helperRepo.Delete(ctx, id)
}
