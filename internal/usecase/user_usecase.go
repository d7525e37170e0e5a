package usecase

import (
	"context"

	"helperhub/internal/domain/entity"
	"helperhub/internal/domain/repository"
	"helperhub/pkg/errors"
)

type UserUseCase struct {
	userRepo repository.UserRepository
}

func NewUserUseCase(userRepo repository.UserRepository) *UserUseCase {
	return &UserUseCase{
		userRepo: userRepo,
	}
}

type CreateUserInput struct {
	ID    string `json:"id"`
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"omitempty,email"`
	Role  string `json:"role" validate:"omitempty,oneof=user admin"`
}

func (uc *UserUseCase) Create(ctx context.Context, input CreateUserInput) (*entity.User, error) {
	role := input.Role
	if role == "" {
		role = entity.RoleUser
	}
	if role == entity.RoleHelper {
		return nil, errors.Validation("Helpers are created through the helper registry")
	}

	user := &entity.User{
		ID:    input.ID,
		Name:  input.Name,
		Email: input.Email,
		Role:  role,
	}
	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (uc *UserUseCase) GetByID(ctx context.Context, id string) (*entity.User, error) {
	return uc.userRepo.GetByID(ctx, id)
}
