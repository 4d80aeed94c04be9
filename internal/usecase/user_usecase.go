package usecase

import (
	"context"

	"bartertrade/internal/domain/entity"
	"bartertrade/internal/domain/repository"
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
	Email     string
	Username  string
	Bio       string
	AvatarURL string
}

func (uc *UserUseCase) CreateUser(ctx context.Context, input CreateUserInput) (*entity.User, error) {
	user := &entity.User{
		Email:     input.Email,
		Username:  input.Username,
		Bio:       input.Bio,
		AvatarURL: input.AvatarURL,
	}

	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

func (uc *UserUseCase) GetUser(ctx context.Context, id string) (*entity.User, error) {
	return uc.userRepo.GetByID(ctx, id)
}
