package businessflow

import (
	"context"

	"github.com/urlite/urlite/app/dto"
	"github.com/urlite/urlite/repository"
)

type ProfileFlow interface {
	GetProfile(ctx context.Context, userID uint) (*dto.GetProfileResponse, error)
}

type ProfileFlowImpl struct {
	userRepo repository.UserRepository
}

func NewProfileFlow(userRepo repository.UserRepository) ProfileFlow {
	return &ProfileFlowImpl{userRepo: userRepo}
}

func (f *ProfileFlowImpl) GetProfile(ctx context.Context, userID uint) (*dto.GetProfileResponse, error) {
	if userID == 0 {
		return nil, NewBusinessError("USER_ID_REQUIRED", "user_id must be greater than 0", ErrUserNotFound)
	}

	user, err := f.userRepo.ByID(ctx, userID)
	if err != nil {
		return nil, NewBusinessError("USER_FETCH_FAILED", "Failed to fetch user", err)
	}
	if user == nil {
		return nil, NewBusinessError("USER_NOT_FOUND", "User not found", ErrUserNotFound)
	}

	return &dto.GetProfileResponse{
		Message: "Profile retrieved",
		User:    ToUserDTO(user),
	}, nil
}
