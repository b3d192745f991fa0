package businessflow

import (
	"context"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/google/uuid"
	"github.com/urlite/urlite/app/dto"
	"github.com/urlite/urlite/models"
	"github.com/urlite/urlite/repository"
	"github.com/urlite/urlite/utils"
)

// SignupFlow handles account registration
type SignupFlow interface {
	Signup(ctx context.Context, req *dto.SignupRequest, metadata *ClientMetadata) (*dto.SignupResponse, error)
}

// SignupFlowImpl implements the signup business flow
type SignupFlowImpl struct {
	userRepo repository.UserRepository
}

// NewSignupFlow creates a new signup flow instance
func NewSignupFlow(userRepo repository.UserRepository) SignupFlow {
	return &SignupFlowImpl{userRepo: userRepo}
}

// Signup registers a new account. Emails are unique; a duplicate is a
// conflict, not a silent merge.
func (s *SignupFlowImpl) Signup(ctx context.Context, req *dto.SignupRequest, metadata *ClientMetadata) (*dto.SignupResponse, error) {
	if req == nil {
		return nil, NewBusinessError("VALIDATION_ERROR", "Request body is required", nil)
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	existing, err := s.userRepo.ByEmail(ctx, email)
	if err != nil {
		return nil, NewBusinessError("USER_LOOKUP_FAILED", "Failed to check existing email", err)
	}
	if existing != nil {
		return nil, NewBusinessErrorf("EMAIL_EXISTS", "User with email %s already exists", ErrEmailAlreadyExists, email)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, NewBusinessError("PASSWORD_HASH_FAILED", "Failed to hash password", err)
	}

	now := utils.UTCNow()
	user := &models.User{
		UUID:         uuid.New(),
		Name:         strings.TrimSpace(req.Name),
		Email:        email,
		PasswordHash: string(hashed),
		IsActive:     utils.ToPtr(true),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, NewBusinessError("SIGNUP_FAILED", "Failed to create user", err)
	}

	return &dto.SignupResponse{
		Message: "Account created",
		User:    ToUserDTO(user),
	}, nil
}
