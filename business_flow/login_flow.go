package businessflow

import (
	"context"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/urlite/urlite/app/dto"
	"github.com/urlite/urlite/app/services"
	"github.com/urlite/urlite/repository"
	"github.com/urlite/urlite/utils"
)

// LoginFlow handles authentication and token refresh
type LoginFlow interface {
	Login(ctx context.Context, req *dto.LoginRequest, metadata *ClientMetadata) (*dto.LoginResponse, error)
	Refresh(ctx context.Context, req *dto.RefreshTokenRequest) (*dto.RefreshTokenResponse, error)
}

// LoginFlowImpl implements the login business flow
type LoginFlowImpl struct {
	userRepo     repository.UserRepository
	tokenService services.TokenService
}

// NewLoginFlow creates a new login flow instance
func NewLoginFlow(userRepo repository.UserRepository, tokenService services.TokenService) LoginFlow {
	return &LoginFlowImpl{
		userRepo:     userRepo,
		tokenService: tokenService,
	}
}

// Login verifies credentials and issues an access/refresh token pair.
// An unknown email and a wrong password produce distinguishable errors
// internally; the handler maps both to the same unauthorized response.
func (s *LoginFlowImpl) Login(ctx context.Context, req *dto.LoginRequest, metadata *ClientMetadata) (*dto.LoginResponse, error) {
	if req == nil {
		return nil, NewBusinessError("VALIDATION_ERROR", "Request body is required", nil)
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	user, err := s.userRepo.ByEmail(ctx, email)
	if err != nil {
		return nil, NewBusinessError("USER_LOOKUP_FAILED", "Failed to fetch user", err)
	}
	if user == nil {
		return nil, NewBusinessErrorf("USER_NOT_FOUND", "User with email %s not found", ErrUserNotFound, email)
	}
	if !utils.IsTrue(user.IsActive) {
		return nil, NewBusinessError("ACCOUNT_INACTIVE", "Account is inactive", ErrAccountInactive)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, NewBusinessError("INCORRECT_PASSWORD", "Incorrect password", ErrIncorrectPassword)
	}

	accessToken, refreshToken, err := s.tokenService.GenerateTokens(user.ID)
	if err != nil {
		return nil, NewBusinessError("TOKEN_GENERATION_FAILED", "Failed to generate tokens", err)
	}

	now := utils.UTCNow()
	if err := s.userRepo.UpdateLastLogin(ctx, user.ID, now); err != nil {
		// Bookkeeping only; the login itself succeeded
		return nil, NewBusinessError("LAST_LOGIN_UPDATE_FAILED", "Failed to update last login", err)
	}
	user.LastLoginAt = &now

	return &dto.LoginResponse{
		Message: "Login successful",
		User:    ToUserDTO(user),
		Session: dto.SessionDTO{
			AccessToken:  accessToken,
			RefreshToken: refreshToken,
			TokenType:    "Bearer",
			ExpiresIn:    utils.AccessTokenTTLSeconds,
		},
	}, nil
}

// Refresh exchanges a valid refresh token for a new token pair
func (s *LoginFlowImpl) Refresh(ctx context.Context, req *dto.RefreshTokenRequest) (*dto.RefreshTokenResponse, error) {
	if req == nil || req.RefreshToken == "" {
		return nil, NewBusinessError("VALIDATION_ERROR", "refresh_token is required", nil)
	}

	accessToken, refreshToken, err := s.tokenService.RefreshToken(req.RefreshToken)
	if err != nil {
		return nil, NewBusinessError("TOKEN_REFRESH_FAILED", "Failed to refresh tokens", err)
	}

	return &dto.RefreshTokenResponse{
		Message: "Tokens refreshed",
		Session: dto.SessionDTO{
			AccessToken:  accessToken,
			RefreshToken: refreshToken,
			TokenType:    "Bearer",
			ExpiresIn:    utils.AccessTokenTTLSeconds,
		},
	}, nil
}
