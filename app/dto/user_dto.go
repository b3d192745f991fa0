package dto

import "time"

// SignupRequest is the body of POST /api/v1/auth/signup
type SignupRequest struct {
	Name            string `json:"name" validate:"required,min=2,max=255"`
	Email           string `json:"email" validate:"required,email,max=255"`
	Password        string `json:"password" validate:"required,min=8,max=128"`
	ConfirmPassword string `json:"confirm_password" validate:"required,eqfield=Password"`
}

// UserDTO is the external view of a user account
type UserDTO struct {
	ID          uint       `json:"id"`
	UUID        string     `json:"uuid"`
	Name        string     `json:"name"`
	Email       string     `json:"email"`
	IsActive    bool       `json:"is_active"`
	CreatedAt   time.Time  `json:"created_at"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
}

type SignupResponse struct {
	Message string  `json:"message"`
	User    UserDTO `json:"user"`
}

type GetProfileResponse struct {
	Message string  `json:"message"`
	User    UserDTO `json:"user"`
}
