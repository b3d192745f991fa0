// Package businessflow contains the business logic for the application.
package businessflow

import (
	"github.com/urlite/urlite/app/dto"
	"github.com/urlite/urlite/models"
)

const RequestIDKey = "X-Request-ID"

// ClientMetadata holds client-related information for logging and session tracking
type ClientMetadata struct {
	IPAddress string `json:"ip_address"`
	UserAgent string `json:"user_agent"`
	RequestID string `json:"request_id,omitempty"`
}

// NewClientMetadata creates a new ClientMetadata instance with basic information
func NewClientMetadata(ipAddress, userAgent string) *ClientMetadata {
	return &ClientMetadata{
		IPAddress: ipAddress,
		UserAgent: userAgent,
	}
}

// SetRequestID sets the request ID
func (cm *ClientMetadata) SetRequestID(requestID string) {
	cm.RequestID = requestID
}

// ToUserDTO converts a user model to its external view
func ToUserDTO(user *models.User) dto.UserDTO {
	out := dto.UserDTO{
		ID:        user.ID,
		UUID:      user.UUID.String(),
		Name:      user.Name,
		Email:     user.Email,
		IsActive:  user.IsActive != nil && *user.IsActive,
		CreatedAt: user.CreatedAt,
	}
	if user.LastLoginAt != nil {
		out.LastLoginAt = user.LastLoginAt
	}
	return out
}
