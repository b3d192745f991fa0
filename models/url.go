// Package models contains domain entities and business models for the URL shortening service
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// URL represents a shortened URL record
// ShortCode is unique among active (non-deleted) rows; uniqueness is
// enforced by the lifecycle flow, the column index is non-unique so a
// soft-deleted row may leave its code free for reuse
// UserID is optional, anonymous submissions have no owner
type URL struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UUID        uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uk_urls_uuid" json:"uuid"`
	OriginalURL string    `gorm:"type:text;not null;index:idx_urls_original_url" json:"original_url"`
	ShortCode   string    `gorm:"size:64;not null;index:idx_urls_short_code" json:"short_code"`
	AccessCount uint64    `gorm:"not null;default:0" json:"access_count"`
	UserID      *uint     `gorm:"index:idx_urls_user_id" json:"user_id,omitempty"`
	User        *User     `gorm:"foreignKey:UserID;references:ID" json:"user,omitempty"`

	CreatedAt     time.Time      `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC');index:idx_urls_created_at" json:"created_at"`
	UpdatedAt     time.Time      `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`
	LastVisitedAt *time.Time     `json:"last_visited_at,omitempty"`
	DeletedAt     gorm.DeletedAt `gorm:"index:idx_urls_deleted_at" json:"deleted_at,omitempty"`
}

// TableName returns the table name for URL
func (URL) TableName() string { return "urls" }

// IsOwnedBy reports whether the record belongs to the given user.
// Anonymous records belong to nobody.
func (u *URL) IsOwnedBy(userID uint) bool {
	return u.UserID != nil && *u.UserID == userID
}

// URLFilter provides filter fields for repository queries
type URLFilter struct {
	ID            *uint
	UUID          *uuid.UUID
	ShortCode     *string
	OriginalURL   *string
	UserID        *uint
	Anonymous     *bool
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
}
