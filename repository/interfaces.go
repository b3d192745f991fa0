// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"
	"time"

	"github.com/urlite/urlite/models"
)

// RepositoryContext key for transaction in context
type contextKey string

const TxContextKey contextKey = "tx"

type Repository[T any, F any] interface {
	ByID(ctx context.Context, id uint) (*T, error)
	ByFilter(ctx context.Context, filter F, orderBy string, limit, offset int) ([]*T, error)
	Save(ctx context.Context, entity *T) error
	SaveBatch(ctx context.Context, entities []*T) error
	Count(ctx context.Context, filter F) (int64, error)
	Exists(ctx context.Context, filter F) (bool, error)
}

// URLRepository defines operations for shortened URL records.
// All reads exclude soft-deleted rows.
type URLRepository interface {
	Repository[models.URL, models.URLFilter]
	ByShortCode(ctx context.Context, shortCode string) (*models.URL, error)
	ByOriginalURLAndOwner(ctx context.Context, originalURL string, userID *uint) (*models.URL, error)
	ListActiveByUser(ctx context.Context, userID uint) ([]*models.URL, error)
	ListActive(ctx context.Context, limit, offset int) ([]*models.URL, error)
	ShortCodeTaken(ctx context.Context, shortCode string) (bool, error)
	UpdateFields(ctx context.Context, id uint, updates map[string]any) error
	IncrementAccessCount(ctx context.Context, id uint, visitedAt time.Time) error
	SoftDelete(ctx context.Context, id uint, deletedAt time.Time) error
}

// UserRepository defines operations for user accounts
type UserRepository interface {
	Repository[models.User, models.UserFilter]
	ByUUID(ctx context.Context, uuid string) (*models.User, error)
	ByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateLastLogin(ctx context.Context, userID uint, at time.Time) error
}
