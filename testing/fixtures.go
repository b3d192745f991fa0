// Package testing provides test utilities and database setup for integration tests
package testing

import (
	"fmt"
	"math/rand"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/urlite/urlite/models"
	"github.com/urlite/urlite/utils"
)

// TestFixtures provides helper methods for creating test data
type TestFixtures struct {
	DB *TestDB
}

// NewTestFixtures creates a new test fixtures instance
func NewTestFixtures(db *TestDB) *TestFixtures {
	return &TestFixtures{DB: db}
}

// CreateTestUser creates an active user with a bcrypt-hashed password
func (tf *TestFixtures) CreateTestUser() (*models.User, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte("TestPass123!"), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	suffix := rand.Intn(1000000)
	now := utils.UTCNow()

	user := &models.User{
		UUID:         uuid.New(),
		Name:         fmt.Sprintf("Test User %d", suffix),
		Email:        fmt.Sprintf("test.user.%d@example.com", suffix),
		PasswordHash: string(hashedPassword),
		IsActive:     utils.ToPtr(true),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := tf.DB.DB.Create(user).Error; err != nil {
		return nil, fmt.Errorf("failed to create test user: %w", err)
	}

	return user, nil
}

// CreateTestURL creates a shortened URL record. A nil userID makes it anonymous.
func (tf *TestFixtures) CreateTestURL(userID *uint) (*models.URL, error) {
	suffix := rand.Intn(1000000)
	now := utils.UTCNow()

	url := &models.URL{
		UUID:        uuid.New(),
		OriginalURL: fmt.Sprintf("https://example.com/page/%d", suffix),
		ShortCode:   fmt.Sprintf("t%05d", suffix),
		UserID:      userID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := tf.DB.DB.Create(url).Error; err != nil {
		return nil, fmt.Errorf("failed to create test URL: %w", err)
	}

	return url, nil
}
