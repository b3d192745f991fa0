package businessflow

import (
	"context"
	"strings"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/urlite/urlite/models"
)

// fakeURLRepository is an in-memory stand-in for the GORM-backed URL
// repository. Reads exclude soft-deleted rows, matching the real
// repository's behavior.
type fakeURLRepository struct {
	mu     sync.Mutex
	rows   map[uint]*models.URL
	nextID uint

	failIncrement bool
}

func newFakeURLRepository() *fakeURLRepository {
	return &fakeURLRepository{rows: map[uint]*models.URL{}, nextID: 1}
}

func (r *fakeURLRepository) ByID(ctx context.Context, id uint) (*models.URL, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[id]
	if !ok || row.DeletedAt.Valid {
		return nil, nil
	}
	cp := *row
	return &cp, nil
}

func (r *fakeURLRepository) ByFilter(ctx context.Context, filter models.URLFilter, orderBy string, limit, offset int) ([]*models.URL, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.URL
	for _, row := range r.rows {
		if row.DeletedAt.Valid {
			continue
		}
		if filter.ShortCode != nil && row.ShortCode != *filter.ShortCode {
			continue
		}
		cp := *row
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakeURLRepository) Save(ctx context.Context, entity *models.URL) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if entity.ID == 0 {
		entity.ID = r.nextID
		r.nextID++
	}
	cp := *entity
	r.rows[entity.ID] = &cp
	return nil
}

func (r *fakeURLRepository) SaveBatch(ctx context.Context, entities []*models.URL) error {
	for _, e := range entities {
		if err := r.Save(ctx, e); err != nil {
			return err
		}
	}
	return nil
}

func (r *fakeURLRepository) Count(ctx context.Context, filter models.URLFilter) (int64, error) {
	rows, err := r.ByFilter(ctx, filter, "", 0, 0)
	return int64(len(rows)), err
}

func (r *fakeURLRepository) Exists(ctx context.Context, filter models.URLFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	return count > 0, err
}

func (r *fakeURLRepository) ByShortCode(ctx context.Context, shortCode string) (*models.URL, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var latest *models.URL
	for _, row := range r.rows {
		if row.DeletedAt.Valid || row.ShortCode != shortCode {
			continue
		}
		if latest == nil || row.ID > latest.ID {
			latest = row
		}
	}
	if latest == nil {
		return nil, nil
	}
	cp := *latest
	return &cp, nil
}

func (r *fakeURLRepository) ByOriginalURLAndOwner(ctx context.Context, originalURL string, userID *uint) (*models.URL, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, row := range r.rows {
		if row.DeletedAt.Valid || row.OriginalURL != originalURL {
			continue
		}
		if (row.UserID == nil) != (userID == nil) {
			continue
		}
		if userID != nil && *row.UserID != *userID {
			continue
		}
		cp := *row
		return &cp, nil
	}
	return nil, nil
}

func (r *fakeURLRepository) ListActiveByUser(ctx context.Context, userID uint) ([]*models.URL, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.URL
	for _, row := range r.rows {
		if row.DeletedAt.Valid || row.UserID == nil || *row.UserID != userID {
			continue
		}
		cp := *row
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakeURLRepository) ListActive(ctx context.Context, limit, offset int) ([]*models.URL, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.URL
	for _, row := range r.rows {
		if row.DeletedAt.Valid {
			continue
		}
		cp := *row
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakeURLRepository) ShortCodeTaken(ctx context.Context, shortCode string) (bool, error) {
	row, err := r.ByShortCode(ctx, shortCode)
	return row != nil, err
}

func (r *fakeURLRepository) UpdateFields(ctx context.Context, id uint, updates map[string]any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	for key, value := range updates {
		switch key {
		case "original_url":
			row.OriginalURL = value.(string)
		case "short_code":
			row.ShortCode = value.(string)
		case "updated_at":
			row.UpdatedAt = value.(time.Time)
		}
	}
	return nil
}

func (r *fakeURLRepository) IncrementAccessCount(ctx context.Context, id uint, visitedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failIncrement {
		return gorm.ErrInvalidDB
	}
	row, ok := r.rows[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	row.AccessCount++
	row.UpdatedAt = visitedAt
	row.LastVisitedAt = &visitedAt
	return nil
}

func (r *fakeURLRepository) SoftDelete(ctx context.Context, id uint, deletedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	row.DeletedAt = gorm.DeletedAt{Time: deletedAt, Valid: true}
	row.UpdatedAt = deletedAt
	return nil
}

// fakeUserRepository is an in-memory stand-in for the user repository
type fakeUserRepository struct {
	mu     sync.Mutex
	rows   map[uint]*models.User
	nextID uint
}

func newFakeUserRepository() *fakeUserRepository {
	return &fakeUserRepository{rows: map[uint]*models.User{}, nextID: 1}
}

func (r *fakeUserRepository) ByID(ctx context.Context, id uint) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[id]
	if !ok {
		return nil, nil
	}
	cp := *row
	return &cp, nil
}

func (r *fakeUserRepository) ByFilter(ctx context.Context, filter models.UserFilter, orderBy string, limit, offset int) ([]*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.User
	for _, row := range r.rows {
		cp := *row
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakeUserRepository) Save(ctx context.Context, entity *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if entity.ID == 0 {
		entity.ID = r.nextID
		r.nextID++
	}
	cp := *entity
	r.rows[entity.ID] = &cp
	return nil
}

func (r *fakeUserRepository) SaveBatch(ctx context.Context, entities []*models.User) error {
	for _, e := range entities {
		if err := r.Save(ctx, e); err != nil {
			return err
		}
	}
	return nil
}

func (r *fakeUserRepository) Count(ctx context.Context, filter models.UserFilter) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.rows)), nil
}

func (r *fakeUserRepository) Exists(ctx context.Context, filter models.UserFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	return count > 0, err
}

func (r *fakeUserRepository) ByUUID(ctx context.Context, id string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, row := range r.rows {
		if row.UUID.String() == id {
			cp := *row
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepository) ByEmail(ctx context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, row := range r.rows {
		if strings.EqualFold(row.Email, email) {
			cp := *row
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepository) UpdateLastLogin(ctx context.Context, userID uint, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[userID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	row.LastLoginAt = &at
	row.UpdatedAt = at
	return nil
}

// seqCodeGenerator yields a fixed sequence of codes and then cycles,
// making collision behavior deterministic in tests
type seqCodeGenerator struct {
	mu    sync.Mutex
	codes []string
	next  int
}

func (g *seqCodeGenerator) Generate(length int) string {
	g.mu.Lock()
	defer g.mu.Unlock()
	code := g.codes[g.next%len(g.codes)]
	g.next++
	return code
}
