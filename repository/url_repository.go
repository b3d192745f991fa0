package repository

import (
	"context"
	"time"

	"github.com/urlite/urlite/models"
	"gorm.io/gorm"
)

// URLRepositoryImpl implements URLRepository
type URLRepositoryImpl struct {
	*BaseRepository[models.URL, models.URLFilter]
}

func NewURLRepository(db *gorm.DB) URLRepository {
	return &URLRepositoryImpl{BaseRepository: NewBaseRepository[models.URL, models.URLFilter](db)}
}

func (r *URLRepositoryImpl) applyFilter(db *gorm.DB, f models.URLFilter) *gorm.DB {
	if f.ID != nil {
		db = db.Where("id = ?", *f.ID)
	}
	if f.UUID != nil {
		db = db.Where("uuid = ?", *f.UUID)
	}
	if f.ShortCode != nil {
		db = db.Where("short_code = ?", *f.ShortCode)
	}
	if f.OriginalURL != nil {
		db = db.Where("original_url = ?", *f.OriginalURL)
	}
	if f.UserID != nil {
		db = db.Where("user_id = ?", *f.UserID)
	}
	if f.Anonymous != nil && *f.Anonymous {
		db = db.Where("user_id IS NULL")
	}
	if f.CreatedAfter != nil {
		db = db.Where("created_at >= ?", *f.CreatedAfter)
	}
	if f.CreatedBefore != nil {
		db = db.Where("created_at < ?", *f.CreatedBefore)
	}
	return db
}

func (r *URLRepositoryImpl) ByFilter(ctx context.Context, filter models.URLFilter, orderBy string, limit, offset int) ([]*models.URL, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.URL{}), filter)
	if orderBy != "" {
		query = query.Order(orderBy)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}
	var rows []*models.URL
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *URLRepositoryImpl) Count(ctx context.Context, filter models.URLFilter) (int64, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.URL{}), filter)
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *URLRepositoryImpl) Exists(ctx context.Context, filter models.URLFilter) (bool, error) {
	c, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return c > 0, nil
}

// ByShortCode returns the active record holding the code, or nil.
// Soft-deleted rows are excluded by GORM's DeletedAt handling.
func (r *URLRepositoryImpl) ByShortCode(ctx context.Context, shortCode string) (*models.URL, error) {
	filter := models.URLFilter{ShortCode: &shortCode}
	rows, err := r.ByFilter(ctx, filter, "id DESC", 1, 0)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

// ByOriginalURLAndOwner finds an active record for the same target URL
// created by the same owner. A nil userID matches anonymous records only.
func (r *URLRepositoryImpl) ByOriginalURLAndOwner(ctx context.Context, originalURL string, userID *uint) (*models.URL, error) {
	filter := models.URLFilter{OriginalURL: &originalURL}
	if userID != nil {
		filter.UserID = userID
	} else {
		anon := true
		filter.Anonymous = &anon
	}
	rows, err := r.ByFilter(ctx, filter, "id DESC", 1, 0)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

func (r *URLRepositoryImpl) ListActiveByUser(ctx context.Context, userID uint) ([]*models.URL, error) {
	return r.ByFilter(ctx, models.URLFilter{UserID: &userID}, "created_at ASC", 0, 0)
}

func (r *URLRepositoryImpl) ListActive(ctx context.Context, limit, offset int) ([]*models.URL, error) {
	return r.ByFilter(ctx, models.URLFilter{}, "id ASC", limit, offset)
}

func (r *URLRepositoryImpl) ShortCodeTaken(ctx context.Context, shortCode string) (bool, error) {
	return r.Exists(ctx, models.URLFilter{ShortCode: &shortCode})
}

// UpdateFields applies a partial update to an active record
func (r *URLRepositoryImpl) UpdateFields(ctx context.Context, id uint, updates map[string]any) error {
	db := r.getDB(ctx)
	return db.Model(&models.URL{}).Where("id = ?", id).Updates(updates).Error
}

// IncrementAccessCount bumps access_count, updated_at and last_visited_at
// in a single UPDATE so the visit bookkeeping is atomic.
func (r *URLRepositoryImpl) IncrementAccessCount(ctx context.Context, id uint, visitedAt time.Time) error {
	db := r.getDB(ctx)
	return db.Model(&models.URL{}).Where("id = ?", id).Updates(map[string]any{
		"access_count":    gorm.Expr("access_count + 1"),
		"updated_at":      visitedAt,
		"last_visited_at": visitedAt,
	}).Error
}

// SoftDelete marks the record deleted and bumps updated_at. The row is
// kept; every read path excludes it from then on.
func (r *URLRepositoryImpl) SoftDelete(ctx context.Context, id uint, deletedAt time.Time) error {
	db := r.getDB(ctx)
	return db.Model(&models.URL{}).Where("id = ?", id).Updates(map[string]any{
		"deleted_at": deletedAt,
		"updated_at": deletedAt,
	}).Error
}
