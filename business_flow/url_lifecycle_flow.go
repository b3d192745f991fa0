package businessflow

import (
	"context"
	"log"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"github.com/urlite/urlite/app/dto"
	"github.com/urlite/urlite/app/services"
	"github.com/urlite/urlite/models"
	"github.com/urlite/urlite/repository"
	"github.com/urlite/urlite/utils"
)

// URLLifecycleFlow owns the lifecycle of shortened URLs: code allocation,
// resolution with visit tracking, and ownership-gated update and delete.
// It keeps an in-process mirror of the active records; durable storage is
// the source of truth and the mirror is reconciled after every mutation.
type URLLifecycleFlow interface {
	Shorten(ctx context.Context, req *dto.ShortenURLRequest, userID *uint) (*dto.ShortenURLResponse, error)
	Resolve(ctx context.Context, shortCode string) (string, error)
	GetByShortCode(ctx context.Context, shortCode string) (*dto.GetURLResponse, error)
	ListForUser(ctx context.Context, userID uint) (*dto.ListURLsResponse, error)
	Update(ctx context.Context, shortCode string, req *dto.UpdateURLRequest, requestingUserID uint) (*dto.UpdateURLResponse, error)
	Delete(ctx context.Context, shortCode string, requestingUserID uint) error
	WarmMirror(ctx context.Context) error
}

type URLLifecycleFlowImpl struct {
	urlRepo     repository.URLRepository
	userRepo    repository.UserRepository
	codes       services.ShortCodeGenerator
	mirror      *urlMirror
	baseURL     string
	codeLength  int
	maxAttempts int
}

// NewURLLifecycleFlow creates the URL lifecycle flow. baseURL is the public
// origin short URLs are built from; codeLength and maxAttempts come from
// configuration (6 and 10 in the defaults).
func NewURLLifecycleFlow(
	urlRepo repository.URLRepository,
	userRepo repository.UserRepository,
	codes services.ShortCodeGenerator,
	baseURL string,
	codeLength int,
	maxAttempts int,
) URLLifecycleFlow {
	if codeLength <= 0 {
		codeLength = utils.DefaultShortCodeLength
	}
	if maxAttempts <= 0 {
		maxAttempts = utils.MaxShortCodeAttempts
	}
	return &URLLifecycleFlowImpl{
		urlRepo:     urlRepo,
		userRepo:    userRepo,
		codes:       codes,
		mirror:      newURLMirror(),
		baseURL:     strings.TrimRight(baseURL, "/"),
		codeLength:  codeLength,
		maxAttempts: maxAttempts,
	}
}

// WarmMirror loads all active records from the store into the mirror.
// Called once at startup; the mirror also self-heals on cache misses.
func (f *URLLifecycleFlowImpl) WarmMirror(ctx context.Context) error {
	rows, err := f.urlRepo.ListActive(ctx, 0, 0)
	if err != nil {
		return NewBusinessError("MIRROR_WARMUP_FAILED", "Failed to load active URLs into mirror", err)
	}
	f.mirror.Load(rows)
	return nil
}

// Shorten validates the target URL, deduplicates per owner, allocates a
// unique short code with a bounded retry loop, persists the record and
// then inserts it into the mirror.
func (f *URLLifecycleFlowImpl) Shorten(ctx context.Context, req *dto.ShortenURLRequest, userID *uint) (*dto.ShortenURLResponse, error) {
	if req == nil {
		return nil, NewBusinessError("VALIDATION_ERROR", "Request body is required", ErrInvalidURL)
	}
	originalURL := strings.TrimSpace(req.OriginalURL)
	if !isValidURL(originalURL) {
		return nil, NewBusinessError("INVALID_URL", "original_url is not a valid URL", ErrInvalidURL)
	}

	if userID != nil {
		user, err := f.userRepo.ByID(ctx, *userID)
		if err != nil {
			return nil, NewBusinessError("USER_FETCH_FAILED", "Failed to fetch user", err)
		}
		if user == nil {
			return nil, NewBusinessErrorf("USER_NOT_FOUND", "User %d not found", ErrUserNotFound, *userID)
		}
	}

	// Same target URL submitted twice by the same owner short-circuits to
	// the existing record. Deduplication is per owner; two different users
	// shortening the same URL get distinct codes.
	if existing, ok := f.mirror.FindByOriginalAndOwner(originalURL, userID); ok {
		return &dto.ShortenURLResponse{
			Message: "URL already shortened",
			URL:     f.toURLDTO(ctx, existing),
		}, nil
	}
	existing, err := f.urlRepo.ByOriginalURLAndOwner(ctx, originalURL, userID)
	if err != nil {
		return nil, NewBusinessError("URL_LOOKUP_FAILED", "Failed to look up existing URL", err)
	}
	if existing != nil {
		f.mirror.Put(existing)
		return &dto.ShortenURLResponse{
			Message: "URL already shortened",
			URL:     f.toURLDTO(ctx, existing),
		}, nil
	}

	lockShortCodeGen()
	defer unlockShortCodeGen()

	shortCode, err := f.allocateShortCode(ctx)
	if err != nil {
		return nil, err
	}

	now := utils.UTCNow()
	row := &models.URL{
		UUID:        uuid.New(),
		OriginalURL: originalURL,
		ShortCode:   shortCode,
		UserID:      userID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := f.urlRepo.Save(ctx, row); err != nil {
		return nil, NewBusinessError("URL_CREATE_FAILED", "Failed to create shortened URL", err)
	}
	f.mirror.Put(row)

	return &dto.ShortenURLResponse{
		Message: "URL shortened",
		URL:     f.toURLDTO(ctx, row),
	}, nil
}

// allocateShortCode draws candidate codes until one is free in both the
// mirror and the store, giving up after maxAttempts draws.
// Callers must hold the generation lock.
func (f *URLLifecycleFlowImpl) allocateShortCode(ctx context.Context) (string, error) {
	for attempt := 0; attempt < f.maxAttempts; attempt++ {
		code := f.codes.Generate(f.codeLength)
		if f.mirror.Contains(code) {
			continue
		}
		taken, err := f.urlRepo.ShortCodeTaken(ctx, code)
		if err != nil {
			return "", NewBusinessError("SHORT_CODE_CHECK_FAILED", "Failed to check short code uniqueness", err)
		}
		if !taken {
			return code, nil
		}
	}
	return "", NewBusinessErrorf("SHORT_CODE_EXHAUSTED", "No unique short code found in %d attempts", ErrShortCodeSpaceExhausted, f.maxAttempts)
}

// Resolve maps a short code to its target URL and records the visit. The
// durable increment happens before the URL is returned, but a failed
// increment is logged and swallowed: resolution must not fail because
// bookkeeping did.
func (f *URLLifecycleFlowImpl) Resolve(ctx context.Context, shortCode string) (string, error) {
	row, err := f.activeByShortCode(ctx, shortCode)
	if err != nil {
		return "", err
	}

	now := utils.UTCNow()
	if err := f.urlRepo.IncrementAccessCount(ctx, row.ID, now); err != nil {
		log.Printf("Failed to record visit for short code %s: %v", shortCode, err)
	} else {
		f.mirror.RecordVisit(shortCode, now)
	}

	return row.OriginalURL, nil
}

// GetByShortCode returns the view of an active record without recording a visit
func (f *URLLifecycleFlowImpl) GetByShortCode(ctx context.Context, shortCode string) (*dto.GetURLResponse, error) {
	row, err := f.activeByShortCode(ctx, shortCode)
	if err != nil {
		return nil, err
	}
	return &dto.GetURLResponse{
		Message: "URL retrieved",
		URL:     f.toURLDTO(ctx, row),
	}, nil
}

// ListForUser returns all active records owned by the user
func (f *URLLifecycleFlowImpl) ListForUser(ctx context.Context, userID uint) (*dto.ListURLsResponse, error) {
	user, err := f.userRepo.ByID(ctx, userID)
	if err != nil {
		return nil, NewBusinessError("USER_FETCH_FAILED", "Failed to fetch user", err)
	}
	if user == nil {
		return nil, NewBusinessErrorf("USER_NOT_FOUND", "User %d not found", ErrUserNotFound, userID)
	}

	rows, err := f.urlRepo.ListActiveByUser(ctx, userID)
	if err != nil {
		return nil, NewBusinessError("URL_LIST_FAILED", "Failed to list URLs", err)
	}

	views := make([]dto.URLDTO, 0, len(rows))
	for _, row := range rows {
		f.mirror.Put(row)
		views = append(views, f.toURLDTO(ctx, row))
	}
	return &dto.ListURLsResponse{
		Message: "URLs retrieved",
		URLs:    views,
		Total:   len(views),
	}, nil
}

// Update applies a partial update to a record the requesting user owns.
// An ownership mismatch is reported as not-found so callers cannot probe
// which codes exist.
func (f *URLLifecycleFlowImpl) Update(ctx context.Context, shortCode string, req *dto.UpdateURLRequest, requestingUserID uint) (*dto.UpdateURLResponse, error) {
	if req == nil || (req.OriginalURL == nil && req.ShortCode == nil) {
		return nil, NewBusinessError("UPDATE_FIELDS_REQUIRED", "At least one field must be provided", ErrUpdateFieldsRequired)
	}

	row, err := f.ownedByShortCode(ctx, shortCode, requestingUserID)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if req.OriginalURL != nil {
		target := strings.TrimSpace(*req.OriginalURL)
		if !isValidURL(target) {
			return nil, NewBusinessError("INVALID_URL", "original_url is not a valid URL", ErrInvalidURL)
		}
		updates["original_url"] = target
	}

	lockShortCodeGen()
	defer unlockShortCodeGen()

	newCode := row.ShortCode
	if req.ShortCode != nil && *req.ShortCode != row.ShortCode {
		newCode = *req.ShortCode
		if f.mirror.Contains(newCode) {
			return nil, NewBusinessErrorf("SHORT_CODE_TAKEN", "Short code %s already in use", ErrShortCodeTaken, newCode)
		}
		taken, err := f.urlRepo.ShortCodeTaken(ctx, newCode)
		if err != nil {
			return nil, NewBusinessError("SHORT_CODE_CHECK_FAILED", "Failed to check short code uniqueness", err)
		}
		if taken {
			return nil, NewBusinessErrorf("SHORT_CODE_TAKEN", "Short code %s already in use", ErrShortCodeTaken, newCode)
		}
		updates["short_code"] = newCode
	}

	updates["updated_at"] = utils.UTCNow()
	if err := f.urlRepo.UpdateFields(ctx, row.ID, updates); err != nil {
		return nil, NewBusinessError("URL_UPDATE_FAILED", "Failed to update URL", err)
	}

	fresh, err := f.urlRepo.ByID(ctx, row.ID)
	if err != nil || fresh == nil {
		return nil, NewBusinessError("URL_RELOAD_FAILED", "Failed to reload updated URL", err)
	}
	f.mirror.Replace(shortCode, fresh)

	return &dto.UpdateURLResponse{
		Message: "URL updated",
		URL:     f.toURLDTO(ctx, fresh),
	}, nil
}

// Delete soft-deletes a record the requesting user owns and drops it from
// the mirror, freeing its short code for reuse.
func (f *URLLifecycleFlowImpl) Delete(ctx context.Context, shortCode string, requestingUserID uint) error {
	row, err := f.ownedByShortCode(ctx, shortCode, requestingUserID)
	if err != nil {
		return err
	}

	if err := f.urlRepo.SoftDelete(ctx, row.ID, utils.UTCNow()); err != nil {
		return NewBusinessError("URL_DELETE_FAILED", "Failed to delete URL", err)
	}
	f.mirror.Remove(shortCode)
	return nil
}

// activeByShortCode consults the mirror first and falls back to the store,
// repopulating the mirror on a miss
func (f *URLLifecycleFlowImpl) activeByShortCode(ctx context.Context, shortCode string) (*models.URL, error) {
	if row, ok := f.mirror.Get(shortCode); ok {
		return row, nil
	}
	row, err := f.urlRepo.ByShortCode(ctx, shortCode)
	if err != nil {
		return nil, NewBusinessError("URL_LOOKUP_FAILED", "Failed to look up short code", err)
	}
	if row == nil {
		return nil, NewBusinessErrorf("URL_NOT_FOUND", "Short code %s not found", ErrURLNotFound, shortCode)
	}
	f.mirror.Put(row)
	return row, nil
}

// ownedByShortCode resolves the record and authorizes the requesting user.
// Both "no such code" and "not yours" collapse into the same not-found
// error on purpose.
func (f *URLLifecycleFlowImpl) ownedByShortCode(ctx context.Context, shortCode string, requestingUserID uint) (*models.URL, error) {
	row, err := f.activeByShortCode(ctx, shortCode)
	if err != nil {
		return nil, err
	}
	if !row.IsOwnedBy(requestingUserID) {
		return nil, NewBusinessErrorf("URL_NOT_FOUND", "Short code %s not found", ErrURLNotFound, shortCode)
	}
	return row, nil
}

func (f *URLLifecycleFlowImpl) toURLDTO(ctx context.Context, row *models.URL) dto.URLDTO {
	out := dto.URLDTO{
		ID:          row.ID,
		UUID:        row.UUID.String(),
		OriginalURL: row.OriginalURL,
		ShortCode:   row.ShortCode,
		ShortURL:    f.baseURL + "/" + row.ShortCode,
		CreatedAt:   row.CreatedAt,
		AccessCount: row.AccessCount,
	}
	updated := row.UpdatedAt
	out.UpdatedAt = &updated
	if row.DeletedAt.Valid {
		deleted := row.DeletedAt.Time
		out.DeletedAt = &deleted
	}

	if row.UserID != nil {
		user, err := f.userRepo.ByID(ctx, *row.UserID)
		if err != nil || user == nil {
			// Owner lookup failure is tolerated; the view just omits the
			// owner fields.
			log.Printf("User %d not found for URL %d", *row.UserID, row.ID)
		} else {
			out.UserID = row.UserID
			out.UserName = &user.Name
		}
	}
	return out
}

// isValidURL accepts absolute URLs with a scheme and a host
func isValidURL(raw string) bool {
	if raw == "" {
		return false
	}
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return u.Scheme != "" && u.Host != ""
}
