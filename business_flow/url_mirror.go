package businessflow

import (
	"sync"
	"time"

	"github.com/urlite/urlite/models"
)

// urlMirror is an in-process cache of the active (non-deleted) URL records,
// keyed by short code. It is secondary to durable storage: every mutation
// goes to the repository first and the mirror is reconciled afterwards, so
// on any conflict the stored row wins. All access goes through the mutex;
// entries are copied on the way in and out so callers never share memory
// with the cache.
type urlMirror struct {
	mu     sync.RWMutex
	byCode map[string]models.URL
}

func newURLMirror() *urlMirror {
	return &urlMirror{byCode: make(map[string]models.URL)}
}

// Load replaces the mirror contents with the given active records
func (m *urlMirror) Load(rows []*models.URL) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.byCode = make(map[string]models.URL, len(rows))
	for _, row := range rows {
		m.byCode[row.ShortCode] = *row
	}
}

// Get returns a copy of the active record holding the code
func (m *urlMirror) Get(shortCode string) (*models.URL, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	row, ok := m.byCode[shortCode]
	if !ok {
		return nil, false
	}
	out := row
	return &out, true
}

// Put inserts or replaces the record under its current short code
func (m *urlMirror) Put(row *models.URL) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.byCode[row.ShortCode] = *row
}

// Replace removes the entry under oldCode and stores the record under its
// current code. Used when an update changes the short code.
func (m *urlMirror) Replace(oldCode string, row *models.URL) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.byCode, oldCode)
	m.byCode[row.ShortCode] = *row
}

// Remove drops the entry for the code, if present
func (m *urlMirror) Remove(shortCode string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.byCode, shortCode)
}

// Contains reports whether an active record holds the code
func (m *urlMirror) Contains(shortCode string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.byCode[shortCode]
	return ok
}

// FindByOriginalAndOwner returns a copy of the active record with the same
// target URL and the same owner (nil owner matches anonymous records only)
func (m *urlMirror) FindByOriginalAndOwner(originalURL string, userID *uint) (*models.URL, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, row := range m.byCode {
		if row.OriginalURL != originalURL {
			continue
		}
		if userID == nil {
			if row.UserID == nil {
				out := row
				return &out, true
			}
			continue
		}
		if row.UserID != nil && *row.UserID == *userID {
			out := row
			return &out, true
		}
	}
	return nil, false
}

// RecordVisit bumps the cached access count after a durable increment
func (m *urlMirror) RecordVisit(shortCode string, at time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	row, ok := m.byCode[shortCode]
	if !ok {
		return
	}
	row.AccessCount++
	row.UpdatedAt = at
	visited := at
	row.LastVisitedAt = &visited
	m.byCode[shortCode] = row
}

// Len returns the number of cached active records
func (m *urlMirror) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.byCode)
}
