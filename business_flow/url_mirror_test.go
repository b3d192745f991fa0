package businessflow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/urlite/urlite/models"
	"github.com/urlite/urlite/utils"
)

func TestURLMirror(t *testing.T) {
	row := func(id uint, code, target string, userID *uint) *models.URL {
		return &models.URL{
			ID:          id,
			OriginalURL: target,
			ShortCode:   code,
			UserID:      userID,
			CreatedAt:   utils.UTCNow(),
			UpdatedAt:   utils.UTCNow(),
		}
	}

	t.Run("PutGetRemove", func(t *testing.T) {
		m := newURLMirror()
		m.Put(row(1, "abc123", "https://example.com", nil))

		got, ok := m.Get("abc123")
		require.True(t, ok)
		assert.Equal(t, "https://example.com", got.OriginalURL)
		assert.True(t, m.Contains("abc123"))
		assert.Equal(t, 1, m.Len())

		m.Remove("abc123")
		assert.False(t, m.Contains("abc123"))
		_, ok = m.Get("abc123")
		assert.False(t, ok)
	})

	t.Run("CopiesDoNotShareMemory", func(t *testing.T) {
		m := newURLMirror()
		original := row(1, "abc123", "https://example.com", nil)
		m.Put(original)

		// Mutating the caller's struct must not reach the cache
		original.OriginalURL = "https://tampered.example.com"
		got, ok := m.Get("abc123")
		require.True(t, ok)
		assert.Equal(t, "https://example.com", got.OriginalURL)

		// Mutating a returned copy must not reach the cache either
		got.OriginalURL = "https://also-tampered.example.com"
		again, ok := m.Get("abc123")
		require.True(t, ok)
		assert.Equal(t, "https://example.com", again.OriginalURL)
	})

	t.Run("LoadReplacesContents", func(t *testing.T) {
		m := newURLMirror()
		m.Put(row(1, "old111", "https://example.com/old", nil))

		m.Load([]*models.URL{
			row(2, "new111", "https://example.com/a", nil),
			row(3, "new222", "https://example.com/b", nil),
		})

		assert.False(t, m.Contains("old111"))
		assert.True(t, m.Contains("new111"))
		assert.True(t, m.Contains("new222"))
		assert.Equal(t, 2, m.Len())
	})

	t.Run("ReplaceMovesEntry", func(t *testing.T) {
		m := newURLMirror()
		m.Put(row(1, "before", "https://example.com", nil))

		m.Replace("before", row(1, "after1", "https://example.com", nil))
		assert.False(t, m.Contains("before"))
		assert.True(t, m.Contains("after1"))
	})

	t.Run("FindByOriginalAndOwner", func(t *testing.T) {
		m := newURLMirror()
		alice := uint(1)
		bob := uint(2)
		m.Put(row(1, "anon01", "https://example.com/shared", nil))
		m.Put(row(2, "alic01", "https://example.com/shared", &alice))

		got, ok := m.FindByOriginalAndOwner("https://example.com/shared", nil)
		require.True(t, ok)
		assert.Equal(t, "anon01", got.ShortCode)

		got, ok = m.FindByOriginalAndOwner("https://example.com/shared", &alice)
		require.True(t, ok)
		assert.Equal(t, "alic01", got.ShortCode)

		_, ok = m.FindByOriginalAndOwner("https://example.com/shared", &bob)
		assert.False(t, ok)

		_, ok = m.FindByOriginalAndOwner("https://example.com/other", nil)
		assert.False(t, ok)
	})

	t.Run("RecordVisit", func(t *testing.T) {
		m := newURLMirror()
		m.Put(row(1, "abc123", "https://example.com", nil))

		now := utils.UTCNow()
		m.RecordVisit("abc123", now)
		m.RecordVisit("abc123", now)

		got, ok := m.Get("abc123")
		require.True(t, ok)
		assert.EqualValues(t, 2, got.AccessCount)
		require.NotNil(t, got.LastVisitedAt)
		assert.Equal(t, now, *got.LastVisitedAt)

		// Unknown codes are ignored
		m.RecordVisit("zzzzzz", now)
	})
}
