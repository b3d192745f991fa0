package dto

import "time"

// ShortenURLRequest is the body of POST /api/v1/shorten
type ShortenURLRequest struct {
	OriginalURL string `json:"original_url" validate:"required,max=2048"`
}

// UpdateURLRequest is the partial-update body of PUT /api/v1/urls/{shortCode}
// Only the supplied fields are applied
type UpdateURLRequest struct {
	OriginalURL *string `json:"original_url,omitempty" validate:"omitempty,max=2048"`
	ShortCode   *string `json:"short_code,omitempty" validate:"omitempty,min=4,max=64,alphanum"`
}

// URLDTO is the external view of a shortened URL record
// UserID and UserName are present only for owned records whose owner
// could be resolved
type URLDTO struct {
	ID          uint       `json:"id"`
	UUID        string     `json:"uuid"`
	OriginalURL string     `json:"original_url"`
	ShortCode   string     `json:"short_code"`
	ShortURL    string     `json:"short_url"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
	DeletedAt   *time.Time `json:"deleted_at,omitempty"`
	AccessCount uint64     `json:"access_count"`
	UserID      *uint      `json:"user_id,omitempty"`
	UserName    *string    `json:"user_name,omitempty"`
}

type ShortenURLResponse struct {
	Message string `json:"message"`
	URL     URLDTO `json:"url"`
}

type GetURLResponse struct {
	Message string `json:"message"`
	URL     URLDTO `json:"url"`
}

type ListURLsResponse struct {
	Message string   `json:"message"`
	URLs    []URLDTO `json:"urls"`
	Total   int      `json:"total"`
}

type UpdateURLResponse struct {
	Message string `json:"message"`
	URL     URLDTO `json:"url"`
}
