package models

import "time"

// URL is one row of the urls table. ShortCode is unique across generated
// and custom codes alike; rows are deactivated, never deleted.
type URL struct {
	ID          int64      `json:"id"`
	OriginalURL string     `json:"original_url"`
	ShortCode   string     `json:"short_code"`
	UserID      *int64     `json:"user_id,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
	IsActive    bool       `json:"is_active"`
	ClickCount  int64      `json:"click_count"`
	IsCustom    bool       `json:"is_custom"`
}

func (u *URL) IsExpired(now time.Time) bool {
	return u.ExpiresAt != nil && now.After(*u.ExpiresAt)
}

type ShortenRequest struct {
	URL           string `json:"url"`
	CustomCode    string `json:"custom_code,omitempty"`
	APIKey        string `json:"api_key,omitempty"`
	ExpiresInDays int    `json:"expires_in_days,omitempty"`
}

type ShortenResponse struct {
	ShortURL    string     `json:"short_url"`
	ShortCode   string     `json:"short_code"`
	OriginalURL string     `json:"original_url"`
	CreatedAt   time.Time  `json:"created_at"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
	QRCode      string     `json:"qr_code,omitempty"`
}

type StatsResponse struct {
	URL          *URL             `json:"url"`
	TotalClicks  int64            `json:"total_clicks"`
	DailyClicks  map[string]int64 `json:"daily_clicks"`
	RecentClicks []ClickRecord    `json:"recent_clicks"`
}

// ClickRecord is the outward shape of one clicks row.
type ClickRecord struct {
	ClickedAt  time.Time `json:"clicked_at"`
	IPAddress  string    `json:"ip_address,omitempty"`
	UserAgent  string    `json:"user_agent,omitempty"`
	Referer    string    `json:"referer,omitempty"`
	Country    string    `json:"country,omitempty"`
	Browser    string    `json:"browser,omitempty"`
	OS         string    `json:"os,omitempty"`
	DeviceType string    `json:"device_type,omitempty"`
}

type ListURLsResponse struct {
	URLs  []*URL `json:"urls"`
	Total int64  `json:"total"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
