package models

import "time"

// User is an API principal. The key is an opaque token used for request
// attribution and rate-limit scoping only.
type User struct {
	ID        int64     `json:"id"`
	APIKey    string    `json:"api_key"`
	Email     string    `json:"email,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	IsActive  bool      `json:"is_active"`
}

type CreateUserRequest struct {
	Email string `json:"email,omitempty"`
}

type CreateUserResponse struct {
	APIKey    string    `json:"api_key"`
	Email     string    `json:"email,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type UserInfoResponse struct {
	Email       string    `json:"email,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	TotalURLs   int64     `json:"total_urls"`
	TotalClicks int64     `json:"total_clicks"`
}
