package dto

import (
	"time"

	"github.com/spec-kit/office-helpdesk/internal/domain"
)

// LoginRequest payload.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse contains the session token.
type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// SessionResponse is returned by login and /auth/me.
type SessionResponse struct {
	User        domain.User          `json:"user"`
	Auth        *AuthResponse        `json:"auth,omitempty"`
	Permissions []string             `json:"permissions"`
	Settings    *domain.UserSettings `json:"settings,omitempty"`
	Unread      int                  `json:"unreadNotifications"`
}

// SettingsRequest merges the present fields into the session settings.
type SettingsRequest struct {
	Theme                *domain.Theme `json:"theme"`
	EmailNotifications   *bool         `json:"emailNotifications"`
	DesktopNotifications *bool         `json:"desktopNotifications"`
	Language             *string       `json:"language"`
}

// NotificationListResponse is the session feed.
type NotificationListResponse struct {
	Items  []domain.Notification `json:"items"`
	Unread int                   `json:"unread"`
}

// CreateUserRequest payload.
type CreateUserRequest struct {
	Name       string          `json:"name"`
	Email      string          `json:"email"`
	Avatar     string          `json:"avatar"`
	Role       domain.UserRole `json:"role"`
	Department string          `json:"department"`
	Position   string          `json:"position"`
	Phone      string          `json:"phone"`
}

// UpdateUserRequest merges the present fields into a user.
type UpdateUserRequest struct {
	Name       *string          `json:"name"`
	Email      *string          `json:"email"`
	Avatar     *string          `json:"avatar"`
	Role       *domain.UserRole `json:"role"`
	Department *string          `json:"department"`
	Position   *string          `json:"position"`
	Phone      *string          `json:"phone"`
}
