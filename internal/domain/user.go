package domain

import (
	"time"

	"github.com/google/uuid"
)

// AppUser represents a subscriber account stored in the remote database.
type AppUser struct {
	ID           uuid.UUID `json:"id"`
	Username     string    `json:"username"`
	DisplayName  string    `json:"display_name,omitempty"`
	PasswordHash string    `json:"-"`
	ExpiresAt    time.Time `json:"expires_at"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// NewAppUser creates a new subscriber account.
func NewAppUser(username, displayName string, expiresAt time.Time) *AppUser {
	now := time.Now()
	return &AppUser{
		ID:          uuid.New(),
		Username:    username,
		DisplayName: displayName,
		ExpiresAt:   expiresAt,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// Session is the safe subset of an account persisted locally after login.
// It never carries the password fingerprint.
type Session struct {
	ID          uuid.UUID `json:"id"`
	Username    string    `json:"username"`
	DisplayName string    `json:"display_name,omitempty"`
	ExpiresAt   time.Time `json:"expires_at"`
	IsActive    bool      `json:"is_active"`
}

// SessionFromUser derives the persistable session payload from an account.
func SessionFromUser(u *AppUser) *Session {
	return &Session{
		ID:          u.ID,
		Username:    u.Username,
		DisplayName: u.DisplayName,
		ExpiresAt:   u.ExpiresAt,
		IsActive:    u.IsActive,
	}
}

// HasAccess reports whether the session grants access at the given instant.
// Recomputed on demand, never cached.
func (s *Session) HasAccess(now time.Time) bool {
	if s == nil {
		return false
	}
	return s.IsActive && now.Before(s.ExpiresAt)
}

// UserRepository defines the interface for subscriber persistence.
type UserRepository interface {
	Create(user *AppUser) error
	GetByID(id uuid.UUID) (*AppUser, error)
	GetByUsername(username string) (*AppUser, error)
	Update(user *AppUser) error
	Delete(id uuid.UUID) error
}
