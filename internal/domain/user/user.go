// Package user defines customer profiles, preferences, and their store.
package user

import (
	"context"
	"time"

	"github.com/go-faster/errors"
)

// Errors returned by Repository implementations.
var (
	ErrNotFound   = errors.New("user not found")
	ErrEmailTaken = errors.New("user already exists")
)

// Locale is the bilingual display mode selected per user.
type Locale string

const (
	LocaleEN Locale = "en"
	LocaleAR Locale = "ar"
)

// Valid reports whether l is one of the supported locales.
func (l Locale) Valid() bool {
	return l == LocaleEN || l == LocaleAR
}

// Preferences is the small serializable value object holding per-user display
// settings, loaded and saved at session boundaries. Defaults match the
// storefront: Arabic with notifications on.
type Preferences struct {
	Language      Locale `json:"language"`
	Notifications bool   `json:"notifications"`
}

// DefaultPreferences returns the preferences applied to new accounts.
func DefaultPreferences() Preferences {
	return Preferences{Language: LocaleAR, Notifications: true}
}

// Profile is a registered customer. PasswordHash is a bcrypt hash; it is
// compared server-side during login and never serialized into API responses.
type Profile struct {
	ID            string    `json:"id"`
	Email         string    `json:"email"`
	PasswordHash  string    `json:"passwordHash"`
	Name          string    `json:"name"`
	Phone         string    `json:"phone"`
	Address       string    `json:"address"`
	Language      Locale    `json:"language"`
	Notifications bool      `json:"notifications"`
	Avatar        string    `json:"avatar,omitempty"`
	Favorites     []string  `json:"favorites,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}

// Preferences extracts the profile's preference fields.
func (p *Profile) Preferences() Preferences {
	return Preferences{Language: p.Language, Notifications: p.Notifications}
}

// Repository defines persistence operations for user profiles.
// Create fails with ErrEmailTaken when the email is already registered;
// lookups fail with ErrNotFound.
type Repository interface {
	Create(ctx context.Context, p *Profile) error
	FindByID(ctx context.Context, id string) (*Profile, error)
	FindByEmail(ctx context.Context, email string) (*Profile, error)
	Update(ctx context.Context, p *Profile) error
}
