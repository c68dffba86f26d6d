// Package session issues and validates opaque bearer tokens for
// authenticated requests. Tokens are stored only as peppered HMAC-SHA256
// hashes.
package session

import (
	"context"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"time"

	"github.com/go-faster/errors"
)

// ErrUnauthorized is returned for missing, unknown, or expired tokens.
var ErrUnauthorized = errors.New("unauthorized")

// tokenBytes is the entropy of an issued token (hex-encoded to 64 chars).
const tokenBytes = 32

// Session is a stored login session. TokenHash is the hex HMAC-SHA256 of the
// issued token; the token itself is never persisted.
type Session struct {
	TokenHash string    `json:"tokenHash"`
	UserID    string    `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Expired reports whether the session has expired at the given time.
func (s *Session) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}

// Repository defines persistence operations for sessions.
type Repository interface {
	Create(ctx context.Context, s *Session) error
	FindByHash(ctx context.Context, hash string) (*Session, error)
	Delete(ctx context.Context, hash string) error
}

// Manager issues, authenticates, and revokes bearer tokens.
type Manager struct {
	sessions Repository
	pepper   []byte
	ttl      time.Duration
	now      func() time.Time
}

// NewManager creates a Manager. The pepper is mixed into every token hash so
// a leaked session table cannot be replayed without the server config.
func NewManager(sessions Repository, pepper []byte, ttl time.Duration) *Manager {
	return &Manager{
		sessions: sessions,
		pepper:   pepper,
		ttl:      ttl,
		now:      time.Now,
	}
}

// Issue creates a session for userID and returns the opaque token the client
// must present as a bearer credential.
func (m *Manager) Issue(ctx context.Context, userID string) (string, error) {
	raw := make([]byte, tokenBytes)
	if _, err := rand.Read(raw); err != nil {
		return "", errors.Wrap(err, "generate token")
	}
	token := hex.EncodeToString(raw)

	now := m.now().UTC()
	s := &Session{
		TokenHash: m.hash(token),
		UserID:    userID,
		CreatedAt: now,
		ExpiresAt: now.Add(m.ttl),
	}
	if err := m.sessions.Create(ctx, s); err != nil {
		return "", errors.Wrap(err, "store session")
	}

	return token, nil
}

// Authenticate resolves a presented token to the owning user id. It returns
// ErrUnauthorized for unknown or expired tokens; expired sessions are
// deleted as a side effect.
func (m *Manager) Authenticate(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", ErrUnauthorized
	}
	hash := m.hash(token)

	s, err := m.sessions.FindByHash(ctx, hash)
	if err != nil {
		return "", ErrUnauthorized
	}

	// Constant-time comparison guards against a repository returning a
	// stale or wrong row.
	if subtle.ConstantTimeCompare([]byte(hash), []byte(s.TokenHash)) != 1 {
		return "", ErrUnauthorized
	}

	if s.Expired(m.now().UTC()) {
		_ = m.sessions.Delete(ctx, hash)
		return "", ErrUnauthorized
	}

	return s.UserID, nil
}

// Revoke deletes the session for the presented token. Revoking an unknown
// token is not an error.
func (m *Manager) Revoke(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return m.sessions.Delete(ctx, m.hash(token))
}

func (m *Manager) hash(token string) string {
	mac := hmac.New(sha256.New, m.pepper)
	mac.Write([]byte(token))
	return hex.EncodeToString(mac.Sum(nil))
}
