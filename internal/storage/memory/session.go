package memory

import (
	"context"
	"time"

	"github.com/sweetsalty/backend/internal/domain/session"
)

type sessionRepo struct {
	s *Store
}

var _ session.Repository = sessionRepo{}

// Create stores a new session.
func (r sessionRepo) Create(_ context.Context, sess *session.Session) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.db.Sessions = append(r.s.db.Sessions, *sess)
	return nil
}

// FindByHash returns the session with the given token hash.
func (r sessionRepo) FindByHash(_ context.Context, hash string) (*session.Session, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, sess := range r.s.db.Sessions {
		if sess.TokenHash == hash {
			cp := sess
			return &cp, nil
		}
	}
	return nil, session.ErrUnauthorized
}

// Delete removes the session with the given token hash. Deleting an unknown
// hash is a no-op.
func (r sessionRepo) Delete(_ context.Context, hash string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for i, sess := range r.s.db.Sessions {
		if sess.TokenHash == hash {
			r.s.db.Sessions = append(r.s.db.Sessions[:i], r.s.db.Sessions[i+1:]...)
			return nil
		}
	}
	return nil
}

// DeleteExpired removes sessions whose expiry has passed and reports how
// many were dropped.
func (r sessionRepo) DeleteExpired(_ context.Context) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	now := time.Now()
	kept := r.s.db.Sessions[:0]
	var dropped int64
	for _, sess := range r.s.db.Sessions {
		if sess.ExpiresAt.Before(now) {
			dropped++
			continue
		}
		kept = append(kept, sess)
	}
	r.s.db.Sessions = kept
	return dropped, nil
}
