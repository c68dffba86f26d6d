package memory

import (
	"context"
	"strings"
	"time"

	"github.com/sweetsalty/backend/internal/domain/user"
)

type userRepo struct {
	s *Store
}

var _ user.Repository = userRepo{}

// Create appends a new profile, stamping CreatedAt when the caller left it
// unset. It fails with user.ErrEmailTaken when the email is already
// registered (case-insensitive).
func (r userRepo) Create(_ context.Context, p *user.Profile) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existing := range r.s.db.Users {
		if strings.EqualFold(existing.Email, p.Email) {
			return user.ErrEmailTaken
		}
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	r.s.db.Users = append(r.s.db.Users, copyProfile(*p))
	return nil
}

// FindByID returns the profile with the given id.
func (r userRepo) FindByID(_ context.Context, id string) (*user.Profile, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, p := range r.s.db.Users {
		if p.ID == id {
			cp := copyProfile(p)
			return &cp, nil
		}
	}
	return nil, user.ErrNotFound
}

// FindByEmail returns the profile with the given email (case-insensitive).
func (r userRepo) FindByEmail(_ context.Context, email string) (*user.Profile, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, p := range r.s.db.Users {
		if strings.EqualFold(p.Email, email) {
			cp := copyProfile(p)
			return &cp, nil
		}
	}
	return nil, user.ErrNotFound
}

// Update replaces the stored profile with the same id.
func (r userRepo) Update(_ context.Context, p *user.Profile) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for i := range r.s.db.Users {
		if r.s.db.Users[i].ID == p.ID {
			r.s.db.Users[i] = copyProfile(*p)
			return nil
		}
	}
	return user.ErrNotFound
}

func copyProfile(p user.Profile) user.Profile {
	cp := p
	cp.Favorites = append([]string(nil), p.Favorites...)
	return cp
}
