package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sweetsalty/backend/internal/domain/user"
)

const (
	createUserSQL = `INSERT INTO users (id, email, password_hash, name, phone, address,
			language, notifications, avatar, favorites, created_at)
		VALUES ($1, lower($2), $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	findUserByIDSQL = `SELECT id, email, password_hash, name, phone, address,
			language, notifications, avatar, favorites, created_at
		FROM users WHERE id = $1`

	findUserByEmailSQL = `SELECT id, email, password_hash, name, phone, address,
			language, notifications, avatar, favorites, created_at
		FROM users WHERE email = lower($1)`

	updateUserSQL = `UPDATE users SET name = $2, phone = $3, address = $4,
			language = $5, notifications = $6, avatar = $7, favorites = $8
		WHERE id = $1`
)

// uniqueViolation is the PostgreSQL error code raised by the users email
// unique constraint.
const uniqueViolation = "23505"

var _ user.Repository = (*UserRepository)(nil)

// UserRepository implements user.Repository backed by PostgreSQL.
type UserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository returns a UserRepository that uses the given pool.
func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

// Create inserts a new profile, stamping CreatedAt when the caller left it
// unset. Duplicate emails map to user.ErrEmailTaken.
func (r *UserRepository) Create(ctx context.Context, p *user.Profile) error {
	favorites, err := json.Marshal(p.Favorites)
	if err != nil {
		return fmt.Errorf("marshaling favorites: %w", err)
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}

	_, err = r.pool.Exec(ctx, createUserSQL,
		p.ID, p.Email, p.PasswordHash, p.Name, p.Phone, p.Address,
		string(p.Language), p.Notifications, p.Avatar, favorites, p.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return user.ErrEmailTaken
		}
		return fmt.Errorf("creating user %q: %w", p.ID, err)
	}
	return nil
}

// FindByID returns the profile with the given id.
func (r *UserRepository) FindByID(ctx context.Context, id string) (*user.Profile, error) {
	return r.findOne(ctx, findUserByIDSQL, id)
}

// FindByEmail returns the profile with the given email.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*user.Profile, error) {
	return r.findOne(ctx, findUserByEmailSQL, email)
}

// Update replaces the mutable profile fields for the row with the same id.
func (r *UserRepository) Update(ctx context.Context, p *user.Profile) error {
	favorites, err := json.Marshal(p.Favorites)
	if err != nil {
		return fmt.Errorf("marshaling favorites: %w", err)
	}

	tag, err := r.pool.Exec(ctx, updateUserSQL,
		p.ID, p.Name, p.Phone, p.Address,
		string(p.Language), p.Notifications, p.Avatar, favorites,
	)
	if err != nil {
		return fmt.Errorf("updating user %q: %w", p.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return user.ErrNotFound
	}
	return nil
}

func (r *UserRepository) findOne(ctx context.Context, sql string, arg any) (*user.Profile, error) {
	var (
		p         user.Profile
		language  string
		favorites []byte
	)
	err := r.pool.QueryRow(ctx, sql, arg).Scan(
		&p.ID, &p.Email, &p.PasswordHash, &p.Name, &p.Phone, &p.Address,
		&language, &p.Notifications, &p.Avatar, &favorites, &p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, user.ErrNotFound
		}
		return nil, fmt.Errorf("finding user: %w", err)
	}
	p.Language = user.Locale(language)

	if len(favorites) > 0 {
		if err := json.Unmarshal(favorites, &p.Favorites); err != nil {
			return nil, fmt.Errorf("decoding favorites for user %q: %w", p.ID, err)
		}
	}
	return &p, nil
}
