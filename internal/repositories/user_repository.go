package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"chat-relay/internal/models"
)

var (
	ErrUserNotFound  = errors.New("user not found")
	ErrEmailTaken    = errors.New("email already exists")
	ErrTokenNotFound = errors.New("token not found")
)

// uniqueViolation is the Postgres error code for duplicate keys.
const uniqueViolation = "23505"

// UserRepository owns user records: credentials, tokens and the
// online flag. The relay consumes the token/presence subset of it as
// its credential gateway; the HTTP auth handlers use the rest.
type UserRepository interface {
	CreateUser(ctx context.Context, email, username, passwordHash string) error
	GetByEmail(ctx context.Context, email string) (models.User, error)
	IssueToken(ctx context.Context, email string) (string, error)
	ClearToken(ctx context.Context, token string) error
	ResolveToken(ctx context.Context, token string) (models.User, error)
	SetOnline(ctx context.Context, email string) error
	SetOffline(ctx context.Context, email string) error
	ListOnlineUsernames(ctx context.Context) ([]string, error)
}

// UserRepo is a sqlx-backed repository.
type UserRepo struct {
	db *sqlx.DB
}

// NewUserRepo constructs UserRepo.
func NewUserRepo(db *sqlx.DB) *UserRepo {
	return &UserRepo{db: db}
}

// CreateUser stores a new account, logged out and offline.
func (r *UserRepo) CreateUser(ctx context.Context, email, username, passwordHash string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (email, username, password_hash, token, status) VALUES ($1, $2, $3, NULL, 'offline')`,
		email, username, passwordHash)
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return ErrEmailTaken
	}
	return err
}

// GetByEmail fetches an account by its identity key.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (models.User, error) {
	var user models.User
	err := r.db.GetContext(ctx, &user,
		`SELECT id, email, username, password_hash, token, status, created_at FROM users WHERE email=$1`, email)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, ErrUserNotFound
	}
	return user, err
}

// IssueToken stores a fresh bearer token and marks the user online.
func (r *UserRepo) IssueToken(ctx context.Context, email string) (string, error) {
	token := uuid.NewString()
	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET token=$1, status='online' WHERE email=$2`, token, email)
	if err != nil {
		return "", err
	}
	count, err := res.RowsAffected()
	if err != nil {
		return "", err
	}
	if count == 0 {
		return "", ErrUserNotFound
	}
	return token, nil
}

// ClearToken logs the token's owner out: token NULL, status offline.
// Unknown tokens are a no-op, mirroring the logout endpoint contract.
func (r *UserRepo) ClearToken(ctx context.Context, token string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE users SET token=NULL, status='offline' WHERE token=$1`, token)
	return err
}

// ResolveToken maps a live token to its user.
func (r *UserRepo) ResolveToken(ctx context.Context, token string) (models.User, error) {
	var user models.User
	err := r.db.GetContext(ctx, &user,
		`SELECT id, email, username, password_hash, token, status, created_at FROM users WHERE token=$1`, token)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, ErrTokenNotFound
	}
	return user, err
}

// SetOnline flips the online flag for the user.
func (r *UserRepo) SetOnline(ctx context.Context, email string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE users SET status='online' WHERE email=$1`, email)
	return err
}

// SetOffline flips the online flag off for the user.
func (r *UserRepo) SetOffline(ctx context.Context, email string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE users SET status='offline' WHERE email=$1`, email)
	return err
}

// ListOnlineUsernames returns the display names currently marked online.
func (r *UserRepo) ListOnlineUsernames(ctx context.Context) ([]string, error) {
	var usernames []string
	err := r.db.SelectContext(ctx, &usernames, `SELECT username FROM users WHERE status='online' ORDER BY username`)
	return usernames, err
}
