package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/arenatv/backend/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// UserRepository implements domain.UserRepository with PostgreSQL
type UserRepository struct {
	db *pgxpool.Pool
}

// NewUserRepository creates a new PostgreSQL user repository
func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a new subscriber account
func (r *UserRepository) Create(user *domain.AppUser) error {
	ctx := context.Background()

	query := `
		INSERT INTO app_users (id, username, display_name, password_hash, expires_at, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.Exec(ctx, query,
		user.ID,
		user.Username,
		user.DisplayName,
		user.PasswordHash,
		user.ExpiresAt,
		user.IsActive,
		user.CreatedAt,
		user.UpdatedAt,
	)

	return err
}

// GetByID retrieves an account by ID
func (r *UserRepository) GetByID(id uuid.UUID) (*domain.AppUser, error) {
	query := `
		SELECT id, username, display_name, password_hash, expires_at, is_active, created_at, updated_at
		FROM app_users WHERE id = $1
	`
	return r.scanOne(query, id)
}

// GetByUsername retrieves an account by its normalized username. Returns an
// error wrapping domain.ErrNotFound when no account matches.
func (r *UserRepository) GetByUsername(username string) (*domain.AppUser, error) {
	query := `
		SELECT id, username, display_name, password_hash, expires_at, is_active, created_at, updated_at
		FROM app_users WHERE username = $1
	`
	return r.scanOne(query, username)
}

func (r *UserRepository) scanOne(query string, arg interface{}) (*domain.AppUser, error) {
	ctx := context.Background()

	var user domain.AppUser
	err := r.db.QueryRow(ctx, query, arg).Scan(
		&user.ID,
		&user.Username,
		&user.DisplayName,
		&user.PasswordHash,
		&user.ExpiresAt,
		&user.IsActive,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("user: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("user query: %w", err)
	}

	return &user, nil
}

// Update updates an existing account
func (r *UserRepository) Update(user *domain.AppUser) error {
	ctx := context.Background()

	query := `
		UPDATE app_users
		SET username = $1, display_name = $2, expires_at = $3, is_active = $4, updated_at = $5
		WHERE id = $6
	`

	_, err := r.db.Exec(ctx, query,
		user.Username,
		user.DisplayName,
		user.ExpiresAt,
		user.IsActive,
		time.Now(),
		user.ID,
	)

	return err
}

// Delete removes an account
func (r *UserRepository) Delete(id uuid.UUID) error {
	ctx := context.Background()
	query := `DELETE FROM app_users WHERE id = $1`
	_, err := r.db.Exec(ctx, query, id)
	return err
}
