package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"gamelounge/internal/models"
)

// ErrUserNotFound indicates a missing player row.
var ErrUserNotFound = errors.New("user not found")

// UserRepository handles CRUD for lounge players.
type UserRepository struct {
	db *sql.DB
}

// NewUserRepository returns repository instance.
func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a new player.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	const query = `
		INSERT INTO users (name, phone, email, is_active, created_at)
		VALUES ($1, $2, $3, true, NOW())
		RETURNING id, is_active, created_at
	`
	user.Name = strings.TrimSpace(user.Name)
	return r.db.QueryRowContext(ctx, query, user.Name, user.Phone, user.Email).
		Scan(&user.ID, &user.IsActive, &user.CreatedAt)
}

// GetByID fetches one player.
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	const query = `
		SELECT id, name, phone, email, is_active, created_at
		FROM users
		WHERE id = $1
	`
	var u models.User
	err := r.db.QueryRowContext(ctx, query, id).
		Scan(&u.ID, &u.Name, &u.Phone, &u.Email, &u.IsActive, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

// ListActive returns players who may start sessions.
func (r *UserRepository) ListActive(ctx context.Context) ([]models.User, error) {
	const query = `
		SELECT id, name, phone, email, is_active, created_at
		FROM users
		WHERE is_active = true
		ORDER BY name
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Phone, &u.Email, &u.IsActive, &u.CreatedAt); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return users, nil
}
