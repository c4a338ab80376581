package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"gamelounge/internal/models"
)

// ErrOperatorNotFound represents missing operator rows.
var ErrOperatorNotFound = errors.New("operator not found")

// OperatorRepository handles staff accounts.
type OperatorRepository struct {
	db *sql.DB
}

// NewOperatorRepository returns repository instance.
func NewOperatorRepository(db *sql.DB) *OperatorRepository {
	return &OperatorRepository{db: db}
}

// Create inserts a new operator.
func (r *OperatorRepository) Create(ctx context.Context, operator *models.Operator) error {
	operator.Login = strings.ToLower(strings.TrimSpace(operator.Login))
	const query = `
		INSERT INTO operators (login, password_hash, role, created_at)
		VALUES ($1, $2, $3, NOW())
		RETURNING id, created_at
	`
	return r.db.QueryRowContext(ctx, query, operator.Login, operator.PasswordHash, operator.Role).
		Scan(&operator.ID, &operator.CreatedAt)
}

// GetByLogin fetches an operator by login.
func (r *OperatorRepository) GetByLogin(ctx context.Context, login string) (*models.Operator, error) {
	const query = `
		SELECT id, login, password_hash, role, created_at
		FROM operators
		WHERE login = $1
		LIMIT 1
	`
	row := r.db.QueryRowContext(ctx, query, strings.ToLower(strings.TrimSpace(login)))
	var operator models.Operator
	if err := row.Scan(&operator.ID, &operator.Login, &operator.PasswordHash, &operator.Role, &operator.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrOperatorNotFound
		}
		return nil, err
	}
	return &operator, nil
}
