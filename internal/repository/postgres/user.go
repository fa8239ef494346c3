package postgres

import (
	"context"
	"database/sql"
	"errors"

	"zapshift/internal/domain"
	"zapshift/internal/repository"
)

// UserRepository is a PostgreSQL implementation of repository.UserRepository.
type UserRepository struct {
	q Querier
}

// NewUserRepository creates a new PostgreSQL user repository.
func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{q: db}
}

// NewUserRepositoryWithTx creates a user repository using a transaction.
func NewUserRepositoryWithTx(tx *sql.Tx) *UserRepository {
	return &UserRepository{q: tx}
}

// Create persists a new user.
func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	query := `INSERT INTO users (id, name, email, role, created_at) VALUES ($1, $2, $3, $4, $5)`

	_, err := r.q.ExecContext(ctx, query, user.ID, user.Name, user.Email, user.Role, user.CreatedAt)
	return err
}

// GetByEmail retrieves a user by email.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT id, name, email, role, created_at FROM users WHERE email = $1`

	var user domain.User
	err := r.q.QueryRowContext(ctx, query, email).Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.Role,
		&user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	return &user, nil
}

// GetAll retrieves all users, newest first.
func (r *UserRepository) GetAll(ctx context.Context) ([]*domain.User, error) {
	query := `SELECT id, name, email, role, created_at FROM users ORDER BY created_at DESC`

	rows, err := r.q.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*domain.User
	for rows.Next() {
		var user domain.User
		if err := rows.Scan(&user.ID, &user.Name, &user.Email, &user.Role, &user.CreatedAt); err != nil {
			return nil, err
		}
		users = append(users, &user)
	}

	return users, rows.Err()
}

// UpdateRole updates the role of the user with the given email.
func (r *UserRepository) UpdateRole(ctx context.Context, email string, role domain.Role) error {
	result, err := r.q.ExecContext(ctx, `UPDATE users SET role = $1 WHERE email = $2`, role, email)
	if err != nil {
		return err
	}

	return requireRowsAffected(result)
}
