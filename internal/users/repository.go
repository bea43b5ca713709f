package users

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/samridhi-events/backend/internal/models"
)

// Repository handles user administration persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a users repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// List returns all users, optionally filtered by role.
func (r *Repository) List(ctx context.Context, role *models.Role) ([]models.UserPublic, error) {
	base := `SELECT id, email, full_name, role, created_at FROM users`
	var args []interface{}
	var cond string
	if role != nil {
		cond = " WHERE role = $1"
		args = append(args, string(*role))
	}
	rows, err := r.pool.Query(ctx, base+cond+" ORDER BY full_name, email", args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []models.UserPublic
	for rows.Next() {
		var u models.UserPublic
		if err := rows.Scan(&u.ID, &u.Email, &u.FullName, &u.Role, &u.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, u)
	}
	return list, rows.Err()
}

// SetRole updates a user's role.
func (r *Repository) SetRole(ctx context.Context, id uuid.UUID, role models.Role) error {
	const q = `UPDATE users SET role = $1, updated_at = NOW() WHERE id = $2`
	_, err := r.pool.Exec(ctx, q, string(role), id)
	return err
}

// Delete removes a user by ID.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	const q = `DELETE FROM users WHERE id = $1`
	_, err := r.pool.Exec(ctx, q, id)
	return err
}
