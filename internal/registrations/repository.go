package registrations

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/samridhi-events/backend/internal/models"
)

// Repository handles registration persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a registrations repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Create inserts a registration (unique per event+email).
func (r *Repository) Create(ctx context.Context, reg *models.Registration) error {
	const q = `INSERT INTO registrations (event_id, email, full_name)
		VALUES ($1, $2, $3)
		ON CONFLICT (event_id, email) DO UPDATE SET full_name = EXCLUDED.full_name, updated_at = NOW()
		RETURNING id, attended_at, created_at, updated_at`
	return r.pool.QueryRow(ctx, q, reg.EventID, reg.Email, reg.FullName).
		Scan(&reg.ID, &reg.AttendedAt, &reg.CreatedAt, &reg.UpdatedAt)
}

// GetByID returns a registration by ID.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.Registration, error) {
	const q = `SELECT id, event_id, email, full_name, attended_at, created_at, updated_at FROM registrations WHERE id = $1`
	var reg models.Registration
	err := r.pool.QueryRow(ctx, q, id).Scan(&reg.ID, &reg.EventID, &reg.Email, &reg.FullName, &reg.AttendedAt, &reg.CreatedAt, &reg.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &reg, nil
}

// ListByEvent returns all registrations for an event.
func (r *Repository) ListByEvent(ctx context.Context, eventID uuid.UUID) ([]models.Registration, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, event_id, email, full_name, attended_at, created_at, updated_at
		FROM registrations WHERE event_id = $1 ORDER BY created_at DESC`, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []models.Registration
	for rows.Next() {
		var reg models.Registration
		if err := rows.Scan(&reg.ID, &reg.EventID, &reg.Email, &reg.FullName, &reg.AttendedAt, &reg.CreatedAt, &reg.UpdatedAt); err != nil {
			return nil, err
		}
		list = append(list, reg)
	}
	return list, rows.Err()
}

// CountByEvent returns total registrations and attended count for an event.
func (r *Repository) CountByEvent(ctx context.Context, eventID uuid.UUID) (total, attended int, err error) {
	const q = `SELECT COUNT(*), COUNT(attended_at) FROM registrations WHERE event_id = $1`
	err = r.pool.QueryRow(ctx, q, eventID).Scan(&total, &attended)
	return total, attended, err
}

// MarkAttended sets attended_at for a registration.
func (r *Repository) MarkAttended(ctx context.Context, registrationID uuid.UUID) error {
	const q = `UPDATE registrations SET attended_at = NOW(), updated_at = NOW() WHERE id = $1 AND attended_at IS NULL`
	_, err := r.pool.Exec(ctx, q, registrationID)
	return err
}
