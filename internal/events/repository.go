package events

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/samridhi-events/backend/internal/models"
)

// Repository handles event persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates an event repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Create inserts a new event in pending status.
func (r *Repository) Create(ctx context.Context, e *models.Event) error {
	const q = `INSERT INTO events (name, description, venue, starts_at, ends_at, status, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, q, e.Name, e.Description, e.Venue, e.StartsAt, e.EndsAt, string(e.Status), e.CreatedBy).
		Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt)
}

// GetByID returns an event by ID.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.Event, error) {
	const q = `SELECT id, name, description, venue, starts_at, ends_at, status,
		COALESCE(poster_url,''), COALESCE(poster_key,''), created_by, created_at, updated_at
		FROM events WHERE id = $1`
	var e models.Event
	err := r.pool.QueryRow(ctx, q, id).Scan(&e.ID, &e.Name, &e.Description, &e.Venue, &e.StartsAt, &e.EndsAt,
		&e.Status, &e.PosterURL, &e.PosterKey, &e.CreatedBy, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// List returns events, optionally filtered by creator and/or status.
func (r *Repository) List(ctx context.Context, createdBy *uuid.UUID, status *models.EventStatus) ([]models.Event, error) {
	base := `SELECT id, name, description, venue, starts_at, ends_at, status,
		COALESCE(poster_url,''), COALESCE(poster_key,''), created_by, created_at, updated_at FROM events`
	var args []interface{}
	var cond string
	if createdBy != nil {
		cond = " WHERE created_by = $1"
		args = append(args, *createdBy)
	}
	if status != nil {
		if cond == "" {
			cond = " WHERE status = $1"
		} else {
			cond += " AND status = $2"
		}
		args = append(args, string(*status))
	}
	rows, err := r.pool.Query(ctx, base+cond+" ORDER BY starts_at DESC", args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []models.Event
	for rows.Next() {
		var e models.Event
		if err := rows.Scan(&e.ID, &e.Name, &e.Description, &e.Venue, &e.StartsAt, &e.EndsAt,
			&e.Status, &e.PosterURL, &e.PosterKey, &e.CreatedBy, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, err
		}
		list = append(list, e)
	}
	return list, rows.Err()
}

// Update updates event fields (name, description, venue, starts_at, ends_at).
func (r *Repository) Update(ctx context.Context, id uuid.UUID, name, description, venue string, startsAt, endsAt *time.Time) error {
	const q = `UPDATE events SET name = $1, description = $2, venue = $3,
		starts_at = COALESCE($4, starts_at), ends_at = COALESCE($5, ends_at), updated_at = NOW()
		WHERE id = $6`
	_, err := r.pool.Exec(ctx, q, name, description, venue, startsAt, endsAt, id)
	return err
}

// SetStatus updates the approval status of an event.
func (r *Repository) SetStatus(ctx context.Context, id uuid.UUID, status models.EventStatus) error {
	const q = `UPDATE events SET status = $1, updated_at = NOW() WHERE id = $2`
	_, err := r.pool.Exec(ctx, q, string(status), id)
	return err
}

// SetPoster stores the poster object URL and key for an event.
func (r *Repository) SetPoster(ctx context.Context, id uuid.UUID, url, key string) error {
	const q = `UPDATE events SET poster_url = $1, poster_key = $2, updated_at = NOW() WHERE id = $3`
	_, err := r.pool.Exec(ctx, q, url, key, id)
	return err
}

// Delete removes an event by ID.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	const q = `DELETE FROM events WHERE id = $1`
	_, err := r.pool.Exec(ctx, q, id)
	return err
}
