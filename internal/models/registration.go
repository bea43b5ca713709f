package models

import (
	"time"

	"github.com/google/uuid"
)

// Registration is an attendee registration for an event.
type Registration struct {
	ID         uuid.UUID  `json:"id"`
	EventID    uuid.UUID  `json:"event_id"`
	Email      string     `json:"email"`
	FullName   string     `json:"full_name"`
	AttendedAt *time.Time `json:"attended_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}
