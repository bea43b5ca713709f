package registrations

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/samridhi-events/backend/internal/events"
	"github.com/samridhi-events/backend/internal/models"
	"github.com/samridhi-events/backend/pkg/queue"
	"github.com/samridhi-events/backend/pkg/response"
)

// RegisterRequest is the body for POST /events/:id/register.
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	FullName string `json:"full_name" binding:"required"`
}

// Handler handles registration HTTP endpoints.
type Handler struct {
	repo      *Repository
	eventRepo *events.Repository
	queue     *queue.Queue
	logger    *zap.Logger
}

// NewHandler creates a registrations handler. queue may be nil when the email
// worker is not configured.
func NewHandler(repo *Repository, eventRepo *events.Repository, q *queue.Queue, logger *zap.Logger) *Handler {
	return &Handler{repo: repo, eventRepo: eventRepo, queue: q, logger: logger}
}

// Register handles POST /events/:id/register (public). Only approved events
// accept registrations; a confirmation email job is enqueued on success.
func (h *Handler) Register(c *gin.Context) {
	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid event id")
		return
	}
	event, err := h.eventRepo.GetByID(c.Request.Context(), eventID)
	if err != nil {
		response.NotFound(c, "event not found")
		return
	}
	if event.Status != models.EventApproved {
		response.BadRequest(c, "event is not open for registration")
		return
	}

	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}

	reg := &models.Registration{
		EventID:  eventID,
		Email:    req.Email,
		FullName: req.FullName,
	}
	if err := h.repo.Create(c.Request.Context(), reg); err != nil {
		response.Internal(c, "failed to register")
		return
	}

	if h.queue != nil {
		payload := queue.EmailPayload{
			EmailType:      models.EmailTypeRegistrationConfirmation,
			EventID:        eventID,
			RegistrationID: reg.ID,
			RecipientEmail: reg.Email,
			Subject:        "Registration confirmed: " + event.Name,
			Body:           fmt.Sprintf("Hi %s, you are registered for %s at %s.", reg.FullName, event.Name, event.Venue),
		}
		if err := h.queue.EnqueueEmail(c.Request.Context(), payload); err != nil {
			h.logger.Warn("enqueue confirmation email failed", zap.Error(err), zap.String("registration_id", reg.ID.String()))
		}
	}

	response.Created(c, reg)
}

// ListByEvent handles GET /events/:id/registrations.
func (h *Handler) ListByEvent(c *gin.Context) {
	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid event id")
		return
	}
	list, err := h.repo.ListByEvent(c.Request.Context(), eventID)
	if err != nil {
		response.Internal(c, "failed to list registrations")
		return
	}
	total, attended, err := h.repo.CountByEvent(c.Request.Context(), eventID)
	if err != nil {
		response.Internal(c, "failed to count registrations")
		return
	}
	response.OK(c, gin.H{"registrations": list, "total": total, "attended": attended})
}

// MarkAttended handles PATCH /registrations/:id/attend.
func (h *Handler) MarkAttended(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid registration id")
		return
	}
	if err := h.repo.MarkAttended(c.Request.Context(), id); err != nil {
		response.Internal(c, "failed to mark attended")
		return
	}
	response.OK(c, gin.H{"message": "marked attended"})
}
