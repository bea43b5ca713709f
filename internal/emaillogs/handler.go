package emaillogs

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/samridhi-events/backend/internal/registrations"
	"github.com/samridhi-events/backend/pkg/queue"
	"github.com/samridhi-events/backend/pkg/response"
)

// Handler handles email log HTTP endpoints.
type Handler struct {
	repo    *Repository
	regRepo *registrations.Repository
	queue   *queue.Queue
	logger  *zap.Logger
}

// NewHandler creates an email logs handler. queue may be nil.
func NewHandler(repo *Repository, regRepo *registrations.Repository, q *queue.Queue, logger *zap.Logger) *Handler {
	return &Handler{repo: repo, regRepo: regRepo, queue: q, logger: logger}
}

// ListByEvent handles GET /events/:id/emails.
func (h *Handler) ListByEvent(c *gin.Context) {
	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid event id")
		return
	}
	logs, err := h.repo.ListByEvent(c.Request.Context(), eventID)
	if err != nil {
		response.Internal(c, "failed to load email logs")
		return
	}
	response.OK(c, logs)
}

// ResendRequest is the body for POST /events/:id/emails/resend.
type ResendRequest struct {
	RegistrationID string `json:"registration_id" binding:"required,uuid"`
	EmailType      string `json:"email_type"`
}

// Resend handles POST /events/:id/emails/resend. Re-enqueues the confirmation
// email for a registration.
func (h *Handler) Resend(c *gin.Context) {
	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid event id")
		return
	}
	var body ResendRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "registration_id required")
		return
	}
	if h.queue == nil {
		response.Internal(c, "email worker not configured")
		return
	}

	regID, _ := uuid.Parse(body.RegistrationID)
	reg, err := h.regRepo.GetByID(c.Request.Context(), regID)
	if err != nil {
		response.NotFound(c, "registration not found")
		return
	}

	payload := queue.EmailPayload{
		EmailType:      body.EmailType,
		EventID:        eventID,
		RegistrationID: reg.ID,
		RecipientEmail: reg.Email,
		Subject:        "Your event registration",
		Body:           "Hi " + reg.FullName + ", this is a reminder about your event registration.",
	}
	if err := h.queue.EnqueueEmail(c.Request.Context(), payload); err != nil {
		h.logger.Error("resend enqueue failed", zap.Error(err), zap.String("registration_id", reg.ID.String()))
		response.Internal(c, "failed to enqueue email")
		return
	}
	response.OK(c, gin.H{"message": "resend queued"})
}
