package events

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/samridhi-events/backend/internal/middleware"
	"github.com/samridhi-events/backend/internal/models"
	"github.com/samridhi-events/backend/internal/realtime"
	"github.com/samridhi-events/backend/pkg/response"
	"github.com/samridhi-events/backend/pkg/storage"
)

func parseTime(s string) (time.Time, error) {
	return time.Parse(time.RFC3339, s)
}

// CreateRequest is the body for POST /events.
type CreateRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description"`
	Venue       string  `json:"venue"`
	StartsAt    string  `json:"starts_at" binding:"required"`
	EndsAt      *string `json:"ends_at"`
}

// UpdateRequest is the body for PATCH /events/:id.
type UpdateRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description"`
	Venue       string  `json:"venue"`
	StartsAt    *string `json:"starts_at"`
	EndsAt      *string `json:"ends_at"`
}

// StatusRequest is the body for PATCH /events/:id/status (super only).
type StatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// Handler handles event HTTP endpoints.
type Handler struct {
	repo   *Repository
	s3     *storage.S3
	hub    *realtime.Hub
	logger *zap.Logger
}

// NewHandler creates an event handler. s3 may be nil when poster uploads are disabled.
func NewHandler(repo *Repository, s3 *storage.S3, hub *realtime.Hub, logger *zap.Logger) *Handler {
	return &Handler{repo: repo, s3: s3, hub: hub, logger: logger}
}

// Create handles POST /events (coordinator). New events start pending.
func (h *Handler) Create(c *gin.Context) {
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}

	userID := c.MustGet(middleware.ContextUserID).(uuid.UUID)

	startsAt, err := parseTime(req.StartsAt)
	if err != nil {
		response.BadRequest(c, "invalid starts_at")
		return
	}
	var endsAt *time.Time
	if req.EndsAt != nil {
		t, err := parseTime(*req.EndsAt)
		if err != nil {
			response.BadRequest(c, "invalid ends_at")
			return
		}
		endsAt = &t
	}

	e := &models.Event{
		Name:        req.Name,
		Description: req.Description,
		Venue:       req.Venue,
		StartsAt:    startsAt,
		EndsAt:      endsAt,
		Status:      models.EventPending,
		CreatedBy:   userID,
	}
	if err := h.repo.Create(c.Request.Context(), e); err != nil {
		response.Internal(c, "failed to create event")
		return
	}

	h.hub.Broadcast(realtime.RoomEventsApproval, realtime.EventUpdate, gin.H{"event_id": e.ID})
	h.hub.Broadcast(realtime.RoomEventsOverview, realtime.EventUpdate, gin.H{"event_id": e.ID})
	response.Created(c, e)
}

// List handles GET /events. Coordinators see their own events; super and
// admin see everything, optionally filtered by ?status=.
func (h *Handler) List(c *gin.Context) {
	role := models.Role(c.MustGet(middleware.ContextUserRole).(string))
	var createdBy *uuid.UUID
	if role == models.RoleCoordinator {
		userID := c.MustGet(middleware.ContextUserID).(uuid.UUID)
		createdBy = &userID
	}
	var status *models.EventStatus
	if s := c.Query("status"); s != "" {
		st := models.EventStatus(s)
		status = &st
	}
	list, err := h.repo.List(c.Request.Context(), createdBy, status)
	if err != nil {
		response.Internal(c, "failed to list events")
		return
	}
	response.OK(c, list)
}

// GetByID handles GET /events/:id.
func (h *Handler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid event id")
		return
	}
	e, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		response.NotFound(c, "event not found")
		return
	}
	response.OK(c, e)
}

// Update handles PATCH /events/:id (creator or super).
func (h *Handler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid event id")
		return
	}
	e, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		response.NotFound(c, "event not found")
		return
	}
	userID := c.MustGet(middleware.ContextUserID).(uuid.UUID)
	role := models.Role(c.MustGet(middleware.ContextUserRole).(string))
	if e.CreatedBy != userID && role != models.RoleSuper {
		response.Forbidden(c, "only the event creator or super can update")
		return
	}

	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	var startsAt, endsAt *time.Time
	if req.StartsAt != nil {
		t, err := parseTime(*req.StartsAt)
		if err != nil {
			response.BadRequest(c, "invalid starts_at")
			return
		}
		startsAt = &t
	}
	if req.EndsAt != nil {
		t, err := parseTime(*req.EndsAt)
		if err != nil {
			response.BadRequest(c, "invalid ends_at")
			return
		}
		endsAt = &t
	}

	if err := h.repo.Update(c.Request.Context(), id, req.Name, req.Description, req.Venue, startsAt, endsAt); err != nil {
		response.Internal(c, "failed to update event")
		return
	}

	h.hub.Broadcast(realtime.RoomViewEvents, realtime.EventUpdate, gin.H{"event_id": id})
	h.hub.Broadcast(realtime.RoomMyEvent, realtime.EventUpdate, gin.H{"event_id": id})
	response.OK(c, gin.H{"message": "event updated"})
}

// SetStatus handles PATCH /events/:id/status (super only): approve or reject.
func (h *Handler) SetStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid event id")
		return
	}
	var req StatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	status := models.EventStatus(req.Status)
	if status != models.EventApproved && status != models.EventRejected {
		response.BadRequest(c, "status must be approved or rejected")
		return
	}
	if err := h.repo.SetStatus(c.Request.Context(), id, status); err != nil {
		response.Internal(c, "failed to update event status")
		return
	}

	h.logger.Info("event status changed", zap.String("event_id", id.String()), zap.String("status", string(status)))
	h.hub.Broadcast(realtime.RoomEventsApproval, realtime.EventUpdate, gin.H{"event_id": id, "status": status})
	h.hub.Broadcast(realtime.RoomViewEvents, realtime.EventUpdate, gin.H{"event_id": id, "status": status})
	h.hub.Broadcast(realtime.RoomMyEvent, realtime.EventUpdate, gin.H{"event_id": id, "status": status})
	response.OK(c, gin.H{"message": "event " + string(status)})
}

// Delete handles DELETE /events/:id (creator or super). Removes the poster
// object as well when one was uploaded.
func (h *Handler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid event id")
		return
	}
	e, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		response.NotFound(c, "event not found")
		return
	}
	userID := c.MustGet(middleware.ContextUserID).(uuid.UUID)
	role := models.Role(c.MustGet(middleware.ContextUserRole).(string))
	if e.CreatedBy != userID && role != models.RoleSuper {
		response.Forbidden(c, "only the event creator or super can delete")
		return
	}

	if err := h.repo.Delete(c.Request.Context(), id); err != nil {
		response.Internal(c, "failed to delete event")
		return
	}
	if h.s3 != nil && e.PosterKey != "" {
		if err := h.s3.DeletePoster(c.Request.Context(), e.PosterKey); err != nil {
			h.logger.Warn("poster delete failed", zap.Error(err), zap.String("event_id", id.String()))
		}
	}

	h.hub.Broadcast(realtime.RoomEventsOverview, realtime.EventUpdate, gin.H{"event_id": id})
	h.hub.Broadcast(realtime.RoomViewEvents, realtime.EventUpdate, gin.H{"event_id": id})
	response.OK(c, gin.H{"message": "event deleted"})
}

// UploadPoster handles POST /events/:id/poster (creator or super). Server-side
// upload to the posters bucket.
func (h *Handler) UploadPoster(c *gin.Context) {
	if h.s3 == nil {
		response.Internal(c, "S3 not configured")
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid event id")
		return
	}
	e, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		response.NotFound(c, "event not found")
		return
	}
	userID := c.MustGet(middleware.ContextUserID).(uuid.UUID)
	role := models.Role(c.MustGet(middleware.ContextUserRole).(string))
	if e.CreatedBy != userID && role != models.RoleSuper {
		response.Forbidden(c, "only the event creator or super can upload a poster")
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, "missing file (form field: file)")
		return
	}
	if file.Size > storage.MaxPosterFileSize {
		response.BadRequest(c, "file size exceeds 5MB limit")
		return
	}
	if !storage.ValidatePosterFileType(file.Header.Get("Content-Type"), file.Filename) {
		response.BadRequest(c, "invalid file type: only jpg, png, webp allowed")
		return
	}

	src, err := file.Open()
	if err != nil {
		response.Internal(c, "failed to read upload")
		return
	}
	defer src.Close()

	contentType := storage.ContentTypeForFilename(file.Filename)
	key := storage.PosterKey(id.String(), file.Filename)
	url, err := h.s3.Upload(c.Request.Context(), h.s3.PostersBucket(), key, contentType, src, file.Size)
	if err != nil {
		h.logger.Error("poster upload failed", zap.Error(err), zap.String("event_id", id.String()))
		response.Internal(c, "poster upload failed")
		return
	}
	if err := h.repo.SetPoster(c.Request.Context(), id, url, key); err != nil {
		response.Internal(c, "failed to save poster")
		return
	}

	response.OK(c, gin.H{"poster_url": url, "s3_key": key})
}

// PosterDownloadURL handles GET /events/:id/poster-url. Returns a presigned
// GET URL for the poster object.
func (h *Handler) PosterDownloadURL(c *gin.Context) {
	if h.s3 == nil {
		response.Internal(c, "S3 not configured")
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid event id")
		return
	}
	e, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		response.NotFound(c, "event not found")
		return
	}
	if e.PosterKey == "" {
		response.NotFound(c, "event has no poster")
		return
	}
	expire := h.s3.PresignExpire()
	url, err := h.s3.GeneratePresignedDownloadURL(c.Request.Context(), h.s3.PostersBucket(), e.PosterKey, expire)
	if err != nil {
		h.logger.Error("presign poster URL failed", zap.Error(err), zap.String("event_id", id.String()))
		response.Internal(c, "failed to generate download URL")
		return
	}
	response.OK(c, gin.H{"download_url": url, "expires_in": int(expire.Seconds())})
}
