package users

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/samridhi-events/backend/internal/models"
	"github.com/samridhi-events/backend/internal/realtime"
	"github.com/samridhi-events/backend/pkg/response"
)

// SetRoleRequest is the body for PATCH /users/:id/role (super only).
type SetRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

// Handler handles user administration endpoints (super only).
type Handler struct {
	repo   *Repository
	hub    *realtime.Hub
	logger *zap.Logger
}

// NewHandler creates a users handler.
func NewHandler(repo *Repository, hub *realtime.Hub, logger *zap.Logger) *Handler {
	return &Handler{repo: repo, hub: hub, logger: logger}
}

// List handles GET /users, optionally filtered by ?role=.
func (h *Handler) List(c *gin.Context) {
	var role *models.Role
	if s := c.Query("role"); s != "" {
		r := models.Role(s)
		role = &r
	}
	list, err := h.repo.List(c.Request.Context(), role)
	if err != nil {
		response.Internal(c, "failed to list users")
		return
	}
	response.OK(c, list)
}

// SetRole handles PATCH /users/:id/role: approves a pending account or
// changes an existing role. Only roles from the closed set are accepted.
func (h *Handler) SetRole(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid user id")
		return
	}
	var req SetRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	role := models.Role(req.Role)
	if !role.Approved() {
		response.BadRequest(c, "role must be super, admin or coordinator")
		return
	}
	if err := h.repo.SetRole(c.Request.Context(), id, role); err != nil {
		response.Internal(c, "failed to update role")
		return
	}

	h.logger.Info("user role changed", zap.String("user_id", id.String()), zap.String("role", string(role)))
	h.hub.Broadcast(realtime.RoomUsersApproval, realtime.EventUpdate, gin.H{"user_id": id, "role": role})
	h.hub.Broadcast(realtime.RoomUsersOverview, realtime.EventUpdate, gin.H{"user_id": id, "role": role})
	response.OK(c, gin.H{"message": "role updated"})
}

// Delete handles DELETE /users/:id.
func (h *Handler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid user id")
		return
	}
	if err := h.repo.Delete(c.Request.Context(), id); err != nil {
		response.Internal(c, "failed to delete user")
		return
	}
	h.hub.Broadcast(realtime.RoomUsersOverview, realtime.EventUpdate, gin.H{"user_id": id})
	response.OK(c, gin.H{"message": "user deleted"})
}
