package realtime

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Relay accepts out-of-band update requests (e.g. from CRUD routes) and
// broadcasts them into a room. It trusts join-time authorization: role
// permissions are not re-checked at broadcast time.
type Relay struct {
	hub    *Hub
	logger *zap.Logger
}

// NewRelay creates an update relay backed by the hub.
func NewRelay(hub *Hub, logger *zap.Logger) *Relay {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Relay{hub: hub, logger: logger}
}

// SendUpdateRequest is the body for POST /send-update. Data is an opaque
// payload forwarded verbatim to subscribers.
type SendUpdateRequest struct {
	Room string          `json:"room"`
	Data json.RawMessage `json:"data,omitempty"`
}

// SendUpdate handles POST /send-update. A missing or unrecognized room name
// is a client error and nothing is broadcast; a recognized room with zero
// subscribers is a success delivered to nobody.
func (r *Relay) SendUpdate(c *gin.Context) {
	var req SendUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Room == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Incomplete Update request!!"})
		return
	}
	room, ok := ValidRoom(req.Room)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Incomplete Update request!!"})
		return
	}

	r.hub.Broadcast(room, EventUpdate, req.Data)
	r.logger.Info("update relayed",
		zap.String("room", string(room)),
		zap.Int("subscribers", r.hub.SubscriberCount(room)),
		zap.Int("payload_bytes", len(req.Data)),
	)
	c.JSON(http.StatusOK, gin.H{"message": "Update Success!"})
}
