package realtime

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/samridhi-events/backend/internal/models"
)

const (
	// PingInterval and PongWait are used for heartbeat.
	PingInterval = 30
	PongWait     = 60
)

// Websocket event names.
const (
	EventWelcome   = "welcome"
	EventJoinRoom  = "join-room"
	EventLeaveRoom = "leave-room"
	EventMessage   = "message"
	EventUpdate    = "update"
	EventRedirect  = "redirect"
	EventError     = "error"
)

// ForbiddenPath is where denied room joins redirect the client.
const ForbiddenPath = "/403"

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // allow all origins in dev; restrict in production
	},
}

// WSMessage is the WebSocket message envelope.
type WSMessage struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// RedirectPayload tells the client to navigate elsewhere (soft denial).
type RedirectPayload struct {
	URL string `json:"url"`
}

// JoinRoomPayload is the client payload for join-room. ObjID is redundant
// with the already-authorized identity; it is accepted and ignored.
type JoinRoomPayload struct {
	RoomName string `json:"roomName"`
	ObjID    string `json:"objId"`
}

// Client represents one live realtime session. The identity is attached once
// during authorization and is immutable afterwards; the joined set is mutated
// only by the hub.
type Client struct {
	ID     string
	User   *models.User
	joined map[Room]struct{}
	hub    *Hub
	conn   *websocket.Conn
	send   chan WSMessage
	logger *zap.Logger
}

// Send queues an event for the client without blocking; full buffers drop.
func (c *Client) Send(event string, payload interface{}) {
	var data []byte
	switch v := payload.(type) {
	case nil:
	case []byte:
		data = v
	case json.RawMessage:
		data = v
	default:
		data, _ = json.Marshal(payload)
	}
	select {
	case c.send <- WSMessage{Event: event, Data: data}:
	default:
	}
}

// ServeWs authorizes the handshake, upgrades the connection, and runs the
// client loops. Authorization happens before the upgrade: a rejected attempt
// never produces a Client.
func ServeWs(hub *Hub, authorizer *Authorizer, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Query("token")
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": ErrIdentityNotFound.Error()})
			return
		}

		user, err := authorizer.Authorize(c.Request.Context(), token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			logger.Warn("websocket upgrade failed", zap.Error(err))
			return
		}

		client := &Client{
			ID:     uuid.New().String(),
			User:   user,
			joined: make(map[Room]struct{}),
			hub:    hub,
			conn:   conn,
			send:   make(chan WSMessage, 256),
			logger: logger,
		}

		logger.Info("client connected",
			zap.String("user_id", user.ID.String()),
			zap.String("name", user.FullName),
			zap.String("client_id", client.ID),
			zap.String("remote_addr", c.ClientIP()),
			zap.String("user_agent", c.Request.UserAgent()),
		)

		client.Send(EventWelcome, gin.H{"message": "Welcome " + user.FullName})
		go client.writePump()
		client.readPump()
	}
}

func (c *Client) readPump() {
	defer func() {
		c.hub.Disconnect(c)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(65536)
	_ = c.conn.SetReadDeadline(time.Now().Add(PongWait * time.Second))
	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(time.Now().Add(PongWait * time.Second))
		return nil
	})

	for {
		var msg WSMessage
		if err := c.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Warn("websocket read error",
					zap.String("client_id", c.ID),
					zap.String("user_id", c.User.ID.String()),
					zap.Error(err),
				)
			}
			break
		}
		_ = c.conn.SetReadDeadline(time.Now().Add(PongWait * time.Second))

		switch msg.Event {
		case EventJoinRoom:
			var payload JoinRoomPayload
			if err := json.Unmarshal(msg.Data, &payload); err != nil {
				c.Send(EventError, gin.H{"message": "malformed join-room payload"})
				continue
			}
			room, ok := ValidRoom(payload.RoomName)
			if !ok {
				// Unknown room names are handled like denied ones.
				c.Send(EventRedirect, RedirectPayload{URL: ForbiddenPath})
				continue
			}
			c.hub.Join(c, room)
		case EventLeaveRoom:
			var name string
			if err := json.Unmarshal(msg.Data, &name); err != nil {
				continue
			}
			c.hub.Leave(c, Room(name))
		case EventMessage:
			c.logger.Info("client message",
				zap.String("client_id", c.ID),
				zap.String("user_id", c.User.ID.String()),
				zap.ByteString("payload", msg.Data),
			)
			c.Send(EventMessage, gin.H{"message": "Server received: " + string(msg.Data)})
		default:
			// ignore
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(PingInterval * time.Second)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			_ = c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteJSON(msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
