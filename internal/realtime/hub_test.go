package realtime

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/samridhi-events/backend/internal/models"
)

func newTestClient(hub *Hub, role models.Role) *Client {
	return &Client{
		ID:     uuid.New().String(),
		User:   &models.User{ID: uuid.New(), FullName: "test user", Role: role},
		joined: make(map[Room]struct{}),
		hub:    hub,
		send:   make(chan WSMessage, 16),
		logger: zap.NewNop(),
	}
}

func recvMessage(t *testing.T, c *Client) WSMessage {
	t.Helper()
	select {
	case msg := <-c.send:
		return msg
	default:
		t.Fatal("expected a queued message, got none")
		return WSMessage{}
	}
}

func TestJoinAllowed(t *testing.T) {
	hub := NewHub(zap.NewNop())
	c := newTestClient(hub, models.RoleCoordinator)

	if !hub.Join(c, RoomDashboard) {
		t.Fatal("coordinator join to dashboard denied, want allowed")
	}
	if !hub.InRoom(c, RoomDashboard) {
		t.Error("client not in dashboard subscriber set after join")
	}
	if n := hub.SubscriberCount(RoomDashboard); n != 1 {
		t.Errorf("SubscriberCount(dashboard) = %d, want 1", n)
	}

	// Joining again is a no-op beyond re-affirming membership.
	hub.Join(c, RoomDashboard)
	if n := hub.SubscriberCount(RoomDashboard); n != 1 {
		t.Errorf("SubscriberCount(dashboard) after repeat join = %d, want 1", n)
	}
}

func TestJoinDeniedSendsRedirect(t *testing.T) {
	hub := NewHub(zap.NewNop())
	c := newTestClient(hub, models.RoleCoordinator)

	if hub.Join(c, RoomServer) {
		t.Fatal("coordinator join to server allowed, want denied")
	}
	if hub.InRoom(c, RoomServer) {
		t.Error("denied join still added client to subscriber set")
	}
	if n := hub.SubscriberCount(RoomServer); n != 0 {
		t.Errorf("SubscriberCount(server) = %d, want 0", n)
	}

	msg := recvMessage(t, c)
	if msg.Event != EventRedirect {
		t.Fatalf("event = %q, want %q", msg.Event, EventRedirect)
	}
	var payload RedirectPayload
	if err := json.Unmarshal(msg.Data, &payload); err != nil {
		t.Fatalf("unmarshal redirect payload: %v", err)
	}
	if payload.URL != ForbiddenPath {
		t.Errorf("redirect url = %q, want %q", payload.URL, ForbiddenPath)
	}
}

func TestCoordinatorScenario(t *testing.T) {
	hub := NewHub(zap.NewNop())
	c := newTestClient(hub, models.RoleCoordinator)

	if !hub.Join(c, RoomDashboard) {
		t.Fatal("join dashboard denied, want allowed")
	}
	if hub.Join(c, RoomServer) {
		t.Fatal("join server allowed, want denied")
	}
	if !hub.InRoom(c, RoomDashboard) {
		t.Error("client missing from dashboard after denied server join")
	}
	if hub.SubscriberCount(RoomServer) != 0 {
		t.Error("server subscriber set changed by denied join")
	}
}

func TestLeaveNotJoinedIsNoop(t *testing.T) {
	hub := NewHub(zap.NewNop())
	c := newTestClient(hub, models.RoleAdmin)

	hub.Leave(c, RoomDashboard)
	if n := hub.SubscriberCount(RoomDashboard); n != 0 {
		t.Errorf("SubscriberCount(dashboard) = %d, want 0", n)
	}
	if len(c.joined) != 0 {
		t.Errorf("client joined set = %v, want empty", c.joined)
	}
}

func TestLeave(t *testing.T) {
	hub := NewHub(zap.NewNop())
	c := newTestClient(hub, models.RoleAdmin)

	hub.Join(c, RoomViewEvents)
	hub.Leave(c, RoomViewEvents)

	if hub.InRoom(c, RoomViewEvents) {
		t.Error("client still in room after leave")
	}
	if _, ok := c.joined[RoomViewEvents]; ok {
		t.Error("client joined set still contains room after leave")
	}
}

func TestDisconnectDrainsAllRooms(t *testing.T) {
	hub := NewHub(zap.NewNop())
	c := newTestClient(hub, models.RoleSuper)

	for _, room := range []Room{RoomDashboard, RoomServer, RoomEventsOverview} {
		if !hub.Join(c, room) {
			t.Fatalf("super join to %s denied", room)
		}
	}

	hub.Disconnect(c)

	if len(c.joined) != 0 {
		t.Errorf("joined set after disconnect = %v, want empty", c.joined)
	}
	for _, room := range []Room{RoomDashboard, RoomServer, RoomEventsOverview} {
		if hub.InRoom(c, room) {
			t.Errorf("client still in %s after disconnect", room)
		}
	}
}

func TestBroadcastDeliversToRoomOnly(t *testing.T) {
	hub := NewHub(zap.NewNop())
	a := newTestClient(hub, models.RoleSuper)
	b := newTestClient(hub, models.RoleAdmin)
	other := newTestClient(hub, models.RoleCoordinator)

	hub.Join(a, RoomDashboard)
	hub.Join(b, RoomDashboard)
	hub.Join(other, RoomMyEvent)

	hub.Broadcast(RoomDashboard, EventUpdate, map[string]string{"x": "1"})

	for _, c := range []*Client{a, b} {
		msg := recvMessage(t, c)
		if msg.Event != EventUpdate {
			t.Errorf("event = %q, want %q", msg.Event, EventUpdate)
		}
	}
	select {
	case msg := <-other.send:
		t.Errorf("client outside room received %q broadcast", msg.Event)
	default:
	}
}

func TestBroadcastEmptyRoom(t *testing.T) {
	hub := NewHub(zap.NewNop())
	// No subscribers: must not panic and must not error.
	hub.Broadcast(RoomEventsOverview, EventUpdate, nil)
	if n := hub.SubscriberCount(RoomEventsOverview); n != 0 {
		t.Errorf("SubscriberCount = %d, want 0", n)
	}
}

func TestBroadcastAfterLeave(t *testing.T) {
	hub := NewHub(zap.NewNop())
	a := newTestClient(hub, models.RoleSuper)
	b := newTestClient(hub, models.RoleSuper)

	hub.Join(a, RoomSamridhi)
	hub.Join(b, RoomSamridhi)
	hub.Leave(b, RoomSamridhi)

	hub.Broadcast(RoomSamridhi, EventUpdate, nil)

	if msg := recvMessage(t, a); msg.Event != EventUpdate {
		t.Errorf("event = %q, want %q", msg.Event, EventUpdate)
	}
	select {
	case msg := <-b.send:
		t.Errorf("departed client received %q broadcast", msg.Event)
	default:
	}
}
