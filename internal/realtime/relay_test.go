package realtime

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/samridhi-events/backend/internal/models"
)

func newRelayRouter(hub *Hub) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	relay := NewRelay(hub, zap.NewNop())
	router.POST("/send-update", relay.SendUpdate)
	return router
}

func postUpdate(t *testing.T, router *gin.Engine, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/send-update", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestSendUpdateValidRoomZeroSubscribers(t *testing.T) {
	hub := NewHub(zap.NewNop())
	router := newRelayRouter(hub)

	w := postUpdate(t, router, `{"room":"eventso"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var resp map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if resp["message"] != "Update Success!" {
		t.Errorf("message = %q, want %q", resp["message"], "Update Success!")
	}
}

func TestSendUpdateUnknownRoom(t *testing.T) {
	hub := NewHub(zap.NewNop())
	router := newRelayRouter(hub)

	w := postUpdate(t, router, `{"room":"unknown-room"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	var resp map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if resp["message"] != "Incomplete Update request!!" {
		t.Errorf("message = %q, want %q", resp["message"], "Incomplete Update request!!")
	}
}

func TestSendUpdateMissingRoom(t *testing.T) {
	hub := NewHub(zap.NewNop())
	router := newRelayRouter(hub)

	for _, body := range []string{`{}`, `{"room":""}`, `not json`} {
		w := postUpdate(t, router, body)
		if w.Code != http.StatusBadRequest {
			t.Errorf("body %q: status = %d, want 400", body, w.Code)
		}
	}
}

func TestSendUpdateDeliversToSubscribers(t *testing.T) {
	hub := NewHub(zap.NewNop())
	router := newRelayRouter(hub)

	sub := newTestClient(hub, models.RoleSuper)
	outsider := newTestClient(hub, models.RoleSuper)
	hub.Join(sub, RoomEventsOverview)
	hub.Join(outsider, RoomUsersOverview)

	w := postUpdate(t, router, `{"room":"eventso","data":{"event_id":"e1"}}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	msg := recvMessage(t, sub)
	if msg.Event != EventUpdate {
		t.Errorf("event = %q, want %q", msg.Event, EventUpdate)
	}
	if !strings.Contains(string(msg.Data), "e1") {
		t.Errorf("payload = %s, want to contain e1", msg.Data)
	}
	select {
	case msg := <-outsider.send:
		t.Errorf("outsider received %q broadcast", msg.Event)
	default:
	}
}
