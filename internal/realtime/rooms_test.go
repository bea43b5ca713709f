package realtime

import (
	"testing"

	"github.com/samridhi-events/backend/internal/models"
)

func TestValidRoom(t *testing.T) {
	for _, name := range []string{"dashboard", "samridhi", "server", "eventso", "eventsa", "userso", "usersa", "vevents", "myevent"} {
		if _, ok := ValidRoom(name); !ok {
			t.Errorf("ValidRoom(%q) = false, want true", name)
		}
	}
	for _, name := range []string{"", "unknown-room", "Dashboard", "dashboard "} {
		if _, ok := ValidRoom(name); ok {
			t.Errorf("ValidRoom(%q) = true, want false", name)
		}
	}
}

func TestAllowedMatchesPermissionTable(t *testing.T) {
	allowed := map[models.Role][]Room{
		models.RoleSuper:       {RoomDashboard, RoomSamridhi, RoomServer, RoomEventsOverview, RoomEventsApproval, RoomUsersOverview, RoomUsersApproval},
		models.RoleAdmin:       {RoomDashboard, RoomViewEvents, RoomSamridhi},
		models.RoleCoordinator: {RoomDashboard, RoomMyEvent},
	}

	all := []Room{RoomDashboard, RoomSamridhi, RoomServer, RoomEventsOverview, RoomEventsApproval, RoomUsersOverview, RoomUsersApproval, RoomViewEvents, RoomMyEvent}

	for role, rooms := range allowed {
		want := make(map[Room]bool)
		for _, r := range rooms {
			want[r] = true
		}
		for _, room := range all {
			if got := Allowed(role, room); got != want[room] {
				t.Errorf("Allowed(%s, %s) = %v, want %v", role, room, got, want[room])
			}
		}
	}
}

func TestAllowedUnknownRole(t *testing.T) {
	for _, role := range []models.Role{models.RolePending, "", "audience"} {
		for room := range catalog {
			if Allowed(role, room) {
				t.Errorf("Allowed(%q, %s) = true, want false", role, room)
			}
		}
	}
}

func TestPermittedRoomsAreInCatalog(t *testing.T) {
	for role, rooms := range rolePermissions {
		for room := range rooms {
			if _, ok := catalog[room]; !ok {
				t.Errorf("role %s permits room %s which is not in the catalog", role, room)
			}
		}
	}
}
