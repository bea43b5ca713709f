package realtime

import (
	"github.com/samridhi-events/backend/internal/models"
)

// Room is a named broadcast channel drawn from a fixed catalog.
type Room string

const (
	RoomDashboard      Room = "dashboard"
	RoomSamridhi       Room = "samridhi"
	RoomServer         Room = "server"
	RoomEventsOverview Room = "eventso"
	RoomEventsApproval Room = "eventsa"
	RoomUsersOverview  Room = "userso"
	RoomUsersApproval  Room = "usersa"
	RoomViewEvents     Room = "vevents"
	RoomMyEvent        Room = "myevent"
)

// catalog is the closed set of valid room names.
var catalog = map[Room]struct{}{
	RoomDashboard:      {},
	RoomSamridhi:       {},
	RoomServer:         {},
	RoomEventsOverview: {},
	RoomEventsApproval: {},
	RoomUsersOverview:  {},
	RoomUsersApproval:  {},
	RoomViewEvents:     {},
	RoomMyEvent:        {},
}

// rolePermissions maps each approved role to the rooms it may join.
// Fixed at process start; never mutated at runtime.
var rolePermissions = map[models.Role]map[Room]struct{}{
	models.RoleSuper: {
		RoomDashboard:      {},
		RoomSamridhi:       {},
		RoomServer:         {},
		RoomEventsOverview: {},
		RoomEventsApproval: {},
		RoomUsersOverview:  {},
		RoomUsersApproval:  {},
	},
	models.RoleAdmin: {
		RoomDashboard:  {},
		RoomViewEvents: {},
		RoomSamridhi:   {},
	},
	models.RoleCoordinator: {
		RoomDashboard: {},
		RoomMyEvent:   {},
	},
}

// ValidRoom reports whether name is in the room catalog, returning the typed room.
func ValidRoom(name string) (Room, bool) {
	room := Room(name)
	_, ok := catalog[room]
	return room, ok
}

// Allowed reports whether the role may join the room.
func Allowed(role models.Role, room Room) bool {
	perms, ok := rolePermissions[role]
	if !ok {
		return false
	}
	_, ok = perms[room]
	return ok
}
