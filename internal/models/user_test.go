package models

import "testing"

func TestRoleApproved(t *testing.T) {
	for _, r := range []Role{RoleSuper, RoleAdmin, RoleCoordinator} {
		if !r.Approved() {
			t.Errorf("Role(%s).Approved() = false, want true", r)
		}
	}
	for _, r := range []Role{RolePending, "", "audience", "Super"} {
		if r.Approved() {
			t.Errorf("Role(%s).Approved() = true, want false", r)
		}
	}
}

func TestToPublicStripsPassword(t *testing.T) {
	u := User{Email: "u@example.com", Password: "hash", FullName: "U", Role: RoleAdmin}
	pub := u.ToPublic()
	if pub.Email != u.Email || pub.FullName != u.FullName || pub.Role != u.Role {
		t.Error("ToPublic() dropped public fields")
	}
}
