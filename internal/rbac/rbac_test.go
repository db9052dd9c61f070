package rbac

import "testing"

func TestHasPermission(t *testing.T) {
	tests := []struct {
		name       string
		role       string
		permission string
		want       bool
	}{
		{"brand creates campaigns", RoleBrand, PermCreateCampaign, true},
		{"brand cannot respond to invitations", RoleBrand, PermRespondInvitation, false},
		{"brand cannot run sweeps", RoleBrand, PermRunLifecycleSweep, false},
		{"creator responds to invitations", RoleCreator, PermRespondInvitation, true},
		{"creator negotiates", RoleCreator, PermNegotiate, true},
		{"creator cannot create campaigns", RoleCreator, PermCreateCampaign, false},
		{"creator cannot cancel campaigns", RoleCreator, PermCancelCampaign, false},
		{"admin runs sweeps", RoleAdmin, PermRunLifecycleSweep, true},
		{"admin views audit", RoleAdmin, PermViewAudit, true},
		{"unknown role has nothing", "viewer", PermNegotiate, false},
		{"unknown permission denied", RoleAdmin, "launch_rockets", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HasPermission(tt.role, tt.permission); got != tt.want {
				t.Errorf("HasPermission(%q, %q) = %v, want %v", tt.role, tt.permission, got, tt.want)
			}
		})
	}
}
