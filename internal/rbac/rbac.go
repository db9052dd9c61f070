package rbac

// Role constants
const (
	RoleBrand   = "brand"
	RoleCreator = "creator"
	RoleAdmin   = "admin"
)

// Permission constants
const (
	PermCreateCampaign      = "create_campaign"
	PermManageCampaign      = "manage_campaign"
	PermCancelCampaign      = "cancel_campaign"
	PermInviteCreator       = "invite_creator"
	PermRespondInvitation   = "respond_invitation"
	PermNegotiate           = "negotiate"
	PermSubmitDeliverable   = "submit_deliverable"
	PermCompleteParticipant = "complete_participant"
	PermRunLifecycleSweep   = "run_lifecycle_sweep"
	PermViewAudit           = "view_audit"
)

// RolePermissions defines what each role can do.
var RolePermissions = map[string][]string{
	RoleBrand: {
		PermCreateCampaign, PermManageCampaign, PermCancelCampaign,
		PermInviteCreator, PermNegotiate, PermCompleteParticipant,
	},
	RoleCreator: {
		PermRespondInvitation, PermNegotiate, PermSubmitDeliverable,
	},
	RoleAdmin: {
		PermCreateCampaign, PermManageCampaign, PermCancelCampaign,
		PermInviteCreator, PermRespondInvitation, PermNegotiate,
		PermSubmitDeliverable, PermCompleteParticipant,
		PermRunLifecycleSweep, PermViewAudit,
	},
}

// HasPermission checks if a role has a specific permission.
func HasPermission(role, permission string) bool {
	perms, ok := RolePermissions[role]
	if !ok {
		return false
	}
	for _, p := range perms {
		if p == permission {
			return true
		}
	}
	return false
}
