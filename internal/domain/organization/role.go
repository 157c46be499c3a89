package organization

import "strings"

// Role is a member's role within an organization
type Role string

const (
	RoleOwner    Role = "owner"
	RoleEmployee Role = "employee"
)

// ParseRole converts a raw value into a Role
func ParseRole(raw string) (Role, bool) {
	r := Role(strings.ToLower(strings.TrimSpace(raw)))
	return r, r.IsValid()
}

// IsValid checks if the role is a defined role
func (r Role) IsValid() bool {
	return r == RoleOwner || r == RoleEmployee
}

// String returns the string representation of Role
func (r Role) String() string {
	return string(r)
}

// Permissions are capability flags derived from a role
type Permissions struct {
	IsOwner           bool `json:"is_owner"`
	CanManageMembers  bool `json:"can_manage_members"`
	CanManageProjects bool `json:"can_manage_projects"`
	CanExportReports  bool `json:"can_export_reports"`
}

// PermissionsFor derives capability flags from a role. Project management and
// report export are granted to every role.
func PermissionsFor(r Role) Permissions {
	isOwner := r == RoleOwner
	return Permissions{
		IsOwner:           isOwner,
		CanManageMembers:  isOwner,
		CanManageProjects: true,
		CanExportReports:  true,
	}
}
