// internal/app/system/authz/authz.go
//
// Package authz answers "may this user do that" from account roles and
// project membership. It reads nothing itself; callers pass the records
// they already hold.
package authz

import (
	"strings"

	"github.com/dalemusser/planboard/internal/domain/models"
)

// Permissions.
const (
	Read  = "read"
	Write = "write"
	Edit  = "edit"
	Admin = "admin"
)

var rolePermissions = map[string][]string{
	models.RoleEditor: {Read, Write, Edit},
	models.RoleUser:   {Read, Write},
	models.RoleViewer: {Read},
}

var memberPermissions = map[string][]string{
	models.MemberEditor: {Read, Write, Edit},
	models.MemberViewer: {Read},
}

// HasPermission reports whether an account role grants perm. Admins hold
// every permission; unknown roles hold none.
func HasPermission(role, perm string) bool {
	role = strings.ToLower(strings.TrimSpace(role))
	if role == models.RoleAdmin {
		return true
	}
	return grants(rolePermissions[role], perm)
}

// MemberCan reports whether a team role grants perm on the member's projects.
func MemberCan(memberRole, perm string) bool {
	memberRole = strings.ToLower(strings.TrimSpace(memberRole))
	if memberRole == models.MemberAdmin || memberRole == models.MemberOwner {
		return true
	}
	return grants(memberPermissions[memberRole], perm)
}

func grants(perms []string, perm string) bool {
	for _, p := range perms {
		if p == perm {
			return true
		}
	}
	return false
}
