package identity

import "strings"

// Role is the authorization role of a caller. Roles form a hierarchy:
// hr_admin and hr_manager hold HR privileges, and every HR role also
// counts as a manager role.
type Role string

const (
	RoleEmployee  Role = "employee"
	RoleManager   Role = "manager"
	RoleHRManager Role = "hr_manager"
	RoleHRAdmin   Role = "hr_admin"
)

func (r Role) IsHR() bool {
	return r == RoleHRManager || r == RoleHRAdmin
}

func (r Role) IsManager() bool {
	return r == RoleManager || r.IsHR()
}

// RoleSet holds all roles granted to a principal. A caller may belong to
// several identity-provider groups at once.
type RoleSet map[Role]struct{}

func (s RoleSet) Has(role Role) bool {
	_, ok := s[role]
	return ok
}

func (s RoleSet) IsHR() bool {
	for role := range s {
		if role.IsHR() {
			return true
		}
	}
	return false
}

func (s RoleSet) IsManager() bool {
	for role := range s {
		if role.IsManager() {
			return true
		}
	}
	return false
}

// Primary returns the highest-privilege role in the set, used for audit
// logging and event metadata.
func (s RoleSet) Primary() Role {
	for _, role := range []Role{RoleHRAdmin, RoleHRManager, RoleManager, RoleEmployee} {
		if s.Has(role) {
			return role
		}
	}
	return RoleEmployee
}

func (s RoleSet) Roles() []string {
	roles := make([]string, 0, len(s))
	for _, role := range []Role{RoleHRAdmin, RoleHRManager, RoleManager, RoleEmployee} {
		if s.Has(role) {
			roles = append(roles, string(role))
		}
	}
	return roles
}

// groupRoles maps identity-provider group names to roles.
var groupRoles = map[string]Role{
	"HR_Administrators": RoleHRAdmin,
	"HR_Managers":       RoleHRManager,
	"Team_Managers":     RoleManager,
	"Employees":         RoleEmployee,
}

// RolesFromGroups maps identity-provider group names to a role set. Group
// names may carry a leading slash depending on provider configuration.
// Unrecognized groups are returned separately so the caller can log them;
// they never grant privileges.
func RolesFromGroups(groups []string) (RoleSet, []string) {
	roles := make(RoleSet)
	var unknown []string
	for _, group := range groups {
		name := strings.TrimPrefix(group, "/")
		role, ok := groupRoles[name]
		if !ok {
			unknown = append(unknown, group)
			continue
		}
		roles[role] = struct{}{}
	}
	return roles, unknown
}

// Principal is the authenticated caller, as established from a verified
// token. EmployeeID is resolved lazily from the directory and is zero until
// resolution succeeds.
type Principal struct {
	Subject    string
	Email      string
	Roles      RoleSet
	EmployeeID int64
}

// EmployeeRecord is the directory's view of an employee. ManagerID is nil
// for employees with no assigned manager.
type EmployeeRecord struct {
	ID        int64   `json:"id"`
	FullName  string  `json:"full_name"`
	Email     string  `json:"email"`
	ManagerID *int64  `json:"manager_id"`
	Position  *string `json:"position"`
}
