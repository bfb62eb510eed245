package model

import "strings"

// Role decides which route groups a signed-in user may reach.
type Role string

const (
	RoleAdmin      Role = "admin"
	RoleInstructor Role = "instructor"
	RoleStaff      Role = "staff"
	RoleRider      Role = "rider"
	// RoleUnknown is the least-privileged role. Anything that is not one
	// of the roles above collapses to it.
	RoleUnknown Role = "unknown"
)

// DefaultRole is assigned to profiles created on first sign-in.
const DefaultRole = RoleRider

// ParseRole maps a stored role string onto the closed set of roles.
func ParseRole(s string) Role {
	switch r := Role(strings.ToLower(strings.TrimSpace(s))); r {
	case RoleAdmin, RoleInstructor, RoleStaff, RoleRider:
		return r
	default:
		return RoleUnknown
	}
}

// Valid reports whether r is an assignable role.
func (r Role) Valid() bool {
	return ParseRole(string(r)) == r && r != RoleUnknown
}

func (r Role) String() string { return string(r) }
