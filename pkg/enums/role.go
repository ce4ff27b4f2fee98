package enums

import "fmt"

// Role describes the access level attached to a user record. An empty role is
// treated as a regular client.
type Role string

const (
	RoleClient  Role = "client"
	RoleManager Role = "manager"
	RoleAdmin   Role = "admin"
)

var validRoles = []Role{
	RoleClient,
	RoleManager,
	RoleAdmin,
}

// IsValid reports whether the value matches the canonical role enum.
func (r Role) IsValid() bool {
	for _, candidate := range validRoles {
		if candidate == r {
			return true
		}
	}
	return false
}

// IsStaff reports whether the role grants access to the manager panel.
func (r Role) IsStaff() bool {
	return r == RoleManager || r == RoleAdmin
}

// Normalize maps the unset role onto the client role.
func (r Role) Normalize() Role {
	if r == "" {
		return RoleClient
	}
	return r
}

// ParseRole converts the raw string to Role.
func ParseRole(value string) (Role, error) {
	if value == "" {
		return RoleClient, nil
	}
	for _, candidate := range validRoles {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid role %q", value)
}
