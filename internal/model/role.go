package model

import "fmt"

// ParseRole accepts only the four known role tags as they appear in token
// payloads. Unknown values never reach the store.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleSuperAdmin, RoleAdmin, RoleOrganizer, RoleStudent:
		return Role(s), nil
	default:
		return "", fmt.Errorf("invalid role %q", s)
	}
}
