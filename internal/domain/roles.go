package domain

import "strings"

// Role captures the acting identity's position resolved by the surrounding
// auth layer. The engine never fetches roles itself; callers resolve the role
// once per request and pass it in.
type Role string

const (
	RoleOwner     Role = "owner"
	RoleAdmin     Role = "admin"
	RoleOps       Role = "ops"
	RoleStaff     Role = "staff"
	RoleAgent     Role = "agent"
	RoleDeveloper Role = "developer"
	RoleGuest     Role = "guest"
)

// ParseRole normalizes free text into a known role, defaulting to guest.
func ParseRole(input string) Role {
	role := Role(strings.ToLower(strings.TrimSpace(input)))
	switch role {
	case RoleOwner, RoleAdmin, RoleOps, RoleStaff, RoleAgent, RoleDeveloper:
		return role
	default:
		return RoleGuest
	}
}

// IsReviewer reports whether the role may drive review-facing transitions
// (under_review, needs_changes, approved).
func (r Role) IsReviewer() bool {
	switch r {
	case RoleOwner, RoleAdmin, RoleOps, RoleStaff:
		return true
	default:
		return false
	}
}

// IsPublisher reports whether the role may transition an entity into the
// published state.
func (r Role) IsPublisher() bool {
	return r == RoleOwner || r == RoleAdmin
}

// IsStaffside reports whether the role belongs to the internal staff tool
// (resale inventory) rather than the developer portal.
func (r Role) IsStaffside() bool {
	switch r {
	case RoleOwner, RoleAdmin, RoleOps, RoleStaff, RoleAgent:
		return true
	default:
		return false
	}
}
