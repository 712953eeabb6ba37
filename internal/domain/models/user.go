package models

import (
	"strings"
	"time"
)

// Role distinguishes the admin console from the staff workbench.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleStaff Role = "staff"
)

// ParseRole normalizes free-form role input, defaulting to staff.
func ParseRole(value string) Role {
	switch Role(strings.ToLower(strings.TrimSpace(value))) {
	case RoleAdmin:
		return RoleAdmin
	default:
		return RoleStaff
	}
}

// User is the identity attached to a logged-in session. There is no password
// verification: any non-empty identifier is accepted.
type User struct {
	ID         string    `bson:"id" json:"id"`
	Role       Role      `bson:"role" json:"role"`
	Workspace  string    `bson:"workspace" json:"workspace"`
	LoggedInAt time.Time `bson:"logged_in_at" json:"logged_in_at"`
}

// IsAdmin reports whether the user opened the admin console.
func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
