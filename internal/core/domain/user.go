package domain

import (
	"fmt"
	"strings"
	"time"
)

// Role is the closed set of actor roles. The zero value is not a valid role.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleAuthor Role = "author"
	RoleUser   Role = "user"
)

// Roles lists every valid role in display order.
var Roles = []Role{RoleAdmin, RoleAuthor, RoleUser}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleAuthor, RoleUser:
		return true
	default:
		return false
	}
}

// ParseRole normalises s and returns the matching Role.
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	if !r.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidRole, s)
	}
	return r, nil
}

// User models a registered account.
type User struct {
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Claims is the identity carried by a session or a bearer token.
type Claims struct {
	Username string `json:"username"`
	Role     Role   `json:"role"`
}

// Claims returns the minimal identity of u.
func (u *User) Claims() Claims {
	return Claims{Username: u.Username, Role: u.Role}
}

// IsAdmin reports whether the claim belongs to an admin.
func (c Claims) IsAdmin() bool {
	return c.Role == RoleAdmin
}
