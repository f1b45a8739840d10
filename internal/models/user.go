package models

import "time"

// Role is the closed set of account roles.
type Role string

const (
	RoleStudent Role = "student"
	RoleTeacher Role = "teacher"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleTeacher:
		return true
	default:
		return false
	}
}

// User represents an account stored in the users table. Role is fixed at registration.
type User struct {
	ID             string    `db:"id" json:"id"`
	Username       string    `db:"username" json:"username"`
	Email          string    `db:"email" json:"email"`
	PasswordHash   string    `db:"password_hash" json:"-"`
	Role           Role      `db:"role" json:"role"`
	Bio            string    `db:"bio" json:"bio"`
	ProfilePicture *string   `db:"profile_picture" json:"profile_picture,omitempty"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}

// Principal identifies the caller of an operation. A nil principal is an anonymous caller.
type Principal struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Role     Role   `json:"role"`
}

// IsTeacher is safe to call on a nil principal.
func (p *Principal) IsTeacher() bool {
	return p != nil && p.Role == RoleTeacher
}

// Authenticated is safe to call on a nil principal.
func (p *Principal) Authenticated() bool {
	return p != nil && p.UserID != ""
}
