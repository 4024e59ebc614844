package domain

import "time"

// Role determines which operations a session may invoke.
type Role string

const (
	RoleStudent    Role = "student"
	RoleTechnician Role = "technician"
)

// Valid reports whether the role is one of the known values.
func (r Role) Valid() bool {
	return r == RoleStudent || r == RoleTechnician
}

// User is the domain model for campus accounts. Usernames are unique and
// matched case-sensitively.
type User struct {
	ID           string
	Username     string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
