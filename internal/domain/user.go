package domain

import "time"

// Role represents an account's authorization level.
// "Admin" and "Rider" keep the source system's capitalized wire values.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "Admin"
	RoleRider Role = "Rider"
)

// User represents an account in the system. Email is the unique key.
type User struct {
	ID        string
	Name      string
	Email     string
	Role      Role
	CreatedAt time.Time
}
