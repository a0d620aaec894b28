package models

import (
	"time"

	"github.com/google/uuid"
)

// Role constants
const (
	RoleViewer = "viewer"
	RoleAdmin  = "admin"
)

// User represents an operator authenticated via OIDC.
type User struct {
	ID        uuid.UUID `json:"id"`
	Sub       string    `json:"sub"` // OIDC subject identifier
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Picture   string    `json:"picture"`
	Role      string    `json:"role"` // viewer, admin
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsAdmin returns true if the user holds the administrator capability.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
