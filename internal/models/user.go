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

// User represents a dashboard user authenticated via OIDC. Viewers can
// read experiments and stats; admins can create, edit, and delete.
type User struct {
	ID        uuid.UUID `json:"id"`
	Sub       string    `json:"sub"` // OIDC subject identifier
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsAdmin returns true if the user can manage experiments.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
