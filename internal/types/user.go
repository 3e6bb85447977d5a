package types

import (
	"time"

	"github.com/google/uuid"

	"github.com/gfgm/gfgm/backend/internal/models"
)

// UserSummaryDTO is the author block embedded in recipe projections
type UserSummaryDTO struct {
	ID             uuid.UUID   `json:"id"`
	Username       string      `json:"username"`
	FirstName      string      `json:"first_name"`
	LastName       string      `json:"last_name"`
	Email          string      `json:"email"`
	ProfilePicture *string     `json:"profile_picture"`
	Role           models.Role `json:"role"`
	CreatedAt      time.Time   `json:"created_at"`
}

// UserResponse is the full public view of a user
type UserResponse struct {
	ID             uuid.UUID   `json:"id"`
	Username       string      `json:"username"`
	Email          string      `json:"email"`
	FirstName      string      `json:"first_name"`
	LastName       string      `json:"last_name"`
	ProfilePicture *string     `json:"profile_picture"`
	Bio            string      `json:"bio"`
	Role           models.Role `json:"role"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`
}

// AuthResponse is returned by login and registration
type AuthResponse struct {
	Token     string       `json:"token"`
	TokenType string       `json:"token_type"`
	User      UserResponse `json:"user"`
}

// UserUpdateResponse is returned by a profile update.
// Token is set only when the username changed and a new token was issued.
type UserUpdateResponse struct {
	ID             uuid.UUID   `json:"id"`
	Username       string      `json:"username"`
	Email          string      `json:"email"`
	FirstName      string      `json:"first_name"`
	LastName       string      `json:"last_name"`
	ProfilePicture *string     `json:"profile_picture"`
	Bio            string      `json:"bio"`
	Role           models.Role `json:"role"`
	Token          string      `json:"token,omitempty"`
}

// AdminUserUpdateResponse is returned by an administrative user update
type AdminUserUpdateResponse struct {
	ID             uuid.UUID   `json:"id"`
	Username       string      `json:"username"`
	Email          string      `json:"email"`
	FirstName      string      `json:"first_name"`
	LastName       string      `json:"last_name"`
	ProfilePicture *string     `json:"profile_picture"`
	Role           models.Role `json:"role"`
	Token          string      `json:"token,omitempty"`
	SelfUpdate     bool        `json:"self_update"`
}
