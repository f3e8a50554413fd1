package auth

import (
	"github.com/google/uuid"

	"github.com/soukmarket/souk-backend/internal/users"
)

// RegisterRequest captures the payload for onboarding a new user.
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	FullName string `json:"full_name" validate:"required"`
	UserType string `json:"user_type" validate:"required"`
}

// RegisterResponse contains the new user id, the issued token, and the user.
type RegisterResponse struct {
	UserID uuid.UUID      `json:"user_id"`
	Token  string         `json:"token"`
	User   *users.UserDTO `json:"user"`
}

// LoginRequest captures the user credentials sent to the login endpoint.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse contains the token and user produced by a successful login.
type LoginResponse struct {
	Token string         `json:"token"`
	User  *users.UserDTO `json:"user"`
}
