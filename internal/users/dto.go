package users

import (
	"time"

	"github.com/google/uuid"

	"github.com/soukmarket/souk-backend/pkg/db/models"
	"github.com/soukmarket/souk-backend/pkg/enums"
)

// UserDTO is the transport shape that omits sensitive credentials.
type UserDTO struct {
	ID              uuid.UUID        `json:"id"`
	Email           string           `json:"email"`
	FullName        string           `json:"full_name"`
	UserType        enums.UserType   `json:"user_type"`
	Status          enums.UserStatus `json:"status"`
	ProfileImage    *string          `json:"profile_image,omitempty"`
	BackgroundImage *string          `json:"background_image,omitempty"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
}

// CreateUserDTO holds the data required by the repo to persist a new user.
type CreateUserDTO struct {
	Email        string
	PasswordHash string
	FullName     string
	UserType     enums.UserType
	Status       enums.UserStatus
}

// UpdateUserDTO carries the mutable profile fields. UserType is immutable
// after signup and Status is only changed by admins.
type UpdateUserDTO struct {
	FullName        *string
	Status          *enums.UserStatus
	ProfileImage    *string
	BackgroundImage *string
}

func FromModel(u *models.User) *UserDTO {
	if u == nil {
		return nil
	}

	return &UserDTO{
		ID:              u.ID,
		Email:           u.Email,
		FullName:        u.FullName,
		UserType:        u.UserType,
		Status:          u.Status,
		ProfileImage:    u.ProfileImage,
		BackgroundImage: u.BackgroundImage,
		CreatedAt:       u.CreatedAt,
		UpdatedAt:       u.UpdatedAt,
	}
}

func FromModels(list []models.User) []UserDTO {
	out := make([]UserDTO, 0, len(list))
	for i := range list {
		out = append(out, *FromModel(&list[i]))
	}
	return out
}

func (c CreateUserDTO) ToModel() *models.User {
	status := c.Status
	if status == "" {
		status = enums.UserStatusActive
	}

	return &models.User{
		ID:           uuid.New(),
		Email:        c.Email,
		PasswordHash: c.PasswordHash,
		FullName:     c.FullName,
		UserType:     c.UserType,
		Status:       status,
	}
}
