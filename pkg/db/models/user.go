package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/soukmarket/souk-backend/pkg/enums"
)

// User represents the canonical identity entity. IDs are generated in the
// application so the sqlite driver stays usable for local runs.
type User struct {
	ID              uuid.UUID        `gorm:"type:uuid;primaryKey"`
	Email           string           `gorm:"type:text;not null;uniqueIndex"`
	PasswordHash    string           `gorm:"column:password_hash;not null"`
	FullName        string           `gorm:"column:full_name;not null"`
	UserType        enums.UserType   `gorm:"column:user_type;not null"`
	Status          enums.UserStatus `gorm:"column:status;not null;default:'active'"`
	ProfileImage    *string          `gorm:"column:profile_image"`
	BackgroundImage *string          `gorm:"column:background_image"`
	CreatedAt       time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}
