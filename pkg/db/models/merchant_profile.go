package models

import (
	"time"

	"github.com/google/uuid"

	dbtypes "github.com/soukmarket/souk-backend/pkg/db/types"
	"github.com/soukmarket/souk-backend/pkg/enums"
)

// MerchantProfile is the merchant-facing record keyed by the owning user's
// id. Products and Stores are denormalized back-references maintained by the
// create-and-link repository operations.
type MerchantProfile struct {
	ID              uuid.UUID        `gorm:"type:uuid;primaryKey"`
	Email           string           `gorm:"type:text;not null"`
	FullName        string           `gorm:"column:full_name;not null"`
	Country         string           `gorm:"column:country"`
	Status          enums.UserStatus `gorm:"column:status;not null;default:'active'"`
	ProfileImage    *string          `gorm:"column:profile_image"`
	BackgroundImage *string          `gorm:"column:background_image"`
	Products        dbtypes.RefList  `gorm:"column:products;type:jsonb;not null;default:'[]'"`
	Stores          dbtypes.RefList  `gorm:"column:stores;type:jsonb;not null;default:'[]'"`
	CreatedAt       time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName keeps the historical table name.
func (MerchantProfile) TableName() string {
	return "merchant_profiles"
}
