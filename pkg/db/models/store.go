package models

import (
	"time"

	"github.com/google/uuid"

	dbtypes "github.com/soukmarket/souk-backend/pkg/db/types"
	"github.com/soukmarket/souk-backend/pkg/enums"
)

// Store represents a merchant storefront.
type Store struct {
	ID                 uuid.UUID          `gorm:"type:uuid;primaryKey"`
	MerchantID         uuid.UUID          `gorm:"column:merchant_id;type:uuid;not null;index"`
	Name               string             `gorm:"column:name;not null"`
	Location           string             `gorm:"column:location"`
	Categories         dbtypes.StringList `gorm:"column:categories;type:jsonb;not null;default:'[]'"`
	RegistrationNumber string             `gorm:"column:registration_number"`
	LogoImage          *string            `gorm:"column:logo_image"`
	BackgroundImage    *string            `gorm:"column:background_image"`
	Images             dbtypes.StringList `gorm:"column:images;type:jsonb;not null;default:'[]'"`
	Status             enums.StoreStatus  `gorm:"column:status;not null;default:'active'"`
	CreatedAt          time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt          time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}
