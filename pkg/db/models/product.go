package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	dbtypes "github.com/soukmarket/souk-backend/pkg/db/types"
)

// Product represents a merchant listing. Caller-supplied extension fields
// land in Attributes, never in DDL.
type Product struct {
	ID              uuid.UUID          `gorm:"type:uuid;primaryKey"`
	MerchantID      uuid.UUID          `gorm:"column:merchant_id;type:uuid;not null;index"`
	Title           string             `gorm:"column:title;not null"`
	Description     string             `gorm:"column:description"`
	Price           decimal.Decimal    `gorm:"column:price;type:numeric(12,2);not null"`
	Category        string             `gorm:"column:category;index"`
	Images          dbtypes.StringList `gorm:"column:images;type:jsonb;not null;default:'[]'"`
	Stock           int                `gorm:"column:stock;not null;default:0"`
	Specifications  dbtypes.JSONMap    `gorm:"column:specifications;type:jsonb;not null;default:'{}'"`
	CountryOfOrigin string             `gorm:"column:country_of_origin"`
	Attributes      dbtypes.JSONMap    `gorm:"column:attributes;type:jsonb;not null;default:'{}'"`
	CreatedAt       time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}
