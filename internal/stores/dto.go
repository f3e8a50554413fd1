package stores

import (
	"time"

	"github.com/google/uuid"

	"github.com/soukmarket/souk-backend/pkg/db/models"
	dbtypes "github.com/soukmarket/souk-backend/pkg/db/types"
	"github.com/soukmarket/souk-backend/pkg/enums"
)

// StoreDTO is the transport shape of a storefront.
type StoreDTO struct {
	ID                 uuid.UUID          `json:"id"`
	MerchantID         uuid.UUID          `json:"merchant_id"`
	Name               string             `json:"name"`
	Location           string             `json:"location,omitempty"`
	Categories         dbtypes.StringList `json:"categories"`
	RegistrationNumber string             `json:"registration_number,omitempty"`
	LogoImage          *string            `json:"logo_image,omitempty"`
	BackgroundImage    *string            `json:"background_image,omitempty"`
	Images             dbtypes.StringList `json:"images"`
	Status             enums.StoreStatus  `json:"status"`
	CreatedAt          time.Time          `json:"created_at"`
	UpdatedAt          time.Time          `json:"updated_at"`
}

// CreateStoreRequest is the body accepted when a merchant opens a store.
type CreateStoreRequest struct {
	Name               string   `json:"name" validate:"required"`
	Location           string   `json:"location"`
	Categories         []string `json:"categories"`
	RegistrationNumber string   `json:"registration_number"`
	LogoImage          *string  `json:"logo_image"`
	BackgroundImage    *string  `json:"background_image"`
	Images             []string `json:"images"`
}

// UpdateStoreRequest carries the mutable store fields. Nil leaves the field
// untouched.
type UpdateStoreRequest struct {
	Name               *string   `json:"name"`
	Location           *string   `json:"location"`
	Categories         *[]string `json:"categories"`
	RegistrationNumber *string   `json:"registration_number"`
	LogoImage          *string   `json:"logo_image"`
	BackgroundImage    *string   `json:"background_image"`
	Images             *[]string `json:"images"`
	Status             *string   `json:"status"`
}

func FromModel(s *models.Store) *StoreDTO {
	if s == nil {
		return nil
	}

	return &StoreDTO{
		ID:                 s.ID,
		MerchantID:         s.MerchantID,
		Name:               s.Name,
		Location:           s.Location,
		Categories:         s.Categories,
		RegistrationNumber: s.RegistrationNumber,
		LogoImage:          s.LogoImage,
		BackgroundImage:    s.BackgroundImage,
		Images:             s.Images,
		Status:             s.Status,
		CreatedAt:          s.CreatedAt,
		UpdatedAt:          s.UpdatedAt,
	}
}

func FromModels(list []models.Store) []StoreDTO {
	out := make([]StoreDTO, 0, len(list))
	for i := range list {
		out = append(out, *FromModel(&list[i]))
	}
	return out
}

func (r CreateStoreRequest) toModel(merchantID uuid.UUID) *models.Store {
	return &models.Store{
		ID:                 uuid.New(),
		MerchantID:         merchantID,
		Name:               r.Name,
		Location:           r.Location,
		Categories:         dbtypes.StringList(r.Categories),
		RegistrationNumber: r.RegistrationNumber,
		LogoImage:          r.LogoImage,
		BackgroundImage:    r.BackgroundImage,
		Images:             dbtypes.StringList(r.Images),
		Status:             enums.StoreStatusActive,
	}
}
