package merchants

import (
	"time"

	"github.com/google/uuid"

	"github.com/soukmarket/souk-backend/pkg/db/models"
	dbtypes "github.com/soukmarket/souk-backend/pkg/db/types"
	"github.com/soukmarket/souk-backend/pkg/enums"
)

// MerchantProfileDTO is the transport shape of a merchant profile.
type MerchantProfileDTO struct {
	ID              uuid.UUID        `json:"id"`
	Email           string           `json:"email"`
	FullName        string           `json:"full_name"`
	Country         string           `json:"country,omitempty"`
	Status          enums.UserStatus `json:"status"`
	ProfileImage    *string          `json:"profile_image,omitempty"`
	BackgroundImage *string          `json:"background_image,omitempty"`
	Products        dbtypes.RefList  `json:"products"`
	Stores          dbtypes.RefList  `json:"stores"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
}

// CreateProfileRequest is the body accepted when a merchant opens a profile.
type CreateProfileRequest struct {
	Country string `json:"country"`
}

// CreateProfileInput combines the request body with the caller's identity.
type CreateProfileInput struct {
	UserID   uuid.UUID
	Email    string
	FullName string
	Country  string
}

// UpdateProfileRequest carries the mutable profile fields. Nil means leave
// the field untouched.
type UpdateProfileRequest struct {
	FullName        *string `json:"full_name"`
	Country         *string `json:"country"`
	Status          *string `json:"status"`
	ProfileImage    *string `json:"profile_image"`
	BackgroundImage *string `json:"background_image"`
}

func FromModel(p *models.MerchantProfile) *MerchantProfileDTO {
	if p == nil {
		return nil
	}

	return &MerchantProfileDTO{
		ID:              p.ID,
		Email:           p.Email,
		FullName:        p.FullName,
		Country:         p.Country,
		Status:          p.Status,
		ProfileImage:    p.ProfileImage,
		BackgroundImage: p.BackgroundImage,
		Products:        p.Products,
		Stores:          p.Stores,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
}

func FromModels(list []models.MerchantProfile) []MerchantProfileDTO {
	out := make([]MerchantProfileDTO, 0, len(list))
	for i := range list {
		out = append(out, *FromModel(&list[i]))
	}
	return out
}
