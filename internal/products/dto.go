package products

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/soukmarket/souk-backend/pkg/db/models"
	dbtypes "github.com/soukmarket/souk-backend/pkg/db/types"
)

// ProductDTO is the transport shape of a product listing.
type ProductDTO struct {
	ID              uuid.UUID          `json:"id"`
	MerchantID      uuid.UUID          `json:"merchant_id"`
	Title           string             `json:"title"`
	Description     string             `json:"description,omitempty"`
	Price           decimal.Decimal    `json:"price"`
	Category        string             `json:"category,omitempty"`
	Images          dbtypes.StringList `json:"images"`
	Stock           int                `json:"stock"`
	Specifications  dbtypes.JSONMap    `json:"specifications"`
	CountryOfOrigin string             `json:"country_of_origin,omitempty"`
	Attributes      dbtypes.JSONMap    `json:"attributes"`
	CreatedAt       time.Time          `json:"created_at"`
	UpdatedAt       time.Time          `json:"updated_at"`
}

// CreateProductRequest is the body accepted when a merchant lists a product.
// Fields that do not map to a fixed column are collected into Attributes
// instead of being rejected.
type CreateProductRequest struct {
	Title           string          `json:"title" validate:"required"`
	Description     string          `json:"description"`
	Price           decimal.Decimal `json:"price" validate:"required"`
	Category        string          `json:"category"`
	Images          []string        `json:"images"`
	Stock           int             `json:"stock"`
	Specifications  dbtypes.JSONMap `json:"specifications"`
	CountryOfOrigin string          `json:"country_of_origin"`
	Attributes      dbtypes.JSONMap `json:"attributes"`
}

var knownProductFields = map[string]struct{}{
	"title":             {},
	"description":       {},
	"price":             {},
	"category":          {},
	"images":            {},
	"stock":             {},
	"specifications":    {},
	"country_of_origin": {},
	"attributes":        {},
}

// UnmarshalJSON folds unknown body fields into Attributes so extension data
// never drives schema changes.
func (r *CreateProductRequest) UnmarshalJSON(data []byte) error {
	type alias CreateProductRequest
	var known alias
	if err := json.Unmarshal(data, &known); err != nil {
		return err
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	extra := dbtypes.JSONMap{}
	for k, v := range known.Attributes {
		extra[k] = v
	}
	for key, value := range raw {
		if _, ok := knownProductFields[key]; ok {
			continue
		}
		var decoded any
		if err := json.Unmarshal(value, &decoded); err != nil {
			return err
		}
		extra[key] = decoded
	}

	*r = CreateProductRequest(known)
	r.Attributes = extra
	return nil
}

// UpdateProductRequest carries the mutable product fields. Nil leaves the
// field untouched.
type UpdateProductRequest struct {
	Title           *string          `json:"title"`
	Description     *string          `json:"description"`
	Price           *decimal.Decimal `json:"price"`
	Category        *string          `json:"category"`
	Images          *[]string        `json:"images"`
	Stock           *int             `json:"stock"`
	Specifications  *dbtypes.JSONMap `json:"specifications"`
	CountryOfOrigin *string          `json:"country_of_origin"`
	Attributes      *dbtypes.JSONMap `json:"attributes"`
}

func FromModel(p *models.Product) *ProductDTO {
	if p == nil {
		return nil
	}

	return &ProductDTO{
		ID:              p.ID,
		MerchantID:      p.MerchantID,
		Title:           p.Title,
		Description:     p.Description,
		Price:           p.Price,
		Category:        p.Category,
		Images:          p.Images,
		Stock:           p.Stock,
		Specifications:  p.Specifications,
		CountryOfOrigin: p.CountryOfOrigin,
		Attributes:      p.Attributes,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
}

func FromModels(list []models.Product) []ProductDTO {
	out := make([]ProductDTO, 0, len(list))
	for i := range list {
		out = append(out, *FromModel(&list[i]))
	}
	return out
}

func (r CreateProductRequest) toModel(merchantID uuid.UUID) *models.Product {
	specs := r.Specifications
	if specs == nil {
		specs = dbtypes.JSONMap{}
	}
	attrs := r.Attributes
	if attrs == nil {
		attrs = dbtypes.JSONMap{}
	}

	return &models.Product{
		ID:              uuid.New(),
		MerchantID:      merchantID,
		Title:           r.Title,
		Description:     r.Description,
		Price:           r.Price,
		Category:        r.Category,
		Images:          dbtypes.StringList(r.Images),
		Stock:           r.Stock,
		Specifications:  specs,
		CountryOfOrigin: r.CountryOfOrigin,
		Attributes:      attrs,
	}
}
