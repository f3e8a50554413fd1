package products

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/soukmarket/souk-backend/pkg/db/models"
	dbtypes "github.com/soukmarket/souk-backend/pkg/db/types"
	"github.com/soukmarket/souk-backend/pkg/pagination"
)

// ListFilters narrows the public catalog query. Zero values are skipped.
type ListFilters struct {
	Category        string
	Search          string
	MinPrice        *decimal.Decimal
	MaxPrice        *decimal.Decimal
	MerchantID      *uuid.UUID
	CountryOfOrigin string
}

// Repository exposes product persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a products repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// CreateAndLink inserts the product, then appends its id to the owning
// merchant profile's denormalized list. The writes are sequential and
// non-transactional; a failed link leaves the product committed.
func (r *Repository) CreateAndLink(ctx context.Context, product *models.Product) error {
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return err
	}

	var profile models.MerchantProfile
	if err := r.db.WithContext(ctx).First(&profile, "id = ?", product.MerchantID).Error; err != nil {
		return err
	}
	return r.db.WithContext(ctx).
		Model(&models.MerchantProfile{}).
		Where("id = ?", product.MerchantID).
		Update("products", profile.Products.Append(product.ID)).Error
}

// FindByID loads a product by id.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// List returns a page of the catalog after applying the filters.
func (r *Repository) List(ctx context.Context, filters ListFilters, params pagination.Params) ([]models.Product, int64, error) {
	params = pagination.Normalize(params)

	query := r.db.WithContext(ctx).Model(&models.Product{})
	if filters.Category != "" {
		query = query.Where("category = ?", filters.Category)
	}
	if filters.Search != "" {
		needle := "%" + strings.ToLower(filters.Search) + "%"
		query = query.Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ?", needle, needle)
	}
	if filters.MinPrice != nil {
		query = query.Where("price >= ?", *filters.MinPrice)
	}
	if filters.MaxPrice != nil {
		query = query.Where("price <= ?", *filters.MaxPrice)
	}
	if filters.MerchantID != nil {
		query = query.Where("merchant_id = ?", *filters.MerchantID)
	}
	if filters.CountryOfOrigin != "" {
		query = query.Where("country_of_origin = ?", filters.CountryOfOrigin)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var list []models.Product
	if err := query.
		Order("created_at DESC").
		Offset(params.Offset()).
		Limit(params.Limit).
		Find(&list).Error; err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

// ListByMerchant returns all products owned by the merchant.
func (r *Repository) ListByMerchant(ctx context.Context, merchantID uuid.UUID) ([]models.Product, error) {
	var list []models.Product
	if err := r.db.WithContext(ctx).
		Where("merchant_id = ?", merchantID).
		Order("created_at DESC").
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

// Update applies the provided mutable fields to the product row.
func (r *Repository) Update(ctx context.Context, id uuid.UUID, req UpdateProductRequest) (*models.Product, error) {
	updates := map[string]any{}
	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Price != nil {
		updates["price"] = *req.Price
	}
	if req.Category != nil {
		updates["category"] = *req.Category
	}
	if req.Images != nil {
		updates["images"] = dbtypes.StringList(*req.Images)
	}
	if req.Stock != nil {
		updates["stock"] = *req.Stock
	}
	if req.Specifications != nil {
		updates["specifications"] = *req.Specifications
	}
	if req.CountryOfOrigin != nil {
		updates["country_of_origin"] = *req.CountryOfOrigin
	}
	if req.Attributes != nil {
		updates["attributes"] = *req.Attributes
	}

	if len(updates) > 0 {
		if err := r.db.WithContext(ctx).
			Model(&models.Product{}).
			Where("id = ?", id).
			Updates(updates).Error; err != nil {
			return nil, err
		}
	}
	return r.FindByID(ctx, id)
}

// DeleteAndUnlink removes the product row and drops its back-reference from
// the owning merchant profile.
func (r *Repository) DeleteAndUnlink(ctx context.Context, product *models.Product) error {
	if err := r.db.WithContext(ctx).Delete(&models.Product{}, "id = ?", product.ID).Error; err != nil {
		return err
	}

	var profile models.MerchantProfile
	err := r.db.WithContext(ctx).First(&profile, "id = ?", product.MerchantID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}
	return r.db.WithContext(ctx).
		Model(&models.MerchantProfile{}).
		Where("id = ?", product.MerchantID).
		Update("products", profile.Products.Remove(product.ID)).Error
}
