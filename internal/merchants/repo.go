package merchants

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/soukmarket/souk-backend/pkg/db/models"
	"github.com/soukmarket/souk-backend/pkg/enums"
	"github.com/soukmarket/souk-backend/pkg/pagination"
)

// Repository exposes merchant profile persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a merchants repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new merchant profile keyed by the owning user's id.
func (r *Repository) Create(ctx context.Context, profile *models.MerchantProfile) error {
	return r.db.WithContext(ctx).Create(profile).Error
}

// FindByID loads a merchant profile by the owning user's id.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.MerchantProfile, error) {
	var profile models.MerchantProfile
	if err := r.db.WithContext(ctx).First(&profile, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

// List returns a page of merchant profiles.
func (r *Repository) List(ctx context.Context, params pagination.Params) ([]models.MerchantProfile, int64, error) {
	params = pagination.Normalize(params)

	query := r.db.WithContext(ctx).Model(&models.MerchantProfile{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var list []models.MerchantProfile
	if err := query.
		Order("created_at DESC").
		Offset(params.Offset()).
		Limit(params.Limit).
		Find(&list).Error; err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

// Update applies the provided mutable fields to the profile row.
func (r *Repository) Update(ctx context.Context, id uuid.UUID, fullName, country *string, status *enums.UserStatus, profileImage, backgroundImage *string) (*models.MerchantProfile, error) {
	updates := map[string]any{}
	if fullName != nil {
		updates["full_name"] = *fullName
	}
	if country != nil {
		updates["country"] = *country
	}
	if status != nil {
		updates["status"] = *status
	}
	if profileImage != nil {
		updates["profile_image"] = *profileImage
	}
	if backgroundImage != nil {
		updates["background_image"] = *backgroundImage
	}

	if len(updates) > 0 {
		if err := r.db.WithContext(ctx).
			Model(&models.MerchantProfile{}).
			Where("id = ?", id).
			Updates(updates).Error; err != nil {
			return nil, err
		}
	}
	return r.FindByID(ctx, id)
}

// Delete removes the merchant profile row.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.MerchantProfile{}, "id = ?", id).Error
}

// AppendStoreRef records a new store id in the profile's denormalized list.
func (r *Repository) AppendStoreRef(ctx context.Context, merchantID, storeID uuid.UUID) error {
	profile, err := r.FindByID(ctx, merchantID)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).
		Model(&models.MerchantProfile{}).
		Where("id = ?", merchantID).
		Update("stores", profile.Stores.Append(storeID)).Error
}

// AppendProductRef records a new product id in the profile's denormalized list.
func (r *Repository) AppendProductRef(ctx context.Context, merchantID, productID uuid.UUID) error {
	profile, err := r.FindByID(ctx, merchantID)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).
		Model(&models.MerchantProfile{}).
		Where("id = ?", merchantID).
		Update("products", profile.Products.Append(productID)).Error
}

// RemoveStoreRef drops a store id from the profile's denormalized list.
func (r *Repository) RemoveStoreRef(ctx context.Context, merchantID, storeID uuid.UUID) error {
	profile, err := r.FindByID(ctx, merchantID)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).
		Model(&models.MerchantProfile{}).
		Where("id = ?", merchantID).
		Update("stores", profile.Stores.Remove(storeID)).Error
}

// RemoveProductRef drops a product id from the profile's denormalized list.
func (r *Repository) RemoveProductRef(ctx context.Context, merchantID, productID uuid.UUID) error {
	profile, err := r.FindByID(ctx, merchantID)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).
		Model(&models.MerchantProfile{}).
		Where("id = ?", merchantID).
		Update("products", profile.Products.Remove(productID)).Error
}
