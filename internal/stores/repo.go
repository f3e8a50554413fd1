package stores

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/soukmarket/souk-backend/pkg/db/models"
	dbtypes "github.com/soukmarket/souk-backend/pkg/db/types"
	"github.com/soukmarket/souk-backend/pkg/enums"
	"github.com/soukmarket/souk-backend/pkg/pagination"
)

// Repository exposes store persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a stores repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// CreateAndLink inserts the store, then appends its id to the owning
// merchant profile's denormalized list. The two writes are sequential and
// non-transactional; a failed link leaves the store committed and surfaces
// the error to the caller.
func (r *Repository) CreateAndLink(ctx context.Context, store *models.Store) error {
	if err := r.db.WithContext(ctx).Create(store).Error; err != nil {
		return err
	}

	var profile models.MerchantProfile
	if err := r.db.WithContext(ctx).First(&profile, "id = ?", store.MerchantID).Error; err != nil {
		return err
	}
	return r.db.WithContext(ctx).
		Model(&models.MerchantProfile{}).
		Where("id = ?", store.MerchantID).
		Update("stores", profile.Stores.Append(store.ID)).Error
}

// FindByID loads a store by id.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Store, error) {
	var store models.Store
	if err := r.db.WithContext(ctx).First(&store, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &store, nil
}

// ListByMerchant returns all stores owned by the merchant.
func (r *Repository) ListByMerchant(ctx context.Context, merchantID uuid.UUID) ([]models.Store, error) {
	var list []models.Store
	if err := r.db.WithContext(ctx).
		Where("merchant_id = ?", merchantID).
		Order("created_at DESC").
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

// ListAll returns a page across every merchant's stores.
func (r *Repository) ListAll(ctx context.Context, params pagination.Params) ([]models.Store, int64, error) {
	params = pagination.Normalize(params)

	query := r.db.WithContext(ctx).Model(&models.Store{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var list []models.Store
	if err := query.
		Order("created_at DESC").
		Offset(params.Offset()).
		Limit(params.Limit).
		Find(&list).Error; err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

// Update applies the provided mutable fields to the store row.
func (r *Repository) Update(ctx context.Context, id uuid.UUID, req UpdateStoreRequest, status *enums.StoreStatus) (*models.Store, error) {
	updates := map[string]any{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Location != nil {
		updates["location"] = *req.Location
	}
	if req.Categories != nil {
		updates["categories"] = dbtypes.StringList(*req.Categories)
	}
	if req.RegistrationNumber != nil {
		updates["registration_number"] = *req.RegistrationNumber
	}
	if req.LogoImage != nil {
		updates["logo_image"] = *req.LogoImage
	}
	if req.BackgroundImage != nil {
		updates["background_image"] = *req.BackgroundImage
	}
	if req.Images != nil {
		updates["images"] = dbtypes.StringList(*req.Images)
	}
	if status != nil {
		updates["status"] = *status
	}

	if len(updates) > 0 {
		if err := r.db.WithContext(ctx).
			Model(&models.Store{}).
			Where("id = ?", id).
			Updates(updates).Error; err != nil {
			return nil, err
		}
	}
	return r.FindByID(ctx, id)
}

// DeleteAndUnlink removes the store row and drops its back-reference from
// the owning merchant profile.
func (r *Repository) DeleteAndUnlink(ctx context.Context, store *models.Store) error {
	if err := r.db.WithContext(ctx).Delete(&models.Store{}, "id = ?", store.ID).Error; err != nil {
		return err
	}

	var profile models.MerchantProfile
	err := r.db.WithContext(ctx).First(&profile, "id = ?", store.MerchantID).Error
	if err != nil {
		// The store row is gone; a missing profile leaves nothing to unlink.
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}
	return r.db.WithContext(ctx).
		Model(&models.MerchantProfile{}).
		Where("id = ?", store.MerchantID).
		Update("stores", profile.Stores.Remove(store.ID)).Error
}
