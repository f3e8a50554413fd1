package stores

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/soukmarket/souk-backend/pkg/db/models"
	"github.com/soukmarket/souk-backend/pkg/enums"
	pkgerrors "github.com/soukmarket/souk-backend/pkg/errors"
	"github.com/soukmarket/souk-backend/pkg/pagination"
)

type storesRepository interface {
	CreateAndLink(ctx context.Context, store *models.Store) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Store, error)
	ListByMerchant(ctx context.Context, merchantID uuid.UUID) ([]models.Store, error)
	ListAll(ctx context.Context, params pagination.Params) ([]models.Store, int64, error)
	Update(ctx context.Context, id uuid.UUID, req UpdateStoreRequest, status *enums.StoreStatus) (*models.Store, error)
	DeleteAndUnlink(ctx context.Context, store *models.Store) error
}

// Service exposes storefront operations.
type Service interface {
	Create(ctx context.Context, merchantID uuid.UUID, req CreateStoreRequest) (*StoreDTO, error)
	GetByID(ctx context.Context, id uuid.UUID) (*StoreDTO, error)
	ListByMerchant(ctx context.Context, merchantID uuid.UUID) ([]StoreDTO, error)
	ListAll(ctx context.Context, params pagination.Params) ([]StoreDTO, pagination.Page, error)
	Update(ctx context.Context, id, actorID uuid.UUID, actorRole enums.UserType, req UpdateStoreRequest) (*StoreDTO, error)
	Delete(ctx context.Context, id, actorID uuid.UUID, actorRole enums.UserType) error
}

type service struct {
	repo storesRepository
}

func NewService(repo storesRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("stores repository required")
	}
	return &service{repo: repo}, nil
}

// Create opens a store for the merchant and links it on the merchant
// profile. A missing profile surfaces as not found.
func (s *service) Create(ctx context.Context, merchantID uuid.UUID, req CreateStoreRequest) (*StoreDTO, error) {
	store := req.toModel(merchantID)
	if err := s.repo.CreateAndLink(ctx, store); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "merchant profile not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating store")
	}
	return FromModel(store), nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*StoreDTO, error) {
	store, err := s.loadStore(ctx, id)
	if err != nil {
		return nil, err
	}
	return FromModel(store), nil
}

func (s *service) ListByMerchant(ctx context.Context, merchantID uuid.UUID) ([]StoreDTO, error) {
	list, err := s.repo.ListByMerchant(ctx, merchantID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing merchant stores")
	}
	return FromModels(list), nil
}

func (s *service) ListAll(ctx context.Context, params pagination.Params) ([]StoreDTO, pagination.Page, error) {
	list, total, err := s.repo.ListAll(ctx, params)
	if err != nil {
		return nil, pagination.Page{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing stores")
	}
	return FromModels(list), pagination.MetaFor(params, total), nil
}

// Update mutates a store owned by the actor; admins may touch any store.
func (s *service) Update(ctx context.Context, id, actorID uuid.UUID, actorRole enums.UserType, req UpdateStoreRequest) (*StoreDTO, error) {
	store, err := s.loadStore(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := requireOwnership(store, actorID, actorRole); err != nil {
		return nil, err
	}

	var status *enums.StoreStatus
	if req.Status != nil {
		parsed, err := enums.ParseStoreStatus(*req.Status)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status")
		}
		status = &parsed
	}

	updated, err := s.repo.Update(ctx, id, req, status)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating store")
	}
	return FromModel(updated), nil
}

// Delete removes a store owned by the actor; admins may remove any store.
func (s *service) Delete(ctx context.Context, id, actorID uuid.UUID, actorRole enums.UserType) error {
	store, err := s.loadStore(ctx, id)
	if err != nil {
		return err
	}
	if err := requireOwnership(store, actorID, actorRole); err != nil {
		return err
	}
	if err := s.repo.DeleteAndUnlink(ctx, store); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "deleting store")
	}
	return nil
}

func (s *service) loadStore(ctx context.Context, id uuid.UUID) (*models.Store, error) {
	store, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "store not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading store")
	}
	return store, nil
}

func requireOwnership(store *models.Store, actorID uuid.UUID, actorRole enums.UserType) error {
	if actorRole == enums.UserTypeAdmin {
		return nil
	}
	if store.MerchantID != actorID {
		return pkgerrors.New(pkgerrors.CodeForbidden, "store belongs to another merchant")
	}
	return nil
}
