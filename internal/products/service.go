package products

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

type productsRepository interface {
	CreateAndLink(ctx context.Context, product *models.Product) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	List(ctx context.Context, filters ListFilters, params pagination.Params) ([]models.Product, int64, error)
	ListByMerchant(ctx context.Context, merchantID uuid.UUID) ([]models.Product, error)
	Update(ctx context.Context, id uuid.UUID, req UpdateProductRequest) (*models.Product, error)
	DeleteAndUnlink(ctx context.Context, product *models.Product) error
}

// Service exposes product catalog operations.
type Service interface {
	Create(ctx context.Context, merchantID uuid.UUID, req CreateProductRequest) (*ProductDTO, error)
	GetByID(ctx context.Context, id uuid.UUID) (*ProductDTO, error)
	List(ctx context.Context, filters ListFilters, params pagination.Params) ([]ProductDTO, pagination.Page, error)
	ListByMerchant(ctx context.Context, merchantID uuid.UUID) ([]ProductDTO, error)
	Update(ctx context.Context, id, actorID uuid.UUID, actorRole enums.UserType, req UpdateProductRequest) (*ProductDTO, error)
	Delete(ctx context.Context, id, actorID uuid.UUID, actorRole enums.UserType) error
}

type service struct {
	repo productsRepository
}

func NewService(repo productsRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("products repository required")
	}
	return &service{repo: repo}, nil
}

// Create lists a product for the merchant and links it on the merchant
// profile. A missing profile surfaces as not found.
func (s *service) Create(ctx context.Context, merchantID uuid.UUID, req CreateProductRequest) (*ProductDTO, error) {
	if req.Price.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
	}

	product := req.toModel(merchantID)
	if err := s.repo.CreateAndLink(ctx, product); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "merchant profile not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating product")
	}
	return FromModel(product), nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*ProductDTO, error) {
	product, err := s.loadProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	return FromModel(product), nil
}

func (s *service) List(ctx context.Context, filters ListFilters, params pagination.Params) ([]ProductDTO, pagination.Page, error) {
	list, total, err := s.repo.List(ctx, filters, params)
	if err != nil {
		return nil, pagination.Page{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing products")
	}
	return FromModels(list), pagination.MetaFor(params, total), nil
}

func (s *service) ListByMerchant(ctx context.Context, merchantID uuid.UUID) ([]ProductDTO, error) {
	list, err := s.repo.ListByMerchant(ctx, merchantID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing merchant products")
	}
	return FromModels(list), nil
}

// Update mutates a product owned by the actor; admins may touch any product.
func (s *service) Update(ctx context.Context, id, actorID uuid.UUID, actorRole enums.UserType, req UpdateProductRequest) (*ProductDTO, error) {
	product, err := s.loadProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := requireOwnership(product, actorID, actorRole); err != nil {
		return nil, err
	}
	if req.Price != nil && req.Price.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
	}

	updated, err := s.repo.Update(ctx, id, req)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating product")
	}
	return FromModel(updated), nil
}

// Delete removes a product owned by the actor; admins may remove any
// product.
func (s *service) Delete(ctx context.Context, id, actorID uuid.UUID, actorRole enums.UserType) error {
	product, err := s.loadProduct(ctx, id)
	if err != nil {
		return err
	}
	if err := requireOwnership(product, actorID, actorRole); err != nil {
		return err
	}
	if err := s.repo.DeleteAndUnlink(ctx, product); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "deleting product")
	}
	return nil
}

func (s *service) loadProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading product")
	}
	return product, nil
}

func requireOwnership(product *models.Product, actorID uuid.UUID, actorRole enums.UserType) error {
	if actorRole == enums.UserTypeAdmin {
		return nil
	}
	if product.MerchantID != actorID {
		return pkgerrors.New(pkgerrors.CodeForbidden, "product belongs to another merchant")
	}
	return nil
}
