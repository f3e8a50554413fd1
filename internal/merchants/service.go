package merchants

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/soukmarket/souk-backend/pkg/db"
	"github.com/soukmarket/souk-backend/pkg/db/models"
	dbtypes "github.com/soukmarket/souk-backend/pkg/db/types"
	"github.com/soukmarket/souk-backend/pkg/enums"
	pkgerrors "github.com/soukmarket/souk-backend/pkg/errors"
	"github.com/soukmarket/souk-backend/pkg/pagination"
)

type merchantsRepository interface {
	Create(ctx context.Context, profile *models.MerchantProfile) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.MerchantProfile, error)
	List(ctx context.Context, params pagination.Params) ([]models.MerchantProfile, int64, error)
	Update(ctx context.Context, id uuid.UUID, fullName, country *string, status *enums.UserStatus, profileImage, backgroundImage *string) (*models.MerchantProfile, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// Service exposes merchant profile operations.
type Service interface {
	CreateProfile(ctx context.Context, input CreateProfileInput) (*MerchantProfileDTO, error)
	GetByID(ctx context.Context, id uuid.UUID) (*MerchantProfileDTO, error)
	List(ctx context.Context, params pagination.Params) ([]MerchantProfileDTO, pagination.Page, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, req UpdateProfileRequest) (*MerchantProfileDTO, error)
	DeleteProfile(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo merchantsRepository
}

func NewService(repo merchantsRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("merchants repository required")
	}
	return &service{repo: repo}, nil
}

// CreateProfile opens a merchant profile for the user. The profile id is the
// user id, so a second create trips the primary key and surfaces a conflict.
func (s *service) CreateProfile(ctx context.Context, input CreateProfileInput) (*MerchantProfileDTO, error) {
	profile := &models.MerchantProfile{
		ID:       input.UserID,
		Email:    input.Email,
		FullName: input.FullName,
		Country:  input.Country,
		Status:   enums.UserStatusActive,
		Products: dbtypes.RefList{},
		Stores:   dbtypes.RefList{},
	}

	if err := s.repo.Create(ctx, profile); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "merchant profile already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating merchant profile")
	}
	return FromModel(profile), nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*MerchantProfileDTO, error) {
	profile, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "merchant profile not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading merchant profile")
	}
	return FromModel(profile), nil
}

func (s *service) List(ctx context.Context, params pagination.Params) ([]MerchantProfileDTO, pagination.Page, error) {
	list, total, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, pagination.Page{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing merchant profiles")
	}
	return FromModels(list), pagination.MetaFor(params, total), nil
}

func (s *service) UpdateProfile(ctx context.Context, id uuid.UUID, req UpdateProfileRequest) (*MerchantProfileDTO, error) {
	var status *enums.UserStatus
	if req.Status != nil {
		parsed, err := enums.ParseUserStatus(*req.Status)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status")
		}
		status = &parsed
	}

	profile, err := s.repo.Update(ctx, id, req.FullName, req.Country, status, req.ProfileImage, req.BackgroundImage)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "merchant profile not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating merchant profile")
	}
	return FromModel(profile), nil
}

func (s *service) DeleteProfile(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "merchant profile not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading merchant profile")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "deleting merchant profile")
	}
	return nil
}
