package users

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

type usersRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	List(ctx context.Context, userType *enums.UserType, params pagination.Params) ([]models.User, int64, error)
	Update(ctx context.Context, id uuid.UUID, dto UpdateUserDTO) (*models.User, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// Service exposes user read and profile operations.
type Service interface {
	GetByID(ctx context.Context, id uuid.UUID) (*UserDTO, error)
	List(ctx context.Context, userType *enums.UserType, params pagination.Params) ([]UserDTO, pagination.Page, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, input UpdateUserInput) (*UserDTO, error)
	DeleteProfile(ctx context.Context, id uuid.UUID) error
}

// UpdateUserInput captures the allowed user fields for mutation. Status
// changes are accepted only when the actor is an admin; the controller
// enforces that before calling the service.
type UpdateUserInput struct {
	FullName        *string
	Status          *string
	ProfileImage    *string
	BackgroundImage *string
}

type service struct {
	repo usersRepository
}

// NewService builds a users service with the provided repository.
func NewService(repo usersRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("users repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*UserDTO, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading user")
	}
	return FromModel(user), nil
}

func (s *service) List(ctx context.Context, userType *enums.UserType, params pagination.Params) ([]UserDTO, pagination.Page, error) {
	list, total, err := s.repo.List(ctx, userType, params)
	if err != nil {
		return nil, pagination.Page{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing users")
	}
	return FromModels(list), pagination.MetaFor(params, total), nil
}

func (s *service) UpdateProfile(ctx context.Context, id uuid.UUID, input UpdateUserInput) (*UserDTO, error) {
	dto := UpdateUserDTO{
		FullName:        input.FullName,
		ProfileImage:    input.ProfileImage,
		BackgroundImage: input.BackgroundImage,
	}
	if input.Status != nil {
		status, err := enums.ParseUserStatus(*input.Status)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, err.Error())
		}
		dto.Status = &status
	}

	if _, err := s.GetByID(ctx, id); err != nil {
		return nil, err
	}

	user, err := s.repo.Update(ctx, id, dto)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating user")
	}
	return FromModel(user), nil
}

func (s *service) DeleteProfile(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "deleting user")
	}
	return nil
}
