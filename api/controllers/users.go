package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/soukmarket/souk-backend/api/middleware"
	"github.com/soukmarket/souk-backend/api/responses"
	"github.com/soukmarket/souk-backend/api/validators"
	"github.com/soukmarket/souk-backend/internal/users"
	"github.com/soukmarket/souk-backend/pkg/enums"
	pkgerrors "github.com/soukmarket/souk-backend/pkg/errors"
	"github.com/soukmarket/souk-backend/pkg/logger"
	"github.com/soukmarket/souk-backend/pkg/pagination"
)

type userListResponse struct {
	Users []users.UserDTO `json:"users"`
	Meta  pagination.Page `json:"meta"`
}

// Me returns the authenticated user's record.
func Me(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := middleware.UserIDFromContext(r.Context())
		if userID == uuid.Nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing"))
			return
		}

		user, err := svc.GetByID(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, user)
	}
}

// ListUsers returns a page of every account.
func ListUsers(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return listUsersByType(svc, logg, nil)
}

// ListMerchants returns a page of merchant accounts.
func ListMerchants(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	role := enums.UserTypeMerchant
	return listUsersByType(svc, logg, &role)
}

// ListAdmins returns a page of admin accounts.
func ListAdmins(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	role := enums.UserTypeAdmin
	return listUsersByType(svc, logg, &role)
}

// ListCustomers returns a page of customer accounts.
func ListCustomers(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	role := enums.UserTypeCustomer
	return listUsersByType(svc, logg, &role)
}

func listUsersByType(svc users.Service, logg *logger.Logger, role *enums.UserType) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, meta, err := svc.List(r.Context(), role, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, userListResponse{Users: list, Meta: meta})
	}
}

// GetProfile returns the caller's record, or any record for admins via ?id=.
func GetProfile(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := profileTargetID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		user, err := svc.GetByID(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, user)
	}
}

type updateProfileRequest struct {
	FullName        *string `json:"full_name"`
	Status          *string `json:"status"`
	ProfileImage    *string `json:"profile_image"`
	BackgroundImage *string `json:"background_image"`
}

// UpdateProfile mutates the caller's record, or any record for admins via
// ?id=. Status changes are reserved for admins.
func UpdateProfile(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := profileTargetID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateProfileRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if payload.Status != nil && middleware.RoleFromContext(r.Context()) != string(enums.UserTypeAdmin) {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "only admins may change account status"))
			return
		}

		user, err := svc.UpdateProfile(r.Context(), id, users.UpdateUserInput{
			FullName:        payload.FullName,
			Status:          payload.Status,
			ProfileImage:    payload.ProfileImage,
			BackgroundImage: payload.BackgroundImage,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, user)
	}
}

// DeleteProfile removes the caller's record, or any record for admins via
// ?id=.
func DeleteProfile(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := profileTargetID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteProfile(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

// profileTargetID resolves which user a profile operation targets. Admins
// may name another account with ?id=; everyone else operates on themselves.
func profileTargetID(r *http.Request) (uuid.UUID, error) {
	callerID := middleware.UserIDFromContext(r.Context())
	if callerID == uuid.Nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing")
	}

	requested, err := validators.ParseQueryUUID(r, "id")
	if err != nil {
		return uuid.Nil, err
	}
	if requested == nil || *requested == callerID {
		return callerID, nil
	}
	if middleware.RoleFromContext(r.Context()) != string(enums.UserTypeAdmin) {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeForbidden, "cannot operate on another user's profile")
	}
	return *requested, nil
}
