package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/soukmarket/souk-backend/api/middleware"
	"github.com/soukmarket/souk-backend/api/responses"
	"github.com/soukmarket/souk-backend/api/validators"
	"github.com/soukmarket/souk-backend/internal/merchants"
	"github.com/soukmarket/souk-backend/internal/users"
	"github.com/soukmarket/souk-backend/pkg/enums"
	pkgerrors "github.com/soukmarket/souk-backend/pkg/errors"
	"github.com/soukmarket/souk-backend/pkg/logger"
	"github.com/soukmarket/souk-backend/pkg/pagination"
)

type merchantListResponse struct {
	Merchants []merchants.MerchantProfileDTO `json:"merchants"`
	Meta      pagination.Page                `json:"meta"`
}

// CreateMerchantProfile opens a merchant profile for the authenticated
// merchant. Identity comes from the token; the body only carries profile
// fields the token does not know.
func CreateMerchantProfile(svc merchants.Service, userSvc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims := middleware.ClaimsFromContext(r.Context())
		if claims == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing"))
			return
		}

		var payload merchants.CreateProfileRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		account, err := userSvc.GetByID(r.Context(), claims.UserID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		profile, err := svc.CreateProfile(r.Context(), merchants.CreateProfileInput{
			UserID:   claims.UserID,
			Email:    claims.Email,
			FullName: account.FullName,
			Country:  payload.Country,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, profile)
	}
}

// GetMerchantProfile fetches a profile by ?id=, defaulting to the caller.
func GetMerchantProfile(svc merchants.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := merchantTargetID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		profile, err := svc.GetByID(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, profile)
	}
}

// ListMerchantProfiles returns a page of all merchant profiles.
func ListMerchantProfiles(svc merchants.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, meta, err := svc.List(r.Context(), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, merchantListResponse{Merchants: list, Meta: meta})
	}
}

// UpdateMerchantProfile mutates the caller's profile, or any profile for
// admins via ?id=.
func UpdateMerchantProfile(svc merchants.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := merchantWriteTargetID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload merchants.UpdateProfileRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if payload.Status != nil && middleware.RoleFromContext(r.Context()) != string(enums.UserTypeAdmin) {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "only admins may change profile status"))
			return
		}

		profile, err := svc.UpdateProfile(r.Context(), id, payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, profile)
	}
}

// DeleteMerchantProfile removes the caller's profile, or any profile for
// admins via ?id=.
func DeleteMerchantProfile(svc merchants.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := merchantWriteTargetID(r)
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

// merchantTargetID resolves the profile a read targets. Reads are open to
// any authenticated caller, so ?id= always wins when present.
func merchantTargetID(r *http.Request) (uuid.UUID, error) {
	requested, err := validators.ParseQueryUUID(r, "id")
	if err != nil {
		return uuid.Nil, err
	}
	if requested != nil {
		return *requested, nil
	}

	callerID := middleware.UserIDFromContext(r.Context())
	if callerID == uuid.Nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing")
	}
	return callerID, nil
}

// merchantWriteTargetID resolves the profile a write targets. Only admins
// may name another merchant's profile.
func merchantWriteTargetID(r *http.Request) (uuid.UUID, error) {
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
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeForbidden, "cannot operate on another merchant's profile")
	}
	return *requested, nil
}
