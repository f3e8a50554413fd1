package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/soukmarket/souk-backend/api/middleware"
	"github.com/soukmarket/souk-backend/api/responses"
	"github.com/soukmarket/souk-backend/api/validators"
	"github.com/soukmarket/souk-backend/internal/stores"
	"github.com/soukmarket/souk-backend/pkg/enums"
	pkgerrors "github.com/soukmarket/souk-backend/pkg/errors"
	"github.com/soukmarket/souk-backend/pkg/logger"
	"github.com/soukmarket/souk-backend/pkg/pagination"
)

type storeListResponse struct {
	Stores []stores.StoreDTO `json:"stores"`
	Meta   pagination.Page   `json:"meta"`
}

// CreateStore opens a store under the authenticated merchant's profile.
func CreateStore(svc stores.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		merchantID := middleware.UserIDFromContext(r.Context())
		if merchantID == uuid.Nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing"))
			return
		}

		var payload stores.CreateStoreRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		store, err := svc.Create(r.Context(), merchantID, payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, store)
	}
}

// GetStore fetches a single store by ?id=.
func GetStore(svc stores.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.RequireQueryUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		store, err := svc.GetByID(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, store)
	}
}

// ListMerchantStores returns the stores owned by ?merchant_id=, defaulting
// to the authenticated caller.
func ListMerchantStores(svc stores.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		merchantID, err := validators.ParseQueryUUID(r, "merchant_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		target := middleware.UserIDFromContext(r.Context())
		if merchantID != nil {
			target = *merchantID
		}
		if target == uuid.Nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "merchant_id is required"))
			return
		}

		list, err := svc.ListByMerchant(r.Context(), target)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"stores": list})
	}
}

// ListAllStores returns a page of every store.
func ListAllStores(svc stores.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, meta, err := svc.ListAll(r.Context(), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, storeListResponse{Stores: list, Meta: meta})
	}
}

// UpdateStore mutates a store by ?id=. Ownership is enforced by the
// service using the actor from the request context.
func UpdateStore(svc stores.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.RequireQueryUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload stores.UpdateStoreRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		actorID := middleware.UserIDFromContext(r.Context())
		actorRole := enums.UserType(middleware.RoleFromContext(r.Context()))
		store, err := svc.Update(r.Context(), id, actorID, actorRole, payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, store)
	}
}

// DeleteStore removes a store by ?id=, subject to the same ownership rule
// as updates.
func DeleteStore(svc stores.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.RequireQueryUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		actorID := middleware.UserIDFromContext(r.Context())
		actorRole := enums.UserType(middleware.RoleFromContext(r.Context()))
		if err := svc.Delete(r.Context(), id, actorID, actorRole); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}
