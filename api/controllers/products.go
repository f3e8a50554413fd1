package controllers

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/soukmarket/souk-backend/api/middleware"
	"github.com/soukmarket/souk-backend/api/responses"
	"github.com/soukmarket/souk-backend/api/validators"
	"github.com/soukmarket/souk-backend/internal/products"
	"github.com/soukmarket/souk-backend/pkg/enums"
	pkgerrors "github.com/soukmarket/souk-backend/pkg/errors"
	"github.com/soukmarket/souk-backend/pkg/logger"
	"github.com/soukmarket/souk-backend/pkg/pagination"
)

type productListResponse struct {
	Products []products.ProductDTO `json:"products"`
	Meta     pagination.Page       `json:"meta"`
}

// CreateProduct lists a product under the authenticated merchant's profile.
// The body is decoded leniently so fields the catalog schema does not know
// land in the product's attributes instead of failing the request.
func CreateProduct(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		merchantID := middleware.UserIDFromContext(r.Context())
		if merchantID == uuid.Nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing"))
			return
		}

		var payload products.CreateProductRequest
		if err := validators.DecodeJSONBodyLenient(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.Create(r.Context(), merchantID, payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, product)
	}
}

// ListProducts is the public catalog listing with filter and pagination
// query parameters. Passing ?id= returns the single named product instead.
func ListProducts(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if id, err := validators.ParseQueryUUID(r, "id"); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		} else if id != nil {
			product, err := svc.GetByID(r.Context(), *id)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			responses.WriteSuccess(w, product)
			return
		}

		params, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		filters, err := parseProductFilters(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, meta, err := svc.List(r.Context(), filters, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, productListResponse{Products: list, Meta: meta})
	}
}

// ListMerchantProducts returns the products owned by ?merchant_id=,
// defaulting to the authenticated caller.
func ListMerchantProducts(svc products.Service, logg *logger.Logger) http.HandlerFunc {
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
		responses.WriteSuccess(w, map[string]any{"products": list})
	}
}

// UpdateProduct mutates a product by ?id=. Ownership is enforced by the
// service using the actor from the request context.
func UpdateProduct(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.RequireQueryUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload products.UpdateProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		actorID := middleware.UserIDFromContext(r.Context())
		actorRole := enums.UserType(middleware.RoleFromContext(r.Context()))
		product, err := svc.Update(r.Context(), id, actorID, actorRole, payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

// DeleteProduct removes a product by ?id=, subject to the same ownership
// rule as updates.
func DeleteProduct(svc products.Service, logg *logger.Logger) http.HandlerFunc {
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

func parseProductFilters(r *http.Request) (products.ListFilters, error) {
	filters := products.ListFilters{
		Category:        strings.TrimSpace(r.URL.Query().Get("category")),
		Search:          strings.TrimSpace(r.URL.Query().Get("search")),
		CountryOfOrigin: strings.TrimSpace(r.URL.Query().Get("country_of_origin")),
	}

	minPrice, err := validators.ParseQueryDecimal(r, "min_price")
	if err != nil {
		return filters, err
	}
	maxPrice, err := validators.ParseQueryDecimal(r, "max_price")
	if err != nil {
		return filters, err
	}
	merchantID, err := validators.ParseQueryUUID(r, "merchant_id")
	if err != nil {
		return filters, err
	}

	filters.MinPrice = minPrice
	filters.MaxPrice = maxPrice
	filters.MerchantID = merchantID
	return filters, nil
}
