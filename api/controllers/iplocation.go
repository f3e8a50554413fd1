package controllers

import (
	"net/http"

	"github.com/soukmarket/souk-backend/api/responses"
	"github.com/soukmarket/souk-backend/internal/geoip"
	"github.com/soukmarket/souk-backend/pkg/logger"
)

// IPLocation resolves the server's public IP and returns the aggregated
// provider lookups for it.
func IPLocation(svc geoip.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result, err := svc.Lookup(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}
