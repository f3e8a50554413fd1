package validators

import (
	"net/http"
	"strings"

	pkgerrors "github.com/soukmarket/souk-backend/pkg/errors"
)

// ExtractBearerToken pulls the raw JWT out of the Authorization header.
func ExtractBearerToken(r *http.Request) (string, error) {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if header == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "authorization header is required")
	}
	if !strings.HasPrefix(strings.ToLower(header), "bearer ") {
		return "", pkgerrors.New(pkgerrors.CodeUnauthorized, "authorization header must use the Bearer scheme")
	}
	token := strings.TrimSpace(header[len("bearer "):])
	if token == "" {
		return "", pkgerrors.New(pkgerrors.CodeUnauthorized, "bearer token is empty")
	}
	return token, nil
}
