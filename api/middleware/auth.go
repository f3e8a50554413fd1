package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/soukmarket/souk-backend/api/responses"
	pkgauth "github.com/soukmarket/souk-backend/pkg/auth"
	"github.com/soukmarket/souk-backend/pkg/config"
	pkgerrors "github.com/soukmarket/souk-backend/pkg/errors"
	"github.com/soukmarket/souk-backend/pkg/logger"
)

type sessionVerifier interface {
	IsBlacklisted(ctx context.Context, token string) (bool, error)
	RemoveActiveByToken(ctx context.Context, token string) error
}

// Auth validates a bearer token and seeds the request context with claims.
// The revocation ledger is consulted before the signature so a blacklisted
// token is refused even while cryptographically valid, and a ledger outage
// refuses the request instead of letting revoked tokens through.
func Auth(cfg config.JWTConfig, sessions sessionVerifier, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := strings.TrimSpace(r.Header.Get("Authorization"))
			if raw == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			const bearerPrefix = "bearer "
			if !strings.HasPrefix(strings.ToLower(raw), bearerPrefix) {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "malformed authorization header"))
				return
			}
			token := strings.TrimSpace(raw[len(bearerPrefix):])
			if token == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			if sessions != nil {
				revoked, err := sessions.IsBlacklisted(r.Context(), token)
				if err != nil {
					responses.WriteError(r.Context(), logg, w, err)
					return
				}
				if revoked {
					if delErr := sessions.RemoveActiveByToken(r.Context(), token); delErr != nil && logg != nil {
						logg.Warn(r.Context(), "failed to drop active row for blacklisted token")
					}
					responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "token invalidated"))
					return
				}
			}

			claims, err := pkgauth.ParseAccessToken(cfg, token)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token"))
				return
			}

			ctx := WithClaims(r.Context(), claims)
			if logg != nil {
				ctx = logg.WithFields(ctx, map[string]any{
					"user_id":    claims.UserID.String(),
					"actor_role": string(claims.Role),
				})
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
