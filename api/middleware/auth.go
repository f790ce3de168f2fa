package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/angelmondragon/storefront-admin/api/responses"
	"github.com/angelmondragon/storefront-admin/internal/staff"
	pkgAuth "github.com/angelmondragon/storefront-admin/pkg/auth"
	"github.com/angelmondragon/storefront-admin/pkg/config"
	pkgerrors "github.com/angelmondragon/storefront-admin/pkg/errors"
	"github.com/angelmondragon/storefront-admin/pkg/logger"
)

// StaffChecker confirms that a token holder is still an active staff member.
type StaffChecker interface {
	Active(ctx context.Context, id uint) (*staff.StaffDTO, error)
}

// Auth validates a bearer token and seeds the request context with the staff identity.
func Auth(cfg config.JWTConfig, checker StaffChecker, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := strings.TrimSpace(r.Header.Get("Authorization"))
			token := raw
			if strings.HasPrefix(strings.ToLower(token), "bearer ") {
				token = strings.TrimSpace(token[7:])
			}
			if token == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			claims, err := pkgAuth.ParseAccessToken(cfg, token)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token"))
				return
			}

			if checker != nil {
				if _, err := checker.Active(r.Context(), claims.StaffID); err != nil {
					responses.WriteError(r.Context(), logg, w, err)
					return
				}
			}

			ctx := context.WithValue(r.Context(), ctxStaffID, claims.StaffID)
			ctx = context.WithValue(ctx, ctxSuperuser, claims.IsSuperuser)
			if logg != nil {
				ctx = logg.WithStaffID(ctx, claims.StaffID)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
