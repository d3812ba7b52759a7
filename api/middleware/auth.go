package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/katzeapp/katze-backend/api/responses"
	"github.com/katzeapp/katze-backend/pkg/auth"
	"github.com/katzeapp/katze-backend/pkg/config"
	pkgerrors "github.com/katzeapp/katze-backend/pkg/errors"
	"github.com/katzeapp/katze-backend/pkg/logger"
)

// AccountChecker reports whether the token subject still maps to a live
// account. Tokens outlive account deletion, so the signature check alone is
// not enough.
type AccountChecker interface {
	AccountActive(ctx context.Context, userID uuid.UUID) (bool, error)
}

// Authenticate validates the Bearer token and attaches the actor to the
// request context. When accounts is non-nil the subject is re-checked against
// the user store on every request.
func Authenticate(cfg config.JWTConfig, accounts AccountChecker, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			header := r.Header.Get("Authorization")
			if header == "" {
				responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "authorization header missing"))
				return
			}
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || strings.TrimSpace(token) == "" {
				responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "bearer token required"))
				return
			}

			claims, err := auth.ParseAccessToken(cfg, strings.TrimSpace(token))
			if err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token"))
				return
			}
			if !claims.Role.IsValid() {
				responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid token role"))
				return
			}

			if accounts != nil {
				active, err := accounts.AccountActive(ctx, claims.UserID)
				if err != nil {
					responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check account"))
					return
				}
				if !active {
					responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "cuenta no disponible"))
					return
				}
			}

			ctx = WithActor(ctx, ActorInfo{UserID: claims.UserID, Role: claims.Role})
			if logg != nil {
				ctx = logg.WithUserID(ctx, claims.UserID.String())
				ctx = logg.WithActorRole(ctx, claims.Role.String())
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
