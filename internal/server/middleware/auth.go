package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"grading_service/internal/domain"
	"grading_service/internal/errdefs"
	"grading_service/pkg/ctxdata"
	"grading_service/pkg/logger"
)

type Authorizer interface {
	Authorize(ctx context.Context, authHeader string) (*domain.Identity, error)
}

// NewProfessorMiddleware admits only callers holding the professor or admin
// role. With a nil authorizer every request passes through.
func NewProfessorMiddleware(authorizer Authorizer, log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if authorizer == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			identity, err := authorizer.Authorize(ctx, r.Header.Get("Authorization"))
			if err != nil {
				if errors.Is(err, errdefs.ErrUnauthenticated) {
					log.InfoContext(ctx, "unauthenticated request", zap.String("path", r.URL.Path), zap.Error(err))
					writeError(w, http.StatusUnauthorized, "invalid or missing bearer token")
					return
				}
				log.ErrorContext(ctx, "identity lookup failed",
					zap.String("path", r.URL.Path),
					zap.String("method", r.Method),
					zap.Error(err),
				)
				writeError(w, http.StatusBadGateway, "identity provider unavailable")
				return
			}

			if !identity.HasRole(domain.UserRoleProfessor, domain.UserRoleAdmin) {
				log.InfoContext(ctx, "permission denied", zap.String("path", r.URL.Path), zap.String("email", identity.Email))
				writeError(w, http.StatusForbidden, "forbidden: professor role required")
				return
			}

			next.ServeHTTP(w, r.WithContext(ctxdata.WithUserEmail(ctx, identity.Email)))
		})
	}
}

func writeError(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	resp, _ := json.Marshal(map[string]string{"error": message})
	_, _ = w.Write(resp)
}
