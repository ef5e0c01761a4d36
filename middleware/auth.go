package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/shyptr/serlo-gateway/auth"
	"github.com/shyptr/serlo-gateway/errors"
	"go.uber.org/zap"
)

// Authenticator resolves the Authorization header of a request into a caller identity.
type Authenticator interface {
	Authenticate(header string) (*auth.Identity, error)
}

// Authenticate puts the caller identity into the request context. Requests without an
// Authorization header pass as anonymous; requests with an invalid one are rejected with an
// UNAUTHENTICATED error.
func Authenticate(authenticator Authenticator, logger *zap.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, err := authenticator.Authenticate(r.Header.Get("Authorization"))
			if err != nil {
				logger.Info("authentication failed",
					zap.Error(err),
					zap.String("requestId", RequestIDFromContext(r.Context())))
				code := errors.CodeOf(err)
				if code == "" {
					code = errors.CodeUnauthenticated
				}
				gqlErr := &errors.GraphQLError{
					Message:    err.Error(),
					Extensions: map[string]interface{}{"code": code},
				}
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				_ = json.NewEncoder(w).Encode(map[string]interface{}{
					"errors": errors.MultiError{gqlErr},
				})
				return
			}
			if identity != nil {
				r = r.WithContext(auth.WithIdentity(r.Context(), identity))
			}
			next.ServeHTTP(w, r)
		})
	}
}
