package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/phrazzld/deck-api/internal/api/shared"
	"github.com/phrazzld/deck-api/internal/service/auth"
)

// AuthMiddleware resolves the optional bearer token on generation
// routes. Requests without an Authorization header pass through as
// anonymous guest sessions; requests that do present a token must
// present a valid one.
type AuthMiddleware struct {
	jwtService auth.JWTService
}

// NewAuthMiddleware creates an AuthMiddleware. jwtService may be nil
// when bearer authentication is not configured, in which case any
// presented token is rejected.
func NewAuthMiddleware(jwtService auth.JWTService) *AuthMiddleware {
	return &AuthMiddleware{jwtService: jwtService}
}

// Resolve validates the Authorization header when present and adds the
// authenticated user ID to the request context.
func (m *AuthMiddleware) Resolve(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			// Anonymous guest request.
			next.ServeHTTP(w, r)
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid authorization format")
			return
		}

		if m.jwtService == nil {
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Bearer authentication is not enabled")
			return
		}

		userID, err := m.jwtService.ValidateToken(r.Context(), parts[1])
		if err != nil {
			switch {
			case errors.Is(err, auth.ErrExpiredToken):
				shared.RespondWithError(w, r, http.StatusUnauthorized, "Token expired")
			default:
				shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid token")
			}
			return
		}

		next.ServeHTTP(w, r.WithContext(shared.SetUserID(r.Context(), userID)))
	})
}
