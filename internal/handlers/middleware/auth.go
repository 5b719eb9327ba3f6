package middleware

import (
	"context"
	"net/http"

	"github.com/gderuki/Taskr-sub000/internal/handlers"
	"github.com/gderuki/Taskr-sub000/internal/handlers/render"
	"github.com/gderuki/Taskr-sub000/internal/models"
)

type authService interface {
	// Resolve the request's access token to a user or fail
	Auth(ctx context.Context, r *http.Request) (models.User, error)
}

type AuthMiddleware struct {
	auth authService
}

func NewAuth(auth authService) *AuthMiddleware {
	return &AuthMiddleware{auth: auth}
}

// Auth rejects unauthenticated requests with 401 and passes the resolved
// user down through the request context.
// No detail is given about why the token was rejected
func (m *AuthMiddleware) Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, err := m.auth.Auth(r.Context(), r)
		if err != nil {
			render.Error(w, r, "Unauthorized", http.StatusUnauthorized)
			return
		}

		ctx := handlers.NewContextWithUser(r.Context(), user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
