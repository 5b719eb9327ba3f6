package handlers

import (
	"context"

	"github.com/gderuki/Taskr-sub000/internal/models"
)

type ctxKey string

const userKey ctxKey = "user"

// NewContextWithUser returns a request-scoped context carrying the resolved
// principal. Handlers read it back instead of any global security context
func NewContextWithUser(ctx context.Context, u models.User) context.Context {
	return context.WithValue(ctx, userKey, u)
}

func UserFromContext(ctx context.Context) (models.User, bool) {
	u, ok := ctx.Value(userKey).(models.User)
	return u, ok
}
