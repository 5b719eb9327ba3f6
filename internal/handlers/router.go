package handlers

import (
	"net/http"
)

// chain applies middlewares in the given order: m1(m2(...(h)))
func chain(h http.Handler, mds ...func(next http.Handler) http.Handler) http.Handler {
	for i := len(mds) - 1; i >= 0; i-- {
		h = mds[i](h)
	}
	return h
}

// NewRouter wires the public auth endpoints and the protected api surface.
// authMiddleware guards everything under /api; nothing under /auth touches it
func NewRouter(
	auth *AuthHandler,
	tasks *TaskHandler,
	authMiddleware func(http.Handler) http.Handler,
	mds ...func(http.Handler) http.Handler,
) http.Handler {
	api := http.NewServeMux()
	api.Handle("GET /me", handleUserMe())
	api.Handle("/", tasks.Handler())

	root := http.NewServeMux()
	root.Handle("/auth/", http.StripPrefix("/auth", auth.Handler()))
	root.Handle("/api/", http.StripPrefix("/api", authMiddleware(api)))

	return chain(root, mds...)
}
