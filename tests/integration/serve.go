package integration

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/stretchr/testify/require"

	"github.com/gderuki/Taskr-sub000/internal/handlers"
	"github.com/gderuki/Taskr-sub000/internal/handlers/middleware"
	"github.com/gderuki/Taskr-sub000/internal/repository/postgres"
	"github.com/gderuki/Taskr-sub000/internal/service/auth"
	"github.com/gderuki/Taskr-sub000/internal/service/auth/tokenmanager"
	"github.com/gderuki/Taskr-sub000/internal/service/task"
	"github.com/gderuki/Taskr-sub000/internal/testutil"
)

const (
	// Short but nonzero lifetimes so issued tokens are valid during a test run
	TestAccessTTL  = time.Minute
	TestRefreshTTL = time.Hour
)

type Services struct {
	AuthService *auth.AuthService
	TaskService *task.TaskService
}

// Create db transaction and run server with that connection (one connection cause one transaction)
// The created transaction passed to inner function: so, you can safely use testutil.WithTx with it
func ServeInTx(dbpool *pgxpool.Pool, t *testing.T, fn func(tx pgx.Tx, srvURL string, services Services)) {
	testutil.WithTx(dbpool, t, func(tx pgx.Tx) {
		// Initialize repositories
		userRepo := &postgres.UserRepo{DB: tx}
		refreshRepo := &postgres.RefreshTokenRepo{DB: tx}
		taskRepo := &postgres.TaskRepo{DB: tx}
		commentRepo := &postgres.CommentRepo{DB: tx}

		// Initialize services
		tokenManager, err := tokenmanager.New(tokenmanager.Config{
			SecretKey:  "test-secret",
			AccessTTL:  TestAccessTTL,
			RefreshTTL: TestRefreshTTL,
		}, refreshRepo)
		require.NoError(t, err, "token manager should be created without errors")

		as, err := auth.NewService(auth.Config{}, tokenManager, userRepo, refreshRepo)
		require.NoError(t, err, "auth service starting error")

		ts := task.NewService(taskRepo, commentRepo)

		// Initialize handlers
		authHandler := handlers.NewAuth(as)
		authMiddleware := middleware.NewAuth(as)
		taskHandler := handlers.NewTask(ts)

		// Complete all together as router
		router := handlers.NewRouter(
			authHandler,
			taskHandler,
			authMiddleware.Auth,
		)

		// Run http server with the router in transaction
		srv := httptest.NewServer(router)
		defer srv.Close()

		fn(tx, srv.URL, Services{
			AuthService: as,
			TaskService: ts,
		})
	})
}
