package postgres

import (
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gderuki/Taskr-sub000/internal/apperrors"
	"github.com/gderuki/Taskr-sub000/internal/testutil"
)

func Test_UserRepo(t *testing.T) {
	t.Parallel()

	pg := testutil.StartPostgresContainer(t)
	t.Cleanup(pg.Terminate)

	t.Run("create user ok", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			repo := UserRepo{DB: tx}

			user, err := repo.CreateUser(t.Context(), "alice", "hashed-password")

			require.NoError(t, err)
			require.NotEqual(t, uuid.Nil, user.ID, "id should be generated")
			require.Equal(t, "alice", user.Username)
			require.Equal(t, "hashed-password", user.HashedPassword)
			require.True(t, user.Enabled, "new users are enabled by default")
			require.False(t, user.CreatedAt.IsZero())
		})
	})

	t.Run("create duplicate username", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			repo := UserRepo{DB: tx}

			_, err := repo.CreateUser(t.Context(), "alice", "hashed-password")
			require.NoError(t, err)

			_, err = repo.CreateUser(t.Context(), "alice", "other-hash")

			require.Error(t, err)
			assert.ErrorIs(t, err, apperrors.ErrUserAlreadyExists)
		})
	})

	t.Run("get user by username", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			repo := UserRepo{DB: tx}

			created, err := repo.CreateUser(t.Context(), "alice", "hashed-password")
			require.NoError(t, err)

			got, err := repo.GetUserByUsername(t.Context(), "alice")

			require.NoError(t, err)
			require.Equal(t, created.ID, got.ID)
			require.Equal(t, created.Username, got.Username)
		})
	})

	t.Run("get user by id", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			repo := UserRepo{DB: tx}

			created, err := repo.CreateUser(t.Context(), "alice", "hashed-password")
			require.NoError(t, err)

			got, err := repo.GetUserByID(t.Context(), created.ID)

			require.NoError(t, err)
			require.Equal(t, created.Username, got.Username)
		})
	})

	t.Run("get missing user", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			repo := UserRepo{DB: tx}

			_, err := repo.GetUserByUsername(t.Context(), "nobody")
			require.ErrorIs(t, err, apperrors.ErrUserNotFound)

			_, err = repo.GetUserByID(t.Context(), uuid.New())
			require.ErrorIs(t, err, apperrors.ErrUserNotFound)
		})
	})

	t.Run("set enabled", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			repo := UserRepo{DB: tx}

			created, err := repo.CreateUser(t.Context(), "alice", "hashed-password")
			require.NoError(t, err)

			disabled, err := repo.SetUserEnabled(t.Context(), created.ID, false)
			require.NoError(t, err)
			require.False(t, disabled.Enabled)

			enabled, err := repo.SetUserEnabled(t.Context(), created.ID, true)
			require.NoError(t, err)
			require.True(t, enabled.Enabled)
		})
	})

	t.Run("set enabled on missing user", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			repo := UserRepo{DB: tx}

			_, err := repo.SetUserEnabled(t.Context(), uuid.New(), false)
			require.ErrorIs(t, err, apperrors.ErrUserNotFound)
		})
	})
}
