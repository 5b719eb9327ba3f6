package postgres

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gderuki/Taskr-sub000/internal/apperrors"
	"github.com/gderuki/Taskr-sub000/internal/models"
	"github.com/gderuki/Taskr-sub000/internal/testutil"
)

func mustParseTime(value string) time.Time {
	dt, err := time.Parse("2006-01-02 15:04:05Z07:00", value)
	if err != nil {
		panic(err)
	}
	return dt
}

func Test_RefreshTokenRepo(t *testing.T) {
	t.Parallel() // It's ok to run in parallel with other tests, but not with subtests

	pg := testutil.StartPostgresContainer(t)
	t.Cleanup(pg.Terminate)

	// Token rows reference users, so every subtest owns a fresh user
	newToken := func(t *testing.T, tx pgx.Tx, value string) models.RefreshToken {
		t.Helper()

		user, err := (&UserRepo{DB: tx}).CreateUser(t.Context(), "tokenowner-"+value, "hash")
		require.NoError(t, err)

		return models.RefreshToken{
			ID:        uuid.New(),
			UserID:    user.ID,
			Token:     value,
			CreatedAt: mustParseTime("2024-01-01 19:00:01Z"),
			ExpiresAt: mustParseTime("2200-01-01 03:00:02Z"),
		}
	}

	t.Run("save token ok", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			repo := RefreshTokenRepo{DB: tx}
			token := newToken(t, tx, "secret-token")

			got, err := repo.Save(t.Context(), token)

			require.NoError(t, err)
			require.Equal(t, token.ID, got.ID)
			require.Equal(t, token.UserID, got.UserID)
			require.Equal(t, token.Token, got.Token)
			require.WithinDuration(t, token.CreatedAt, got.CreatedAt, time.Microsecond)
			require.WithinDuration(t, token.ExpiresAt, got.ExpiresAt, time.Microsecond)
		})
	})

	t.Run("save duplicate value fails", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			repo := RefreshTokenRepo{DB: tx}
			token := newToken(t, tx, "secret-token")

			_, err := repo.Save(t.Context(), token)
			require.NoError(t, err)

			dup := token
			dup.ID = uuid.New()
			_, err = repo.Save(t.Context(), dup)

			require.Error(t, err, "token value is unique across the store")
		})
	})

	t.Run("get token ok", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			repo := RefreshTokenRepo{DB: tx}
			token := newToken(t, tx, "secret-token")
			_, err := repo.Save(t.Context(), token)
			require.NoError(t, err)

			got, err := repo.Get(t.Context(), token.Token)

			require.NoError(t, err)
			require.Equal(t, token.Token, got.Token)
			require.Equal(t, token.UserID, got.UserID)
			require.WithinDuration(t, token.CreatedAt, got.CreatedAt, 0)
			require.WithinDuration(t, token.ExpiresAt, got.ExpiresAt, 0)
		})
	})

	t.Run("get returns expired rows too", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			repo := RefreshTokenRepo{DB: tx}
			token := newToken(t, tx, "secret-token")
			token.ExpiresAt = mustParseTime("2020-01-01 00:00:00Z")
			_, err := repo.Save(t.Context(), token)
			require.NoError(t, err)

			got, err := repo.Get(t.Context(), token.Token)

			require.NoError(t, err, "expiry is the caller's check, the repo should still find the row")
			require.WithinDuration(t, token.ExpiresAt, got.ExpiresAt, 0)
		})
	})

	t.Run("get missing token", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			repo := RefreshTokenRepo{DB: tx}

			_, err := repo.Get(t.Context(), "never-existed")

			require.Error(t, err)
			assert.ErrorIs(t, err, apperrors.ErrRefreshTokenNotFound)
		})
	})

	t.Run("delete returning removes the row", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			repo := RefreshTokenRepo{DB: tx}
			token := newToken(t, tx, "secret-token")
			_, err := repo.Save(t.Context(), token)
			require.NoError(t, err)

			got, err := repo.DeleteReturning(t.Context(), token.Token)
			require.NoError(t, err)
			require.Equal(t, token.UserID, got.UserID)

			// The second delete finds nothing: single use is row absence
			_, err = repo.DeleteReturning(t.Context(), token.Token)
			require.Error(t, err)
			assert.ErrorIs(t, err, apperrors.ErrRefreshTokenNotFound)

			_, err = repo.Get(t.Context(), token.Token)
			assert.ErrorIs(t, err, apperrors.ErrRefreshTokenNotFound)
		})
	})

	t.Run("delete is idempotent", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			repo := RefreshTokenRepo{DB: tx}
			token := newToken(t, tx, "secret-token")
			_, err := repo.Save(t.Context(), token)
			require.NoError(t, err)

			require.NoError(t, repo.Delete(t.Context(), token.Token))
			require.NoError(t, repo.Delete(t.Context(), token.Token), "deleting absent row is not an error")
			require.NoError(t, repo.Delete(t.Context(), "never-existed"))
		})
	})

	t.Run("delete all for user", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			repo := RefreshTokenRepo{DB: tx}

			first := newToken(t, tx, "device-1")
			second := first
			second.ID = uuid.New()
			second.Token = "device-2"
			other := newToken(t, tx, "other-user-token")

			for _, token := range []models.RefreshToken{first, second, other} {
				_, err := repo.Save(t.Context(), token)
				require.NoError(t, err)
			}

			deleted, err := repo.DeleteAllForUser(t.Context(), first.UserID)

			require.NoError(t, err)
			require.Equal(t, int64(2), deleted)

			_, err = repo.Get(t.Context(), other.Token)
			require.NoError(t, err, "tokens of other users must survive")
		})
	})
}
