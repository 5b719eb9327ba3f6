package task

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gderuki/Taskr-sub000/internal/apperrors"
	"github.com/gderuki/Taskr-sub000/internal/models"
	"github.com/gderuki/Taskr-sub000/internal/repository/postgres"
	"github.com/gderuki/Taskr-sub000/internal/testutil"
)

func Test_TaskService(t *testing.T) {
	t.Parallel()

	pg := testutil.StartPostgresContainer(t)
	t.Cleanup(pg.Terminate)

	newService := func(tx pgx.Tx) *TaskService {
		return NewService(
			&postgres.TaskRepo{DB: tx},
			&postgres.CommentRepo{DB: tx},
		)
	}

	newOwner := func(t *testing.T, tx pgx.Tx, name string) uuid.UUID {
		t.Helper()
		user, err := (&postgres.UserRepo{DB: tx}).CreateUser(t.Context(), name, "hash")
		require.NoError(t, err)
		return user.ID
	}

	t.Run("create task fills defaults", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			s := newService(tx)
			ownerID := newOwner(t, tx, "alice")

			task, err := s.CreateTask(t.Context(), ownerID, CreateTaskParams{Title: "write report"})

			require.NoError(t, err)
			require.Equal(t, models.TaskStatusTodo, task.Status, "new tasks start as todo")
			require.NotNil(t, task.Tags, "nil tags become an empty list")
			require.Empty(t, task.Tags)
			require.True(t, task.EstimateHours.IsZero())
			require.Nil(t, task.DueAt)
		})
	})

	t.Run("update applies only set fields", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			s := newService(tx)
			ownerID := newOwner(t, tx, "alice")

			due := time.Now().Add(48 * time.Hour).Truncate(time.Second)
			task, err := s.CreateTask(t.Context(), ownerID, CreateTaskParams{
				Title:         "write report",
				Description:   "quarterly numbers",
				Tags:          []string{"work"},
				EstimateHours: decimal.RequireFromString("2.5"),
				DueAt:         &due,
			})
			require.NoError(t, err)

			title := "write the report"
			status := models.TaskStatusInProgress

			updated, err := s.UpdateTask(t.Context(), ownerID, task.ID, UpdateTaskParams{
				Title:  &title,
				Status: &status,
			})

			require.NoError(t, err)
			assert.Equal(t, "write the report", updated.Title)
			assert.Equal(t, models.TaskStatusInProgress, updated.Status)

			// Everything the patch did not mention stays
			assert.Equal(t, "quarterly numbers", updated.Description)
			assert.Equal(t, []string{"work"}, updated.Tags)
			assert.True(t, updated.EstimateHours.Equal(decimal.RequireFromString("2.5")))
			require.NotNil(t, updated.DueAt)
		})
	})

	t.Run("update clears due date", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			s := newService(tx)
			ownerID := newOwner(t, tx, "alice")

			due := time.Now().Add(48 * time.Hour)
			task, err := s.CreateTask(t.Context(), ownerID, CreateTaskParams{Title: "write report", DueAt: &due})
			require.NoError(t, err)

			updated, err := s.UpdateTask(t.Context(), ownerID, task.ID, UpdateTaskParams{ClearDueAt: true})

			require.NoError(t, err)
			assert.Nil(t, updated.DueAt)
		})
	})

	t.Run("update rejects unknown status", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			s := newService(tx)
			ownerID := newOwner(t, tx, "alice")

			task, err := s.CreateTask(t.Context(), ownerID, CreateTaskParams{Title: "write report"})
			require.NoError(t, err)

			status := models.TaskStatus("bogus")
			_, err = s.UpdateTask(t.Context(), ownerID, task.ID, UpdateTaskParams{Status: &status})

			require.Error(t, err)
		})
	})

	t.Run("update of someone else's task is not found", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			s := newService(tx)
			aliceID := newOwner(t, tx, "alice")
			bobID := newOwner(t, tx, "bob")

			task, err := s.CreateTask(t.Context(), aliceID, CreateTaskParams{Title: "write report"})
			require.NoError(t, err)

			title := "hijacked"
			_, err = s.UpdateTask(t.Context(), bobID, task.ID, UpdateTaskParams{Title: &title})

			assert.ErrorIs(t, err, apperrors.ErrTaskNotFound)
		})
	})

	t.Run("list rejects unknown status filter", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			s := newService(tx)
			ownerID := newOwner(t, tx, "alice")

			status := models.TaskStatus("bogus")
			_, err := s.ListTasks(t.Context(), ownerID, &status)

			require.Error(t, err)
		})
	})

	t.Run("comment on visible task", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			s := newService(tx)
			ownerID := newOwner(t, tx, "alice")

			task, err := s.CreateTask(t.Context(), ownerID, CreateTaskParams{Title: "write report"})
			require.NoError(t, err)

			comment, err := s.AddComment(t.Context(), ownerID, task.ID, "started the draft")

			require.NoError(t, err)
			assert.Equal(t, ownerID, comment.AuthorID)
			assert.Equal(t, task.ID, comment.TaskID)

			comments, err := s.ListComments(t.Context(), ownerID, task.ID)
			require.NoError(t, err)
			require.Len(t, comments, 1)
		})
	})

	t.Run("comment on foreign task is not found", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			s := newService(tx)
			aliceID := newOwner(t, tx, "alice")
			bobID := newOwner(t, tx, "bob")

			task, err := s.CreateTask(t.Context(), aliceID, CreateTaskParams{Title: "write report"})
			require.NoError(t, err)

			_, err = s.AddComment(t.Context(), bobID, task.ID, "sneaky")
			assert.ErrorIs(t, err, apperrors.ErrTaskNotFound)

			_, err = s.ListComments(t.Context(), bobID, task.ID)
			assert.ErrorIs(t, err, apperrors.ErrTaskNotFound)
		})
	})
}
