package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/gderuki/Taskr-sub000/internal/apperrors"
	"github.com/gderuki/Taskr-sub000/internal/models"
)

type TaskRepo struct {
	DB DBTX
}

const createTask = `-- name: CreateTask
INSERT INTO tasks (id, owner_id, title, description, status, tags, estimate_hours, due_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING id, owner_id, title, description, status, tags, estimate_hours, due_at, created_at, updated_at
`

func (r *TaskRepo) CreateTask(ctx context.Context, task models.Task) (models.Task, error) {
	rows, _ := r.DB.Query(ctx, createTask,
		task.ID, task.OwnerID, task.Title, task.Description, task.Status,
		task.Tags, task.EstimateHours, task.DueAt,
	)
	created, err := pgx.CollectOneRow(rows, rowToTask)
	if err != nil {
		return created, fmt.Errorf("db error: %w", err)
	}
	return created, nil
}

const getTask = `-- name: GetTask
SELECT id, owner_id, title, description, status, tags, estimate_hours, due_at, created_at, updated_at
FROM tasks
WHERE id = $1 AND owner_id = $2
`

func (r *TaskRepo) GetTask(ctx context.Context, ownerID uuid.UUID, taskID uuid.UUID) (models.Task, error) {
	rows, _ := r.DB.Query(ctx, getTask, taskID, ownerID)
	task, err := pgx.CollectOneRow(rows, rowToTask)

	switch {
	case err == nil:
		return task, nil
	case errors.Is(err, pgx.ErrNoRows):
		return task, apperrors.ErrTaskNotFound
	default:
		return task, fmt.Errorf("db error: %w", err)
	}
}

const listTasks = `-- name: ListTasks
SELECT id, owner_id, title, description, status, tags, estimate_hours, due_at, created_at, updated_at
FROM tasks
WHERE owner_id = $1 AND ($2::text IS NULL OR status = $2)
ORDER BY created_at DESC
`

func (r *TaskRepo) ListTasks(ctx context.Context, ownerID uuid.UUID, status *models.TaskStatus) ([]models.Task, error) {
	rows, _ := r.DB.Query(ctx, listTasks, ownerID, status)
	tasks, err := pgx.CollectRows(rows, rowToTask)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return tasks, nil
}

const updateTask = `-- name: UpdateTask
UPDATE tasks
SET title = $3, description = $4, status = $5, tags = $6, estimate_hours = $7, due_at = $8, updated_at = now()
WHERE id = $1 AND owner_id = $2
RETURNING id, owner_id, title, description, status, tags, estimate_hours, due_at, created_at, updated_at
`

func (r *TaskRepo) UpdateTask(ctx context.Context, task models.Task) (models.Task, error) {
	rows, _ := r.DB.Query(ctx, updateTask,
		task.ID, task.OwnerID, task.Title, task.Description, task.Status,
		task.Tags, task.EstimateHours, task.DueAt,
	)
	updated, err := pgx.CollectOneRow(rows, rowToTask)

	switch {
	case err == nil:
		return updated, nil
	case errors.Is(err, pgx.ErrNoRows):
		return updated, apperrors.ErrTaskNotFound
	default:
		return updated, fmt.Errorf("db error: %w", err)
	}
}

const deleteTask = `-- name: DeleteTask
DELETE FROM tasks
WHERE id = $1 AND owner_id = $2
`

func (r *TaskRepo) DeleteTask(ctx context.Context, ownerID uuid.UUID, taskID uuid.UUID) error {
	tag, err := r.DB.Exec(ctx, deleteTask, taskID, ownerID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrTaskNotFound
	}
	return nil
}

func rowToTask(row pgx.CollectableRow) (models.Task, error) {
	var t models.Task
	err := row.Scan(
		&t.ID, &t.OwnerID, &t.Title, &t.Description, &t.Status,
		&t.Tags, &t.EstimateHours, &t.DueAt, &t.CreatedAt, &t.UpdatedAt,
	)
	return t, err
}
