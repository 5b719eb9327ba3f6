package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/gderuki/Taskr-sub000/internal/models"
)

type CommentRepo struct {
	DB DBTX
}

const createComment = `-- name: CreateComment
INSERT INTO task_comments (id, task_id, author_id, body)
VALUES ($1, $2, $3, $4)
RETURNING id, task_id, author_id, body, created_at
`

func (r *CommentRepo) CreateComment(ctx context.Context, comment models.Comment) (models.Comment, error) {
	rows, _ := r.DB.Query(ctx, createComment, comment.ID, comment.TaskID, comment.AuthorID, comment.Body)
	created, err := pgx.CollectOneRow(rows, rowToComment)
	if err != nil {
		return created, fmt.Errorf("db error: %w", err)
	}
	return created, nil
}

const listComments = `-- name: ListComments
SELECT id, task_id, author_id, body, created_at
FROM task_comments
WHERE task_id = $1
ORDER BY created_at
`

func (r *CommentRepo) ListComments(ctx context.Context, taskID uuid.UUID) ([]models.Comment, error) {
	rows, _ := r.DB.Query(ctx, listComments, taskID)
	comments, err := pgx.CollectRows(rows, rowToComment)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return comments, nil
}

func rowToComment(row pgx.CollectableRow) (models.Comment, error) {
	var c models.Comment
	err := row.Scan(&c.ID, &c.TaskID, &c.AuthorID, &c.Body, &c.CreatedAt)
	return c, err
}
