package task

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/gderuki/Taskr-sub000/internal/models"
	"github.com/gderuki/Taskr-sub000/internal/repository"
)

// TaskService holds the business rules for tasks and their comments.
// Every operation takes the acting principal's id explicitly: there is no
// ambient current user
type TaskService struct {
	taskRepo    repository.TaskRepo
	commentRepo repository.CommentRepo
}

func NewService(taskRepo repository.TaskRepo, commentRepo repository.CommentRepo) *TaskService {
	return &TaskService{
		taskRepo:    taskRepo,
		commentRepo: commentRepo,
	}
}

type CreateTaskParams struct {
	Title         string
	Description   string
	Tags          []string
	EstimateHours decimal.Decimal
	DueAt         *time.Time
}

func (s *TaskService) CreateTask(ctx context.Context, ownerID uuid.UUID, params CreateTaskParams) (models.Task, error) {
	task := models.Task{
		ID:            uuid.New(),
		OwnerID:       ownerID,
		Title:         params.Title,
		Description:   params.Description,
		Status:        models.TaskStatusTodo,
		Tags:          params.Tags,
		EstimateHours: params.EstimateHours,
		DueAt:         params.DueAt,
	}
	if task.Tags == nil {
		task.Tags = []string{}
	}

	created, err := s.taskRepo.CreateTask(ctx, task)
	if err != nil {
		return created, fmt.Errorf("can't create task. Err: %w", err)
	}
	return created, nil
}

func (s *TaskService) GetTask(ctx context.Context, ownerID uuid.UUID, taskID uuid.UUID) (models.Task, error) {
	return s.taskRepo.GetTask(ctx, ownerID, taskID)
}

func (s *TaskService) ListTasks(ctx context.Context, ownerID uuid.UUID, status *models.TaskStatus) ([]models.Task, error) {
	if status != nil && !status.Valid() {
		return nil, fmt.Errorf("unknown task status %q", *status)
	}
	return s.taskRepo.ListTasks(ctx, ownerID, status)
}

// UpdateTaskParams carries the patch: nil fields stay untouched
type UpdateTaskParams struct {
	Title         *string
	Description   *string
	Status        *models.TaskStatus
	Tags          []string
	EstimateHours *decimal.Decimal
	DueAt         *time.Time
	ClearDueAt    bool
}

func (s *TaskService) UpdateTask(ctx context.Context, ownerID uuid.UUID, taskID uuid.UUID, params UpdateTaskParams) (models.Task, error) {
	task, err := s.taskRepo.GetTask(ctx, ownerID, taskID)
	if err != nil {
		return task, err
	}

	if params.Title != nil {
		task.Title = *params.Title
	}
	if params.Description != nil {
		task.Description = *params.Description
	}
	if params.Status != nil {
		if !params.Status.Valid() {
			return task, fmt.Errorf("unknown task status %q", *params.Status)
		}
		task.Status = *params.Status
	}
	if params.Tags != nil {
		task.Tags = params.Tags
	}
	if params.EstimateHours != nil {
		task.EstimateHours = *params.EstimateHours
	}
	if params.DueAt != nil {
		task.DueAt = params.DueAt
	}
	if params.ClearDueAt {
		task.DueAt = nil
	}

	updated, err := s.taskRepo.UpdateTask(ctx, task)
	if err != nil {
		return updated, fmt.Errorf("can't update task. Err: %w", err)
	}
	return updated, nil
}

func (s *TaskService) DeleteTask(ctx context.Context, ownerID uuid.UUID, taskID uuid.UUID) error {
	return s.taskRepo.DeleteTask(ctx, ownerID, taskID)
}

// AddComment appends a comment to the author's own task.
// The author id is written explicitly: audit comes from the call site, not
// from persistence hooks
func (s *TaskService) AddComment(ctx context.Context, authorID uuid.UUID, taskID uuid.UUID, body string) (models.Comment, error) {
	var comment models.Comment

	// The task must be visible to the author
	if _, err := s.taskRepo.GetTask(ctx, authorID, taskID); err != nil {
		return comment, err
	}

	comment, err := s.commentRepo.CreateComment(ctx, models.Comment{
		ID:       uuid.New(),
		TaskID:   taskID,
		AuthorID: authorID,
		Body:     body,
	})
	if err != nil {
		return comment, fmt.Errorf("can't create comment. Err: %w", err)
	}
	return comment, nil
}

func (s *TaskService) ListComments(ctx context.Context, ownerID uuid.UUID, taskID uuid.UUID) ([]models.Comment, error) {
	if _, err := s.taskRepo.GetTask(ctx, ownerID, taskID); err != nil {
		return nil, err
	}
	return s.commentRepo.ListComments(ctx, taskID)
}
