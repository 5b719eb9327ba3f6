package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/gderuki/Taskr-sub000/internal/models"
)

// User repository interface (the credential store)
type UserRepo interface {
	// Create user
	// If user with username exists already has to return apperrors.ErrUserAlreadyExists
	CreateUser(ctx context.Context, username string, hashedPassword string) (models.User, error)

	// Get user by it's id or username
	// If user not found must return apperrors.ErrUserNotFound
	GetUserByID(ctx context.Context, userID uuid.UUID) (models.User, error)
	GetUserByUsername(ctx context.Context, username string) (models.User, error)

	// Flip the enabled flag. Disabled users can't login and their access
	// tokens stop resolving to a principal
	SetUserEnabled(ctx context.Context, userID uuid.UUID, enabled bool) (models.User, error)
}

// RefreshToken repository interface
// Liveness is defined by row presence: there is no used/revoked flag
type RefreshTokenRepo interface {
	// Save token in repository. Token values are unique across the store
	Save(ctx context.Context, token models.RefreshToken) (models.RefreshToken, error)

	// Return the token row whether expired or not
	// Expiry is the caller's check, so an expired-but-present token can be
	// reported differently from one that never existed
	// If no row: apperrors.ErrRefreshTokenNotFound
	Get(ctx context.Context, tokenString string) (models.RefreshToken, error)

	// Delete the row by value and return it. At most one caller can get the
	// row for a given value: everyone else gets apperrors.ErrRefreshTokenNotFound.
	// This is the rotation primitive
	DeleteReturning(ctx context.Context, tokenString string) (models.RefreshToken, error)

	// Delete the row by value if present. Absence is not an error
	Delete(ctx context.Context, tokenString string) error

	// Delete every token of the user (full logout), returns deleted count
	DeleteAllForUser(ctx context.Context, userID uuid.UUID) (int64, error)
}

// Task repository interface
// Every method is owner-scoped: a task of another owner behaves as not found
type TaskRepo interface {
	CreateTask(ctx context.Context, task models.Task) (models.Task, error)
	GetTask(ctx context.Context, ownerID uuid.UUID, taskID uuid.UUID) (models.Task, error)
	ListTasks(ctx context.Context, ownerID uuid.UUID, status *models.TaskStatus) ([]models.Task, error)
	UpdateTask(ctx context.Context, task models.Task) (models.Task, error)
	DeleteTask(ctx context.Context, ownerID uuid.UUID, taskID uuid.UUID) error
}

type CommentRepo interface {
	CreateComment(ctx context.Context, comment models.Comment) (models.Comment, error)
	ListComments(ctx context.Context, taskID uuid.UUID) ([]models.Comment, error)
}

// Storage aggregates all repositories over a single db handle
type Storage interface {
	User() UserRepo
	Refresh() RefreshTokenRepo
	Task() TaskRepo
	Comment() CommentRepo

	InTx(ctx context.Context, fn func(Storage) error) error
}
