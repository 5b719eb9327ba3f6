package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/gderuki/Taskr-sub000/internal/apperrors"
	"github.com/gderuki/Taskr-sub000/internal/handlers/render"
	"github.com/gderuki/Taskr-sub000/internal/models"
	"github.com/gderuki/Taskr-sub000/internal/service/task"
)

type taskService interface {
	CreateTask(ctx context.Context, ownerID uuid.UUID, params task.CreateTaskParams) (models.Task, error)
	GetTask(ctx context.Context, ownerID uuid.UUID, taskID uuid.UUID) (models.Task, error)
	ListTasks(ctx context.Context, ownerID uuid.UUID, status *models.TaskStatus) ([]models.Task, error)
	UpdateTask(ctx context.Context, ownerID uuid.UUID, taskID uuid.UUID, params task.UpdateTaskParams) (models.Task, error)
	DeleteTask(ctx context.Context, ownerID uuid.UUID, taskID uuid.UUID) error

	AddComment(ctx context.Context, authorID uuid.UUID, taskID uuid.UUID, body string) (models.Comment, error)
	ListComments(ctx context.Context, ownerID uuid.UUID, taskID uuid.UUID) ([]models.Comment, error)
}

type TaskResponse struct {
	ID            uuid.UUID       `json:"id"`
	Title         string          `json:"title"`
	Description   string          `json:"description"`
	Status        string          `json:"status"`
	Tags          []string        `json:"tags"`
	EstimateHours decimal.Decimal `json:"estimateHours"`
	DueAt         *time.Time      `json:"dueAt,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

type CommentResponse struct {
	ID        uuid.UUID `json:"id"`
	AuthorID  uuid.UUID `json:"authorId"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"createdAt"`
}

type TaskHandler struct {
	taskService taskService
}

func NewTask(ts taskService) *TaskHandler {
	return &TaskHandler{taskService: ts}
}

func (h *TaskHandler) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /tasks", h.create)
	mux.HandleFunc("GET /tasks", h.list)
	mux.HandleFunc("GET /tasks/{id}", h.get)
	mux.HandleFunc("PATCH /tasks/{id}", h.update)
	mux.HandleFunc("DELETE /tasks/{id}", h.delete)
	mux.HandleFunc("POST /tasks/{id}/comments", h.addComment)
	mux.HandleFunc("GET /tasks/{id}/comments", h.listComments)

	return mux
}

func taskResponse(t models.Task) TaskResponse {
	return TaskResponse{
		ID:            t.ID,
		Title:         t.Title,
		Description:   t.Description,
		Status:        string(t.Status),
		Tags:          t.Tags,
		EstimateHours: t.EstimateHours,
		DueAt:         t.DueAt,
		CreatedAt:     t.CreatedAt,
		UpdatedAt:     t.UpdatedAt,
	}
}

func commentResponse(c models.Comment) CommentResponse {
	return CommentResponse{
		ID:        c.ID,
		AuthorID:  c.AuthorID,
		Body:      c.Body,
		CreatedAt: c.CreatedAt,
	}
}

// taskID reads the {id} path segment; writes 404 and reports false on garbage
func taskID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		render.Error(w, r, "Task not found", http.StatusNotFound)
		return uuid.Nil, false
	}
	return id, true
}

func (h *TaskHandler) create(w http.ResponseWriter, r *http.Request) {
	type CreateTaskRequest struct {
		Title         string           `json:"title" validate:"required,min=1,max=200"`
		Description   string           `json:"description" validate:"max=4000"`
		Tags          []string         `json:"tags" validate:"dive,min=1,max=50"`
		EstimateHours *decimal.Decimal `json:"estimateHours"`
		DueAt         *time.Time       `json:"dueAt"`
	}

	user, _ := UserFromContext(r.Context())

	data, err := render.BindAndValidate[CreateTaskRequest](w, r)
	if err != nil {
		return
	}

	params := task.CreateTaskParams{
		Title:       data.Title,
		Description: data.Description,
		Tags:        data.Tags,
		DueAt:       data.DueAt,
	}
	if data.EstimateHours != nil {
		params.EstimateHours = *data.EstimateHours
	}

	created, err := h.taskService.CreateTask(r.Context(), user.ID, params)
	if err != nil {
		render.Error(w, r, "Internal server error", http.StatusInternalServerError)
		return
	}

	render.JSONWithStatus(w, taskResponse(created), http.StatusCreated)
}

func (h *TaskHandler) list(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFromContext(r.Context())

	var status *models.TaskStatus
	if raw := r.URL.Query().Get("status"); raw != "" {
		s := models.TaskStatus(raw)
		if !s.Valid() {
			render.Error(w, r, "Unknown task status", http.StatusBadRequest)
			return
		}
		status = &s
	}

	tasks, err := h.taskService.ListTasks(r.Context(), user.ID, status)
	if err != nil {
		render.Error(w, r, "Internal server error", http.StatusInternalServerError)
		return
	}

	response := make([]TaskResponse, 0, len(tasks))
	for _, t := range tasks {
		response = append(response, taskResponse(t))
	}
	render.JSON(w, response)
}

func (h *TaskHandler) get(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFromContext(r.Context())

	id, ok := taskID(w, r)
	if !ok {
		return
	}

	t, err := h.taskService.GetTask(r.Context(), user.ID, id)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrTaskNotFound):
			render.Error(w, r, "Task not found", http.StatusNotFound)
		default:
			render.Error(w, r, "Internal server error", http.StatusInternalServerError)
		}
		return
	}

	render.JSON(w, taskResponse(t))
}

func (h *TaskHandler) update(w http.ResponseWriter, r *http.Request) {
	type UpdateTaskRequest struct {
		Title         *string          `json:"title" validate:"omitempty,min=1,max=200"`
		Description   *string          `json:"description" validate:"omitempty,max=4000"`
		Status        *string          `json:"status" validate:"omitempty,oneof=todo in_progress done"`
		Tags          []string         `json:"tags" validate:"omitempty,dive,min=1,max=50"`
		EstimateHours *decimal.Decimal `json:"estimateHours"`
		DueAt         *time.Time       `json:"dueAt"`
		ClearDueAt    bool             `json:"clearDueAt"`
	}

	user, _ := UserFromContext(r.Context())

	id, ok := taskID(w, r)
	if !ok {
		return
	}

	data, err := render.BindAndValidate[UpdateTaskRequest](w, r)
	if err != nil {
		return
	}

	params := task.UpdateTaskParams{
		Title:         data.Title,
		Description:   data.Description,
		Tags:          data.Tags,
		EstimateHours: data.EstimateHours,
		DueAt:         data.DueAt,
		ClearDueAt:    data.ClearDueAt,
	}
	if data.Status != nil {
		s := models.TaskStatus(*data.Status)
		params.Status = &s
	}

	updated, err := h.taskService.UpdateTask(r.Context(), user.ID, id, params)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrTaskNotFound):
			render.Error(w, r, "Task not found", http.StatusNotFound)
		default:
			render.Error(w, r, "Internal server error", http.StatusInternalServerError)
		}
		return
	}

	render.JSON(w, taskResponse(updated))
}

func (h *TaskHandler) delete(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFromContext(r.Context())

	id, ok := taskID(w, r)
	if !ok {
		return
	}

	err := h.taskService.DeleteTask(r.Context(), user.ID, id)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrTaskNotFound):
			render.Error(w, r, "Task not found", http.StatusNotFound)
		default:
			render.Error(w, r, "Internal server error", http.StatusInternalServerError)
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *TaskHandler) addComment(w http.ResponseWriter, r *http.Request) {
	type CreateCommentRequest struct {
		Body string `json:"body" validate:"required,min=1,max=4000"`
	}

	user, _ := UserFromContext(r.Context())

	id, ok := taskID(w, r)
	if !ok {
		return
	}

	data, err := render.BindAndValidate[CreateCommentRequest](w, r)
	if err != nil {
		return
	}

	comment, err := h.taskService.AddComment(r.Context(), user.ID, id, data.Body)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrTaskNotFound):
			render.Error(w, r, "Task not found", http.StatusNotFound)
		default:
			render.Error(w, r, "Internal server error", http.StatusInternalServerError)
		}
		return
	}

	render.JSONWithStatus(w, commentResponse(comment), http.StatusCreated)
}

func (h *TaskHandler) listComments(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFromContext(r.Context())

	id, ok := taskID(w, r)
	if !ok {
		return
	}

	comments, err := h.taskService.ListComments(r.Context(), user.ID, id)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrTaskNotFound):
			render.Error(w, r, "Task not found", http.StatusNotFound)
		default:
			render.Error(w, r, "Internal server error", http.StatusInternalServerError)
		}
		return
	}

	response := make([]CommentResponse, 0, len(comments))
	for _, c := range comments {
		response = append(response, commentResponse(c))
	}
	render.JSON(w, response)
}
