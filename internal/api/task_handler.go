package api

import (
	"context"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/blockplan/blockplan-api/internal/api/shared"
	"github.com/blockplan/blockplan-api/internal/domain"
	"github.com/blockplan/blockplan-api/internal/service"
	"github.com/blockplan/blockplan-api/internal/store"
)

// CreateTaskRequest represents the request body for creating a task.
// CategoryID may be omitted inside a categorized block; the block's category
// is inherited. Position may be omitted to append at the end of the block.
type CreateTaskRequest struct {
	BlockID          string  `json:"block_id"          validate:"required,uuid"`
	CategoryID       *string `json:"category_id"       validate:"omitempty,uuid"`
	Title            string  `json:"title"             validate:"required,min=1,max=200"`
	Description      *string `json:"description"       validate:"omitempty,max=250"`
	EstimatedMinutes int     `json:"estimated_minutes" validate:"required,gte=1,lte=10080"`
	Position         *int    `json:"position"          validate:"omitempty,gte=0"`
}

// UpdateTaskRequest represents the request body for updating a task.
// Omitted fields are left unchanged. Completed flips completion state with
// the timestamp managed server-side.
type UpdateTaskRequest struct {
	BlockID          *string `json:"block_id"          validate:"omitempty,uuid"`
	CategoryID       *string `json:"category_id"       validate:"omitempty,uuid"`
	Title            *string `json:"title"             validate:"omitempty,min=1,max=200"`
	Description      *string `json:"description"       validate:"omitempty,max=250"`
	EstimatedMinutes *int    `json:"estimated_minutes" validate:"omitempty,gte=1,lte=10080"`
	ActualMinutes    *int    `json:"actual_minutes"    validate:"omitempty,gte=0,lte=10080"`
	Completed        *bool   `json:"completed"`
	Position         *int    `json:"position"          validate:"omitempty,gte=0"`
}

// CompleteTaskRequest represents the optional request body for completing a
// task with tracked time.
type CompleteTaskRequest struct {
	ActualMinutes *int `json:"actual_minutes" validate:"omitempty,gte=0,lte=10080"`
}

// ReorderTasksRequest represents the request body for a batch reorder.
type ReorderTasksRequest struct {
	Tasks []TaskPositionRequest `json:"tasks" validate:"required,min=1,dive"`
}

// TaskPositionRequest pairs a task ID with its new position.
type TaskPositionRequest struct {
	ID       string `json:"id"       validate:"required,uuid"`
	Position int    `json:"position" validate:"gte=0"`
}

// BulkTaskIDsRequest represents the request body for bulk completion state
// changes.
type BulkTaskIDsRequest struct {
	TaskIDs []string `json:"task_ids" validate:"required,min=1,dive,uuid"`
}

// TaskHandler handles task-related HTTP requests
type TaskHandler struct {
	taskService service.TaskService
	validator   *validator.Validate
}

// NewTaskHandler creates a new TaskHandler
func NewTaskHandler(taskService service.TaskService) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
		validator:   validator.New(),
	}
}

// CreateTask handles POST /api/tasks requests
func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	var req CreateTaskRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	blockID, err := uuid.Parse(req.BlockID)
	if err != nil {
		HandleAPIError(w, r, domain.NewValidationError("block_id", "has invalid format", domain.ErrInvalidID), "")
		return
	}
	categoryID, err := parseOptionalUUID(req.CategoryID, "category_id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	params := service.CreateTaskParams{
		BlockID:          blockID,
		CategoryID:       categoryID,
		Title:            req.Title,
		Description:      req.Description,
		EstimatedMinutes: req.EstimatedMinutes,
	}
	if req.Position != nil {
		params.Position = *req.Position
	}

	task, err := h.taskService.CreateTask(r.Context(), params)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, taskToResponse(task))
}

// ListTasks handles GET /api/tasks requests
func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	blockID, err := getQueryUUIDPtr(r, "block_id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	categoryID, err := getQueryUUIDPtr(r, "category_id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	completed, err := getQueryBoolPtr(r, "completed")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	skip, err := getQueryInt(r, "skip", 0)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	limit, err := getQueryInt(r, "limit", 100)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	tasks, err := h.taskService.ListTasks(r.Context(), store.ListTasksParams{
		BlockID:    blockID,
		CategoryID: categoryID,
		Completed:  completed,
		Skip:       skip,
		Limit:      limit,
	})
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, tasksToResponse(tasks))
}

// GetTask handles GET /api/tasks/{id} requests
func (h *TaskHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	id, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	task, err := h.taskService.GetTask(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, taskToResponse(task))
}

// UpdateTask handles PUT /api/tasks/{id} requests
func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	id, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	var req UpdateTaskRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	blockID, err := parseOptionalUUID(req.BlockID, "block_id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	categoryID, err := parseOptionalUUID(req.CategoryID, "category_id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	task, err := h.taskService.UpdateTask(r.Context(), id, service.UpdateTaskParams{
		BlockID:          blockID,
		CategoryID:       categoryID,
		Title:            req.Title,
		Description:      req.Description,
		EstimatedMinutes: req.EstimatedMinutes,
		ActualMinutes:    req.ActualMinutes,
		Completed:        req.Completed,
		Position:         req.Position,
	})
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, taskToResponse(task))
}

// DeleteTask handles DELETE /api/tasks/{id} requests
func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	id, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	if err := h.taskService.DeleteTask(r.Context(), id); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// CompleteTask handles POST /api/tasks/{id}/complete requests.
// The body is optional; without one, tracked time is left as-is.
func (h *TaskHandler) CompleteTask(w http.ResponseWriter, r *http.Request) {
	id, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	var req CompleteTaskRequest
	if r.ContentLength > 0 {
		if err := shared.DecodeJSON(r, &req); err != nil {
			shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
			return
		}
		if err := h.validator.Struct(req); err != nil {
			shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
			return
		}
	}

	task, err := h.taskService.CompleteTask(r.Context(), id, req.ActualMinutes)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, taskToResponse(task))
}

// UncompleteTask handles POST /api/tasks/{id}/uncomplete requests
func (h *TaskHandler) UncompleteTask(w http.ResponseWriter, r *http.Request) {
	id, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	task, err := h.taskService.UncompleteTask(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, taskToResponse(task))
}

// ReorderTasks handles PUT /api/tasks/reorder requests
func (h *TaskHandler) ReorderTasks(w http.ResponseWriter, r *http.Request) {
	policy, err := getReorderPolicy(r)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	var req ReorderTasksRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	updates := make([]service.TaskPositionUpdate, 0, len(req.Tasks))
	for _, item := range req.Tasks {
		id, err := uuid.Parse(item.ID)
		if err != nil {
			HandleAPIError(w, r, domain.NewValidationError("id", "has invalid format", domain.ErrInvalidID), "")
			return
		}
		updates = append(updates, service.TaskPositionUpdate{ID: id, Position: item.Position})
	}

	applied, err := h.taskService.ReorderTasks(r.Context(), updates, policy)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, CountResponse{Count: applied})
}

// BulkCompleteTasks handles POST /api/tasks/bulk-complete requests
func (h *TaskHandler) BulkCompleteTasks(w http.ResponseWriter, r *http.Request) {
	h.bulkTransition(w, r, h.taskService.BulkComplete)
}

// BulkUncompleteTasks handles POST /api/tasks/bulk-uncomplete requests
func (h *TaskHandler) BulkUncompleteTasks(w http.ResponseWriter, r *http.Request) {
	h.bulkTransition(w, r, h.taskService.BulkUncomplete)
}

// bulkTransition decodes a bulk ID request and applies the given service
// operation, responding with the resolved count.
func (h *TaskHandler) bulkTransition(
	w http.ResponseWriter,
	r *http.Request,
	apply func(ctx context.Context, ids []uuid.UUID) (int, error),
) {
	var req BulkTaskIDsRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	ids := make([]uuid.UUID, 0, len(req.TaskIDs))
	for _, raw := range req.TaskIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			HandleAPIError(w, r, domain.NewValidationError("task_ids", "contains an invalid id", domain.ErrInvalidID), "")
			return
		}
		ids = append(ids, id)
	}

	resolved, err := apply(r.Context(), ids)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, CountResponse{Count: resolved})
}

// parseOptionalUUID parses a nullable string field into a *uuid.UUID.
func parseOptionalUUID(raw *string, field string) (*uuid.UUID, error) {
	if raw == nil {
		return nil, nil
	}
	id, err := uuid.Parse(*raw)
	if err != nil {
		return nil, domain.NewValidationError(field, "has invalid format", domain.ErrInvalidID)
	}
	return &id, nil
}
