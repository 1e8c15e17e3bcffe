package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taskhub/task-service/internal/domain"
	"github.com/taskhub/task-service/internal/middleware"
	"github.com/taskhub/task-service/internal/query"
	"github.com/taskhub/task-service/internal/service"
)

// TaskHandler обрабатывает эндпоинты задач
type TaskHandler struct {
	taskService *service.TaskService
}

// NewTaskHandler создает новый TaskHandler
func NewTaskHandler(taskService *service.TaskService) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
	}
}

// CreateTaskRequest представляет тело запроса на создание задачи
type CreateTaskRequest struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Status      string  `json:"status"`
	Priority    string  `json:"priority"`
	AssignedTo  string  `json:"assignedTo"`
	Team        *string `json:"team,omitempty"`
}

// UpdateTaskRequest представляет тело запроса на частичное обновление задачи
type UpdateTaskRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
	Priority    *string `json:"priority"`
	AssignedTo  *string `json:"assignedTo"`
	Team        *string `json:"team"`
}

// TaskListResponse представляет страницу списка задач
type TaskListResponse struct {
	Count      int                   `json:"count"`
	Page       int                   `json:"page"`
	TotalPages int                   `json:"totalPages"`
	TotalTasks int                   `json:"totalTasks"`
	Tasks      []*domain.TaskDetails `json:"tasks"`
}

// Create обрабатывает POST /tasks
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetActorFromContext(r.Context())

	var req CreateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondWithError(w, r, http.StatusBadRequest, domain.CodeValidation, "invalid request body")
		return
	}

	task, err := h.taskService.Create(r.Context(), actor, service.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      domain.TaskStatus(req.Status),
		Priority:    domain.TaskPriority(req.Priority),
		AssignedTo:  req.AssignedTo,
		TeamID:      req.Team,
	})
	if err != nil {
		HandleError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusCreated, task)
}

// List обрабатывает GET /tasks?status=&priority=&assignedTo=&sort=&page=&limit=
func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	params := query.Parse(r.URL.Query())

	tasks, total, err := h.taskService.List(r.Context(), params)
	if err != nil {
		HandleError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusOK, TaskListResponse{
		Count:      len(tasks),
		Page:       params.Page,
		TotalPages: params.TotalPages(total),
		TotalTasks: total,
		Tasks:      tasks,
	})
}

// Update обрабатывает PUT /tasks/{id}
func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetActorFromContext(r.Context())

	taskID, err := parseIDParam(chi.URLParam(r, "id"), "id")
	if err != nil {
		HandleError(w, r, err)
		return
	}

	var req UpdateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondWithError(w, r, http.StatusBadRequest, domain.CodeValidation, "invalid request body")
		return
	}

	patch := domain.TaskPatch{
		Title:       req.Title,
		Description: req.Description,
		AssignedTo:  req.AssignedTo,
		TeamID:      req.Team,
	}
	if req.Status != nil {
		status := domain.TaskStatus(*req.Status)
		patch.Status = &status
	}
	if req.Priority != nil {
		priority := domain.TaskPriority(*req.Priority)
		patch.Priority = &priority
	}

	task, err := h.taskService.Update(r.Context(), actor, taskID, patch)
	if err != nil {
		HandleError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusOK, task)
}

// Delete обрабатывает DELETE /tasks/{id}
func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetActorFromContext(r.Context())

	taskID, err := parseIDParam(chi.URLParam(r, "id"), "id")
	if err != nil {
		HandleError(w, r, err)
		return
	}

	if err := h.taskService.Delete(r.Context(), actor, taskID); err != nil {
		HandleError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusOK, DeleteResponse{
		ID:      taskID,
		Message: "task deleted",
	})
}
