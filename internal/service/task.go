package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/taskhub/task-service/internal/domain"
	"github.com/taskhub/task-service/internal/query"
	"github.com/taskhub/task-service/internal/repository"
)

const (
	minTaskTitleLength = 3
	maxTaskTitleLength = 100
	maxTaskDescLength  = 500
)

// TaskService handles business logic for tasks
type TaskService struct {
	taskRepo    repository.TaskRepository
	userRepo    repository.UserRepository
	permissions *PermissionChecker
}

// NewTaskService creates a new TaskService
func NewTaskService(
	taskRepo repository.TaskRepository,
	userRepo repository.UserRepository,
	permissions *PermissionChecker,
) *TaskService {
	return &TaskService{
		taskRepo:    taskRepo,
		userRepo:    userRepo,
		permissions: permissions,
	}
}

// CreateTaskInput describes a task creation request
type CreateTaskInput struct {
	Title       string
	Description string
	Status      domain.TaskStatus
	Priority    domain.TaskPriority
	AssignedTo  string
	TeamID      *string
}

// Create creates a task assigned by the actor. Any authenticated user
// may create tasks; no further permission check applies.
func (s *TaskService) Create(ctx context.Context, actor *domain.User, input CreateTaskInput) (*domain.TaskDetails, error) {
	input.Title = strings.TrimSpace(input.Title)
	input.Description = strings.TrimSpace(input.Description)

	if input.Status == "" {
		input.Status = domain.StatusTodo
	}
	if input.Priority == "" {
		input.Priority = domain.PriorityLow
	}

	if err := s.validateTaskInput(ctx, input); err != nil {
		return nil, err
	}

	task := &domain.Task{
		ID:           uuid.NewString(),
		Title:        input.Title,
		Description:  input.Description,
		Status:       input.Status,
		Priority:     input.Priority,
		AssignedToID: input.AssignedTo,
		AssignedByID: actor.ID,
		TeamID:       input.TeamID,
	}

	if err := s.taskRepo.Create(ctx, task); err != nil {
		return nil, err
	}

	return s.taskRepo.GetDetails(ctx, task.ID)
}

// List returns a page of tasks matching the query together with the
// total match count
func (s *TaskService) List(ctx context.Context, params query.Params) ([]*domain.TaskDetails, int, error) {
	return s.taskRepo.List(ctx, params)
}

// Update applies a partial update to a task. The task is loaded fresh,
// checked against the edit rules, mutated and reprojected.
func (s *TaskService) Update(ctx context.Context, actor *domain.User, taskID string, patch domain.TaskPatch) (*domain.TaskDetails, error) {
	task, err := s.taskRepo.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}

	if !s.permissions.CanEditTask(actor, task) {
		return nil, domain.ErrForbidden
	}

	if err := s.applyPatch(ctx, task, patch); err != nil {
		return nil, err
	}

	if err := s.taskRepo.Update(ctx, task); err != nil {
		return nil, err
	}

	return s.taskRepo.GetDetails(ctx, task.ID)
}

// Delete removes a task after checking the delete rules
func (s *TaskService) Delete(ctx context.Context, actor *domain.User, taskID string) error {
	task, err := s.taskRepo.GetByID(ctx, taskID)
	if err != nil {
		return err
	}

	if !s.permissions.CanDeleteTask(actor, task) {
		return domain.ErrForbidden
	}

	return s.taskRepo.Delete(ctx, taskID)
}

// validateTaskInput validates creation input; runs before any store write
func (s *TaskService) validateTaskInput(ctx context.Context, input CreateTaskInput) error {
	verr := &domain.ValidationError{}

	if len(input.Title) < minTaskTitleLength {
		verr.Add("title", fmt.Sprintf("title must be at least %d characters", minTaskTitleLength))
	} else if len(input.Title) > maxTaskTitleLength {
		verr.Add("title", fmt.Sprintf("title cannot exceed %d characters", maxTaskTitleLength))
	}
	if len(input.Description) > maxTaskDescLength {
		verr.Add("description", fmt.Sprintf("description cannot exceed %d characters", maxTaskDescLength))
	}
	if !domain.ValidStatus(input.Status) {
		verr.Add("status", "status must be one of: todo, in_progress, done")
	}
	if !domain.ValidPriority(input.Priority) {
		verr.Add("priority", "priority must be one of: low, medium, high")
	}

	if input.AssignedTo == "" {
		verr.Add("assignedTo", "assignedTo is required")
	} else if err := s.checkAssignee(ctx, input.AssignedTo, verr); err != nil {
		return err
	}

	if !verr.Empty() {
		return verr
	}
	return nil
}

// applyPatch validates and applies a partial update to the loaded task
func (s *TaskService) applyPatch(ctx context.Context, task *domain.Task, patch domain.TaskPatch) error {
	verr := &domain.ValidationError{}

	if patch.Title != nil {
		title := strings.TrimSpace(*patch.Title)
		if len(title) < minTaskTitleLength {
			verr.Add("title", fmt.Sprintf("title must be at least %d characters", minTaskTitleLength))
		} else if len(title) > maxTaskTitleLength {
			verr.Add("title", fmt.Sprintf("title cannot exceed %d characters", maxTaskTitleLength))
		} else {
			task.Title = title
		}
	}
	if patch.Description != nil {
		desc := strings.TrimSpace(*patch.Description)
		if len(desc) > maxTaskDescLength {
			verr.Add("description", fmt.Sprintf("description cannot exceed %d characters", maxTaskDescLength))
		} else {
			task.Description = desc
		}
	}
	if patch.Status != nil {
		if !domain.ValidStatus(*patch.Status) {
			verr.Add("status", "status must be one of: todo, in_progress, done")
		} else {
			task.Status = *patch.Status
		}
	}
	if patch.Priority != nil {
		if !domain.ValidPriority(*patch.Priority) {
			verr.Add("priority", "priority must be one of: low, medium, high")
		} else {
			task.Priority = *patch.Priority
		}
	}
	if patch.AssignedTo != nil {
		if err := s.checkAssignee(ctx, *patch.AssignedTo, verr); err != nil {
			return err
		}
		task.AssignedToID = *patch.AssignedTo
	}
	if patch.TeamID != nil {
		task.TeamID = patch.TeamID
	}

	if !verr.Empty() {
		return verr
	}
	return nil
}

// checkAssignee verifies the assigned user exists; absence is a
// validation failure, not a 404
func (s *TaskService) checkAssignee(ctx context.Context, userID string, verr *domain.ValidationError) error {
	if _, err := uuid.Parse(userID); err != nil {
		verr.Add("assignedTo", "assignedTo is not a valid user id")
		return nil
	}
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			verr.Add("assignedTo", "assigned user does not exist")
			return nil
		}
		return err
	}
	return nil
}
