package repository

import (
	"context"

	"github.com/taskhub/task-service/internal/domain"
	"github.com/taskhub/task-service/internal/query"
)

// UserRepository определяет методы для работы с данными пользователей
type UserRepository interface {
	// Create создает нового пользователя.
	// Конфликты уникальности username/email возвращаются как ValidationError.
	Create(ctx context.Context, user *domain.User) error

	// GetByID получает пользователя по ID
	GetByID(ctx context.Context, userID string) (*domain.User, error)

	// GetByEmail получает пользователя по email
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

// TeamRepository определяет методы для работы с данными команд
type TeamRepository interface {
	// Create создает новую команду вместе с начальным составом участников.
	// Конфликт уникальности названия возвращается как ValidationError.
	Create(ctx context.Context, team *domain.Team) error

	// GetByID получает команду по ID
	GetByID(ctx context.Context, teamID string) (*domain.Team, error)

	// GetDetails получает команду с раскрытыми ссылками на лидера и участников
	GetDetails(ctx context.Context, teamID string) (*domain.TeamDetails, error)

	// ListByMember возвращает все команды, в которых состоит пользователь
	ListByMember(ctx context.Context, userID string) ([]*domain.TeamDetails, error)

	// ReplaceMembers перезаписывает состав участников команды.
	// Перед записью вызывается хук инварианта лидера (EnsureLeaderMembership).
	ReplaceMembers(ctx context.Context, team *domain.Team) error

	// Delete удаляет команду. Задачи со ссылкой на команду не затрагиваются.
	Delete(ctx context.Context, teamID string) error
}

// TaskRepository определяет методы для работы с данными задач
type TaskRepository interface {
	// Create создает новую задачу
	Create(ctx context.Context, task *domain.Task) error

	// GetByID получает задачу по ID
	GetByID(ctx context.Context, taskID string) (*domain.Task, error)

	// GetDetails получает задачу с раскрытыми ссылками на пользователей
	GetDetails(ctx context.Context, taskID string) (*domain.TaskDetails, error)

	// List возвращает страницу задач по фильтрам и сортировке
	// вместе с общим числом совпадений
	List(ctx context.Context, params query.Params) ([]*domain.TaskDetails, int, error)

	// Update сохраняет измененную задачу
	Update(ctx context.Context, task *domain.Task) error

	// Delete удаляет задачу
	Delete(ctx context.Context, taskID string) error
}
