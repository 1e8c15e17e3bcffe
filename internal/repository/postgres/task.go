package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taskhub/task-service/internal/domain"
	"github.com/taskhub/task-service/internal/query"
)

// TaskRepository реализует repository.TaskRepository для PostgreSQL
type TaskRepository struct {
	db *pgxpool.Pool
}

// NewTaskRepository создает новый экземпляр TaskRepository
func NewTaskRepository(db *pgxpool.Pool) *TaskRepository {
	return &TaskRepository{db: db}
}

// Create создает новую задачу
func (r *TaskRepository) Create(ctx context.Context, task *domain.Task) error {
	sql := `
		INSERT INTO tasks (id, title, description, status, priority, assigned_to, assigned_by, team_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at
	`

	return r.db.QueryRow(ctx, sql,
		task.ID,
		task.Title,
		task.Description,
		task.Status,
		task.Priority,
		task.AssignedToID,
		task.AssignedByID,
		task.TeamID,
	).Scan(&task.CreatedAt, &task.UpdatedAt)
}

// GetByID получает задачу по ID
func (r *TaskRepository) GetByID(ctx context.Context, taskID string) (*domain.Task, error) {
	sql := `
		SELECT id, title, description, status, priority, assigned_to, assigned_by, team_id,
		       created_at, updated_at
		FROM tasks
		WHERE id = $1
	`

	var task domain.Task
	err := r.db.QueryRow(ctx, sql, taskID).Scan(
		&task.ID,
		&task.Title,
		&task.Description,
		&task.Status,
		&task.Priority,
		&task.AssignedToID,
		&task.AssignedByID,
		&task.TeamID,
		&task.CreatedAt,
		&task.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, err
	}

	return &task, nil
}

// GetDetails получает задачу с раскрытыми ссылками на пользователей
func (r *TaskRepository) GetDetails(ctx context.Context, taskID string) (*domain.TaskDetails, error) {
	sql := taskSelectBase + `
	WHERE t.id = $1`

	details, err := scanTaskDetails(r.db.QueryRow(ctx, sql, taskID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, err
	}

	return details, nil
}

// List возвращает страницу задач по фильтрам и сортировке
// вместе с общим числом совпадений
func (r *TaskRepository) List(ctx context.Context, params query.Params) ([]*domain.TaskDetails, int, error) {
	selectSQL, countSQL, args := buildTaskListQuery(params)

	var total int
	if err := r.db.QueryRow(ctx, countSQL, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.db.Query(ctx, selectSQL, append(args, params.Limit, params.Offset())...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	tasks := make([]*domain.TaskDetails, 0, params.Limit)
	for rows.Next() {
		details, err := scanTaskDetails(rows)
		if err != nil {
			return nil, 0, err
		}
		tasks = append(tasks, details)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return tasks, total, nil
}

// Update сохраняет измененную задачу
func (r *TaskRepository) Update(ctx context.Context, task *domain.Task) error {
	sql := `
		UPDATE tasks
		SET title = $1, description = $2, status = $3, priority = $4,
		    assigned_to = $5, team_id = $6, updated_at = NOW()
		WHERE id = $7
	`

	tag, err := r.db.Exec(ctx, sql,
		task.Title,
		task.Description,
		task.Status,
		task.Priority,
		task.AssignedToID,
		task.TeamID,
		task.ID,
	)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrTaskNotFound
	}

	return nil
}

// Delete удаляет задачу
func (r *TaskRepository) Delete(ctx context.Context, taskID string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, taskID)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrTaskNotFound
	}

	return nil
}

// scanTaskDetails читает одну строку выборки taskSelectBase
func scanTaskDetails(row pgx.Row) (*domain.TaskDetails, error) {
	var details domain.TaskDetails
	err := row.Scan(
		&details.ID,
		&details.Title,
		&details.Description,
		&details.Status,
		&details.Priority,
		&details.TeamID,
		&details.CreatedAt,
		&details.UpdatedAt,
		&details.AssignedTo.ID,
		&details.AssignedTo.Username,
		&details.AssignedTo.Email,
		&details.AssignedBy.ID,
		&details.AssignedBy.Username,
		&details.AssignedBy.Email,
	)
	if err != nil {
		return nil, err
	}

	return &details, nil
}
