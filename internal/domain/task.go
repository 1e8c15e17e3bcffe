package domain

import "time"

// TaskStatus представляет статус задачи
type TaskStatus string

// Возможные статусы задачи
const (
	StatusTodo       TaskStatus = "todo"        // Задача еще не начата
	StatusInProgress TaskStatus = "in_progress" // Задача в работе
	StatusDone       TaskStatus = "done"        // Задача завершена
)

// ValidStatus проверяет, является ли значение допустимым статусом
func ValidStatus(s TaskStatus) bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusDone:
		return true
	}
	return false
}

// TaskPriority представляет приоритет задачи
type TaskPriority string

// Возможные приоритеты задачи
const (
	PriorityLow    TaskPriority = "low"
	PriorityMedium TaskPriority = "medium"
	PriorityHigh   TaskPriority = "high"
)

// ValidPriority проверяет, является ли значение допустимым приоритетом
func ValidPriority(p TaskPriority) bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Task представляет задачу, назначенную пользователю
type Task struct {
	ID           string       `json:"id"`
	Title        string       `json:"title"`
	Description  string       `json:"description"`
	Status       TaskStatus   `json:"status"`
	Priority     TaskPriority `json:"priority"`
	AssignedToID string       `json:"assignedToId"`
	AssignedByID string       `json:"assignedById"`
	// TeamID опционален; ссылка справочная, каскадного удаления нет
	TeamID    *string   `json:"teamId,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TaskDetails представляет задачу с раскрытыми ссылками на пользователей
type TaskDetails struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Status      TaskStatus   `json:"status"`
	Priority    TaskPriority `json:"priority"`
	AssignedTo  UserRef      `json:"assignedTo"`
	AssignedBy  UserRef      `json:"assignedBy"`
	TeamID      *string      `json:"teamId,omitempty"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}

// TaskPatch представляет частичное обновление задачи.
// Поля со значением nil не изменяются.
type TaskPatch struct {
	Title       *string
	Description *string
	Status      *TaskStatus
	Priority    *TaskPriority
	AssignedTo  *string
	TeamID      *string
}
