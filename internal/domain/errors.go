package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Доменные ошибки сервиса
var (
	// ErrInvalidCredentials возвращается при неверной паре email/пароль
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrInvalidToken возвращается когда токен сессии невалиден
	ErrInvalidToken = errors.New("invalid token")

	// ErrTokenExpired возвращается когда срок действия токена истек
	ErrTokenExpired = errors.New("token expired")

	// ErrForbidden возвращается когда действие запрещено движком авторизации
	ErrForbidden = errors.New("action is not allowed")

	// ErrNotFound возвращается когда ресурс не найден
	ErrNotFound = errors.New("resource not found")

	// ErrUserNotFound возвращается когда пользователь не найден
	ErrUserNotFound = errors.New("user not found")

	// ErrTeamNotFound возвращается когда команда не найдена
	ErrTeamNotFound = errors.New("team not found")

	// ErrTaskNotFound возвращается когда задача не найдена
	ErrTaskNotFound = errors.New("task not found")

	// ErrAlreadyMember возвращается при добавлении пользователя, который уже в команде
	ErrAlreadyMember = errors.New("user is already a member of the team")

	// ErrLeaderRemoval возвращается при попытке убрать лидера из состава команды
	ErrLeaderRemoval = errors.New("leader cannot be removed from the team")
)

// ValidationError описывает ошибки валидации входных данных с привязкой к полям.
// Сюда же попадают конфликты уникальности (username, email, название команды).
type ValidationError struct {
	Fields map[string]string
}

// NewValidationError создает ошибку валидации для одного поля
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: message}}
}

// Error реализует интерфейс error
func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for field, msg := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", field, msg))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Add добавляет сообщение об ошибке для поля
func (e *ValidationError) Add(field, message string) {
	if e.Fields == nil {
		e.Fields = make(map[string]string)
	}
	e.Fields[field] = message
}

// Empty возвращает true если ошибок нет
func (e *ValidationError) Empty() bool {
	return len(e.Fields) == 0
}

// ErrorCode представляет коды ошибок API
type ErrorCode string

// Коды ошибок API
const (
	CodeValidation         ErrorCode = "VALIDATION_ERROR"
	CodeInvalidCredentials ErrorCode = "INVALID_CREDENTIALS"
	CodeUnauthorized       ErrorCode = "UNAUTHORIZED"
	CodeForbidden          ErrorCode = "FORBIDDEN"
	CodeNotFound           ErrorCode = "NOT_FOUND"
	CodeAlreadyMember      ErrorCode = "ALREADY_MEMBER"
	CodeInvalidOperation   ErrorCode = "INVALID_OPERATION"
	CodeInternal           ErrorCode = "INTERNAL_ERROR"
)
