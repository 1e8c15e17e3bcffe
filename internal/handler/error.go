package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/render"

	"github.com/taskhub/task-service/internal/domain"
)

// ErrorResponse представляет ответ с ошибкой
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail содержит код, описание ошибки и, для ошибок валидации,
// сообщения по отдельным полям
type ErrorDetail struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// RespondWithError отправляет ответ с ошибкой
func RespondWithError(w http.ResponseWriter, r *http.Request, statusCode int, code domain.ErrorCode, message string) {
	render.Status(r, statusCode)
	render.JSON(w, r, ErrorResponse{
		Error: ErrorDetail{
			Code:    string(code),
			Message: message,
		},
	})
}

// RespondWithValidationError отправляет 422 с сообщениями по полям
func RespondWithValidationError(w http.ResponseWriter, r *http.Request, verr *domain.ValidationError) {
	render.Status(r, http.StatusUnprocessableEntity)
	render.JSON(w, r, ErrorResponse{
		Error: ErrorDetail{
			Code:    string(domain.CodeValidation),
			Message: "validation failed",
			Fields:  verr.Fields,
		},
	})
}

// HandleError преобразует доменные ошибки в HTTP ответы.
// Ошибки валидации отклоняются до любой записи в хранилище,
// отказы авторизации — до мутации.
func HandleError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		RespondWithValidationError(w, r, verr)
		return
	}

	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		RespondWithError(w, r, http.StatusUnauthorized, domain.CodeInvalidCredentials, "invalid email or password")
	case errors.Is(err, domain.ErrInvalidToken), errors.Is(err, domain.ErrTokenExpired):
		RespondWithError(w, r, http.StatusUnauthorized, domain.CodeUnauthorized, "invalid or expired token")
	case errors.Is(err, domain.ErrForbidden):
		RespondWithError(w, r, http.StatusForbidden, domain.CodeForbidden, "you do not have permission to perform this action")
	case errors.Is(err, domain.ErrAlreadyMember):
		RespondWithError(w, r, http.StatusBadRequest, domain.CodeAlreadyMember, "user is already a member of the team")
	case errors.Is(err, domain.ErrLeaderRemoval):
		RespondWithError(w, r, http.StatusBadRequest, domain.CodeInvalidOperation, "the leader cannot be removed from the team")
	case errors.Is(err, domain.ErrUserNotFound), errors.Is(err, domain.ErrTeamNotFound),
		errors.Is(err, domain.ErrTaskNotFound), errors.Is(err, domain.ErrNotFound):
		RespondWithError(w, r, http.StatusNotFound, domain.CodeNotFound, "resource not found")
	default:
		// Внутренние детали наружу не отдаем
		RespondWithError(w, r, http.StatusInternalServerError, domain.CodeInternal, "internal server error")
	}
}
