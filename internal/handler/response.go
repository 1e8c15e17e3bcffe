package handler

import (
	"net/http"

	"github.com/go-chi/render"
	"github.com/google/uuid"

	"github.com/taskhub/task-service/internal/domain"
)

// RespondWithJSON отправляет JSON ответ с указанным статус кодом
func RespondWithJSON(w http.ResponseWriter, r *http.Request, statusCode int, data interface{}) {
	render.Status(r, statusCode)
	render.JSON(w, r, data)
}

// DeleteResponse представляет ответ на успешное удаление ресурса
type DeleteResponse struct {
	ID      string `json:"id"`
	Message string `json:"message"`
}

// parseIDParam проверяет, что параметр пути является корректным UUID.
// Некорректный идентификатор — ошибка валидации, а не 404.
func parseIDParam(id, field string) (string, error) {
	if _, err := uuid.Parse(id); err != nil {
		return "", domain.NewValidationError(field, field+" is not a valid id")
	}
	return id, nil
}
