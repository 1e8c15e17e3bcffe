package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/taskhub/task-service/internal/domain"
	"github.com/taskhub/task-service/internal/service"
)

// ContextKey это кастомный тип для ключей контекста
type ContextKey string

// ActorKey ключ контекста для аутентифицированного пользователя
const ActorKey ContextKey = "actor"

// AuthMiddleware создает middleware для валидации bearer токенов.
// Пользователь загружается из хранилища на каждый запрос: роль и связи
// никогда не берутся из полезной нагрузки токена.
func AuthMiddleware(authService *service.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				unauthorized(w, "missing authorization header")
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				unauthorized(w, "invalid authorization header format")
				return
			}

			actor, err := authService.Authenticate(r.Context(), parts[1])
			if err != nil {
				unauthorized(w, "invalid or expired token")
				return
			}

			// Загруженный актор передается дальше по цепочке через контекст
			ctx := context.WithValue(r.Context(), ActorKey, actor)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// unauthorized отправляет 401 в формате ErrorResponse
func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":{"code":"UNAUTHORIZED","message":"` + message + `"}}`))
}

// GetActorFromContext извлекает аутентифицированного пользователя из контекста
func GetActorFromContext(ctx context.Context) *domain.User {
	actor, ok := ctx.Value(ActorKey).(*domain.User)
	if !ok {
		return nil
	}
	return actor
}
