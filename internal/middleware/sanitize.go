package middleware

import (
	"net/http"

	"github.com/taskhub/task-service/internal/query"
)

// SanitizeQuery удаляет из query-параметров ключи с синтаксисом
// операторов языка запросов хранилища ('$'-префикс, '.' в имени) до
// того, как параметры попадут в обработчики
func SanitizeQuery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		values := r.URL.Query()
		query.SanitizeValues(values)
		r.URL.RawQuery = values.Encode()

		next.ServeHTTP(w, r)
	})
}
