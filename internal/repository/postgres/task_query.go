package postgres

import (
	"fmt"
	"sort"
	"strings"

	"github.com/taskhub/task-service/internal/query"
)

// Разрешенные фильтры списка задач и соответствующие колонки.
// Ключи вне этого набора игнорируются (произвольные имена полей
// до SQL не доходят).
var taskFilterColumns = map[string]string{
	"status":     "t.status",
	"priority":   "t.priority",
	"assignedTo": "t.assigned_to",
	"assignedBy": "t.assigned_by",
	"team":       "t.team_id",
	"title":      "t.title",
}

// Разрешенные поля сортировки списка задач
var taskSortColumns = map[string]string{
	"createdAt": "t.created_at",
	"updatedAt": "t.updated_at",
	"title":     "t.title",
	"status":    "t.status",
	"priority":  "t.priority",
}

const taskSelectBase = `
	SELECT t.id, t.title, t.description, t.status, t.priority, t.team_id,
	       t.created_at, t.updated_at,
	       ato.id, ato.username, ato.email,
	       aby.id, aby.username, aby.email
	FROM tasks t
	JOIN users ato ON ato.id = t.assigned_to
	JOIN users aby ON aby.id = t.assigned_by`

// buildTaskListQuery строит SQL выборки страницы задач и парный
// COUNT-запрос с теми же условиями. Возвращает оба запроса и аргументы
// для условий WHERE (selectSQL дополнительно использует два последних
// аргумента для LIMIT/OFFSET).
func buildTaskListQuery(params query.Params) (selectSQL, countSQL string, args []any) {
	var conditions []string

	// Порядок условий фиксируем сортировкой ключей
	keys := make([]string, 0, len(params.Filters))
	for key := range params.Filters {
		if _, ok := taskFilterColumns[key]; ok {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)

	for _, key := range keys {
		args = append(args, params.Filters[key])
		conditions = append(conditions, fmt.Sprintf("%s = $%d", taskFilterColumns[key], len(args)))
	}

	where := ""
	if len(conditions) > 0 {
		where = "\n\tWHERE " + strings.Join(conditions, " AND ")
	}

	countSQL = `SELECT COUNT(*) FROM tasks t` + where

	orderBy := buildTaskOrderBy(params.Sort)

	limitArg := len(args) + 1
	offsetArg := len(args) + 2
	selectSQL = taskSelectBase + where + orderBy +
		fmt.Sprintf("\n\tLIMIT $%d OFFSET $%d", limitArg, offsetArg)

	return selectSQL, countSQL, args
}

// buildTaskOrderBy строит ORDER BY из спецификации сортировки.
// Неизвестные поля отбрасываются; при пустом результате применяется
// сортировка по умолчанию (новые задачи первыми).
func buildTaskOrderBy(fields []query.SortField) string {
	var parts []string
	for _, f := range fields {
		column, ok := taskSortColumns[f.Field]
		if !ok {
			continue
		}
		direction := "ASC"
		if f.Desc {
			direction = "DESC"
		}
		parts = append(parts, column+" "+direction)
	}

	if len(parts) == 0 {
		parts = append(parts, "t.created_at DESC")
	}

	return "\n\tORDER BY " + strings.Join(parts, ", ")
}
