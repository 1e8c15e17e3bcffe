package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Тестовые структуры данных соответствующие API
type AuthResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Token    string `json:"token"`
}

type UserRef struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

type TeamResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Leader      UserRef   `json:"leader"`
	Members     []UserRef `json:"members"`
}

type TaskResponse struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Status     string    `json:"status"`
	Priority   string    `json:"priority"`
	AssignedTo UserRef   `json:"assignedTo"`
	AssignedBy UserRef   `json:"assignedBy"`
	TeamID     *string   `json:"teamId"`
	CreatedAt  time.Time `json:"createdAt"`
}

type TaskListResponse struct {
	Count      int            `json:"count"`
	Page       int            `json:"page"`
	TotalPages int            `json:"totalPages"`
	TotalTasks int            `json:"totalTasks"`
	Tasks      []TaskResponse `json:"tasks"`
}

type ErrorResponse struct {
	Error struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Fields  map[string]string `json:"fields"`
	} `json:"error"`
}

type DeleteResponse struct {
	ID      string `json:"id"`
	Message string `json:"message"`
}

// register регистрирует пользователя и возвращает его данные с токеном
func register(t *testing.T, env *TestEnvironment, username, email string) AuthResponse {
	t.Helper()

	body, _ := json.Marshal(map[string]string{
		"username": username,
		"email":    email,
		"password": "secret123",
	})

	resp := env.MakeRequest(t, http.MethodPost, "/auth/register", bytes.NewReader(body), "")
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode, "Registration should succeed")

	var auth AuthResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&auth))
	require.NotEmpty(t, auth.Token)
	return auth
}

// makeAdmin повышает пользователя до администратора напрямую в БД
// (изменение ролей через API вне рамок сервиса)
func makeAdmin(t *testing.T, env *TestEnvironment, userID string) {
	t.Helper()

	_, err := env.DB.Exec(env.ctx, `UPDATE users SET role = 'admin' WHERE id = $1`, userID)
	require.NoError(t, err)
}

func createTask(t *testing.T, env *TestEnvironment, token, title, assignedTo string, extra map[string]any) TaskResponse {
	t.Helper()

	payload := map[string]any{
		"title":      title,
		"assignedTo": assignedTo,
	}
	for k, v := range extra {
		payload[k] = v
	}

	body, _ := json.Marshal(payload)
	resp := env.MakeRequest(t, http.MethodPost, "/tasks", bytes.NewReader(body), token)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode, "Task creation should succeed")

	var task TaskResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&task))
	return task
}

func decodeError(t *testing.T, resp *http.Response) ErrorResponse {
	t.Helper()

	var errResp ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&errResp))
	return errResp
}

// TestE2E_CompleteWorkflow тестирует полный workflow сервиса задач и команд
func TestE2E_CompleteWorkflow(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	env := SetupTestEnvironment(t)
	defer env.Cleanup(t)
	env.WaitForHealthCheck(t)

	leader := register(t, env, "leader", "leader@example.com")
	member := register(t, env, "member", "member@example.com")
	outsider := register(t, env, "outsider", "outsider@example.com")

	t.Run("Protected Endpoints Require Token", func(t *testing.T) {
		resp := env.MakeRequest(t, http.MethodGet, "/tasks", nil, "")
		defer resp.Body.Close()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

		resp2 := env.MakeRequest(t, http.MethodGet, "/teams", nil, "garbage-token")
		defer resp2.Body.Close()
		assert.Equal(t, http.StatusUnauthorized, resp2.StatusCode)
	})

	// Создание команды: создатель становится лидером и единственным участником
	var team TeamResponse
	t.Run("Create Team", func(t *testing.T) {
		body, _ := json.Marshal(map[string]string{
			"name":        "backend-team",
			"description": "Backend crew",
		})

		resp := env.MakeRequest(t, http.MethodPost, "/teams", bytes.NewReader(body), leader.Token)
		defer resp.Body.Close()
		require.Equal(t, http.StatusCreated, resp.StatusCode)

		require.NoError(t, json.NewDecoder(resp.Body).Decode(&team))
		assert.Equal(t, leader.ID, team.Leader.ID)
		require.Len(t, team.Members, 1)
		assert.Equal(t, leader.ID, team.Members[0].ID)
	})

	t.Run("Leader Adds Member", func(t *testing.T) {
		body, _ := json.Marshal(map[string]string{"userId": member.ID})

		resp := env.MakeRequest(t, http.MethodPost, "/teams/"+team.ID+"/members", bytes.NewReader(body), leader.Token)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var updated TeamResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&updated))
		assert.Len(t, updated.Members, 2)
	})

	t.Run("Adding Present Member Fails", func(t *testing.T) {
		body, _ := json.Marshal(map[string]string{"userId": member.ID})

		resp := env.MakeRequest(t, http.MethodPost, "/teams/"+team.ID+"/members", bytes.NewReader(body), leader.Token)
		defer resp.Body.Close()
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "ALREADY_MEMBER", decodeError(t, resp).Error.Code)
	})

	t.Run("Non-Leader Cannot Manage Membership", func(t *testing.T) {
		body, _ := json.Marshal(map[string]string{"userId": outsider.ID})

		resp := env.MakeRequest(t, http.MethodPost, "/teams/"+team.ID+"/members", bytes.NewReader(body), member.Token)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("List Teams Shows Only Memberships", func(t *testing.T) {
		resp := env.MakeRequest(t, http.MethodGet, "/teams", nil, member.Token)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var teams []TeamResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&teams))
		assert.Len(t, teams, 1)

		resp2 := env.MakeRequest(t, http.MethodGet, "/teams", nil, outsider.Token)
		defer resp2.Body.Close()
		require.Equal(t, http.StatusOK, resp2.StatusCode)

		var noTeams []TeamResponse
		require.NoError(t, json.NewDecoder(resp2.Body).Decode(&noTeams))
		assert.Empty(t, noTeams)
	})

	t.Run("Non-Member Cannot View Team", func(t *testing.T) {
		resp := env.MakeRequest(t, http.MethodGet, "/teams/"+team.ID, nil, outsider.Token)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("Removing Leader Fails", func(t *testing.T) {
		resp := env.MakeRequest(t, http.MethodDelete, "/teams/"+team.ID+"/members/"+leader.ID, nil, leader.Token)
		defer resp.Body.Close()
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "INVALID_OPERATION", decodeError(t, resp).Error.Code)
	})

	// Жизненный цикл задачи: лидер создает, исполнитель правит, но не удаляет
	var task TaskResponse
	t.Run("Create Task", func(t *testing.T) {
		task = createTask(t, env, leader.Token, "Implement the API", member.ID, map[string]any{
			"team": team.ID,
		})

		assert.Equal(t, "todo", task.Status)
		assert.Equal(t, "low", task.Priority)
		assert.Equal(t, member.ID, task.AssignedTo.ID)
		assert.Equal(t, leader.ID, task.AssignedBy.ID)
		assert.Equal(t, "member", task.AssignedTo.Username)
	})

	t.Run("Assignee Updates Status", func(t *testing.T) {
		body, _ := json.Marshal(map[string]string{"status": "done"})

		resp := env.MakeRequest(t, http.MethodPut, "/tasks/"+task.ID, bytes.NewReader(body), member.Token)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var updated TaskResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&updated))
		assert.Equal(t, "done", updated.Status)
	})

	t.Run("Outsider Cannot Update", func(t *testing.T) {
		body, _ := json.Marshal(map[string]string{"status": "todo"})

		resp := env.MakeRequest(t, http.MethodPut, "/tasks/"+task.ID, bytes.NewReader(body), outsider.Token)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("Assignee Cannot Delete", func(t *testing.T) {
		resp := env.MakeRequest(t, http.MethodDelete, "/tasks/"+task.ID, nil, member.Token)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("Creator Deletes Task", func(t *testing.T) {
		resp := env.MakeRequest(t, http.MethodDelete, "/tasks/"+task.ID, nil, leader.Token)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var deleted DeleteResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&deleted))
		assert.Equal(t, task.ID, deleted.ID)
	})

	t.Run("Leader Removes Member", func(t *testing.T) {
		resp := env.MakeRequest(t, http.MethodDelete, "/teams/"+team.ID+"/members/"+member.ID, nil, leader.Token)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var updated TeamResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&updated))
		require.Len(t, updated.Members, 1)
		assert.Equal(t, leader.ID, updated.Members[0].ID)
	})

	t.Run("Team Deletion Leaves Tasks Dangling", func(t *testing.T) {
		// Задача со ссылкой на команду переживает удаление команды
		kept := createTask(t, env, leader.Token, "Survives team deletion", leader.ID, map[string]any{
			"team": team.ID,
		})

		resp := env.MakeRequest(t, http.MethodDelete, "/teams/"+team.ID, nil, member.Token)
		resp.Body.Close()
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)

		resp = env.MakeRequest(t, http.MethodDelete, "/teams/"+team.ID, nil, leader.Token)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var count int
		require.NoError(t, env.DB.QueryRow(env.ctx, `SELECT COUNT(*) FROM tasks WHERE id = $1`, kept.ID).Scan(&count))
		assert.Equal(t, 1, count)
	})
}

// TestAdminScenario проверяет права администратора и их границы
func TestAdminScenario(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	env := SetupTestEnvironment(t)
	defer env.Cleanup(t)
	env.WaitForHealthCheck(t)

	admin := register(t, env, "admin", "admin@example.com")
	makeAdmin(t, env, admin.ID)
	user := register(t, env, "regular", "regular@example.com")

	// Админ создает команду: он лидер и единственный участник
	body, _ := json.Marshal(map[string]string{"name": "admin-team"})
	resp := env.MakeRequest(t, http.MethodPost, "/teams", bytes.NewReader(body), admin.Token)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var team TeamResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&team))
	resp.Body.Close()
	require.Len(t, team.Members, 1)

	t.Run("Admin Adds And Removes Member", func(t *testing.T) {
		body, _ := json.Marshal(map[string]string{"userId": user.ID})
		resp := env.MakeRequest(t, http.MethodPost, "/teams/"+team.ID+"/members", bytes.NewReader(body), admin.Token)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		resp2 := env.MakeRequest(t, http.MethodDelete, "/teams/"+team.ID+"/members/"+user.ID, nil, admin.Token)
		defer resp2.Body.Close()
		require.Equal(t, http.StatusOK, resp2.StatusCode)

		var updated TeamResponse
		require.NoError(t, json.NewDecoder(resp2.Body).Decode(&updated))
		assert.Len(t, updated.Members, 1)
	})

	t.Run("Admin Cannot Remove Self", func(t *testing.T) {
		resp := env.MakeRequest(t, http.MethodDelete, "/teams/"+team.ID+"/members/"+admin.ID, nil, admin.Token)
		defer resp.Body.Close()
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "INVALID_OPERATION", decodeError(t, resp).Error.Code)
	})

	t.Run("Admin Overrides Task Permissions", func(t *testing.T) {
		task := createTask(t, env, user.Token, "Owned by regular user", user.ID, nil)

		body, _ := json.Marshal(map[string]string{"priority": "high"})
		resp := env.MakeRequest(t, http.MethodPut, "/tasks/"+task.ID, bytes.NewReader(body), admin.Token)
		resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		resp = env.MakeRequest(t, http.MethodDelete, "/tasks/"+task.ID, nil, admin.Token)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("Admin Has No Membership Override On Foreign Team", func(t *testing.T) {
		// Команда другого лидера: админ может смотреть, но не управлять
		body, _ := json.Marshal(map[string]string{"name": "user-team"})
		resp := env.MakeRequest(t, http.MethodPost, "/teams", bytes.NewReader(body), user.Token)
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		var userTeam TeamResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&userTeam))
		resp.Body.Close()

		resp = env.MakeRequest(t, http.MethodGet, "/teams/"+userTeam.ID, nil, admin.Token)
		resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		memberBody, _ := json.Marshal(map[string]string{"userId": admin.ID})
		resp = env.MakeRequest(t, http.MethodPost, "/teams/"+userTeam.ID+"/members", bytes.NewReader(memberBody), admin.Token)
		resp.Body.Close()
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)

		resp = env.MakeRequest(t, http.MethodDelete, "/teams/"+userTeam.ID, nil, admin.Token)
		resp.Body.Close()
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})
}

// TestTaskListQuery проверяет фильтрацию, сортировку и пагинацию списка задач
func TestTaskListQuery(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	env := SetupTestEnvironment(t)
	defer env.Cleanup(t)
	env.WaitForHealthCheck(t)

	user := register(t, env, "worker", "worker@example.com")

	// 7 завершенных и 5 открытых задач
	for i := 0; i < 7; i++ {
		createTask(t, env, user.Token, fmt.Sprintf("Done task %d", i), user.ID, map[string]any{
			"status": "done",
		})
	}
	for i := 0; i < 5; i++ {
		createTask(t, env, user.Token, fmt.Sprintf("Open task %d", i), user.ID, nil)
	}

	t.Run("Filtered First Page", func(t *testing.T) {
		resp := env.MakeRequest(t, http.MethodGet, "/tasks?status=done&sort=-createdAt&page=1&limit=5", nil, user.Token)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var list TaskListResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&list))

		assert.Equal(t, 5, list.Count)
		assert.Equal(t, 1, list.Page)
		assert.Equal(t, 2, list.TotalPages)
		assert.Equal(t, 7, list.TotalTasks)
		require.Len(t, list.Tasks, 5)

		for _, task := range list.Tasks {
			assert.Equal(t, "done", task.Status)
		}
		for i := 1; i < len(list.Tasks); i++ {
			assert.False(t, list.Tasks[i].CreatedAt.After(list.Tasks[i-1].CreatedAt),
				"Tasks should be ordered by createdAt descending")
		}
	})

	t.Run("Last Page Is Partial", func(t *testing.T) {
		resp := env.MakeRequest(t, http.MethodGet, "/tasks?status=done&page=2&limit=5", nil, user.Token)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var list TaskListResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&list))
		assert.Equal(t, 2, list.Count)
		assert.Equal(t, 2, list.Page)
	})

	t.Run("Defaults Applied", func(t *testing.T) {
		resp := env.MakeRequest(t, http.MethodGet, "/tasks", nil, user.Token)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var list TaskListResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&list))
		assert.Equal(t, 10, list.Count)
		assert.Equal(t, 12, list.TotalTasks)
		assert.Equal(t, 2, list.TotalPages)
	})

	t.Run("Injection Keys Are Stripped", func(t *testing.T) {
		resp := env.MakeRequest(t, http.MethodGet, "/tasks?status=done&$where=1&a.b=c", nil, user.Token)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var list TaskListResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&list))
		assert.Equal(t, 7, list.TotalTasks)
	})
}

// TestAuthValidation проверяет регистрацию, вход и ошибки валидации
func TestAuthValidation(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	env := SetupTestEnvironment(t)
	defer env.Cleanup(t)
	env.WaitForHealthCheck(t)

	register(t, env, "dave", "dave@example.com")

	t.Run("Duplicate Email Rejected", func(t *testing.T) {
		body, _ := json.Marshal(map[string]string{
			"username": "dave2",
			"email":    "dave@example.com",
			"password": "secret123",
		})

		resp := env.MakeRequest(t, http.MethodPost, "/auth/register", bytes.NewReader(body), "")
		defer resp.Body.Close()
		require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

		errResp := decodeError(t, resp)
		assert.Equal(t, "VALIDATION_ERROR", errResp.Error.Code)
		assert.Contains(t, errResp.Error.Fields, "email")
	})

	t.Run("Malformed Registration Rejected", func(t *testing.T) {
		body, _ := json.Marshal(map[string]string{
			"username": "ab",
			"email":    "not-an-email",
			"password": "123",
		})

		resp := env.MakeRequest(t, http.MethodPost, "/auth/register", bytes.NewReader(body), "")
		defer resp.Body.Close()
		require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

		errResp := decodeError(t, resp)
		assert.Len(t, errResp.Error.Fields, 3)
	})

	t.Run("Wrong Password Rejected", func(t *testing.T) {
		body, _ := json.Marshal(map[string]string{
			"email":    "dave@example.com",
			"password": "wrong-password",
		})

		resp := env.MakeRequest(t, http.MethodPost, "/auth/login", bytes.NewReader(body), "")
		defer resp.Body.Close()
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		assert.Equal(t, "INVALID_CREDENTIALS", decodeError(t, resp).Error.Code)
	})

	t.Run("Login Round Trip", func(t *testing.T) {
		body, _ := json.Marshal(map[string]string{
			"email":    "dave@example.com",
			"password": "secret123",
		})

		resp := env.MakeRequest(t, http.MethodPost, "/auth/login", bytes.NewReader(body), "")
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var auth AuthResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&auth))
		require.NotEmpty(t, auth.Token)

		// Полученный токен дает доступ к защищенным эндпоинтам
		listResp := env.MakeRequest(t, http.MethodGet, "/tasks", nil, auth.Token)
		defer listResp.Body.Close()
		assert.Equal(t, http.StatusOK, listResp.StatusCode)
	})

	t.Run("Task Validation Errors", func(t *testing.T) {
		auth := register(t, env, "erin", "erin@example.com")

		body, _ := json.Marshal(map[string]string{
			"title":      "ok title",
			"assignedTo": "not-a-uuid",
		})
		resp := env.MakeRequest(t, http.MethodPost, "/tasks", bytes.NewReader(body), auth.Token)
		defer resp.Body.Close()
		require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
		assert.Contains(t, decodeError(t, resp).Error.Fields, "assignedTo")
	})

	t.Run("Missing Task Returns 404", func(t *testing.T) {
		auth := register(t, env, "frank", "frank@example.com")

		resp := env.MakeRequest(t, http.MethodDelete, "/tasks/00000000-0000-0000-0000-000000000000", nil, auth.Token)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}
