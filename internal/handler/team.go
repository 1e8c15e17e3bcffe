package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taskhub/task-service/internal/domain"
	"github.com/taskhub/task-service/internal/middleware"
	"github.com/taskhub/task-service/internal/service"
)

// TeamHandler обрабатывает эндпоинты команд
type TeamHandler struct {
	teamService *service.TeamService
}

// NewTeamHandler создает новый TeamHandler
func NewTeamHandler(teamService *service.TeamService) *TeamHandler {
	return &TeamHandler{
		teamService: teamService,
	}
}

// CreateTeamRequest представляет тело запроса на создание команды
type CreateTeamRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// AddMemberRequest представляет тело запроса на добавление участника
type AddMemberRequest struct {
	UserID string `json:"userId"`
}

// Create обрабатывает POST /teams
func (h *TeamHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetActorFromContext(r.Context())

	var req CreateTeamRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondWithError(w, r, http.StatusBadRequest, domain.CodeValidation, "invalid request body")
		return
	}

	team, err := h.teamService.Create(r.Context(), actor, req.Name, req.Description)
	if err != nil {
		HandleError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusCreated, team)
}

// List обрабатывает GET /teams — команды, в которых состоит пользователь
func (h *TeamHandler) List(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetActorFromContext(r.Context())

	teams, err := h.teamService.ListForActor(r.Context(), actor)
	if err != nil {
		HandleError(w, r, err)
		return
	}

	if teams == nil {
		teams = []*domain.TeamDetails{}
	}

	RespondWithJSON(w, r, http.StatusOK, teams)
}

// Get обрабатывает GET /teams/{id}
func (h *TeamHandler) Get(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetActorFromContext(r.Context())

	teamID, err := parseIDParam(chi.URLParam(r, "id"), "id")
	if err != nil {
		HandleError(w, r, err)
		return
	}

	team, err := h.teamService.Get(r.Context(), actor, teamID)
	if err != nil {
		HandleError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusOK, team)
}

// AddMember обрабатывает POST /teams/{id}/members
func (h *TeamHandler) AddMember(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetActorFromContext(r.Context())

	teamID, err := parseIDParam(chi.URLParam(r, "id"), "id")
	if err != nil {
		HandleError(w, r, err)
		return
	}

	var req AddMemberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondWithError(w, r, http.StatusBadRequest, domain.CodeValidation, "invalid request body")
		return
	}

	userID, err := parseIDParam(req.UserID, "userId")
	if err != nil {
		HandleError(w, r, err)
		return
	}

	team, err := h.teamService.AddMember(r.Context(), actor, teamID, userID)
	if err != nil {
		HandleError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusOK, team)
}

// RemoveMember обрабатывает DELETE /teams/{id}/members/{memberId}
func (h *TeamHandler) RemoveMember(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetActorFromContext(r.Context())

	teamID, err := parseIDParam(chi.URLParam(r, "id"), "id")
	if err != nil {
		HandleError(w, r, err)
		return
	}

	memberID, err := parseIDParam(chi.URLParam(r, "memberId"), "memberId")
	if err != nil {
		HandleError(w, r, err)
		return
	}

	team, err := h.teamService.RemoveMember(r.Context(), actor, teamID, memberID)
	if err != nil {
		HandleError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusOK, team)
}

// Delete обрабатывает DELETE /teams/{id}
func (h *TeamHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetActorFromContext(r.Context())

	teamID, err := parseIDParam(chi.URLParam(r, "id"), "id")
	if err != nil {
		HandleError(w, r, err)
		return
	}

	if err := h.teamService.Delete(r.Context(), actor, teamID); err != nil {
		HandleError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusOK, DeleteResponse{
		ID:      teamID,
		Message: "team deleted",
	})
}
