package service

import "github.com/taskhub/task-service/internal/domain"

// PermissionChecker implements the authorization rules for task and team
// mutations. All methods are pure decision functions over the actor and
// the freshly loaded entity state; callers must load the entity
// immediately before checking to avoid acting on stale state.
type PermissionChecker struct{}

// NewPermissionChecker creates a new PermissionChecker
func NewPermissionChecker() *PermissionChecker {
	return &PermissionChecker{}
}

// CanEditTask allows admins, the task creator (assignedBy) and the
// assignee (assignedTo) to modify a task
func (c *PermissionChecker) CanEditTask(actor *domain.User, task *domain.Task) bool {
	return actor.IsAdmin() ||
		actor.ID == task.AssignedByID ||
		actor.ID == task.AssignedToID
}

// CanDeleteTask allows admins and the task creator to delete a task.
// Stricter than editing: the assignee alone cannot delete.
func (c *PermissionChecker) CanDeleteTask(actor *domain.User, task *domain.Task) bool {
	return actor.IsAdmin() || actor.ID == task.AssignedByID
}

// CanViewTeam allows admins and team members to view a team
func (c *PermissionChecker) CanViewTeam(actor *domain.User, team *domain.Team) bool {
	return actor.IsAdmin() || team.HasMember(actor.ID)
}

// CanManageTeamMembership allows only the team leader to add or remove
// members. Admins get no override here, unlike task permissions.
func (c *PermissionChecker) CanManageTeamMembership(actor *domain.User, team *domain.Team) bool {
	return actor.ID == team.LeaderID
}

// CanDeleteTeam allows only the team leader to delete the team
func (c *PermissionChecker) CanDeleteTeam(actor *domain.User, team *domain.Team) bool {
	return actor.ID == team.LeaderID
}
