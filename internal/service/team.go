package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/taskhub/task-service/internal/domain"
	"github.com/taskhub/task-service/internal/repository"
)

const (
	maxTeamNameLength = 50
	maxTeamDescLength = 200
)

// TeamService handles business logic for teams
type TeamService struct {
	teamRepo    repository.TeamRepository
	userRepo    repository.UserRepository
	permissions *PermissionChecker
}

// NewTeamService creates a new TeamService
func NewTeamService(
	teamRepo repository.TeamRepository,
	userRepo repository.UserRepository,
	permissions *PermissionChecker,
) *TeamService {
	return &TeamService{
		teamRepo:    teamRepo,
		userRepo:    userRepo,
		permissions: permissions,
	}
}

// Create creates a team; the creator becomes leader and sole member
func (s *TeamService) Create(ctx context.Context, actor *domain.User, name, description string) (*domain.TeamDetails, error) {
	name = strings.TrimSpace(name)
	description = strings.TrimSpace(description)

	verr := &domain.ValidationError{}
	if name == "" {
		verr.Add("name", "team name is required")
	} else if len(name) > maxTeamNameLength {
		verr.Add("name", fmt.Sprintf("team name cannot exceed %d characters", maxTeamNameLength))
	}
	if len(description) > maxTeamDescLength {
		verr.Add("description", fmt.Sprintf("description cannot exceed %d characters", maxTeamDescLength))
	}
	if !verr.Empty() {
		return nil, verr
	}

	team := &domain.Team{
		ID:          uuid.NewString(),
		Name:        name,
		Description: description,
		LeaderID:    actor.ID,
		MemberIDs:   []string{actor.ID},
	}

	if err := s.teamRepo.Create(ctx, team); err != nil {
		return nil, err
	}

	return s.teamRepo.GetDetails(ctx, team.ID)
}

// ListForActor returns every team the actor is a member of
func (s *TeamService) ListForActor(ctx context.Context, actor *domain.User) ([]*domain.TeamDetails, error) {
	return s.teamRepo.ListByMember(ctx, actor.ID)
}

// Get returns a team the actor is allowed to view
func (s *TeamService) Get(ctx context.Context, actor *domain.User, teamID string) (*domain.TeamDetails, error) {
	team, err := s.teamRepo.GetByID(ctx, teamID)
	if err != nil {
		return nil, err
	}

	if !s.permissions.CanViewTeam(actor, team) {
		return nil, domain.ErrForbidden
	}

	return s.teamRepo.GetDetails(ctx, teamID)
}

// AddMember adds a user to a team. Only the leader may manage
// membership; adding a present member or a missing user fails.
func (s *TeamService) AddMember(ctx context.Context, actor *domain.User, teamID, userID string) (*domain.TeamDetails, error) {
	team, err := s.teamRepo.GetByID(ctx, teamID)
	if err != nil {
		return nil, err
	}

	if !s.permissions.CanManageTeamMembership(actor, team) {
		return nil, domain.ErrForbidden
	}

	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}

	if team.HasMember(userID) {
		return nil, domain.ErrAlreadyMember
	}

	team.MemberIDs = append(team.MemberIDs, userID)

	if err := s.teamRepo.ReplaceMembers(ctx, team); err != nil {
		return nil, err
	}

	return s.teamRepo.GetDetails(ctx, teamID)
}

// RemoveMember removes a user from a team. The leader can only leave by
// deleting the team, never through membership edits. Removing a user who
// is not a member is a no-op.
func (s *TeamService) RemoveMember(ctx context.Context, actor *domain.User, teamID, memberID string) (*domain.TeamDetails, error) {
	team, err := s.teamRepo.GetByID(ctx, teamID)
	if err != nil {
		return nil, err
	}

	if !s.permissions.CanManageTeamMembership(actor, team) {
		return nil, domain.ErrForbidden
	}

	if team.LeaderID == memberID {
		return nil, domain.ErrLeaderRemoval
	}

	if team.HasMember(memberID) {
		kept := make([]string, 0, len(team.MemberIDs)-1)
		for _, id := range team.MemberIDs {
			if id != memberID {
				kept = append(kept, id)
			}
		}
		team.MemberIDs = kept

		if err := s.teamRepo.ReplaceMembers(ctx, team); err != nil {
			return nil, err
		}
	}

	return s.teamRepo.GetDetails(ctx, teamID)
}

// Delete removes a team. Tasks referencing the team keep their dangling
// reference; there is deliberately no cascade.
func (s *TeamService) Delete(ctx context.Context, actor *domain.User, teamID string) error {
	team, err := s.teamRepo.GetByID(ctx, teamID)
	if err != nil {
		return err
	}

	if !s.permissions.CanDeleteTeam(actor, team) {
		return domain.ErrForbidden
	}

	return s.teamRepo.Delete(ctx, teamID)
}
