package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taskhub/task-service/internal/domain"
)

// TeamRepository реализует repository.TeamRepository для PostgreSQL
type TeamRepository struct {
	db *pgxpool.Pool
}

// NewTeamRepository создает новый экземпляр TeamRepository
func NewTeamRepository(db *pgxpool.Pool) *TeamRepository {
	return &TeamRepository{db: db}
}

// Create создает новую команду вместе с начальным составом участников
func (r *TeamRepository) Create(ctx context.Context, team *domain.Team) error {
	// Инвариант лидера проверяется на границе записи, не только при создании
	team.EnsureLeaderMembership()

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	query := `
		INSERT INTO teams (id, name, description, leader_id)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at, updated_at
	`

	err = tx.QueryRow(ctx, query,
		team.ID, team.Name, team.Description, team.LeaderID,
	).Scan(&team.CreatedAt, &team.UpdatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return domain.NewValidationError("name", "team name is already taken")
		}
		return err
	}

	if err := insertMembers(ctx, tx, team.ID, team.MemberIDs); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// GetByID получает команду по ID
func (r *TeamRepository) GetByID(ctx context.Context, teamID string) (*domain.Team, error) {
	query := `
		SELECT id, name, description, leader_id, created_at, updated_at
		FROM teams
		WHERE id = $1
	`

	var team domain.Team
	err := r.db.QueryRow(ctx, query, teamID).Scan(
		&team.ID,
		&team.Name,
		&team.Description,
		&team.LeaderID,
		&team.CreatedAt,
		&team.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTeamNotFound
		}
		return nil, err
	}

	memberQuery := `
		SELECT user_id FROM team_members
		WHERE team_id = $1
		ORDER BY user_id
	`

	rows, err := r.db.Query(ctx, memberQuery, teamID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var userID string
		if err := rows.Scan(&userID); err != nil {
			return nil, err
		}
		team.MemberIDs = append(team.MemberIDs, userID)
	}

	return &team, rows.Err()
}

// GetDetails получает команду с раскрытыми ссылками на лидера и участников
func (r *TeamRepository) GetDetails(ctx context.Context, teamID string) (*domain.TeamDetails, error) {
	query := `
		SELECT t.id, t.name, t.description, t.created_at, t.updated_at,
		       l.id, l.username, l.email
		FROM teams t
		JOIN users l ON l.id = t.leader_id
		WHERE t.id = $1
	`

	var details domain.TeamDetails
	err := r.db.QueryRow(ctx, query, teamID).Scan(
		&details.ID,
		&details.Name,
		&details.Description,
		&details.CreatedAt,
		&details.UpdatedAt,
		&details.Leader.ID,
		&details.Leader.Username,
		&details.Leader.Email,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTeamNotFound
		}
		return nil, err
	}

	members, err := r.memberRefs(ctx, teamID)
	if err != nil {
		return nil, err
	}
	details.Members = members

	return &details, nil
}

// ListByMember возвращает все команды, в которых состоит пользователь
func (r *TeamRepository) ListByMember(ctx context.Context, userID string) ([]*domain.TeamDetails, error) {
	query := `
		SELECT t.id
		FROM teams t
		JOIN team_members tm ON tm.team_id = t.id
		WHERE tm.user_id = $1
		ORDER BY t.created_at DESC
	`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var teamIDs []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		teamIDs = append(teamIDs, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	teams := make([]*domain.TeamDetails, 0, len(teamIDs))
	for _, id := range teamIDs {
		details, err := r.GetDetails(ctx, id)
		if err != nil {
			return nil, err
		}
		teams = append(teams, details)
	}

	return teams, nil
}

// ReplaceMembers перезаписывает состав участников команды
func (r *TeamRepository) ReplaceMembers(ctx context.Context, team *domain.Team) error {
	// Хук инварианта: лидер возвращается в состав, если его там нет
	team.EnsureLeaderMembership()

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	tag, err := tx.Exec(ctx, `UPDATE teams SET updated_at = NOW() WHERE id = $1`, team.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTeamNotFound
	}

	if _, err := tx.Exec(ctx, `DELETE FROM team_members WHERE team_id = $1`, team.ID); err != nil {
		return err
	}

	if err := insertMembers(ctx, tx, team.ID, team.MemberIDs); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// Delete удаляет команду. Ссылки задач на команду остаются как есть
// (каскадное удаление задач не выполняется намеренно).
func (r *TeamRepository) Delete(ctx context.Context, teamID string) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if _, err := tx.Exec(ctx, `DELETE FROM team_members WHERE team_id = $1`, teamID); err != nil {
		return err
	}

	tag, err := tx.Exec(ctx, `DELETE FROM teams WHERE id = $1`, teamID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTeamNotFound
	}

	return tx.Commit(ctx)
}

// memberRefs возвращает проекции всех участников команды
func (r *TeamRepository) memberRefs(ctx context.Context, teamID string) ([]domain.UserRef, error) {
	query := `
		SELECT u.id, u.username, u.email
		FROM team_members tm
		JOIN users u ON u.id = tm.user_id
		WHERE tm.team_id = $1
		ORDER BY u.username
	`

	rows, err := r.db.Query(ctx, query, teamID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []domain.UserRef
	for rows.Next() {
		var ref domain.UserRef
		if err := rows.Scan(&ref.ID, &ref.Username, &ref.Email); err != nil {
			return nil, err
		}
		members = append(members, ref)
	}

	return members, rows.Err()
}

// insertMembers добавляет строки состава команды в рамках транзакции
func insertMembers(ctx context.Context, tx pgx.Tx, teamID string, memberIDs []string) error {
	for _, userID := range memberIDs {
		_, err := tx.Exec(ctx,
			`INSERT INTO team_members (team_id, user_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
			teamID, userID,
		)
		if err != nil {
			return err
		}
	}
	return nil
}
