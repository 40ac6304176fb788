package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/hooplab/courtside/models"
)

var ErrTeamNotFound = errors.New("team not found")

type TeamRepository interface {
	GetByID(ctx context.Context, id int) (*models.Team, error)
	ListByTournament(ctx context.Context, tournamentID int) ([]models.Team, error)
}

type postgresTeamRepository struct {
	db *sql.DB
}

func NewPostgresTeamRepository(db *sql.DB) TeamRepository {
	return &postgresTeamRepository{db: db}
}

func (r *postgresTeamRepository) GetByID(ctx context.Context, id int) (*models.Team, error) {
	var t models.Team
	err := r.db.QueryRowContext(ctx,
		`SELECT id, tournament_id, name, logo_key, created_at FROM teams WHERE id = $1`, id,
	).Scan(&t.ID, &t.TournamentID, &t.Name, &t.LogoKey, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTeamNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (r *postgresTeamRepository) ListByTournament(ctx context.Context, tournamentID int) ([]models.Team, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, tournament_id, name, logo_key, created_at FROM teams WHERE tournament_id = $1 ORDER BY name`,
		tournamentID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	teams := make([]models.Team, 0)
	for rows.Next() {
		var t models.Team
		if err := rows.Scan(&t.ID, &t.TournamentID, &t.Name, &t.LogoKey, &t.CreatedAt); err != nil {
			return nil, err
		}
		teams = append(teams, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return teams, nil
}
