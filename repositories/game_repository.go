package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/hooplab/courtside/models"
)

var ErrGameNotFound = errors.New("game not found")

type GameRepository interface {
	GetByID(ctx context.Context, id int) (*models.Game, error)
	ListByTournament(ctx context.Context, tournamentID int, phase models.GamePhase) ([]models.Game, error)
	ListByTeam(ctx context.Context, teamID int) ([]models.Game, error)
}

type postgresGameRepository struct {
	db *sql.DB
}

func NewPostgresGameRepository(db *sql.DB) GameRepository {
	return &postgresGameRepository{db: db}
}

const gameColumns = `id, tournament_id, team_a_id, team_b_id, status, game_phase, scheduled_at, created_at`

func (r *postgresGameRepository) scanGame(rowScanner interface{ Scan(...interface{}) error }) (*models.Game, error) {
	var g models.Game
	err := rowScanner.Scan(
		&g.ID, &g.TournamentID, &g.TeamAID, &g.TeamBID,
		&g.Status, &g.Phase, &g.ScheduledAt, &g.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrGameNotFound
		}
		return nil, err
	}
	return &g, nil
}

func (r *postgresGameRepository) GetByID(ctx context.Context, id int) (*models.Game, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+gameColumns+` FROM games WHERE id = $1`, id)
	return r.scanGame(row)
}

// ListByTournament returns the tournament's games, narrowed to a phase unless
// the caller asks for PhaseAll. Phase narrowing happens here, before any
// aggregation: switching phase swaps the whole input dataset.
func (r *postgresGameRepository) ListByTournament(ctx context.Context, tournamentID int, phase models.GamePhase) ([]models.Game, error) {
	query := `SELECT ` + gameColumns + ` FROM games WHERE tournament_id = $1`
	args := []interface{}{tournamentID}
	if phase != models.PhaseAll {
		query += ` AND game_phase = $2`
		args = append(args, phase)
	}
	query += ` ORDER BY id`

	return r.listGames(ctx, query, args...)
}

func (r *postgresGameRepository) ListByTeam(ctx context.Context, teamID int) ([]models.Game, error) {
	query := `SELECT ` + gameColumns + ` FROM games WHERE team_a_id = $1 OR team_b_id = $1 ORDER BY created_at`
	return r.listGames(ctx, query, teamID)
}

func (r *postgresGameRepository) listGames(ctx context.Context, query string, args ...interface{}) ([]models.Game, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	games := make([]models.Game, 0)
	for rows.Next() {
		g, errScan := r.scanGame(rows)
		if errScan != nil {
			return nil, errScan
		}
		games = append(games, *g)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return games, nil
}
