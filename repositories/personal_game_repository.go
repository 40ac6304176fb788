package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/hooplab/courtside/models"
	"github.com/lib/pq"
)

var (
	ErrPersonalGameNotFound      = errors.New("personal game not found")
	ErrPersonalGamePlayerInvalid = errors.New("personal game references an unknown player")
)

type PersonalGameRepository interface {
	Create(ctx context.Context, game *models.PersonalGame) error
	GetByID(ctx context.Context, id int) (*models.PersonalGame, error)
	Update(ctx context.Context, game *models.PersonalGame) error
	Delete(ctx context.Context, id int) error
	ListByPlayer(ctx context.Context, playerID int, publicOnly bool) ([]models.PersonalGame, error)
	CountByPlayerOnDate(ctx context.Context, playerID int, day time.Time) (int, error)
}

type postgresPersonalGameRepository struct {
	db *sql.DB
}

func NewPostgresPersonalGameRepository(db *sql.DB) PersonalGameRepository {
	return &postgresPersonalGameRepository{db: db}
}

const personalGameColumns = `id, player_id, game_date, location, opponent,
	points, rebounds, assists, steals, blocks, turnovers, fouls,
	fg_made, fg_attempted, three_pt_made, three_pt_attempted, ft_made, ft_attempted,
	is_public, notes, created_at, updated_at`

func (r *postgresPersonalGameRepository) Create(ctx context.Context, game *models.PersonalGame) error {
	query := `
		INSERT INTO personal_games
		    (player_id, game_date, location, opponent,
		     points, rebounds, assists, steals, blocks, turnovers, fouls,
		     fg_made, fg_attempted, three_pt_made, three_pt_attempted, ft_made, ft_attempted,
		     is_public, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
		RETURNING id, created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query,
		game.PlayerID, game.GameDate, game.Location, game.Opponent,
		game.Points, game.Rebounds, game.Assists, game.Steals, game.Blocks, game.Turnovers, game.Fouls,
		game.FieldGoalsMade, game.FieldGoalsAttempted, game.ThreePointersMade, game.ThreePointersAttempted,
		game.FreeThrowsMade, game.FreeThrowsAttempted,
		game.IsPublic, game.Notes,
	).Scan(&game.ID, &game.CreatedAt, &game.UpdatedAt)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
			return ErrPersonalGamePlayerInvalid
		}
		return err
	}
	return nil
}

func (r *postgresPersonalGameRepository) scanPersonalGame(rowScanner interface{ Scan(...interface{}) error }) (*models.PersonalGame, error) {
	var g models.PersonalGame
	err := rowScanner.Scan(
		&g.ID, &g.PlayerID, &g.GameDate, &g.Location, &g.Opponent,
		&g.Points, &g.Rebounds, &g.Assists, &g.Steals, &g.Blocks, &g.Turnovers, &g.Fouls,
		&g.FieldGoalsMade, &g.FieldGoalsAttempted, &g.ThreePointersMade, &g.ThreePointersAttempted,
		&g.FreeThrowsMade, &g.FreeThrowsAttempted,
		&g.IsPublic, &g.Notes, &g.CreatedAt, &g.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPersonalGameNotFound
		}
		return nil, err
	}
	return &g, nil
}

func (r *postgresPersonalGameRepository) GetByID(ctx context.Context, id int) (*models.PersonalGame, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+personalGameColumns+` FROM personal_games WHERE id = $1`, id)
	return r.scanPersonalGame(row)
}

func (r *postgresPersonalGameRepository) Update(ctx context.Context, game *models.PersonalGame) error {
	query := `
		UPDATE personal_games SET
			game_date = $1, location = $2, opponent = $3,
			points = $4, rebounds = $5, assists = $6, steals = $7, blocks = $8, turnovers = $9, fouls = $10,
			fg_made = $11, fg_attempted = $12, three_pt_made = $13, three_pt_attempted = $14,
			ft_made = $15, ft_attempted = $16,
			is_public = $17, notes = $18, updated_at = NOW()
		WHERE id = $19`

	result, err := r.db.ExecContext(ctx, query,
		game.GameDate, game.Location, game.Opponent,
		game.Points, game.Rebounds, game.Assists, game.Steals, game.Blocks, game.Turnovers, game.Fouls,
		game.FieldGoalsMade, game.FieldGoalsAttempted, game.ThreePointersMade, game.ThreePointersAttempted,
		game.FreeThrowsMade, game.FreeThrowsAttempted,
		game.IsPublic, game.Notes,
		game.ID,
	)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrPersonalGameNotFound)
}

func (r *postgresPersonalGameRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM personal_games WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrPersonalGameNotFound)
}

func (r *postgresPersonalGameRepository) ListByPlayer(ctx context.Context, playerID int, publicOnly bool) ([]models.PersonalGame, error) {
	query := `SELECT ` + personalGameColumns + ` FROM personal_games WHERE player_id = $1`
	if publicOnly {
		query += ` AND is_public = TRUE`
	}
	query += ` ORDER BY game_date DESC, id DESC`

	rows, err := r.db.QueryContext(ctx, query, playerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	games := make([]models.PersonalGame, 0)
	for rows.Next() {
		g, errScan := r.scanPersonalGame(rows)
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

// CountByPlayerOnDate backs the daily creation cap. It is a plain read with
// no locking; the authoritative cap lives in a database constraint trigger.
func (r *postgresPersonalGameRepository) CountByPlayerOnDate(ctx context.Context, playerID int, day time.Time) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM personal_games
		WHERE player_id = $1 AND created_at >= $2 AND created_at < $3`

	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	end := start.AddDate(0, 0, 1)

	var count int
	if err := r.db.QueryRowContext(ctx, query, playerID, start, end).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}
