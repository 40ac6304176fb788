package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/hooplab/courtside/models"
)

var (
	ErrPlayerNotFound       = errors.New("player not found")
	ErrCustomPlayerNotFound = errors.New("custom player not found")
)

// PlayerRepository covers both rostered players and coach-created custom
// players; the two live in separate tables but share the roster-entry shape.
type PlayerRepository interface {
	GetByID(ctx context.Context, id int) (*models.Player, error)
	GetByUserID(ctx context.Context, userID int) (*models.Player, error)
	GetCustomByID(ctx context.Context, id int) (*models.CustomPlayer, error)
	ListRosterByTournament(ctx context.Context, tournamentID int) ([]models.RosterEntry, error)
	UpdatePhotoKey(ctx context.Context, playerID int, photoKey *string) error
}

type postgresPlayerRepository struct {
	db *sql.DB
}

func NewPostgresPlayerRepository(db *sql.DB) PlayerRepository {
	return &postgresPlayerRepository{db: db}
}

const playerColumns = `id, user_id, team_id, first_name, last_name, number, photo_key, created_at`

func (r *postgresPlayerRepository) scanPlayer(rowScanner interface{ Scan(...interface{}) error }) (*models.Player, error) {
	var p models.Player
	err := rowScanner.Scan(
		&p.ID, &p.UserID, &p.TeamID, &p.FirstName, &p.LastName, &p.Number, &p.PhotoKey, &p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPlayerNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *postgresPlayerRepository) GetByID(ctx context.Context, id int) (*models.Player, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+playerColumns+` FROM players WHERE id = $1`, id)
	return r.scanPlayer(row)
}

func (r *postgresPlayerRepository) GetByUserID(ctx context.Context, userID int) (*models.Player, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+playerColumns+` FROM players WHERE user_id = $1`, userID)
	return r.scanPlayer(row)
}

func (r *postgresPlayerRepository) GetCustomByID(ctx context.Context, id int) (*models.CustomPlayer, error) {
	var p models.CustomPlayer
	err := r.db.QueryRowContext(ctx,
		`SELECT id, team_id, name, number, created_at FROM custom_players WHERE id = $1`, id,
	).Scan(&p.ID, &p.TeamID, &p.Name, &p.Number, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCustomPlayerNotFound
		}
		return nil, err
	}
	return &p, nil
}

// ListRosterByTournament flattens registered and custom players on the
// tournament's teams into one identity list for leaderboard resolution.
func (r *postgresPlayerRepository) ListRosterByTournament(ctx context.Context, tournamentID int) ([]models.RosterEntry, error) {
	query := `
		SELECT p.id, FALSE AS is_custom, TRIM(p.first_name || ' ' || p.last_name) AS name, p.team_id, p.photo_key
		FROM players p
		JOIN teams t ON p.team_id = t.id
		WHERE t.tournament_id = $1
		UNION ALL
		SELECT cp.id, TRUE AS is_custom, cp.name, cp.team_id, NULL
		FROM custom_players cp
		JOIN teams t ON cp.team_id = t.id
		WHERE t.tournament_id = $1`

	rows, err := r.db.QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]models.RosterEntry, 0)
	for rows.Next() {
		var entry models.RosterEntry
		var isCustom bool
		var id int
		if err := rows.Scan(&id, &isCustom, &entry.Name, &entry.TeamID, &entry.PhotoKey); err != nil {
			return nil, err
		}
		if isCustom {
			entry.Ref = models.CustomPlayerRef(id)
		} else {
			entry.Ref = models.RegularPlayerRef(id)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *postgresPlayerRepository) UpdatePhotoKey(ctx context.Context, playerID int, photoKey *string) error {
	result, err := r.db.ExecContext(ctx, `UPDATE players SET photo_key = $1 WHERE id = $2`, photoKey, playerID)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrPlayerNotFound)
}
