package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/hooplab/courtside/models"
	"github.com/lib/pq"
)

var (
	ErrStatEventGameInvalid   = errors.New("stat event references an unknown game")
	ErrStatEventPlayerInvalid = errors.New("stat event references an unknown player")
)

// StatEventRepository reads and appends raw stat events. Events are
// append-only; there is no update path.
type StatEventRepository interface {
	Create(ctx context.Context, event *models.StatEvent) error
	ListByGame(ctx context.Context, gameID int) ([]models.StatEvent, error)
}

type postgresStatEventRepository struct {
	db *sql.DB
}

func NewPostgresStatEventRepository(db *sql.DB) StatEventRepository {
	return &postgresStatEventRepository{db: db}
}

func (r *postgresStatEventRepository) Create(ctx context.Context, event *models.StatEvent) error {
	query := `
		INSERT INTO stat_events (game_id, player_id, custom_player_id, team_id, stat_type, modifier, value, quarter)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		event.GameID,
		event.PlayerID,
		event.CustomPlayerID,
		event.TeamID,
		event.Type,
		event.Modifier,
		event.Value,
		event.Quarter,
	).Scan(&event.ID, &event.CreatedAt)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
			switch pqErr.Constraint {
			case "stat_events_game_id_fkey":
				return ErrStatEventGameInvalid
			case "stat_events_player_id_fkey", "stat_events_custom_player_id_fkey":
				return ErrStatEventPlayerInvalid
			}
		}
		return err
	}
	return nil
}

// ListByGame fetches one game's events. Callers fan this out per game id
// instead of issuing one unbounded query so the backing store's row cap
// never truncates a tournament-wide read.
func (r *postgresStatEventRepository) ListByGame(ctx context.Context, gameID int) ([]models.StatEvent, error) {
	query := `
		SELECT id, game_id, player_id, custom_player_id, team_id, stat_type, modifier, value, quarter, created_at
		FROM stat_events
		WHERE game_id = $1
		ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query, gameID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := make([]models.StatEvent, 0)
	for rows.Next() {
		var ev models.StatEvent
		if err := rows.Scan(
			&ev.ID,
			&ev.GameID,
			&ev.PlayerID,
			&ev.CustomPlayerID,
			&ev.TeamID,
			&ev.Type,
			&ev.Modifier,
			&ev.Value,
			&ev.Quarter,
			&ev.CreatedAt,
		); err != nil {
			return nil, err
		}
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return events, nil
}
