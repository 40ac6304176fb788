package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/hooplab/courtside/models"
)

// PrecomputedLeaderRepository is the fast-path side of the leaderboard read.
// An empty result set for a (tournament, phase) pair is the normal fallback
// signal, never an error.
type PrecomputedLeaderRepository interface {
	ListByTournamentAndPhase(ctx context.Context, tournamentID int, phase models.GamePhase) ([]models.PrecomputedLeader, error)
	ReplaceForTournamentAndPhase(ctx context.Context, tournamentID int, phase models.GamePhase, rows []models.PrecomputedLeader) error
}

type postgresPrecomputedLeaderRepository struct {
	db *sql.DB
}

func NewPostgresPrecomputedLeaderRepository(db *sql.DB) PrecomputedLeaderRepository {
	return &postgresPrecomputedLeaderRepository{db: db}
}

func (r *postgresPrecomputedLeaderRepository) ListByTournamentAndPhase(ctx context.Context, tournamentID int, phase models.GamePhase) ([]models.PrecomputedLeader, error) {
	query := `
		SELECT id, tournament_id, game_phase, player_id, custom_player_id, name, team_id, team_name, photo_key,
		       games_played, total_points, total_rebounds, total_assists, total_steals, total_blocks,
		       total_turnovers, total_fouls, fg_made, fg_attempted, three_pt_made, three_pt_attempted,
		       ft_made, ft_attempted, refreshed_at
		FROM tournament_leaders
		WHERE tournament_id = $1 AND game_phase = $2`

	rows, err := r.db.QueryContext(ctx, query, tournamentID, phase)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	leaders := make([]models.PrecomputedLeader, 0)
	for rows.Next() {
		var l models.PrecomputedLeader
		if err := rows.Scan(
			&l.ID, &l.TournamentID, &l.Phase, &l.PlayerID, &l.CustomPlayerID, &l.Name, &l.TeamID, &l.TeamName, &l.PhotoKey,
			&l.GamesPlayed, &l.TotalPoints, &l.TotalRebounds, &l.TotalAssists, &l.TotalSteals, &l.TotalBlocks,
			&l.TotalTurnovers, &l.TotalFouls, &l.FieldGoalsMade, &l.FieldGoalsAttempted, &l.ThreePointersMade,
			&l.ThreePointersAttempted, &l.FreeThrowsMade, &l.FreeThrowsAttempted, &l.RefreshedAt,
		); err != nil {
			return nil, err
		}
		leaders = append(leaders, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return leaders, nil
}

// ReplaceForTournamentAndPhase swaps the materialized rows for one
// (tournament, phase) pair in a single transaction, so readers never observe
// a half-refreshed leaderboard.
func (r *postgresPrecomputedLeaderRepository) ReplaceForTournamentAndPhase(ctx context.Context, tournamentID int, phase models.GamePhase, leaders []models.PrecomputedLeader) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("replace leaders: begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM tournament_leaders WHERE tournament_id = $1 AND game_phase = $2`,
		tournamentID, phase,
	); err != nil {
		return fmt.Errorf("replace leaders: delete stale rows: %w", err)
	}

	if err := insertLeaderRows(ctx, tx, tournamentID, phase, leaders); err != nil {
		return err
	}

	return tx.Commit()
}

func insertLeaderRows(ctx context.Context, exec SQLExecutor, tournamentID int, phase models.GamePhase, leaders []models.PrecomputedLeader) error {
	query := `
		INSERT INTO tournament_leaders
		    (tournament_id, game_phase, player_id, custom_player_id, name, team_id, team_name, photo_key,
		     games_played, total_points, total_rebounds, total_assists, total_steals, total_blocks,
		     total_turnovers, total_fouls, fg_made, fg_attempted, three_pt_made, three_pt_attempted,
		     ft_made, ft_attempted, refreshed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23)`

	now := time.Now()
	for i := range leaders {
		l := &leaders[i]
		if l.RefreshedAt.IsZero() {
			l.RefreshedAt = now
		}
		if _, err := exec.ExecContext(ctx, query,
			tournamentID, phase, l.PlayerID, l.CustomPlayerID, l.Name, l.TeamID, l.TeamName, l.PhotoKey,
			l.GamesPlayed, l.TotalPoints, l.TotalRebounds, l.TotalAssists, l.TotalSteals, l.TotalBlocks,
			l.TotalTurnovers, l.TotalFouls, l.FieldGoalsMade, l.FieldGoalsAttempted, l.ThreePointersMade,
			l.ThreePointersAttempted, l.FreeThrowsMade, l.FreeThrowsAttempted, l.RefreshedAt,
		); err != nil {
			return fmt.Errorf("replace leaders: insert row for %q: %w", l.Name, err)
		}
	}
	return nil
}
