package models

import "time"

type GameStatus string

const (
	GameScheduled  GameStatus = "scheduled"
	GameInProgress GameStatus = "in_progress"
	GameCompleted  GameStatus = "completed"
	GameCancelled  GameStatus = "cancelled"
)

// GamePhase classifies a game within a tournament bracket. PhaseAll is a
// query value only, it never appears on a stored game row.
type GamePhase string

const (
	PhaseAll      GamePhase = "all"
	PhaseRegular  GamePhase = "regular"
	PhasePlayoffs GamePhase = "playoffs"
	PhaseFinals   GamePhase = "finals"
)

func (p GamePhase) Valid() bool {
	switch p {
	case PhaseAll, PhaseRegular, PhasePlayoffs, PhaseFinals:
		return true
	}
	return false
}

type Game struct {
	ID           int        `json:"id"`
	TournamentID int        `json:"tournament_id"`
	TeamAID      int        `json:"team_a_id"`
	TeamBID      int        `json:"team_b_id"`
	Status       GameStatus `json:"status"`
	Phase        GamePhase  `json:"game_phase"`
	ScheduledAt  *time.Time `json:"scheduled_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}
