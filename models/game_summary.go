package models

import "time"

type GameResult string

const (
	ResultWin          GameResult = "W"
	ResultLoss         GameResult = "L"
	ResultLive         GameResult = "LIVE"
	ResultNotAvailable GameResult = "N/A"
)

// GameStatsSummary is one player's box score for a single game, combined with
// the game outcome from that player's perspective. The score is always
// recomputed from made scoring events, never read from stored score columns.
type GameStatsSummary struct {
	GameID     int        `json:"game_id"`
	GameDate   *time.Time `json:"game_date,omitempty"`
	Phase      GamePhase  `json:"game_phase"`
	Opponent   string     `json:"opponent"`
	Result     GameResult `json:"result"`
	FinalScore string     `json:"final_score"`

	Points    int `json:"points"`
	Rebounds  int `json:"rebounds"`
	Assists   int `json:"assists"`
	Steals    int `json:"steals"`
	Blocks    int `json:"blocks"`
	Turnovers int `json:"turnovers"`
	Fouls     int `json:"fouls"`

	FieldGoalsMade         int `json:"fg_made"`
	FieldGoalsAttempted    int `json:"fg_attempted"`
	ThreePointersMade      int `json:"three_pt_made"`
	ThreePointersAttempted int `json:"three_pt_attempted"`
	FreeThrowsMade         int `json:"ft_made"`
	FreeThrowsAttempted    int `json:"ft_attempted"`

	FieldGoalPct  float64 `json:"fg_percentage"`
	ThreePointPct float64 `json:"three_pt_percentage"`
	FreeThrowPct  float64 `json:"ft_percentage"`
}
