package models

import "time"

// PlayerLeader is one row of a ranked leaderboard. It is recomputed on every
// query; Rank is positional and never persisted as identity.
type PlayerLeader struct {
	Player   PlayerRef `json:"player"`
	Name     string    `json:"name"`
	TeamID   int       `json:"team_id"`
	TeamName string    `json:"team_name,omitempty"`
	PhotoURL *string   `json:"photo_url,omitempty"`

	Rank        int `json:"rank"`
	GamesPlayed int `json:"games_played"`

	TotalPoints    int `json:"total_points"`
	TotalRebounds  int `json:"total_rebounds"`
	TotalAssists   int `json:"total_assists"`
	TotalSteals    int `json:"total_steals"`
	TotalBlocks    int `json:"total_blocks"`
	TotalTurnovers int `json:"total_turnovers"`
	TotalFouls     int `json:"total_fouls"`

	PointsPerGame    float64 `json:"points_per_game"`
	ReboundsPerGame  float64 `json:"rebounds_per_game"`
	AssistsPerGame   float64 `json:"assists_per_game"`
	StealsPerGame    float64 `json:"steals_per_game"`
	BlocksPerGame    float64 `json:"blocks_per_game"`
	TurnoversPerGame float64 `json:"turnovers_per_game"`
	FoulsPerGame     float64 `json:"fouls_per_game"`

	FieldGoalPct  float64 `json:"fg_percentage"`
	ThreePointPct float64 `json:"three_pt_percentage"`
	FreeThrowPct  float64 `json:"ft_percentage"`

	FieldGoalsMade         int `json:"fg_made"`
	FieldGoalsAttempted    int `json:"fg_attempted"`
	ThreePointersMade      int `json:"three_pt_made"`
	ThreePointersAttempted int `json:"three_pt_attempted"`
	FreeThrowsMade         int `json:"ft_made"`
	FreeThrowsAttempted    int `json:"ft_attempted"`
}

// PrecomputedLeader is one row of the materialized tournament_leaders table.
// It stores raw counters only; averages and percentages are derived at the
// read boundary so a stale precompute can never disagree with its own totals.
type PrecomputedLeader struct {
	ID           int       `json:"id"`
	TournamentID int       `json:"tournament_id"`
	Phase        GamePhase `json:"game_phase"`

	PlayerID       *int    `json:"player_id,omitempty"`
	CustomPlayerID *int    `json:"custom_player_id,omitempty"`
	Name           string  `json:"name"`
	TeamID         int     `json:"team_id"`
	TeamName       string  `json:"team_name"`
	PhotoKey       *string `json:"-"`

	GamesPlayed int `json:"games_played"`

	TotalPoints    int `json:"total_points"`
	TotalRebounds  int `json:"total_rebounds"`
	TotalAssists   int `json:"total_assists"`
	TotalSteals    int `json:"total_steals"`
	TotalBlocks    int `json:"total_blocks"`
	TotalTurnovers int `json:"total_turnovers"`
	TotalFouls     int `json:"total_fouls"`

	FieldGoalsMade         int `json:"fg_made"`
	FieldGoalsAttempted    int `json:"fg_attempted"`
	ThreePointersMade      int `json:"three_pt_made"`
	ThreePointersAttempted int `json:"three_pt_attempted"`
	FreeThrowsMade         int `json:"ft_made"`
	FreeThrowsAttempted    int `json:"ft_attempted"`

	RefreshedAt time.Time `json:"refreshed_at"`
}

// Ref resolves the row's player identity, mirroring StatEvent.Ref.
func (l *PrecomputedLeader) Ref() (PlayerRef, bool) {
	switch {
	case l.PlayerID != nil && l.CustomPlayerID == nil:
		return RegularPlayerRef(*l.PlayerID), true
	case l.PlayerID == nil && l.CustomPlayerID != nil:
		return CustomPlayerRef(*l.CustomPlayerID), true
	}
	return PlayerRef{}, false
}
