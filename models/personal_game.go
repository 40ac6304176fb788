package models

import "time"

// PersonalGame is an informal, self-reported game owned by exactly one
// player. It is validated on the way in but never feeds tournament
// leaderboards.
type PersonalGame struct {
	ID       int       `json:"id"`
	PlayerID int       `json:"player_id"`
	GameDate time.Time `json:"game_date"`
	Location *string   `json:"location,omitempty"`
	Opponent *string   `json:"opponent,omitempty"`

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

	IsPublic  bool      `json:"is_public"`
	Notes     *string   `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PersonalGameStats are the derived shooting metrics shown next to a
// personal game.
type PersonalGameStats struct {
	FieldGoalPct          float64 `json:"fg_percentage"`
	ThreePointPct         float64 `json:"three_pt_percentage"`
	FreeThrowPct          float64 `json:"ft_percentage"`
	EffectiveFieldGoalPct float64 `json:"efg_percentage"`
	StatLine              string  `json:"stat_line"`
}
