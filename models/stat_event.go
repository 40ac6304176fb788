package models

import "time"

type StatType string

const (
	StatFieldGoal    StatType = "field_goal"
	StatTwoPointer   StatType = "two_pointer"
	StatThreePointer StatType = "three_pointer"
	StatFreeThrow    StatType = "free_throw"
	StatRebound      StatType = "rebound"
	StatAssist       StatType = "assist"
	StatSteal        StatType = "steal"
	StatBlock        StatType = "block"
	StatTurnover     StatType = "turnover"
	StatFoul         StatType = "foul"
)

// IsShot reports whether events of this type carry a made/missed modifier.
func (t StatType) IsShot() bool {
	switch t {
	case StatFieldGoal, StatTwoPointer, StatThreePointer, StatFreeThrow:
		return true
	}
	return false
}

func (t StatType) Valid() bool {
	switch t {
	case StatFieldGoal, StatTwoPointer, StatThreePointer, StatFreeThrow,
		StatRebound, StatAssist, StatSteal, StatBlock, StatTurnover, StatFoul:
		return true
	}
	return false
}

type StatModifier string

const (
	ModifierMade      StatModifier = "made"
	ModifierMissed    StatModifier = "missed"
	ModifierOffensive StatModifier = "offensive"
	ModifierDefensive StatModifier = "defensive"
)

func (m StatModifier) Valid() bool {
	switch m {
	case ModifierMade, ModifierMissed, ModifierOffensive, ModifierDefensive:
		return true
	}
	return false
}

// StatEvent is one recorded in-game action. Events are immutable once
// created; corrections are new events, never updates.
type StatEvent struct {
	ID             int           `json:"id"`
	GameID         int           `json:"game_id"`
	PlayerID       *int          `json:"player_id,omitempty"`
	CustomPlayerID *int          `json:"custom_player_id,omitempty"`
	TeamID         int           `json:"team_id"`
	Type           StatType      `json:"stat_type"`
	Modifier       *StatModifier `json:"modifier,omitempty"`
	Value          int           `json:"value"`
	Quarter        int           `json:"quarter"`
	CreatedAt      time.Time     `json:"created_at"`
}

// Ref resolves the event's player identity. Exactly one of PlayerID and
// CustomPlayerID must be set; ok is false for malformed rows so callers can
// skip them instead of attributing stats to the wrong player.
func (e *StatEvent) Ref() (PlayerRef, bool) {
	switch {
	case e.PlayerID != nil && e.CustomPlayerID == nil:
		return RegularPlayerRef(*e.PlayerID), true
	case e.PlayerID == nil && e.CustomPlayerID != nil:
		return CustomPlayerRef(*e.CustomPlayerID), true
	}
	return PlayerRef{}, false
}

// Made reports whether the event is a made shot.
func (e *StatEvent) Made() bool {
	return e.Modifier != nil && *e.Modifier == ModifierMade
}

// Points returns the scoreboard value of the event (0 for misses and
// non-scoring stat types).
func (e *StatEvent) Points() int {
	if !e.Made() {
		return 0
	}
	switch e.Type {
	case StatThreePointer:
		return 3
	case StatFieldGoal, StatTwoPointer:
		return 2
	case StatFreeThrow:
		return 1
	}
	return 0
}
