// Package boxscore folds raw stat events into cumulative box-score totals
// and ranks the result. It performs no I/O and holds no state between calls,
// so it is safe under any number of concurrent callers.
package boxscore

import (
	"math"

	"github.com/hooplab/courtside/models"
)

// PlayerTotals is the cumulative line for one player across a set of events.
type PlayerTotals struct {
	Player models.PlayerRef

	Points    int
	Rebounds  int
	Assists   int
	Steals    int
	Blocks    int
	Turnovers int
	Fouls     int

	FieldGoalsMade         int
	FieldGoalsAttempted    int
	ThreePointersMade      int
	ThreePointersAttempted int
	FreeThrowsMade         int
	FreeThrowsAttempted    int

	games map[int]struct{}
}

func newPlayerTotals(ref models.PlayerRef) *PlayerTotals {
	return &PlayerTotals{Player: ref, games: make(map[int]struct{})}
}

// GamesPlayed is the count of distinct games the player recorded at least one
// event in. There is no separate attendance record: a player who suits up but
// never touches the stat sheet has not "played" under this model.
func (t *PlayerTotals) GamesPlayed() int {
	return len(t.games)
}

// AddEvent folds one event into the running totals.
//
// Scoring: a made field goal or two-pointer is worth 2, a made three-pointer
// 3, a made free throw 1. A made three-pointer also increments the generic
// field-goal made/attempted counters, since a three is a special case of a
// field goal and FG% is wrong without the double count.
func (t *PlayerTotals) AddEvent(ev models.StatEvent) {
	t.games[ev.GameID] = struct{}{}

	if ev.Type.IsShot() {
		made := ev.Made()
		switch ev.Type {
		case models.StatFieldGoal, models.StatTwoPointer:
			t.FieldGoalsAttempted++
			if made {
				t.FieldGoalsMade++
				t.Points += 2
			}
		case models.StatThreePointer:
			t.ThreePointersAttempted++
			t.FieldGoalsAttempted++
			if made {
				t.ThreePointersMade++
				t.FieldGoalsMade++
				t.Points += 3
			}
		case models.StatFreeThrow:
			t.FreeThrowsAttempted++
			if made {
				t.FreeThrowsMade++
				t.Points++
			}
		}
		return
	}

	value := ev.Value
	if value == 0 {
		value = 1
	}
	switch ev.Type {
	case models.StatRebound:
		t.Rebounds += value
	case models.StatAssist:
		t.Assists += value
	case models.StatSteal:
		t.Steals += value
	case models.StatBlock:
		t.Blocks += value
	case models.StatTurnover:
		t.Turnovers += value
	case models.StatFoul:
		t.Fouls += value
	}
}

// Aggregate groups events by resolved player identity and returns one totals
// line per player, in first-appearance order. Events with a malformed
// identity (both or neither id set) are skipped.
func Aggregate(events []models.StatEvent) []*PlayerTotals {
	byPlayer := make(map[models.PlayerRef]*PlayerTotals)
	order := make([]models.PlayerRef, 0)

	for _, ev := range events {
		ref, ok := ev.Ref()
		if !ok {
			continue
		}
		totals, exists := byPlayer[ref]
		if !exists {
			totals = newPlayerTotals(ref)
			byPlayer[ref] = totals
			order = append(order, ref)
		}
		totals.AddEvent(ev)
	}

	result := make([]*PlayerTotals, 0, len(order))
	for _, ref := range order {
		result = append(result, byPlayer[ref])
	}
	return result
}

// Percentage returns made/attempted as a percentage rounded to one decimal,
// or 0 when attempted is 0. Scale-round-unscale keeps the displayed value
// free of float artifacts (66.7, not 66.66666666666667).
func Percentage(made, attempted int) float64 {
	if attempted <= 0 {
		return 0
	}
	return math.Round(float64(made)/float64(attempted)*1000) / 10
}

// PerGame returns total/games rounded to one decimal, or 0 when games is 0.
func PerGame(total, games int) float64 {
	if games <= 0 {
		return 0
	}
	return math.Round(float64(total)/float64(games)*10) / 10
}

// Leader expands totals into the derived leaderboard shape. Identity fields
// beyond the player ref (name, team, photo) are the caller's to fill.
func (t *PlayerTotals) Leader() models.PlayerLeader {
	return t.LeaderWithGames(t.GamesPlayed())
}

// LeaderWithGames is Leader for callers that carry an explicit games-played
// count instead of an event-derived game set, such as rows read back from a
// materialized table.
func (t *PlayerTotals) LeaderWithGames(games int) models.PlayerLeader {
	return models.PlayerLeader{
		Player:      t.Player,
		GamesPlayed: games,

		TotalPoints:    t.Points,
		TotalRebounds:  t.Rebounds,
		TotalAssists:   t.Assists,
		TotalSteals:    t.Steals,
		TotalBlocks:    t.Blocks,
		TotalTurnovers: t.Turnovers,
		TotalFouls:     t.Fouls,

		PointsPerGame:    PerGame(t.Points, games),
		ReboundsPerGame:  PerGame(t.Rebounds, games),
		AssistsPerGame:   PerGame(t.Assists, games),
		StealsPerGame:    PerGame(t.Steals, games),
		BlocksPerGame:    PerGame(t.Blocks, games),
		TurnoversPerGame: PerGame(t.Turnovers, games),
		FoulsPerGame:     PerGame(t.Fouls, games),

		FieldGoalPct:  Percentage(t.FieldGoalsMade, t.FieldGoalsAttempted),
		ThreePointPct: Percentage(t.ThreePointersMade, t.ThreePointersAttempted),
		FreeThrowPct:  Percentage(t.FreeThrowsMade, t.FreeThrowsAttempted),

		FieldGoalsMade:         t.FieldGoalsMade,
		FieldGoalsAttempted:    t.FieldGoalsAttempted,
		ThreePointersMade:      t.ThreePointersMade,
		ThreePointersAttempted: t.ThreePointersAttempted,
		FreeThrowsMade:         t.FreeThrowsMade,
		FreeThrowsAttempted:    t.FreeThrowsAttempted,
	}
}

// GameScore sums made scoring events per team for one game's events. Stored
// score columns are never trusted as the score source; recomputing from
// events means stat corrections show up immediately.
func GameScore(events []models.StatEvent, teamAID, teamBID int) (teamA, teamB int) {
	for _, ev := range events {
		pts := ev.Points()
		if pts == 0 {
			continue
		}
		switch ev.TeamID {
		case teamAID:
			teamA += pts
		case teamBID:
			teamB += pts
		}
	}
	return teamA, teamB
}
