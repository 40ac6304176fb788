package boxscore

import (
	"sort"

	"github.com/hooplab/courtside/models"
)

// Category is the statistical column a leaderboard is ordered by.
type Category string

const (
	CategoryPoints       Category = "points"
	CategoryRebounds     Category = "rebounds"
	CategoryAssists      Category = "assists"
	CategorySteals       Category = "steals"
	CategoryBlocks       Category = "blocks"
	CategoryTurnovers    Category = "turnovers"
	CategoryGamesPlayed  Category = "games_played"
	CategoryFieldGoalPct Category = "fg_pct"
	CategoryThreePtPct   Category = "3p_pct"
	CategoryFreeThrowPct Category = "ft_pct"
)

func (c Category) Valid() bool {
	switch c {
	case CategoryPoints, CategoryRebounds, CategoryAssists, CategorySteals,
		CategoryBlocks, CategoryTurnovers, CategoryGamesPlayed,
		CategoryFieldGoalPct, CategoryThreePtPct, CategoryFreeThrowPct:
		return true
	}
	return false
}

// PerMode selects whether counting categories rank by per-game average or by
// season total. Percentage and games-played categories ignore it.
type PerMode string

const (
	PerModeAverages PerMode = "per_game"
	PerModeTotals   PerMode = "totals"
)

func (m PerMode) Valid() bool {
	return m == PerModeAverages || m == PerModeTotals
}

// DefaultMinGames is the minimum games-played cutoff applied when a caller
// does not ask for one.
const DefaultMinGames = 1

// Rank filters out players below minGames, orders the rest by category and
// assigns 1-based positional ranks. Turnovers sort ascending (fewer is
// better); every other category sorts descending. The sort is stable, so
// players with equal values keep their incoming relative order, and ranks
// are always exactly 1..N with no tie sharing.
//
// The input slice is not modified.
func Rank(leaders []models.PlayerLeader, category Category, perMode PerMode, minGames int) []models.PlayerLeader {
	ranked := make([]models.PlayerLeader, 0, len(leaders))
	for _, l := range leaders {
		if l.GamesPlayed >= minGames {
			ranked = append(ranked, l)
		}
	}

	ascending := category == CategoryTurnovers
	sort.SliceStable(ranked, func(i, j int) bool {
		vi := sortValue(&ranked[i], category, perMode)
		vj := sortValue(&ranked[j], category, perMode)
		if ascending {
			return vi < vj
		}
		return vi > vj
	})

	for i := range ranked {
		ranked[i].Rank = i + 1
	}
	return ranked
}

func sortValue(l *models.PlayerLeader, category Category, perMode PerMode) float64 {
	switch category {
	case CategoryGamesPlayed:
		return float64(l.GamesPlayed)
	case CategoryFieldGoalPct:
		return l.FieldGoalPct
	case CategoryThreePtPct:
		return l.ThreePointPct
	case CategoryFreeThrowPct:
		return l.FreeThrowPct
	}

	if perMode == PerModeTotals {
		switch category {
		case CategoryPoints:
			return float64(l.TotalPoints)
		case CategoryRebounds:
			return float64(l.TotalRebounds)
		case CategoryAssists:
			return float64(l.TotalAssists)
		case CategorySteals:
			return float64(l.TotalSteals)
		case CategoryBlocks:
			return float64(l.TotalBlocks)
		case CategoryTurnovers:
			return float64(l.TotalTurnovers)
		}
		return 0
	}

	switch category {
	case CategoryPoints:
		return l.PointsPerGame
	case CategoryRebounds:
		return l.ReboundsPerGame
	case CategoryAssists:
		return l.AssistsPerGame
	case CategorySteals:
		return l.StealsPerGame
	case CategoryBlocks:
		return l.BlocksPerGame
	case CategoryTurnovers:
		return l.TurnoversPerGame
	}
	return 0
}
