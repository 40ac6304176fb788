package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/hooplab/courtside/boxscore"
	"github.com/hooplab/courtside/models"
	"github.com/hooplab/courtside/repositories"
)

// dailyPersonalGameLimit caps how many personal games a player can log per
// calendar day.
const dailyPersonalGameLimit = 10

// Declared bounds for the counting stats of a personal game.
const (
	maxPersonalGamePoints    = 200
	maxPersonalGameRebounds  = 50
	maxPersonalGameAssists   = 50
	maxPersonalGameSteals    = 50
	maxPersonalGameBlocks    = 50
	maxPersonalGameTurnovers = 50
	maxPersonalGameFouls     = 6
	maxPersonalGameFGA       = 100
	maxPersonalGame3PA       = 50
	maxPersonalGameFTA       = 50
)

const personalGameDateLayout = "2006-01-02"

// PersonalGameInput is the raw client payload for creating or updating a
// personal game. The date arrives as a string so a bad value is a collected
// validation error, not a decode failure.
type PersonalGameInput struct {
	GameDate string  `json:"game_date"`
	Location *string `json:"location"`
	Opponent *string `json:"opponent"`

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

	IsPublic bool    `json:"is_public"`
	Notes    *string `json:"notes"`
}

type PersonalGamesService interface {
	Create(ctx context.Context, playerID int, input PersonalGameInput) (*models.PersonalGame, error)
	Update(ctx context.Context, playerID, gameID int, input PersonalGameInput) (*models.PersonalGame, error)
	Delete(ctx context.Context, playerID, gameID int) error
	ListByPlayer(ctx context.Context, playerID int, includePrivate bool) ([]models.PersonalGame, error)

	// Validate runs every check and returns the full violation list, or nil
	// when the input is acceptable.
	Validate(input PersonalGameInput) *ValidationError

	// CalculateGameStats derives the display metrics for one game.
	CalculateGameStats(game *models.PersonalGame) models.PersonalGameStats
}

type personalGamesService struct {
	repo repositories.PersonalGameRepository
	now  func() time.Time
}

func NewPersonalGamesService(repo repositories.PersonalGameRepository) PersonalGamesService {
	return &personalGamesService{repo: repo, now: time.Now}
}

// Validate collects every violation in one pass; it never stops at the first
// failure, so the client can surface all problems at once.
func (s *personalGamesService) Validate(input PersonalGameInput) *ValidationError {
	violations := make([]string, 0)

	if _, err := time.Parse(personalGameDateLayout, input.GameDate); err != nil {
		violations = append(violations, fmt.Sprintf("game date %q is not a valid YYYY-MM-DD date", input.GameDate))
	} else {
		gameDate, _ := time.Parse(personalGameDateLayout, input.GameDate)
		now := s.now()
		endOfToday := time.Date(now.Year(), now.Month(), now.Day(), 23, 59, 59, 0, time.UTC)
		if gameDate.After(endOfToday) {
			violations = append(violations, "game date cannot be in the future")
		}
	}

	if input.FieldGoalsMade > input.FieldGoalsAttempted {
		violations = append(violations, "field goals made cannot exceed field goals attempted")
	}
	if input.ThreePointersMade > input.ThreePointersAttempted {
		violations = append(violations, "three pointers made cannot exceed three pointers attempted")
	}
	if input.FreeThrowsMade > input.FreeThrowsAttempted {
		violations = append(violations, "free throws made cannot exceed free throws attempted")
	}

	ranges := []struct {
		name  string
		value int
		max   int
	}{
		{"points", input.Points, maxPersonalGamePoints},
		{"rebounds", input.Rebounds, maxPersonalGameRebounds},
		{"assists", input.Assists, maxPersonalGameAssists},
		{"steals", input.Steals, maxPersonalGameSteals},
		{"blocks", input.Blocks, maxPersonalGameBlocks},
		{"turnovers", input.Turnovers, maxPersonalGameTurnovers},
		{"fouls", input.Fouls, maxPersonalGameFouls},
		{"field goal attempts", input.FieldGoalsAttempted, maxPersonalGameFGA},
		{"three point attempts", input.ThreePointersAttempted, maxPersonalGame3PA},
		{"free throw attempts", input.FreeThrowsAttempted, maxPersonalGameFTA},
	}
	for _, r := range ranges {
		if r.value < 0 || r.value > r.max {
			violations = append(violations, fmt.Sprintf("%s must be between 0 and %d", r.name, r.max))
		}
	}
	for _, made := range []struct {
		name  string
		value int
	}{
		{"field goals made", input.FieldGoalsMade},
		{"three pointers made", input.ThreePointersMade},
		{"free throws made", input.FreeThrowsMade},
	} {
		if made.value < 0 {
			violations = append(violations, fmt.Sprintf("%s cannot be negative", made.name))
		}
	}

	if len(violations) > 0 {
		return newValidationError(violations)
	}
	return nil
}

func (s *personalGamesService) Create(ctx context.Context, playerID int, input PersonalGameInput) (*models.PersonalGame, error) {
	if verr := s.Validate(input); verr != nil {
		return nil, verr
	}

	// Read-then-decide with no transaction: concurrent submissions can
	// overshoot the cap slightly. The persistence layer enforces it
	// authoritatively; this check exists for a friendly error.
	count, err := s.repo.CountByPlayerOnDate(ctx, playerID, s.now())
	if err != nil {
		return nil, wrapRepoError("count today's personal games", err)
	}
	if count >= dailyPersonalGameLimit {
		return nil, fmt.Errorf("%w: %d games already logged today", ErrRateLimited, count)
	}

	game := s.inputToGame(playerID, input)
	if err := s.repo.Create(ctx, game); err != nil {
		if errors.Is(err, repositories.ErrPersonalGamePlayerInvalid) {
			return nil, ErrPlayerNotFound
		}
		return nil, wrapRepoError("create personal game", err)
	}
	return game, nil
}

func (s *personalGamesService) Update(ctx context.Context, playerID, gameID int, input PersonalGameInput) (*models.PersonalGame, error) {
	existing, err := s.getOwned(ctx, playerID, gameID)
	if err != nil {
		return nil, err
	}
	if verr := s.Validate(input); verr != nil {
		return nil, verr
	}

	updated := s.inputToGame(playerID, input)
	updated.ID = existing.ID
	updated.CreatedAt = existing.CreatedAt
	if err := s.repo.Update(ctx, updated); err != nil {
		return nil, wrapRepoError("update personal game", err)
	}
	return updated, nil
}

func (s *personalGamesService) Delete(ctx context.Context, playerID, gameID int) error {
	if _, err := s.getOwned(ctx, playerID, gameID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, gameID); err != nil {
		return wrapRepoError("delete personal game", err)
	}
	return nil
}

func (s *personalGamesService) ListByPlayer(ctx context.Context, playerID int, includePrivate bool) ([]models.PersonalGame, error) {
	games, err := s.repo.ListByPlayer(ctx, playerID, !includePrivate)
	if err != nil {
		return nil, wrapRepoError("list personal games", err)
	}
	return games, nil
}

func (s *personalGamesService) getOwned(ctx context.Context, playerID, gameID int) (*models.PersonalGame, error) {
	game, err := s.repo.GetByID(ctx, gameID)
	if err != nil {
		if errors.Is(err, repositories.ErrPersonalGameNotFound) {
			return nil, ErrPersonalGameNotFound
		}
		return nil, wrapRepoError("get personal game", err)
	}
	if game.PlayerID != playerID {
		return nil, ErrForbidden
	}
	return game, nil
}

func (s *personalGamesService) inputToGame(playerID int, input PersonalGameInput) *models.PersonalGame {
	gameDate, _ := time.Parse(personalGameDateLayout, input.GameDate) // validated above
	return &models.PersonalGame{
		PlayerID: playerID,
		GameDate: gameDate,
		Location: input.Location,
		Opponent: input.Opponent,

		Points:    input.Points,
		Rebounds:  input.Rebounds,
		Assists:   input.Assists,
		Steals:    input.Steals,
		Blocks:    input.Blocks,
		Turnovers: input.Turnovers,
		Fouls:     input.Fouls,

		FieldGoalsMade:         input.FieldGoalsMade,
		FieldGoalsAttempted:    input.FieldGoalsAttempted,
		ThreePointersMade:      input.ThreePointersMade,
		ThreePointersAttempted: input.ThreePointersAttempted,
		FreeThrowsMade:         input.FreeThrowsMade,
		FreeThrowsAttempted:    input.FreeThrowsAttempted,

		IsPublic: input.IsPublic,
		Notes:    input.Notes,
	}
}

func (s *personalGamesService) CalculateGameStats(game *models.PersonalGame) models.PersonalGameStats {
	return models.PersonalGameStats{
		FieldGoalPct:          boxscore.Percentage(game.FieldGoalsMade, game.FieldGoalsAttempted),
		ThreePointPct:         boxscore.Percentage(game.ThreePointersMade, game.ThreePointersAttempted),
		FreeThrowPct:          boxscore.Percentage(game.FreeThrowsMade, game.FreeThrowsAttempted),
		EffectiveFieldGoalPct: effectiveFieldGoalPct(game.FieldGoalsMade, game.ThreePointersMade, game.FieldGoalsAttempted),
		StatLine:              buildStatLine(game),
	}
}

// effectiveFieldGoalPct weights three-point makes at 1.5x to reflect their
// extra point: (FGM + 0.5*3PM) / FGA.
func effectiveFieldGoalPct(fgMade, threeMade, fgAttempted int) float64 {
	if fgAttempted <= 0 {
		return 0
	}
	return math.Round((float64(fgMade)+0.5*float64(threeMade))/float64(fgAttempted)*1000) / 10
}

// buildStatLine renders the nonzero counting stats in a fixed order, e.g.
// "23 PTS, 10 REB, 4 AST". An empty line collapses to "0 PTS".
func buildStatLine(game *models.PersonalGame) string {
	parts := make([]string, 0, 5)
	for _, stat := range []struct {
		value int
		label string
	}{
		{game.Points, "PTS"},
		{game.Rebounds, "REB"},
		{game.Assists, "AST"},
		{game.Steals, "STL"},
		{game.Blocks, "BLK"},
	} {
		if stat.value > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", stat.value, stat.label))
		}
	}
	if len(parts) == 0 {
		return "0 PTS"
	}
	return strings.Join(parts, ", ")
}
