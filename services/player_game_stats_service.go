package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/hooplab/courtside/boxscore"
	"github.com/hooplab/courtside/models"
	"github.com/hooplab/courtside/repositories"
)

// PlayerGameStatsService produces one box-score summary per game a player
// recorded stats in.
type PlayerGameStatsService interface {
	ListGameSummaries(ctx context.Context, player models.PlayerRef) ([]models.GameStatsSummary, error)
}

type playerGameStatsService struct {
	playerRepo repositories.PlayerRepository
	gameRepo   repositories.GameRepository
	eventRepo  repositories.StatEventRepository
	teamRepo   repositories.TeamRepository
	logger     *slog.Logger
}

func NewPlayerGameStatsService(
	playerRepo repositories.PlayerRepository,
	gameRepo repositories.GameRepository,
	eventRepo repositories.StatEventRepository,
	teamRepo repositories.TeamRepository,
	logger *slog.Logger,
) PlayerGameStatsService {
	return &playerGameStatsService{
		playerRepo: playerRepo,
		gameRepo:   gameRepo,
		eventRepo:  eventRepo,
		teamRepo:   teamRepo,
		logger:     logger,
	}
}

func (s *playerGameStatsService) ListGameSummaries(ctx context.Context, player models.PlayerRef) ([]models.GameStatsSummary, error) {
	teamID, err := s.resolveTeam(ctx, player)
	if err != nil {
		return nil, err
	}
	if teamID == 0 {
		// Rostered player without a team has no tournament games.
		return []models.GameStatsSummary{}, nil
	}

	games, err := s.gameRepo.ListByTeam(ctx, teamID)
	if err != nil {
		return nil, wrapRepoError("list team games", err)
	}

	summaries := make([]models.GameStatsSummary, 0, len(games))
	for i := range games {
		game := &games[i]
		events, err := s.eventRepo.ListByGame(ctx, game.ID)
		if err != nil {
			// Same tolerance as the leaderboard fan-out: a broken game is
			// logged and skipped rather than failing the whole history.
			if s.logger != nil {
				s.logger.WarnContext(ctx, "failed to fetch events for game, skipping",
					slog.Int("game_id", game.ID), slog.Any("error", err))
			}
			continue
		}

		summary, ok := s.summarizeGame(ctx, player, teamID, game, events)
		if !ok {
			continue
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

func (s *playerGameStatsService) resolveTeam(ctx context.Context, player models.PlayerRef) (int, error) {
	if player.Custom {
		cp, err := s.playerRepo.GetCustomByID(ctx, player.ID)
		if err != nil {
			if errors.Is(err, repositories.ErrCustomPlayerNotFound) {
				return 0, ErrPlayerNotFound
			}
			return 0, wrapRepoError("get custom player", err)
		}
		return cp.TeamID, nil
	}

	p, err := s.playerRepo.GetByID(ctx, player.ID)
	if err != nil {
		if errors.Is(err, repositories.ErrPlayerNotFound) {
			return 0, ErrPlayerNotFound
		}
		return 0, wrapRepoError("get player", err)
	}
	if p.TeamID == nil {
		return 0, nil
	}
	return *p.TeamID, nil
}

// summarizeGame builds the player's line for one game. Games where the
// player recorded no events are not part of their game history.
func (s *playerGameStatsService) summarizeGame(ctx context.Context, player models.PlayerRef, teamID int, game *models.Game, events []models.StatEvent) (models.GameStatsSummary, bool) {
	playerEvents := make([]models.StatEvent, 0)
	for _, ev := range events {
		if ref, ok := ev.Ref(); ok && ref == player {
			playerEvents = append(playerEvents, ev)
		}
	}
	if len(playerEvents) == 0 {
		return models.GameStatsSummary{}, false
	}

	totals := boxscore.Aggregate(playerEvents)[0]

	opponentID := game.TeamBID
	if teamID == game.TeamBID {
		opponentID = game.TeamAID
	}
	teamScore, opponentScore := s.teamScores(events, teamID, opponentID)

	summary := models.GameStatsSummary{
		GameID:     game.ID,
		GameDate:   game.ScheduledAt,
		Phase:      game.Phase,
		Opponent:   s.opponentName(ctx, opponentID),
		Result:     classifyResult(game.Status, teamScore, opponentScore),
		FinalScore: fmt.Sprintf("%d-%d", teamScore, opponentScore),

		Points:    totals.Points,
		Rebounds:  totals.Rebounds,
		Assists:   totals.Assists,
		Steals:    totals.Steals,
		Blocks:    totals.Blocks,
		Turnovers: totals.Turnovers,
		Fouls:     totals.Fouls,

		FieldGoalsMade:         totals.FieldGoalsMade,
		FieldGoalsAttempted:    totals.FieldGoalsAttempted,
		ThreePointersMade:      totals.ThreePointersMade,
		ThreePointersAttempted: totals.ThreePointersAttempted,
		FreeThrowsMade:         totals.FreeThrowsMade,
		FreeThrowsAttempted:    totals.FreeThrowsAttempted,

		FieldGoalPct:  boxscore.Percentage(totals.FieldGoalsMade, totals.FieldGoalsAttempted),
		ThreePointPct: boxscore.Percentage(totals.ThreePointersMade, totals.ThreePointersAttempted),
		FreeThrowPct:  boxscore.Percentage(totals.FreeThrowsMade, totals.FreeThrowsAttempted),
	}
	return summary, true
}

// teamScores recomputes both sides' scores from made scoring events. Stored
// score columns are deliberately ignored so stat corrections show up without
// a separate score-sync step.
func (s *playerGameStatsService) teamScores(events []models.StatEvent, teamID, opponentID int) (int, int) {
	teamScore, opponentScore := boxscore.GameScore(events, teamID, opponentID)
	return teamScore, opponentScore
}

func (s *playerGameStatsService) opponentName(ctx context.Context, opponentID int) string {
	team, err := s.teamRepo.GetByID(ctx, opponentID)
	if err != nil {
		if s.logger != nil {
			s.logger.WarnContext(ctx, "failed to resolve opponent team",
				slog.Int("team_id", opponentID), slog.Any("error", err))
		}
		return fmt.Sprintf("Team %d", opponentID)
	}
	return team.Name
}

func classifyResult(status models.GameStatus, teamScore, opponentScore int) models.GameResult {
	switch status {
	case models.GameInProgress:
		return models.ResultLive
	case models.GameCompleted:
		switch {
		case teamScore > opponentScore:
			return models.ResultWin
		case teamScore < opponentScore:
			return models.ResultLoss
		}
	}
	return models.ResultNotAvailable
}
