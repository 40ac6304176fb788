package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/hooplab/courtside/boxscore"
	"github.com/hooplab/courtside/models"
	"github.com/hooplab/courtside/repositories"
)

// StatEventInput is one live-tracking action as submitted by the courtside
// client.
type StatEventInput struct {
	GameID         int                  `json:"game_id"`
	PlayerID       *int                 `json:"player_id"`
	CustomPlayerID *int                 `json:"custom_player_id"`
	TeamID         int                  `json:"team_id"`
	Type           models.StatType      `json:"stat_type"`
	Modifier       *models.StatModifier `json:"modifier"`
	Value          int                  `json:"value"`
	Quarter        int                  `json:"quarter"`
}

// GameScoreUpdate is the scoreboard state after an event lands, used for the
// live broadcast.
type GameScoreUpdate struct {
	GameID     int `json:"game_id"`
	TeamAID    int `json:"team_a_id"`
	TeamBID    int `json:"team_b_id"`
	TeamAScore int `json:"team_a_score"`
	TeamBScore int `json:"team_b_score"`
}

type StatEventsService interface {
	// RecordEvent validates and appends one event, returning the stored event
	// and the recomputed scoreboard for the game.
	RecordEvent(ctx context.Context, input StatEventInput) (*models.StatEvent, *GameScoreUpdate, error)
	ListByGame(ctx context.Context, gameID int) ([]models.StatEvent, error)
}

type statEventsService struct {
	eventRepo repositories.StatEventRepository
	gameRepo  repositories.GameRepository
}

func NewStatEventsService(eventRepo repositories.StatEventRepository, gameRepo repositories.GameRepository) StatEventsService {
	return &statEventsService{eventRepo: eventRepo, gameRepo: gameRepo}
}

func (s *statEventsService) validate(input StatEventInput, game *models.Game) *ValidationError {
	violations := make([]string, 0)

	if !input.Type.Valid() {
		violations = append(violations, fmt.Sprintf("unknown stat type %q", input.Type))
	}
	if input.Modifier != nil && !input.Modifier.Valid() {
		violations = append(violations, fmt.Sprintf("unknown modifier %q", *input.Modifier))
	}
	if input.Type.IsShot() {
		if input.Modifier == nil || (*input.Modifier != models.ModifierMade && *input.Modifier != models.ModifierMissed) {
			violations = append(violations, "shot events require a made or missed modifier")
		}
	}
	if (input.PlayerID == nil) == (input.CustomPlayerID == nil) {
		violations = append(violations, "exactly one of player_id and custom_player_id must be set")
	}
	if input.TeamID != game.TeamAID && input.TeamID != game.TeamBID {
		violations = append(violations, "team is not playing in this game")
	}
	if input.Value < 0 {
		violations = append(violations, "value cannot be negative")
	}
	if input.Quarter < 1 || input.Quarter > 10 {
		violations = append(violations, "quarter must be between 1 and 10")
	}
	if game.Status != models.GameInProgress {
		violations = append(violations, "events can only be recorded for a game in progress")
	}

	if len(violations) > 0 {
		return newValidationError(violations)
	}
	return nil
}

func (s *statEventsService) RecordEvent(ctx context.Context, input StatEventInput) (*models.StatEvent, *GameScoreUpdate, error) {
	game, err := s.gameRepo.GetByID(ctx, input.GameID)
	if err != nil {
		if errors.Is(err, repositories.ErrGameNotFound) {
			return nil, nil, ErrGameNotFound
		}
		return nil, nil, wrapRepoError("get game", err)
	}

	if verr := s.validate(input, game); verr != nil {
		return nil, nil, verr
	}

	event := &models.StatEvent{
		GameID:         input.GameID,
		PlayerID:       input.PlayerID,
		CustomPlayerID: input.CustomPlayerID,
		TeamID:         input.TeamID,
		Type:           input.Type,
		Modifier:       input.Modifier,
		Value:          input.Value,
		Quarter:        input.Quarter,
	}
	if err := s.eventRepo.Create(ctx, event); err != nil {
		switch {
		case errors.Is(err, repositories.ErrStatEventGameInvalid):
			return nil, nil, ErrGameNotFound
		case errors.Is(err, repositories.ErrStatEventPlayerInvalid):
			return nil, nil, ErrPlayerNotFound
		}
		return nil, nil, wrapRepoError("create stat event", err)
	}

	events, err := s.eventRepo.ListByGame(ctx, input.GameID)
	if err != nil {
		// The event is already stored; a failed score read only degrades the
		// broadcast, not the write.
		return event, nil, nil
	}
	teamA, teamB := boxscore.GameScore(events, game.TeamAID, game.TeamBID)
	update := &GameScoreUpdate{
		GameID:     game.ID,
		TeamAID:    game.TeamAID,
		TeamBID:    game.TeamBID,
		TeamAScore: teamA,
		TeamBScore: teamB,
	}
	return event, update, nil
}

func (s *statEventsService) ListByGame(ctx context.Context, gameID int) ([]models.StatEvent, error) {
	if _, err := s.gameRepo.GetByID(ctx, gameID); err != nil {
		if errors.Is(err, repositories.ErrGameNotFound) {
			return nil, ErrGameNotFound
		}
		return nil, wrapRepoError("get game", err)
	}
	events, err := s.eventRepo.ListByGame(ctx, gameID)
	if err != nil {
		return nil, wrapRepoError("list game events", err)
	}
	return events, nil
}
