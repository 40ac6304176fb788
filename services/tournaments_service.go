package services

import (
	"context"
	"errors"

	"github.com/hooplab/courtside/models"
	"github.com/hooplab/courtside/repositories"
)

type TournamentsService interface {
	GetByID(ctx context.Context, id int) (*models.Tournament, error)
	ListByStatus(ctx context.Context, status models.TournamentStatus) ([]models.Tournament, error)
	ListGames(ctx context.Context, tournamentID int, phase models.GamePhase) ([]models.Game, error)
	ListTeams(ctx context.Context, tournamentID int) ([]models.Team, error)
}

type tournamentsService struct {
	tournamentRepo repositories.TournamentRepository
	gameRepo       repositories.GameRepository
	teamRepo       repositories.TeamRepository
}

func NewTournamentsService(tournamentRepo repositories.TournamentRepository, gameRepo repositories.GameRepository, teamRepo repositories.TeamRepository) TournamentsService {
	return &tournamentsService{tournamentRepo: tournamentRepo, gameRepo: gameRepo, teamRepo: teamRepo}
}

func (s *tournamentsService) GetByID(ctx context.Context, id int) (*models.Tournament, error) {
	t, err := s.tournamentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, wrapRepoError("get tournament", err)
	}
	return t, nil
}

func (s *tournamentsService) ListByStatus(ctx context.Context, status models.TournamentStatus) ([]models.Tournament, error) {
	tournaments, err := s.tournamentRepo.ListByStatus(ctx, status)
	if err != nil {
		return nil, wrapRepoError("list tournaments", err)
	}
	return tournaments, nil
}

func (s *tournamentsService) ListGames(ctx context.Context, tournamentID int, phase models.GamePhase) ([]models.Game, error) {
	if phase == "" {
		phase = models.PhaseAll
	}
	if !phase.Valid() {
		return nil, newValidationError([]string{"unknown game phase"})
	}
	if _, err := s.GetByID(ctx, tournamentID); err != nil {
		return nil, err
	}
	games, err := s.gameRepo.ListByTournament(ctx, tournamentID, phase)
	if err != nil {
		return nil, wrapRepoError("list tournament games", err)
	}
	return games, nil
}

func (s *tournamentsService) ListTeams(ctx context.Context, tournamentID int) ([]models.Team, error) {
	if _, err := s.GetByID(ctx, tournamentID); err != nil {
		return nil, err
	}
	teams, err := s.teamRepo.ListByTournament(ctx, tournamentID)
	if err != nil {
		return nil, wrapRepoError("list tournament teams", err)
	}
	return teams, nil
}
