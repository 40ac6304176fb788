package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/hooplab/courtside/boxscore"
	"github.com/hooplab/courtside/cache"
	"github.com/hooplab/courtside/models"
	"github.com/hooplab/courtside/repositories"
	"github.com/hooplab/courtside/storage"
)

// LeadersQuery is one fully-specified leaderboard request. Zero values for
// Phase, PerMode and MinGames are normalized to "all", per-game averages and
// a one-game minimum.
type LeadersQuery struct {
	TournamentID int
	Category     boxscore.Category
	Phase        models.GamePhase
	PerMode      boxscore.PerMode
	MinGames     int
}

type TournamentLeadersService interface {
	// GetLeaders returns the ranked leaderboard for a query, preferring the
	// precomputed table and falling back to raw aggregation.
	GetLeaders(ctx context.Context, query LeadersQuery) ([]models.PlayerLeader, error)

	// ComputeLeaders aggregates raw events into unranked leader lines. It is
	// both the slow path of GetLeaders and the producer the precompute
	// refresher materializes from, so the two paths cannot diverge.
	ComputeLeaders(ctx context.Context, tournamentID int, phase models.GamePhase) ([]models.PlayerLeader, error)
}

type tournamentLeadersService struct {
	gameRepo        repositories.GameRepository
	eventRepo       repositories.StatEventRepository
	precomputedRepo repositories.PrecomputedLeaderRepository
	playerRepo      repositories.PlayerRepository
	teamRepo        repositories.TeamRepository
	leadersCache    cache.LeadersCache
	uploader        storage.FileUploader
	logger          *slog.Logger
}

func NewTournamentLeadersService(
	gameRepo repositories.GameRepository,
	eventRepo repositories.StatEventRepository,
	precomputedRepo repositories.PrecomputedLeaderRepository,
	playerRepo repositories.PlayerRepository,
	teamRepo repositories.TeamRepository,
	leadersCache cache.LeadersCache,
	uploader storage.FileUploader,
	logger *slog.Logger,
) TournamentLeadersService {
	return &tournamentLeadersService{
		gameRepo:        gameRepo,
		eventRepo:       eventRepo,
		precomputedRepo: precomputedRepo,
		playerRepo:      playerRepo,
		teamRepo:        teamRepo,
		leadersCache:    leadersCache,
		uploader:        uploader,
		logger:          logger,
	}
}

func (q *LeadersQuery) normalize() error {
	if q.Phase == "" {
		q.Phase = models.PhaseAll
	}
	if q.PerMode == "" {
		q.PerMode = boxscore.PerModeAverages
	}
	if q.MinGames == 0 {
		q.MinGames = boxscore.DefaultMinGames
	}

	violations := make([]string, 0)
	if q.TournamentID <= 0 {
		violations = append(violations, "tournament id must be positive")
	}
	if !q.Category.Valid() {
		violations = append(violations, fmt.Sprintf("unknown leaderboard category %q", q.Category))
	}
	if !q.Phase.Valid() {
		violations = append(violations, fmt.Sprintf("unknown game phase %q", q.Phase))
	}
	if !q.PerMode.Valid() {
		violations = append(violations, fmt.Sprintf("unknown per mode %q", q.PerMode))
	}
	if q.MinGames < 0 {
		violations = append(violations, "min games cannot be negative")
	}
	if len(violations) > 0 {
		return newValidationError(violations)
	}
	return nil
}

func (s *tournamentLeadersService) GetLeaders(ctx context.Context, query LeadersQuery) ([]models.PlayerLeader, error) {
	if err := query.normalize(); err != nil {
		return nil, err
	}

	key := cache.LeadersKey(query.TournamentID, query.Phase, string(query.Category), string(query.PerMode), query.MinGames)
	if s.leadersCache != nil {
		if cached, err := s.leadersCache.Get(ctx, key); err == nil {
			return cached, nil
		} else if !errors.Is(err, cache.ErrCacheMiss) && s.logger != nil {
			s.logger.WarnContext(ctx, "leaders cache read failed, recomputing",
				slog.String("key", key), slog.Any("error", err))
		}
	}

	leaders, err := s.loadLeaders(ctx, query.TournamentID, query.Phase)
	if err != nil {
		return nil, err
	}

	ranked := boxscore.Rank(leaders, query.Category, query.PerMode, query.MinGames)

	if s.leadersCache != nil {
		if err := s.leadersCache.Set(ctx, key, ranked); err != nil && s.logger != nil {
			s.logger.WarnContext(ctx, "leaders cache write failed",
				slog.String("key", key), slog.Any("error", err))
		}
	}
	return ranked, nil
}

// loadLeaders tries the materialized table first; an empty result (not an
// error) means nothing has been precomputed for this scope yet and the raw
// aggregation runs instead.
func (s *tournamentLeadersService) loadLeaders(ctx context.Context, tournamentID int, phase models.GamePhase) ([]models.PlayerLeader, error) {
	rows, err := s.precomputedRepo.ListByTournamentAndPhase(ctx, tournamentID, phase)
	if err != nil {
		return nil, wrapRepoError("fetch precomputed leaders", err)
	}
	if len(rows) > 0 {
		leaders := make([]models.PlayerLeader, 0, len(rows))
		for i := range rows {
			leader, ok := s.precomputedToLeader(&rows[i])
			if !ok {
				if s.logger != nil {
					s.logger.WarnContext(ctx, "precomputed leader row has malformed identity, skipping",
						slog.Int("row_id", rows[i].ID))
				}
				continue
			}
			leaders = append(leaders, leader)
		}
		return leaders, nil
	}
	return s.ComputeLeaders(ctx, tournamentID, phase)
}

// precomputedToLeader expands a materialized counter row into the full
// leader shape. Percentages and averages are derived here, at the read
// boundary, from the stored counters.
func (s *tournamentLeadersService) precomputedToLeader(row *models.PrecomputedLeader) (models.PlayerLeader, bool) {
	ref, ok := row.Ref()
	if !ok {
		return models.PlayerLeader{}, false
	}

	totals := boxscore.PlayerTotals{
		Player:                 ref,
		Points:                 row.TotalPoints,
		Rebounds:               row.TotalRebounds,
		Assists:                row.TotalAssists,
		Steals:                 row.TotalSteals,
		Blocks:                 row.TotalBlocks,
		Turnovers:              row.TotalTurnovers,
		Fouls:                  row.TotalFouls,
		FieldGoalsMade:         row.FieldGoalsMade,
		FieldGoalsAttempted:    row.FieldGoalsAttempted,
		ThreePointersMade:      row.ThreePointersMade,
		ThreePointersAttempted: row.ThreePointersAttempted,
		FreeThrowsMade:         row.FreeThrowsMade,
		FreeThrowsAttempted:    row.FreeThrowsAttempted,
	}
	leader := totals.LeaderWithGames(row.GamesPlayed)
	leader.Name = row.Name
	leader.TeamID = row.TeamID
	leader.TeamName = row.TeamName
	leader.PhotoURL = populatePhotoURL(row.PhotoKey, s.uploader)
	return leader, true
}

func (s *tournamentLeadersService) ComputeLeaders(ctx context.Context, tournamentID int, phase models.GamePhase) ([]models.PlayerLeader, error) {
	games, err := s.gameRepo.ListByTournament(ctx, tournamentID, phase)
	if err != nil {
		return nil, wrapRepoError("list tournament games", err)
	}
	if len(games) == 0 {
		return []models.PlayerLeader{}, nil
	}

	gameIDs := make([]int, len(games))
	for i, g := range games {
		gameIDs[i] = g.ID
	}
	events := fetchEventsByGame(ctx, s.eventRepo, gameIDs, s.logger)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	roster, teamNames, err := s.loadIdentities(ctx, tournamentID)
	if err != nil {
		return nil, err
	}

	totals := boxscore.Aggregate(events)
	leaders := make([]models.PlayerLeader, 0, len(totals))
	for _, t := range totals {
		leader := t.Leader()
		if entry, ok := roster[t.Player]; ok {
			leader.Name = entry.Name
			leader.TeamID = entry.TeamID
			leader.TeamName = teamNames[entry.TeamID]
			leader.PhotoURL = populatePhotoURL(entry.PhotoKey, s.uploader)
		} else {
			// Not on any current roster (e.g. removed mid-tournament). The
			// line still counts; it must not silently vanish.
			leader.Name = fmt.Sprintf("Player %d", t.Player.ID)
		}
		leaders = append(leaders, leader)
	}
	return leaders, nil
}

func (s *tournamentLeadersService) loadIdentities(ctx context.Context, tournamentID int) (map[models.PlayerRef]models.RosterEntry, map[int]string, error) {
	entries, err := s.playerRepo.ListRosterByTournament(ctx, tournamentID)
	if err != nil {
		return nil, nil, wrapRepoError("list tournament roster", err)
	}
	roster := make(map[models.PlayerRef]models.RosterEntry, len(entries))
	for _, entry := range entries {
		roster[entry.Ref] = entry
	}

	teams, err := s.teamRepo.ListByTournament(ctx, tournamentID)
	if err != nil {
		return nil, nil, wrapRepoError("list tournament teams", err)
	}
	teamNames := make(map[int]string, len(teams))
	for _, t := range teams {
		teamNames[t.ID] = t.Name
	}
	return roster, teamNames, nil
}
