// Package scheduler runs the periodic jobs that keep derived tables fresh.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/hooplab/courtside/models"
	"github.com/hooplab/courtside/repositories"
	"github.com/hooplab/courtside/services"
)

// refreshedPhases are the leaderboard scopes materialized per tournament.
var refreshedPhases = []models.GamePhase{
	models.PhaseAll,
	models.PhaseRegular,
	models.PhasePlayoffs,
	models.PhaseFinals,
}

// LeadersRefresher periodically rebuilds the tournament_leaders table for
// every active tournament. It materializes the exact output of the leaders
// service's raw aggregation, so reads from the table and reads that fall back
// to aggregation can never disagree.
type LeadersRefresher struct {
	leadersService  services.TournamentLeadersService
	tournamentRepo  repositories.TournamentRepository
	playerRepo      repositories.PlayerRepository
	precomputedRepo repositories.PrecomputedLeaderRepository
	logger          *slog.Logger

	scheduler gocron.Scheduler
}

func NewLeadersRefresher(
	leadersService services.TournamentLeadersService,
	tournamentRepo repositories.TournamentRepository,
	playerRepo repositories.PlayerRepository,
	precomputedRepo repositories.PrecomputedLeaderRepository,
	logger *slog.Logger,
) *LeadersRefresher {
	return &LeadersRefresher{
		leadersService:  leadersService,
		tournamentRepo:  tournamentRepo,
		playerRepo:      playerRepo,
		precomputedRepo: precomputedRepo,
		logger:          logger,
	}
}

// Start schedules the refresh job and runs it once immediately so a fresh
// deployment does not serve slow-path reads until the first tick.
func (r *LeadersRefresher) Start(interval time.Duration) error {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return fmt.Errorf("create scheduler: %w", err)
	}

	_, err = scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(r.RefreshAll),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	)
	if err != nil {
		return fmt.Errorf("schedule leaders refresh: %w", err)
	}

	r.scheduler = scheduler
	scheduler.Start()
	return nil
}

func (r *LeadersRefresher) Stop() error {
	if r.scheduler == nil {
		return nil
	}
	return r.scheduler.Shutdown()
}

// RefreshAll rebuilds every phase of every active tournament. A failed scope
// is logged and skipped so one bad tournament cannot starve the rest.
func (r *LeadersRefresher) RefreshAll() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	tournaments, err := r.tournamentRepo.ListByStatus(ctx, models.TournamentActive)
	if err != nil {
		r.logger.Error("leaders refresh: failed to list active tournaments", slog.Any("error", err))
		return
	}

	for _, tournament := range tournaments {
		for _, phase := range refreshedPhases {
			if err := r.refreshScope(ctx, tournament.ID, phase); err != nil {
				r.logger.Error("leaders refresh: scope failed",
					slog.Int("tournament_id", tournament.ID),
					slog.String("phase", string(phase)),
					slog.Any("error", err))
			}
		}
	}
}

func (r *LeadersRefresher) refreshScope(ctx context.Context, tournamentID int, phase models.GamePhase) error {
	leaders, err := r.leadersService.ComputeLeaders(ctx, tournamentID, phase)
	if err != nil {
		return fmt.Errorf("compute leaders: %w", err)
	}

	photoKeys, err := r.photoKeysByRef(ctx, tournamentID)
	if err != nil {
		return fmt.Errorf("load roster photo keys: %w", err)
	}

	now := time.Now()
	rows := make([]models.PrecomputedLeader, 0, len(leaders))
	for i := range leaders {
		rows = append(rows, leaderToRow(tournamentID, phase, &leaders[i], photoKeys, now))
	}

	if err := r.precomputedRepo.ReplaceForTournamentAndPhase(ctx, tournamentID, phase, rows); err != nil {
		return fmt.Errorf("replace precomputed rows: %w", err)
	}

	r.logger.Info("leaders refresh: scope rebuilt",
		slog.Int("tournament_id", tournamentID),
		slog.String("phase", string(phase)),
		slog.Int("rows", len(rows)))
	return nil
}

func (r *LeadersRefresher) photoKeysByRef(ctx context.Context, tournamentID int) (map[models.PlayerRef]*string, error) {
	entries, err := r.playerRepo.ListRosterByTournament(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	keys := make(map[models.PlayerRef]*string, len(entries))
	for _, entry := range entries {
		keys[entry.Ref] = entry.PhotoKey
	}
	return keys, nil
}

// leaderToRow stores raw counters only; percentages and averages are
// rederived when the row is read back.
func leaderToRow(tournamentID int, phase models.GamePhase, leader *models.PlayerLeader, photoKeys map[models.PlayerRef]*string, refreshedAt time.Time) models.PrecomputedLeader {
	row := models.PrecomputedLeader{
		TournamentID: tournamentID,
		Phase:        phase,
		Name:         leader.Name,
		TeamID:       leader.TeamID,
		TeamName:     leader.TeamName,
		PhotoKey:     photoKeys[leader.Player],

		GamesPlayed: leader.GamesPlayed,

		TotalPoints:    leader.TotalPoints,
		TotalRebounds:  leader.TotalRebounds,
		TotalAssists:   leader.TotalAssists,
		TotalSteals:    leader.TotalSteals,
		TotalBlocks:    leader.TotalBlocks,
		TotalTurnovers: leader.TotalTurnovers,
		TotalFouls:     leader.TotalFouls,

		FieldGoalsMade:         leader.FieldGoalsMade,
		FieldGoalsAttempted:    leader.FieldGoalsAttempted,
		ThreePointersMade:      leader.ThreePointersMade,
		ThreePointersAttempted: leader.ThreePointersAttempted,
		FreeThrowsMade:         leader.FreeThrowsMade,
		FreeThrowsAttempted:    leader.FreeThrowsAttempted,

		RefreshedAt: refreshedAt,
	}

	id := leader.Player.ID
	if leader.Player.Custom {
		row.CustomPlayerID = &id
	} else {
		row.PlayerID = &id
	}
	return row
}
