package services

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/hooplab/courtside/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type gameStatsFixture struct {
	gameRepo   *fakeGameRepo
	eventRepo  *fakeStatEventRepo
	playerRepo *fakePlayerRepo
	teamRepo   *fakeTeamRepo
	svc        PlayerGameStatsService
}

func newGameStatsFixture() *gameStatsFixture {
	teamID := 10
	f := &gameStatsFixture{
		gameRepo: &fakeGameRepo{games: []models.Game{
			{ID: 1, TournamentID: 1, TeamAID: 10, TeamBID: 20, Status: models.GameCompleted, Phase: models.PhaseRegular},
			{ID: 2, TournamentID: 1, TeamAID: 20, TeamBID: 10, Status: models.GameInProgress, Phase: models.PhasePlayoffs},
		}},
		eventRepo: &fakeStatEventRepo{
			eventsByGame: map[int][]models.StatEvent{},
			failGames:    map[int]bool{},
		},
		playerRepo: &fakePlayerRepo{
			players: map[int]*models.Player{
				1: {ID: 1, UserID: 100, TeamID: &teamID, FirstName: "Ava", LastName: "Stone"},
			},
			customs: map[int]*models.CustomPlayer{
				5: {ID: 5, TeamID: 10, Name: "Guest Player"},
			},
		},
		teamRepo: &fakeTeamRepo{teams: []models.Team{
			{ID: 10, TournamentID: 1, Name: "Hawks"},
			{ID: 20, TournamentID: 1, Name: "Wolves"},
		}},
	}
	f.svc = NewPlayerGameStatsService(
		f.playerRepo, f.gameRepo, f.eventRepo, f.teamRepo,
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)
	return f
}

func (f *gameStatsFixture) addShot(gameID int, ref models.PlayerRef, teamID int, statType models.StatType, made bool) {
	modifier := models.ModifierMissed
	if made {
		modifier = models.ModifierMade
	}
	ev := models.StatEvent{
		GameID:   gameID,
		TeamID:   teamID,
		Type:     statType,
		Modifier: &modifier,
		Quarter:  1,
	}
	id := ref.ID
	if ref.Custom {
		ev.CustomPlayerID = &id
	} else {
		ev.PlayerID = &id
	}
	f.eventRepo.eventsByGame[gameID] = append(f.eventRepo.eventsByGame[gameID], ev)
}

func TestListGameSummariesBoxScoreAndResult(t *testing.T) {
	f := newGameStatsFixture()
	player := models.RegularPlayerRef(1)

	// Game 1: player scores 5, opponent scores 2, so a win.
	f.addShot(1, player, 10, models.StatThreePointer, true)
	f.addShot(1, player, 10, models.StatFieldGoal, true)
	f.addShot(1, player, 10, models.StatFieldGoal, false)
	f.addShot(1, models.RegularPlayerRef(2), 20, models.StatFieldGoal, true)

	summaries, err := f.svc.ListGameSummaries(context.Background(), player)
	require.NoError(t, err)
	require.Len(t, summaries, 1)

	s := summaries[0]
	assert.Equal(t, 1, s.GameID)
	assert.Equal(t, "Wolves", s.Opponent)
	assert.Equal(t, models.ResultWin, s.Result)
	assert.Equal(t, "5-2", s.FinalScore)
	assert.Equal(t, 5, s.Points)
	assert.Equal(t, 2, s.FieldGoalsMade)
	assert.Equal(t, 3, s.FieldGoalsAttempted)
	assert.InDelta(t, 66.7, s.FieldGoalPct, 0.01)
	assert.InDelta(t, 100.0, s.ThreePointPct, 0.01)
}

func TestListGameSummariesLossAndScorePerspective(t *testing.T) {
	f := newGameStatsFixture()
	player := models.RegularPlayerRef(1)

	f.addShot(1, player, 10, models.StatFieldGoal, true)
	f.addShot(1, models.RegularPlayerRef(2), 20, models.StatThreePointer, true)
	f.addShot(1, models.RegularPlayerRef(2), 20, models.StatFieldGoal, true)

	summaries, err := f.svc.ListGameSummaries(context.Background(), player)
	require.NoError(t, err)
	require.Len(t, summaries, 1)

	// Score reads from the player's side: their 2, opponents' 5.
	assert.Equal(t, "2-5", summaries[0].FinalScore)
	assert.Equal(t, models.ResultLoss, summaries[0].Result)
}

func TestListGameSummariesLiveGame(t *testing.T) {
	f := newGameStatsFixture()
	player := models.RegularPlayerRef(1)

	// Game 2 is in progress and the player's team is team B there.
	f.addShot(2, player, 10, models.StatFreeThrow, true)

	summaries, err := f.svc.ListGameSummaries(context.Background(), player)
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, models.ResultLive, summaries[0].Result)
	assert.Equal(t, "1-0", summaries[0].FinalScore)
	assert.Equal(t, "Wolves", summaries[0].Opponent)
}

func TestListGameSummariesSkipsGamesWithoutEvents(t *testing.T) {
	f := newGameStatsFixture()
	player := models.RegularPlayerRef(1)

	f.addShot(1, player, 10, models.StatFieldGoal, true)
	// Game 2 has events, but none for this player.
	f.addShot(2, models.RegularPlayerRef(2), 20, models.StatFieldGoal, true)

	summaries, err := f.svc.ListGameSummaries(context.Background(), player)
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, 1, summaries[0].GameID)
}

func TestListGameSummariesToleratesBrokenGame(t *testing.T) {
	f := newGameStatsFixture()
	player := models.RegularPlayerRef(1)

	f.addShot(1, player, 10, models.StatFieldGoal, true)
	f.addShot(2, player, 10, models.StatFieldGoal, true)
	f.eventRepo.failGames[2] = true

	summaries, err := f.svc.ListGameSummaries(context.Background(), player)
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, 1, summaries[0].GameID)
}

func TestListGameSummariesCustomPlayer(t *testing.T) {
	f := newGameStatsFixture()
	custom := models.CustomPlayerRef(5)

	f.addShot(1, custom, 10, models.StatFieldGoal, true)
	// A regular player with the same numeric id must not bleed in.
	f.addShot(1, models.RegularPlayerRef(5), 20, models.StatFieldGoal, true)

	summaries, err := f.svc.ListGameSummaries(context.Background(), custom)
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, 2, summaries[0].Points)
	assert.Equal(t, 1, summaries[0].FieldGoalsMade)
}

func TestListGameSummariesUnknownPlayer(t *testing.T) {
	f := newGameStatsFixture()

	_, err := f.svc.ListGameSummaries(context.Background(), models.RegularPlayerRef(999))
	assert.ErrorIs(t, err, ErrPlayerNotFound)
}

func TestListGameSummariesPlayerWithoutTeam(t *testing.T) {
	f := newGameStatsFixture()
	f.playerRepo.players[3] = &models.Player{ID: 3, UserID: 101, FirstName: "Ben"}

	summaries, err := f.svc.ListGameSummaries(context.Background(), models.RegularPlayerRef(3))
	require.NoError(t, err)
	assert.Empty(t, summaries)
}
