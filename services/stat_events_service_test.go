package services

import (
	"context"
	"testing"

	"github.com/hooplab/courtside/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStatEventsFixture() (*fakeGameRepo, *fakeStatEventRepo, StatEventsService) {
	gameRepo := &fakeGameRepo{games: []models.Game{
		{ID: 1, TournamentID: 1, TeamAID: 10, TeamBID: 20, Status: models.GameInProgress, Phase: models.PhaseRegular},
		{ID: 2, TournamentID: 1, TeamAID: 10, TeamBID: 20, Status: models.GameScheduled, Phase: models.PhaseRegular},
	}}
	eventRepo := &fakeStatEventRepo{
		eventsByGame: map[int][]models.StatEvent{},
		failGames:    map[int]bool{},
	}
	return gameRepo, eventRepo, NewStatEventsService(eventRepo, gameRepo)
}

func madeModifier() *models.StatModifier {
	m := models.ModifierMade
	return &m
}

func TestRecordEventStoresAndScores(t *testing.T) {
	_, eventRepo, svc := newStatEventsFixture()
	playerID := 1

	event, update, err := svc.RecordEvent(context.Background(), StatEventInput{
		GameID:   1,
		PlayerID: &playerID,
		TeamID:   10,
		Type:     models.StatThreePointer,
		Modifier: madeModifier(),
		Quarter:  2,
	})
	require.NoError(t, err)
	assert.NotZero(t, event.ID)
	assert.Len(t, eventRepo.eventsByGame[1], 1)

	require.NotNil(t, update)
	assert.Equal(t, 3, update.TeamAScore)
	assert.Equal(t, 0, update.TeamBScore)
}

func TestRecordEventCollectsViolations(t *testing.T) {
	_, _, svc := newStatEventsFixture()
	playerID := 1
	customID := 2

	_, _, err := svc.RecordEvent(context.Background(), StatEventInput{
		GameID:         2, // scheduled, not in progress
		PlayerID:       &playerID,
		CustomPlayerID: &customID, // both ids set
		TeamID:         30,        // not playing
		Type:           models.StatThreePointer,
		// shot without modifier
		Quarter: 1,
	})

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Len(t, verr.Violations, 4)
}

func TestRecordEventUnknownGame(t *testing.T) {
	_, _, svc := newStatEventsFixture()
	playerID := 1

	_, _, err := svc.RecordEvent(context.Background(), StatEventInput{
		GameID:   99,
		PlayerID: &playerID,
		TeamID:   10,
		Type:     models.StatRebound,
		Quarter:  1,
	})
	assert.ErrorIs(t, err, ErrGameNotFound)
}

func TestRecordEventCountingStat(t *testing.T) {
	_, _, svc := newStatEventsFixture()
	playerID := 1

	event, update, err := svc.RecordEvent(context.Background(), StatEventInput{
		GameID:   1,
		PlayerID: &playerID,
		TeamID:   20,
		Type:     models.StatRebound,
		Quarter:  3,
	})
	require.NoError(t, err)
	assert.Equal(t, models.StatRebound, event.Type)

	// Rebounds never move the scoreboard.
	require.NotNil(t, update)
	assert.Zero(t, update.TeamAScore)
	assert.Zero(t, update.TeamBScore)
}
