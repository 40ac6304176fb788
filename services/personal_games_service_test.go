package services

import (
	"context"
	"testing"
	"time"

	"github.com/hooplab/courtside/models"
	"github.com/hooplab/courtside/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePersonalGameRepo struct {
	games  map[int]*models.PersonalGame
	nextID int
}

func newFakePersonalGameRepo() *fakePersonalGameRepo {
	return &fakePersonalGameRepo{games: make(map[int]*models.PersonalGame), nextID: 1}
}

func (r *fakePersonalGameRepo) Create(_ context.Context, game *models.PersonalGame) error {
	game.ID = r.nextID
	r.nextID++
	stored := *game
	r.games[game.ID] = &stored
	return nil
}

func (r *fakePersonalGameRepo) GetByID(_ context.Context, id int) (*models.PersonalGame, error) {
	game, ok := r.games[id]
	if !ok {
		return nil, repositories.ErrPersonalGameNotFound
	}
	copied := *game
	return &copied, nil
}

func (r *fakePersonalGameRepo) Update(_ context.Context, game *models.PersonalGame) error {
	if _, ok := r.games[game.ID]; !ok {
		return repositories.ErrPersonalGameNotFound
	}
	stored := *game
	r.games[game.ID] = &stored
	return nil
}

func (r *fakePersonalGameRepo) Delete(_ context.Context, id int) error {
	if _, ok := r.games[id]; !ok {
		return repositories.ErrPersonalGameNotFound
	}
	delete(r.games, id)
	return nil
}

func (r *fakePersonalGameRepo) ListByPlayer(_ context.Context, playerID int, publicOnly bool) ([]models.PersonalGame, error) {
	result := make([]models.PersonalGame, 0)
	for _, game := range r.games {
		if game.PlayerID != playerID {
			continue
		}
		if publicOnly && !game.IsPublic {
			continue
		}
		result = append(result, *game)
	}
	return result, nil
}

func (r *fakePersonalGameRepo) CountByPlayerOnDate(_ context.Context, playerID int, day time.Time) (int, error) {
	count := 0
	for _, game := range r.games {
		if game.PlayerID == playerID && game.GameDate.Format("2006-01-02") == day.Format("2006-01-02") {
			count++
		}
	}
	return count, nil
}

func newTestPersonalGamesService(repo repositories.PersonalGameRepository, now time.Time) *personalGamesService {
	return &personalGamesService{repo: repo, now: func() time.Time { return now }}
}

func validPersonalGameInput() PersonalGameInput {
	return PersonalGameInput{
		GameDate:               "2026-08-30",
		Points:                 23,
		Rebounds:               10,
		Assists:                4,
		FieldGoalsMade:         8,
		FieldGoalsAttempted:    15,
		ThreePointersMade:      2,
		ThreePointersAttempted: 5,
		FreeThrowsMade:         5,
		FreeThrowsAttempted:    6,
		IsPublic:               true,
	}
}

func TestValidateAcceptsReasonableGame(t *testing.T) {
	svc := newTestPersonalGamesService(newFakePersonalGameRepo(), time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC))
	assert.Nil(t, svc.Validate(validPersonalGameInput()))
}

func TestValidateCollectsAllViolations(t *testing.T) {
	svc := newTestPersonalGamesService(newFakePersonalGameRepo(), time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC))

	input := validPersonalGameInput()
	input.GameDate = "2026-09-15" // future
	input.FieldGoalsMade = 20
	input.FieldGoalsAttempted = 10
	input.Fouls = 9

	verr := svc.Validate(input)
	require.NotNil(t, verr)
	assert.Len(t, verr.Violations, 3)
	assert.Contains(t, verr.Error(), "field goals made cannot exceed field goals attempted")
	assert.Contains(t, verr.Error(), "future")
	assert.Contains(t, verr.Error(), "fouls")
}

func TestValidateRejectsMalformedDate(t *testing.T) {
	svc := newTestPersonalGamesService(newFakePersonalGameRepo(), time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC))

	input := validPersonalGameInput()
	input.GameDate = "yesterday"

	verr := svc.Validate(input)
	require.NotNil(t, verr)
	assert.Len(t, verr.Violations, 1)
}

func TestValidateAllowsGameEarlierToday(t *testing.T) {
	svc := newTestPersonalGamesService(newFakePersonalGameRepo(), time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC))

	input := validPersonalGameInput()
	input.GameDate = "2026-09-01"

	assert.Nil(t, svc.Validate(input))
}

func TestCreateStoresGame(t *testing.T) {
	repo := newFakePersonalGameRepo()
	svc := newTestPersonalGamesService(repo, time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC))

	game, err := svc.Create(context.Background(), 7, validPersonalGameInput())
	require.NoError(t, err)
	assert.Equal(t, 7, game.PlayerID)
	assert.NotZero(t, game.ID)
	assert.Equal(t, 2026, game.GameDate.Year())
}

func TestCreateEnforcesDailyLimit(t *testing.T) {
	repo := newFakePersonalGameRepo()
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	svc := newTestPersonalGamesService(repo, now)

	input := validPersonalGameInput()
	input.GameDate = "2026-09-01"
	for i := 0; i < dailyPersonalGameLimit; i++ {
		_, err := svc.Create(context.Background(), 7, input)
		require.NoError(t, err)
	}

	_, err := svc.Create(context.Background(), 7, input)
	assert.ErrorIs(t, err, ErrRateLimited)

	// A different player is not affected by player 7's cap.
	_, err = svc.Create(context.Background(), 8, input)
	assert.NoError(t, err)
}

func TestUpdateRejectsOtherPlayersGame(t *testing.T) {
	repo := newFakePersonalGameRepo()
	svc := newTestPersonalGamesService(repo, time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC))

	game, err := svc.Create(context.Background(), 7, validPersonalGameInput())
	require.NoError(t, err)

	_, err = svc.Update(context.Background(), 8, game.ID, validPersonalGameInput())
	assert.ErrorIs(t, err, ErrForbidden)

	err = svc.Delete(context.Background(), 8, game.ID)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestDeleteMissingGame(t *testing.T) {
	svc := newTestPersonalGamesService(newFakePersonalGameRepo(), time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC))
	err := svc.Delete(context.Background(), 7, 999)
	assert.ErrorIs(t, err, ErrPersonalGameNotFound)
}

func TestListByPlayerFiltersPrivateGames(t *testing.T) {
	repo := newFakePersonalGameRepo()
	svc := newTestPersonalGamesService(repo, time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC))

	public := validPersonalGameInput()
	private := validPersonalGameInput()
	private.IsPublic = false

	_, err := svc.Create(context.Background(), 7, public)
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), 7, private)
	require.NoError(t, err)

	visible, err := svc.ListByPlayer(context.Background(), 7, false)
	require.NoError(t, err)
	assert.Len(t, visible, 1)

	all, err := svc.ListByPlayer(context.Background(), 7, true)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestCalculateGameStats(t *testing.T) {
	svc := newTestPersonalGamesService(newFakePersonalGameRepo(), time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC))

	game := &models.PersonalGame{
		Points:                 13,
		Rebounds:               6,
		FieldGoalsMade:         4,
		FieldGoalsAttempted:    10,
		ThreePointersMade:      2,
		ThreePointersAttempted: 4,
		FreeThrowsMade:         3,
		FreeThrowsAttempted:    4,
	}

	stats := svc.CalculateGameStats(game)
	assert.InDelta(t, 40.0, stats.FieldGoalPct, 0.01)
	assert.InDelta(t, 50.0, stats.ThreePointPct, 0.01)
	assert.InDelta(t, 75.0, stats.FreeThrowPct, 0.01)
	// eFG%: (4 + 0.5*2) / 10 = 50.0
	assert.InDelta(t, 50.0, stats.EffectiveFieldGoalPct, 0.01)
	assert.Equal(t, "13 PTS, 6 REB", stats.StatLine)
}

func TestCalculateGameStatsEmptyLine(t *testing.T) {
	svc := newTestPersonalGamesService(newFakePersonalGameRepo(), time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC))

	stats := svc.CalculateGameStats(&models.PersonalGame{})
	assert.Equal(t, "0 PTS", stats.StatLine)
	assert.Zero(t, stats.FieldGoalPct)
	assert.Zero(t, stats.EffectiveFieldGoalPct)
}
