// Package cache provides the leaderboard result cache as an injected
// collaborator, so services stay testable without clearing module-level
// state between tests.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hooplab/courtside/models"
)

// ErrCacheMiss is returned when a key is absent or expired. Callers treat it
// (and any other cache error) as "recompute", never as a request failure.
var ErrCacheMiss = errors.New("cache miss")

// DefaultLeadersTTL bounds how stale a served leaderboard can be.
const DefaultLeadersTTL = 5 * time.Minute

type LeadersCache interface {
	Get(ctx context.Context, key string) ([]models.PlayerLeader, error)
	Set(ctx context.Context, key string, leaders []models.PlayerLeader) error
}

// LeadersKey builds the cache key for one fully-specified leaderboard query.
// Every dimension that changes the result set is part of the key.
func LeadersKey(tournamentID int, phase models.GamePhase, category, perMode string, minGames int) string {
	return fmt.Sprintf("leaders:%d:%s:%s:%s:%d", tournamentID, phase, category, perMode, minGames)
}
