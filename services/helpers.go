package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/hooplab/courtside/models"
	"github.com/hooplab/courtside/repositories"
	"github.com/hooplab/courtside/storage"
	"golang.org/x/sync/semaphore"
)

// maxConcurrentGameFetches bounds the per-game scatter so a tournament with
// hundreds of games does not open that many simultaneous queries.
const maxConcurrentGameFetches = 8

// fetchEventsByGame scatter-gathers one events query per game id and returns
// the flattened result. A failed game query is logged and contributes zero
// rows; it never cancels the sibling fetches or fails the batch. One bad
// game record should not blank a whole leaderboard.
func fetchEventsByGame(ctx context.Context, eventRepo repositories.StatEventRepository, gameIDs []int, logger *slog.Logger) []models.StatEvent {
	sem := semaphore.NewWeighted(maxConcurrentGameFetches)
	var wg sync.WaitGroup
	var mu sync.Mutex
	events := make([]models.StatEvent, 0)

	for _, gameID := range gameIDs {
		if err := sem.Acquire(ctx, 1); err != nil {
			// Caller's context is gone; whatever gathered so far is moot.
			break
		}
		wg.Add(1)
		go func(gameID int) {
			defer wg.Done()
			defer sem.Release(1)

			gameEvents, err := eventRepo.ListByGame(ctx, gameID)
			if err != nil {
				if logger != nil {
					logger.WarnContext(ctx, "failed to fetch events for game, skipping",
						slog.Int("game_id", gameID), slog.Any("error", err))
				}
				return
			}

			mu.Lock()
			events = append(events, gameEvents...)
			mu.Unlock()
		}(gameID)
	}

	wg.Wait()
	return events
}

// wrapRepoError tags connection-level repository failures as retryable.
func wrapRepoError(op string, err error) error {
	if repositories.IsTransient(err) {
		return fmt.Errorf("%s: %w: %v", op, ErrTransient, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func populatePhotoURL(photoKey *string, uploader storage.FileUploader) *string {
	if photoKey == nil || *photoKey == "" || uploader == nil {
		return nil
	}
	url := uploader.GetPublicURL(*photoKey)
	if url == "" {
		return nil
	}
	return &url
}
