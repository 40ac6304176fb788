package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/hooplab/courtside/models"
	"github.com/hooplab/courtside/repositories"
	"github.com/hooplab/courtside/storage"
	"github.com/lithammer/fuzzysearch/fuzzy"
)

// maxSearchResults caps how many roster matches a search returns.
const maxSearchResults = 25

var ErrPhotoStorageUnavailable = errors.New("photo storage is not configured")

type PlayersService interface {
	GetByID(ctx context.Context, id int) (*models.Player, error)
	GetByUserID(ctx context.Context, userID int) (*models.Player, error)

	// SearchRoster fuzzy-matches a query against the names on a tournament's
	// rosters, best matches first.
	SearchRoster(ctx context.Context, tournamentID int, query string) ([]models.RosterEntry, error)

	// UploadPhoto stores a player photo and records its key, replacing any
	// previous photo. Returns the public URL.
	UploadPhoto(ctx context.Context, playerID int, contentType string, body io.Reader) (string, error)
}

type playersService struct {
	playerRepo repositories.PlayerRepository
	uploader   storage.FileUploader
}

func NewPlayersService(playerRepo repositories.PlayerRepository, uploader storage.FileUploader) PlayersService {
	return &playersService{playerRepo: playerRepo, uploader: uploader}
}

func (s *playersService) GetByID(ctx context.Context, id int) (*models.Player, error) {
	player, err := s.playerRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrPlayerNotFound) {
			return nil, ErrPlayerNotFound
		}
		return nil, wrapRepoError("get player", err)
	}
	player.PhotoURL = populatePhotoURL(player.PhotoKey, s.uploader)
	return player, nil
}

func (s *playersService) GetByUserID(ctx context.Context, userID int) (*models.Player, error) {
	player, err := s.playerRepo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrPlayerNotFound) {
			return nil, ErrPlayerNotFound
		}
		return nil, wrapRepoError("get player by user", err)
	}
	player.PhotoURL = populatePhotoURL(player.PhotoKey, s.uploader)
	return player, nil
}

func (s *playersService) SearchRoster(ctx context.Context, tournamentID int, query string) ([]models.RosterEntry, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, newValidationError([]string{"search query cannot be empty"})
	}

	entries, err := s.playerRepo.ListRosterByTournament(ctx, tournamentID)
	if err != nil {
		return nil, wrapRepoError("list tournament roster", err)
	}

	type scored struct {
		entry models.RosterEntry
		rank  int
	}
	matches := make([]scored, 0)
	for _, entry := range entries {
		rank := fuzzy.RankMatchNormalizedFold(query, entry.Name)
		if rank < 0 {
			continue
		}
		matches = append(matches, scored{entry: entry, rank: rank})
	}
	sort.SliceStable(matches, func(i, j int) bool { return matches[i].rank < matches[j].rank })

	if len(matches) > maxSearchResults {
		matches = matches[:maxSearchResults]
	}
	result := make([]models.RosterEntry, len(matches))
	for i, m := range matches {
		entry := m.entry
		entry.PhotoURL = populatePhotoURL(entry.PhotoKey, s.uploader)
		result[i] = entry
	}
	return result, nil
}

func (s *playersService) UploadPhoto(ctx context.Context, playerID int, contentType string, body io.Reader) (string, error) {
	if s.uploader == nil {
		return "", ErrPhotoStorageUnavailable
	}
	if contentType != "image/jpeg" && contentType != "image/png" && contentType != "image/webp" {
		return "", newValidationError([]string{fmt.Sprintf("unsupported photo content type %q", contentType)})
	}

	player, err := s.playerRepo.GetByID(ctx, playerID)
	if err != nil {
		if errors.Is(err, repositories.ErrPlayerNotFound) {
			return "", ErrPlayerNotFound
		}
		return "", wrapRepoError("get player", err)
	}

	key := fmt.Sprintf("players/%d/%s", playerID, uuid.NewString())
	result, err := s.uploader.Upload(ctx, key, contentType, body)
	if err != nil {
		return "", fmt.Errorf("upload player photo: %w", err)
	}

	if err := s.playerRepo.UpdatePhotoKey(ctx, playerID, &result.Key); err != nil {
		return "", wrapRepoError("update player photo key", err)
	}

	// Old photo cleanup is best effort; an orphaned object is harmless.
	if player.PhotoKey != nil && *player.PhotoKey != "" {
		_ = s.uploader.Delete(ctx, *player.PhotoKey)
	}
	return result.Location, nil
}
