package handlers

import (
	"errors"
	"net/http"

	"github.com/hooplab/courtside/middleware"
	"github.com/hooplab/courtside/models"
	"github.com/hooplab/courtside/services"
)

const maxPhotoBytes = 5 << 20 // 5MB

type PlayerHandler struct {
	playersService   services.PlayersService
	gameStatsService services.PlayerGameStatsService
}

func NewPlayerHandler(playersService services.PlayersService, gameStatsService services.PlayerGameStatsService) *PlayerHandler {
	return &PlayerHandler{
		playersService:   playersService,
		gameStatsService: gameStatsService,
	}
}

func (h *PlayerHandler) GetPlayer(w http.ResponseWriter, r *http.Request) {
	playerID, err := urlParamInt(r, "playerID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	player, err := h.playersService.GetByID(r.Context(), playerID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"player": player}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GetGameSummaries returns the per-game stat history for a rostered player.
func (h *PlayerHandler) GetGameSummaries(w http.ResponseWriter, r *http.Request) {
	playerID, err := urlParamInt(r, "playerID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	h.writeGameSummaries(w, r, models.RegularPlayerRef(playerID))
}

// GetCustomPlayerGameSummaries is GetGameSummaries for coach-created roster
// entries.
func (h *PlayerHandler) GetCustomPlayerGameSummaries(w http.ResponseWriter, r *http.Request) {
	playerID, err := urlParamInt(r, "playerID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	h.writeGameSummaries(w, r, models.CustomPlayerRef(playerID))
}

func (h *PlayerHandler) writeGameSummaries(w http.ResponseWriter, r *http.Request, ref models.PlayerRef) {
	summaries, err := h.gameStatsService.ListGameSummaries(r.Context(), ref)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"games": summaries}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// SearchRoster godoc
// @Summary Fuzzy search players on a tournament's rosters
// @Tags players
// @Produce json
// @Param tournamentID path int true "tournament id"
// @Param q query string true "name query"
// @Success 200 {array} models.RosterEntry
// @Router /tournaments/{tournamentID}/players/search [get]
func (h *PlayerHandler) SearchRoster(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := urlParamInt(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	results, err := h.playersService.SearchRoster(r.Context(), tournamentID, r.URL.Query().Get("q"))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"players": results}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// UploadPhoto replaces the authenticated player's photo. Players may only
// change their own photo.
func (h *PlayerHandler) UploadPhoto(w http.ResponseWriter, r *http.Request) {
	playerID, err := urlParamInt(r, "playerID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		errorResponse(w, r, http.StatusUnauthorized, err.Error())
		return
	}
	player, err := h.playersService.GetByUserID(r.Context(), userID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if player.ID != playerID {
		errorResponse(w, r, http.StatusForbidden, "players can only change their own photo")
		return
	}

	if err := r.ParseMultipartForm(maxPhotoBytes); err != nil {
		badRequestResponse(w, r, errors.New("expected multipart form with a photo file"))
		return
	}
	file, header, err := r.FormFile("photo")
	if err != nil {
		badRequestResponse(w, r, errors.New("missing photo file"))
		return
	}
	defer file.Close()

	url, err := h.playersService.UploadPhoto(r.Context(), playerID, header.Header.Get("Content-Type"), file)
	if err != nil {
		if errors.Is(err, services.ErrPhotoStorageUnavailable) {
			errorResponse(w, r, http.StatusNotImplemented, err.Error())
			return
		}
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"photo_url": url}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
