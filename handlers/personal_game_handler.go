package handlers

import (
	"net/http"

	"github.com/hooplab/courtside/middleware"
	"github.com/hooplab/courtside/models"
	"github.com/hooplab/courtside/services"
)

type PersonalGameHandler struct {
	personalGames services.PersonalGamesService
	players       services.PlayersService
}

func NewPersonalGameHandler(personalGames services.PersonalGamesService, players services.PlayersService) *PersonalGameHandler {
	return &PersonalGameHandler{
		personalGames: personalGames,
		players:       players,
	}
}

// currentPlayer resolves the authenticated user's player profile; personal
// games always belong to the caller, never to an id from the URL.
func (h *PersonalGameHandler) currentPlayer(w http.ResponseWriter, r *http.Request) (*models.Player, bool) {
	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		errorResponse(w, r, http.StatusUnauthorized, err.Error())
		return nil, false
	}
	player, err := h.players.GetByUserID(r.Context(), userID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return nil, false
	}
	return player, true
}

type personalGameEnvelope struct {
	Game  *models.PersonalGame     `json:"game"`
	Stats models.PersonalGameStats `json:"stats"`
}

func (h *PersonalGameHandler) envelope(game *models.PersonalGame) personalGameEnvelope {
	return personalGameEnvelope{Game: game, Stats: h.personalGames.CalculateGameStats(game)}
}

// Create godoc
// @Summary Log a personal game for the authenticated player
// @Tags personal-games
// @Accept json
// @Produce json
// @Param input body services.PersonalGameInput true "personal game payload"
// @Success 201 {object} models.PersonalGame
// @Router /me/personal-games [post]
func (h *PersonalGameHandler) Create(w http.ResponseWriter, r *http.Request) {
	player, ok := h.currentPlayer(w, r)
	if !ok {
		return
	}

	var input services.PersonalGameInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	game, err := h.personalGames.Create(r.Context(), player.ID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, h.envelope(game), nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *PersonalGameHandler) Update(w http.ResponseWriter, r *http.Request) {
	player, ok := h.currentPlayer(w, r)
	if !ok {
		return
	}
	gameID, err := urlParamInt(r, "gameID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.PersonalGameInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	game, err := h.personalGames.Update(r.Context(), player.ID, gameID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, h.envelope(game), nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *PersonalGameHandler) Delete(w http.ResponseWriter, r *http.Request) {
	player, ok := h.currentPlayer(w, r)
	if !ok {
		return
	}
	gameID, err := urlParamInt(r, "gameID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.personalGames.Delete(r.Context(), player.ID, gameID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListMine returns the caller's personal games, private ones included.
func (h *PersonalGameHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	player, ok := h.currentPlayer(w, r)
	if !ok {
		return
	}

	games, err := h.personalGames.ListByPlayer(r.Context(), player.ID, true)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	h.writeGameList(w, r, games)
}

// ListPublic returns another player's public personal games.
func (h *PersonalGameHandler) ListPublic(w http.ResponseWriter, r *http.Request) {
	playerID, err := urlParamInt(r, "playerID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	games, err := h.personalGames.ListByPlayer(r.Context(), playerID, false)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	h.writeGameList(w, r, games)
}

func (h *PersonalGameHandler) writeGameList(w http.ResponseWriter, r *http.Request, games []models.PersonalGame) {
	envelopes := make([]personalGameEnvelope, len(games))
	for i := range games {
		envelopes[i] = h.envelope(&games[i])
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"games": envelopes}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
