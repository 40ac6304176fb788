package handlers

import (
	"net/http"
	"strconv"

	"github.com/hooplab/courtside/boxscore"
	"github.com/hooplab/courtside/models"
	"github.com/hooplab/courtside/services"
)

type LeadersHandler struct {
	leadersService services.TournamentLeadersService
}

func NewLeadersHandler(leadersService services.TournamentLeadersService) *LeadersHandler {
	return &LeadersHandler{leadersService: leadersService}
}

// GetLeaders godoc
// @Summary Ranked statistical leaders for a tournament
// @Tags leaders
// @Produce json
// @Param tournamentID path int true "tournament id"
// @Param category query string true "points|rebounds|assists|steals|blocks|turnovers|games_played|fg_pct|3p_pct|ft_pct"
// @Param phase query string false "all|regular|playoffs|finals (default all)"
// @Param per_mode query string false "per_game|totals (default per_game)"
// @Param min_games query int false "minimum games played (default 1)"
// @Success 200 {array} models.PlayerLeader
// @Router /tournaments/{tournamentID}/leaders [get]
func (h *LeadersHandler) GetLeaders(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := urlParamInt(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	query := services.LeadersQuery{
		TournamentID: tournamentID,
		Category:     boxscore.Category(r.URL.Query().Get("category")),
		Phase:        models.GamePhase(r.URL.Query().Get("phase")),
		PerMode:      boxscore.PerMode(r.URL.Query().Get("per_mode")),
	}
	if raw := r.URL.Query().Get("min_games"); raw != "" {
		minGames, err := strconv.Atoi(raw)
		if err != nil {
			badRequestResponse(w, r, err)
			return
		}
		query.MinGames = minGames
	}

	leaders, err := h.leadersService.GetLeaders(r.Context(), query)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"leaders": leaders}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
