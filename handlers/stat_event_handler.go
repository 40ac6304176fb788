package handlers

import (
	"net/http"

	"github.com/hooplab/courtside/live"
	"github.com/hooplab/courtside/services"
)

type StatEventHandler struct {
	statEvents services.StatEventsService
	hub        *live.Hub
}

func NewStatEventHandler(statEvents services.StatEventsService, hub *live.Hub) *StatEventHandler {
	return &StatEventHandler{statEvents: statEvents, hub: hub}
}

// Record godoc
// @Summary Record one in-game stat event
// @Tags stat-events
// @Accept json
// @Produce json
// @Param input body services.StatEventInput true "stat event payload"
// @Success 201 {object} models.StatEvent
// @Router /games/{gameID}/events [post]
func (h *StatEventHandler) Record(w http.ResponseWriter, r *http.Request) {
	gameID, err := urlParamInt(r, "gameID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.StatEventInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	input.GameID = gameID

	event, update, err := h.statEvents.RecordEvent(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if h.hub != nil {
		h.hub.BroadcastToGame(gameID, live.MessageStatEvent, event)
		if update != nil {
			h.hub.BroadcastToGame(gameID, live.MessageScoreUpdate, update)
		}
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"event": event, "score": update}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *StatEventHandler) ListByGame(w http.ResponseWriter, r *http.Request) {
	gameID, err := urlParamInt(r, "gameID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	events, err := h.statEvents.ListByGame(r.Context(), gameID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"events": events}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
