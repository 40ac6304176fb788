// Package live pushes in-game updates to websocket subscribers. Clients
// subscribe to a single game; every stored stat event fans out as a score
// update to that game's room.
package live

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

// Message types pushed to subscribers.
const (
	MessageScoreUpdate = "SCORE_UPDATE"
	MessageStatEvent   = "STAT_EVENT"
)

type Message struct {
	Type    string      `json:"type"`
	GameID  int         `json:"game_id"`
	Payload interface{} `json:"payload"`
}

type Client struct {
	id     string
	hub    *Hub
	conn   *websocket.Conn
	send   chan []byte
	gameID int

	mu     sync.Mutex
	closed bool
}

func NewClient(hub *Hub, conn *websocket.Conn, gameID int) *Client {
	return &Client{
		id:     uuid.NewString(),
		hub:    hub,
		conn:   conn,
		send:   make(chan []byte, 16),
		gameID: gameID,
	}
}

// Hub routes messages to per-game rooms. Register/unregister go through
// channels serviced by Run; broadcasts take the room map read lock directly.
type Hub struct {
	register   chan *Client
	unregister chan *Client

	mu     sync.RWMutex
	rooms  map[int]map[*Client]struct{}
	logger *slog.Logger
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		rooms:      make(map[int]map[*Client]struct{}),
		logger:     logger,
	}
}

func (h *Hub) Register(c *Client) { h.register <- c }

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			room, ok := h.rooms[client.gameID]
			if !ok {
				room = make(map[*Client]struct{})
				h.rooms[client.gameID] = room
			}
			room[client] = struct{}{}
			size := len(room)
			h.mu.Unlock()
			h.logger.Info("live client subscribed",
				slog.String("client_id", client.id),
				slog.Int("game_id", client.gameID),
				slog.Int("room_size", size))

		case client := <-h.unregister:
			h.mu.Lock()
			if room, ok := h.rooms[client.gameID]; ok {
				if _, subscribed := room[client]; subscribed {
					client.closeSend()
					delete(room, client)
					if len(room) == 0 {
						delete(h.rooms, client.gameID)
					}
				}
			}
			h.mu.Unlock()
			h.logger.Info("live client unsubscribed",
				slog.String("client_id", client.id),
				slog.Int("game_id", client.gameID))
		}
	}
}

// BroadcastToGame sends one message to every subscriber of a game. Clients
// with a full send buffer are skipped; a slow consumer only loses its own
// updates.
func (h *Hub) BroadcastToGame(gameID int, messageType string, payload interface{}) {
	raw, err := json.Marshal(Message{Type: messageType, GameID: gameID, Payload: payload})
	if err != nil {
		h.logger.Error("failed to marshal live message",
			slog.Int("game_id", gameID), slog.Any("error", err))
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.rooms[gameID] {
		client.mu.Lock()
		if client.closed {
			client.mu.Unlock()
			continue
		}
		select {
		case client.send <- raw:
		default:
			h.logger.Warn("live client send buffer full, dropping message",
				slog.String("client_id", client.id), slog.Int("game_id", gameID))
		}
		client.mu.Unlock()
	}
}

func (c *Client) closeSend() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		close(c.send)
		c.closed = true
	}
}

// ReadPump drains the connection until the client disconnects. Inbound
// payloads are ignored; the stream is one-directional.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.logger.Warn("live client read error",
					slog.String("client_id", c.id), slog.Any("error", err))
			}
			return
		}
	}
}

func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
