// Package live pushes tournament events to browsers over websockets
package live

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"slices"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
)

const (
	TeamRegistered   = "TEAM_REGISTERED"
	BracketGenerated = "BRACKET_GENERATED"
	MatchUpdated     = "MATCH_UPDATED"
	RoundAdvanced    = "ROUND_ADVANCED"
	TournamentReset  = "TOURNAMENT_RESET"
	StartTimeUpdated = "START_TIME_UPDATED"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
	sendBuffer     = 256
)

// Event is what a browser receives. Game is set for events that belong to one bracket.
type Event struct {
	Type    string `json:"type"`
	Game    string `json:"game,omitempty"`
	Payload any    `json:"payload"`
}

type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
	// empty room follows every game
	room string
}

type message struct {
	game string
	data []byte
}

type Hub struct {
	clients    map[*Client]struct{}
	broadcast  chan message
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	count      atomic.Int64
	upgrader   websocket.Upgrader
}

// NewHub accepts websocket upgrades from the given origins, any origin when the list is empty
func NewHub(allowedOrigins []string) *Hub {
	h := &Hub{
		clients:    make(map[*Client]struct{}),
		broadcast:  make(chan message, sendBuffer),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			return len(allowedOrigins) == 0 || origin == "" || slices.Contains(allowedOrigins, origin)
		},
	}
	return h
}

// Run owns the client set until ctx is cancelled. It must only be called once.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		h.count.Store(int64(len(h.clients)))

		select {
		case <-ctx.Done():
			for client := range h.clients {
				close(client.send)
				delete(h.clients, client)
			}
			h.count.Store(0)
			return

		case client := <-h.register:
			h.clients[client] = struct{}{}
			slog.Debug("live client registered", "room", client.room, "clients", len(h.clients))

		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				slog.Debug("live client unregistered", "room", client.room, "clients", len(h.clients))
			}

		case msg := <-h.broadcast:
			for client := range h.clients {
				if client.room != "" && msg.game != "" && client.room != msg.game {
					continue
				}
				select {
				case client.send <- msg.data:
				default:
					// slow reader, drop it rather than stall everybody else
					delete(h.clients, client)
					close(client.send)
					slog.Warn("live client dropped, send buffer full", "room", client.room)
				}
			}
		}
	}
}

// Clients is the number of connected browsers
func (h *Hub) Clients() int {
	return int(h.count.Load())
}

// Publish queues an event without blocking the caller
func (h *Hub) Publish(evt Event) {
	data, err := json.Marshal(evt)
	if err != nil {
		slog.Error("marshal live event", "type", evt.Type, "error", err)
		return
	}

	select {
	case h.broadcast <- message{game: evt.Game, data: data}:
	default:
		slog.Warn("live broadcast queue full, event dropped", "type", evt.Type)
	}
}

// ServeWS upgrades the request. The optional game query parameter narrows the feed to one bracket.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already answered the client
		slog.Warn("websocket upgrade failed", "error", err)
		return
	}

	client := &Client{
		hub:  h,
		conn: conn,
		send: make(chan []byte, sendBuffer),
		room: r.URL.Query().Get("game"),
	}

	select {
	case h.register <- client:
	case <-h.done:
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()
}

// readPump only exists to process pings and notice disconnects, browsers never send anything useful
func (c *Client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
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
				slog.Warn("live client read", "error", err)
			}
			return
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
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
