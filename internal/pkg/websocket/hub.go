// Package websocket streams dataset change events to connected browsers.
// Clients join the room of their college and only see that college's events.
package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/yigit/hirelytics/internal/pkg/events"
)

// Hub maintains the set of active clients and broadcasts events to them.
// It implements events.Publisher.
type Hub struct {
	// Registered clients organized by college code. Only Run mutates it.
	clients map[string]map[*Client]struct{}

	broadcast  chan events.Event
	register   chan *Client
	unregister chan *Client

	done      chan struct{}
	closeOnce sync.Once

	// Guards counts, the read-only view of clients.
	mu     sync.RWMutex
	counts map[string]int

	upgrader websocket.Upgrader
	logger   zerolog.Logger
}

// NewHub creates a new Hub instance. Call Run to start it.
func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		clients:    make(map[string]map[*Client]struct{}),
		broadcast:  make(chan events.Event),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		counts:     make(map[string]int),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		logger: logger,
	}
}

// Run handles client registrations and broadcasts until Close is called.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case ev := <-h.broadcast:
			h.broadcastEvent(ev)

		case <-h.done:
			for _, room := range h.clients {
				for client := range room {
					h.unregisterClient(client)
				}
			}
			return
		}
	}
}

// Serve upgrades the request and joins the connection to the college's room.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request, collegeCode string) error {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}

	client := &Client{
		hub:         h,
		conn:        conn,
		send:        make(chan []byte, sendBuffer),
		collegeCode: collegeCode,
		logger:      h.logger,
	}

	select {
	case h.register <- client:
	case <-h.done:
		conn.Close()
		return nil
	}

	go client.writePump()
	go client.readPump()
	return nil
}

// Publish delivers ev to every client of its college.
func (h *Hub) Publish(ctx context.Context, ev events.Event) error {
	select {
	case h.broadcast <- ev:
		return nil
	case <-h.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close disconnects all clients and stops Run.
func (h *Hub) Close() error {
	h.closeOnce.Do(func() { close(h.done) })
	return nil
}

// ClientCount returns the number of connected clients of a college.
func (h *Hub) ClientCount(collegeCode string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.counts[collegeCode]
}

func (h *Hub) leave(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

func (h *Hub) registerClient(client *Client) {
	room, ok := h.clients[client.collegeCode]
	if !ok {
		room = make(map[*Client]struct{})
		h.clients[client.collegeCode] = room
	}
	room[client] = struct{}{}
	h.setCount(client.collegeCode, len(room))

	h.logger.Info().
		Str("college", client.collegeCode).
		Str("addr", client.conn.RemoteAddr().String()).
		Msg("Client registered")
}

func (h *Hub) unregisterClient(client *Client) {
	room, ok := h.clients[client.collegeCode]
	if !ok {
		return
	}
	if _, ok := room[client]; !ok {
		return
	}

	delete(room, client)
	close(client.send)
	if len(room) == 0 {
		delete(h.clients, client.collegeCode)
	}
	h.setCount(client.collegeCode, len(room))

	h.logger.Info().
		Str("college", client.collegeCode).
		Str("addr", client.conn.RemoteAddr().String()).
		Msg("Client unregistered")
}

func (h *Hub) broadcastEvent(ev events.Event) {
	room, ok := h.clients[ev.CollegeCode]
	if !ok {
		h.logger.Debug().Str("college", ev.CollegeCode).Msg("No clients for broadcast")
		return
	}

	data, err := json.Marshal(ev)
	if err != nil {
		h.logger.Error().Err(err).Str("college", ev.CollegeCode).Msg("Failed to marshal event for broadcast")
		return
	}

	for client := range room {
		select {
		case client.send <- data:
		default:
			// Slow or gone; drop it rather than stall the other clients.
			h.unregisterClient(client)
		}
	}

	h.logger.Debug().
		Str("college", ev.CollegeCode).
		Str("event", string(ev.Type)).
		Int("clientCount", len(room)).
		Msg("Event broadcasted")
}

func (h *Hub) setCount(collegeCode string, n int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if n == 0 {
		delete(h.counts, collegeCode)
		return
	}
	h.counts[collegeCode] = n
}
