// Package realtime broadcasts task lifecycle events to connected
// websocket clients. Delivery is best-effort: no acknowledgment, no
// replay on reconnect, no ordering guarantee. Clients are expected to
// invalidate their local view and refetch rather than applying event
// payloads as authoritative state.
package realtime

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/taskhive/taskhive/internal/events"
)

// Hub owns the registry of connected clients and fans events out to all
// of them. Connections are added on register and removed on unregister
// or when their send buffer overflows; there is no ambient global state.
type Hub struct {
	clients    map[*Client]struct{}
	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte

	// done is closed when Run stops, so registration attempts racing
	// shutdown fail fast instead of blocking on an undrained channel.
	done   chan struct{}
	logger *slog.Logger
}

// NewHub creates a new Hub. Run must be called for it to serve clients.
func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}

	return &Hub{
		clients:    make(map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan []byte, 64),
		done:       make(chan struct{}),
		logger:     logger.With(slog.String("component", "realtime_hub")),
	}
}

// Run processes registration, unregistration and broadcast requests
// until the context is canceled. It is the only goroutine that touches
// the client registry.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case client := <-h.register:
			h.clients[client] = struct{}{}
			h.logger.Debug("client connected",
				"client_id", client.id,
				"client_count", len(h.clients))

		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				h.logger.Debug("client disconnected",
					"client_id", client.id,
					"client_count", len(h.clients))
			}

		case message := <-h.broadcast:
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					// Slow client: drop the connection rather than
					// blocking the hub.
					delete(h.clients, client)
					close(client.send)
					h.logger.Warn("dropping slow client",
						"client_id", client.id)
				}
			}

		case <-ctx.Done():
			close(h.done)
			for client := range h.clients {
				delete(h.clients, client)
				close(client.send)
			}
			return
		}
	}
}

// Ensure Hub implements events.EventHandler interface
var _ events.EventHandler = (*Hub)(nil)

// HandleEvent implements events.EventHandler. Every event kind is
// broadcast to every connected client, unconditionally; there is no
// per-user targeting.
func (h *Hub) HandleEvent(ctx context.Context, event *events.TaskEvent) error {
	message, err := json.Marshal(event)
	if err != nil {
		return err
	}

	select {
	case h.broadcast <- message:
	case <-h.done:
		// The hub has stopped; there is nobody left to deliver to.
	case <-ctx.Done():
		return ctx.Err()
	}

	return nil
}
