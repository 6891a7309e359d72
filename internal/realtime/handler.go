package realtime

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// TokenVerifier verifies a bearer token and yields the user id it embeds.
// Implemented by the auth service.
type TokenVerifier interface {
	VerifyToken(ctx context.Context, token string) (uuid.UUID, error)
}

// Handler upgrades HTTP requests to websocket connections. The handshake
// is authenticated with the same bearer token as the HTTP API, taken from
// the Authorization header or, for browser clients that cannot set
// headers on websocket requests, from the "token" query parameter.
type Handler struct {
	hub            *Hub
	verifier       TokenVerifier
	allowedOrigins []string
	logger         *slog.Logger
}

// NewHandler creates a new websocket handler.
func NewHandler(hub *Hub, verifier TokenVerifier, allowedOrigins []string, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}

	return &Handler{
		hub:            hub,
		verifier:       verifier,
		allowedOrigins: allowedOrigins,
		logger:         logger.With(slog.String("component", "realtime_handler")),
	}
}

// upgrader is built per request so origin checking can use the
// handler's configuration.
func (h *Handler) upgrader() websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if origin == "" {
				// Allow requests with no origin (non-browser clients).
				return true
			}
			for _, allowed := range h.allowedOrigins {
				if origin == allowed {
					return true
				}
			}
			h.logger.Warn("websocket origin rejected", slog.String("origin", origin))
			return false
		},
	}
}

// ServeHTTP authenticates the handshake, upgrades the connection and
// registers the client with the hub.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	token := bearerToken(r)
	if token == "" {
		http.Error(w, "missing token", http.StatusUnauthorized)
		return
	}

	userID, err := h.verifier.VerifyToken(r.Context(), token)
	if err != nil {
		h.logger.Debug("websocket handshake rejected", "error", err)
		http.Error(w, "invalid token", http.StatusUnauthorized)
		return
	}

	upgrader := h.upgrader()
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("websocket upgrade failed", "error", err)
		return
	}

	client := newClient(h.hub, conn, userID, h.logger)
	select {
	case h.hub.register <- client:
	case <-h.hub.done:
		// The hub stopped between the upgrade and registration.
		_ = conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()
}

func bearerToken(r *http.Request) string {
	if header := r.Header.Get("Authorization"); header != "" {
		parts := strings.Split(header, " ")
		if len(parts) == 2 && parts[0] == "Bearer" {
			return parts[1]
		}
		return ""
	}
	return r.URL.Query().Get("token")
}
