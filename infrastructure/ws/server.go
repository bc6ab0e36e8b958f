// Package ws is the websocket transport of the relay: upgrade handling,
// the wire envelope, and per-connection read/write pumps.
package ws

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"chat-relay/contract"
	"chat-relay/domain"
	"chat-relay/domain/event"
)

// Server upgrades HTTP requests and hands each connection a fresh
// identifier, a buffered sink and its two pumps. Pump lifetime is bound
// to baseCtx, not to the upgrade request.
type Server struct {
	log             *slog.Logger
	baseCtx         context.Context
	router          contract.IRouter
	registry        contract.IRegistry
	bufferSize      int
	upgrader        websocket.Upgrader
	allowedOrigins  map[string]struct{}
	allowAllOrigins bool
}

func NewServer(baseCtx context.Context, log *slog.Logger, router contract.IRouter,
	registry contract.IRegistry, bufferSize int, allowedOrigins []string) *Server {
	s := &Server{
		log:        log,
		baseCtx:    baseCtx,
		router:     router,
		registry:   registry,
		bufferSize: bufferSize,
	}
	s.allowedOrigins, s.allowAllOrigins = normalizeOrigins(allowedOrigins)
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     s.checkOrigin,
	}
	return s
}

// Handler exposes the websocket endpoint and a health probe.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleUpgrade)
	mux.HandleFunc("/healthz", healthHandler)
	return mux
}

func (s *Server) handleUpgrade(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "websocket endpoint only accepts GET", http.StatusMethodNotAllowed)
		return
	}

	sock, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("Upgrade failed", "remote", r.RemoteAddr, "error", err)
		return
	}

	id := domain.ConnectionID(uuid.NewString())
	sink := NewSink(s.bufferSize)
	s.registry.Attach(id, sink)
	s.log.Info("Connection opened", "connection_id", id, "remote", r.RemoteAddr)

	// Queued before the write pump starts, so welcome is frame number one.
	_ = sink.Consume(s.baseCtx, event.Welcome{ConnectionID: string(id)})

	c := &conn{id: id, sock: sock, sink: sink, router: s.router, log: s.log}
	go c.writePump(s.baseCtx)
	go c.readPump(s.baseCtx)
}

func healthHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	_, _ = fmt.Fprint(w, "chat-relay is running")
}
