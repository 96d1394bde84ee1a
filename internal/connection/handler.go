package connection

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"

	"github.com/gorilla/websocket"

	"github.com/rickgao/price-tracker/internal/metrics"
	"github.com/rickgao/price-tracker/internal/model"
)

// AssetQuerier answers snapshot lookups.
type AssetQuerier interface {
	GetAsset(id string) (model.AssetSnapshot, bool)
}

// Handler upgrades HTTP requests to command sessions.
type Handler struct {
	cfg      Config
	queries  AssetQuerier
	logger   *slog.Logger
	upgrader websocket.Upgrader

	mu       sync.Mutex
	sessions map[uint64]*session
	closed   bool
	nextID   atomic.Uint64
	wg       sync.WaitGroup
}

// NewHandler creates a command surface handler.
func NewHandler(cfg Config, queries AssetQuerier, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	defaults := DefaultConfig()
	if cfg.PingInterval <= 0 {
		cfg.PingInterval = defaults.PingInterval
	}
	if cfg.PongTimeout <= 0 {
		cfg.PongTimeout = defaults.PongTimeout
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = defaults.WriteTimeout
	}
	if cfg.ReadLimit <= 0 {
		cfg.ReadLimit = defaults.ReadLimit
	}

	return &Handler{
		cfg:     cfg,
		queries: queries,
		logger:  logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			// Origin policy is enforced by the HTTP server's CORS layer.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		sessions: make(map[uint64]*session),
	}
}

// ServeHTTP upgrades the request and runs the session until it ends.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	closed := h.closed
	h.mu.Unlock()
	if closed {
		http.Error(w, ErrShuttingDown.Error(), http.StatusServiceUnavailable)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written an HTTP error.
		h.logger.Debug("websocket upgrade failed", "remote", r.RemoteAddr, "err", err)
		return
	}

	id := h.nextID.Add(1)
	s := newSession(id, conn, h.cfg, h.queries, h.logger.With("session", id, "remote", r.RemoteAddr))

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		s.Close()
		return
	}
	h.sessions[id] = s
	h.wg.Add(1)
	h.mu.Unlock()

	metrics.SessionOpened()
	defer func() {
		h.mu.Lock()
		delete(h.sessions, id)
		h.mu.Unlock()
		metrics.SessionClosed()
		h.wg.Done()
	}()

	s.run()
}

// Sessions returns the number of open sessions.
func (h *Handler) Sessions() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.sessions)
}

// Shutdown closes every open session and refuses new ones. It waits for the
// sessions to finish or for ctx to end.
func (h *Handler) Shutdown(ctx context.Context) error {
	h.mu.Lock()
	h.closed = true
	open := make([]*session, 0, len(h.sessions))
	for _, s := range h.sessions {
		open = append(open, s)
	}
	h.mu.Unlock()

	for _, s := range open {
		s.Close()
	}

	done := make(chan struct{})
	go func() {
		h.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
