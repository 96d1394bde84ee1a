package connection

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/rickgao/price-tracker/internal/metrics"
)

// session is one client connection.
type session struct {
	id      uint64
	cfg     Config
	conn    *websocket.Conn
	queries AssetQuerier
	logger  *slog.Logger

	// Write serialization
	writeMu sync.Mutex

	closeOnce sync.Once
	done      chan struct{}
}

func newSession(id uint64, conn *websocket.Conn, cfg Config, queries AssetQuerier, logger *slog.Logger) *session {
	return &session{
		id:      id,
		cfg:     cfg,
		conn:    conn,
		queries: queries,
		logger:  logger,
		done:    make(chan struct{}),
	}
}

// run serves the session until the client goes away or Close is called.
func (s *session) run() {
	defer s.Close()

	s.conn.SetReadLimit(s.cfg.ReadLimit)
	s.conn.SetReadDeadline(time.Now().Add(s.cfg.PongTimeout))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(s.cfg.PongTimeout))
	})

	go s.pingLoop()

	s.logger.Debug("session opened")

	for {
		msgType, data, err := s.conn.ReadMessage()
		if err != nil {
			select {
			case <-s.done:
			default:
				if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					s.logger.Debug("session read failed", "err", err)
				}
			}
			s.logger.Debug("session closed")
			return
		}

		if msgType != websocket.TextMessage {
			continue
		}

		resp := s.handle(data)
		if err := s.send(resp); err != nil {
			s.logger.Debug("failed to send response", "id", resp.ID, "err", err)
			return
		}
	}
}

// handle decodes one command frame and builds its response.
func (s *session) handle(data []byte) Response {
	var cmd Command
	if err := json.Unmarshal(data, &cmd); err != nil {
		metrics.RecordCommand("invalid", TypeError)
		return errorResponse(0, CodeBadRequest, "invalid command frame")
	}

	var resp Response
	switch cmd.Cmd {
	case CmdGetAssetData:
		resp = s.getAssetData(cmd)
	default:
		resp = errorResponse(cmd.ID, CodeUnknownCommand, fmt.Sprintf("unknown command %q", cmd.Cmd))
	}

	metrics.RecordCommand(commandLabel(cmd.Cmd), resp.Type)
	return resp
}

func (s *session) getAssetData(cmd Command) Response {
	var params GetAssetParams
	if len(cmd.Params) > 0 {
		if err := json.Unmarshal(cmd.Params, &params); err != nil {
			return errorResponse(cmd.ID, CodeInvalidParams, "params must be an object")
		}
	}
	if params.ID == "" {
		return errorResponse(cmd.ID, CodeInvalidParams, "params.id is required")
	}

	msg := json.RawMessage("null")
	if snap, ok := s.queries.GetAsset(params.ID); ok {
		data, err := json.Marshal(snap)
		if err != nil {
			s.logger.Error("failed to encode snapshot", "asset", params.ID, "err", err)
			return errorResponse(cmd.ID, CodeBadRequest, "failed to encode snapshot")
		}
		msg = data
	}

	return Response{ID: cmd.ID, Type: TypeAssetData, Msg: msg}
}

// send writes one response frame.
func (s *session) send(resp Response) error {
	data, err := json.Marshal(resp)
	if err != nil {
		return fmt.Errorf("marshal response: %w", err)
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	select {
	case <-s.done:
		return ErrAlreadyClosed
	default:
	}

	s.conn.SetWriteDeadline(time.Now().Add(s.cfg.WriteTimeout))
	return s.conn.WriteMessage(websocket.TextMessage, data)
}

// pingLoop keeps the session alive and lets the read deadline catch dead peers.
func (s *session) pingLoop() {
	ticker := time.NewTicker(s.cfg.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			deadline := time.Now().Add(s.cfg.WriteTimeout)
			if err := s.conn.WriteControl(websocket.PingMessage, []byte("keepalive"), deadline); err != nil {
				if !errors.Is(err, websocket.ErrCloseSent) {
					s.logger.Debug("failed to send ping", "err", err)
				}
				return
			}
		}
	}
}

// Close sends a close frame and tears down the connection. Safe to call more
// than once.
func (s *session) Close() {
	s.closeOnce.Do(func() {
		close(s.done)

		s.writeMu.Lock()
		s.conn.WriteControl(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second),
		)
		s.writeMu.Unlock()

		s.conn.Close()
	})
}

func errorResponse(id int64, code, message string) Response {
	data, _ := json.Marshal(ErrorMsg{Code: code, Message: message})
	return Response{ID: id, Type: TypeError, Msg: data}
}

// commandLabel bounds the metric label set to known command names.
func commandLabel(cmd string) string {
	switch cmd {
	case CmdGetAssetData:
		return cmd
	default:
		return "unknown"
	}
}
