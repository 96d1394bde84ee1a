package connection

import (
	"encoding/json"
	"errors"
	"time"
)

// Errors
var (
	ErrAlreadyClosed = errors.New("already closed")
	ErrShuttingDown  = errors.New("command surface shutting down")
)

// Command names.
const (
	CmdGetAssetData = "get_asset_data"
)

// Response types.
const (
	TypeAssetData = "asset_data"
	TypeError     = "error"
)

// Error codes carried in ErrorMsg.
const (
	CodeBadRequest     = "bad_request"
	CodeUnknownCommand = "unknown_command"
	CodeInvalidParams  = "invalid_params"
)

// Command is a request from a client.
type Command struct {
	ID     int64           `json:"id"`
	Cmd    string          `json:"cmd"`
	Params json.RawMessage `json:"params,omitempty"`
}

// GetAssetParams are parameters for get_asset_data.
type GetAssetParams struct {
	ID string `json:"id"`
}

// Response is the reply to a Command.
type Response struct {
	ID   int64           `json:"id"`
	Type string          `json:"type"` // "asset_data" or "error"
	Msg  json.RawMessage `json:"msg"`
}

// ErrorMsg is the message content for an "error" response.
type ErrorMsg struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Config configures the command surface.
type Config struct {
	PingInterval time.Duration // How often the server pings each session
	PongTimeout  time.Duration // Max time without a pong before the session is dropped
	WriteTimeout time.Duration // Write deadline for responses and control frames
	ReadLimit    int64         // Max inbound frame size in bytes
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		PingInterval: 30 * time.Second,
		PongTimeout:  60 * time.Second,
		WriteTimeout: 5 * time.Second,
		ReadLimit:    4096,
	}
}
