// Package connection implements the WebSocket command surface.
//
// Each client connection is a session:
//   - Commands arrive as JSON text frames ({"id","cmd","params"})
//   - Each command gets exactly one response carrying the same id
//   - The server pings every PingInterval and drops sessions that stop ponging
//   - Writes are serialized per session
//
// The only command is get_asset_data, which returns the latest snapshot for
// an asset or null when none exists.
package connection
