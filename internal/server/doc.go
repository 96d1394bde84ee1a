// Package server exposes the tracker over HTTP.
//
// Routes:
//   - GET /api/price?id=<id>   latest snapshot for an asset
//   - GET /api/assets          tracked assets in registry order
//   - GET /api/assets/{id}     latest snapshot for an asset
//   - GET /health              scheduler status and per-asset freshness
//   - GET /ws                  WebSocket command surface
//   - GET /metrics             Prometheus exposition, when enabled
//
// Snapshot routes answer 404 for an unknown asset and 503 for a known asset
// that has not been fetched yet.
package server
