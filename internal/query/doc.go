// Package query is the read side of the tracker. It answers "what is the
// latest data for asset X" from the Snapshot Store without touching the
// network, and exposes the registry so callers can tell an unknown asset
// from one that has not been fetched yet.
package query
