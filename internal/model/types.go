package model

// -----------------------------------------------------------------------------
// Registry Types
// -----------------------------------------------------------------------------

// Provider tags. Only CoinGecko is wired today; the tag is informational.
const (
	ProviderCoinGecko = "coingecko"
)

// AssetKind classifies a tracked asset for display.
type AssetKind string

const (
	KindCrypto    AssetKind = "crypto"
	KindCommodity AssetKind = "commodity"
	KindIndex     AssetKind = "index"
)

// AssetConfig describes one tracked asset. Built once at startup, never mutated.
type AssetConfig struct {
	ID          string    `json:"id"`          // Stable internal id (e.g., "gold")
	ProviderKey string    `json:"providerKey"` // Upstream lookup id (e.g., "tether-gold")
	Provider    string    `json:"provider"`    // Provider tag (e.g., "coingecko")
	Symbol      string    `json:"symbol"`      // Display symbol (e.g., "XAU")
	Name        string    `json:"name"`        // Display name
	Kind        AssetKind `json:"kind"`        // crypto, commodity, index
}

// -----------------------------------------------------------------------------
// Snapshot Types
// -----------------------------------------------------------------------------

// HistoryPoint is one intraday price sample.
type HistoryPoint struct {
	Timestamp int64   `json:"timestamp"` // As received upstream, not reinterpreted
	Value     float64 `json:"value"`     // USD price
}

// AssetSnapshot is the complete cached record for one asset.
//
// A snapshot is replaced wholesale on every refresh and never modified in place.
type AssetSnapshot struct {
	CurrentPrice float64        `json:"currentPrice"`
	Change24h    float64        `json:"change24h"` // Percent; 0 when upstream omits it
	History      []HistoryPoint `json:"history"`   // Upstream order, may be empty
}

// Clone returns a deep copy of the snapshot. A nil history becomes an empty one
// so the snapshot always serializes "history" as an array.
func (s AssetSnapshot) Clone() AssetSnapshot {
	history := make([]HistoryPoint, len(s.History))
	copy(history, s.History)
	s.History = history
	return s
}
