// Package model defines shared data types used across the price tracker.
//
// Conventions:
//   - Prices: float64 USD
//   - Timestamps: int64 exactly as returned upstream (CoinGecko sends epoch milliseconds)
//   - IDs: stable lowercase strings (e.g., "bitcoin", "gold")
package model
