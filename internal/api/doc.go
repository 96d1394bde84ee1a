// Package api provides the CoinGecko REST client.
//
// Endpoints used:
//   - GET /simple/price: spot USD price and 24h percent change
//   - GET /coins/{id}/market_chart: intraday price series
//
// Base URL: https://api.coingecko.com/api/v3
//
// The client never retries. HTTP 429 surfaces as an *APIError for which
// IsRateLimited reports true; pacing is the caller's concern.
package api
