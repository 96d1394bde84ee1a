// Package fetcher assembles one asset's snapshot from two upstream calls.
//
// Per asset:
//   - price request (spot USD + 24h change)
//   - fixed pause to soften burst pressure
//   - history request (intraday series)
//
// Failures are classified as UpstreamUnavailable, RateLimited (a sub-case of
// UpstreamUnavailable) or MalformedResponse. The fetcher never retries and
// never touches shared state.
package fetcher
