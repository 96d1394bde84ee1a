// Package poller implements the Refresh Scheduler.
//
// The scheduler:
//   - Walks the asset registry in order, one asset at a time
//   - Writes each successful snapshot into the store
//   - Pauses between assets, and between cycles (longer after a rate limit)
//   - Abandons the rest of a cycle as soon as the upstream answers 429
//   - Never stops on fetch errors; only context cancellation ends the loop
package poller
