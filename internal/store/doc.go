// Package store implements the Snapshot Store: an in-memory map from asset id
// to its latest snapshot, written by the refresh loop and read concurrently by
// any number of query callers.
package store
