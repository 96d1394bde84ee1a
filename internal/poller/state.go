package poller

import (
	"time"

	"github.com/google/uuid"
)

// State is the scheduler's position in its cycle.
type State int

const (
	StateIdle State = iota
	StateFetching
	StateCycleComplete
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateFetching:
		return "fetching"
	case StateCycleComplete:
		return "cycle_complete"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// CycleResult summarizes one pass over the registry.
type CycleResult struct {
	ID          uuid.UUID
	StartedAt   time.Time
	Duration    time.Duration
	Attempted   int      // Assets whose fetch was invoked
	Updated     []string // Asset ids written to the store, in order
	Failed      []string // Asset ids whose fetch failed (including the rate-limited one)
	Skipped     []string // Asset ids not attempted after a rate limit
	RateLimited bool
	NextDelay   time.Duration
}

// Status is a point-in-time view of the scheduler for health reporting.
type Status struct {
	State        State
	CurrentAsset string // Set while fetching
	Cycles       int64
	LastCycle    *CycleResult
	NextCycleAt  time.Time
}
