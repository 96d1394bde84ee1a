package poller

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/rickgao/price-tracker/internal/fetcher"
	"github.com/rickgao/price-tracker/internal/metrics"
	"github.com/rickgao/price-tracker/internal/model"
)

// ErrAlreadyStarted is returned by Start on a running or stopped poller.
var ErrAlreadyStarted = errors.New("poller already started")

// AssetSource provides the ordered assets to refresh.
type AssetSource interface {
	List() []model.AssetConfig
}

// Fetcher produces a snapshot for one asset.
type Fetcher interface {
	Fetch(ctx context.Context, asset model.AssetConfig) (model.AssetSnapshot, error)
}

// SnapshotWriter receives fetched snapshots.
type SnapshotWriter interface {
	Put(id string, snapshot model.AssetSnapshot)
}

// Config holds poller configuration.
type Config struct {
	InterAssetDelay time.Duration // Pause between assets (default: 4s)
	CycleDelay      time.Duration // Pause after a normal cycle (default: 60s)
	BackoffDelay    time.Duration // Pause after a rate-limited cycle (default: 120s)
	InitialDelay    time.Duration // Pause before the first cycle (default: 0)
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		InterAssetDelay: 4 * time.Second,
		CycleDelay:      60 * time.Second,
		BackoffDelay:    120 * time.Second,
	}
}

// Poller periodically refreshes every registered asset.
type Poller struct {
	cfg     Config
	assets  AssetSource
	fetcher Fetcher
	store   SnapshotWriter
	logger  *slog.Logger

	mu      sync.RWMutex
	status  Status
	started bool

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates a new Poller.
func New(cfg Config, assets AssetSource, f Fetcher, store SnapshotWriter, logger *slog.Logger) *Poller {
	if logger == nil {
		logger = slog.Default()
	}
	return &Poller{
		cfg:     cfg,
		assets:  assets,
		fetcher: f,
		store:   store,
		logger:  logger,
	}
}

// Start begins the refresh loop. It can be called once.
func (p *Poller) Start(ctx context.Context) error {
	p.mu.Lock()
	if p.started {
		p.mu.Unlock()
		return ErrAlreadyStarted
	}
	p.started = true
	p.ctx, p.cancel = context.WithCancel(ctx)
	p.mu.Unlock()

	p.wg.Add(1)
	go p.run()

	p.logger.Info("refresh poller started",
		"assets", len(p.assets.List()),
		"inter_asset_delay", p.cfg.InterAssetDelay,
		"cycle_delay", p.cfg.CycleDelay,
		"backoff_delay", p.cfg.BackoffDelay,
	)

	return nil
}

// Stop cancels the refresh loop and waits for it to exit.
func (p *Poller) Stop(ctx context.Context) error {
	p.mu.RLock()
	cancel := p.cancel
	p.mu.RUnlock()

	if cancel != nil {
		cancel()
	}

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		p.logger.Info("refresh poller stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Status returns the scheduler's current state.
func (p *Poller) Status() Status {
	p.mu.RLock()
	defer p.mu.RUnlock()

	s := p.status
	if s.LastCycle != nil {
		last := *s.LastCycle
		s.LastCycle = &last
	}
	return s
}

// run is the main refresh loop. Cycles never overlap: the next one starts
// only after the previous cycle's delay has fully elapsed.
func (p *Poller) run() {
	defer p.wg.Done()
	defer p.setState(StateStopped, "")

	if !sleep(p.ctx, p.cfg.InitialDelay) {
		return
	}

	for {
		result := p.RunCycle(p.ctx)
		if p.ctx.Err() != nil {
			return
		}

		p.mu.Lock()
		p.status.NextCycleAt = time.Now().Add(result.NextDelay)
		p.mu.Unlock()

		p.logger.Info("refresh cycle complete",
			"cycle", result.ID,
			"updated", len(result.Updated),
			"failed", len(result.Failed),
			"skipped", len(result.Skipped),
			"rate_limited", result.RateLimited,
			"duration", result.Duration,
			"next_in", result.NextDelay,
		)

		if !sleep(p.ctx, result.NextDelay) {
			return
		}
		p.setState(StateIdle, "")
	}
}

// RunCycle performs one pass over the registry and returns its summary.
// It does not wait for the inter-cycle delay.
func (p *Poller) RunCycle(ctx context.Context) CycleResult {
	result := CycleResult{
		ID:        uuid.New(),
		StartedAt: time.Now(),
	}
	log := p.logger.With("cycle", result.ID)

	assets := p.assets.List()
	log.Debug("refresh cycle starting", "assets", len(assets))

	for i, asset := range assets {
		if ctx.Err() != nil {
			break
		}

		if i > 0 && !sleep(ctx, p.cfg.InterAssetDelay) {
			break
		}

		p.setState(StateFetching, asset.ID)
		result.Attempted++

		start := time.Now()
		snapshot, err := p.fetcher.Fetch(ctx, asset)
		elapsed := time.Since(start)

		if err == nil {
			p.store.Put(asset.ID, snapshot)
			result.Updated = append(result.Updated, asset.ID)
			metrics.RecordFetch(asset.ID, "ok", elapsed)
			metrics.RecordSnapshotUpdate(asset.ID, time.Now())
			log.Info("updated snapshot",
				"asset", asset.ID,
				"price", snapshot.CurrentPrice,
				"points", len(snapshot.History),
				"duration", elapsed,
			)
			continue
		}

		result.Failed = append(result.Failed, asset.ID)
		metrics.RecordFetch(asset.ID, fetchResult(err), elapsed)

		if fetcher.IsRateLimited(err) {
			result.RateLimited = true
			for _, rest := range assets[i+1:] {
				result.Skipped = append(result.Skipped, rest.ID)
			}
			log.Warn("rate limit hit, backing off",
				"asset", asset.ID,
				"skipped", len(result.Skipped),
				"err", err,
			)
			break
		}

		if ctx.Err() != nil {
			break
		}

		log.Warn("failed to update asset",
			"asset", asset.ID,
			"kind", fetcher.KindOf(err),
			"err", err,
		)
	}

	result.NextDelay = p.cfg.CycleDelay
	if result.RateLimited {
		result.NextDelay = p.cfg.BackoffDelay
	}
	result.Duration = time.Since(result.StartedAt)

	metrics.RecordCycle(result.RateLimited, result.Duration, result.NextDelay)

	p.mu.Lock()
	p.status.State = StateCycleComplete
	p.status.CurrentAsset = ""
	p.status.Cycles++
	last := result
	p.status.LastCycle = &last
	p.mu.Unlock()

	return result
}

func (p *Poller) setState(s State, asset string) {
	p.mu.Lock()
	p.status.State = s
	p.status.CurrentAsset = asset
	p.mu.Unlock()
}

func fetchResult(err error) string {
	if k := fetcher.KindOf(err); k != 0 {
		return k.String()
	}
	return "error"
}

// sleep waits for d. It returns false if ctx ended first.
func sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
