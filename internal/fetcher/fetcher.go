package fetcher

import (
	"context"
	"log/slog"
	"time"

	"github.com/rickgao/price-tracker/internal/api"
	"github.com/rickgao/price-tracker/internal/model"
)

// PriceSource is the upstream the fetcher reads from. *api.Client implements it.
type PriceSource interface {
	GetSimplePrice(ctx context.Context, coinID string) (api.SimplePrice, error)
	GetMarketChart(ctx context.Context, coinID string, days int) ([]model.HistoryPoint, error)
}

// Config holds fetcher configuration.
type Config struct {
	IntraFetchDelay time.Duration // Pause between price and history calls (default: 2s)
	HistoryDays     int           // Market chart window (default: 1)
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		IntraFetchDelay: 2 * time.Second,
		HistoryDays:     1,
	}
}

// Fetcher builds snapshots from a PriceSource.
type Fetcher struct {
	cfg    Config
	source PriceSource
	logger *slog.Logger
}

// New creates a new Fetcher.
func New(cfg Config, source PriceSource, logger *slog.Logger) *Fetcher {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.HistoryDays <= 0 {
		cfg.HistoryDays = 1
	}
	return &Fetcher{
		cfg:    cfg,
		source: source,
		logger: logger,
	}
}

// Fetch retrieves a fresh snapshot for asset. It performs exactly two upstream
// calls on success and stops at the first failure.
func (f *Fetcher) Fetch(ctx context.Context, asset model.AssetConfig) (model.AssetSnapshot, error) {
	f.logger.Debug("fetching asset", "asset", asset.ID, "key", asset.ProviderKey)

	price, err := f.source.GetSimplePrice(ctx, asset.ProviderKey)
	if err != nil {
		return model.AssetSnapshot{}, &Error{Kind: classify(err), AssetID: asset.ID, Op: "price", Err: err}
	}

	if err := pause(ctx, f.cfg.IntraFetchDelay); err != nil {
		return model.AssetSnapshot{}, &Error{Kind: KindUpstreamUnavailable, AssetID: asset.ID, Op: "pause", Err: err}
	}

	history, err := f.source.GetMarketChart(ctx, asset.ProviderKey, f.cfg.HistoryDays)
	if err != nil {
		return model.AssetSnapshot{}, &Error{Kind: classify(err), AssetID: asset.ID, Op: "history", Err: err}
	}
	if history == nil {
		history = []model.HistoryPoint{}
	}

	return model.AssetSnapshot{
		CurrentPrice: price.USD,
		Change24h:    price.Change24h,
		History:      history,
	}, nil
}

// pause waits for d or until ctx is done.
func pause(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
