package asset

import (
	"errors"
	"fmt"

	"github.com/rickgao/price-tracker/internal/model"
)

// ErrEmptyRegistry is returned when a registry is built with no assets.
var ErrEmptyRegistry = errors.New("registry has no assets")

// tracked is the compiled-in asset list.
var tracked = []model.AssetConfig{
	{
		ID:          "bitcoin",
		ProviderKey: "bitcoin",
		Provider:    model.ProviderCoinGecko,
		Symbol:      "BTC",
		Name:        "Bitcoin",
		Kind:        model.KindCrypto,
	},
	{
		ID:          "ethereum",
		ProviderKey: "ethereum",
		Provider:    model.ProviderCoinGecko,
		Symbol:      "ETH",
		Name:        "Ethereum",
		Kind:        model.KindCrypto,
	},
	{
		ID:          "gold",
		ProviderKey: "tether-gold",
		Provider:    model.ProviderCoinGecko,
		Symbol:      "XAU",
		Name:        "Gold",
		Kind:        model.KindCommodity,
	},
}

// Registry is an immutable, ordered set of tracked assets.
type Registry struct {
	assets []model.AssetConfig
	byID   map[string]int
}

// Default returns the registry of compiled-in assets.
func Default() *Registry {
	r, err := New(tracked...)
	if err != nil {
		panic(fmt.Sprintf("invalid compiled-in asset list: %v", err))
	}
	return r
}

// New builds a registry from the given assets, preserving their order.
func New(assets ...model.AssetConfig) (*Registry, error) {
	if len(assets) == 0 {
		return nil, ErrEmptyRegistry
	}

	r := &Registry{
		assets: make([]model.AssetConfig, 0, len(assets)),
		byID:   make(map[string]int, len(assets)),
	}

	for i, a := range assets {
		if a.ID == "" {
			return nil, fmt.Errorf("asset %d: id is required", i)
		}
		if a.ProviderKey == "" {
			return nil, fmt.Errorf("asset %q: provider key is required", a.ID)
		}
		if a.Provider != model.ProviderCoinGecko {
			return nil, fmt.Errorf("asset %q: unsupported provider %q", a.ID, a.Provider)
		}
		if _, dup := r.byID[a.ID]; dup {
			return nil, fmt.Errorf("asset %q: duplicate id", a.ID)
		}

		r.byID[a.ID] = len(r.assets)
		r.assets = append(r.assets, a)
	}

	return r, nil
}

// List returns the assets in fetch order. The slice is a copy.
func (r *Registry) List() []model.AssetConfig {
	out := make([]model.AssetConfig, len(r.assets))
	copy(out, r.assets)
	return out
}

// Lookup returns the asset with the given id.
func (r *Registry) Lookup(id string) (model.AssetConfig, bool) {
	i, ok := r.byID[id]
	if !ok {
		return model.AssetConfig{}, false
	}
	return r.assets[i], true
}

// Len returns the number of tracked assets.
func (r *Registry) Len() int {
	return len(r.assets)
}
