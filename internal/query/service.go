package query

import (
	"errors"

	"github.com/rickgao/price-tracker/internal/model"
)

var (
	// ErrUnknownAsset is returned for an id that is not in the registry.
	ErrUnknownAsset = errors.New("unknown asset")

	// ErrNotReady is returned for a registered asset with no snapshot yet.
	ErrNotReady = errors.New("data initializing, please try again shortly")
)

// Catalog is the registry of tracked assets.
type Catalog interface {
	List() []model.AssetConfig
	Lookup(id string) (model.AssetConfig, bool)
}

// SnapshotReader reads snapshots from the store.
type SnapshotReader interface {
	Get(id string) (model.AssetSnapshot, bool)
}

// Service answers asset queries.
type Service struct {
	catalog   Catalog
	snapshots SnapshotReader
}

// New creates a query Service.
func New(catalog Catalog, snapshots SnapshotReader) *Service {
	return &Service{
		catalog:   catalog,
		snapshots: snapshots,
	}
}

// GetAsset returns the latest snapshot for id. ok is false when no snapshot
// exists, either because id is unknown or because it has not been fetched.
func (s *Service) GetAsset(id string) (model.AssetSnapshot, bool) {
	return s.snapshots.Get(id)
}

// Resolve is GetAsset with the reason for absence spelled out.
func (s *Service) Resolve(id string) (model.AssetSnapshot, error) {
	if _, ok := s.catalog.Lookup(id); !ok {
		return model.AssetSnapshot{}, ErrUnknownAsset
	}
	snap, ok := s.snapshots.Get(id)
	if !ok {
		return model.AssetSnapshot{}, ErrNotReady
	}
	return snap, nil
}

// Asset returns the registry entry for id.
func (s *Service) Asset(id string) (model.AssetConfig, bool) {
	return s.catalog.Lookup(id)
}

// Assets returns all tracked assets in registry order.
func (s *Service) Assets() []model.AssetConfig {
	return s.catalog.List()
}
