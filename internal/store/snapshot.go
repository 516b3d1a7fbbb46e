package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/bitfantasy/nimo-mrp/internal/entity"
)

// snapshotKey is versioned so a schema change invalidates old blobs
// instead of half-applying them.
const snapshotKey = "nimo-mrp:cache:v1"

// ErrNoSnapshotBackend is returned when snapshot calls are made on a
// store built without WithSnapshotRedis.
var ErrNoSnapshotBackend = errors.New("no snapshot backend configured")

// snapshot is the serialized form of the aggregate cache. Only fetched
// collections are persisted; loading/error state is session-local.
type snapshot struct {
	Parts       []entity.Part            `json:"parts"`
	Customers   []entity.Customer        `json:"customers"`
	Inventory   []entity.InventoryItem   `json:"inventory"`
	Materials   []entity.Material        `json:"materials"`
	SalesOrders []entity.SalesOrder      `json:"sales_orders"`
	BOMItems    map[int][]entity.BOMItem `json:"bom_items"`
	Suppliers   []entity.Supplier        `json:"suppliers"`
	SavedAt     time.Time                `json:"saved_at"`
}

func (s *Store) encodeSnapshot() ([]byte, error) {
	s.mu.RLock()
	snap := snapshot{
		Parts:       s.parts,
		Customers:   s.customers,
		Inventory:   s.inventory,
		Materials:   s.materials,
		SalesOrders: s.salesOrders,
		BOMItems:    s.bomItems,
		Suppliers:   s.suppliers,
		SavedAt:     time.Now(),
	}
	s.mu.RUnlock()
	return json.Marshal(snap)
}

func (s *Store) applySnapshot(data []byte) error {
	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.parts = snap.Parts
	s.customers = snap.Customers
	s.inventory = snap.Inventory
	s.materials = snap.Materials
	s.salesOrders = snap.SalesOrders
	if snap.BOMItems != nil {
		s.bomItems = snap.BOMItems
	}
	s.suppliers = snap.Suppliers
	s.loading = false
	return nil
}

// SaveSnapshot persists the current cache to redis with the given TTL.
// Any later full refresh simply overwrites it; last write wins, same as
// the in-memory cache.
func (s *Store) SaveSnapshot(ctx context.Context, ttl time.Duration) error {
	if s.rdb == nil {
		return ErrNoSnapshotBackend
	}
	data, err := s.encodeSnapshot()
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, snapshotKey, data, ttl).Err()
}

// LoadSnapshot warm-starts the cache from redis. A missing or unreadable
// snapshot is not an error for the caller's purposes beyond logging; the
// store just stays cold.
func (s *Store) LoadSnapshot(ctx context.Context) error {
	if s.rdb == nil {
		return ErrNoSnapshotBackend
	}
	data, err := s.rdb.Get(ctx, snapshotKey).Bytes()
	if err != nil {
		s.logger.Debug("no cache snapshot", zap.Error(err))
		return err
	}
	if err := s.applySnapshot(data); err != nil {
		s.logger.Warn("discarding unreadable cache snapshot", zap.Error(err))
		return err
	}
	return nil
}
