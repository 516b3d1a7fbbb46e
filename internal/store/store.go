// Package store owns the only within-session copy of fetched collections.
// Collections are replaced wholesale by FetchAll and patched incrementally
// after server-confirmed creates. The cache is never mutated optimistically.
package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/bitfantasy/nimo-mrp/internal/entity"
	"github.com/bitfantasy/nimo-mrp/internal/gateway"
)

// ErrStale is returned by FetchAll when a newer refresh superseded it
// while it was in flight. The superseded results are discarded, never
// applied, so out-of-order responses cannot overwrite fresher data.
var ErrStale = fmt.Errorf("refresh superseded by a newer one")

// ErrBOMCycle is returned when cached BOM rows prove that adding an item
// would make a part its own ancestor.
var ErrBOMCycle = fmt.Errorf("bom item would create a cycle")

// Store is the client-side aggregate cache. All methods are safe for
// concurrent use; reads return copies of the cached slices so callers
// can't mutate the cache behind the lock.
type Store struct {
	gw     *gateway.Client
	logger *zap.Logger

	// optional warm-start snapshot backend
	rdb *redis.Client

	mu          sync.RWMutex
	parts       []entity.Part
	customers   []entity.Customer
	inventory   []entity.InventoryItem
	materials   []entity.Material
	salesOrders []entity.SalesOrder
	bomItems    map[int][]entity.BOMItem
	suppliers   []entity.Supplier
	loading     bool
	errMsg      string

	// fetchToken identifies the most recent FetchAll; in-flight refreshes
	// that lose the token race drop their results.
	fetchToken uuid.UUID
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the store logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// WithSnapshotRedis enables the redis-backed cache snapshot.
func WithSnapshotRedis(rdb *redis.Client) Option {
	return func(s *Store) { s.rdb = rdb }
}

// New creates an empty store bound to a gateway.
func New(gw *gateway.Client, opts ...Option) *Store {
	s := &Store{
		gw:       gw,
		logger:   zap.NewNop(),
		bomItems: make(map[int][]entity.BOMItem),
		loading:  true,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// FetchAll refreshes every primary collection in parallel. The join is
// all-or-nothing: if any fetch fails, no collection is updated, the
// shared error string is set, and loading is cleared. Partial results
// from the sub-fetches that did succeed are thrown away.
func (s *Store) FetchAll(ctx context.Context) error {
	token := uuid.New()
	s.mu.Lock()
	s.loading = true
	s.errMsg = ""
	s.fetchToken = token
	s.mu.Unlock()

	var (
		parts       []entity.Part
		customers   []entity.Customer
		inventory   []entity.InventoryItem
		materials   []entity.Material
		salesOrders []entity.SalesOrder
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		parts, err = s.gw.GetParts(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		customers, err = s.gw.GetCustomers(gctx, "")
		return err
	})
	g.Go(func() error {
		var err error
		inventory, err = s.gw.GetInventory(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		materials, err = s.gw.GetMaterials(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		salesOrders, err = s.gw.GetSalesOrders(gctx)
		return err
	})
	err := g.Wait()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fetchToken != token {
		// a newer refresh owns the cache now
		return ErrStale
	}
	s.loading = false
	if err != nil {
		s.errMsg = "Failed to fetch data"
		s.logger.Warn("refresh failed", zap.Error(err))
		return err
	}
	s.parts = parts
	s.customers = customers
	s.inventory = inventory
	s.materials = materials
	s.salesOrders = salesOrders
	s.logger.Info("refresh applied",
		zap.Int("parts", len(parts)),
		zap.Int("customers", len(customers)),
		zap.Int("inventory", len(inventory)),
		zap.Int("materials", len(materials)),
		zap.Int("sales_orders", len(salesOrders)),
	)
	return nil
}

// FetchBOMItems loads the BOM rows for one parent part into the cache,
// replacing any previously cached list for that part only.
func (s *Store) FetchBOMItems(ctx context.Context, partID int) ([]entity.BOMItem, error) {
	items, err := s.gw.GetBOMItems(ctx, partID)
	if err != nil {
		s.setError("Failed to fetch BOM items")
		return nil, err
	}
	s.mu.Lock()
	s.bomItems[partID] = items
	s.errMsg = ""
	s.mu.Unlock()
	return append([]entity.BOMItem(nil), items...), nil
}

// FetchSuppliers loads the supplier list.
func (s *Store) FetchSuppliers(ctx context.Context) ([]entity.Supplier, error) {
	suppliers, err := s.gw.GetSuppliers(ctx)
	if err != nil {
		s.setError("Failed to fetch suppliers")
		return nil, err
	}
	s.mu.Lock()
	s.suppliers = suppliers
	s.errMsg = ""
	s.mu.Unlock()
	return append([]entity.Supplier(nil), suppliers...), nil
}

// CreatePart creates the part remotely, then appends the confirmed
// record to the cache.
func (s *Store) CreatePart(ctx context.Context, req entity.CreatePartRequest) (*entity.Part, error) {
	part, err := s.gw.CreatePart(ctx, req)
	if err != nil {
		s.setError("Failed to add part")
		return nil, err
	}
	s.mu.Lock()
	s.parts = append(s.parts, *part)
	s.errMsg = ""
	s.mu.Unlock()
	return part, nil
}

// CreateCustomer creates the customer remotely, then patches the cache.
func (s *Store) CreateCustomer(ctx context.Context, req entity.CreateCustomerRequest) (*entity.Customer, error) {
	customer, err := s.gw.CreateCustomer(ctx, req)
	if err != nil {
		s.setError("Failed to add customer")
		return nil, err
	}
	s.mu.Lock()
	s.customers = append(s.customers, *customer)
	s.errMsg = ""
	s.mu.Unlock()
	return customer, nil
}

// CreateMaterial creates the catalog entry remotely, then patches the
// cache.
func (s *Store) CreateMaterial(ctx context.Context, req entity.CreateMaterialRequest) (*entity.Material, error) {
	material, err := s.gw.CreateMaterial(ctx, req)
	if err != nil {
		s.setError("Failed to add material")
		return nil, err
	}
	s.mu.Lock()
	s.materials = append(s.materials, *material)
	s.errMsg = ""
	s.mu.Unlock()
	return material, nil
}

// CreateInventoryItem records the batch remotely, then patches the cache.
func (s *Store) CreateInventoryItem(ctx context.Context, req entity.CreateInventoryItemRequest) (*entity.InventoryItem, error) {
	item, err := s.gw.CreateInventoryItem(ctx, req)
	if err != nil {
		s.setError("Failed to add inventory item")
		return nil, err
	}
	s.mu.Lock()
	s.inventory = append(s.inventory, *item)
	s.errMsg = ""
	s.mu.Unlock()
	return item, nil
}

// CreateSalesOrder creates the order remotely, then patches the cache.
func (s *Store) CreateSalesOrder(ctx context.Context, req entity.CreateSalesOrderRequest) (*entity.SalesOrder, error) {
	order, err := s.gw.CreateSalesOrder(ctx, req)
	if err != nil {
		s.setError("Failed to add sales order")
		return nil, err
	}
	s.mu.Lock()
	s.salesOrders = append(s.salesOrders, *order)
	s.errMsg = ""
	s.mu.Unlock()
	return order, nil
}

// ApplySalesOrder replaces the cached order with the same id. Used after
// the server confirms an update; it never talks to the network itself.
func (s *Store) ApplySalesOrder(order entity.SalesOrder) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.salesOrders {
		if s.salesOrders[i].ID == order.ID {
			s.salesOrders[i] = order
			return
		}
	}
	s.salesOrders = append(s.salesOrders, order)
}

// CreateBOMItem creates the row remotely, then patches the cache. When
// cached BOM rows already prove the new row would make the parent its own
// ancestor, the create is refused locally with ErrBOMCycle; with no
// cached evidence the request goes through and the backend stays
// authoritative.
func (s *Store) CreateBOMItem(ctx context.Context, req entity.CreateBOMItemRequest) (*entity.BOMItem, error) {
	s.mu.RLock()
	cyclic := s.reachableLocked(req.ChildPartID, req.ParentPartID) || req.ParentPartID == req.ChildPartID
	s.mu.RUnlock()
	if cyclic {
		s.setError("BOM item would create a cycle")
		return nil, &gateway.Error{Kind: gateway.KindValidation, Path: "/bom-items", Message: ErrBOMCycle.Error(), Err: ErrBOMCycle}
	}

	item, err := s.gw.CreateBOMItem(ctx, req)
	if err != nil {
		s.setError("Failed to add BOM item")
		return nil, err
	}
	s.mu.Lock()
	s.bomItems[item.ParentPartID] = append(s.bomItems[item.ParentPartID], *item)
	s.errMsg = ""
	s.mu.Unlock()
	return item, nil
}

// reachableLocked reports whether `to` is reachable from `from` through
// cached BOM rows (child direction). Callers hold at least the read lock.
func (s *Store) reachableLocked(from, to int) bool {
	seen := map[int]bool{}
	stack := []int{from}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if n == to {
			return true
		}
		if seen[n] {
			continue
		}
		seen[n] = true
		for _, item := range s.bomItems[n] {
			stack = append(stack, item.ChildPartID)
		}
	}
	return false
}

// DeletePart deletes the part remotely, then mirrors the removal in the
// cache, including every cached BOM row that references the part as
// parent or child. The two steps are not atomic; if the cache update
// runs after a failed server call the caller sees the error and the
// cache is left untouched.
func (s *Store) DeletePart(ctx context.Context, id int) error {
	if err := s.gw.DeletePart(ctx, id); err != nil {
		s.setError("Failed to delete part")
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.parts[:0]
	for _, p := range s.parts {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	s.parts = kept
	delete(s.bomItems, id)
	for parent, items := range s.bomItems {
		filtered := items[:0]
		for _, item := range items {
			if item.ChildPartID != id {
				filtered = append(filtered, item)
			}
		}
		s.bomItems[parent] = filtered
	}
	s.errMsg = ""
	return nil
}

// DeleteBOMItem removes a cached row. Local-only; the server round-trip,
// where one exists, goes through the gateway separately.
func (s *Store) DeleteBOMItem(parentID, itemID int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := s.bomItems[parentID]
	kept := items[:0]
	for _, item := range items {
		if item.ID != itemID {
			kept = append(kept, item)
		}
	}
	s.bomItems[parentID] = kept
}

func (s *Store) setError(msg string) {
	s.mu.Lock()
	s.errMsg = msg
	s.mu.Unlock()
}

// --- accessors ---

// Parts returns a copy of the cached parts.
func (s *Store) Parts() []entity.Part {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]entity.Part(nil), s.parts...)
}

// Customers returns a copy of the cached customers.
func (s *Store) Customers() []entity.Customer {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]entity.Customer(nil), s.customers...)
}

// Inventory returns a copy of the cached inventory batches.
func (s *Store) Inventory() []entity.InventoryItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]entity.InventoryItem(nil), s.inventory...)
}

// Materials returns a copy of the cached material catalog.
func (s *Store) Materials() []entity.Material {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]entity.Material(nil), s.materials...)
}

// SalesOrders returns a copy of the cached orders.
func (s *Store) SalesOrders() []entity.SalesOrder {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]entity.SalesOrder(nil), s.salesOrders...)
}

// SalesOrder looks up one cached order by id.
func (s *Store) SalesOrder(id int) (entity.SalesOrder, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, o := range s.salesOrders {
		if o.ID == id {
			return o, true
		}
	}
	return entity.SalesOrder{}, false
}

// BOMItems returns a copy of the cached rows for one parent part.
func (s *Store) BOMItems(partID int) []entity.BOMItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]entity.BOMItem(nil), s.bomItems[partID]...)
}

// Suppliers returns a copy of the cached suppliers.
func (s *Store) Suppliers() []entity.Supplier {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]entity.Supplier(nil), s.suppliers...)
}

// Loading reports whether the initial refresh is still pending.
func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// Err returns the shared error string. Concurrent failures clobber each
// other here, last writer wins; per-operation errors come back on the
// operations themselves.
func (s *Store) Err() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.errMsg
}
