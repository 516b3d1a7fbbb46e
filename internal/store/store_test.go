package store

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/bitfantasy/nimo-mrp/internal/entity"
	"github.com/bitfantasy/nimo-mrp/internal/gateway"
	"github.com/bitfantasy/nimo-mrp/internal/testutil"
)

func seededStore(t *testing.T) (*Store, *testutil.Backend) {
	t.Helper()
	backend := testutil.NewBackend()
	backend.SeedCustomer(entity.Customer{ID: 10, Name: "Acme Corp"})
	backend.SeedPart(entity.Part{ID: 1, PartNumber: "WIDGET-001", CustomerID: 10})
	backend.SeedPart(entity.Part{ID: 2, PartNumber: "BOLT-M6", CustomerID: 10})
	backend.SeedMaterial(entity.Material{ID: 20, Name: "Steel Rod", Type: "metal"})
	backend.SeedInventoryItem(entity.InventoryItem{
		ID: 30, MaterialID: 20, Quantity: decimal.NewFromInt(100),
		BatchNumber: "B-001", Status: entity.InventoryAvailable,
	})
	backend.SeedSalesOrder(entity.SalesOrder{
		ID: 40, OrderNumber: "SO-2026-001", Status: entity.SOStatusDraft,
		Customer: entity.CustomerRef{ID: 10, Name: "Acme Corp"},
	})

	srv := backend.Start(t)
	return New(gateway.NewClient(srv.URL)), backend
}

func TestFetchAllPopulatesCache(t *testing.T) {
	s, _ := seededStore(t)

	if !s.Loading() {
		t.Fatal("store should start in loading state")
	}
	if err := s.FetchAll(context.Background()); err != nil {
		t.Fatalf("FetchAll: %v", err)
	}
	if s.Loading() {
		t.Error("Loading still true after refresh")
	}
	if s.Err() != "" {
		t.Errorf("Err = %q, want empty", s.Err())
	}
	if got := len(s.Parts()); got != 2 {
		t.Errorf("parts = %d, want 2", got)
	}
	if got := len(s.Customers()); got != 1 {
		t.Errorf("customers = %d, want 1", got)
	}
	if got := len(s.SalesOrders()); got != 1 {
		t.Errorf("orders = %d, want 1", got)
	}
	if _, ok := s.SalesOrder(40); !ok {
		t.Error("order 40 not cached")
	}

	// a second refresh against an unchanged backend is a no-op
	before := s.Parts()
	if err := s.FetchAll(context.Background()); err != nil {
		t.Fatalf("second FetchAll: %v", err)
	}
	after := s.Parts()
	if len(after) != len(before) {
		t.Errorf("parts changed across idempotent refresh: %d -> %d", len(before), len(after))
	}
	for i := range before {
		if after[i].ID != before[i].ID || after[i].PartNumber != before[i].PartNumber {
			t.Errorf("part %d changed across idempotent refresh", before[i].ID)
		}
	}
}

func TestFetchAllIsAllOrNothing(t *testing.T) {
	s, backend := seededStore(t)
	if err := s.FetchAll(context.Background()); err != nil {
		t.Fatalf("first FetchAll: %v", err)
	}

	// one more part server-side, then break a different collection
	backend.SeedPart(entity.Part{ID: 3, PartNumber: "NUT-M6"})
	backend.FailWith("/materials", http.StatusInternalServerError)

	err := s.FetchAll(context.Background())
	if err == nil {
		t.Fatal("expected refresh failure")
	}
	if s.Loading() {
		t.Error("Loading still true after failed refresh")
	}
	if s.Err() != "Failed to fetch data" {
		t.Errorf("Err = %q, want the shared fetch error", s.Err())
	}
	// the successful sub-fetches must not have been applied
	if got := len(s.Parts()); got != 2 {
		t.Errorf("parts = %d after failed refresh, want the previous 2", got)
	}

	backend.ClearFailures()
	if err := s.FetchAll(context.Background()); err != nil {
		t.Fatalf("recovery FetchAll: %v", err)
	}
	if s.Err() != "" {
		t.Errorf("Err = %q after successful refresh, want empty", s.Err())
	}
	if got := len(s.Parts()); got != 3 {
		t.Errorf("parts = %d after recovery, want 3", got)
	}
}

// TestFetchAllSupersededIsDiscarded holds one refresh open on the wire
// while a second one completes, then checks the slow one is dropped.
func TestFetchAllSupersededIsDiscarded(t *testing.T) {
	release := make(chan struct{})
	parked := make(chan struct{})
	var once sync.Once
	stale := []byte(`[{"id": 99, "part_number": "STALE-PART"}]`)
	fresh := []byte(`[{"id": 1, "part_number": "FRESH-PART"}]`)

	var mu sync.Mutex
	first := true

	mux := http.NewServeMux()
	mux.HandleFunc("/parts", func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		mine := first
		first = false
		mu.Unlock()
		if mine {
			close(parked)
			<-release // park the first refresh
			w.Write(stale)
			return
		}
		w.Write(fresh)
	})
	for _, path := range []string{"/customers", "/inventory", "/materials", "/sales-orders"} {
		mux.HandleFunc(path, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`[]`))
		})
	}
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	t.Cleanup(func() { once.Do(func() { close(release) }) })

	s := New(gateway.NewClient(srv.URL))

	errCh := make(chan error, 1)
	go func() { errCh <- s.FetchAll(context.Background()) }()
	<-parked

	// second refresh completes while the first is parked
	if err := s.FetchAll(context.Background()); err != nil {
		t.Fatalf("second FetchAll: %v", err)
	}
	once.Do(func() { close(release) })

	if err := <-errCh; !errors.Is(err, ErrStale) {
		t.Fatalf("first FetchAll err = %v, want ErrStale", err)
	}
	parts := s.Parts()
	if len(parts) != 1 || parts[0].PartNumber != "FRESH-PART" {
		t.Fatalf("cache holds %+v, want only the fresh part", parts)
	}
}

func TestCreateBOMItemRoundTrip(t *testing.T) {
	s, _ := seededStore(t)
	ctx := context.Background()
	if err := s.FetchAll(ctx); err != nil {
		t.Fatalf("FetchAll: %v", err)
	}

	item, err := s.CreateBOMItem(ctx, entity.CreateBOMItemRequest{
		ParentPartID: 1,
		ChildPartID:  2,
		Quantity:     4,
		ProcessStep:  "Assembly",
	})
	if err != nil {
		t.Fatalf("CreateBOMItem: %v", err)
	}
	if item.ID == 0 {
		t.Error("server-assigned id missing")
	}

	rows := s.BOMItems(1)
	if len(rows) != 1 {
		t.Fatalf("cached rows = %d, want exactly 1", len(rows))
	}
	if rows[0].ChildPartID != 2 || rows[0].Quantity != 4 || rows[0].ProcessStep != "Assembly" {
		t.Errorf("cached row %+v does not match the request", rows[0])
	}
}

func TestCreateBOMItemRefusesCycles(t *testing.T) {
	s, backend := seededStore(t)
	ctx := context.Background()
	backend.SeedBOMItem(entity.BOMItem{ID: 100, ParentPartID: 1, ChildPartID: 2, Quantity: 1})
	if _, err := s.FetchBOMItems(ctx, 1); err != nil {
		t.Fatalf("FetchBOMItems: %v", err)
	}

	// a POST reaching the server would fail loudly, proving the guard ran
	backend.FailWith("/bom-items", http.StatusInternalServerError)

	_, err := s.CreateBOMItem(ctx, entity.CreateBOMItemRequest{ParentPartID: 2, ChildPartID: 1, Quantity: 1})
	if !errors.Is(err, ErrBOMCycle) {
		t.Fatalf("err = %v, want ErrBOMCycle", err)
	}
	if gateway.KindOf(err) != gateway.KindValidation {
		t.Errorf("kind = %v, want KindValidation", gateway.KindOf(err))
	}

	_, err = s.CreateBOMItem(ctx, entity.CreateBOMItemRequest{ParentPartID: 1, ChildPartID: 1, Quantity: 1})
	if !errors.Is(err, ErrBOMCycle) {
		t.Fatalf("self-reference err = %v, want ErrBOMCycle", err)
	}
}

func TestDeletePartDropsBOMRows(t *testing.T) {
	s, backend := seededStore(t)
	ctx := context.Background()
	backend.SeedBOMItem(entity.BOMItem{ID: 100, ParentPartID: 1, ChildPartID: 2, Quantity: 1})
	backend.SeedBOMItem(entity.BOMItem{ID: 101, ParentPartID: 2, ChildPartID: 3, Quantity: 2})

	if err := s.FetchAll(ctx); err != nil {
		t.Fatalf("FetchAll: %v", err)
	}
	for _, id := range []int{1, 2} {
		if _, err := s.FetchBOMItems(ctx, id); err != nil {
			t.Fatalf("FetchBOMItems(%d): %v", id, err)
		}
	}

	if err := s.DeletePart(ctx, 2); err != nil {
		t.Fatalf("DeletePart: %v", err)
	}
	for _, p := range s.Parts() {
		if p.ID == 2 {
			t.Error("part 2 still cached after delete")
		}
	}
	if rows := s.BOMItems(2); len(rows) != 0 {
		t.Errorf("part 2 still has %d cached BOM rows as parent", len(rows))
	}
	for _, row := range s.BOMItems(1) {
		if row.ChildPartID == 2 {
			t.Error("row referencing part 2 as child survived the delete")
		}
	}
}

func TestCreateFailureSetsSharedError(t *testing.T) {
	s, backend := seededStore(t)
	ctx := context.Background()
	if err := s.FetchAll(ctx); err != nil {
		t.Fatalf("FetchAll: %v", err)
	}
	backend.FailWith("/parts", http.StatusInternalServerError)

	_, err := s.CreatePart(ctx, entity.CreatePartRequest{PartNumber: "FAIL-001"})
	if err == nil {
		t.Fatal("expected create failure")
	}
	if s.Err() != "Failed to add part" {
		t.Errorf("Err = %q", s.Err())
	}
	if got := len(s.Parts()); got != 2 {
		t.Errorf("parts = %d after failed create, want 2", got)
	}
}

func TestCreateSalesOrderPatchesCache(t *testing.T) {
	s, _ := seededStore(t)
	ctx := context.Background()
	if err := s.FetchAll(ctx); err != nil {
		t.Fatalf("FetchAll: %v", err)
	}

	order, err := s.CreateSalesOrder(ctx, entity.CreateSalesOrderRequest{
		OrderNumber: "SO-2026-002",
		CustomerID:  10,
		Status:      entity.SOStatusDraft,
		LineItems: []entity.CreateLineItemRequest{
			entity.NewLineItem(1, 3, decimal.NewFromFloat(9.50)),
		},
	})
	if err != nil {
		t.Fatalf("CreateSalesOrder: %v", err)
	}
	if !order.TotalAmount.Equal(decimal.NewFromFloat(28.50)) {
		t.Errorf("total = %s, want 28.5", order.TotalAmount)
	}
	cached, ok := s.SalesOrder(order.ID)
	if !ok {
		t.Fatal("created order not cached")
	}
	if cached.OrderNumber != "SO-2026-002" {
		t.Errorf("cached order %+v", cached)
	}
}
