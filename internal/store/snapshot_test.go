package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bitfantasy/nimo-mrp/internal/entity"
	"github.com/bitfantasy/nimo-mrp/internal/gateway"
)

func TestSnapshotRoundTrip(t *testing.T) {
	src := New(gateway.NewClient("http://unused"))
	src.parts = []entity.Part{{ID: 1, PartNumber: "WIDGET-001", Price: decimal.NewFromFloat(12.30)}}
	src.customers = []entity.Customer{{ID: 10, Name: "Acme Corp"}}
	src.materials = []entity.Material{{ID: 20, Name: "Steel Rod"}}
	src.salesOrders = []entity.SalesOrder{{ID: 40, OrderNumber: "SO-2026-001", Status: entity.SOStatusDraft}}
	src.bomItems = map[int][]entity.BOMItem{1: {{ID: 100, ParentPartID: 1, ChildPartID: 2, Quantity: 4}}}
	src.loading = false

	data, err := src.encodeSnapshot()
	if err != nil {
		t.Fatalf("encodeSnapshot: %v", err)
	}

	dst := New(gateway.NewClient("http://unused"))
	if !dst.Loading() {
		t.Fatal("fresh store should be loading")
	}
	if err := dst.applySnapshot(data); err != nil {
		t.Fatalf("applySnapshot: %v", err)
	}
	if dst.Loading() {
		t.Error("Loading still true after snapshot warm start")
	}

	parts := dst.Parts()
	if len(parts) != 1 || !parts[0].Price.Equal(decimal.NewFromFloat(12.30)) {
		t.Errorf("parts = %+v", parts)
	}
	if order, ok := dst.SalesOrder(40); !ok || order.Status != entity.SOStatusDraft {
		t.Errorf("order = %+v, ok = %t", order, ok)
	}
	rows := dst.BOMItems(1)
	if len(rows) != 1 || rows[0].Quantity != 4 {
		t.Errorf("bom rows = %+v", rows)
	}
}

func TestSnapshotRejectsGarbage(t *testing.T) {
	s := New(gateway.NewClient("http://unused"))
	if err := s.applySnapshot([]byte(`{"parts": "nope"`)); err == nil {
		t.Fatal("expected decode error")
	}
	if !s.Loading() {
		t.Error("bad snapshot must not clear the loading state")
	}
}

func TestSnapshotWithoutBackend(t *testing.T) {
	s := New(gateway.NewClient("http://unused"))
	if err := s.SaveSnapshot(context.Background(), time.Minute); !errors.Is(err, ErrNoSnapshotBackend) {
		t.Fatalf("SaveSnapshot err = %v", err)
	}
	if err := s.LoadSnapshot(context.Background()); !errors.Is(err, ErrNoSnapshotBackend) {
		t.Fatalf("LoadSnapshot err = %v", err)
	}
}
