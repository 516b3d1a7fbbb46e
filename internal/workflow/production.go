// Package workflow orchestrates the draft -> in_production transition for
// sales orders: a remote material-sufficiency check followed, only on a
// green verdict, by a whole-record PUT with the status overwritten. The
// sufficiency computation itself (BOM explosion against inventory) lives
// entirely server-side.
package workflow

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"

	"go.uber.org/zap"

	"github.com/bitfantasy/nimo-mrp/internal/entity"
	"github.com/bitfantasy/nimo-mrp/internal/gateway"
)

// ErrNotDraft is returned when StartProduction is invoked on an order
// whose cached status is not draft.
var ErrNotDraft = errors.New("order is not in draft status")

// ErrOrderNotCached is returned when the order id is unknown to the
// store; callers must refresh first.
var ErrOrderNotCached = errors.New("order not in cache; refresh first")

// orderCache is the slice of the aggregate store the workflow needs.
type orderCache interface {
	SalesOrder(id int) (entity.SalesOrder, bool)
	ApplySalesOrder(order entity.SalesOrder)
}

// Workflow drives production-readiness checks against one backend.
type Workflow struct {
	gw     *gateway.Client
	cache  orderCache
	logger *zap.Logger
}

// New builds a workflow over a gateway and the order cache.
func New(gw *gateway.Client, cache orderCache, logger *zap.Logger) *Workflow {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Workflow{gw: gw, cache: cache, logger: logger}
}

// Outcome reports what StartProduction did.
type Outcome struct {
	// Started is true when the order was transitioned to in_production.
	Started bool
	// Order is the post-transition order when Started, else the cached
	// pre-check order.
	Order entity.SalesOrder
	// Missing holds the shortage rows when the check came back
	// insufficient. Empty when Started.
	Missing []entity.MissingMaterial
}

// CheckMaterials runs the remote sufficiency check without acting on it.
func (w *Workflow) CheckMaterials(ctx context.Context, orderID int) (*entity.MaterialCheckResult, error) {
	result, err := w.gw.CheckMaterials(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to check materials: %w", err)
	}
	return result, nil
}

// StartProduction runs the full readiness sequence for a draft order:
//
//  1. the cached order must exist and be draft;
//  2. GET check-materials; on an insufficient verdict the order is left
//     untouched and the shortage list is returned in the Outcome;
//  3. on a sufficient verdict the order is re-read and the transition is
//     aborted with KindConflict if its status moved off draft in the
//     meantime, then PUT back whole with only status overwritten.
//
// The check and the PUT are still two separate requests with no server
// precondition, so a concurrent client can slip between them; the
// re-read narrows that window, it does not close it.
func (w *Workflow) StartProduction(ctx context.Context, orderID int) (*Outcome, error) {
	order, ok := w.cache.SalesOrder(orderID)
	if !ok {
		return nil, ErrOrderNotCached
	}
	if order.Status != entity.SOStatusDraft {
		return nil, fmt.Errorf("%w: %s", ErrNotDraft, order.Status)
	}

	result, err := w.gw.CheckMaterials(ctx, orderID)
	if err != nil {
		w.logger.Warn("material check failed",
			zap.Int("order_id", orderID),
			zap.Error(err),
		)
		return nil, fmt.Errorf("failed to check materials: %w", err)
	}

	if !result.HasSufficientMaterials {
		w.logger.Info("insufficient materials",
			zap.Int("order_id", orderID),
			zap.Int("missing", len(result.MissingMaterials)),
		)
		return &Outcome{Order: order, Missing: result.MissingMaterials}, nil
	}

	// Re-read before the blind PUT so an order cancelled (or advanced) by
	// a concurrent actor is not forced back into production.
	current, err := w.currentOrder(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to re-read order before transition: %w", err)
	}
	if current.Status != entity.SOStatusDraft {
		w.cache.ApplySalesOrder(*current)
		return nil, &gateway.Error{
			Kind:    gateway.KindConflict,
			Path:    fmt.Sprintf("/sales-orders/%d", orderID),
			Message: fmt.Sprintf("order left draft concurrently (now %s)", current.Status),
		}
	}

	updated := *current
	updated.Status = entity.SOStatusInProduction
	confirmed, err := w.gw.UpdateSalesOrder(ctx, orderID, updated)
	if err != nil {
		return nil, fmt.Errorf("failed to start production: %w", err)
	}
	w.cache.ApplySalesOrder(*confirmed)
	w.logger.Info("production started", zap.Int("order_id", orderID))
	return &Outcome{Started: true, Order: *confirmed}, nil
}

// currentOrder fetches the fresh server copy of one order. The backend
// has no single-order GET, so this filters the list endpoint.
func (w *Workflow) currentOrder(ctx context.Context, orderID int) (*entity.SalesOrder, error) {
	orders, err := w.gw.GetSalesOrders(ctx)
	if err != nil {
		return nil, err
	}
	for i := range orders {
		if orders[i].ID == orderID {
			return &orders[i], nil
		}
	}
	return nil, &gateway.Error{
		Kind:    gateway.KindRemote,
		Path:    "/sales-orders",
		Message: fmt.Sprintf("order %d not found", orderID),
	}
}

// PurchasingHintURL builds the purchasing-page link carrying the
// shortage list as a serialized query parameter. No purchase order is
// created; the link is a hint for a human.
func PurchasingHintURL(missing []entity.MissingMaterial) (string, error) {
	payload, err := json.Marshal(missing)
	if err != nil {
		return "", err
	}
	return "/purchasing?missing_materials=" + url.QueryEscape(string(payload)), nil
}
