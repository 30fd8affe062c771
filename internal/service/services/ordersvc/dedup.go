package ordersvc

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/corray333/backend-labs/orderpay/internal/service/models/order"
	"github.com/corray333/backend-labs/orderpay/internal/service/models/orderitem"
)

// DefaultDuplicateWindow is how far back a submission is compared against recent orders.
const DefaultDuplicateWindow = 3 * time.Minute

type orderQuerier interface {
	Query(ctx context.Context, filter order.QueryOrdersModel) ([]order.Order, error)
}

// DuplicateDetector finds a recent PLACED order with the same contents as a new submission.
type DuplicateDetector struct {
	orders orderQuerier
	window time.Duration
	now    func() time.Time
}

// NewDuplicateDetector creates a detector. A non-positive window falls back to
// DefaultDuplicateWindow and a nil clock to time.Now.
func NewDuplicateDetector(orders orderQuerier, window time.Duration, now func() time.Time) *DuplicateDetector {
	if window <= 0 {
		window = DefaultDuplicateWindow
	}
	if now == nil {
		now = time.Now
	}

	return &DuplicateDetector{
		orders: orders,
		window: window,
		now:    now,
	}
}

// Detect returns the oldest PLACED order created inside the window whose items
// match candidate: same number of items, same total to the cent and the same
// sorted name|quantity|price keys.
func (d *DuplicateDetector) Detect(
	ctx context.Context,
	candidate []orderitem.OrderItem,
) (order.Order, bool, error) {
	recent, err := d.orders.Query(ctx, order.QueryOrdersModel{
		Statuses:     []order.Status{order.StatusPlaced},
		CreatedAfter: d.now().Add(-d.window),
	})
	if err != nil {
		return order.Order{}, false, fmt.Errorf("failed to query recent orders: %w", err)
	}

	total := orderitem.Total(candidate).StringFixed(2)
	keys := orderitem.Signatures(candidate)

	for _, o := range recent {
		if len(o.OrderItems) != len(candidate) {
			continue
		}
		if o.Total().StringFixed(2) != total {
			continue
		}
		if slices.Equal(orderitem.Signatures(o.OrderItems), keys) {
			return o, true, nil
		}
	}

	return order.Order{}, false, nil
}
