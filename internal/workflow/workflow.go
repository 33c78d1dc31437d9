// Package workflow drives order status changes for sellers and buyers.
package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	kafkax "github.com/ariefcatur/haritham-market/internal/kafka"
	"github.com/ariefcatur/haritham-market/internal/market"
	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
)

var ErrOrderNotFound = errors.New("order not found")

// OrderAPI is the part of the marketplace client the workflow needs.
type OrderAPI interface {
	SellerOrders(ctx context.Context, sellerID string) ([]market.Order, error)
	UserOrders(ctx context.Context, userID string) ([]market.Order, error)
	UpdateOrderStatus(ctx context.Context, orderID string, status market.Status) error
}

type Publisher interface {
	Publish(key, value []byte, headers ...kafkago.Header)
}

type Workflow struct {
	API     OrderAPI
	Policy  market.Policy
	Guard   Guard
	Events  Publisher // nil disables events
	Service string
	Log     *slog.Logger
}

// OrderView is one row of the seller dashboard or the buyer's order list.
type OrderView struct {
	market.Order
	Targets    []market.Status `json:"targets"`
	CanCollect bool            `json:"canCollect"`
	Fulfilled  bool            `json:"fulfilled"`
	Updating   bool            `json:"updating"`
}

type Change struct {
	Role    market.Role
	ActorID string
	OrderID string
	To      market.Status
	TraceID string
}

type Result struct {
	Order market.Order `json:"order"`
	// Applied is false when the requested status was already current.
	Applied bool `json:"applied"`
	// Refetched is true when Order is the server's copy after the change.
	Refetched bool `json:"refetched"`
}

func (w *Workflow) load(ctx context.Context, role market.Role, userID string) ([]market.Order, error) {
	switch role {
	case market.RoleSeller:
		return w.API.SellerOrders(ctx, userID)
	case market.RoleBuyer:
		orders, err := w.API.UserOrders(ctx, userID)
		if err != nil {
			return nil, err
		}
		market.SortOrdersLatestFirst(orders)
		return orders, nil
	default:
		return nil, fmt.Errorf("unknown role %q", role)
	}
}

func (w *Workflow) View(ctx context.Context, role market.Role, o market.Order) OrderView {
	v := OrderView{
		Order:     o,
		Targets:   w.Policy.AllowedTargets(role, o.Status),
		Fulfilled: o.Status.Terminal(),
		Updating:  w.Guard.Busy(ctx, o.ID),
	}
	if v.Targets == nil {
		v.Targets = []market.Status{}
	}
	v.CanCollect = role == market.RoleBuyer && len(v.Targets) > 0 && !v.Updating
	return v
}

// Views lists the viewer's orders with the status choices each one offers.
func (w *Workflow) Views(ctx context.Context, role market.Role, userID string) ([]OrderView, error) {
	orders, err := w.load(ctx, role, userID)
	if err != nil {
		return nil, err
	}
	out := make([]OrderView, 0, len(orders))
	for _, o := range orders {
		out = append(out, w.View(ctx, role, o))
	}
	return out, nil
}

func find(orders []market.Order, id string) (market.Order, bool) {
	for _, o := range orders {
		if o.ID == id {
			return o, true
		}
	}
	return market.Order{}, false
}

// UpdateStatus submits one status change. Only one change per order may be
// in flight; a change to the current status sends nothing.
func (w *Workflow) UpdateStatus(ctx context.Context, c Change) (Result, error) {
	release, ok, err := w.Guard.TryAcquire(ctx, c.OrderID)
	if err != nil {
		return Result{}, err
	}
	if !ok {
		return Result{}, ErrUpdateInFlight
	}
	defer release()

	orders, err := w.load(ctx, c.Role, c.ActorID)
	if err != nil {
		return Result{}, err
	}
	current, found := find(orders, c.OrderID)
	if !found {
		return Result{}, ErrOrderNotFound
	}
	if current.Status == c.To {
		return Result{Order: current}, nil
	}
	if err := w.Policy.CheckTransition(c.Role, current.Status, c.To); err != nil {
		return Result{}, err
	}

	if err := w.API.UpdateOrderStatus(ctx, c.OrderID, c.To); err != nil {
		w.Log.Error("order status update failed",
			"order_id", c.OrderID, "from", current.Status, "to", c.To, "role", c.Role, "err", err)
		return Result{}, err
	}
	w.Log.Info("order status updated",
		"order_id", c.OrderID, "from", current.Status, "to", c.To, "role", c.Role, "actor", c.ActorID)
	w.publish(c, current.Status)

	res := Result{Applied: true}
	fresh, err := w.load(ctx, c.Role, c.ActorID)
	if err == nil {
		if o, ok := find(fresh, c.OrderID); ok {
			res.Order, res.Refetched = o, true
			if o.Status != c.To {
				w.Log.Warn("order status differs after update",
					"order_id", c.OrderID, "want", c.To, "got", o.Status)
			}
			return res, nil
		}
	}
	w.Log.Warn("order re-fetch after update failed, patching locally", "order_id", c.OrderID, "err", err)
	current.Status = c.To
	res.Order = current
	return res, nil
}

// Collect is the buyer's "mark collected" action.
func (w *Workflow) Collect(ctx context.Context, buyerID, orderID, traceID string) (Result, error) {
	return w.UpdateStatus(ctx, Change{
		Role: market.RoleBuyer, ActorID: buyerID, OrderID: orderID,
		To: market.StatusCollected, TraceID: traceID,
	})
}

func (w *Workflow) publish(c Change, from market.Status) {
	if w.Events == nil {
		return
	}
	ev := market.Envelope{
		EventID:       uuid.NewString(),
		EventType:     market.EventOrderStatusChanged,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      w.Service,
		TraceID:       c.TraceID,
		CorrelationID: c.OrderID,
		Payload: kafkax.MustMarshal(market.OrderStatusChangedPayload{
			OrderID: c.OrderID, From: from, To: c.To, Role: c.Role, ActorID: c.ActorID,
		}),
	}
	w.Events.Publish(market.PartitionKey(c.OrderID), kafkax.MustMarshal(ev),
		kafkago.Header{Key: "x-event-type", Value: []byte(market.EventOrderStatusChanged)},
		kafkago.Header{Key: "x-event-version", Value: []byte("1")},
	)
}
