package catalog

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ariefcatur/haritham-market/internal/market"
	"github.com/ariefcatur/haritham-market/internal/session"
	"github.com/ariefcatur/haritham-market/internal/stockmark"
	"github.com/shopspring/decimal"
)

type OrderPlacer interface {
	GetProduct(ctx context.Context, id string) (market.Product, error)
	PlaceOrder(ctx context.Context, req market.PlaceOrderRequest) error
}

type Purchase struct {
	API   OrderPlacer
	Marks *stockmark.Marks
	Log   *slog.Logger
}

type Receipt struct {
	ProductID string          `json:"productId"`
	Quantity  int             `json:"quantity"`
	Total     decimal.Decimal `json:"totalPrice"`
	// Remaining is the stock left as seen just before submit.
	Remaining int `json:"remaining"`
}

// Place submits an order for qty units. Stock is re-read right before the
// order is posted so a stale page can't request more than is left.
func (p *Purchase) Place(ctx context.Context, id session.Identity, productID string, qty int) (Receipt, error) {
	if !id.LoggedIn() {
		return Receipt{}, session.ErrNotLoggedIn
	}
	if qty < 1 {
		return Receipt{}, fmt.Errorf("%w: quantity must be at least 1", ErrQuantityOutOfRange)
	}

	prod, err := p.API.GetProduct(ctx, productID)
	if err != nil {
		return Receipt{}, err
	}
	if !prod.IsVisible() {
		return Receipt{}, ErrProductUnavailable
	}
	st := market.NewStepper(prod.QuantityAvailable)
	if st.Disabled() {
		return Receipt{}, ErrOutOfStock
	}
	if st.Clamp(qty) != qty {
		return Receipt{}, fmt.Errorf("%w: only %d left", ErrQuantityOutOfRange, prod.QuantityAvailable)
	}

	err = p.API.PlaceOrder(ctx, market.PlaceOrderRequest{
		ProductID: productID,
		Quantity:  qty,
		BuyerID:   id.UserID,
	})
	if err != nil {
		p.Log.Error("place order failed", "product_id", productID, "buyer_id", id.UserID, "err", err)
		return Receipt{}, err
	}

	left := prod.QuantityAvailable - qty
	if left == 0 && p.Marks != nil {
		p.Marks.Mark(productID)
	}
	p.Log.Info("order placed", "product_id", productID, "buyer_id", id.UserID, "quantity", qty)
	return Receipt{
		ProductID: productID,
		Quantity:  qty,
		Total:     market.LineTotal(prod.PricePerUnit, qty),
		Remaining: left,
	}, nil
}
