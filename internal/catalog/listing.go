// Package catalog is the product side of the marketplace: the buyer's
// browse and purchase flow and the seller's product desk.
package catalog

import (
	"context"
	"log/slog"
	"slices"

	"github.com/ariefcatur/haritham-market/internal/market"
	"github.com/ariefcatur/haritham-market/internal/stockmark"
)

type ProductAPI interface {
	AllProducts(ctx context.Context) ([]market.Product, error)
	GetProduct(ctx context.Context, id string) (market.Product, error)
}

// Item is one product card on the buy page.
type Item struct {
	market.Product
	DisplayName     string `json:"displayName"`
	Unit            string `json:"unit"`
	SellerName      string `json:"sellerName"`
	OutOfStock      bool   `json:"outOfStock"`
	RecentlySoldOut bool   `json:"recentlySoldOut"`
	// MinQuantity and MaxQuantity bound the purchase quantity selector.
	// Both are 0 when the product is out of stock.
	MinQuantity int `json:"minQuantity"`
	MaxQuantity int `json:"maxQuantity"`
}

type Listing struct {
	API   ProductAPI
	Names *SellerNames
	Marks *stockmark.Marks
	Log   *slog.Logger
}

// Browse returns visible products matching f, newest first, with seller
// names resolved. A seller whose name could not be looked up shows as
// "Unknown Seller" rather than failing the page.
func (l *Listing) Browse(ctx context.Context, f market.Filter) ([]Item, error) {
	all, err := l.API.AllProducts(ctx)
	if err != nil {
		return nil, err
	}
	slices.Reverse(all)
	products := f.Apply(all)

	ids := make([]string, 0, len(products))
	for _, p := range products {
		ids = append(ids, p.SellerID)
	}
	names := map[string]string{}
	if l.Names != nil && len(ids) > 0 {
		if names, err = l.Names.Resolve(ctx, ids); err != nil {
			l.Log.Warn("seller name lookup failed", "err", err)
		}
	}

	items := make([]Item, 0, len(products))
	for _, p := range products {
		display, unit := market.SplitUnit(p.Name)
		name, ok := names[p.SellerID]
		if !ok {
			name = market.UnknownSeller
		}
		st := market.NewStepper(p.QuantityAvailable)
		it := Item{
			Product:     p,
			DisplayName: market.Capitalize(display),
			Unit:        unit,
			SellerName:  name,
			OutOfStock:  p.OutOfStock(),
			MinQuantity: st.Min(),
			MaxQuantity: st.Max,
		}
		if l.Marks != nil {
			it.RecentlySoldOut = l.Marks.Recent(p.ID)
		}
		items = append(items, it)
	}
	return items, nil
}
