package httpx

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/ariefcatur/haritham-market/internal/market"
	"github.com/ariefcatur/haritham-market/internal/session"
	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"
)

type ProfileAPI interface {
	GetUser(ctx context.Context, id string) (market.User, error)
	UserOrders(ctx context.Context, id string) ([]market.Order, error)
	SellerProducts(ctx context.Context, sellerID string) ([]market.Product, error)
}

type ProfileHandler struct {
	API ProfileAPI
	Log *slog.Logger
}

type profileResp struct {
	User     market.User      `json:"user"`
	Initials string           `json:"initials"`
	Orders   []market.Order   `json:"orders"`
	Products []market.Product `json:"products"`
}

func (h *ProfileHandler) Register(r chi.Router) {
	r.With(requireLogin).Get("/profile", h.get)
}

// get serves the cached login profile when the session carries one and asks
// the marketplace otherwise.
func (h *ProfileHandler) get(w http.ResponseWriter, r *http.Request) {
	id := session.FromContext(r.Context())
	var out profileResp
	g, ctx := errgroup.WithContext(r.Context())
	if id.User != nil {
		out.User = *id.User
	} else {
		g.Go(func() (err error) {
			out.User, err = h.API.GetUser(ctx, id.UserID)
			return err
		})
	}
	g.Go(func() (err error) {
		out.Orders, err = h.API.UserOrders(ctx, id.UserID)
		return err
	})
	g.Go(func() (err error) {
		out.Products, err = h.API.SellerProducts(ctx, id.UserID)
		return err
	})
	if err := g.Wait(); err != nil {
		writeError(w, h.Log, err)
		return
	}
	market.SortOrdersLatestFirst(out.Orders)
	if out.Orders == nil {
		out.Orders = []market.Order{}
	}
	if out.Products == nil {
		out.Products = []market.Product{}
	}
	out.Initials = market.Initials(out.User.DisplayName())
	writeJSON(w, http.StatusOK, out)
}
