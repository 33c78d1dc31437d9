package httpx

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/ariefcatur/haritham-market/internal/catalog"
	"github.com/ariefcatur/haritham-market/internal/forms"
	"github.com/ariefcatur/haritham-market/internal/market"
	"github.com/ariefcatur/haritham-market/internal/session"
	"github.com/ariefcatur/haritham-market/internal/workflow"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/shopspring/decimal"
)

type BuyHandler struct {
	Listing  *catalog.Listing
	Purchase *catalog.Purchase
	Orders   *workflow.Workflow
	Log      *slog.Logger
}

type placeOrderReq struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

func (h *BuyHandler) Register(r chi.Router) {
	r.Get("/buy/products", h.listProducts)
	r.Post("/buy/orders", h.placeOrder)
	r.Group(func(r chi.Router) {
		r.Use(requireLogin)
		r.Get("/buy/orders", h.listOrders)
		r.Post("/buy/orders/{id}/collect", h.collect)
	})
}

func (h *BuyHandler) listProducts(w http.ResponseWriter, r *http.Request) {
	f, err := parseFilter(r)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	items, err := h.Listing.Browse(r.Context(), f)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func parseFilter(r *http.Request) (market.Filter, error) {
	q := r.URL.Query()
	f := market.Filter{
		Search:   strings.TrimSpace(q.Get("q")),
		Category: strings.TrimSpace(q.Get("category")),
	}
	bad := map[string]string{}
	bound := func(key string) *decimal.Decimal {
		v := strings.TrimSpace(q.Get(key))
		if v == "" {
			return nil
		}
		d, err := decimal.NewFromString(v)
		if err != nil {
			bad[key] = "Price must be a number"
			return nil
		}
		return &d
	}
	f.MinPrice = bound("min")
	f.MaxPrice = bound("max")
	if len(bad) > 0 {
		return f, &forms.ValidationError{Fields: bad}
	}
	return f, nil
}

// placeOrder rejects a logged-out caller before the body is read.
func (h *BuyHandler) placeOrder(w http.ResponseWriter, r *http.Request) {
	id := session.FromContext(r.Context())
	if !id.LoggedIn() {
		writeError(w, h.Log, session.ErrNotLoggedIn)
		return
	}
	var req placeOrderReq
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, h.Log, err)
		return
	}
	if strings.TrimSpace(req.ProductID) == "" {
		writeError(w, h.Log, &forms.ValidationError{Fields: map[string]string{"productId": "Product is required"}})
		return
	}
	rc, err := h.Purchase.Place(r.Context(), id, req.ProductID, req.Quantity)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusCreated, rc)
}

func (h *BuyHandler) listOrders(w http.ResponseWriter, r *http.Request) {
	id := session.FromContext(r.Context())
	views, err := h.Orders.Views(r.Context(), market.RoleBuyer, id.UserID)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, views)
}

func (h *BuyHandler) collect(w http.ResponseWriter, r *http.Request) {
	id := session.FromContext(r.Context())
	res, err := h.Orders.Collect(r.Context(), id.UserID, chi.URLParam(r, "id"), middleware.GetReqID(r.Context()))
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
