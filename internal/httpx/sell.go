package httpx

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/ariefcatur/haritham-market/internal/audit"
	"github.com/ariefcatur/haritham-market/internal/catalog"
	"github.com/ariefcatur/haritham-market/internal/forms"
	"github.com/ariefcatur/haritham-market/internal/market"
	"github.com/ariefcatur/haritham-market/internal/session"
	"github.com/ariefcatur/haritham-market/internal/workflow"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/shopspring/decimal"
)

const maxUpload = 10 << 20

type HistoryReader interface {
	History(ctx context.Context, orderID string) ([]audit.Entry, error)
}

type SellHandler struct {
	Desk   *catalog.Desk
	Orders *workflow.Workflow
	// History is nil when no audit store is configured.
	History HistoryReader
	Log     *slog.Logger
}

func (h *SellHandler) Register(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(requireLogin)
		r.Get("/sell/products", h.listProducts)
		r.Post("/sell/products", h.createProduct)
		r.Put("/sell/products/{id}", h.updateProduct)
		r.Delete("/sell/products/{id}", h.deleteProduct)
		r.Put("/sell/products/{id}/visibility", h.setVisibility)
		r.Get("/sell/products/{id}/orders", h.productOrders)
		r.Get("/sell/orders", h.listOrders)
		r.Put("/sell/orders/{id}/status", h.updateStatus)
		r.Get("/sell/orders/{id}/history", h.history)
	})
}

func (h *SellHandler) listProducts(w http.ResponseWriter, r *http.Request) {
	id := session.FromContext(r.Context())
	ps, err := h.Desk.List(r.Context(), id.UserID)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, ps)
}

func (h *SellHandler) createProduct(w http.ResponseWriter, r *http.Request) {
	id := session.FromContext(r.Context())
	if err := r.ParseMultipartForm(maxUpload); err != nil {
		writeError(w, h.Log, &forms.ValidationError{Fields: map[string]string{"body": "expected a multipart form"}})
		return
	}
	bad := map[string]string{}
	f := forms.ProductForm{
		Name:              r.FormValue("name"),
		UnitValue:         r.FormValue("unitValue"),
		Units:             r.FormValue("units"),
		Description:       r.FormValue("description"),
		Category:          r.FormValue("category"),
		PricePerUnit:      formDecimal(r, "pricePerUnit", bad),
		QuantityAvailable: formInt(r, "quantityAvailable", bad),
	}
	if len(bad) > 0 {
		writeError(w, h.Log, &forms.ValidationError{Fields: bad})
		return
	}
	img, closeImg := formImage(r)
	defer closeImg()

	ps, err := h.Desk.Create(r.Context(), id.UserID, f, img)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusCreated, ps)
}

// updateProduct takes the full record as JSON, or as a multipart form when
// a replacement image is attached.
func (h *SellHandler) updateProduct(w http.ResponseWriter, r *http.Request) {
	id := session.FromContext(r.Context())
	var (
		e   forms.ProductEdit
		img *catalog.Image
	)
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/") {
		if err := r.ParseMultipartForm(maxUpload); err != nil {
			writeError(w, h.Log, &forms.ValidationError{Fields: map[string]string{"body": "invalid multipart form"}})
			return
		}
		bad := map[string]string{}
		e = forms.ProductEdit{
			Name:              r.FormValue("name"),
			Description:       r.FormValue("description"),
			Category:          r.FormValue("category"),
			PricePerUnit:      formDecimal(r, "pricePerUnit", bad),
			QuantityAvailable: formInt(r, "quantityAvailable", bad),
			ImageURL:          r.FormValue("imageUrl"),
		}
		if len(bad) > 0 {
			writeError(w, h.Log, &forms.ValidationError{Fields: bad})
			return
		}
		var closeImg func()
		img, closeImg = formImage(r)
		defer closeImg()
	} else if err := decodeJSON(r, &e); err != nil {
		writeError(w, h.Log, err)
		return
	}

	ps, err := h.Desk.Update(r.Context(), id.UserID, chi.URLParam(r, "id"), e, img)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, ps)
}

func (h *SellHandler) deleteProduct(w http.ResponseWriter, r *http.Request) {
	id := session.FromContext(r.Context())
	confirmed, _ := strconv.ParseBool(r.URL.Query().Get("confirm"))
	ps, err := h.Desk.Delete(r.Context(), id.UserID, chi.URLParam(r, "id"), confirmed)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, ps)
}

func (h *SellHandler) setVisibility(w http.ResponseWriter, r *http.Request) {
	id := session.FromContext(r.Context())
	visible, err := strconv.ParseBool(r.URL.Query().Get("visible"))
	if err != nil {
		writeError(w, h.Log, &forms.ValidationError{Fields: map[string]string{"visible": "visible must be true or false"}})
		return
	}
	ps, err := h.Desk.SetVisibility(r.Context(), id.UserID, chi.URLParam(r, "id"), visible)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, ps)
}

func (h *SellHandler) productOrders(w http.ResponseWriter, r *http.Request) {
	id := session.FromContext(r.Context())
	orders, err := h.Desk.Orders(r.Context(), id.UserID, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	if orders == nil {
		orders = []market.Order{}
	}
	writeJSON(w, http.StatusOK, orders)
}

func (h *SellHandler) listOrders(w http.ResponseWriter, r *http.Request) {
	id := session.FromContext(r.Context())
	views, err := h.Orders.Views(r.Context(), market.RoleSeller, id.UserID)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, views)
}

func (h *SellHandler) updateStatus(w http.ResponseWriter, r *http.Request) {
	id := session.FromContext(r.Context())
	var f forms.StatusForm
	if err := decodeJSON(r, &f); err != nil {
		writeError(w, h.Log, err)
		return
	}
	if err := f.Validate(); err != nil {
		writeError(w, h.Log, err)
		return
	}
	to, err := market.ParseStatus(f.Status)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	res, err := h.Orders.UpdateStatus(r.Context(), workflow.Change{
		Role:    market.RoleSeller,
		ActorID: id.UserID,
		OrderID: chi.URLParam(r, "id"),
		To:      to,
		TraceID: middleware.GetReqID(r.Context()),
	})
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// history is only served for orders that appear on the caller's dashboard.
func (h *SellHandler) history(w http.ResponseWriter, r *http.Request) {
	if h.History == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "order history is not enabled"})
		return
	}
	id := session.FromContext(r.Context())
	orderID := chi.URLParam(r, "id")
	views, err := h.Orders.Views(r.Context(), market.RoleSeller, id.UserID)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	owned := false
	for _, v := range views {
		if v.ID == orderID {
			owned = true
			break
		}
	}
	if !owned {
		writeError(w, h.Log, workflow.ErrOrderNotFound)
		return
	}
	entries, err := h.History.History(r.Context(), orderID)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	if entries == nil {
		entries = []audit.Entry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

func formDecimal(r *http.Request, key string, bad map[string]string) decimal.Decimal {
	v := strings.TrimSpace(r.FormValue(key))
	if v == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(v)
	if err != nil {
		bad[key] = "Must be a number"
	}
	return d
}

func formInt(r *http.Request, key string, bad map[string]string) int {
	v := strings.TrimSpace(r.FormValue(key))
	if v == "" {
		return 0
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		bad[key] = "Must be a whole number"
	}
	return i
}

// formImage returns the "image" part, or nil when none was sent.
func formImage(r *http.Request) (*catalog.Image, func()) {
	file, hdr, err := r.FormFile("image")
	if err != nil {
		return nil, func() {}
	}
	return &catalog.Image{Filename: hdr.Filename, Body: file}, func() { _ = file.Close() }
}
