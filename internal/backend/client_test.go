package backend

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ariefcatur/haritham-market/internal/market"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return New(srv.URL, 2*time.Second, WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
}

func TestUpdateOrderStatusSendsMultipartField(t *testing.T) {
	var (
		method, path, status string
		calls                int
	)
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		method, path = r.Method, r.URL.Path
		assert.NoError(t, r.ParseMultipartForm(1<<20))
		status = r.FormValue("status")
		w.WriteHeader(http.StatusOK)
	})

	require.NoError(t, c.UpdateOrderStatus(context.Background(), "o-1", market.StatusPacked))
	assert.Equal(t, 1, calls)
	assert.Equal(t, http.MethodPut, method)
	assert.Equal(t, "/api/orders/o-1/status", path)
	assert.Equal(t, "PACKED", status)
}

func TestAPIErrorSurfacesServerMessage(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"json error field", `{"error":"Insufficient stock"}`, "Insufficient stock"},
		{"json message field", `{"message":"Product not found"}`, "Product not found"},
		{"plain text", "Order not found", "Order not found"},
		{"html page", "<html>oops</html>", "Failed to place order."},
		{"empty", "", "Failed to place order."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadRequest)
				_, _ = io.WriteString(w, tt.body)
			})
			err := c.PlaceOrder(context.Background(), market.PlaceOrderRequest{ProductID: "p", Quantity: 1, BuyerID: "b"})
			var ae *APIError
			require.ErrorAs(t, err, &ae)
			assert.Equal(t, http.StatusBadRequest, ae.StatusCode)
			assert.Equal(t, tt.want, ae.Message)
		})
	}
}

func TestTransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := New(url, time.Second, WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	_, err := c.AllProducts(context.Background())
	var te *TransportError
	assert.ErrorAs(t, err, &te)
}

func TestNotFoundKeepsStatus(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Product not found", http.StatusNotFound)
	})
	_, err := c.GetProduct(context.Background(), "missing")
	var ae *APIError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, http.StatusNotFound, ae.StatusCode)
	assert.Equal(t, "Product not found", ae.Message)
}

func TestPlaceOrderPayload(t *testing.T) {
	var got map[string]any
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/orders/place", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = io.WriteString(w, "Order placed successfully")
	})
	err := c.PlaceOrder(context.Background(), market.PlaceOrderRequest{ProductID: "p1", Quantity: 3, BuyerID: "u9"})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"productId": "p1", "quantity": float64(3), "buyerId": "u9"}, got)
}

func TestSetVisibilityQuery(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/api/products/p1/visibility", r.URL.Path)
		assert.Equal(t, "false", r.URL.Query().Get("visible"))
	})
	require.NoError(t, c.SetVisibility(context.Background(), "p1", false))
}

func TestRegisterAlreadyRegistered(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_, _ = io.WriteString(w, `{"error":"Mobile number already registered"}`)
	})
	err := c.Register(context.Background(), market.Registration{Mobile: "9876543210"})
	var ae *APIError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, MsgAlreadyRegistered, ae.Message)
}

func TestLoginDecodesUser(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"id":"u1","name":"Anita","empId":"E7","mobile":"9876543210"}`)
	})
	u, err := c.Login(context.Background(), market.Credentials{Mobile: "9876543210", Password: "x"})
	require.NoError(t, err)
	assert.Equal(t, "u1", u.ID)
	assert.Equal(t, "Anita", u.Name)
}
