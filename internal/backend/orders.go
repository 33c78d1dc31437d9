package backend

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"

	"github.com/ariefcatur/haritham-market/internal/market"
)

func (c *Client) PlaceOrder(ctx context.Context, req market.PlaceOrderRequest) error {
	body, err := jsonBody(req)
	if err != nil {
		return err
	}
	return c.do(ctx, request{
		method: http.MethodPost, path: "/api/orders/place",
		body: body, contentType: "application/json",
		fallback: "Failed to place order.",
	}, nil)
}

func (c *Client) SellerOrders(ctx context.Context, sellerID string) ([]market.Order, error) {
	var out []market.Order
	err := c.do(ctx, request{
		method: http.MethodGet, path: "/api/orders/seller/" + seg(sellerID),
		fallback: "Failed to load orders",
	}, &out)
	return out, err
}

func (c *Client) ProductOrders(ctx context.Context, productID string) ([]market.Order, error) {
	var out []market.Order
	err := c.do(ctx, request{
		method: http.MethodGet, path: "/api/orders/product/" + seg(productID),
		fallback: "Failed to load orders",
	}, &out)
	return out, err
}

// UpdateOrderStatus sends the new status as the multipart form field "status".
func (c *Client) UpdateOrderStatus(ctx context.Context, orderID string, status market.Status) error {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if err := mw.WriteField("status", string(status)); err != nil {
		return fmt.Errorf("encode status form: %w", err)
	}
	if err := mw.Close(); err != nil {
		return fmt.Errorf("encode status form: %w", err)
	}
	return c.do(ctx, request{
		method: http.MethodPut, path: "/api/orders/" + seg(orderID) + "/status",
		body: &buf, contentType: mw.FormDataContentType(),
		fallback: "Failed to update order status",
	}, nil)
}
