package backend

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/ariefcatur/haritham-market/internal/market"
)

func (c *Client) AllProducts(ctx context.Context) ([]market.Product, error) {
	var out []market.Product
	err := c.do(ctx, request{
		method: http.MethodGet, path: "/api/products/all",
		fallback: "Failed to fetch products",
	}, &out)
	return out, err
}

func (c *Client) SellerProducts(ctx context.Context, sellerID string) ([]market.Product, error) {
	var out []market.Product
	err := c.do(ctx, request{
		method: http.MethodGet, path: "/api/products/seller/" + seg(sellerID),
		fallback: "Failed to fetch products",
	}, &out)
	return out, err
}

func (c *Client) GetProduct(ctx context.Context, id string) (market.Product, error) {
	var p market.Product
	err := c.do(ctx, request{
		method: http.MethodGet, path: "/api/products/" + seg(id),
		fallback: "Error fetching product",
	}, &p)
	return p, err
}

// AddProduct ignores the response body; callers re-read the seller list.
func (c *Client) AddProduct(ctx context.Context, p market.Product) error {
	body, err := jsonBody(p)
	if err != nil {
		return err
	}
	return c.do(ctx, request{
		method: http.MethodPost, path: "/api/products/add",
		body: body, contentType: "application/json",
		fallback: "Failed to add product. Please try again.",
	}, nil)
}

// UpdateProduct sends the full record, not a patch.
func (c *Client) UpdateProduct(ctx context.Context, p market.Product) error {
	body, err := jsonBody(p)
	if err != nil {
		return err
	}
	return c.do(ctx, request{
		method: http.MethodPut, path: "/api/products/update/" + seg(p.ID),
		body: body, contentType: "application/json",
		fallback: "Failed to update product",
	}, nil)
}

func (c *Client) DeleteProduct(ctx context.Context, id string) error {
	return c.do(ctx, request{
		method: http.MethodDelete, path: "/api/products/delete/" + seg(id),
		fallback: "Failed to delete product",
	}, nil)
}

func (c *Client) SetVisibility(ctx context.Context, id string, visible bool) error {
	return c.do(ctx, request{
		method: http.MethodPut, path: "/api/products/" + seg(id) + "/visibility",
		query:    url.Values{"visible": {strconv.FormatBool(visible)}},
		fallback: "Failed to change visibility",
	}, nil)
}
