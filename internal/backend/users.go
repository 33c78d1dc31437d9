package backend

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/ariefcatur/haritham-market/internal/market"
)

func (c *Client) Register(ctx context.Context, reg market.Registration) error {
	body, err := jsonBody(reg)
	if err != nil {
		return err
	}
	err = c.do(ctx, request{
		method: http.MethodPost, path: "/api/users/register",
		body: body, contentType: "application/json",
		fallback: "Registration failed. Please try again.",
	}, nil)
	var ae *APIError
	if errors.As(err, &ae) && strings.Contains(ae.Message, "already registered") {
		ae.Message = MsgAlreadyRegistered
	}
	return err
}

const MsgAlreadyRegistered = "This mobile number is already registered. Please login or use a different number."

func (c *Client) Login(ctx context.Context, cred market.Credentials) (market.User, error) {
	var u market.User
	body, err := jsonBody(cred)
	if err != nil {
		return u, err
	}
	err = c.do(ctx, request{
		method: http.MethodPost, path: "/api/users/login",
		body: body, contentType: "application/json",
		fallback: "Login failed. Please try again.",
	}, &u)
	return u, err
}

func (c *Client) GetUser(ctx context.Context, id string) (market.User, error) {
	var u market.User
	err := c.do(ctx, request{
		method: http.MethodGet, path: "/api/users/" + seg(id),
		fallback: "Failed to fetch user",
	}, &u)
	return u, err
}

func (c *Client) UserOrders(ctx context.Context, id string) ([]market.Order, error) {
	var out []market.Order
	err := c.do(ctx, request{
		method: http.MethodGet, path: "/api/users/" + seg(id) + "/orders",
		fallback: "Failed to load orders",
	}, &out)
	return out, err
}
