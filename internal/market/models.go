package market

import (
	"strings"

	"github.com/shopspring/decimal"
)

func init() {
	// The remote API speaks plain JSON numbers for prices.
	decimal.MarshalJSONWithoutQuotes = true
}

type Order struct {
	ID              string          `json:"id"`
	ProductID       string          `json:"productId"`
	ProductName     string          `json:"productName"`
	QuantityOrdered int             `json:"quantityOrdered"`
	TotalPrice      decimal.Decimal `json:"totalPrice"`
	BuyerID         string          `json:"buyerId"`
	BuyerName       string          `json:"buyerName"`
	SellerID        string          `json:"sellerId"`
	OrderDate       Timestamp       `json:"orderDate"`
	Status          Status          `json:"status"`
}

type Product struct {
	ID                string          `json:"id,omitempty"`
	Name              string          `json:"name"`
	Description       string          `json:"description"`
	Category          string          `json:"category"`
	PricePerUnit      decimal.Decimal `json:"pricePerUnit"`
	QuantityAvailable int             `json:"quantityAvailable"`
	ImageURL          string          `json:"imageUrl"`
	SellerID          string          `json:"sellerId"`
	// nil means the backend did not say; only an explicit false hides a product.
	Visible *bool `json:"visible,omitempty"`
}

func (p Product) IsVisible() bool { return p.Visible == nil || *p.Visible }

func (p Product) OutOfStock() bool { return p.QuantityAvailable <= 0 }

type User struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Username     string  `json:"username,omitempty"`
	EmpID        string  `json:"empId"`
	Mobile       string  `json:"mobile"`
	OrdersPlaced []Order `json:"ordersPlaced,omitempty"`
}

// DisplayName falls back to the username, then to a fixed label.
func (u User) DisplayName() string {
	if n := strings.TrimSpace(u.Name); n != "" {
		return n
	}
	if n := strings.TrimSpace(u.Username); n != "" {
		return n
	}
	return UnknownSeller
}

const UnknownSeller = "Unknown Seller"

type PlaceOrderRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
	BuyerID   string `json:"buyerId"`
}

type Credentials struct {
	Mobile   string `json:"mobile"`
	Password string `json:"password"`
}

type Registration struct {
	EmpID    string `json:"empId"`
	Name     string `json:"name"`
	Mobile   string `json:"mobile"`
	Password string `json:"password"`
}

func BoolPtr(b bool) *bool { return &b }
