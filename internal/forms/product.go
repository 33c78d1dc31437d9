package forms

import (
	"strings"

	"github.com/ariefcatur/haritham-market/internal/market"
	"github.com/shopspring/decimal"
)

// ProductForm is the seller's "add product" form. Name, unit value and
// units are joined into the stored product name.
type ProductForm struct {
	Name              string          `json:"name" validate:"notblank"`
	UnitValue         string          `json:"unitValue" validate:"notblank,numeric"`
	Units             string          `json:"units" validate:"oneof=grms kg ml l piece dozen"`
	Description       string          `json:"description" validate:"notblank"`
	Category          string          `json:"category" validate:"notblank"`
	PricePerUnit      decimal.Decimal `json:"pricePerUnit" validate:"gte=0"`
	QuantityAvailable int             `json:"quantityAvailable" validate:"min=0"`
}

var productLabels = map[string]string{
	"Name": "Name", "UnitValue": "Unit value", "Units": "Units", "Description": "Description",
	"Category": "Category", "PricePerUnit": "Price per unit", "QuantityAvailable": "Quantity available",
}

var productMsgs = messages{
	"UnitValue":         {"numeric": "Unit value must be a number"},
	"Units":             {"oneof": "Units must be one of grms, kg, ml, l, piece, dozen"},
	"PricePerUnit":      {"gte": "Price per unit cannot be negative"},
	"QuantityAvailable": {"min": "Quantity available cannot be negative"},
}

func (f *ProductForm) Validate() error {
	if strings.TrimSpace(f.Units) == "" {
		f.Units = "grms"
	}
	if err := check(*f, productLabels, productMsgs); err != nil {
		return err
	}
	if v, err := decimal.NewFromString(strings.TrimSpace(f.UnitValue)); err != nil || v.LessThan(decimal.NewFromInt(1)) {
		return &ValidationError{Fields: map[string]string{"UnitValue": "Unit value must be at least 1"}}
	}
	return nil
}

func (f ProductForm) Product(sellerID, imageURL string) market.Product {
	return market.Product{
		Name:              market.ComposeProductName(f.Name, f.UnitValue, f.Units),
		Description:       strings.TrimSpace(f.Description),
		Category:          strings.TrimSpace(f.Category),
		PricePerUnit:      f.PricePerUnit,
		QuantityAvailable: f.QuantityAvailable,
		ImageURL:          imageURL,
		SellerID:          sellerID,
	}
}

// ProductEdit is the full record a seller submits from the edit dialog.
type ProductEdit struct {
	Name              string          `json:"name" validate:"notblank"`
	Description       string          `json:"description" validate:"notblank"`
	Category          string          `json:"category" validate:"notblank"`
	PricePerUnit      decimal.Decimal `json:"pricePerUnit" validate:"gte=0"`
	QuantityAvailable int             `json:"quantityAvailable" validate:"min=0"`
	ImageURL          string          `json:"imageUrl"`
}

func (f ProductEdit) Validate() error { return check(f, productLabels, productMsgs) }

// Apply overwrites the editable fields of p.
func (f ProductEdit) Apply(p market.Product) market.Product {
	p.Name = strings.TrimSpace(f.Name)
	p.Description = strings.TrimSpace(f.Description)
	p.Category = strings.TrimSpace(f.Category)
	p.PricePerUnit = f.PricePerUnit
	p.QuantityAvailable = f.QuantityAvailable
	if f.ImageURL != "" {
		p.ImageURL = f.ImageURL
	}
	return p
}

type StatusForm struct {
	Status string `json:"status" validate:"notblank"`
}

func (f StatusForm) Validate() error {
	return check(f, map[string]string{"Status": "Status"}, nil)
}
