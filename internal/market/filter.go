package market

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Filter is the buyer-side listing filter. All set fields must match.
type Filter struct {
	Search   string
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal
	Category string
}

func (f Filter) Match(p Product) bool {
	if !p.IsVisible() {
		return false
	}
	if q := strings.TrimSpace(f.Search); q != "" &&
		!strings.Contains(strings.ToLower(p.Name), strings.ToLower(q)) {
		return false
	}
	if f.MinPrice != nil && p.PricePerUnit.LessThan(*f.MinPrice) {
		return false
	}
	if f.MaxPrice != nil && p.PricePerUnit.GreaterThan(*f.MaxPrice) {
		return false
	}
	if c := strings.TrimSpace(f.Category); c != "" && !strings.EqualFold(strings.TrimSpace(p.Category), c) {
		return false
	}
	return true
}

func (f Filter) Apply(products []Product) []Product {
	out := make([]Product, 0, len(products))
	for _, p := range products {
		if f.Match(p) {
			out = append(out, p)
		}
	}
	return out
}
