package market

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

// ComposeProductName builds the stored product name, e.g. "Tomatoes 500grms".
func ComposeProductName(name, unitValue, units string) string {
	return strings.TrimSpace(name) + " " + strings.TrimSpace(unitValue) + strings.TrimSpace(units)
}

// SplitUnit reverses ComposeProductName: the last word is the unit.
// A single-word name has no unit.
func SplitUnit(name string) (display, unit string) {
	parts := strings.Fields(name)
	if len(parts) <= 1 {
		return strings.Join(parts, " "), ""
	}
	return strings.Join(parts[:len(parts)-1], " "), parts[len(parts)-1]
}

// Capitalize upper-cases the first letter of every word and lower-cases the rest.
func Capitalize(s string) string {
	words := strings.Split(s, " ")
	for i, w := range words {
		if w == "" {
			continue
		}
		r, size := utf8.DecodeRuneInString(w)
		words[i] = string(unicode.ToUpper(r)) + strings.ToLower(w[size:])
	}
	return strings.Join(words, " ")
}

// Initials returns the first letter of the first and last word of name.
func Initials(name string) string {
	parts := strings.Fields(name)
	switch len(parts) {
	case 0:
		return ""
	case 1:
		return strings.ToUpper(firstRune(parts[0]))
	default:
		return strings.ToUpper(firstRune(parts[0]) + firstRune(parts[len(parts)-1]))
	}
}

func firstRune(s string) string {
	r, _ := utf8.DecodeRuneInString(s)
	return string(r)
}

func SortOrdersLatestFirst(orders []Order) {
	sort.SliceStable(orders, func(i, j int) bool {
		return orders[i].OrderDate.After(orders[j].OrderDate.Time)
	})
}
