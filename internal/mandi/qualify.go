// internal/mandi/qualify.go
package mandi

import "strings"

// Qualify keeps the markets whose first listing named productName (compared
// case-insensitively) holds at least requiredQuantity. Input order is kept
// and an empty result is not an error.
func Qualify(markets []Market, productName string, requiredQuantity float64) []QualifiedMarket {
	out := make([]QualifiedMarket, 0, len(markets))
	for _, m := range markets {
		listing, ok := FindListing(m, productName)
		if !ok || listing.AvailableQuantity < requiredQuantity {
			continue
		}
		out = append(out, QualifiedMarket{Market: m, MatchedProduct: listing})
	}
	return out
}

// FindListing returns the first listing in m whose name equals productName
// ignoring case. Substrings do not match.
func FindListing(m Market, productName string) (ProductListing, bool) {
	want := strings.ToLower(productName)
	for _, p := range m.Products {
		if strings.ToLower(p.ProductName) == want {
			return p, true
		}
	}
	return ProductListing{}, false
}
