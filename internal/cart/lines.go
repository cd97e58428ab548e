package cart

import (
	"math"

	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/catalog"
)

// The functions below never modify their input slice; they return a new one.

func Find(lines []Line, productID string) (Line, bool) {
	for _, l := range lines {
		if l.ID == productID {
			return l, true
		}
	}
	return Line{}, false
}

// Add merges quantity into the line for p, or appends a new line. Existing
// notes are kept unless notes is non-empty. The resulting quantity never
// exceeds MaxQuantity.
func Add(lines []Line, p catalog.Product, quantity float64, notes string) []Line {
	out := make([]Line, 0, len(lines)+1)
	merged := false
	for _, l := range lines {
		if l.ID == p.ID {
			l.Quantity = clampQuantity(l.Quantity + quantity)
			if notes != "" {
				l.Notes = notes
			}
			merged = true
		}
		out = append(out, l)
	}
	if !merged {
		out = append(out, Line{Product: p, Quantity: clampQuantity(quantity), Notes: notes})
	}
	return out
}

// Update sets quantity and notes on the matching line. A quantity of zero or
// less removes the line; NaN leaves the cart unchanged.
func Update(lines []Line, productID string, quantity float64, notes string) []Line {
	if quantity <= 0 {
		return Remove(lines, productID)
	}
	if math.IsNaN(quantity) {
		return append([]Line{}, lines...)
	}
	quantity = clampQuantity(quantity)
	out := make([]Line, 0, len(lines))
	for _, l := range lines {
		if l.ID == productID {
			l.Quantity = quantity
			l.Notes = notes
		}
		out = append(out, l)
	}
	return out
}

func Remove(lines []Line, productID string) []Line {
	out := make([]Line, 0, len(lines))
	for _, l := range lines {
		if l.ID != productID {
			out = append(out, l)
		}
	}
	return out
}
