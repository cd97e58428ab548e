package cart

import (
	"math"
	"strconv"

	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/catalog"
)

// Line is a product in the cart. Product fields are copied at the time the
// line is created, so later catalog edits do not reprice the cart.
type Line struct {
	catalog.Product
	Quantity float64 `json:"quantity"`
	Notes    string  `json:"notes"`
}

// MaxQuantity caps a single line so totals stay finite and encodable.
const MaxQuantity = 9999

// ValidQuantity reports whether q can be added to a cart.
func ValidQuantity(q float64) bool {
	return q > 0 && q <= MaxQuantity
}

func clampQuantity(q float64) float64 {
	return math.Min(q, MaxQuantity)
}

func (l Line) Total() float64 {
	return l.Price * l.Quantity
}

type Summary struct {
	Lines int     `json:"lines"`
	Items float64 `json:"items"`
	Total float64 `json:"total"`
}

func Summarize(lines []Line) Summary {
	s := Summary{Lines: len(lines)}
	for _, l := range lines {
		s.Items += l.Quantity
		s.Total += l.Total()
	}
	return s
}

func Total(lines []Line) float64 {
	return Summarize(lines).Total
}

// FormatQuantity renders a quantity in its shortest form: 2, 0.5, 1.25.
func FormatQuantity(q float64) string {
	return strconv.FormatFloat(q, 'f', -1, 64)
}
