package events

import (
	"time"

	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/cart"
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/order"
)

var OrderSubmitted = EventType{
	Name:    "OrderSubmitted",
	Version: 1,
	Schema:  "contracts/events/storefront/OrderSubmitted.v1.payload.schema.json",
}

type OrderItem struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	Quantity  float64 `json:"quantity"`
	Unit      string  `json:"unit"`
	Price     float64 `json:"price"`
	Notes     string  `json:"notes,omitempty"`
}

type OrderSubmittedPayload struct {
	OrderID       string      `json:"orderId"`
	Items         []OrderItem `json:"items"`
	TotalAmount   float64     `json:"totalAmount"`
	PaymentMethod string      `json:"paymentMethod"`
	HandoffURL    string      `json:"handoffUrl"`
	Timestamp     time.Time   `json:"timestamp"`
}

type OrderSubmittedEnvelope = Envelope[OrderSubmittedPayload]

// OrderSubmission is what checkout hands to a publisher once the message link is built.
type OrderSubmission struct {
	OrderID       string
	Lines         []cart.Line
	Total         float64
	PaymentMethod order.PaymentMethod
	HandoffURL    string
	SubmittedAt   time.Time
}

func BuildOrderSubmittedEnvelope(s OrderSubmission, seq int64, meta EnvelopeMetadata) OrderSubmittedEnvelope {
	items := make([]OrderItem, 0, len(s.Lines))
	for _, l := range s.Lines {
		items = append(items, OrderItem{
			ProductID: l.ID,
			Name:      l.Name,
			Quantity:  l.Quantity,
			Unit:      l.Unit.String(),
			Price:     l.Price,
			Notes:     l.Notes,
		})
	}

	return newEnvelope(OrderSubmitted, s.OrderID, seq, meta, OrderSubmittedPayload{
		OrderID:       s.OrderID,
		Items:         items,
		TotalAmount:   s.Total,
		PaymentMethod: s.PaymentMethod.String(),
		HandoffURL:    s.HandoffURL,
		Timestamp:     s.SubmittedAt.UTC(),
	})
}
