package order

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrMissingRecipient = errors.New("name and address are required")
	ErrInvalidPayment   = errors.New("invalid payment method")
)

type PaymentMethod int

const (
	PaymentPix PaymentMethod = iota + 1
	PaymentCard
	PaymentCash
)

var paymentCodes = map[PaymentMethod]string{
	PaymentPix:  "pix",
	PaymentCard: "card",
	PaymentCash: "cash",
}

func ParsePaymentMethod(s string) (PaymentMethod, error) {
	for m, code := range paymentCodes {
		if code == strings.TrimSpace(s) {
			return m, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidPayment, s)
}

func (m PaymentMethod) Valid() bool {
	_, ok := paymentCodes[m]
	return ok
}

func (m PaymentMethod) String() string {
	if code, ok := paymentCodes[m]; ok {
		return code
	}
	return fmt.Sprintf("PaymentMethod(%d)", int(m))
}

// Label is how the method is written in the order message.
func (m PaymentMethod) Label() string {
	switch m {
	case PaymentPix:
		return "PIX"
	case PaymentCard:
		return "Cartão"
	default:
		return "Dinheiro"
	}
}

func (m PaymentMethod) MarshalText() ([]byte, error) {
	if !m.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidPayment, int(m))
	}
	return []byte(m.String()), nil
}

func (m *PaymentMethod) UnmarshalText(text []byte) error {
	parsed, err := ParsePaymentMethod(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// Draft is the delivery form filled in at checkout. It is never stored.
type Draft struct {
	Name          string        `json:"name"`
	Address       string        `json:"address"`
	Phone         string        `json:"phone,omitempty"`
	PaymentMethod PaymentMethod `json:"paymentMethod"`
}

// NewDraft returns an empty form with PIX preselected.
func NewDraft() Draft {
	return Draft{PaymentMethod: PaymentPix}
}

func (d Draft) Validate() error {
	if strings.TrimSpace(d.Name) == "" || strings.TrimSpace(d.Address) == "" {
		return ErrMissingRecipient
	}
	if !d.PaymentMethod.Valid() {
		return fmt.Errorf("%w: %d", ErrInvalidPayment, int(d.PaymentMethod))
	}
	return nil
}
