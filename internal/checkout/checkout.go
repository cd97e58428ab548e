package checkout

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/cart"
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/events"
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/notify"
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/order"
)

var ErrEmptyCart = errors.New("cart is empty")

const (
	msgEmptyCart     = "Seu carrinho está vazio!"
	msgMissingFields = "Por favor, preencha seu nome e endereço."
	msgBadPayment    = "Por favor, selecione uma forma de pagamento."
	msgSent          = "Pedido enviado! Você será redirecionado para o WhatsApp."

	publishTimeout = 5 * time.Second
)

// CartStore is the part of the store checkout reads and empties. TakeCart
// must empty the cart and return what it held as a single transition.
type CartStore interface {
	Cart() []cart.Line
	TakeCart() []cart.Line
}

type Config struct {
	ShopName    string
	Phone       string
	CountryCode string
	// QRSize is the QR code edge in pixels; zero disables QR rendering.
	QRSize int
}

type Result struct {
	OrderID string  `json:"orderId"`
	Message string  `json:"message"`
	URL     string  `json:"url"`
	QRCode  []byte  `json:"qrCode,omitempty"`
	Total   float64 `json:"total"`
}

type Service struct {
	store     CartStore
	publisher events.OrderPublisher
	notifier  notify.Notifier
	logger    *zap.Logger
	cfg       Config
	now       func() time.Time

	wg sync.WaitGroup
}

func NewService(store CartStore, publisher events.OrderPublisher, notifier notify.Notifier, logger *zap.Logger, cfg Config) *Service {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	if notifier == nil {
		notifier = notify.Discard
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		store:     store,
		publisher: publisher,
		notifier:  notifier,
		logger:    logger,
		cfg:       cfg,
		now:       time.Now,
	}
}

// Checkout turns the current cart into a WhatsApp handoff link and empties the
// cart. The order event is published in the background; its outcome never
// affects the result.
func (s *Service) Checkout(ctx context.Context, d order.Draft, meta events.EnvelopeMetadata) (Result, error) {
	if len(s.store.Cart()) == 0 {
		s.notifier.Notify(notify.Error(msgEmptyCart))
		return Result{}, ErrEmptyCart
	}
	if err := d.Validate(); err != nil {
		if errors.Is(err, order.ErrInvalidPayment) {
			s.notifier.Notify(notify.Error(msgBadPayment))
		} else {
			s.notifier.Notify(notify.Error(msgMissingFields))
		}
		return Result{}, err
	}

	// The message is built from exactly the lines removed from the cart, so
	// items added after the check above are either in the order or still in the cart.
	lines := s.store.TakeCart()
	if len(lines) == 0 {
		s.notifier.Notify(notify.Error(msgEmptyCart))
		return Result{}, ErrEmptyCart
	}

	message := order.ComposeMessage(s.cfg.ShopName, lines, d)
	res := Result{
		OrderID: uuid.NewString(),
		Message: message,
		URL:     order.Link(s.cfg.Phone, s.cfg.CountryCode, message),
		Total:   cart.Total(lines),
	}

	if s.cfg.QRSize > 0 {
		png, err := order.QRCode(res.URL, s.cfg.QRSize)
		if err != nil {
			s.logger.Warn("failed to render order qr code", zap.String("order_id", res.OrderID), zap.Error(err))
		} else {
			res.QRCode = png
		}
	}

	s.publish(ctx, events.OrderSubmission{
		OrderID:       res.OrderID,
		Lines:         lines,
		Total:         res.Total,
		PaymentMethod: d.PaymentMethod,
		HandoffURL:    res.URL,
		SubmittedAt:   s.now(),
	}, meta)

	s.notifier.Notify(notify.Success(msgSent))

	s.logger.Info("order handed off",
		zap.String("order_id", res.OrderID),
		zap.Int("lines", len(lines)),
		zap.Float64("total", res.Total),
	)
	return res, nil
}

func (s *Service) publish(ctx context.Context, sub events.OrderSubmission, meta events.EnvelopeMetadata) {
	// Detach from the caller so a finished request does not cancel the publish.
	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer cancel()

		if err := s.publisher.PublishOrderSubmitted(pubCtx, sub, meta); err != nil {
			s.logger.Error("failed to publish OrderSubmitted", zap.String("order_id", sub.OrderID), zap.Error(err))
		}
	}()
}

// Wait blocks until in-flight event publishes finish.
func (s *Service) Wait() {
	s.wg.Wait()
}

// Preview composes the message and link for the current cart without any side effects.
func (s *Service) Preview(d order.Draft) (Result, error) {
	lines := s.store.Cart()
	if len(lines) == 0 {
		return Result{}, ErrEmptyCart
	}
	if err := d.Validate(); err != nil {
		return Result{}, fmt.Errorf("preview: %w", err)
	}
	message := order.ComposeMessage(s.cfg.ShopName, lines, d)
	return Result{
		Message: message,
		URL:     order.Link(s.cfg.Phone, s.cfg.CountryCode, message),
		Total:   cart.Total(lines),
	}, nil
}
