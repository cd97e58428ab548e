package httpapi

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/cart"
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/catalog"
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/checkout"
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/events"
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/media"
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/notify"
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/order"
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/store"
)

const (
	listImageSize   = 400
	detailImageSize = 600
	// multipart overhead allowed on top of the image size limit
	uploadSlack = 1 << 20
)

var (
	addQuantityMsg    = fmt.Sprintf("quantity must be greater than 0 and at most %d", cart.MaxQuantity)
	updateQuantityMsg = fmt.Sprintf("quantity must be between 0 and %d", cart.MaxQuantity)
)

type Handler struct {
	store         *store.Store
	checkout      *checkout.Service
	feed          *notify.Feed
	images        media.Encoder
	adminUsername string
	logger        *zap.Logger
}

func NewHandler(d Deps) *Handler {
	logger := d.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		store:         d.Store,
		checkout:      d.Checkout,
		feed:          d.Feed,
		images:        d.Images,
		adminUsername: d.AdminUsername,
		logger:        logger,
	}
}

type productView struct {
	catalog.Product
	DisplayImage string `json:"displayImage"`
}

func newProductView(p catalog.Product, size int) productView {
	return productView{Product: p, DisplayImage: p.Image.DisplayURL(p.Name, size)}
}

type cartView struct {
	Lines   []cart.Line  `json:"lines"`
	Summary cart.Summary `json:"summary"`
}

func (h *Handler) cartView() cartView {
	lines := h.store.Cart()
	return cartView{Lines: lines, Summary: cart.Summarize(lines)}
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	h.respond(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"service": "storefront-service",
	})
}

func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products := h.store.Products()
	out := make([]productView, 0, len(products))
	for _, p := range products {
		out = append(out, newProductView(p, listImageSize))
	}
	h.respond(w, http.StatusOK, out)
}

func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	p, ok := h.store.Product(chi.URLParam(r, "productId"))
	if !ok {
		writeError(w, http.StatusNotFound, "product not found")
		return
	}
	h.respond(w, http.StatusOK, newProductView(p, detailImageSize))
}

func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	h.respond(w, http.StatusOK, h.cartView())
}

type addItemRequest struct {
	ProductID string   `json:"productId"`
	Quantity  *float64 `json:"quantity"`
	Notes     string   `json:"notes"`
}

func (h *Handler) AddCartItem(w http.ResponseWriter, r *http.Request) {
	var req addItemRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.ProductID == "" {
		writeError(w, http.StatusBadRequest, "missing productId")
		return
	}
	if req.Quantity == nil || !cart.ValidQuantity(*req.Quantity) {
		writeError(w, http.StatusBadRequest, addQuantityMsg)
		return
	}

	p, ok := h.store.Product(req.ProductID)
	if !ok {
		writeError(w, http.StatusNotFound, "product not found")
		return
	}

	h.store.AddToCart(p, *req.Quantity, req.Notes)
	h.respond(w, http.StatusOK, h.cartView())
}

type updateItemRequest struct {
	Quantity *float64 `json:"quantity"`
	Notes    string   `json:"notes"`
}

// UpdateCartItem sets the quantity of a line; zero removes it.
func (h *Handler) UpdateCartItem(w http.ResponseWriter, r *http.Request) {
	var req updateItemRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.Quantity == nil || *req.Quantity < 0 || *req.Quantity > cart.MaxQuantity {
		writeError(w, http.StatusBadRequest, updateQuantityMsg)
		return
	}

	h.store.UpdateCartItem(chi.URLParam(r, "productId"), *req.Quantity, req.Notes)
	h.respond(w, http.StatusOK, h.cartView())
}

func (h *Handler) RemoveCartItem(w http.ResponseWriter, r *http.Request) {
	h.store.RemoveFromCart(chi.URLParam(r, "productId"))
	h.respond(w, http.StatusOK, h.cartView())
}

func (h *Handler) ClearCart(w http.ResponseWriter, r *http.Request) {
	h.store.ClearCart()
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) Checkout(w http.ResponseWriter, r *http.Request) {
	draft := order.NewDraft()
	if err := decodeJSON(r, &draft); err != nil {
		if errors.Is(err, order.ErrInvalidPayment) {
			writeError(w, http.StatusBadRequest, "invalid paymentMethod")
			return
		}
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	res, err := h.checkout.Checkout(r.Context(), draft, events.EnvelopeMetadata{
		CorrelationID: CorrelationIDFrom(r.Context()),
	})
	switch {
	case errors.Is(err, checkout.ErrEmptyCart):
		writeError(w, http.StatusBadRequest, "cart is empty")
		return
	case errors.Is(err, order.ErrMissingRecipient):
		writeError(w, http.StatusBadRequest, "name and address are required")
		return
	case errors.Is(err, order.ErrInvalidPayment):
		writeError(w, http.StatusBadRequest, "invalid paymentMethod")
		return
	case err != nil:
		h.logger.Error("checkout failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "checkout failed")
		return
	}

	h.respond(w, http.StatusOK, res)
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	if subtle.ConstantTimeCompare([]byte(req.Username), []byte(h.adminUsername)) != 1 {
		h.logger.Info("admin login rejected", zap.String("reason", "username"))
		writeError(w, http.StatusUnauthorized, "Nome de usuário incorreto.")
		return
	}
	if !h.store.Login(req.Password) {
		h.logger.Info("admin login rejected", zap.String("reason", "password"))
		writeError(w, http.StatusUnauthorized, "Senha incorreta!")
		return
	}

	h.respond(w, http.StatusOK, sessionView{Authorized: true})
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	h.store.Logout()
	h.respond(w, http.StatusOK, sessionView{Authorized: false})
}

type sessionView struct {
	Authorized bool `json:"authorized"`
}

func (h *Handler) Session(w http.ResponseWriter, r *http.Request) {
	h.respond(w, http.StatusOK, sessionView{Authorized: h.store.SessionAuthorized()})
}

func (h *Handler) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !h.store.SessionAuthorized() {
			writeError(w, http.StatusForbidden, "admin session required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (h *Handler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var in catalog.ProductInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if err := in.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	p := h.store.AddProduct(in)
	h.respond(w, http.StatusCreated, p)
}

func (h *Handler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "productId")
	if _, ok := h.store.Product(id); !ok {
		writeError(w, http.StatusNotFound, "product not found")
		return
	}

	var in catalog.ProductInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if err := in.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	p := in.WithID(id)
	h.store.UpdateProduct(p)
	h.respond(w, http.StatusOK, p)
}

func (h *Handler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	h.store.DeleteProduct(chi.URLParam(r, "productId"))
	w.WriteHeader(http.StatusNoContent)
}

// UploadProductImage replaces a product image with the uploaded file, inlined as a data URI.
func (h *Handler) UploadProductImage(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "productId")
	if _, ok := h.store.Product(id); !ok {
		writeError(w, http.StatusNotFound, "product not found")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.images.MaxBytes+uploadSlack)
	file, _, err := r.FormFile("image")
	if err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			writeError(w, http.StatusRequestEntityTooLarge, "image too large")
			return
		}
		writeError(w, http.StatusBadRequest, "missing image file")
		return
	}
	defer file.Close()

	img, err := h.images.Encode(file)
	switch {
	case errors.Is(err, media.ErrTooLarge):
		writeError(w, http.StatusRequestEntityTooLarge, "image too large")
		return
	case errors.Is(err, media.ErrNotImage):
		writeError(w, http.StatusUnsupportedMediaType, "file is not an image")
		return
	case err != nil:
		h.logger.Error("image encode failed", zap.String("product_id", id), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to process image")
		return
	}

	// Re-read: the product may have changed while the image was encoding.
	p, ok := h.store.Product(id)
	if !ok {
		writeError(w, http.StatusNotFound, "product not found")
		return
	}
	p.Image = img
	h.store.UpdateProduct(p)
	h.respond(w, http.StatusOK, p)
}

func (h *Handler) Notifications(w http.ResponseWriter, r *http.Request) {
	var after int64
	if v := r.URL.Query().Get("after"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "invalid after")
			return
		}
		after = n
	}

	h.respond(w, http.StatusOK, map[string]any{"notifications": h.feed.Since(after)})
}
