package store

import (
	"crypto/subtle"
	"fmt"

	"go.uber.org/zap"

	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/cart"
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/catalog"
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/notify"
)

func (s *Store) AddProduct(in catalog.ProductInput) catalog.Product {
	p := in.WithID(s.ids.NewID())
	s.apply(func(st *State) {
		st.Products = append(append([]catalog.Product{}, st.Products...), p)
	})
	s.notify(notify.Success(fmt.Sprintf("%s adicionado com sucesso!", p.Name)))
	return p
}

// UpdateProduct replaces the catalog entry with the same id. Unknown ids are ignored.
func (s *Store) UpdateProduct(p catalog.Product) {
	s.apply(func(st *State) {
		out := make([]catalog.Product, 0, len(st.Products))
		for _, existing := range st.Products {
			if existing.ID == p.ID {
				existing = p
			}
			out = append(out, existing)
		}
		st.Products = out
	})
	s.notify(notify.Success(fmt.Sprintf("%s atualizado com sucesso!", p.Name)))
}

func (s *Store) DeleteProduct(id string) {
	s.apply(func(st *State) {
		out := make([]catalog.Product, 0, len(st.Products))
		for _, existing := range st.Products {
			if existing.ID != id {
				out = append(out, existing)
			}
		}
		st.Products = out
	})
	s.notify(notify.Error("Produto removido."))
}

// AddToCart merges quantity into the cart. Non-positive or NaN quantities are
// dropped without a transition; the merged line is capped at cart.MaxQuantity.
func (s *Store) AddToCart(p catalog.Product, quantity float64, notes string) {
	if !(quantity > 0) {
		s.logger.Warn("ignoring cart add", zap.String("product_id", p.ID), zap.Float64("quantity", quantity))
		return
	}
	s.apply(func(st *State) {
		st.Cart = cart.Add(st.Cart, p, quantity, notes)
	})
	s.notify(notify.Success(fmt.Sprintf("%s x %s adicionado ao carrinho!", cart.FormatQuantity(quantity), p.Name)))
}

func (s *Store) UpdateCartItem(productID string, quantity float64, notes string) {
	s.apply(func(st *State) {
		st.Cart = cart.Update(st.Cart, productID, quantity, notes)
	})
}

func (s *Store) RemoveFromCart(productID string) {
	s.apply(func(st *State) {
		st.Cart = cart.Remove(st.Cart, productID)
	})
	s.notify(notify.Info("Item removido do carrinho."))
}

func (s *Store) ClearCart() {
	s.apply(func(st *State) {
		st.Cart = []cart.Line{}
	})
}

// TakeCart empties the cart and returns the lines it held in one transition.
// An empty cart is returned as nil and nothing is persisted.
func (s *Store) TakeCart() []cart.Line {
	var taken []cart.Line
	s.applyIf(func(st *State) bool {
		if len(st.Cart) == 0 {
			return false
		}
		taken = append([]cart.Line{}, st.Cart...)
		st.Cart = []cart.Line{}
		return true
	})
	return taken
}

// Login authorizes the admin view for this process. The fixed secret is a
// placeholder gate for the admin screens, not access control.
func (s *Store) Login(password string) bool {
	if subtle.ConstantTimeCompare([]byte(password), []byte(s.adminSecret)) != 1 {
		s.notify(notify.Error("Senha incorreta!"))
		return false
	}

	s.apply(func(st *State) {
		st.SessionAuthorized = true
	})
	s.notify(notify.Success("Login bem-sucedido!"))
	return true
}

func (s *Store) Logout() {
	s.apply(func(st *State) {
		st.SessionAuthorized = false
	})
	s.notify(notify.Success("Você foi desconectado."))
}
