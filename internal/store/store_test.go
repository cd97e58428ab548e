package store_test

import (
	"context"
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/cart"
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/catalog"
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/notify"
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/storage"
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/store"
)

func TestLoad_SeedsWhenEmpty(t *testing.T) {
	f := newFixture(t)

	assert.Equal(t, catalog.SeedProducts(), f.store.Products())
	assert.Empty(t, f.store.Cart())
	assert.False(t, f.store.SessionAuthorized())

	// The seeded state is written back.
	data, err := f.repo.Load(context.Background(), store.DefaultKey)
	require.NoError(t, err)
	snap, err := store.DecodeSnapshot(data)
	require.NoError(t, err)
	assert.Len(t, snap.Products, 6)
}

func TestLoad_FallsBackOnBadSnapshot(t *testing.T) {
	tests := map[string]string{
		"corrupt":          `{"products":[`,
		"missing products": `{"cart":[]}`,
		"wrong type":       `{"products":"nope"}`,
	}

	for name, raw := range tests {
		t.Run(name, func(t *testing.T) {
			repo := storage.NewMemory()
			require.NoError(t, repo.Save(context.Background(), store.DefaultKey, []byte(raw)))

			core, logs := observer.New(zap.ErrorLevel)
			s := store.New(store.Options{Repository: repo, Logger: zap.New(core)})
			s.Load(context.Background())

			assert.Equal(t, catalog.SeedProducts(), s.Products())
			assert.Empty(t, s.Cart())
			assert.Equal(t, 1, logs.FilterMessage("failed to parse snapshot").Len())
		})
	}
}

func TestPeekDoesNotWrite(t *testing.T) {
	repo := storage.NewMemory()
	s := store.New(store.Options{Repository: repo})

	var transitions int
	s.Subscribe(func(store.State) { transitions++ })
	s.Peek(context.Background())

	assert.Equal(t, catalog.SeedProducts(), s.Products())
	assert.Zero(t, transitions)
	_, err := repo.Load(context.Background(), store.DefaultKey)
	assert.ErrorIs(t, err, store.ErrSnapshotNotFound)
}

func TestLoad_AdoptsStoredSnapshot(t *testing.T) {
	repo := storage.NewMemory()
	products := []catalog.Product{{ID: "x", Name: "Kiwi", Description: "d", Price: 1, Unit: catalog.UnitCount}}
	lines := cart.Add(nil, products[0], 3, "")
	data, err := store.EncodeSnapshot(store.Snapshot{Products: products, Cart: lines})
	require.NoError(t, err)
	require.NoError(t, repo.Save(context.Background(), store.DefaultKey, data))

	s := store.New(store.Options{Repository: repo})
	s.Load(context.Background())

	assert.Equal(t, products, s.Products())
	assert.Equal(t, lines, s.Cart())
}

func TestLoad_StorageFailuresAreTolerated(t *testing.T) {
	repo := &brokenRepo{}
	core, logs := observer.New(zap.ErrorLevel)
	s := store.New(store.Options{Repository: repo, Logger: zap.New(core)})

	s.Load(context.Background())
	assert.Len(t, s.Products(), 6)

	p := s.AddProduct(pear())
	assert.Len(t, s.Products(), 7)
	_, ok := s.Product(p.ID)
	assert.True(t, ok)

	assert.Equal(t, 2, repo.saves)
	assert.Equal(t, 1, logs.FilterMessage("failed to load snapshot").Len())
	assert.Equal(t, 2, logs.FilterMessage("failed to save snapshot").Len())
}

func TestLoad_UsesConfiguredKey(t *testing.T) {
	repo := storage.NewMemory()
	s := store.New(store.Options{Repository: repo, Key: "otherShop"})
	s.Load(context.Background())

	_, err := repo.Load(context.Background(), "otherShop")
	require.NoError(t, err)
	_, err = repo.Load(context.Background(), store.DefaultKey)
	require.ErrorIs(t, err, store.ErrSnapshotNotFound)
}

func TestReloadRoundTrip(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	p, _ := f.store.Product("3")
	f.store.AddToCart(p, 2, "sem sementes")
	f.store.AddProduct(pear())
	require.True(t, f.store.Login(store.DefaultAdminSecret))

	before, err := store.EncodeSnapshot(f.store.Snapshot())
	require.NoError(t, err)

	reloaded := store.New(store.Options{Repository: f.repo})
	reloaded.Load(ctx)

	after, err := store.EncodeSnapshot(reloaded.Snapshot())
	require.NoError(t, err)
	assert.JSONEq(t, string(before), string(after))
	assert.False(t, reloaded.SessionAuthorized())

	stored, err := f.repo.Load(ctx, store.DefaultKey)
	require.NoError(t, err)
	assert.NotContains(t, string(stored), "session")
}

func TestAddProductThenDelete(t *testing.T) {
	f := newFixture(t)
	original := f.store.Products()

	p := f.store.AddProduct(catalog.ProductInput{Name: "Pear", Description: "Pera", Price: 4.0, Unit: catalog.UnitWeight})
	products := f.store.Products()
	require.Len(t, products, 7)
	assert.Equal(t, p, products[6])

	seen := map[string]bool{}
	for _, prod := range products {
		assert.False(t, seen[prod.ID], "duplicate id %s", prod.ID)
		seen[prod.ID] = true
	}
	assert.Equal(t, notify.Success("Pear adicionado com sucesso!"), f.notified.last())

	f.store.DeleteProduct(p.ID)
	assert.Equal(t, original, f.store.Products())
	assert.Equal(t, notify.Error("Produto removido."), f.notified.last())
}

func TestUpdateProduct(t *testing.T) {
	f := newFixture(t)

	p, ok := f.store.Product("2")
	require.True(t, ok)
	p.Price = 6.25
	f.store.UpdateProduct(p)

	got, _ := f.store.Product("2")
	assert.Equal(t, 6.25, got.Price)
	assert.Equal(t, "2", f.store.Products()[1].ID, "position is kept")
	assert.Equal(t, notify.Success(p.Name+" atualizado com sucesso!"), f.notified.last())
}

func TestDeleteThenUpdateIsNoop(t *testing.T) {
	f := newFixture(t)

	p, _ := f.store.Product("4")
	f.store.DeleteProduct("4")
	after := f.store.Products()

	f.store.UpdateProduct(p)
	assert.Equal(t, after, f.store.Products())

	f.store.DeleteProduct("does-not-exist")
	assert.Equal(t, after, f.store.Products())
}

func TestAddToCartMergesLines(t *testing.T) {
	f := newFixture(t)
	p, _ := f.store.Product("1")

	for _, q := range []float64{0.5, 1.25, 2} {
		f.store.AddToCart(p, q, "")
	}

	lines := f.store.Cart()
	require.Len(t, lines, 1)
	assert.Equal(t, "1", lines[0].ID)
	assert.InDelta(t, 3.75, lines[0].Quantity, 1e-9)
	assert.Equal(t, notify.Success("2 x "+p.Name+" adicionado ao carrinho!"), f.notified.last())
}

func TestAddToCartNotes(t *testing.T) {
	f := newFixture(t)
	p, _ := f.store.Product("1")

	f.store.AddToCart(p, 1, "bem maduras")
	f.store.AddToCart(p, 1, "")
	assert.Equal(t, "bem maduras", f.store.Cart()[0].Notes)

	f.store.AddToCart(p, 1, "verdes")
	assert.Equal(t, "verdes", f.store.Cart()[0].Notes)
}

func TestCartLineKeepsPriceAtAddTime(t *testing.T) {
	f := newFixture(t)
	p, _ := f.store.Product("1")
	f.store.AddToCart(p, 1, "")

	p.Price = 100
	f.store.UpdateProduct(p)

	assert.Equal(t, 8.99, f.store.Cart()[0].Price)
}

func TestUpdateAndRemoveCartItem(t *testing.T) {
	f := newFixture(t)
	p, _ := f.store.Product("3")
	f.store.AddToCart(p, 2, "")

	f.store.UpdateCartItem("3", 5, "ripe please")
	lines := f.store.Cart()
	require.Len(t, lines, 1)
	assert.Equal(t, 5.0, lines[0].Quantity)
	assert.Equal(t, "ripe please", lines[0].Notes)

	n := f.notified.count()
	f.store.RemoveFromCart("3")
	assert.Empty(t, f.store.Cart())
	assert.Equal(t, n+1, f.notified.count())
	assert.Equal(t, notify.Info("Item removido do carrinho."), f.notified.last())
}

func TestUpdateCartItemToZeroRemoves(t *testing.T) {
	for _, qty := range []float64{0, -1, -0.5} {
		f := newFixture(t)
		p, _ := f.store.Product("5")
		f.store.AddToCart(p, 7, "")

		f.store.UpdateCartItem("5", qty, "x")
		assert.Empty(t, f.store.Cart())
	}
}

func TestUpdateCartItemMissingLine(t *testing.T) {
	f := newFixture(t)
	f.store.UpdateCartItem("1", 3, "")
	assert.Empty(t, f.store.Cart())
}

func TestClearCart(t *testing.T) {
	f := newFixture(t)
	p, _ := f.store.Product("1")
	f.store.AddToCart(p, 1, "")
	n := f.notified.count()

	f.store.ClearCart()
	assert.Empty(t, f.store.Cart())
	assert.NotNil(t, f.store.Cart())
	assert.Equal(t, n, f.notified.count())
	assert.Equal(t, cart.Summary{}, f.store.CartSummary())
}

func TestAddToCartHugeQuantityKeepsPersisting(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	p, _ := f.store.Product("1")
	f.store.AddToCart(p, 1e308, "")
	f.store.AddToCart(p, 1e308, "")
	require.Len(t, f.store.Cart(), 1)
	assert.Equal(t, float64(cart.MaxQuantity), f.store.Cart()[0].Quantity)

	f.store.DeleteProduct("2")

	reloaded := store.New(store.Options{Repository: f.repo})
	reloaded.Load(ctx)
	assert.Len(t, reloaded.Products(), 5)
	require.Len(t, reloaded.Cart(), 1)
	assert.Equal(t, float64(cart.MaxQuantity), reloaded.Cart()[0].Quantity)
}

func TestAddToCartIgnoresNonPositiveQuantity(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	repo := storage.NewMemory()
	s := store.New(store.Options{Repository: repo, Logger: zap.New(core)})
	s.Load(context.Background())

	var transitions int
	s.Subscribe(func(store.State) { transitions++ })

	p, _ := s.Product("1")
	s.AddToCart(p, 0, "")
	s.AddToCart(p, -3, "")
	s.AddToCart(p, math.NaN(), "")

	assert.Empty(t, s.Cart())
	assert.Zero(t, transitions)
	assert.Equal(t, 3, logs.FilterMessage("ignoring cart add").Len())
}

func TestTakeCart(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	var transitions int
	f.store.Subscribe(func(store.State) { transitions++ })

	assert.Nil(t, f.store.TakeCart())
	assert.Zero(t, transitions, "taking an empty cart is not a transition")

	apple, _ := f.store.Product("1")
	lettuce, _ := f.store.Product("3")
	f.store.AddToCart(apple, 1, "")
	f.store.AddToCart(lettuce, 2, "")
	n := f.notified.count()

	taken := f.store.TakeCart()
	require.Len(t, taken, 2)
	assert.Equal(t, "1", taken[0].ID)
	assert.Equal(t, "3", taken[1].ID)
	assert.Empty(t, f.store.Cart())
	assert.Equal(t, 3, transitions)
	assert.Equal(t, n, f.notified.count())

	reloaded := store.New(store.Options{Repository: f.repo})
	reloaded.Load(ctx)
	assert.Empty(t, reloaded.Cart())
}

func TestTakeCartConcurrentAdds(t *testing.T) {
	f := newFixture(t)
	p, _ := f.store.Product("3")

	const adds = 200
	var wg sync.WaitGroup
	var total float64
	var mu sync.Mutex
	collect := func(lines []cart.Line) {
		mu.Lock()
		defer mu.Unlock()
		for _, l := range lines {
			total += l.Quantity
		}
	}

	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < adds; i++ {
			f.store.AddToCart(p, 1, "")
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < adds; i++ {
			collect(f.store.TakeCart())
		}
	}()
	wg.Wait()
	collect(f.store.TakeCart())

	assert.Equal(t, float64(adds), total, "every added item is taken exactly once")
}

func TestLogin(t *testing.T) {
	tests := map[string]struct {
		password string
		want     bool
		message  notify.Notification
	}{
		"correct":  {password: "4321", want: true, message: notify.Success("Login bem-sucedido!")},
		"wrong":    {password: "1234", want: false, message: notify.Error("Senha incorreta!")},
		"empty":    {password: "", want: false, message: notify.Error("Senha incorreta!")},
		"prefixed": {password: "43210", want: false, message: notify.Error("Senha incorreta!")},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			f := newFixture(t)
			assert.Equal(t, tc.want, f.store.Login(tc.password))
			assert.Equal(t, tc.want, f.store.SessionAuthorized())
			assert.Equal(t, tc.message, f.notified.last())
		})
	}
}

func TestLogout(t *testing.T) {
	f := newFixture(t)
	require.True(t, f.store.Login("4321"))

	f.store.Logout()
	assert.False(t, f.store.SessionAuthorized())
	assert.Equal(t, notify.Success("Você foi desconectado."), f.notified.last())
}

func TestCustomAdminSecret(t *testing.T) {
	s := store.New(store.Options{AdminSecret: "hortelã"})
	s.Load(context.Background())

	assert.False(t, s.Login("4321"))
	assert.True(t, s.Login("hortelã"))
}

func TestReset(t *testing.T) {
	f := newFixture(t)
	f.store.DeleteProduct("1")
	p, _ := f.store.Product("2")
	f.store.AddToCart(p, 1, "")

	f.store.Reset()
	assert.Equal(t, catalog.SeedProducts(), f.store.Products())
	assert.Empty(t, f.store.Cart())
}

func TestSubscribe(t *testing.T) {
	f := newFixture(t)

	var order []string
	var seen []store.State
	unsubA := f.store.Subscribe(func(st store.State) {
		order = append(order, "a")
		seen = append(seen, st)
	})
	f.store.Subscribe(func(store.State) { order = append(order, "b") })

	p, _ := f.store.Product("1")
	f.store.AddToCart(p, 1, "")
	require.Len(t, seen, 1)
	assert.Len(t, seen[0].Cart, 1, "subscribers see the state after the transition")

	seen[0].Cart[0].Quantity = 99
	assert.Equal(t, 1.0, f.store.Cart()[0].Quantity, "subscribers get a copy")

	unsubA()
	f.store.ClearCart()
	assert.Equal(t, []string{"a", "b", "b"}, order)
}

func TestStateIsACopy(t *testing.T) {
	f := newFixture(t)

	products := f.store.Products()
	products[0].Name = "changed"

	got, _ := f.store.Product(products[0].ID)
	assert.NotEqual(t, "changed", got.Name)
}

func TestCartSummary(t *testing.T) {
	f := newFixture(t)
	apple, _ := f.store.Product("1")
	lettuce, _ := f.store.Product("3")
	f.store.AddToCart(apple, 2, "")
	f.store.AddToCart(lettuce, 3, "")

	sum := f.store.CartSummary()
	assert.Equal(t, 2, sum.Lines)
	assert.InDelta(t, 5.0, sum.Items, 1e-9)
	assert.InDelta(t, 2*8.99+3*3.50, sum.Total, 1e-9)
}
