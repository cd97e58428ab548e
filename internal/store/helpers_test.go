package store_test

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"testing"

	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/catalog"
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/notify"
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/storage"
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/store"
)

type recorder struct {
	mu    sync.Mutex
	items []notify.Notification
}

func (r *recorder) Notify(n notify.Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, n)
}

func (r *recorder) last() notify.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.items) == 0 {
		return notify.Notification{}
	}
	return r.items[len(r.items)-1]
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.items)
}

// brokenRepo fails every call.
type brokenRepo struct {
	saves int
}

func (b *brokenRepo) Load(ctx context.Context, key string) ([]byte, error) {
	return nil, errors.New("storage unavailable")
}

func (b *brokenRepo) Save(ctx context.Context, key string, data []byte) error {
	b.saves++
	return errors.New("quota exceeded")
}

func sequentialIDs() store.IDGenerator {
	var n int
	return store.IDFunc(func() string {
		n++
		return "p-" + strconv.Itoa(n)
	})
}

type fixture struct {
	store    *store.Store
	repo     *storage.Memory
	notified *recorder
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	repo := storage.NewMemory()
	rec := &recorder{}
	s := store.New(store.Options{Repository: repo, Notifier: rec, IDs: sequentialIDs()})
	s.Load(context.Background())
	return fixture{store: s, repo: repo, notified: rec}
}

func pear() catalog.ProductInput {
	return catalog.ProductInput{Name: "Pear", Description: "d", Price: 2, Unit: catalog.UnitCount}
}
