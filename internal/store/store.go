package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/cart"
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/catalog"
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/notify"
)

const (
	DefaultAdminSecret = "4321"
	defaultSaveTimeout = 3 * time.Second
)

type State struct {
	Products          []catalog.Product `json:"products"`
	Cart              []cart.Line       `json:"cart"`
	SessionAuthorized bool              `json:"sessionAuthorized"`
}

func (s State) clone() State {
	return State{
		Products:          append([]catalog.Product{}, s.Products...),
		Cart:              append([]cart.Line{}, s.Cart...),
		SessionAuthorized: s.SessionAuthorized,
	}
}

type Options struct {
	Repository  SnapshotRepository
	Notifier    notify.Notifier
	IDs         IDGenerator
	Logger      *zap.Logger
	Key         string
	AdminSecret string
	SaveTimeout time.Duration
}

// Store owns the catalog, the cart and the admin session flag. Every
// transition runs under one mutex, is persisted, and is then delivered to
// subscribers before the call returns. Subscribers must not call back into
// the Store.
type Store struct {
	repo        SnapshotRepository
	notifier    notify.Notifier
	ids         IDGenerator
	logger      *zap.Logger
	key         string
	adminSecret string
	saveTimeout time.Duration

	mu          sync.Mutex
	state       State
	nextSubID   int
	subscribers map[int]func(State)
}

func New(opts Options) *Store {
	s := &Store{
		repo:        opts.Repository,
		notifier:    opts.Notifier,
		ids:         opts.IDs,
		logger:      opts.Logger,
		key:         opts.Key,
		adminSecret: opts.AdminSecret,
		saveTimeout: opts.SaveTimeout,
		subscribers: make(map[int]func(State)),
		state:       State{Products: []catalog.Product{}, Cart: []cart.Line{}},
	}
	if s.notifier == nil {
		s.notifier = notify.Discard
	}
	if s.ids == nil {
		s.ids = UUIDs()
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	if s.key == "" {
		s.key = DefaultKey
	}
	if s.adminSecret == "" {
		s.adminSecret = DefaultAdminSecret
	}
	if s.saveTimeout <= 0 {
		s.saveTimeout = defaultSaveTimeout
	}
	return s
}

// Load replaces the in-memory state with the stored snapshot, or with the
// seed catalog and an empty cart when nothing usable is stored. The session
// is always unauthorized afterwards. Storage faults are logged, not returned.
func (s *Store) Load(ctx context.Context) {
	snap := s.resolve(ctx)
	s.apply(func(st *State) {
		st.Products = snap.Products
		st.Cart = snap.Cart
		st.SessionAuthorized = false
	})
}

// Peek is Load without the write back or subscriber delivery. Commands that
// only inspect the stored state use it so a fresh key stays empty.
func (s *Store) Peek(ctx context.Context) {
	snap := s.resolve(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = State{Products: snap.Products, Cart: snap.Cart}
}

func (s *Store) resolve(ctx context.Context) Snapshot {
	snap, ok := s.read(ctx)
	if !ok {
		return Snapshot{Products: catalog.SeedProducts(), Cart: []cart.Line{}}
	}
	return snap
}

// Reset discards the current catalog and cart in favour of the seed data.
func (s *Store) Reset() {
	s.apply(func(st *State) {
		st.Products = catalog.SeedProducts()
		st.Cart = []cart.Line{}
	})
}

func (s *Store) read(ctx context.Context) (Snapshot, bool) {
	if s.repo == nil {
		return Snapshot{}, false
	}

	data, err := s.repo.Load(ctx, s.key)
	if err != nil {
		if errors.Is(err, ErrSnapshotNotFound) {
			s.logger.Info("no stored snapshot, seeding catalog", zap.String("key", s.key))
		} else {
			s.logger.Error("failed to load snapshot", zap.String("key", s.key), zap.Error(err))
		}
		return Snapshot{}, false
	}

	snap, err := DecodeSnapshot(data)
	if err != nil {
		s.logger.Error("failed to parse snapshot", zap.String("key", s.key), zap.Error(err))
		return Snapshot{}, false
	}
	return snap, true
}

// apply runs fn against the state, persists the result and notifies subscribers.
func (s *Store) apply(fn func(st *State)) {
	s.applyIf(func(st *State) bool {
		fn(st)
		return true
	})
}

// applyIf is apply for transitions that may turn out to be no-ops; fn
// reports whether it changed anything.
func (s *Store) applyIf(fn func(st *State) bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !fn(&s.state) {
		return
	}
	s.persistLocked()

	if len(s.subscribers) == 0 {
		return
	}
	snapshot := s.state.clone()
	for id := 0; id < s.nextSubID; id++ {
		if sub, ok := s.subscribers[id]; ok {
			sub(snapshot.clone())
		}
	}
}

func (s *Store) persistLocked() {
	if s.repo == nil {
		return
	}

	data, err := EncodeSnapshot(Snapshot{Products: s.state.Products, Cart: s.state.Cart})
	if err != nil {
		s.logger.Error("failed to encode snapshot", zap.Error(err))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.saveTimeout)
	defer cancel()

	if err := s.repo.Save(ctx, s.key, data); err != nil {
		s.logger.Error("failed to save snapshot", zap.String("key", s.key), zap.Error(err))
	}
}

func (s *Store) notify(n notify.Notification) {
	s.notifier.Notify(n)
}

// Subscribe registers fn to receive the state after every transition, in
// registration order. The returned func removes the subscription.
func (s *Store) Subscribe(fn func(State)) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextSubID
	s.nextSubID++
	s.subscribers[id] = fn

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subscribers, id)
	}
}

func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.clone()
}

func (s *Store) Products() []catalog.Product {
	return s.State().Products
}

func (s *Store) Product(id string) (catalog.Product, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range s.state.Products {
		if p.ID == id {
			return p, true
		}
	}
	return catalog.Product{}, false
}

func (s *Store) Cart() []cart.Line {
	return s.State().Cart
}

func (s *Store) CartSummary() cart.Summary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cart.Summarize(s.state.Cart)
}

func (s *Store) SessionAuthorized() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.SessionAuthorized
}

func (s *Store) Snapshot() Snapshot {
	st := s.State()
	return Snapshot{Products: st.Products, Cart: st.Cart}
}
