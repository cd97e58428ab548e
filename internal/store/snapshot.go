package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/cart"
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/catalog"
)

const DefaultKey = "greenSpotState"

var (
	ErrSnapshotNotFound = errors.New("snapshot not found")
	ErrIncompatible     = errors.New("incompatible snapshot")
)

// SnapshotRepository is durable storage for a single serialized snapshot per key.
// Load returns ErrSnapshotNotFound when nothing is stored under key.
type SnapshotRepository interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, data []byte) error
}

// Snapshot is the persisted part of the state. The session flag is never part of it.
type Snapshot struct {
	Products []catalog.Product `json:"products"`
	Cart     []cart.Line       `json:"cart"`
}

type snapshotDecoder struct {
	Products *[]catalog.Product `json:"products"`
	Cart     *[]cart.Line       `json:"cart"`
}

func EncodeSnapshot(s Snapshot) ([]byte, error) {
	if s.Products == nil {
		s.Products = []catalog.Product{}
	}
	if s.Cart == nil {
		s.Cart = []cart.Line{}
	}
	return json.Marshal(s)
}

// DecodeSnapshot parses a stored snapshot. A value without a products array is
// incompatible; a missing cart decodes as empty.
func DecodeSnapshot(data []byte) (Snapshot, error) {
	var decoded snapshotDecoder
	if err := json.Unmarshal(data, &decoded); err != nil {
		return Snapshot{}, fmt.Errorf("%w: %v", ErrIncompatible, err)
	}
	if decoded.Products == nil {
		return Snapshot{}, fmt.Errorf("%w: missing products", ErrIncompatible)
	}

	s := Snapshot{Products: *decoded.Products, Cart: []cart.Line{}}
	if decoded.Cart != nil {
		s.Cart = *decoded.Cart
	}
	return s, nil
}
