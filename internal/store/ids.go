package store

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type IDGenerator interface {
	NewID() string
}

type IDFunc func() string

func (f IDFunc) NewID() string { return f() }

const (
	IDStrategyUUID      = "uuid"
	IDStrategyTimestamp = "timestamp"
)

func UUIDs() IDGenerator {
	return IDFunc(uuid.NewString)
}

// Timestamps issues ISO-8601 millisecond timestamps as ids. Two products
// created within the same millisecond get the same id.
func Timestamps(now func() time.Time) IDGenerator {
	if now == nil {
		now = time.Now
	}
	return IDFunc(func() string {
		return now().UTC().Format("2006-01-02T15:04:05.000Z07:00")
	})
}

func NewIDGenerator(strategy string) (IDGenerator, error) {
	switch strategy {
	case "", IDStrategyUUID:
		return UUIDs(), nil
	case IDStrategyTimestamp:
		return Timestamps(nil), nil
	default:
		return nil, fmt.Errorf("unknown id strategy %q", strategy)
	}
}
