package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/store"
)

type fakeRedis struct {
	values  map[string]string
	getErr  error
	setErr  error
	lastTTL time.Duration
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{values: map[string]string{}}
}

func (f *fakeRedis) Get(ctx context.Context, key string) *redis.StringCmd {
	if f.getErr != nil {
		return redis.NewStringResult("", f.getErr)
	}
	v, ok := f.values[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (f *fakeRedis) Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd {
	if f.setErr != nil {
		return redis.NewStatusResult("", f.setErr)
	}
	f.values[key] = string(value.([]byte))
	f.lastTTL = expiration
	return redis.NewStatusResult("OK", nil)
}

func TestRedisRepository_RoundTrip(t *testing.T) {
	client := newFakeRedis()
	repo := NewRedisRepository(client)
	ctx := context.Background()

	_, err := repo.Load(ctx, "greenSpotState")
	require.ErrorIs(t, err, store.ErrSnapshotNotFound)

	require.NoError(t, repo.Save(ctx, "greenSpotState", []byte(`{"products":[]}`)))
	assert.Contains(t, client.values, "storefront:greenSpotState")
	assert.Equal(t, time.Duration(0), client.lastTTL)

	got, err := repo.Load(ctx, "greenSpotState")
	require.NoError(t, err)
	assert.Equal(t, `{"products":[]}`, string(got))
}

func TestRedisRepository_Errors(t *testing.T) {
	client := newFakeRedis()
	client.getErr = errors.New("i/o timeout")
	client.setErr = errors.New("OOM command not allowed")
	repo := NewRedisRepository(client)

	_, err := repo.Load(context.Background(), "k")
	require.Error(t, err)
	assert.NotErrorIs(t, err, store.ErrSnapshotNotFound)

	require.Error(t, repo.Save(context.Background(), "k", []byte("{}")))
}
