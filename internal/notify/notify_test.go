package notify

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestFeedAssignsIDsAndTimestamps(t *testing.T) {
	fixed := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	f := NewFeed(10)
	f.now = func() time.Time { return fixed }

	f.Notify(Success("a"))
	f.Notify(Error("b"))

	got := f.Since(0)
	require.Len(t, got, 2)
	assert.Equal(t, int64(1), got[0].ID)
	assert.Equal(t, int64(2), got[1].ID)
	assert.Equal(t, LevelError, got[1].Level)
	assert.Equal(t, fixed, got[0].At)

	after := f.Since(1)
	require.Len(t, after, 1)
	assert.Equal(t, "b", after[0].Message)
	assert.Empty(t, f.Since(2))
}

func TestFeedIsBounded(t *testing.T) {
	f := NewFeed(3)
	for i := 0; i < 5; i++ {
		f.Notify(Info("n"))
	}

	got := f.Since(0)
	require.Len(t, got, 3)
	assert.Equal(t, int64(3), got[0].ID)

	last, ok := f.Last()
	require.True(t, ok)
	assert.Equal(t, int64(5), last.ID)
}

func TestFeedDefaultSize(t *testing.T) {
	f := NewFeed(0)
	for i := 0; i < DefaultFeedSize+7; i++ {
		f.Notify(Info("n"))
	}
	assert.Len(t, f.Since(0), DefaultFeedSize)

	_, ok := NewFeed(1).Last()
	assert.False(t, ok)
}

func TestMultiAndLogNotifier(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	feed := NewFeed(5)

	Multi{feed, nil, NewLogNotifier(zap.New(core)), Discard}.Notify(Success("Login bem-sucedido!"))

	assert.Len(t, feed.Since(0), 1)
	entries := logs.FilterMessage("notification").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "Login bem-sucedido!", entries[0].ContextMap()["message"])
	assert.Equal(t, "success", entries[0].ContextMap()["level"])
}
