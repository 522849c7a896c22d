package gateway

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lsta/pai/internal/connection"
)

func TestTracker(t *testing.T) {
	tr := NewTracker()
	_, ok := tr.Snapshot()
	assert.False(t, ok)
	assert.False(t, tr.Connected())
	assert.Nil(t, tr.Breaker())

	link := newFakeLink(evoPanel)
	s, _ := newTestSession(t, link, Options{})
	b := connection.NewBreaker(0, 0)
	tr.Set(s, b)
	assert.Same(t, s, tr.Current())
	assert.Same(t, b, tr.Breaker())
	assert.False(t, tr.Connected(), "握手前未连接")

	require.NoError(t, s.Connect(context.Background()))
	assert.True(t, tr.Connected())
	snap, ok := tr.Snapshot()
	require.True(t, ok)
	assert.True(t, snap.Connected)

	t.Run("释放旧会话不影响新会话", func(t *testing.T) {
		other, _ := newTestSession(t, newFakeLink(evoPanel), Options{})
		tr.Release(other)
		assert.True(t, tr.Connected())
	})

	tr.Release(s)
	assert.False(t, tr.Connected())
	assert.Nil(t, tr.Breaker())
	snap, ok = tr.Snapshot()
	require.True(t, ok, "断开后仍保留最后快照")
	assert.False(t, snap.Connected)
	assert.Equal(t, "05010203", snap.Panel.SerialNumber)
	assert.Equal(t, 1, tr.Sessions())
}
