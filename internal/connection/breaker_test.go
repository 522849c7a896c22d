package connection

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var errFail = errors.New("fail")

func TestBreaker_Transitions(t *testing.T) {
	now := time.Unix(1000, 0)
	b := NewBreaker(3, 10*time.Second)
	b.now = func() time.Time { return now }

	var changes []string
	b.OnStateChange(func(from, to BreakerState) { changes = append(changes, from.String()+"->"+to.String()) })

	for i := 0; i < 2; i++ {
		assert.Equal(t, errFail, b.Call(func() error { return errFail }))
	}
	assert.Equal(t, BreakerClosed, b.State())

	// 成功会清零连续失败计数
	assert.NoError(t, b.Call(func() error { return nil }))
	for i := 0; i < 3; i++ {
		_ = b.Call(func() error { return errFail })
	}
	assert.Equal(t, BreakerOpen, b.State())
	assert.Equal(t, ErrCircuitOpen, b.Call(func() error { return nil }))

	now = now.Add(11 * time.Second)
	assert.NoError(t, b.Call(func() error { return nil }))
	assert.Equal(t, BreakerClosed, b.State())
	assert.Equal(t, []string{"closed->open", "open->half_open", "half_open->closed"}, changes)
	assert.Equal(t, int64(1), b.Stats().Trips)
}

func TestBreaker_HalfOpenFailureReopens(t *testing.T) {
	now := time.Unix(1000, 0)
	b := NewBreaker(1, time.Second)
	b.now = func() time.Time { return now }

	_ = b.Call(func() error { return errFail })
	assert.Equal(t, BreakerOpen, b.State())

	now = now.Add(2 * time.Second)
	_ = b.Call(func() error { return errFail })
	assert.Equal(t, BreakerOpen, b.State())
	assert.Equal(t, int64(2), b.Stats().Trips)

	b.Reset()
	assert.Equal(t, BreakerClosed, b.State())
	assert.Equal(t, "closed", b.Stats().State)
}
