package connection

import (
	"errors"
	"sync"
	"time"
)

// BreakerState 熔断器状态
type BreakerState int

const (
	BreakerClosed   BreakerState = iota // 正常收发
	BreakerOpen                         // 面板连续无应答，暂停发送
	BreakerHalfOpen                     // 试探恢复
)

func (s BreakerState) String() string {
	switch s {
	case BreakerClosed:
		return "closed"
	case BreakerOpen:
		return "open"
	case BreakerHalfOpen:
		return "half_open"
	default:
		return "unknown"
	}
}

var (
	// ErrCircuitOpen 熔断期间拒绝发送
	ErrCircuitOpen = errors.New("circuit breaker is open")
	// ErrTooManyProbes 半开状态试探请求过多
	ErrTooManyProbes = errors.New("too many requests in half-open state")
)

// Breaker 连续失败熔断器：连续 threshold 次请求无应答后打开，timeout 后进入半开
type Breaker struct {
	mu          sync.Mutex
	state       BreakerState
	failures    int
	probes      int
	successes   int
	lastFailure time.Time
	trips       int64

	threshold int
	timeout   time.Duration
	probeMax  int
	now       func() time.Time

	onChange func(from, to BreakerState)
}

// NewBreaker 创建熔断器；非正参数使用默认值（5 次，30 秒）
func NewBreaker(threshold int, timeout time.Duration) *Breaker {
	if threshold <= 0 {
		threshold = 5
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Breaker{threshold: threshold, timeout: timeout, probeMax: 2, now: time.Now}
}

// OnStateChange 状态变化回调（同步调用，回调内不得再访问熔断器）
func (b *Breaker) OnStateChange(fn func(from, to BreakerState)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.onChange = fn
}

// Call 在熔断保护下执行 fn
func (b *Breaker) Call(fn func() error) error {
	if err := b.acquire(); err != nil {
		return err
	}
	err := fn()
	b.release(err)
	return err
}

func (b *Breaker) acquire() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case BreakerOpen:
		if b.now().Sub(b.lastFailure) < b.timeout {
			return ErrCircuitOpen
		}
		b.transition(BreakerHalfOpen)
		b.probes, b.successes = 0, 0
		fallthrough
	case BreakerHalfOpen:
		if b.probes >= b.probeMax {
			return ErrTooManyProbes
		}
		b.probes++
	}
	return nil
}

func (b *Breaker) release(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err != nil {
		b.failures++
		b.lastFailure = b.now()
		if b.state == BreakerHalfOpen || b.failures >= b.threshold {
			if b.state != BreakerOpen {
				b.trips++
			}
			b.transition(BreakerOpen)
		}
		return
	}

	b.failures = 0
	if b.state == BreakerHalfOpen {
		b.successes++
		b.probes--
		if b.successes >= b.probeMax/2 {
			b.transition(BreakerClosed)
		}
	}
}

func (b *Breaker) transition(to BreakerState) {
	if b.state == to {
		return
	}
	from := b.state
	b.state = to
	if b.onChange != nil {
		b.onChange(from, to)
	}
}

// State 当前状态
func (b *Breaker) State() BreakerState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// Reset 手动恢复
func (b *Breaker) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.transition(BreakerClosed)
	b.failures, b.probes, b.successes = 0, 0, 0
}

// BreakerStats 统计信息
type BreakerStats struct {
	State    string `json:"state"`
	Failures int    `json:"failures"`
	Trips    int64  `json:"trips"`
}

func (b *Breaker) Stats() BreakerStats {
	b.mu.Lock()
	defer b.mu.Unlock()
	return BreakerStats{State: b.state.String(), Failures: b.failures, Trips: b.trips}
}
