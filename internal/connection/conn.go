// Package connection 面板链路：成帧、应答关联、超时重试、限速与熔断
package connection

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/lsta/pai/internal/capture"
	"github.com/lsta/pai/internal/metrics"
	"github.com/lsta/pai/internal/protocol/paradox"
)

var (
	// ErrReplyTimeout 重试耗尽仍未收到匹配应答
	ErrReplyTimeout = errors.New("reply timeout")
	// ErrNotConnected 链路已关闭
	ErrNotConnected = errors.New("not connected")
)

// Decoder 入站帧分派函数
type Decoder func([]byte, paradox.Direction) (paradox.Message, error)

// Config 收发参数
type Config struct {
	ReplyTimeout     time.Duration
	Retries          int
	RatePerSecond    int
	Burst            int
	BreakerThreshold int
	BreakerTimeout   time.Duration
}

func (c *Config) normalize() {
	if c.ReplyTimeout <= 0 {
		c.ReplyTimeout = 2 * time.Second
	}
	if c.Retries < 0 {
		c.Retries = 0
	}
	if c.RatePerSecond <= 0 {
		c.RatePerSecond = 20
	}
	if c.Burst <= 0 {
		c.Burst = 1
	}
}

type waiter struct {
	expected paradox.Predicate
	ch       chan paradox.Message
}

// Connection 一条面板链路
type Connection struct {
	rw      io.ReadWriteCloser
	cfg     Config
	decode  Decoder
	logger  *zap.Logger
	metrics *metrics.AppMetrics
	pacer   *rate.Limiter
	breaker *Breaker

	writeMu sync.Mutex

	mu       sync.Mutex
	waiters  []*waiter
	handler  func(paradox.Message)
	recorder *capture.Recorder

	done      chan struct{}
	closeOnce sync.Once
}

// New 包装已打开的链路；decode 为 nil 时使用握手分派
func New(rw io.ReadWriteCloser, cfg Config, decode Decoder, logger *zap.Logger, m *metrics.AppMetrics) *Connection {
	cfg.normalize()
	if decode == nil {
		decode = paradox.ParseMessage
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Connection{
		rw:      rw,
		cfg:     cfg,
		decode:  decode,
		logger:  logger,
		metrics: m,
		pacer:   rate.NewLimiter(rate.Limit(cfg.RatePerSecond), cfg.Burst),
		breaker: NewBreaker(cfg.BreakerThreshold, cfg.BreakerTimeout),
		done:    make(chan struct{}),
	}
	c.breaker.OnStateChange(func(from, to BreakerState) {
		logger.Warn("panel link breaker state changed", zap.Stringer("from", from), zap.Stringer("to", to))
	})
	return c
}

// SetHandler 未被任何等待者认领的入站消息交给 h
func (c *Connection) SetHandler(h func(paradox.Message)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.handler = h
}

// SetRecorder 录制收发的原始帧
func (c *Connection) SetRecorder(r *capture.Recorder) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.recorder = r
}

// Breaker 链路熔断器
func (c *Connection) Breaker() *Breaker { return c.breaker }

// Done 链路关闭通知
func (c *Connection) Done() <-chan struct{} { return c.done }

// Close 关闭链路并唤醒所有等待者
func (c *Connection) Close() error {
	var err error
	c.closeOnce.Do(func() {
		close(c.done)
		err = c.rw.Close()
	})
	return err
}

func (c *Connection) closed() bool {
	select {
	case <-c.done:
		return true
	default:
		return false
	}
}

// Run 读循环，阻塞直至链路关闭或 ctx 取消
func (c *Connection) Run(ctx context.Context) error {
	stop := context.AfterFunc(ctx, func() { _ = c.Close() })
	defer stop()

	var sp Splitter
	buf := make([]byte, 256)
	for {
		n, err := c.rw.Read(buf)
		if n > 0 {
			c.observe(paradox.FromPanel, buf[:n])
			frames, skipped := sp.Feed(buf[:n])
			if skipped > 0 {
				c.metrics.ChecksumError()
				c.logger.Warn("discarded bytes while resynchronising", zap.Int("skipped", skipped))
			}
			for _, f := range frames {
				c.dispatch(f)
			}
		}
		if err != nil {
			closed := c.closed()
			_ = c.Close()
			if closed || ctx.Err() != nil || errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("read from panel: %w", err)
		}
	}
}

func (c *Connection) dispatch(frame []byte) {
	msg, err := c.decode(frame, paradox.FromPanel)
	if err != nil {
		c.metrics.FrameReceived("unknown", "error")
		if errors.Is(err, paradox.ErrChecksumMismatch) {
			c.metrics.ChecksumError()
		}
		c.logger.Warn("failed to decode frame", zap.Binary("frame", frame), zap.Error(err))
		return
	}
	if msg == nil {
		c.metrics.FrameReceived("unknown", "unknown")
		c.logger.Debug("unclassified frame", zap.Binary("frame", frame))
		return
	}
	c.metrics.FrameReceived(msg.Name(), "ok")

	c.mu.Lock()
	for i, w := range c.waiters {
		if w.expected(msg) {
			c.waiters = append(c.waiters[:i], c.waiters[i+1:]...)
			c.mu.Unlock()
			w.ch <- msg
			return
		}
	}
	h := c.handler
	c.mu.Unlock()

	if h != nil {
		h(msg)
	} else {
		c.logger.Debug("unsolicited message dropped", zap.String("message", msg.Name()))
	}
}

// Send 编码并写出一帧，受速率限制
func (c *Connection) Send(ctx context.Context, msg paradox.Message) error {
	if c.closed() {
		return ErrNotConnected
	}

	frame, err := msg.Encode()
	if err != nil {
		return fmt.Errorf("encode %s: %w", msg.Name(), err)
	}
	if err := c.pacer.Wait(ctx); err != nil {
		return err
	}

	c.writeMu.Lock()
	_, err = c.rw.Write(frame)
	c.writeMu.Unlock()
	if err != nil {
		return fmt.Errorf("write %s: %w", msg.Name(), err)
	}

	c.observe(paradox.ToPanel, frame)
	c.metrics.FrameSent(msg.Name())
	c.logger.Debug("frame sent", zap.String("message", msg.Name()), zap.Binary("frame", frame))
	return nil
}

// SendWait 发送并等待满足 expected 的应答
// 每次尝试等待 ReplyTimeout，共 1+Retries 次；耗尽返回 ErrReplyTimeout
// expected 为 nil 时只发送
func (c *Connection) SendWait(ctx context.Context, msg paradox.Message, expected paradox.Predicate) (paradox.Message, error) {
	if expected == nil {
		return nil, c.Send(ctx, msg)
	}

	var reply paradox.Message
	var sendErr error
	err := c.breaker.Call(func() error {
		reply, sendErr = c.sendWait(ctx, msg, expected)
		// 只有无应答计入熔断
		if errors.Is(sendErr, ErrReplyTimeout) {
			return sendErr
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return reply, sendErr
}

func (c *Connection) sendWait(ctx context.Context, msg paradox.Message, expected paradox.Predicate) (paradox.Message, error) {
	w := &waiter{expected: expected, ch: make(chan paradox.Message, 1)}
	c.mu.Lock()
	c.waiters = append(c.waiters, w)
	c.mu.Unlock()
	defer c.removeWaiter(w)

	for attempt := 0; attempt <= c.cfg.Retries; attempt++ {
		if err := c.Send(ctx, msg); err != nil {
			return nil, err
		}

		timer := time.NewTimer(c.cfg.ReplyTimeout)
		select {
		case reply := <-w.ch:
			timer.Stop()
			return reply, nil
		case <-timer.C:
			c.logger.Debug("no reply, retrying", zap.String("message", msg.Name()), zap.Int("attempt", attempt+1))
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-c.done:
			timer.Stop()
			return nil, ErrNotConnected
		}
	}

	c.metrics.ReplyTimeout()
	return nil, fmt.Errorf("%s: %w", msg.Name(), ErrReplyTimeout)
}

func (c *Connection) removeWaiter(w *waiter) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, x := range c.waiters {
		if x == w {
			c.waiters = append(c.waiters[:i], c.waiters[i+1:]...)
			return
		}
	}
}

func (c *Connection) observe(dir paradox.Direction, data []byte) {
	c.mu.Lock()
	r := c.recorder
	c.mu.Unlock()
	if r == nil {
		return
	}
	if err := r.Observe(dir, data); err != nil {
		c.logger.Warn("capture write failed", zap.Error(err))
	}
}
