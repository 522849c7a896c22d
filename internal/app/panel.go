package app

import (
	"context"
	"io"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/lsta/pai/internal/capture"
	cfgpkg "github.com/lsta/pai/internal/config"
	"github.com/lsta/pai/internal/connection"
	"github.com/lsta/pai/internal/gateway"
	"github.com/lsta/pai/internal/metrics"
	"github.com/lsta/pai/internal/panel"
	"github.com/lsta/pai/internal/protocol/paradox"
)

// DialFunc 打开面板链路
type DialFunc func(ctx context.Context, ep connection.Endpoint) (io.ReadWriteCloser, error)

// PanelRunner 维持面板会话，断开后按 ReconnectDelay 重连
type PanelRunner struct {
	Panel     cfgpkg.PanelConfig
	Labels    cfgpkg.LabelsConfig
	MemoryMap *panel.MemoryMap
	Tracker   *gateway.Tracker
	Sinks     []gateway.Sink
	Recorder  *capture.Recorder
	Metrics   *metrics.AppMetrics
	Logger    *zap.Logger
	// OnState 会话握手完成与断开时回调
	OnState func(connected bool)
	Dial    DialFunc
}

// Run 阻塞直至 ctx 取消
func (r *PanelRunner) Run(ctx context.Context) error {
	delay := r.Panel.ReconnectDelay
	if delay <= 0 {
		delay = 10 * time.Second
	}
	for {
		err := r.RunOnce(ctx)
		if ctx.Err() != nil {
			return nil
		}
		r.Logger.Warn("panel session ended, reconnecting", zap.Error(err), zap.Duration("delay", delay))
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(delay):
		}
	}
}

// RunOnce 建立一次链路与会话，返回会话结束原因
func (r *PanelRunner) RunOnce(ctx context.Context) error {
	dial := r.Dial
	if dial == nil {
		dial = connection.Dial
	}
	pc := r.Panel
	rw, err := dial(ctx, connection.Endpoint{
		Transport:   pc.Transport,
		SerialPort:  pc.SerialPort,
		BaudRate:    pc.SerialBaud,
		Addr:        pc.Addr,
		DialTimeout: pc.DialTimeout,
	})
	if err != nil {
		return err
	}

	conn := connection.New(rw, connection.Config{
		ReplyTimeout:     pc.ReplyTimeout,
		Retries:          pc.Retries,
		RatePerSecond:    pc.RateLimit.PerSecond,
		Burst:            pc.RateLimit.Burst,
		BreakerThreshold: pc.Breaker.Threshold,
		BreakerTimeout:   pc.Breaker.Timeout,
	}, panel.ParseMessage, r.Logger, r.Metrics)
	if r.Recorder != nil {
		conn.SetRecorder(r.Recorder)
	}

	core, err := panel.NewCore(conn, panel.NewGeneric(conn, r.Logger), r.MemoryMap,
		panel.Options{Encoding: r.Labels.Encoding, Limits: r.Labels.Limits}, r.Logger, r.Metrics)
	if err != nil {
		_ = conn.Close()
		return err
	}

	sess := gateway.NewSession(conn, core, gateway.Options{
		Password:       pc.Password,
		SourceID:       paradox.CommunicationSource(pc.SourceID),
		UserID:         uint16(pc.UserID),
		StatusInterval: pc.StatusInterval,
	}, r.Logger, r.Metrics, r.Sinks...)
	if r.OnState != nil {
		sess.OnStateChange(r.OnState)
	}
	r.Tracker.Set(sess, conn.Breaker())
	defer r.Tracker.Release(sess)

	// 读循环不随 ctx 结束，保证 CloseConnection 能在关闭前发出
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return conn.Run(context.WithoutCancel(gctx)) })
	g.Go(func() error {
		defer conn.Close()
		return sess.Run(gctx)
	})
	return g.Wait()
}
