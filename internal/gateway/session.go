// Package gateway 面板会话编排：握手、标签加载、状态轮询与发布
package gateway

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/lsta/pai/internal/metrics"
	"github.com/lsta/pai/internal/panel"
	"github.com/lsta/pai/internal/protocol/paradox"
)

// ErrLinkClosed 会话运行中链路断开
var ErrLinkClosed = errors.New("panel link closed")

// Link 会话使用的面板链路
type Link interface {
	panel.Transport
	Send(ctx context.Context, msg paradox.Message) error
	SetHandler(h func(paradox.Message))
	Done() <-chan struct{}
	Close() error
}

// Sink 面板身份、标签与状态的发布目标（缓存、数据库）
type Sink interface {
	PublishPanel(ctx context.Context, info PanelInfo) error
	PublishLabels(ctx context.Context, labels panel.Labels) error
	PublishStatus(ctx context.Context, st panel.Status) error
}

// PanelInfo 握手获得的面板身份
type PanelInfo struct {
	SerialNumber string            `json:"serial_number"`
	ProductID    paradox.ProductID `json:"product_id"`
	Product      string            `json:"product"`
	Application  string            `json:"application"`
	Firmware     string            `json:"firmware"`
	PanelID      uint16            `json:"panel_id"`
	Label        string            `json:"label"`
	ConnectedAt  time.Time         `json:"connected_at"`
}

// Options 会话参数
type Options struct {
	Password       string
	SourceID       paradox.CommunicationSource
	UserID         uint16
	StatusInterval time.Duration
}

// Snapshot 对外只读视图
type Snapshot struct {
	SessionID string       `json:"session_id"`
	Connected bool         `json:"connected"`
	Panel     *PanelInfo   `json:"panel,omitempty"`
	Labels    panel.Labels `json:"labels"`
	Status    panel.Status `json:"status"`
	UpdatedAt time.Time    `json:"updated_at"`
}

// Session 一次面板连接的生命周期
type Session struct {
	id      string
	link    Link
	core    *panel.Core
	opts    Options
	logger  *zap.Logger
	metrics *metrics.AppMetrics
	sinks   []Sink

	onState func(connected bool)

	mu        sync.RWMutex
	connected bool
	info      *PanelInfo
	labels    panel.Labels
	status    panel.Status
	updatedAt time.Time
}

// NewSession 创建会话并接管链路上未被认领的消息
func NewSession(link Link, core *panel.Core, opts Options, logger *zap.Logger, m *metrics.AppMetrics, sinks ...Sink) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.StatusInterval <= 0 {
		opts.StatusInterval = 5 * time.Second
	}
	if opts.SourceID == 0 {
		opts.SourceID = paradox.SourceWinloadDirect
	}
	id := uuid.NewString()
	s := &Session{
		id:      id,
		link:    link,
		core:    core,
		opts:    opts,
		logger:  logger.With(zap.String("session_id", id)),
		metrics: m,
		sinks:   sinks,
		labels:  make(panel.Labels),
		status:  make(panel.Status),
	}
	link.SetHandler(s.handleUnsolicited)
	return s
}

func (s *Session) ID() string { return s.id }

// OnStateChange 握手完成与断开时回调；需在 Run 之前设置
func (s *Session) OnStateChange(fn func(connected bool)) {
	s.onState = fn
}

func (s *Session) setConnected(up bool) {
	s.metrics.SetConnected(up)
	if s.onState != nil {
		s.onState(up)
	}
}

// Connect 握手：InitiateCommunication → StartCommunication → 型号初始化
func (s *Session) Connect(ctx context.Context) error {
	s.logger.Info("connecting to panel")

	reply, err := s.link.SendWait(ctx, &paradox.InitiateCommunication{}, paradox.IsMessage("InitiateCommunicationResponse"))
	if err != nil {
		return fmt.Errorf("initiate communication: %w", err)
	}
	ident, ok := reply.(*paradox.InitiateCommunicationResponse)
	if !ok {
		return fmt.Errorf("initiate communication: %w", panel.ErrNoReply)
	}

	start := paradox.NewStartCommunication()
	start.SourceID = s.opts.SourceID
	start.UserID = paradox.UserID{High: byte(s.opts.UserID >> 8), Low: byte(s.opts.UserID)}
	reply, err = s.link.SendWait(ctx, start, paradox.IsMessage("StartCommunicationResponse"))
	if err != nil {
		return fmt.Errorf("start communication: %w", err)
	}
	started, ok := reply.(*paradox.StartCommunicationResponse)
	if !ok {
		return fmt.Errorf("start communication: %w", panel.ErrNoReply)
	}

	if err := s.core.Model().InitializeCommunication(ctx, started, s.opts.Password); err != nil {
		return fmt.Errorf("initialize communication: %w", err)
	}

	info := panelInfo(ident, started)
	s.mu.Lock()
	s.connected = true
	s.info = &info
	s.updatedAt = info.ConnectedAt
	s.mu.Unlock()
	s.setConnected(true)

	s.logger.Info("panel connected",
		zap.String("serial", info.SerialNumber), zap.String("product", info.Product),
		zap.String("application", info.Application), zap.String("label", info.Label))
	s.publish(ctx, func(ctx context.Context, sink Sink) error { return sink.PublishPanel(ctx, info) })
	return nil
}

func panelInfo(ident *paradox.InitiateCommunicationResponse, started *paradox.StartCommunicationResponse) PanelInfo {
	app := ident.Application
	fw := started.Firmware
	return PanelInfo{
		SerialNumber: ident.SerialHex(),
		ProductID:    started.ProductID,
		Product:      started.ProductID.String(),
		Application:  fmt.Sprintf("%d.%d.%d", app.Version.Int(), app.Revision.Int(), app.Build.Int()),
		Firmware:     fmt.Sprintf("%d.%d.%d", fw.Version, fw.Revision, fw.Build),
		PanelID:      started.PanelID,
		Label:        strings.TrimRight(string(ident.Label[:]), "\x00 "),
		ConnectedAt:  time.Now(),
	}
}

// LoadLabels 加载标签；部分失败时已加载的类别仍然保存并发布
func (s *Session) LoadLabels(ctx context.Context) error {
	labels, err := s.core.LoadLabels(ctx)

	s.mu.Lock()
	for element, entries := range labels {
		if len(entries) > 0 || s.labels[element] == nil {
			s.labels[element] = entries
		}
	}
	s.updatedAt = time.Now()
	snapshot := cloneLabels(s.labels)
	s.mu.Unlock()

	s.publish(ctx, func(ctx context.Context, sink Sink) error { return sink.PublishLabels(ctx, snapshot) })
	return err
}

// PollStatus 读取内存布局中所有 RAM 状态块并合并
func (s *Session) PollStatus(ctx context.Context) error {
	merged := make(panel.Status)
	var errs []error
	for _, block := range s.core.MemoryMap().StatusBlocks() {
		resp, err := s.core.Model().RequestStatus(ctx, block)
		if err != nil {
			errs = append(errs, err)
			if ctx.Err() != nil {
				break
			}
			continue
		}
		if st, ok := s.core.HandleStatus(resp); ok {
			merged.Merge(st)
		}
	}

	if len(merged) > 0 {
		s.applyStatus(merged)
		s.publish(ctx, func(ctx context.Context, sink Sink) error { return sink.PublishStatus(ctx, merged) })
	}
	return errors.Join(errs...)
}

func (s *Session) applyStatus(st panel.Status) {
	s.mu.Lock()
	s.status.Merge(st)
	s.updatedAt = time.Now()
	s.mu.Unlock()
}

// handleUnsolicited 面板主动上报的 RAM 块按状态处理，其余只记录
func (s *Session) handleUnsolicited(msg paradox.Message) {
	if resp, ok := msg.(*paradox.ReadEEPROMResponse); ok && resp.RAM {
		if st, ok := s.core.HandleStatus(resp); ok {
			s.applyStatus(st)
		}
		return
	}
	s.logger.Debug("unsolicited message ignored", zap.String("message", msg.Name()))
}

// Run 握手、加载标签后按间隔轮询状态，直到 ctx 取消或链路断开
// 退出时发送 CloseConnection
func (s *Session) Run(ctx context.Context) error {
	if err := s.Connect(ctx); err != nil {
		return err
	}
	defer s.Close(context.WithoutCancel(ctx))

	if err := s.LoadLabels(ctx); err != nil {
		s.logger.Error("labels partially loaded", zap.Error(err))
	}

	ticker := time.NewTicker(s.opts.StatusInterval)
	defer ticker.Stop()
	for {
		if err := s.PollStatus(ctx); err != nil && ctx.Err() == nil {
			s.logger.Warn("status poll failed", zap.Error(err))
		}
		select {
		case <-ctx.Done():
			return nil
		case <-s.link.Done():
			return ErrLinkClosed
		case <-ticker.C:
		}
	}
}

// Close 通知面板断开；链路本身由调用方关闭
func (s *Session) Close(ctx context.Context) error {
	s.mu.Lock()
	wasConnected := s.connected
	s.connected = false
	s.mu.Unlock()
	if !wasConnected {
		return nil
	}
	s.setConnected(false)

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := s.link.Send(ctx, &paradox.CloseConnection{}); err != nil {
		s.logger.Warn("close connection not sent", zap.Error(err))
		return err
	}
	s.logger.Info("panel connection closed")
	return nil
}

// Connected 是否已完成握手
func (s *Session) Connected() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.connected
}

// Snapshot 当前状态副本
func (s *Session) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap := Snapshot{
		SessionID: s.id,
		Connected: s.connected,
		Labels:    cloneLabels(s.labels),
		Status:    cloneStatus(s.status),
		UpdatedAt: s.updatedAt,
	}
	if s.info != nil {
		info := *s.info
		snap.Panel = &info
	}
	return snap
}

// publish 并发写入所有发布目标，失败只记录日志
func (s *Session) publish(ctx context.Context, fn func(context.Context, Sink) error) {
	if len(s.sinks) == 0 {
		return
	}
	g, gctx := errgroup.WithContext(ctx)
	for _, sink := range s.sinks {
		g.Go(func() error { return fn(gctx, sink) })
	}
	if err := g.Wait(); err != nil {
		s.logger.Warn("publish failed", zap.Error(err))
	}
}

func cloneLabels(src panel.Labels) panel.Labels {
	out := make(panel.Labels, len(src))
	for element, entries := range src {
		cp := make(map[int]panel.Label, len(entries))
		for i, l := range entries {
			cp[i] = l
		}
		out[element] = cp
	}
	return out
}

func cloneStatus(src panel.Status) panel.Status {
	out := make(panel.Status, len(src))
	out.Merge(src)
	return out
}
