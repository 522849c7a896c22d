// Package storage 会话数据的持久化出口
package storage

import (
	"context"
	"sync"

	"github.com/lsta/pai/internal/gateway"
	"github.com/lsta/pai/internal/panel"
	"github.com/lsta/pai/internal/storage/models"
)

// LabelStore 标签与状态存储（pg.Repository 实现）
type LabelStore interface {
	UpsertLabels(ctx context.Context, serial string, labels panel.Labels) error
	UpsertStatus(ctx context.Context, serial string, st panel.Status) error
}

// PanelStore 面板身份存储（gormrepo.PanelRepository 实现）
type PanelStore interface {
	UpsertPanel(ctx context.Context, p *models.Panel) error
}

// DatabaseSink 将会话发布写入数据库
// 标签与状态按最近一次 PublishPanel 的序列号归属
type DatabaseSink struct {
	labels LabelStore
	panels PanelStore

	mu     sync.RWMutex
	serial string
}

// NewDatabaseSink 任一存储可为 nil，对应发布即跳过
func NewDatabaseSink(labels LabelStore, panels PanelStore) *DatabaseSink {
	return &DatabaseSink{labels: labels, panels: panels}
}

func (s *DatabaseSink) PublishPanel(ctx context.Context, info gateway.PanelInfo) error {
	s.mu.Lock()
	s.serial = info.SerialNumber
	s.mu.Unlock()

	if s.panels == nil {
		return nil
	}
	seen := info.ConnectedAt
	return s.panels.UpsertPanel(ctx, &models.Panel{
		SerialNumber: info.SerialNumber,
		ProductID:    int16(info.ProductID),
		Product:      info.Product,
		Application:  info.Application,
		Firmware:     info.Firmware,
		PanelID:      int32(info.PanelID),
		Label:        info.Label,
		LastSeenAt:   &seen,
	})
}

func (s *DatabaseSink) PublishLabels(ctx context.Context, labels panel.Labels) error {
	if s.labels == nil {
		return nil
	}
	return s.labels.UpsertLabels(ctx, s.currentSerial(), labels)
}

func (s *DatabaseSink) PublishStatus(ctx context.Context, st panel.Status) error {
	if s.labels == nil {
		return nil
	}
	return s.labels.UpsertStatus(ctx, s.currentSerial(), st)
}

func (s *DatabaseSink) currentSerial() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.serial
}

var _ gateway.Sink = (*DatabaseSink)(nil)
