package gormrepo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/lsta/pai/internal/storage/models"
)

// Open 复用 pgx 连接池创建 *gorm.DB
func Open(pool *pgxpool.Pool) (*gorm.DB, error) {
	sqlDB := stdlib.OpenDBFromPool(pool)
	return gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
}

// PanelRepository 面板身份登记
type PanelRepository struct {
	db *gorm.DB
}

// New 返回一个使用给定 *gorm.DB 的 PanelRepository
func New(db *gorm.DB) *PanelRepository {
	return &PanelRepository{db: db}
}

// UpsertPanel 以序列号为键插入或更新面板身份
func (r *PanelRepository) UpsertPanel(ctx context.Context, p *models.Panel) error {
	if p.SerialNumber == "" {
		return errors.New("panel serial number is empty")
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "serial_number"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"product_id":   gorm.Expr("excluded.product_id"),
				"product":      gorm.Expr("excluded.product"),
				"application":  gorm.Expr("excluded.application"),
				"firmware":     gorm.Expr("excluded.firmware"),
				"panel_id":     gorm.Expr("excluded.panel_id"),
				"label":        gorm.Expr("excluded.label"),
				"last_seen_at": gorm.Expr("excluded.last_seen_at"),
				"updated_at":   gorm.Expr("NOW()"),
			}),
		}).
		Create(p).Error
}

// GetPanel 通过序列号查询；不存在返回 nil, nil
func (r *PanelRepository) GetPanel(ctx context.Context, serial string) (*models.Panel, error) {
	var p models.Panel
	err := r.db.WithContext(ctx).Where("serial_number = ?", serial).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ListPanels 按最近握手时间倒序
func (r *PanelRepository) ListPanels(ctx context.Context, limit int) ([]models.Panel, error) {
	if limit <= 0 {
		limit = 100
	}
	var out []models.Panel
	err := r.db.WithContext(ctx).Order("last_seen_at DESC NULLS LAST").Limit(limit).Find(&out).Error
	return out, err
}
