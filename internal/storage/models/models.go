package models

import (
	"time"
)

// 注意：
// - 保持与 db/migrations 对齐
// - 不使用 gorm.Model，显式声明每个字段，避免隐式 DeletedAt

// Panel 映射 panels 表
type Panel struct {
	ID int64 `gorm:"column:id;primaryKey;autoIncrement"`
	// 握手应答中的序列号（十六进制）
	SerialNumber string `gorm:"column:serial_number;type:text;not null;uniqueIndex"`
	ProductID    int16  `gorm:"column:product_id;not null;default:0"`
	Product      string `gorm:"column:product;type:text;not null;default:''"`
	Application  string `gorm:"column:application;type:text;not null;default:''"`
	Firmware     string `gorm:"column:firmware;type:text;not null;default:''"`
	PanelID      int32  `gorm:"column:panel_id;not null;default:0"`
	Label        string `gorm:"column:label;type:text;not null;default:''"`
	// 最近一次握手
	LastSeenAt *time.Time `gorm:"column:last_seen_at"`
	CreatedAt  time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

func (Panel) TableName() string { return "panels" }
