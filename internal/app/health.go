package app

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lsta/pai/internal/gateway"
	"github.com/lsta/pai/internal/health"
	redisstorage "github.com/lsta/pai/internal/storage/redis"
)

// NewHealthAggregator 创建健康检查聚合器：面板必选，数据库与Redis按启用情况添加
func NewHealthAggregator(tracker *gateway.Tracker, dbpool *pgxpool.Pool, redisClient *redisstorage.Client) *health.Aggregator {
	agg := health.NewAggregator(health.NewPanelChecker(
		func() health.PanelProbe { return tracker },
		func() health.BreakerProbe {
			if b := tracker.Breaker(); b != nil {
				return b
			}
			return nil
		},
	))
	if dbpool != nil {
		agg.AddChecker(health.NewDatabaseChecker(dbpool))
	}
	if redisClient != nil {
		agg.AddChecker(health.NewRedisChecker(redisClient))
	}
	return agg
}
