package health

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// DatabaseChecker 数据库健康检查器
type DatabaseChecker struct {
	db Pinger
}

// NewDatabaseChecker 创建数据库健康检查器；*pgxpool.Pool 额外上报连接池统计
func NewDatabaseChecker(db Pinger) *DatabaseChecker {
	return &DatabaseChecker{db: db}
}

func (c *DatabaseChecker) Name() string { return "database" }

// Check 探活并按连接池利用率判断降级
func (c *DatabaseChecker) Check(ctx context.Context) CheckResult {
	start := time.Now()
	if res, ok := pingResult(ctx, c.db, start); !ok {
		return res
	}

	pool, ok := c.db.(*pgxpool.Pool)
	if !ok {
		return CheckResult{Status: StatusHealthy, Message: "ok", Latency: time.Since(start)}
	}

	stats := pool.Stat()
	utilization := 0.0
	if stats.MaxConns() > 0 {
		utilization = float64(stats.AcquiredConns()) / float64(stats.MaxConns())
	}

	status, message := StatusHealthy, "ok"
	switch {
	case utilization >= 1.0:
		status, message = StatusUnhealthy, "connection pool exhausted"
	case utilization > 0.9:
		status, message = StatusDegraded, "connection pool near limit"
	}

	return CheckResult{
		Status:  status,
		Message: message,
		Details: map[string]any{
			"total_conns":    stats.TotalConns(),
			"idle_conns":     stats.IdleConns(),
			"acquired_conns": stats.AcquiredConns(),
			"max_conns":      stats.MaxConns(),
			"utilization":    fmt.Sprintf("%.1f%%", utilization*100),
		},
		Latency: time.Since(start),
	}
}
