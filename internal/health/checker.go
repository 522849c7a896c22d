package health

import (
	"context"
	"time"
)

// Status 健康状态
type Status string

const (
	StatusHealthy   Status = "healthy"   // 健康
	StatusDegraded  Status = "degraded"  // 降级（部分功能受损但仍可服务）
	StatusUnhealthy Status = "unhealthy" // 不健康（无法服务）
)

// CheckResult 健康检查结果
type CheckResult struct {
	Status  Status         `json:"status"`
	Message string         `json:"message,omitempty"`
	Details map[string]any `json:"details,omitempty"`
	Latency time.Duration  `json:"latency"`
}

// Checker 健康检查器接口
type Checker interface {
	Name() string
	Check(ctx context.Context) CheckResult
}

// Pinger 可探活的依赖
type Pinger interface {
	Ping(ctx context.Context) error
}

// pingResult 探活失败即不健康
func pingResult(ctx context.Context, p Pinger, start time.Time) (CheckResult, bool) {
	if err := p.Ping(ctx); err != nil {
		return CheckResult{
			Status:  StatusUnhealthy,
			Message: "ping failed: " + err.Error(),
			Latency: time.Since(start),
		}, false
	}
	return CheckResult{}, true
}
