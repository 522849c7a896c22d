package health

import (
	"context"
	"time"

	"github.com/lsta/pai/internal/connection"
)

// PanelProbe 面板会话状态
type PanelProbe interface {
	Connected() bool
}

// BreakerProbe 链路熔断器统计
type BreakerProbe interface {
	Stats() connection.BreakerStats
}

// PanelChecker 面板链路健康检查：未握手不健康，熔断打开降级
type PanelChecker struct {
	panel   func() PanelProbe
	breaker func() BreakerProbe
}

// NewPanelChecker 参数为取值函数，重连后总能拿到当前会话
func NewPanelChecker(panel func() PanelProbe, breaker func() BreakerProbe) *PanelChecker {
	return &PanelChecker{panel: panel, breaker: breaker}
}

func (c *PanelChecker) Name() string { return "panel" }

func (c *PanelChecker) Check(_ context.Context) CheckResult {
	start := time.Now()
	details := map[string]any{}

	var p PanelProbe
	if c.panel != nil {
		p = c.panel()
	}
	connected := p != nil && p.Connected()
	details["connected"] = connected

	var stats *connection.BreakerStats
	if c.breaker != nil {
		if b := c.breaker(); b != nil {
			s := b.Stats()
			stats = &s
			details["circuit_breaker_state"] = s.State
			details["circuit_breaker_failures"] = s.Failures
			details["circuit_breaker_trips"] = s.Trips
		}
	}

	status, message := StatusHealthy, "ok"
	switch {
	case !connected:
		status, message = StatusUnhealthy, "panel not connected"
	case stats != nil && stats.State != connection.BreakerClosed.String():
		status, message = StatusDegraded, "panel link breaker "+stats.State
	}
	return CheckResult{Status: status, Message: message, Details: details, Latency: time.Since(start)}
}
