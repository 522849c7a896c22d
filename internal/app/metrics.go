package app

import (
	"net/http"

	cfgpkg "github.com/lsta/pai/internal/config"
	"github.com/lsta/pai/internal/metrics"
)

// NewMetrics 业务指标始终注册；未启用暴露时处理器为 nil
func NewMetrics(cfg cfgpkg.MetricsConfig) (*metrics.AppMetrics, http.Handler) {
	reg := metrics.NewRegistry()
	appm := metrics.NewAppMetrics(reg)
	if !cfg.Enable {
		return appm, nil
	}
	return appm, metrics.Handler(reg)
}
