package app

import (
	"net/http"

	"go.uber.org/zap"

	cfgpkg "github.com/lsta/pai/internal/config"
	"github.com/lsta/pai/internal/httpserver"
)

// NewHTTPServer 创建 HTTP 服务器；metricsHandler 为 nil 时不挂载指标路由
func NewHTTPServer(cfg cfgpkg.HTTPConfig, metricsPath string, metricsHandler http.Handler, readyFn func() bool, logger *zap.Logger) *httpserver.Server {
	return httpserver.New(cfg, metricsPath, metricsHandler, readyFn, logger.Named("http"))
}
