package api

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/lsta/pai/internal/api/middleware"
)

// RegisterReadOnlyRoutes 注册只读查询路由
func RegisterReadOnlyRoutes(r gin.IRouter, source SnapshotSource, authCfg middleware.AuthConfig, logger *zap.Logger) {
	if r == nil || source == nil {
		return
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	handler := NewReadOnlyHandler(source, logger)

	api := r.Group("/api")
	api.Use(middleware.CORS())
	if authCfg.Enabled() {
		api.Use(middleware.APIKeyAuth(authCfg, logger))
		logger.Info("api authentication enabled", zap.Int("api_keys_count", len(authCfg.APIKeys)))
	} else {
		logger.Warn("api authentication disabled")
	}

	api.GET("/panel", handler.GetPanel)
	api.GET("/labels", handler.ListLabels)
	api.GET("/labels/:element", handler.GetElementLabels)
	api.GET("/status", handler.GetStatus)
	api.GET("/errors/:code", handler.GetErrorMessage)
	api.GET("/messages", handler.ListMessages)

	logger.Info("readonly routes registered", zap.Int("endpoints", 6))
}
