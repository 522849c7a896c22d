package health

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterHTTPRoutes 挂载 /health 路由组
// /health 降级仍返回 200；/health/ready 只在不健康时返回 503
func RegisterHTTPRoutes(r gin.IRouter, aggregator *Aggregator) {
	g := r.Group("/health")
	g.GET("", reportHandler(aggregator))
	g.GET("/ready", readyHandler(aggregator))
	g.GET("/live", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"alive": aggregator.Alive()})
	})
}

func reportHandler(agg *Aggregator) gin.HandlerFunc {
	return func(c *gin.Context) {
		report := agg.Report(c.Request.Context())
		code := http.StatusOK
		if report.Status == StatusUnhealthy {
			code = http.StatusServiceUnavailable
		}
		c.JSON(code, report)
	}
}

func readyHandler(agg *Aggregator) gin.HandlerFunc {
	return func(c *gin.Context) {
		status := agg.OverallStatus(c.Request.Context())
		code := http.StatusOK
		if status == StatusUnhealthy {
			code = http.StatusServiceUnavailable
		}
		c.JSON(code, gin.H{"status": status, "ready": status != StatusUnhealthy})
	}
}
