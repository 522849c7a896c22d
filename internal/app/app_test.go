package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	cfgpkg "github.com/lsta/pai/internal/config"
	"github.com/lsta/pai/internal/gateway"
)

func TestNewMetrics(t *testing.T) {
	appm, h := NewMetrics(cfgpkg.MetricsConfig{Enable: true, Path: "/metrics"})
	assert.NotNil(t, appm)
	assert.NotNil(t, h)

	appm, h = NewMetrics(cfgpkg.MetricsConfig{})
	assert.NotNil(t, appm, "未暴露时仍然计数")
	assert.Nil(t, h)
}

func TestNewHealthAggregator_PanelOnly(t *testing.T) {
	agg := NewHealthAggregator(gateway.NewTracker(), nil, nil)
	report := agg.Report(t.Context())
	assert.Len(t, report.Checks, 1)
	assert.Contains(t, report.Checks, "panel")
}

func TestNewRedisClient_Disabled(t *testing.T) {
	client, err := NewRedisClient(t.Context(), cfgpkg.RedisConfig{}, zap.NewNop())
	assert.NoError(t, err)
	assert.Nil(t, client)
}
