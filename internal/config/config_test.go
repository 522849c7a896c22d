package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pai.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "app:\n  name: test\n"))
	require.NoError(t, err)

	assert.Equal(t, "test", cfg.App.Name)
	assert.Equal(t, "serial", cfg.Panel.Transport)
	assert.Equal(t, 9600, cfg.Panel.SerialBaud)
	assert.Equal(t, 2*time.Second, cfg.Panel.ReplyTimeout)
	assert.Equal(t, 3, cfg.Panel.Retries)
	assert.Equal(t, 5*time.Second, cfg.Panel.StatusInterval)
	assert.Equal(t, "utf-8", cfg.Labels.Encoding)
	assert.Equal(t, "/metrics", cfg.Metrics.Path)
	assert.False(t, cfg.Redis.Enable)
}

func TestLoad_FileValues(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
panel:
  transport: tcp
  addr: 192.168.1.20:10000
  password: "1234"
  replyTimeout: 500ms
  rateLimit:
    perSecond: 5
labels:
  encoding: windows-1252
  limits:
    zone: [1, 2, 5]
api:
  apiKeys: ["k1"]
`))
	require.NoError(t, err)

	assert.Equal(t, "tcp", cfg.Panel.Transport)
	assert.Equal(t, "192.168.1.20:10000", cfg.Panel.Addr)
	assert.Equal(t, "1234", cfg.Panel.Password)
	assert.Equal(t, 500*time.Millisecond, cfg.Panel.ReplyTimeout)
	assert.Equal(t, 5, cfg.Panel.RateLimit.PerSecond)
	assert.Equal(t, 1, cfg.Panel.RateLimit.Burst)
	assert.Equal(t, []int{1, 2, 5}, cfg.Labels.Limits["zone"])
	assert.Equal(t, []string{"k1"}, cfg.API.APIKeys)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("PAI_PANEL_PASSWORD", "4321")
	t.Setenv("PAI_LOGGING_LEVEL", "debug")

	cfg, err := Load(writeConfig(t, "panel:\n  password: \"1111\"\n"))
	require.NoError(t, err)
	assert.Equal(t, "4321", cfg.Panel.Password)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoad_Invalid(t *testing.T) {
	_, err := Load(writeConfig(t, "panel:\n  transport: tcp\n"))
	assert.Error(t, err, "tcp 缺少地址")

	_, err = Load(writeConfig(t, "panel:\n  transport: carrier-pigeon\n"))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "panel:\n  sourceId: 300\n"))
	assert.Error(t, err)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err, "显式指定的文件不存在")
}
