package redis

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cfgpkg "github.com/lsta/pai/internal/config"
	"github.com/lsta/pai/internal/gateway"
	"github.com/lsta/pai/internal/panel"
)

// 集成测试需要 Redis：设置 PAI_TEST_REDIS_ADDR，否则跳过
func testClient(t *testing.T) *Client {
	t.Helper()
	addr := os.Getenv("PAI_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("需要Redis服务器，设置 PAI_TEST_REDIS_ADDR 后运行")
	}
	client, err := NewClient(context.Background(), cfgpkg.RedisConfig{Enable: true, Addr: addr, DB: 15})
	require.NoError(t, err)
	require.NoError(t, client.FlushDB(context.Background()).Err())
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestKeys(t *testing.T) {
	assert.Equal(t, "pai:labels:zone", labelsKey("zone"))
	assert.Equal(t, "pai:status:partition", statusKey("partition"))
}

func TestNewClient_Disabled(t *testing.T) {
	_, err := NewClient(context.Background(), cfgpkg.RedisConfig{})
	assert.Error(t, err)
}

func TestPublisher_RoundTrip(t *testing.T) {
	client := testClient(t)
	ctx := context.Background()
	pub := NewPublisher(client, time.Minute)

	t.Run("面板身份", func(t *testing.T) {
		got, err := pub.Panel(ctx)
		require.NoError(t, err)
		assert.Nil(t, got)

		require.NoError(t, pub.PublishPanel(ctx, gateway.PanelInfo{SerialNumber: "05010203", Label: "EVO192"}))
		got, err = pub.Panel(ctx)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "05010203", got.SerialNumber)
	})

	t.Run("标签整类覆盖", func(t *testing.T) {
		require.NoError(t, pub.PublishLabels(ctx, panel.Labels{"zone": {
			1: {ID: 1, Key: "Hall", Label: "Hall", Props: map[string]any{"open": false}},
			2: {ID: 2, Key: "Kitchen", Label: "Kitchen"},
		}}))
		require.NoError(t, pub.PublishLabels(ctx, panel.Labels{"zone": {
			1: {ID: 1, Key: "Front", Label: "Front"},
		}}))

		zones, err := pub.Labels.Load(ctx, "zone")
		require.NoError(t, err)
		assert.Equal(t, map[int]panel.Label{1: {ID: 1, Key: "Front", Label: "Front"}}, zones)

		elements, err := pub.Labels.Elements(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"zone"}, elements)
	})

	t.Run("状态按序号合并", func(t *testing.T) {
		st := panel.Status{}
		st.Set("zone", 1, "open", true)
		st.Set("zone", 2, "open", false)
		require.NoError(t, pub.PublishStatus(ctx, st))

		next := panel.Status{}
		next.Set("zone", 2, "open", true)
		require.NoError(t, pub.PublishStatus(ctx, next))

		zones, err := pub.Status.Load(ctx, "zone")
		require.NoError(t, err)
		assert.Equal(t, true, zones[1]["open"])
		assert.Equal(t, true, zones[2]["open"])
	})
}
