package panel

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/lsta/pai/internal/protocol/paradox"
)

func statusMessage(address uint16, data ...byte) *paradox.ReadEEPROMResponse {
	return &paradox.ReadEEPROMResponse{RAM: true, Address: address, Data: block(data)}
}

func TestHandleStatus(t *testing.T) {
	parsers := map[uint16]StatusParser{
		1: BitmapParser{Element: "zone", Property: "open", Offset: 0, Count: 4},
		2: ParserFunc(func([]byte) (Status, error) { return nil, errors.New("bad block") }),
		3: ParserFunc(func(data []byte) (Status, error) {
			_ = data[100]
			return nil, nil
		}),
	}

	t.Run("正常解析", func(t *testing.T) {
		obs, logs := observer.New(zapcore.DebugLevel)
		st, ok := HandleStatus(statusMessage(1, 0x05), parsers, zap.New(obs))
		require.True(t, ok)
		assert.Equal(t, true, st["zone"][1]["open"])
		assert.Equal(t, false, st["zone"][2]["open"])
		assert.Equal(t, true, st["zone"][3]["open"])
		assert.Equal(t, false, st["zone"][4]["open"])
		assert.Equal(t, 0, logs.Len())
	})

	t.Run("地址未配置", func(t *testing.T) {
		obs, logs := observer.New(zapcore.DebugLevel)
		st, ok := HandleStatus(statusMessage(9), parsers, zap.New(obs))
		assert.False(t, ok)
		assert.Nil(t, st)
		require.Equal(t, 1, logs.FilterLevelExact(zapcore.ErrorLevel).Len())
		assert.Equal(t, uint16(9), logs.All()[0].ContextMap()["address"])
	})

	t.Run("解析返回错误", func(t *testing.T) {
		obs, logs := observer.New(zapcore.DebugLevel)
		st, ok := HandleStatus(statusMessage(2), parsers, zap.New(obs))
		assert.False(t, ok)
		assert.Nil(t, st)
		assert.Equal(t, 1, logs.FilterMessage("unable to parse RAM status block").Len())
	})

	t.Run("解析器panic不外抛", func(t *testing.T) {
		obs, logs := observer.New(zapcore.DebugLevel)
		var st Status
		var ok bool
		require.NotPanics(t, func() {
			st, ok = HandleStatus(statusMessage(3), parsers, zap.New(obs))
		})
		assert.False(t, ok)
		assert.Nil(t, st)
		assert.Equal(t, 1, logs.FilterMessage("unable to parse RAM status block").Len())
	})

	t.Run("空消息", func(t *testing.T) {
		st, ok := HandleStatus(nil, parsers, nil)
		assert.False(t, ok)
		assert.Nil(t, st)
	})
}

func TestBitmapParser_ShortData(t *testing.T) {
	p := BitmapParser{Element: "zone", Property: "open", Offset: 30, Count: 32}
	_, err := p.Parse(make([]byte, 32))
	assert.Error(t, err)
}

func TestStatus_Merge(t *testing.T) {
	a := make(Status)
	a.Set("zone", 1, "open", true)
	b := make(Status)
	b.Set("zone", 1, "tamper", false)
	b.Set("partition", 1, "arm", true)

	a.Merge(b)
	assert.Equal(t, map[string]any{"open": true, "tamper": false}, a["zone"][1])
	assert.Equal(t, true, a["partition"][1]["arm"])
}

func TestCore_HandleStatusUsesMemoryMap(t *testing.T) {
	mm := &MemoryMap{Status: []StatusSpec{
		{Address: 1, Parser: "bitmap", Element: "zone", Property: "open", Offset: 0, Count: 8},
		{Address: 1, Parser: "bitmap", Element: "zone", Property: "tamper", Offset: 1, Count: 8},
	}}
	core, logs := newTestCore(t, newStubTransport(nil), mm, Options{})

	st, ok := core.HandleStatus(statusMessage(1, 0x01, 0x02))
	require.True(t, ok)
	assert.Equal(t, map[string]any{"open": true, "tamper": false}, st["zone"][1])
	assert.Equal(t, map[string]any{"open": false, "tamper": true}, st["zone"][2])

	_, ok = core.HandleStatus(statusMessage(7))
	assert.False(t, ok)
	assert.Equal(t, 1, logs.FilterLevelExact(zapcore.ErrorLevel).Len())
}
