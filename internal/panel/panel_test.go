package panel

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/lsta/pai/internal/protocol/paradox"
)

func TestParseMessage_MemoryFrames(t *testing.T) {
	req, err := paradox.NewReadEEPROM(0x0430).Encode()
	require.NoError(t, err)
	msg, err := ParseMessage(req, paradox.ToPanel)
	require.NoError(t, err)
	assert.Equal(t, "ReadEEPROM", msg.Name())

	resp, err := (&paradox.ReadEEPROMResponse{Address: 0x0430, Data: block([]byte("Hall"))}).Encode()
	require.NoError(t, err)
	msg, err = ParseMessage(resp, paradox.FromPanel)
	require.NoError(t, err)
	assert.Equal(t, "ReadEEPROMResponse", msg.Name())

	// 握手规则优先
	start, err := paradox.NewStartCommunication().Encode()
	require.NoError(t, err)
	msg, err = ParseMessage(start, paradox.ToPanel)
	require.NoError(t, err)
	assert.Equal(t, "StartCommunication", msg.Name())

	initiate, err := (&paradox.InitiateCommunication{}).Encode()
	require.NoError(t, err)
	msg, err = ParseMessage(initiate, paradox.FromPanel)
	assert.NoError(t, err)
	assert.Nil(t, msg)

	msg, err = ParseMessage(nil, paradox.FromPanel)
	assert.NoError(t, err)
	assert.Nil(t, msg)
}

func TestCore_Accessors(t *testing.T) {
	core, _ := newTestCore(t, newStubTransport(nil), nil, Options{})
	assert.NotNil(t, core.MemoryMap())
	assert.Equal(t, "User Code is invalid", core.ErrorMessage(0x01))

	spec, err := core.GetMessage("CloseConnection")
	require.NoError(t, err)
	assert.Equal(t, paradox.ToPanel, spec.Direction)

	_, err = core.GetMessage("Nope")
	assert.True(t, errors.Is(err, paradox.ErrParserNotFound))
}

func TestGeneric(t *testing.T) {
	conn := newStubTransport(map[uint16][]byte{2: {0xFF}})
	g := NewGeneric(conn, nil)
	ctx := context.Background()
	assert.Nil(t, g.EncodedPassword())

	err := g.InitializeCommunication(ctx, &paradox.StartCommunicationResponse{ProductID: paradox.ProductDigiplexEVO48}, "1234")
	require.NoError(t, err)
	assert.Equal(t, paradox.ProductDigiplexEVO48, g.ProductID())
	assert.Equal(t, []byte{0x12, 0x34}, g.EncodedPassword())

	// 返回副本，调用方修改不影响内部状态
	g.EncodedPassword()[0] = 0xFF
	assert.Equal(t, []byte{0x12, 0x34}, g.EncodedPassword())

	err = g.InitializeCommunication(ctx, &paradox.StartCommunicationResponse{}, "12a4")
	assert.True(t, errors.Is(err, paradox.ErrInvalidPassword))
	assert.Equal(t, []byte{0x12, 0x34}, g.EncodedPassword(), "编码失败不覆盖已有密码")

	err = g.InitializeCommunication(ctx, nil, "1234")
	assert.True(t, errors.Is(err, ErrNoReply))

	resp, err := g.RequestStatus(ctx, 2)
	require.NoError(t, err)
	assert.True(t, resp.RAM)
	assert.Equal(t, byte(0xFF), resp.Data[0])

	_, err = g.RequestStatus(ctx, 5)
	assert.True(t, errors.Is(err, errStubTimeout))

	assert.True(t, errors.Is(g.ControlZones(ctx, []int{1}, "bypass"), ErrNotSupported))
	assert.True(t, errors.Is(g.ControlPartitions(ctx, []int{1}, "arm"), ErrNotSupported))
	assert.True(t, errors.Is(g.ControlOutputs(ctx, []int{1}, "on"), ErrNotSupported))
	assert.True(t, errors.Is(g.DumpMemory(ctx, nil), ErrNotSupported))
}

func TestGeneric_LogsPasswordPresence(t *testing.T) {
	for _, tc := range []struct {
		name     string
		password string
		want     bool
	}{
		{"已设置密码", "1234", true},
		{"无密码", "0000", false},
	} {
		t.Run(tc.name, func(t *testing.T) {
			obsCore, logs := observer.New(zap.InfoLevel)
			g := NewGeneric(newStubTransport(nil), zap.New(obsCore))
			require.NoError(t, g.InitializeCommunication(context.Background(),
				&paradox.StartCommunicationResponse{ProductID: paradox.ProductDigiplexEVO192}, tc.password))

			entries := logs.FilterMessage("panel communication initialized").All()
			require.Len(t, entries, 1)
			assert.Equal(t, tc.want, entries[0].ContextMap()["pc_password"])
		})
	}
}

func TestParseMessage_CloseConnection(t *testing.T) {
	frame, err := (&paradox.CloseConnection{}).Encode()
	require.NoError(t, err)

	msg, err := ParseMessage(frame, paradox.ToPanel)
	require.NoError(t, err)
	require.NotNil(t, msg)
	assert.Equal(t, "CloseConnection", msg.Name())
	assert.Equal(t, uint8(paradox.FrameLength), msg.(*paradox.CloseConnection).Length)

	// 面板方向不识别
	msg, err = ParseMessage(frame, paradox.FromPanel)
	assert.NoError(t, err)
	assert.Nil(t, msg)

	// 校验和错误时不返回带类型的 nil
	frame[paradox.PayloadLength] ^= 0xFF
	msg, err = ParseMessage(frame, paradox.ToPanel)
	assert.True(t, errors.Is(err, paradox.ErrChecksumMismatch))
	assert.True(t, msg == nil)
}
