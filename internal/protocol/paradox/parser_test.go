package paradox

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// frameWith 构造指定前缀、其余为零的合法帧
func frameWith(prefix ...byte) []byte {
	payload := make([]byte, PayloadLength)
	copy(payload, prefix)
	return appendChecksum(payload)
}

func TestParseMessage_Classification(t *testing.T) {
	tests := []struct {
		name     string
		data     []byte
		dir      Direction
		expected string
	}{
		{"主机发起通信", frameWith(0x72, 0x00), ToPanel, "InitiateCommunication"},
		{"主机开始通信", frameWith(0x5F, 0x20), ToPanel, "StartCommunication"},
		{"面板身份应答", frameWith(0x72, 0xFF), FromPanel, "InitiateCommunicationResponse"},
		{"面板开始通信应答", frameWith(0x00, 0x00, 0x00, 0x00, 0x05), FromPanel, "StartCommunicationResponse"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg, err := ParseMessage(tt.data, tt.dir)
			require.NoError(t, err)
			require.NotNil(t, msg)
			assert.Equal(t, tt.expected, msg.Name())
			assert.Equal(t, tt.dir, msg.Direction())
		})
	}
}

func TestParseMessage_Unclassified(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		dir  Direction
	}{
		{"空缓冲", nil, ToPanel},
		{"空切片", []byte{}, FromPanel},
		{"方向不符", frameWith(0x72, 0x00), FromPanel},
		{"产品号为零", frameWith(0x00, 0x00, 0x00, 0x00, 0x00), FromPanel},
		{"未知命令", frameWith(0x13, 0x37), ToPanel},
		{"主机方向未知首字节0xAA", frameWith(0xAA, 0x00), ToPanel},
		{"关闭连接不在握手分派内", frameWith(0x70, 0x25), ToPanel},
		{"面板方向的开始通信", frameWith(0x5F, 0x20), FromPanel},
		{"单字节", []byte{0x72}, ToPanel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg, err := ParseMessage(tt.data, tt.dir)
			assert.NoError(t, err)
			assert.Nil(t, msg)
		})
	}
}

func TestParseMessage_CorruptFrame(t *testing.T) {
	frame := frameWith(0x72, 0xFF, 0x01)
	frame[PayloadLength] ^= 0xFF

	msg, err := ParseMessage(frame, FromPanel)
	assert.True(t, msg == nil, "解码失败返回无类型 nil，得到 %T", msg)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrChecksumMismatch))
}

func TestParseMessage_DecodeErrorsReturnUntypedNil(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		dir  Direction
	}{
		{"发起通信", frameWith(0x72, 0x00), ToPanel},
		{"开始通信", frameWith(0x5F, 0x20), ToPanel},
		{"身份应答", frameWith(0x72, 0xFF), FromPanel},
		{"开始通信应答", frameWith(0x00, 0x00, 0x00, 0x00, 0x05), FromPanel},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.data[PayloadLength] ^= 0xFF
			msg, err := ParseMessage(tt.data, tt.dir)
			assert.True(t, errors.Is(err, ErrChecksumMismatch))
			assert.True(t, msg == nil, "得到 %T", msg)
		})
	}
}

func TestParseMessage_ShortClassifiedFrame(t *testing.T) {
	msg, err := ParseMessage([]byte{0x72, 0x00, 0x00}, ToPanel)
	assert.True(t, msg == nil)
	assert.True(t, errors.Is(err, ErrShortFrame))
}

// 面板首字节 0x72 且次字节非 0xFF 时不会落入 StartCommunicationResponse 分支
func TestParseMessage_FirstRuleWins(t *testing.T) {
	msg, err := ParseMessage(frameWith(0x72, 0x01, 0x00, 0x00, 0x05), FromPanel)
	assert.NoError(t, err)
	assert.Nil(t, msg)
}
