package paradox

import "fmt"

// 帧长度常量：本系列所有握手/内存读帧均为 36 字节载荷 + 1 字节校验和
const (
	PayloadLength  = 36
	ChecksumLength = 1
	FrameLength    = PayloadLength + ChecksumLength
)

// Direction 报文方向
type Direction int

const (
	ToPanel   Direction = iota // 主机 -> 面板
	FromPanel                  // 面板 -> 主机
)

func (d Direction) String() string {
	switch d {
	case ToPanel:
		return "to_panel"
	case FromPanel:
		return "from_panel"
	default:
		return "unknown"
	}
}

// ParseDirection 解析方向字符串（CLI/配置使用）
func ParseDirection(s string) (Direction, error) {
	switch s {
	case "to_panel", "to-panel", "topanel":
		return ToPanel, nil
	case "from_panel", "from-panel", "frompanel":
		return FromPanel, nil
	default:
		return 0, fmt.Errorf("unknown direction %q", s)
	}
}

// Message 已解码或待编码的定长帧
type Message interface {
	Name() string
	Direction() Direction
	// Encode 按声明顺序生成载荷并追加校验和（总长 FrameLength）
	Encode() ([]byte, error)
}

// Frame 帧的原始视图
// Raw 保存收到（或最近一次编码）的 36 字节载荷，校验和永远基于 Raw 计算，
// 未建模的填充/保留字节通过 Raw 无损往返
type Frame struct {
	Raw      []byte `json:"-"`
	Checksum byte   `json:"checksum"`
}

// RawPayload 返回原始载荷副本
func (f *Frame) RawPayload() []byte {
	if f.Raw == nil {
		return nil
	}
	out := make([]byte, len(f.Raw))
	copy(out, f.Raw)
	return out
}

// base 返回编码缓冲：以 Raw 为底，保留结构视图未覆盖的字节
func (f *Frame) base() []byte {
	buf := make([]byte, PayloadLength)
	if len(f.Raw) == PayloadLength {
		copy(buf, f.Raw)
	}
	return buf
}

// seal 追加校验和并同步原始视图
func (f *Frame) seal(payload []byte) []byte {
	out := appendChecksum(payload)
	f.Raw = payload
	f.Checksum = out[PayloadLength]
	return out
}

// adopt 解码成功后记录原始载荷
func (f *Frame) adopt(payload []byte, checksum byte) {
	f.Raw = make([]byte, PayloadLength)
	copy(f.Raw, payload)
	f.Checksum = checksum
}

// splitFrame 检查长度并拆分载荷与校验和
func splitFrame(name string, b []byte) ([]byte, byte, error) {
	if len(b) < FrameLength {
		return nil, 0, fmt.Errorf("%s: %w: need %d bytes, got %d", name, ErrShortFrame, FrameLength, len(b))
	}
	return b[:PayloadLength], b[PayloadLength], nil
}

// verifyFrame 基于原始载荷校验
func verifyFrame(name string, payload []byte, checksum byte) error {
	if expected := CalculateChecksum(payload); expected != checksum {
		return fmt.Errorf("%s: %w: expected 0x%02X, got 0x%02X", name, ErrChecksumMismatch, expected, checksum)
	}
	return nil
}

func expectConst(name, field string, expected, got byte) error {
	if expected != got {
		return &ConstError{Message: name, Field: field, Expected: expected, Got: got}
	}
	return nil
}

// PanelStatus 状态半字节（高位到低位）：保留、报警上报待发、Winload 已连接、NeWare 已连接
type PanelStatus struct {
	Reserved              bool `json:"reserved"`
	AlarmReportingPending bool `json:"alarm_reporting_pending"`
	WinloadConnected      bool `json:"winload_connected"`
	NeWareConnected       bool `json:"neware_connected"`
}

func parsePanelStatus(n byte) PanelStatus {
	return PanelStatus{
		Reserved:              n&0x08 != 0,
		AlarmReportingPending: n&0x04 != 0,
		WinloadConnected:      n&0x02 != 0,
		NeWareConnected:       n&0x01 != 0,
	}
}

func (s PanelStatus) nibble() byte {
	var n byte
	if s.Reserved {
		n |= 0x08
	}
	if s.AlarmReportingPending {
		n |= 0x04
	}
	if s.WinloadConnected {
		n |= 0x02
	}
	if s.NeWareConnected {
		n |= 0x01
	}
	return n
}

func boolBit(b bool, mask byte) byte {
	if b {
		return mask
	}
	return 0
}
