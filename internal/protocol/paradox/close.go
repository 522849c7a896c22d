package paradox

const closeCommand = 0x70

// CloseConnection 关闭连接
// 长度字节在编码时重算（载荷 + 校验和 = 37），解码时只记录不信任
type CloseConnection struct {
	Frame
	Length uint8 `json:"length"`
}

func (*CloseConnection) Name() string         { return "CloseConnection" }
func (*CloseConnection) Direction() Direction { return ToPanel }

// Encode 编码
func (m *CloseConnection) Encode() ([]byte, error) {
	buf := m.base()
	buf[0] = closeCommand
	m.Length = FrameLength
	buf[1] = m.Length
	return m.seal(buf), nil
}

// ParseCloseConnection 解码并校验
func ParseCloseConnection(b []byte) (*CloseConnection, error) {
	m := &CloseConnection{}
	p, sum, err := splitFrame(m.Name(), b)
	if err != nil {
		return nil, err
	}
	if err := expectConst(m.Name(), "command", closeCommand, p[0]); err != nil {
		return nil, err
	}
	m.Length = p[1]
	if err := verifyFrame(m.Name(), p, sum); err != nil {
		return nil, err
	}
	m.adopt(p, sum)
	return m, nil
}
