package paradox

const (
	readMemoryCommand      = 0x50
	readMemoryReplyCommand = 0x5
	ramAccessBit           = 0x80

	// MemoryBlockLength 单次内存读取返回的数据长度
	MemoryBlockLength = 32
)

// ReadEEPROM 内存读请求（EEPROM 或 RAM）
// 载荷：0x50、控制字节（bit7=RAM）、地址(2,BE)、长度、28 字节填充、source_id、user_id{high,low}
type ReadEEPROM struct {
	Frame
	RAM      bool                `json:"ram"`
	Control  uint8               `json:"-"` // 控制字节的其余位，原样保留
	Address  uint16              `json:"address"`
	Length   uint8               `json:"length"`
	SourceID CommunicationSource `json:"source_id"`
	UserID   UserID              `json:"user_id"`
}

// NewReadEEPROM 读取 EEPROM 指定地址
func NewReadEEPROM(address uint16) *ReadEEPROM {
	return &ReadEEPROM{Address: address, Length: MemoryBlockLength, SourceID: SourceWinloadDirect}
}

// NewReadRAM 读取 RAM 状态块
func NewReadRAM(block uint16) *ReadEEPROM {
	m := NewReadEEPROM(block)
	m.RAM = true
	return m
}

func (*ReadEEPROM) Name() string         { return "ReadEEPROM" }
func (*ReadEEPROM) Direction() Direction { return ToPanel }

// Encode 编码
func (m *ReadEEPROM) Encode() ([]byte, error) {
	buf := m.base()
	buf[0] = readMemoryCommand
	buf[1] = m.Control&^ramAccessBit | boolBit(m.RAM, ramAccessBit)
	buf[2], buf[3] = byte(m.Address>>8), byte(m.Address)
	buf[4] = m.Length
	buf[33] = byte(m.SourceID)
	buf[34] = m.UserID.High
	buf[35] = m.UserID.Low
	return m.seal(buf), nil
}

// ParseReadEEPROM 解码并校验
func ParseReadEEPROM(b []byte) (*ReadEEPROM, error) {
	m := &ReadEEPROM{}
	p, sum, err := splitFrame(m.Name(), b)
	if err != nil {
		return nil, err
	}
	if err := expectConst(m.Name(), "command", readMemoryCommand, p[0]); err != nil {
		return nil, err
	}
	m.RAM = p[1]&ramAccessBit != 0
	m.Control = p[1] &^ ramAccessBit
	m.Address = uint16(p[2])<<8 | uint16(p[3])
	m.Length = p[4]
	m.SourceID = CommunicationSource(p[33])
	m.UserID = UserID{High: p[34], Low: p[35]}
	if err := verifyFrame(m.Name(), p, sum); err != nil {
		return nil, err
	}
	m.adopt(p, sum)
	return m, nil
}

// ReadEEPROMResponse 内存读应答
// 载荷：命令半字节 5 + 状态半字节、控制字节（bit7=RAM）、地址(2,BE)、32 字节数据
type ReadEEPROMResponse struct {
	Frame
	Status  PanelStatus `json:"status"`
	RAM     bool        `json:"ram"`
	Control uint8       `json:"-"`
	Address uint16      `json:"address"`
	Data    []byte      `json:"data"`
}

func (*ReadEEPROMResponse) Name() string         { return "ReadEEPROMResponse" }
func (*ReadEEPROMResponse) Direction() Direction { return FromPanel }

// Command 应答命令半字节
func (*ReadEEPROMResponse) Command() byte { return readMemoryReplyCommand }

// Encode 编码；数据不足 32 字节补零，超出截断
func (m *ReadEEPROMResponse) Encode() ([]byte, error) {
	buf := m.base()
	buf[0] = readMemoryReplyCommand<<4 | m.Status.nibble()
	buf[1] = m.Control&^ramAccessBit | boolBit(m.RAM, ramAccessBit)
	buf[2], buf[3] = byte(m.Address>>8), byte(m.Address)
	data := make([]byte, MemoryBlockLength)
	copy(data, m.Data)
	copy(buf[4:36], data)
	return m.seal(buf), nil
}

// ParseReadEEPROMResponse 解码并校验
func ParseReadEEPROMResponse(b []byte) (*ReadEEPROMResponse, error) {
	m := &ReadEEPROMResponse{}
	p, sum, err := splitFrame(m.Name(), b)
	if err != nil {
		return nil, err
	}
	if err := expectConst(m.Name(), "command", readMemoryReplyCommand, p[0]>>4); err != nil {
		return nil, err
	}
	m.Status = parsePanelStatus(p[0] & 0x0F)
	m.RAM = p[1]&ramAccessBit != 0
	m.Control = p[1] &^ ramAccessBit
	m.Address = uint16(p[2])<<8 | uint16(p[3])
	m.Data = make([]byte, MemoryBlockLength)
	copy(m.Data, p[4:36])
	if err := verifyFrame(m.Name(), p, sum); err != nil {
		return nil, err
	}
	m.adopt(p, sum)
	return m, nil
}
