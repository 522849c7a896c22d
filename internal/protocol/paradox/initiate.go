package paradox

// InitiateCommunication 首帧：主机请求面板自报身份
// 载荷：0x72（命令半字节 7 + 保留半字节 2）+ 35 字节填充
type InitiateCommunication struct {
	Frame
}

const (
	initiateCommand  = 0x7
	initiateReserved = 0x2
	newProtocolMark  = 0xFF
)

func (*InitiateCommunication) Name() string         { return "InitiateCommunication" }
func (*InitiateCommunication) Direction() Direction { return ToPanel }

// Encode 编码
func (m *InitiateCommunication) Encode() ([]byte, error) {
	buf := m.base()
	buf[0] = initiateCommand<<4 | initiateReserved
	return m.seal(buf), nil
}

// ParseInitiateCommunication 解码并校验
func ParseInitiateCommunication(b []byte) (*InitiateCommunication, error) {
	m := &InitiateCommunication{}
	payload, sum, err := splitFrame(m.Name(), b)
	if err != nil {
		return nil, err
	}
	if err := expectConst(m.Name(), "command", initiateCommand, payload[0]>>4); err != nil {
		return nil, err
	}
	if err := expectConst(m.Name(), "reserved0", initiateReserved, payload[0]&0x0F); err != nil {
		return nil, err
	}
	if err := verifyFrame(m.Name(), payload, sum); err != nil {
		return nil, err
	}
	m.adopt(payload, sum)
	return m, nil
}

// Version 三段版本号
type Version struct {
	Version  uint8 `json:"version"`
	Revision uint8 `json:"revision"`
	Build    uint8 `json:"build"`
}

// BCDVersion BCD 显示的三段版本号
type BCDVersion struct {
	Version  BCD `json:"version"`
	Revision BCD `json:"revision"`
	Build    BCD `json:"build"`
}

// HardwareVersion 硬件版本
type HardwareVersion struct {
	Version  uint8 `json:"version"`
	Revision uint8 `json:"revision"`
}

// BootloaderInfo 引导程序版本与日期
type BootloaderInfo struct {
	Version  uint8 `json:"version"`
	Revision uint8 `json:"revision"`
	Build    uint8 `json:"build"`
	Day      uint8 `json:"day"`
	Month    uint8 `json:"month"`
	Year     uint8 `json:"year"`
}

// InitiateCommunicationResponse 面板身份应答
type InitiateCommunicationResponse struct {
	Frame
	MessageCenter uint8           `json:"message_center"`
	ProtocolID    uint8           `json:"protocol_id"`
	Protocol      Version         `json:"protocol"`
	FamilyID      uint8           `json:"family_id"`
	ProductID     ProductID       `json:"product_id"`
	Talker        Talker          `json:"talker"`
	Application   BCDVersion      `json:"application"`
	SerialNumber  [4]byte         `json:"serial_number"`
	Hardware      HardwareVersion `json:"hardware"`
	Bootloader    BootloaderInfo  `json:"bootloader"`
	ProcessorID   uint8           `json:"processor_id"`
	EncryptionID  uint8           `json:"encryption_id"`
	Reserved0     [2]byte         `json:"reserved0"`
	Label         [8]byte         `json:"label"`
}

func (*InitiateCommunicationResponse) Name() string         { return "InitiateCommunicationResponse" }
func (*InitiateCommunicationResponse) Direction() Direction { return FromPanel }

// SerialHex 序列号十六进制表示
func (m *InitiateCommunicationResponse) SerialHex() string {
	const digits = "0123456789abcdef"
	out := make([]byte, 0, 8)
	for _, b := range m.SerialNumber {
		out = append(out, digits[b>>4], digits[b&0x0F])
	}
	return string(out)
}

// Encode 编码
func (m *InitiateCommunicationResponse) Encode() ([]byte, error) {
	buf := m.base()
	buf[0] = initiateCommand<<4 | m.MessageCenter&0x0F
	buf[1] = newProtocolMark
	buf[2] = m.ProtocolID
	buf[3], buf[4], buf[5] = m.Protocol.Version, m.Protocol.Revision, m.Protocol.Build
	buf[6] = m.FamilyID
	buf[7] = byte(m.ProductID)
	buf[8] = byte(m.Talker)
	buf[9], buf[10], buf[11] = byte(m.Application.Version), byte(m.Application.Revision), byte(m.Application.Build)
	copy(buf[12:16], m.SerialNumber[:])
	buf[16], buf[17] = m.Hardware.Version, m.Hardware.Revision
	bl := m.Bootloader
	buf[18], buf[19], buf[20], buf[21], buf[22], buf[23] = bl.Version, bl.Revision, bl.Build, bl.Day, bl.Month, bl.Year
	buf[24] = m.ProcessorID
	buf[25] = m.EncryptionID
	copy(buf[26:28], m.Reserved0[:])
	copy(buf[28:36], m.Label[:])
	return m.seal(buf), nil
}

// ParseInitiateCommunicationResponse 解码并校验
func ParseInitiateCommunicationResponse(b []byte) (*InitiateCommunicationResponse, error) {
	m := &InitiateCommunicationResponse{}
	p, sum, err := splitFrame(m.Name(), b)
	if err != nil {
		return nil, err
	}
	if err := expectConst(m.Name(), "command", initiateCommand, p[0]>>4); err != nil {
		return nil, err
	}
	if err := expectConst(m.Name(), "new_protocol", newProtocolMark, p[1]); err != nil {
		return nil, err
	}
	m.MessageCenter = p[0] & 0x0F
	m.ProtocolID = p[2]
	m.Protocol = Version{Version: p[3], Revision: p[4], Build: p[5]}
	m.FamilyID = p[6]
	m.ProductID = ProductID(p[7])
	m.Talker = Talker(p[8])
	m.Application = BCDVersion{Version: BCD(p[9]), Revision: BCD(p[10]), Build: BCD(p[11])}
	copy(m.SerialNumber[:], p[12:16])
	m.Hardware = HardwareVersion{Version: p[16], Revision: p[17]}
	m.Bootloader = BootloaderInfo{Version: p[18], Revision: p[19], Build: p[20], Day: p[21], Month: p[22], Year: p[23]}
	m.ProcessorID = p[24]
	m.EncryptionID = p[25]
	copy(m.Reserved0[:], p[26:28])
	copy(m.Label[:], p[28:36])
	if err := verifyFrame(m.Name(), p, sum); err != nil {
		return nil, err
	}
	m.adopt(p, sum)
	return m, nil
}
