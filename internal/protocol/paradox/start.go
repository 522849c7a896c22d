package paradox

const (
	startCommand    = 0x5F
	startValidation = 0x20
)

// UserID 用户编号（高/低字节）
type UserID struct {
	High uint8 `json:"high"`
	Low  uint8 `json:"low"`
}

// StartCommunication 开始通信请求
// 载荷：0x5F、校验常量 0x20、31 字节填充、source_id、user_id{high,low}
type StartCommunication struct {
	Frame
	SourceID CommunicationSource `json:"source_id"`
	UserID   UserID              `json:"user_id"`
}

// NewStartCommunication 带默认值构造（source_id=1，user_id=0,0）
func NewStartCommunication() *StartCommunication {
	return &StartCommunication{SourceID: SourceWinloadDirect}
}

func (*StartCommunication) Name() string         { return "StartCommunication" }
func (*StartCommunication) Direction() Direction { return ToPanel }

// Encode 编码
func (m *StartCommunication) Encode() ([]byte, error) {
	buf := m.base()
	buf[0] = startCommand
	buf[1] = startValidation
	buf[33] = byte(m.SourceID)
	buf[34] = m.UserID.High
	buf[35] = m.UserID.Low
	return m.seal(buf), nil
}

// ParseStartCommunication 解码并校验
func ParseStartCommunication(b []byte) (*StartCommunication, error) {
	m := &StartCommunication{}
	p, sum, err := splitFrame(m.Name(), b)
	if err != nil {
		return nil, err
	}
	if err := expectConst(m.Name(), "command", startCommand, p[0]); err != nil {
		return nil, err
	}
	if err := expectConst(m.Name(), "validation", startValidation, p[1]); err != nil {
		return nil, err
	}
	m.SourceID = CommunicationSource(p[33])
	m.UserID = UserID{High: p[34], Low: p[35]}
	if err := verifyFrame(m.Name(), p, sum); err != nil {
		return nil, err
	}
	m.adopt(p, sum)
	return m, nil
}

// TransceiverStatus 收发器状态位：高 6 位未用，bit1 底噪偏高，bit0 持续载波
type TransceiverStatus struct {
	NotUsed         uint8 `json:"-"`
	NoiseFloorHigh  bool  `json:"noise_floor_high"`
	ConstantCarrier bool  `json:"constant_carrier"`
}

func (s TransceiverStatus) encode() byte {
	return s.NotUsed<<2 | boolBit(s.NoiseFloorHigh, 0x02) | boolBit(s.ConstantCarrier, 0x01)
}

// Transceiver 无线收发器信息
type Transceiver struct {
	FirmwareBuild    uint8             `json:"firmware_build"`
	Family           uint8             `json:"family"`
	FirmwareVersion  uint8             `json:"firmware_version"`
	FirmwareRevision uint8             `json:"firmware_revision"`
	NoiseFloorLevel  uint8             `json:"noise_floor_level"`
	Status           TransceiverStatus `json:"status"`
	HardwareRevision uint8             `json:"hardware_revision"`
}

// StartCommunicationResponse 开始通信应答
type StartCommunicationResponse struct {
	Frame
	Status      PanelStatus `json:"status"`
	NotUsed0    [3]byte     `json:"-"`
	ProductID   ProductID   `json:"product_id"`
	Firmware    Version     `json:"firmware"`
	PanelID     uint16      `json:"panel_id"`
	NotUsed1    [5]byte     `json:"-"`
	Transceiver Transceiver `json:"transceiver"`
	NotUsed2    [14]byte    `json:"-"`
}

func (*StartCommunicationResponse) Name() string         { return "StartCommunicationResponse" }
func (*StartCommunicationResponse) Direction() Direction { return FromPanel }

// Encode 编码
func (m *StartCommunicationResponse) Encode() ([]byte, error) {
	buf := m.base()
	buf[0] = m.Status.nibble()
	copy(buf[1:4], m.NotUsed0[:])
	buf[4] = byte(m.ProductID)
	buf[5], buf[6], buf[7] = m.Firmware.Version, m.Firmware.Revision, m.Firmware.Build
	buf[8], buf[9] = byte(m.PanelID>>8), byte(m.PanelID)
	copy(buf[10:15], m.NotUsed1[:])
	t := m.Transceiver
	buf[15], buf[16], buf[17], buf[18], buf[19] = t.FirmwareBuild, t.Family, t.FirmwareVersion, t.FirmwareRevision, t.NoiseFloorLevel
	buf[20] = t.Status.encode()
	buf[21] = t.HardwareRevision
	copy(buf[22:36], m.NotUsed2[:])
	return m.seal(buf), nil
}

// ParseStartCommunicationResponse 解码并校验
func ParseStartCommunicationResponse(b []byte) (*StartCommunicationResponse, error) {
	m := &StartCommunicationResponse{}
	p, sum, err := splitFrame(m.Name(), b)
	if err != nil {
		return nil, err
	}
	if err := expectConst(m.Name(), "command", 0x0, p[0]>>4); err != nil {
		return nil, err
	}
	m.Status = parsePanelStatus(p[0] & 0x0F)
	copy(m.NotUsed0[:], p[1:4])
	m.ProductID = ProductID(p[4])
	m.Firmware = Version{Version: p[5], Revision: p[6], Build: p[7]}
	m.PanelID = uint16(p[8])<<8 | uint16(p[9])
	copy(m.NotUsed1[:], p[10:15])
	m.Transceiver = Transceiver{
		FirmwareBuild:    p[15],
		Family:           p[16],
		FirmwareVersion:  p[17],
		FirmwareRevision: p[18],
		NoiseFloorLevel:  p[19],
		Status: TransceiverStatus{
			NotUsed:         p[20] >> 2,
			NoiseFloorHigh:  p[20]&0x02 != 0,
			ConstantCarrier: p[20]&0x01 != 0,
		},
		HardwareRevision: p[21],
	}
	copy(m.NotUsed2[:], p[22:36])
	if err := verifyFrame(m.Name(), p, sum); err != nil {
		return nil, err
	}
	m.adopt(p, sum)
	return m, nil
}
