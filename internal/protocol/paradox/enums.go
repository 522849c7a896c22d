package paradox

import "fmt"

// ProductID 面板产品型号
type ProductID byte

const (
	ProductDigiplexV13    ProductID = 0
	ProductDigiplexV2     ProductID = 1
	ProductDigiplexNE     ProductID = 2
	ProductDigiplexEVO48  ProductID = 3
	ProductDigiplexEVO96  ProductID = 4
	ProductDigiplexEVO192 ProductID = 5
	ProductDigiplexEVOHD  ProductID = 7
	ProductSpectraSP5500  ProductID = 21
	ProductSpectraSP6000  ProductID = 22
	ProductSpectraSP7000  ProductID = 23
	ProductSpectraSP4000  ProductID = 26
	ProductSpectraSP65    ProductID = 27
	ProductMagellanMG5000 ProductID = 64
	ProductMagellanMG5050 ProductID = 65
	ProductMagellanMG5075 ProductID = 66
)

var productNames = map[ProductID]string{
	ProductDigiplexV13:    "DIGIPLEX_v13",
	ProductDigiplexV2:     "DIGIPLEX_v2",
	ProductDigiplexNE:     "DIGIPLEX_NE",
	ProductDigiplexEVO48:  "DIGIPLEX_EVO_48",
	ProductDigiplexEVO96:  "DIGIPLEX_EVO_96",
	ProductDigiplexEVO192: "DIGIPLEX_EVO_192",
	ProductDigiplexEVOHD:  "DIGIPLEX_EVO_HD",
	ProductSpectraSP5500:  "SPECTRA_SP5500",
	ProductSpectraSP6000:  "SPECTRA_SP6000",
	ProductSpectraSP7000:  "SPECTRA_SP7000",
	ProductSpectraSP4000:  "SPECTRA_SP4000",
	ProductSpectraSP65:    "SPECTRA_SP65",
	ProductMagellanMG5000: "MAGELLAN_MG5000",
	ProductMagellanMG5050: "MAGELLAN_MG5050",
	ProductMagellanMG5075: "MAGELLAN_MG5075",
}

// String 未知型号保留数值
func (p ProductID) String() string {
	if s, ok := productNames[p]; ok {
		return s
	}
	return fmt.Sprintf("%d", byte(p))
}

// Known 是否为已知型号
func (p ProductID) Known() bool {
	_, ok := productNames[p]
	return ok
}

// Talker 应答方身份
type Talker byte

const (
	TalkerBootLoader            Talker = 0
	TalkerControllerApplication Talker = 1
	TalkerModuleApplication     Talker = 2
)

func (t Talker) String() string {
	switch t {
	case TalkerBootLoader:
		return "BOOT_LOADER"
	case TalkerControllerApplication:
		return "CONTROLLER_APPLICATION"
	case TalkerModuleApplication:
		return "MODULE_APPLICATION"
	default:
		return fmt.Sprintf("%d", byte(t))
	}
}

// CommunicationSource 通信来源标识
type CommunicationSource byte

const (
	SourceNonValid      CommunicationSource = 0
	SourceWinloadDirect CommunicationSource = 1
	SourceWinloadIP     CommunicationSource = 2
	SourceWinloadGSM    CommunicationSource = 3
	SourceWinloadDialer CommunicationSource = 4
	SourceNeWareDirect  CommunicationSource = 5
	SourceNeWareIP      CommunicationSource = 6
	SourceNeWareGSM     CommunicationSource = 7
	SourceNeWareDialer  CommunicationSource = 8
	SourceIPDirect      CommunicationSource = 9
	SourceVDMP3Direct   CommunicationSource = 10
	SourceVDMP3GSM      CommunicationSource = 11
)

var sourceNames = map[CommunicationSource]string{
	SourceNonValid:      "NonValid_Source",
	SourceWinloadDirect: "Winload_Direct",
	SourceWinloadIP:     "Winload_IP",
	SourceWinloadGSM:    "Winload_GSM",
	SourceWinloadDialer: "Winload_Dialer",
	SourceNeWareDirect:  "NeWare_Direct",
	SourceNeWareIP:      "NeWare_IP",
	SourceNeWareGSM:     "NeWare_GSM",
	SourceNeWareDialer:  "NeWare_Dialer",
	SourceIPDirect:      "IP_Direct",
	SourceVDMP3Direct:   "VDMP3_Direct",
	SourceVDMP3GSM:      "VDMP3_GSM",
}

func (s CommunicationSource) String() string {
	if n, ok := sourceNames[s]; ok {
		return n
	}
	return fmt.Sprintf("%d", byte(s))
}

// BCD 两位 BCD 显示值：0x12 显示为 12；保留原始字节保证往返无损
type BCD byte

// NewBCD 由十进制值 (0-99) 构造
func NewBCD(v int) BCD {
	if v < 0 {
		v = 0
	}
	v %= 100
	return BCD(byte(v/10)<<4 | byte(v%10))
}

// Int 显示值
func (b BCD) Int() int {
	return int(b>>4)*10 + int(b&0x0F)
}

func (b BCD) String() string {
	return fmt.Sprintf("%x", byte(b))
}
