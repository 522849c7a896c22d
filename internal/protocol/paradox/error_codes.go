package paradox

import "strconv"

// ErrorCode 面板上报的错误码（EVO 定义，其他型号可能不完全适用）
type ErrorCode byte

const (
	ErrCodeCommandFailed        ErrorCode = 0x00
	ErrCodeInvalidUserCode      ErrorCode = 0x01
	ErrCodePartitionLockout     ErrorCode = 0x02
	ErrCodeWillDisconnect       ErrorCode = 0x05
	ErrCodeNotConnected         ErrorCode = 0x10
	ErrCodeAlreadyConnected     ErrorCode = 0x11
	ErrCodeInvalidPCPassword    ErrorCode = 0x12
	ErrCodeWinloadOnPhoneLine   ErrorCode = 0x13
	ErrCodeInvalidModuleAddress ErrorCode = 0x14
	ErrCodeCannotWriteRAM       ErrorCode = 0x15
	ErrCodeUpgradeFailed        ErrorCode = 0x16
	ErrCodeRecordOutOfRange     ErrorCode = 0x17
	ErrCodeInvalidRecordType    ErrorCode = 0x19
	ErrCodeMultiBusUnsupported  ErrorCode = 0x1A
	ErrCodeIncorrectUserCount   ErrorCode = 0x1B
	ErrCodeInvalidLabelNumber   ErrorCode = 0x1C
)

var errorMessages = map[ErrorCode]string{
	ErrCodeCommandFailed:        "Requested command did not work",
	ErrCodeInvalidUserCode:      "User Code is invalid",
	ErrCodePartitionLockout:     "Partition in code lockout (too many bad entries)",
	ErrCodeWillDisconnect:       "Panel will disconnect",
	ErrCodeNotConnected:         "Panel Not connected",
	ErrCodeAlreadyConnected:     "Panel Already Connected",
	ErrCodeInvalidPCPassword:    "Invalid PC Password",
	ErrCodeWinloadOnPhoneLine:   "Winload on phone line",
	ErrCodeInvalidModuleAddress: "Invalid Module address",
	ErrCodeCannotWriteRAM:       "Cannot write in RAM",
	ErrCodeUpgradeFailed:        "Request to Upgrade Failed",
	ErrCodeRecordOutOfRange:     "Record number out of range",
	ErrCodeInvalidRecordType:    "Invalid record type",
	ErrCodeMultiBusUnsupported:  "Multi-Bus not supported",
	ErrCodeIncorrectUserCount:   "Incorrect number of users",
	ErrCodeInvalidLabelNumber:   "Invalid label number",
}

func (c ErrorCode) String() string {
	return ErrorMessage(int(c))
}

// ErrorMessage 错误码转文本；未知错误码返回其十进制字符串
func ErrorMessage(code int) string {
	if code >= 0 && code <= 0xFF {
		if msg, ok := errorMessages[ErrorCode(code)]; ok {
			return msg
		}
	}
	return strconv.Itoa(code)
}
