package paradox

import "errors"

var (
	// ErrChecksumMismatch 校验和错误：帧类型正确但内容已损坏
	ErrChecksumMismatch = errors.New("checksum mismatch")
)

// CalculateChecksum 计算帧校验和
// 算法：对载荷所有字节累加，取模256（byte溢出自动丢弃高位）
// 编码与解码必须共用此函数
func CalculateChecksum(data []byte) byte {
	var checksum byte
	for _, b := range data {
		checksum += b
	}
	return checksum
}

// VerifyChecksum 验证校验和
// frame: 载荷 + 1字节校验和；校验只基于收到的原始载荷字节
func VerifyChecksum(frame []byte) error {
	if len(frame) < 1 {
		return ErrShortFrame
	}
	pos := len(frame) - 1
	if frame[pos] != CalculateChecksum(frame[:pos]) {
		return ErrChecksumMismatch
	}
	return nil
}

// appendChecksum 为载荷追加校验和，返回新切片
func appendChecksum(payload []byte) []byte {
	out := make([]byte, len(payload)+1)
	copy(out, payload)
	out[len(payload)] = CalculateChecksum(payload)
	return out
}
