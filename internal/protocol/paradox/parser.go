package paradox

// ParseMessage 按方向与首字节对握手帧分类并解码
// 返回 (nil, nil) 表示无法分类（探测期间的正常结果）；
// 分类成功但解码失败时返回 (nil, err)，可用 errors.Is(err, ErrChecksumMismatch) 区分损坏帧
func ParseMessage(b []byte, dir Direction) (Message, error) {
	if len(b) == 0 {
		return nil, nil
	}

	switch dir {
	case ToPanel:
		if len(b) > 1 && b[0] == 0x72 && b[1] == 0x00 {
			return wrap(ParseInitiateCommunication)(b)
		} else if b[0] == startCommand {
			return wrap(ParseStartCommunication)(b)
		}
	case FromPanel:
		if len(b) > 1 && b[0] == 0x72 && b[1] == 0xFF {
			return wrap(ParseInitiateCommunicationResponse)(b)
		} else if len(b) > 4 && b[0] == 0x00 && b[4] > 0 {
			return wrap(ParseStartCommunicationResponse)(b)
		}
	}
	return nil, nil
}
