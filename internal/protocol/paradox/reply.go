package paradox

// Predicate 判断收到的消息是否为期望的应答
type Predicate func(Message) bool

// MemoryReply 命令为内存读应答且地址匹配
func MemoryReply(address uint16) Predicate {
	return func(m Message) bool {
		r, ok := m.(*ReadEEPROMResponse)
		return ok && r.Command() == readMemoryReplyCommand && r.Address == address
	}
}

// RAMReply 在 MemoryReply 基础上要求 RAM 标志
func RAMReply(block uint16) Predicate {
	match := MemoryReply(block)
	return func(m Message) bool {
		if !match(m) {
			return false
		}
		return m.(*ReadEEPROMResponse).RAM
	}
}

// IsMessage 按名称匹配应答
func IsMessage(name string) Predicate {
	return func(m Message) bool {
		return m != nil && m.Name() == name
	}
}
