package paradox

import (
	"fmt"
	"sort"
)

// Spec 消息编解码描述，替代按名称反射查找
type Spec struct {
	Name      string
	Direction Direction
	// New 返回带默认值的新消息
	New func() Message
	// Parse 解码并校验
	Parse func([]byte) (Message, error)
}

func wrap[T Message](fn func([]byte) (T, error)) func([]byte) (Message, error) {
	return func(b []byte) (Message, error) {
		m, err := fn(b)
		if err != nil {
			return nil, err
		}
		return m, nil
	}
}

var registry = map[string]Spec{
	"InitiateCommunication": {
		Name: "InitiateCommunication", Direction: ToPanel,
		New:   func() Message { return &InitiateCommunication{} },
		Parse: wrap(ParseInitiateCommunication),
	},
	"InitiateCommunicationResponse": {
		Name: "InitiateCommunicationResponse", Direction: FromPanel,
		New:   func() Message { return &InitiateCommunicationResponse{} },
		Parse: wrap(ParseInitiateCommunicationResponse),
	},
	"StartCommunication": {
		Name: "StartCommunication", Direction: ToPanel,
		New:   func() Message { return NewStartCommunication() },
		Parse: wrap(ParseStartCommunication),
	},
	"StartCommunicationResponse": {
		Name: "StartCommunicationResponse", Direction: FromPanel,
		New:   func() Message { return &StartCommunicationResponse{} },
		Parse: wrap(ParseStartCommunicationResponse),
	},
	"CloseConnection": {
		Name: "CloseConnection", Direction: ToPanel,
		New:   func() Message { return &CloseConnection{} },
		Parse: wrap(ParseCloseConnection),
	},
	"ReadEEPROM": {
		Name: "ReadEEPROM", Direction: ToPanel,
		New:   func() Message { return NewReadEEPROM(0) },
		Parse: wrap(ParseReadEEPROM),
	},
	"ReadEEPROMResponse": {
		Name: "ReadEEPROMResponse", Direction: FromPanel,
		New:   func() Message { return &ReadEEPROMResponse{Data: make([]byte, MemoryBlockLength)} },
		Parse: wrap(ParseReadEEPROMResponse),
	},
}

// Lookup 按名称查找消息描述
func Lookup(name string) (Spec, error) {
	s, ok := registry[name]
	if !ok {
		return Spec{}, fmt.Errorf("%s: %w", name, ErrParserNotFound)
	}
	return s, nil
}

// Names 已注册消息名（排序）
func Names() []string {
	out := make([]string, 0, len(registry))
	for k := range registry {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
