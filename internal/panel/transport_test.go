package panel

import (
	"context"
	"errors"
	"sync"

	"github.com/lsta/pai/internal/protocol/paradox"
)

var errStubTimeout = errors.New("stub: reply timeout")

// stubTransport 按地址返回预置的内存数据，未预置的地址视为超时
type stubTransport struct {
	mu       sync.Mutex
	data     map[uint16][]byte
	nilReply bool
	requests []*paradox.ReadEEPROM
}

func newStubTransport(data map[uint16][]byte) *stubTransport {
	return &stubTransport{data: data}
}

func (s *stubTransport) SendWait(_ context.Context, msg paradox.Message, expected paradox.Predicate) (paradox.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	req, ok := msg.(*paradox.ReadEEPROM)
	if !ok {
		return nil, errStubTimeout
	}
	s.requests = append(s.requests, req)

	data, ok := s.data[req.Address]
	if !ok {
		if s.nilReply {
			return nil, nil
		}
		return nil, errStubTimeout
	}
	resp := &paradox.ReadEEPROMResponse{Address: req.Address, RAM: req.RAM, Data: block(data)}
	if !expected(resp) {
		return nil, errStubTimeout
	}
	return resp, nil
}

func (s *stubTransport) requested() []uint16 {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]uint16, 0, len(s.requests))
	for _, r := range s.requests {
		out = append(out, r.Address)
	}
	return out
}

// block 补齐为一个内存块
func block(b []byte) []byte {
	out := make([]byte, paradox.MemoryBlockLength)
	copy(out, b)
	return out
}

// cancelAware 只返回上下文错误
type cancelAware struct{}

func (cancelAware) SendWait(ctx context.Context, _ paradox.Message, _ paradox.Predicate) (paradox.Message, error) {
	return nil, ctx.Err()
}
