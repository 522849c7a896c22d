// Package capture 录制与回放串口/TCP 原始字节流（gob 编码，带时间戳与方向）
package capture

import (
	"encoding/gob"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/lsta/pai/internal/protocol/paradox"
)

// Record 一次读或写的原始数据
type Record struct {
	Data      []byte
	Direction paradox.Direction
	Timestamp time.Time
}

// Recorder 将记录顺序写入 Dest；并发安全
type Recorder struct {
	Dest io.Writer

	mu   sync.Mutex
	enc  *gob.Encoder
	once sync.Once
}

// Receive 写入一条记录
func (r *Recorder) Receive(rec Record) error {
	r.once.Do(func() {
		r.enc = gob.NewEncoder(r.Dest)
	})
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.enc.Encode(rec)
}

// Observe 以当前时间记录一段数据；数据会被复制
func (r *Recorder) Observe(dir paradox.Direction, data []byte) error {
	if r == nil {
		return nil
	}
	dup := make([]byte, len(data))
	copy(dup, data)
	return r.Receive(Record{Data: dup, Direction: dir, Timestamp: time.Now()})
}

// ReadIn 读出所有记录到 out，结束时关闭 out
func ReadIn(out chan<- Record, r io.Reader) error {
	defer close(out)

	dec := gob.NewDecoder(r)
	for {
		var rec Record
		if err := dec.Decode(&rec); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("while decoding: %w", err)
		}
		out <- rec
	}
}
