package connection

import "github.com/lsta/pai/internal/protocol/paradox"

// maxBuffered 超过后丢弃最旧的数据
const maxBuffered = 64 * paradox.FrameLength

// Splitter 将字节流切为定长帧：校验和不符时丢弃首字节重新同步
type Splitter struct {
	buf []byte
}

// Feed 追加数据，返回完整帧与重新同步时丢弃的字节数
func (s *Splitter) Feed(p []byte) (frames [][]byte, skipped int) {
	s.buf = append(s.buf, p...)
	if over := len(s.buf) - maxBuffered; over > 0 {
		s.buf = s.buf[over:]
		skipped += over
	}

	for len(s.buf) >= paradox.FrameLength {
		candidate := s.buf[:paradox.FrameLength]
		if paradox.VerifyChecksum(candidate) != nil {
			s.buf = s.buf[1:]
			skipped++
			continue
		}
		frame := make([]byte, paradox.FrameLength)
		copy(frame, candidate)
		frames = append(frames, frame)
		s.buf = s.buf[paradox.FrameLength:]
	}
	return frames, skipped
}

// Buffered 尚未成帧的字节数
func (s *Splitter) Buffered() int { return len(s.buf) }

// Reset 清空缓冲
func (s *Splitter) Reset() { s.buf = s.buf[:0] }
