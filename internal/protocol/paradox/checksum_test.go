package paradox

import (
	"errors"
	"testing"
)

func TestCalculateChecksum(t *testing.T) {
	tests := []struct {
		name     string
		data     []byte
		expected byte
	}{
		{name: "空数据", data: []byte{}, expected: 0x00},
		{name: "单字节", data: []byte{0x72}, expected: 0x72},
		{name: "溢出取模", data: []byte{0xAA, 0xAA}, expected: 0x54},
		{name: "开始通信头", data: []byte{0x5F, 0x20, 0x01}, expected: 0x80},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CalculateChecksum(tt.data); got != tt.expected {
				t.Errorf("CalculateChecksum() = 0x%02X, expected 0x%02X", got, tt.expected)
			}
		})
	}
}

func TestVerifyChecksum(t *testing.T) {
	tests := []struct {
		name    string
		data    []byte
		wantErr error
	}{
		{name: "空数据", data: []byte{}, wantErr: ErrShortFrame},
		{name: "正确的校验和", data: []byte{0x70, 0x25, 0x95}, wantErr: nil},
		{name: "错误的校验和", data: []byte{0x70, 0x25, 0x96}, wantErr: ErrChecksumMismatch},
		{name: "仅校验和", data: []byte{0x00}, wantErr: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := VerifyChecksum(tt.data)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("VerifyChecksum() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

// 任意单比特翻转都必须被校验发现
func TestChecksumDetectsSingleBitFlip(t *testing.T) {
	msg := &StartCommunicationResponse{ProductID: ProductDigiplexEVO192, PanelID: 0x1234}
	frame, err := msg.Encode()
	if err != nil {
		t.Fatal(err)
	}

	for i := 0; i < PayloadLength; i++ {
		for bit := 0; bit < 8; bit++ {
			corrupted := append([]byte(nil), frame...)
			corrupted[i] ^= 1 << bit
			if VerifyChecksum(corrupted) == nil {
				t.Fatalf("flip byte %d bit %d not detected", i, bit)
			}
		}
	}
}
