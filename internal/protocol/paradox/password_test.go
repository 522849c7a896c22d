package paradox

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodePassword_NoPassword(t *testing.T) {
	cases := []struct {
		name string
		fn   func() ([]byte, error)
	}{
		{"空串", func() ([]byte, error) { return EncodePassword("") }},
		{"字符串0000", func() ([]byte, error) { return EncodePassword("0000") }},
		{"字节0000", func() ([]byte, error) { return EncodePasswordBytes([]byte("0000")) }},
		{"nil字节", func() ([]byte, error) { return EncodePasswordBytes(nil) }},
		{"整数0", func() ([]byte, error) { return EncodePasswordInt(0) }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := tc.fn()
			require.NoError(t, err)
			assert.Equal(t, []byte{0x00, 0x00}, got)
		})
	}
}

func TestEncodePassword_Digits(t *testing.T) {
	tests := []struct {
		password string
		expected []byte
	}{
		{"1234", []byte{0x12, 0x34}},
		{"1023", []byte{0x1A, 0x23}},
		{"9999", []byte{0x99, 0x99}},
		{"1000", []byte{0x1A, 0xAA}},
		{"0001", []byte{0xAA, 0xA1}},
		{"5050", []byte{0x5A, 0x5A}},
	}

	for _, tt := range tests {
		t.Run(tt.password, func(t *testing.T) {
			got, err := EncodePassword(tt.password)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

// 数字 0 永远编码为 0xA，不会出现 0 半字节
func TestEncodePassword_ZeroNeverZeroNibble(t *testing.T) {
	for _, p := range []string{"1023", "1000", "0101", "0010", "9090"} {
		got, err := EncodePassword(p)
		require.NoError(t, err, p)
		for _, b := range got {
			assert.NotZero(t, b>>4, "%s high nibble", p)
			assert.NotZero(t, b&0x0F, "%s low nibble", p)
		}
	}
}

func TestEncodePasswordInt_ZeroPadded(t *testing.T) {
	got, err := EncodePasswordInt(12)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xAA, 0x12}, got)

	got, err = EncodePasswordInt(1234)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x12, 0x34}, got)
}

func TestEncodePassword_Invalid(t *testing.T) {
	tests := []struct {
		name string
		fn   func() ([]byte, error)
	}{
		{"含字母", func() ([]byte, error) { return EncodePassword("12a4") }},
		{"长度不足", func() ([]byte, error) { return EncodePassword("123") }},
		{"长度超出", func() ([]byte, error) { return EncodePassword("12345") }},
		{"整数超过4位", func() ([]byte, error) { return EncodePasswordInt(12345) }},
		{"负数", func() ([]byte, error) { return EncodePasswordInt(-12) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.fn()
			assert.Nil(t, got)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidPassword))
			var pe *PasswordError
			assert.True(t, errors.As(err, &pe))
		})
	}
}
