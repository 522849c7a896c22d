package paradox

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorMessage(t *testing.T) {
	assert.Equal(t, "User Code is invalid", ErrorMessage(0x01))
	assert.Equal(t, "Requested command did not work", ErrorMessage(0x00))
	assert.Equal(t, "Invalid label number", ErrorMessage(0x1C))
	assert.Equal(t, "Panel Already Connected", ErrCodeAlreadyConnected.String())

	// 未知错误码原样返回字符串形式
	assert.Equal(t, "153", ErrorMessage(0x99))
	assert.Equal(t, "24", ErrorMessage(0x18))
	assert.Equal(t, "-1", ErrorMessage(-1))
	assert.Equal(t, "300", ErrorMessage(300))
}
