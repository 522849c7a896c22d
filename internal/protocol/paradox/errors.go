package paradox

import (
	"errors"
	"fmt"
)

var (
	// ErrShortFrame 帧长度不足
	ErrShortFrame = errors.New("short frame")
	// ErrParserNotFound 消息注册表中找不到对应解析器
	ErrParserNotFound = errors.New("parser not found")
	// ErrInvalidPassword 密码不满足编码前置条件
	ErrInvalidPassword = errors.New("invalid password")
)

// ConstError 判别字段（命令字/常量）不匹配：不是该类型的帧
type ConstError struct {
	Message  string
	Field    string
	Expected byte
	Got      byte
}

func (e *ConstError) Error() string {
	return fmt.Sprintf("%s: %s expected 0x%02X, got 0x%02X", e.Message, e.Field, e.Expected, e.Got)
}

// IsConstError 判断是否为判别字段不匹配
func IsConstError(err error) bool {
	var ce *ConstError
	return errors.As(err, &ce)
}

// PasswordError 密码编码失败
type PasswordError struct {
	Reason string
}

func (e *PasswordError) Error() string {
	return "invalid password: " + e.Reason
}

// Is 使 errors.Is(err, ErrInvalidPassword) 成立
func (e *PasswordError) Is(target error) bool {
	return target == ErrInvalidPassword
}
