package panel

import (
	"strings"
	"unicode"
)

// SanitizeKey 将标签转为可用作标识符/主题名的键
// 非字母、数字、下划线的字符替换为 '_'，并去掉首尾的 '_'
func SanitizeKey(label string) string {
	mapped := strings.Map(func(r rune) rune {
		if r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) {
			return r
		}
		return '_'
	}, label)
	return strings.Trim(mapped, "_")
}
