package paradox

import (
	"fmt"
	"strconv"
)

const passwordDigits = 4

// noPassword 无密码哨兵对应的编码
var noPassword = []byte{0x00, 0x00}

// EncodePassword 将 4 位十进制密码打包为 2 字节
// 从最低位数字开始处理，数字 0 以半字节 0x0A 表示（0x00 保留给"无密码"）；
// 每对数字中先处理的放低半字节、后处理的放高半字节，字节下标随之递减。
// 空串与 "0000" 表示无密码，编码为 00 00。
func EncodePassword(password string) ([]byte, error) {
	if password == "" || password == "0000" {
		return append([]byte(nil), noPassword...), nil
	}
	if len(password) != passwordDigits {
		return nil, &PasswordError{Reason: fmt.Sprintf("length must be equal to %d, got %d", passwordDigits, len(password))}
	}
	for _, r := range password {
		if r < '0' || r > '9' {
			return nil, &PasswordError{Reason: fmt.Sprintf("not supported password %q", password)}
		}
	}

	n, err := strconv.Atoi(password)
	if err != nil {
		return nil, &PasswordError{Reason: err.Error()}
	}

	res := make([]byte, 2)
	i := passwordDigits
	idx := i/2 - 1
	for i > 0 {
		d := byte(n % 10)
		if d == 0 {
			d = 0x0A
		}
		n /= 10

		if i%2 == 0 {
			res[idx] = d
		} else {
			res[idx] |= d << 4
			idx--
		}
		i--
	}
	return res, nil
}

// EncodePasswordInt 整数密码先补零到 4 位再编码；0 表示无密码
func EncodePasswordInt(password int) ([]byte, error) {
	if password == 0 {
		return append([]byte(nil), noPassword...), nil
	}
	s := strconv.Itoa(password)
	if password > 0 && len(s) < passwordDigits {
		s = fmt.Sprintf("%0*d", passwordDigits, password)
	}
	return EncodePassword(s)
}

// EncodePasswordBytes 字节形式密码；nil 表示无密码
func EncodePasswordBytes(password []byte) ([]byte, error) {
	if password == nil {
		return append([]byte(nil), noPassword...), nil
	}
	return EncodePassword(string(password))
}
