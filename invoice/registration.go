package invoice

import (
	"fmt"
	"strings"
)

const registrationNumberLength = 8

// RegistrationNumber 是捷克企业识别号（IČO），8 位数字，末位为校验位。
type RegistrationNumber string

// ParseRegistrationNumber 去掉空白后校验长度与校验位。
func ParseRegistrationNumber(s string) (RegistrationNumber, error) {
	id := strings.Join(strings.Fields(s), "")
	if !IsValidRegistrationNumber(id) {
		return "", fmt.Errorf("%w: %q", ErrInvalidRegistrationNumber, s)
	}
	return RegistrationNumber(id), nil
}

// IsValidRegistrationNumber 按 mod 11 规则验证 IČO：
// 前 7 位从右往左依次乘以 2..8 求和，校验位 = (11 - sum%11) % 10。
func IsValidRegistrationNumber(s string) bool {
	if len(s) != registrationNumberLength {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	sum := 0
	body := s[:len(s)-1]
	for i := 0; i < len(body); i++ {
		digit := int(body[len(body)-1-i] - '0')
		sum += digit * (i + 2)
	}
	control := (11 - sum%11) % 10
	return control == int(s[len(s)-1]-'0')
}

func (n RegistrationNumber) String() string { return string(n) }

// IsZero 报告是否未设置。
func (n RegistrationNumber) IsZero() bool { return n == "" }
