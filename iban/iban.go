// Package iban 解析并校验国际银行账号（ISO 13616），并提供捷克本地账号写法。
package iban

import (
	"errors"
	"fmt"
	"strings"

	bankiban "github.com/jbub/banking/iban"
)

var (
	// ErrInvalid 表示 IBAN 格式、国别结构或校验位错误。
	ErrInvalid = errors.New("invalid IBAN")
	// ErrNotDomestic 表示该 IBAN 不是捷克账号，没有本地写法。
	ErrNotDomestic = errors.New("IBAN is not a Czech account")
)

const domesticCountry = "CZ"

// IBAN 以电子格式（无空格、大写）保存。零值表示未提供。
type IBAN struct {
	electronic string
}

// Parse 接受打印格式（"CZ65 0800 ..."）或电子格式。
// 国别长度、BBAN 结构与 mod 97 校验由 banking/iban 完成。
func Parse(s string) (IBAN, error) {
	compact := strings.ToUpper(strings.Join(strings.Fields(s), ""))
	if compact == "" {
		return IBAN{}, fmt.Errorf("%w: empty", ErrInvalid)
	}
	if err := bankiban.Validate(compact); err != nil {
		return IBAN{}, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return IBAN{electronic: compact}, nil
}

// MustParse 用于测试与常量。
func MustParse(s string) IBAN {
	v, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return v
}

// IsZero 报告是否未设置 IBAN。
func (i IBAN) IsZero() bool { return i.electronic == "" }

// Electronic 返回无空格的电子格式。
func (i IBAN) Electronic() string { return i.electronic }

// CountryCode 返回两位国家代码。
func (i IBAN) CountryCode() string {
	if i.IsZero() {
		return ""
	}
	return i.electronic[:2]
}

// String 返回每四位一组的打印格式。
func (i IBAN) String() string {
	var b strings.Builder
	for idx, r := range i.electronic {
		if idx > 0 && idx%4 == 0 {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// IsDomestic 报告是否为捷克账号。
func (i IBAN) IsDomestic() bool { return i.CountryCode() == domesticCountry }

// BankCode 返回捷克 IBAN 中的四位银行代码，其他国家返回空串。
func (i IBAN) BankCode() string {
	if !i.IsDomestic() {
		return ""
	}
	return i.electronic[4:8]
}

// BankAccount 返回本地账号写法 "账号/银行代码"，账号去掉前导零：
// CZ6508000000192000145399 → "192000145399/0800"。
// 只有捷克 IBAN 有这种写法。
func (i IBAN) BankAccount() (string, error) {
	if !i.IsDomestic() {
		return "", fmt.Errorf("%w: %s", ErrNotDomestic, i.CountryCode())
	}
	account := strings.TrimLeft(i.electronic[8:], "0")
	if account == "" {
		account = "0"
	}
	return account + "/" + i.BankCode(), nil
}

// Display 返回发票上显示的账号：捷克账号用本地写法，其余用分组的 IBAN。
func (i IBAN) Display() string {
	if account, err := i.BankAccount(); err == nil {
		return account
	}
	return i.String()
}

// MarshalText 实现 encoding.TextMarshaler。
func (i IBAN) MarshalText() ([]byte, error) { return []byte(i.electronic), nil }

// UnmarshalText 实现 encoding.TextUnmarshaler，空串表示未设置。
func (i *IBAN) UnmarshalText(b []byte) error {
	if strings.TrimSpace(string(b)) == "" {
		*i = IBAN{}
		return nil
	}
	v, err := Parse(string(b))
	if err != nil {
		return err
	}
	*i = v
	return nil
}
