package invoice

import (
	"fmt"
	"strconv"
	"strings"
)

const postalCodeLength = 5

// Address 是捷克邮政地址。PostalCode 始终是 5 位数字（或为空）。
// OrientationNumber 为 0 表示没有方向号。
type Address struct {
	City              string `json:"city"`
	Street            string `json:"street"`
	PostalCode        string `json:"postalCode"`
	HouseNumber       uint32 `json:"houseNumber"`
	OrientationNumber uint32 `json:"orientationNumber,omitempty"`
}

// NewAddress 规范化邮编后构造地址。
func NewAddress(street string, house, orientation uint32, postalCode, city string) (Address, error) {
	pc, err := NormalizePostalCode(postalCode)
	if err != nil {
		return Address{}, err
	}
	return Address{
		City:              strings.TrimSpace(city),
		Street:            strings.TrimSpace(street),
		PostalCode:        pc,
		HouseNumber:       house,
		OrientationNumber: orientation,
	}, nil
}

// NormalizePostalCode 去掉空白并左侧补零到 5 位："120 00" → "12000"，"1000" → "01000"。
// 空串保持为空。
func NormalizePostalCode(s string) (string, error) {
	pc := strings.Join(strings.Fields(s), "")
	if pc == "" {
		return "", nil
	}
	if len(pc) > postalCodeLength {
		return "", fmt.Errorf("%w: %q", ErrInvalidPostalCode, s)
	}
	if _, err := strconv.ParseUint(pc, 10, 32); err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidPostalCode, s)
	}
	return strings.Repeat("0", postalCodeLength-len(pc)) + pc, nil
}

// FirstLine 返回 "街道 门牌号[/方向号]"。
func (a Address) FirstLine() string {
	number := strconv.FormatUint(uint64(a.HouseNumber), 10)
	if a.OrientationNumber > 0 {
		number += "/" + strconv.FormatUint(uint64(a.OrientationNumber), 10)
	}
	if a.Street == "" {
		return number
	}
	return a.Street + " " + number
}

// SecondLine 返回 "PSČ 城市"，邮编第 3 位后插入一个空格："120 00 Praha"。
func (a Address) SecondLine() string {
	if len(a.PostalCode) != postalCodeLength {
		return a.City
	}
	return a.PostalCode[:3] + " " + a.PostalCode[3:] + " " + a.City
}
