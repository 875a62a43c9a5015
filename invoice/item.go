package invoice

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Time 表示工时，Minutes 在 0..59 之间。
type Time struct {
	Hours   uint32
	Minutes uint32
}

// NewTime 校验分钟范围。
func NewTime(hours, minutes uint32) (Time, error) {
	if minutes >= 60 {
		return Time{}, fmt.Errorf("%w: %d minutes", ErrInvalidTime, minutes)
	}
	return Time{Hours: hours, Minutes: minutes}, nil
}

// ParseTime 解析 "1:30" 或 "2"。
func ParseTime(s string) (Time, error) {
	h, m, hasMinutes := strings.Cut(strings.TrimSpace(s), ":")
	hours, err := strconv.ParseUint(h, 10, 32)
	if err != nil {
		return Time{}, fmt.Errorf("%w: %q", ErrInvalidTime, s)
	}
	var minutes uint64
	if hasMinutes {
		if len(m) != 2 {
			return Time{}, fmt.Errorf("%w: %q", ErrInvalidTime, s)
		}
		minutes, err = strconv.ParseUint(m, 10, 32)
		if err != nil {
			return Time{}, fmt.Errorf("%w: %q", ErrInvalidTime, s)
		}
	}
	return NewTime(uint32(hours), uint32(minutes))
}

// Multiplicator 返回小时数（浮点）：1:30 → 1.5。
func (t Time) Multiplicator() float64 {
	return float64(t.Hours) + float64(t.Minutes)/60
}

func (t Time) String() string { return fmt.Sprintf("%d:%02d", t.Hours, t.Minutes) }

// Kind 是条目的计量方式：Hours、Quantity 或 Other。
type Kind interface {
	multiplicator() decimal.Decimal
}

// Hours 按工时计价。
type Hours struct{ Time Time }

// Quantity 按件数计价。
type Quantity struct{ Count uint32 }

// Other 是一次性条目，Unit 为自由文本单位（可为空）。
type Other struct{ Unit string }

func (h Hours) multiplicator() decimal.Decimal {
	return decimal.NewFromFloat(h.Time.Multiplicator())
}

func (q Quantity) multiplicator() decimal.Decimal { return decimal.NewFromInt(int64(q.Count)) }

func (Other) multiplicator() decimal.Decimal { return decimal.NewFromInt(1) }

// Item 是发票的一行。
type Item struct {
	Kind         Kind
	Description  string
	PricePerUnit decimal.Decimal
}

// Multiplicator 返回数量因子：工时、件数或 1。
func (i Item) Multiplicator() decimal.Decimal {
	if i.Kind == nil {
		return decimal.Zero
	}
	return i.Kind.multiplicator()
}

// Price 返回该行金额 = 数量因子 × 单价。
func (i Item) Price() decimal.Decimal {
	return i.Multiplicator().Mul(i.PricePerUnit)
}
