// Package money 负责金额的舍入与按币种格式化。
package money

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// ErrInvalidAmount 表示无法解析的金额输入。
var ErrInvalidAmount = errors.New("invalid amount")

// CZK 是默认币种；x/text 只为常用币种预定义了变量。
var CZK = currency.MustParseISO("CZK")

// 模板占位符。
const (
	placeholderValue  = "{value}"
	placeholderSymbol = "{symbol}"
)

// Accounting 描述某一币种的显示规则。
// Format 是通用模板，FormatPositive/FormatNegative/FormatZero 为空时回退到它。
// 模板中的 {value} 总是非负的分组数字。
type Accounting struct {
	Symbol         string
	Precision      int
	Decimal        string
	Thousand       string
	Format         string
	FormatPositive string
	FormatNegative string
	FormatZero     string
}

// 发票上最常见的三种币种固定符号，其余取 CLDR 窄符号。
var symbols = map[currency.Unit]string{
	CZK:          "Kč",
	currency.EUR: "€",
	currency.USD: "$",
}

var symbolPrinter = message.NewPrinter(language.Und)

// Symbol 返回币种符号（"Kč"、"₽"、"₹"）；CLDR 没有符号的币种返回 ISO 代码。
func Symbol(unit currency.Unit) string {
	if s, ok := symbols[unit]; ok {
		return s
	}
	if s := symbolPrinter.Sprint(currency.NarrowSymbol(unit)); s != "" {
		return s
	}
	return unit.String()
}

// Exponent 返回币种的小数位数（CLDR 标准舍入）。
func Exponent(unit currency.Unit) int {
	scale, _ := currency.Standard.Rounding(unit)
	return scale
}

// ForCurrency 返回币种对应的显示规则；没有专门规则的币种使用默认规则（"1 234,50 Kč"）。
func ForCurrency(unit currency.Unit) *Accounting {
	acc := &Accounting{
		Symbol:         Symbol(unit),
		Precision:      Exponent(unit),
		Decimal:        ",",
		Thousand:       " ",
		Format:         placeholderValue + " " + placeholderSymbol,
		FormatPositive: placeholderValue + " " + placeholderSymbol,
		FormatNegative: "-" + placeholderValue + " " + placeholderSymbol,
	}
	switch unit {
	case currency.EUR:
		acc.Format = placeholderSymbol + placeholderValue
		acc.FormatPositive = placeholderSymbol + placeholderValue
		acc.FormatNegative = "-" + placeholderSymbol + placeholderValue
		acc.Thousand = "."
	case currency.USD:
		acc.Format = placeholderSymbol + placeholderValue
		acc.FormatPositive = placeholderSymbol + placeholderValue
		acc.FormatNegative = "-" + placeholderSymbol + placeholderValue
		acc.Decimal = "."
		acc.Thousand = ","
	}
	acc.FormatZero = acc.FormatPositive
	return acc
}

// Format 按币种规则格式化金额，不会失败。
func Format(amount decimal.Decimal, unit currency.Unit) string {
	return ForCurrency(unit).FormatMoney(amount)
}

// FormatMoney 先按 Precision 四舍五入（远离零），再套用模板。
// 舍入后为零的负数使用零值模板，不会出现 "-0,00"。
func (a *Accounting) FormatMoney(amount decimal.Decimal) string {
	rounded := amount.Round(int32(a.Precision))
	tpl := a.FormatPositive
	switch {
	case rounded.IsZero():
		tpl = a.FormatZero
		rounded = decimal.Zero
	case rounded.IsNegative():
		tpl = a.FormatNegative
		rounded = rounded.Neg()
	}
	if tpl == "" {
		tpl = a.Format
	}
	if tpl == "" {
		tpl = placeholderValue
	}
	replacer := strings.NewReplacer(placeholderSymbol, a.Symbol, placeholderValue, a.number(rounded))
	return replacer.Replace(tpl)
}

func (a *Accounting) number(d decimal.Decimal) string {
	precision := max(a.Precision, 0)
	fixed := d.StringFixed(int32(precision))
	intPart, frac, _ := strings.Cut(fixed, ".")
	grouped := groupThousands(intPart, a.Thousand)
	if precision == 0 {
		return grouped
	}
	return grouped + a.Decimal + frac
}

func groupThousands(digits, sep string) string {
	if len(digits) <= 3 || sep == "" {
		return digits
	}
	var b strings.Builder
	head := len(digits) % 3
	if head > 0 {
		b.WriteString(digits[:head])
	}
	for i := head; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteString(sep)
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

// PlainAmount 返回机器可读的金额（"525.00"），以点作小数点。
// 小数位数取币种标准，但不超过两位。
func PlainAmount(amount decimal.Decimal, unit currency.Unit) string {
	exp := int32(min(Exponent(unit), 2))
	return amount.Round(exp).StringFixed(exp)
}

// ParseAmount 解析 "1234.5"、"1 234,50"、"1.234,50" 等写法。
// 同时出现 "," 与 "." 时，最后出现的那个视为小数点。
func ParseAmount(s string) (decimal.Decimal, error) {
	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\u00a0', '\u202f', '\t':
			return -1
		}
		return r
	}, s)
	if cleaned == "" {
		return decimal.Zero, fmt.Errorf("%w: empty input", ErrInvalidAmount)
	}
	comma := strings.LastIndex(cleaned, ",")
	dot := strings.LastIndex(cleaned, ".")
	switch {
	case comma >= 0 && dot >= 0 && comma > dot:
		cleaned = strings.ReplaceAll(cleaned, ".", "")
		cleaned = strings.Replace(cleaned, ",", ".", 1)
	case comma >= 0 && dot >= 0:
		cleaned = strings.ReplaceAll(cleaned, ",", "")
	case comma >= 0:
		if strings.Count(cleaned, ",") > 1 {
			return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
		}
		cleaned = strings.Replace(cleaned, ",", ".", 1)
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	return d, nil
}
