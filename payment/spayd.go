// Package payment 生成捷克 QR 付款（SPAYD，Short Payment Descriptor）内容与二维码矩阵。
package payment

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"

	"github.com/ByLCY/faktura/iban"
	"github.com/ByLCY/faktura/money"
)

const (
	header           = "SPD"
	version          = "1.0"
	maxMessageLength = 60
	fieldSeparator   = "*"
	escapedSeparator = "%2A"
)

// ErrMissingAccount 表示缺少收款账号。
var ErrMissingAccount = errors.New("payment descriptor requires an IBAN")

// Descriptor 描述一笔待支付款项。
type Descriptor struct {
	IBAN           iban.IBAN
	Amount         decimal.Decimal
	Currency       currency.Unit
	VariableSymbol string
	Message        string
}

// Payload 按 SPAYD 1.0 生成文本，键按字母排序：
// SPD*1.0*ACC:CZ6508000000192000145399*AM:525.00*CC:CZK*X-VS:202403
func (d Descriptor) Payload() (string, error) {
	if d.IBAN.IsZero() {
		return "", ErrMissingAccount
	}
	fields := map[string]string{
		"ACC": d.IBAN.Electronic(),
		"AM":  money.PlainAmount(d.Amount, d.Currency),
		"CC":  d.Currency.String(),
	}
	if d.VariableSymbol != "" {
		fields["X-VS"] = d.VariableSymbol
	}
	if msg := strings.TrimSpace(d.Message); msg != "" {
		if r := []rune(msg); len(r) > maxMessageLength {
			msg = string(r[:maxMessageLength])
		}
		fields["MSG"] = msg
	}

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := []string{header, version}
	for _, k := range keys {
		parts = append(parts, k+":"+escape(fields[k]))
	}
	return strings.Join(parts, fieldSeparator), nil
}

func escape(v string) string {
	return strings.ReplaceAll(v, fieldSeparator, escapedSeparator)
}

// Build 生成付款内容及其二维码矩阵。
func Build(d Descriptor) (string, *Matrix, error) {
	payload, err := d.Payload()
	if err != nil {
		return "", nil, err
	}
	m, err := Encode(payload)
	if err != nil {
		return "", nil, fmt.Errorf("encode payment QR: %w", err)
	}
	return payload, m, nil
}
