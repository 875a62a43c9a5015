package layout

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/ByLCY/faktura/invoice"
	"github.com/ByLCY/faktura/payment"
)

// heading 在右栏顶部绘制灰色粗线与 "Faktura <číslo>"。
func (e *engine) heading(x, y, bound float64) (Block, float64) {
	b := Block{Name: "heading", X: x, Y: y, Width: bound - x, Height: headingHeight}
	b.Lines = append(b.Lines, rule(x, max(x+headingRuleLen, bound), y, Gray, headingRuleWidth))

	const prefix = "Faktura"
	baseline := y + 8
	title := e.text(prefix, x, baseline, FontBold, headingSize, Black)
	numberX := x + title.Width + e.ts.SpaceWidth(FontBold, headingSize)
	b.Texts = append(b.Texts,
		title,
		e.text(e.inv.Number().String(), numberX, baseline, FontRegular, headingSize, Gray),
	)
	return b, headingHeight
}

// entity 绘制一方的信息块。名称过长时在栏宽内折行，后续各行随之下移。
func (e *engine) entity(role invoice.Role, x, y, right float64) (Block, float64) {
	party := e.inv.Party(role)
	b := Block{Name: role.String(), X: x, Y: y, Width: right - x}
	b.Lines = append(b.Lines, rule(x, x+4, y, Gray, hairline))
	b.Texts = append(b.Texts, e.text(role.Label(), x, y+5, FontRegular, bodySize, Gray))

	names := Wrap(party.Name, right-x, func(s string) float64 { return e.measure(s, FontBold, bodySize) })
	for i, line := range names {
		b.Texts = append(b.Texts, e.text(line, x, y+5+lineHeight*float64(2+i), FontBold, bodySize, Black))
	}
	extra := lineHeight * float64(max(len(names)-1, 0))

	at := func(lines float64) float64 { return y + 6 + extra + lineHeight*lines }
	addr := party.Address
	b.Texts = append(b.Texts,
		e.text(addr.FirstLine(), x, at(3), FontRegular, bodySize, Gray),
		e.text(addr.SecondLine(), x, at(4), FontRegular, bodySize, Gray),
		e.text("IČO", x, at(6), FontRegular, bodySize, Gray),
		e.textRight(party.Identifier.String(), right, at(6), FontRegular, bodySize, Black),
	)
	if party.VATRegistered() {
		b.Texts = append(b.Texts,
			e.text("DIČ", x, at(7), FontRegular, bodySize, Gray),
			e.textRight(party.VATNumber, right, at(7), FontRegular, bodySize, Black),
		)
	} else {
		b.Texts = append(b.Texts, e.text("Neplátce DPH", x, at(7), FontRegular, bodySize, Black))
	}

	b.Height = 6 + extra + lineHeight*8
	return b, b.Height
}

// labelRows 绘制 "标签 ... 右对齐值" 的行，返回占用高度。
func (e *engine) labelRows(b *Block, rows [][2]string, x, y, right float64) float64 {
	for i, row := range rows {
		baseline := y + lineHeight*float64(i+1)
		b.Texts = append(b.Texts,
			e.text(row[0], x, baseline, FontRegular, bodySize, Gray),
			e.textRight(row[1], right, baseline, FontRegular, bodySize, Black),
		)
	}
	return lineHeight * float64(len(rows))
}

func (e *engine) paymentMethod(x, y, right float64) (Block, float64) {
	b := Block{Name: "payment", X: x, Y: y, Width: right - x}
	var rows [][2]string
	switch p := e.inv.Payment().(type) {
	case invoice.BankTransfer:
		rows = [][2]string{
			{"Bankovní účet", e.inv.IBAN().Display()},
			{"Variabilní symbol", p.VariableSymbol},
			{"Způsob platby", "Převodem"},
		}
	case invoice.Card:
		rows = [][2]string{{"Způsob platby", "Kartou"}}
		if p.Reference != "" {
			rows = append(rows, [2]string{"Reference platby", p.Reference})
		}
	case invoice.Cash:
		rows = [][2]string{{"Způsob platby", "Hotově"}}
	}
	b.Height = e.labelRows(&b, rows, x, y, right)
	return b, b.Height
}

func (e *engine) dates(x, y, right float64) (Block, float64) {
	b := Block{Name: "dates", X: x, Y: y, Width: right - x}
	b.Height = e.labelRows(&b, [][2]string{
		{"Datum vystavení", e.inv.Issued().Format(dateLayout)},
		{"Datum splatnosti", e.inv.Due().Format(dateLayout)},
	}, x, y, right)
	return b, b.Height
}

// paymentQR 生成 SPAYD 付款二维码块。
func (e *engine) paymentQR(transfer invoice.BankTransfer, x, y float64, total decimal.Decimal) (Block, error) {
	payload, matrix, err := payment.Build(payment.Descriptor{
		IBAN:           e.inv.IBAN(),
		Amount:         total,
		Currency:       e.inv.Currency(),
		VariableSymbol: transfer.VariableSymbol,
	})
	if err != nil {
		return Block{}, fmt.Errorf("生成付款二维码失败: %w", err)
	}
	return Block{
		Name:   "payment-qr",
		X:      x,
		Y:      y,
		Width:  qrSize,
		Height: qrSize,
		QRCodes: []QRBox{{
			X:       x,
			Y:       y,
			Size:    qrSize,
			Payload: payload,
			Modules: matrix.Modules,
			Color:   Black,
			Rounded: true,
		}},
	}, nil
}

func (e *engine) note(text string, x, baseline, right float64) Block {
	tb := e.text(text, x, baseline, FontRegular, noteSize, Black)
	return Block{
		Name:   "note",
		X:      x,
		Y:      baseline - lineHeight,
		Width:  right - x,
		Height: lineHeight,
		Texts:  []TextBox{tb},
	}
}
