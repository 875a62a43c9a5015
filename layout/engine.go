package layout

import (
	"fmt"

	"github.com/ByLCY/faktura/binding"
	"github.com/ByLCY/faktura/invoice"
	"github.com/ByLCY/faktura/money"
)

// A4 单页版式常量（mm / pt）。
const (
	PageWidth  = 210.0
	PageHeight = 297.0

	marginX        = 10.0
	topY           = 10.5
	leftColumnMax  = PageWidth/2 - 1.25
	rightColumnMin = PageWidth/2 + 11.25
	rightColumnMax = PageWidth - marginX
	footerBaseline = PageHeight - 6.0

	lineHeight     = 5.0
	gap            = 5.0
	headingRuleLen = 84.0
	headingHeight  = 18.0
	qrSize         = 40.0

	bodySize    = 10.0
	headingSize = 17.5
	tableSize   = 9.2
	totalSize   = 16.0
	noteSize    = 8.0

	hairline         = 0.1
	headingRuleWidth = 2.25 * PtToMm
	totalRuleWidth   = 1.5 * PtToMm

	dateLayout     = "02. 01. 2006"
	defaultCreator = "faktura"
)

// 发票使用的三种颜色。
var (
	Black     = Color{R: 0, G: 0, B: 0}
	Gray      = Color{R: 90, G: 90, B: 90}
	LightGray = Color{R: 200, G: 200, B: 200}
)

// Build 计算整张发票的版式：标题、双方信息、支付方式与日期、条目表格、付款二维码与备注。
// 每个阶段从当前游标开始排版并返回占用的高度，结果是单页的块树。
func Build(inv *invoice.Invoice, opts BuildOptions) (*Result, error) {
	if inv == nil {
		return nil, fmt.Errorf("发票为空")
	}
	if opts.Typesetter == nil {
		return nil, fmt.Errorf("layout: 缺少排版后端 Typesetter")
	}
	e := &engine{
		ts:  opts.Typesetter,
		inv: inv,
		acc: money.ForCurrency(inv.Currency()),
	}

	page := Page{
		Width:  PageWidth,
		Height: PageHeight,
		Margin: Margin{Top: topY, Right: marginX, Bottom: PageHeight - footerBaseline, Left: marginX},
	}

	y := topY
	heading, h := e.heading(rightColumnMin, y, rightColumnMax)
	page.Blocks = append(page.Blocks, heading)
	y += h

	contractor, contractorH := e.entity(invoice.RoleContractor, marginX, y, leftColumnMax)
	client, clientH := e.entity(invoice.RoleClient, rightColumnMin, y, rightColumnMax)
	page.Blocks = append(page.Blocks, contractor, client)
	y += max(contractorH, clientH) + lineHeight

	method, methodH := e.paymentMethod(marginX, y, leftColumnMax)
	dates, datesH := e.dates(rightColumnMin, y, rightColumnMax)
	page.Blocks = append(page.Blocks, method, dates)
	y += max(methodH, datesH)

	total := inv.Total()
	items, itemsH := e.items(marginX, y, rightColumnMax, total)
	page.Blocks = append(page.Blocks, items)
	y += itemsH

	if transfer, ok := inv.Payment().(invoice.BankTransfer); ok {
		qr, err := e.paymentQR(transfer, marginX, y+gap, total)
		if err != nil {
			return nil, err
		}
		page.Blocks = append(page.Blocks, qr)
		if note := binding.Interpolate(inv.Note(), noteData(inv, e.acc, opts.NoteData)); note != "" {
			page.Blocks = append(page.Blocks, e.note(note, marginX, footerBaseline, rightColumnMax))
		}
	}

	return &Result{
		Pages:          []Page{page},
		Meta:           meta(inv, opts.Creator),
		Total:          total,
		FormattedTotal: e.acc.FormatMoney(total),
		Currency:       inv.Currency().String(),
	}, nil
}

type engine struct {
	ts  Typesetter
	inv *invoice.Invoice
	acc *money.Accounting
}

func (e *engine) measure(s string, font FontRef, size float64) float64 {
	return e.ts.Measure(s, font, size)
}

func (e *engine) text(s string, x, baseline float64, font FontRef, size float64, c Color) TextBox {
	return TextBox{
		Content:  s,
		X:        x,
		Y:        baseline,
		Width:    e.measure(s, font, size),
		Font:     font,
		FontSize: size,
		Color:    c,
		Align:    AlignLeft,
	}
}

// textRight 将文本右边缘对齐到 right。
func (e *engine) textRight(s string, right, baseline float64, font FontRef, size float64, c Color) TextBox {
	tb := e.text(s, right, baseline, font, size, c)
	tb.X = right - tb.Width
	tb.Align = AlignRight
	return tb
}

func rule(x1, x2, y float64, c Color, width float64) Line {
	return Line{X1: x1, Y1: y, X2: x2, Y2: y, Color: c, Width: width}
}

func meta(inv *invoice.Invoice, creator string) DocumentMeta {
	if creator == "" {
		creator = defaultCreator
	}
	title := "Faktura " + inv.Number().String()
	return DocumentMeta{
		Title:    title,
		Subject:  title,
		Author:   inv.Contractor().Name,
		Creator:  creator,
		Keywords: []string{inv.Number().String(), inv.Client().Name},
	}
}

// noteData 组装备注插值可用的数据：${invoice.number}、${client.name} 等。
func noteData(inv *invoice.Invoice, acc *money.Accounting, extra map[string]any) map[string]any {
	party := func(e invoice.Entity) map[string]any {
		return map[string]any{
			"name": e.Name,
			"id":   e.Identifier.String(),
			"vat":  e.VATNumber,
		}
	}
	data := map[string]any{
		"invoice": map[string]any{
			"number":   inv.Number().String(),
			"issued":   inv.Issued().Format(dateLayout),
			"due":      inv.Due().Format(dateLayout),
			"total":    acc.FormatMoney(inv.Total()),
			"currency": inv.Currency().String(),
		},
		"contractor": party(inv.Contractor()),
		"client":     party(inv.Client()),
	}
	for k, v := range extra {
		data[k] = v
	}
	return data
}
