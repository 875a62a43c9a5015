package layout

import (
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/ByLCY/faktura/invoice"
)

// items 绘制条目表格：表头、逐行条目（描述按列宽折行）与合计。
// 列宽由测量预处理得出：最宽的行金额与最宽的数量标签。
func (e *engine) items(x, y, right float64, total decimal.Decimal) (Block, float64) {
	padding := lineHeight * 4
	headerY := y + padding
	table := Block{Name: "items", X: x, Y: y, Width: right - x}
	items := e.inv.Items()

	var maxPriceWidth, countOffset float64
	for _, item := range items {
		maxPriceWidth = max(maxPriceWidth, e.tableWidth(e.acc.FormatMoney(item.Price())))
		if count, _, ok := countLabel(item); ok {
			countOffset = max(countOffset, e.tableWidth(count))
		}
	}

	const (
		totalHeader = "CELKEM"
		unitHeader  = "CENA ZA MJ"
	)
	totalHeaderWidth := e.tableWidth(totalHeader)
	unitHeaderWidth := e.tableWidth(unitHeader)
	unitPriceRight := right - totalHeaderWidth - maxPriceWidth - gap
	descStart := x + countOffset + gap*3
	descEnd := right - totalHeaderWidth - maxPriceWidth - unitHeaderWidth - gap*4
	threshold := descEnd - descStart

	header := Block{Name: "items-header", X: x, Y: y, Width: right - x, Height: padding}
	header.Lines = append(header.Lines, rule(x, right, headerY, LightGray, hairline))
	header.Texts = append(header.Texts,
		e.textRight(totalHeader, right, headerY-lineHeight*0.5, FontRegular, tableSize, Gray),
		e.textRight(unitHeader, unitPriceRight, headerY-lineHeight*0.5, FontRegular, tableSize, Gray),
	)
	table.Children = append(table.Children, header)

	offset := lineHeight
	for i, item := range items {
		baseline := headerY + offset
		row := Block{Name: fmt.Sprintf("item-%d", i+1), X: x, Y: baseline - lineHeight, Width: right - x}

		count, unit, ok := countLabel(item)
		if ok {
			row.Texts = append(row.Texts,
				e.text(count, x, baseline, FontRegular, tableSize, Black),
				e.text(unit, x+countOffset+gap, baseline, FontRegular, tableSize, Black),
			)
		} else if unit != "" {
			row.Texts = append(row.Texts, e.text(unit, x, baseline, FontRegular, tableSize, Black))
		}

		lines := Wrap(item.Description, threshold, e.tableWidth)
		for j, line := range lines {
			row.Texts = append(row.Texts, e.text(line, descStart, baseline+lineHeight*float64(j), FontRegular, tableSize, Black))
		}
		extra := lineHeight * float64(max(len(lines)-1, 0))

		row.Texts = append(row.Texts,
			e.textRight(e.acc.FormatMoney(item.PricePerUnit), unitPriceRight, baseline, FontRegular, tableSize, Black),
			e.textRight(e.acc.FormatMoney(item.Price()), right, baseline, FontRegular, tableSize, Black),
		)

		advance := lineHeight*1.25 + extra
		row.Height = advance
		table.Children = append(table.Children, row)
		offset += advance
	}

	summaryY := headerY + offset - lineHeight
	summary := Block{Name: "items-total", X: x, Y: summaryY, Width: right - x, Height: lineHeight * 3.4}
	summary.Lines = append(summary.Lines,
		rule(x, right, summaryY, LightGray, hairline),
		rule(x+(right-x)/2, right, headerY+offset+lineHeight, Black, totalRuleWidth),
	)
	summary.Texts = append(summary.Texts,
		e.textRight(e.acc.FormatMoney(total), right, headerY+offset+lineHeight*2.4, FontBold, totalSize, Black),
	)
	table.Children = append(table.Children, summary)

	table.Height = padding + offset + lineHeight*2.4
	return table, table.Height
}

func (e *engine) tableWidth(s string) float64 {
	return e.measure(s, FontRegular, tableSize)
}

// countLabel 返回数量列的文本与单位。Other 条目没有数量，只返回自由文本单位。
func countLabel(item invoice.Item) (count, unit string, ok bool) {
	switch k := item.Kind.(type) {
	case invoice.Hours:
		if k.Time.Minutes == 0 {
			return strconv.FormatUint(uint64(k.Time.Hours), 10), "hod", true
		}
		return k.Time.String(), "hod", true
	case invoice.Quantity:
		return strconv.FormatUint(uint64(k.Count), 10), "ks", true
	case invoice.Other:
		return "", k.Unit, false
	default:
		return "", "", false
	}
}
