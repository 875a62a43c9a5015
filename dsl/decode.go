package dsl

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/alecthomas/participle/v2/lexer"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"

	"github.com/ByLCY/faktura/iban"
	"github.com/ByLCY/faktura/invoice"
	"github.com/ByLCY/faktura/money"
)

// ErrInvalidInvoice 表示发票文件语义错误（未知命令、参数类型不符等）。
var ErrInvalidInvoice = errors.New("invalid invoice file")

const dateLayout = "2006-01-02"

// ParseDraft 解析并解码发票文件。
func ParseDraft(input string) (*invoice.Draft, error) {
	doc, err := ParseString(input)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInvoice, err)
	}
	return Decode(doc)
}

// Decode 把语法树转换为 invoice.Draft。未出现的字段保持零值，由 Draft.Build 补默认值。
func Decode(doc *Document) (*invoice.Draft, error) {
	if doc == nil || doc.Block == nil {
		return nil, fmt.Errorf("%w: 文档为空", ErrInvalidInvoice)
	}
	number, err := decimal.NewFromString(doc.Number)
	if err != nil {
		return nil, invalidf(doc.Pos, "发票号 %q: %v", doc.Number, err)
	}
	d := &invoice.Draft{Number: number}

	for _, st := range doc.Block.Statements {
		switch {
		case st.Assignment != nil:
			err = decodeAssignment(d, st.Assignment)
		case st.Command != nil:
			err = decodeCommand(d, st.Command)
		}
		if err != nil {
			return nil, err
		}
	}
	return d, nil
}

func decodeAssignment(d *invoice.Draft, a *Assignment) error {
	v := a.Value
	switch a.Key {
	case "issued", "due":
		t, err := dateValue(v)
		if err != nil {
			return err
		}
		if a.Key == "issued" {
			d.Issued = t
		} else {
			d.Due = t
		}
	case "due-days":
		n, err := intValue(v)
		if err != nil {
			return err
		}
		d.DueDays = int(n)
	case "currency":
		unit, err := currency.ParseISO(strings.ToUpper(v.Value))
		if err != nil {
			return invalidf(v.Pos, "币种 %q: %v", v.Value, err)
		}
		d.Currency = unit
	case "iban":
		acc, err := iban.Parse(v.Value)
		if err != nil {
			return invalidf(v.Pos, "%v", err)
		}
		d.IBAN = acc
	case "note":
		s, err := stringValue(v)
		if err != nil {
			return err
		}
		d.Note = s
	default:
		return invalidf(a.Pos, "未知字段 %q", a.Key)
	}
	return nil
}

func decodeCommand(d *invoice.Draft, c *Command) error {
	switch c.Name {
	case "contractor", "client":
		ref, err := decodeParty(c)
		if err != nil {
			return err
		}
		if c.Name == "contractor" {
			d.Contractor = ref
		} else {
			d.Client = ref
		}
	case "payment":
		p, err := decodePayment(c)
		if err != nil {
			return err
		}
		d.Payment = p
	case "item":
		item, err := decodeItem(c)
		if err != nil {
			return err
		}
		d.Items = append(d.Items, item)
	default:
		return invalidf(c.Pos, "未知命令 %q", c.Name)
	}
	return nil
}

// decodeParty 处理 "client <IČO> [{ ... }]"。没有块时由 Resolver 查询登记处。
func decodeParty(c *Command) (invoice.PartyRef, error) {
	if len(c.Args) != 1 {
		return invoice.PartyRef{}, invalidf(c.Pos, "%s 需要一个 IČO 参数", c.Name)
	}
	id, err := invoice.ParseRegistrationNumber(c.Args[0].Value)
	if err != nil {
		return invoice.PartyRef{}, invalidf(c.Args[0].Pos, "%v", err)
	}
	if c.Block == nil {
		return invoice.PartyRef{ID: id}, nil
	}

	var (
		e                    = invoice.Entity{Identifier: id}
		street, postal, city string
		house, orientation   uint32
	)
	for _, st := range c.Block.Statements {
		a := st.Assignment
		if a == nil {
			return invoice.PartyRef{}, invalidf(st.Command.Pos, "%s 块中只允许赋值", c.Name)
		}
		switch a.Key {
		case "name":
			e.Name = a.Value.Value
		case "street":
			street = a.Value.Value
		case "postal":
			postal = a.Value.Value
		case "city":
			city = a.Value.Value
		case "vat":
			e.VATNumber = a.Value.Value
		case "house", "orientation":
			n, err := intValue(a.Value)
			if err != nil {
				return invoice.PartyRef{}, err
			}
			if a.Key == "house" {
				house = uint32(n)
			} else {
				orientation = uint32(n)
			}
		default:
			return invoice.PartyRef{}, invalidf(a.Pos, "未知字段 %q", a.Key)
		}
	}
	if strings.TrimSpace(e.Name) == "" {
		return invoice.PartyRef{}, invalidf(c.Pos, "%s 缺少 name", c.Name)
	}
	addr, err := invoice.NewAddress(street, house, orientation, postal, city)
	if err != nil {
		return invoice.PartyRef{}, invalidf(c.Pos, "%v", err)
	}
	e.Address = addr
	return invoice.PartyRef{ID: id, Entity: &e}, nil
}

// decodePayment 处理 "payment transfer [VS]"、"payment cash"、"payment card [参考号]"。
func decodePayment(c *Command) (invoice.PaymentMethod, error) {
	if len(c.Args) == 0 || len(c.Args) > 2 {
		return nil, invalidf(c.Pos, "payment 需要支付方式")
	}
	var extra string
	if len(c.Args) == 2 {
		extra = c.Args[1].Value
	}
	switch c.Args[0].Value {
	case "transfer":
		return invoice.BankTransfer{VariableSymbol: extra}, nil
	case "cash":
		if extra != "" {
			return nil, invalidf(c.Args[1].Pos, "cash 不接受参数")
		}
		return invoice.Cash{}, nil
	case "card":
		return invoice.Card{Reference: extra}, nil
	default:
		return nil, invalidf(c.Args[0].Pos, "未知支付方式 %q", c.Args[0].Value)
	}
}

// decodeItem 处理三种条目：
//
//	item hours 1:30 350 "描述"
//	item quantity 3 50 "描述"
//	item other "单位" 75 "描述"
func decodeItem(c *Command) (invoice.Item, error) {
	if len(c.Args) != 4 {
		return invoice.Item{}, invalidf(c.Pos, "item 需要 4 个参数：类型、数量、单价、描述")
	}
	kindArg, qtyArg, priceArg, descArg := c.Args[0], c.Args[1], c.Args[2], c.Args[3]

	var kind invoice.Kind
	switch kindArg.Value {
	case "hours":
		if qtyArg.Type != "Duration" && qtyArg.Type != "Number" {
			return invoice.Item{}, invalidf(qtyArg.Pos, "工时应写作 h:mm，得到 %q", qtyArg.Raw)
		}
		raw := qtyArg.Value
		if qtyArg.Type == "Number" {
			raw += ":00"
		}
		t, err := invoice.ParseTime(raw)
		if err != nil {
			return invoice.Item{}, invalidf(qtyArg.Pos, "%v", err)
		}
		kind = invoice.Hours{Time: t}
	case "quantity":
		n, err := intValue(qtyArg)
		if err != nil {
			return invoice.Item{}, err
		}
		kind = invoice.Quantity{Count: uint32(n)}
	case "other":
		unit, err := stringValue(qtyArg)
		if err != nil {
			return invoice.Item{}, err
		}
		kind = invoice.Other{Unit: unit}
	default:
		return invoice.Item{}, invalidf(kindArg.Pos, "未知条目类型 %q", kindArg.Value)
	}

	if priceArg.Type != "Number" {
		return invoice.Item{}, invalidf(priceArg.Pos, "单价应为数字，得到 %q", priceArg.Raw)
	}
	price, err := money.ParseAmount(priceArg.Value)
	if err != nil {
		return invoice.Item{}, invalidf(priceArg.Pos, "%v", err)
	}
	desc, err := stringValue(descArg)
	if err != nil {
		return invoice.Item{}, err
	}
	return invoice.Item{Kind: kind, Description: desc, PricePerUnit: price}, nil
}

func dateValue(l *Lexeme) (time.Time, error) {
	if l.Type != "Date" && l.Type != "String" {
		return time.Time{}, invalidf(l.Pos, "日期应写作 YYYY-MM-DD，得到 %q", l.Raw)
	}
	t, err := time.ParseInLocation(dateLayout, l.Value, time.Local)
	if err != nil {
		return time.Time{}, invalidf(l.Pos, "日期 %q: %v", l.Value, err)
	}
	return t, nil
}

func intValue(l *Lexeme) (uint64, error) {
	if l.Type != "Number" {
		return 0, invalidf(l.Pos, "应为整数，得到 %q", l.Raw)
	}
	n, err := strconv.ParseUint(l.Value, 10, 32)
	if err != nil {
		return 0, invalidf(l.Pos, "应为整数，得到 %q", l.Raw)
	}
	return n, nil
}

func stringValue(l *Lexeme) (string, error) {
	if l.Type != "String" {
		return "", invalidf(l.Pos, "应为字符串，得到 %q", l.Raw)
	}
	return l.Value, nil
}

func invalidf(pos lexer.Position, format string, args ...any) error {
	return fmt.Errorf("%w: %d:%d: %s", ErrInvalidInvoice, pos.Line, pos.Column, fmt.Sprintf(format, args...))
}
