// Package invoice 定义发票领域模型：双方实体、条目、支付方式与合计。
package invoice

import (
	"fmt"
	"slices"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"

	"github.com/ByLCY/faktura/iban"
	"github.com/ByLCY/faktura/money"
)

// Params 是构造 Invoice 的输入。
type Params struct {
	Number     decimal.Decimal
	Contractor *Entity
	Client     *Entity
	IBAN       iban.IBAN
	Payment    PaymentMethod
	Items      []Item
	Issued     time.Time
	Due        time.Time
	Currency   currency.Unit
	Note       string
}

// Invoice 构造后不可修改。
type Invoice struct {
	number     decimal.Decimal
	contractor Entity
	client     Entity
	iban       iban.IBAN
	payment    PaymentMethod
	items      []Item
	issued     time.Time
	due        time.Time
	currency   currency.Unit
	note       string
}

// New 校验输入并构造发票。未指定币种时使用 CZK。
func New(p Params) (*Invoice, error) {
	if p.Contractor == nil || p.Client == nil {
		return nil, ErrMissingParty
	}
	if err := validatePayment(p.Payment); err != nil {
		return nil, err
	}
	if _, ok := p.Payment.(BankTransfer); ok && p.IBAN.IsZero() {
		return nil, ErrMissingIBAN
	}
	if p.Due.Before(p.Issued) {
		return nil, fmt.Errorf("%w: %s < %s", ErrDueBeforeIssue, p.Due.Format(time.DateOnly), p.Issued.Format(time.DateOnly))
	}
	for i, item := range p.Items {
		if item.Kind == nil {
			return nil, fmt.Errorf("item %d: %w", i+1, ErrMissingItemKind)
		}
	}
	cur := p.Currency
	if cur == (currency.Unit{}) {
		cur = money.CZK
	}
	return &Invoice{
		number:     p.Number,
		contractor: *p.Contractor,
		client:     *p.Client,
		iban:       p.IBAN,
		payment:    p.Payment,
		items:      slices.Clone(p.Items),
		issued:     p.Issued,
		due:        p.Due,
		currency:   cur,
		note:       p.Note,
	}, nil
}

func (inv *Invoice) Number() decimal.Decimal  { return inv.number }
func (inv *Invoice) Contractor() Entity       { return inv.contractor }
func (inv *Invoice) Client() Entity           { return inv.client }
func (inv *Invoice) IBAN() iban.IBAN          { return inv.iban }
func (inv *Invoice) Payment() PaymentMethod   { return inv.payment }
func (inv *Invoice) Issued() time.Time        { return inv.issued }
func (inv *Invoice) Due() time.Time           { return inv.due }
func (inv *Invoice) Currency() currency.Unit  { return inv.currency }
func (inv *Invoice) Note() string             { return inv.note }
func (inv *Invoice) Items() []Item            { return slices.Clone(inv.items) }

// Party 返回扮演指定角色的实体。
func (inv *Invoice) Party(role Role) Entity {
	if role == RoleClient {
		return inv.client
	}
	return inv.contractor
}

// Total 返回所有条目金额的十进制精确和，与条目顺序无关。
func (inv *Invoice) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range inv.items {
		total = total.Add(item.Price())
	}
	return total
}
