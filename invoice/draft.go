package invoice

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"

	"github.com/ByLCY/faktura/iban"
)

// Resolver 根据 IČO 查询实体信息（例如公司登记处）。
type Resolver interface {
	Resolve(ctx context.Context, id RegistrationNumber) (*Entity, error)
}

// PartyRef 要么直接给出实体，要么只给出 IČO 由 Resolver 补全。
type PartyRef struct {
	ID     RegistrationNumber
	Entity *Entity
}

// IsZero 报告是否既没有 ID 也没有实体。
func (p PartyRef) IsZero() bool { return p.ID.IsZero() && p.Entity == nil }

// Draft 是尚未补全的发票输入（来自发票文件或 HTTP 请求）。
type Draft struct {
	Number     decimal.Decimal
	Issued     time.Time
	Due        time.Time
	DueDays    int
	Currency   currency.Unit
	IBAN       iban.IBAN
	Payment    PaymentMethod
	Contractor PartyRef
	Client     PartyRef
	Items      []Item
	Note       string
}

// Defaults 用于填补 Draft 中缺省的字段。
type Defaults struct {
	Contractor RegistrationNumber
	IBAN       iban.IBAN
	DueDays    int
	Currency   currency.Unit
	Now        func() time.Time
}

// Build 应用默认值、解析双方实体并构造发票。
// 未指定支付方式时使用银行转账，变动符号取发票号。
func (d Draft) Build(ctx context.Context, resolver Resolver, defaults Defaults) (*Invoice, error) {
	if d.Contractor.IsZero() {
		d.Contractor.ID = defaults.Contractor
	}
	if d.IBAN.IsZero() {
		d.IBAN = defaults.IBAN
	}
	if d.Currency == (currency.Unit{}) {
		d.Currency = defaults.Currency
	}
	if d.Issued.IsZero() {
		now := time.Now
		if defaults.Now != nil {
			now = defaults.Now
		}
		y, m, day := now().Date()
		d.Issued = time.Date(y, m, day, 0, 0, 0, 0, time.Local)
	}
	if d.Due.IsZero() {
		days := d.DueDays
		if days == 0 {
			days = defaults.DueDays
		}
		d.Due = d.Issued.AddDate(0, 0, days)
	}
	if d.Payment == nil {
		d.Payment = BankTransfer{VariableSymbol: d.Number.String()}
	}

	contractor, err := resolveParty(ctx, resolver, d.Contractor, RoleContractor)
	if err != nil {
		return nil, err
	}
	client, err := resolveParty(ctx, resolver, d.Client, RoleClient)
	if err != nil {
		return nil, err
	}

	return New(Params{
		Number:     d.Number,
		Contractor: contractor,
		Client:     client,
		IBAN:       d.IBAN,
		Payment:    d.Payment,
		Items:      d.Items,
		Issued:     d.Issued,
		Due:        d.Due,
		Currency:   d.Currency,
		Note:       d.Note,
	})
}

func resolveParty(ctx context.Context, resolver Resolver, ref PartyRef, role Role) (*Entity, error) {
	if ref.Entity != nil {
		return ref.Entity, nil
	}
	if ref.ID.IsZero() {
		return nil, fmt.Errorf("%s: %w", role, ErrMissingParty)
	}
	if resolver == nil {
		return nil, fmt.Errorf("%s %s: no resolver configured: %w", role, ref.ID, ErrMissingParty)
	}
	entity, err := resolver.Resolve(ctx, ref.ID)
	if err != nil {
		return nil, fmt.Errorf("resolve %s %s: %w", role, ref.ID, err)
	}
	return entity, nil
}
