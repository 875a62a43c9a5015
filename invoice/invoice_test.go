package invoice

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/currency"

	"github.com/ByLCY/faktura/iban"
	"github.com/ByLCY/faktura/money"
)

func testEntity(id, name string) *Entity {
	addr, _ := NewAddress("Vodičkova", 12, 3, "12000", "Praha")
	return &Entity{Identifier: RegistrationNumber(id), Name: name, Address: addr}
}

func date(y int, m time.Month, d int) time.Time { return time.Date(y, m, d, 0, 0, 0, 0, time.UTC) }

func TestItemPrice(t *testing.T) {
	tests := []struct {
		name string
		item Item
		want string
	}{
		{"hours", Item{Kind: Hours{Time: Time{Hours: 1, Minutes: 30}}, PricePerUnit: decimal.NewFromInt(100)}, "150"},
		{"quantity", Item{Kind: Quantity{Count: 3}, PricePerUnit: decimal.NewFromInt(50)}, "150"},
		{"other", Item{Kind: Other{}, PricePerUnit: decimal.NewFromInt(75)}, "75"},
		{"no kind", Item{PricePerUnit: decimal.NewFromInt(75)}, "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, decimal.RequireFromString(tt.want).Equal(tt.item.Price()), "got %s", tt.item.Price())
		})
	}
}

func TestParseTime(t *testing.T) {
	tm, err := ParseTime("1:30")
	require.NoError(t, err)
	assert.Equal(t, Time{Hours: 1, Minutes: 30}, tm)
	assert.InDelta(t, 1.5, tm.Multiplicator(), 1e-9)
	assert.Equal(t, "1:30", tm.String())

	tm, err = ParseTime("8")
	require.NoError(t, err)
	assert.Equal(t, Time{Hours: 8}, tm)

	for _, bad := range []string{"", "1:75", "1:3", "x:10"} {
		_, err := ParseTime(bad)
		assert.ErrorIs(t, err, ErrInvalidTime, bad)
	}
}

func TestAddressLines(t *testing.T) {
	addr, err := NewAddress("Vodičkova", 12, 3, "12000", "Praha")
	require.NoError(t, err)
	assert.Equal(t, "Vodičkova 12/3", addr.FirstLine())
	assert.Equal(t, "120 00 Praha", addr.SecondLine())

	addr, err = NewAddress("Dlouhá", 5, 0, "1000", "Praha")
	require.NoError(t, err)
	assert.Equal(t, "Dlouhá 5", addr.FirstLine())
	assert.Equal(t, "010 00 Praha", addr.SecondLine())

	addr, err = NewAddress("", 7, 0, "", "Lhota")
	require.NoError(t, err)
	assert.Equal(t, "7", addr.FirstLine())
	assert.Equal(t, "Lhota", addr.SecondLine())

	_, err = NewAddress("Dlouhá", 5, 0, "1200000", "Praha")
	assert.ErrorIs(t, err, ErrInvalidPostalCode)
	_, err = NewAddress("Dlouhá", 5, 0, "12a00", "Praha")
	assert.ErrorIs(t, err, ErrInvalidPostalCode)
}

func TestRegistrationNumber(t *testing.T) {
	assert.True(t, IsValidRegistrationNumber("27082440"))
	assert.True(t, IsValidRegistrationNumber("29210372"))
	assert.False(t, IsValidRegistrationNumber("27082441"))
	assert.False(t, IsValidRegistrationNumber("2708244"))
	assert.False(t, IsValidRegistrationNumber("2708244a"))

	id, err := ParseRegistrationNumber(" 270 82 440 ")
	require.NoError(t, err)
	assert.Equal(t, RegistrationNumber("27082440"), id)

	_, err = ParseRegistrationNumber("12345678")
	assert.ErrorIs(t, err, ErrInvalidRegistrationNumber)
}

func TestRoleLabels(t *testing.T) {
	assert.Equal(t, "DODAVATEL", RoleContractor.Label())
	assert.Equal(t, "ODBĚRATEL", RoleClient.Label())
}

func TestNewValidates(t *testing.T) {
	base := Params{
		Number:     decimal.NewFromInt(202403),
		Contractor: testEntity("27082440", "Jan Novák"),
		Client:     testEntity("29210372", "Acme s.r.o."),
		IBAN:       iban.MustParse("CZ6508000000192000145399"),
		Payment:    BankTransfer{VariableSymbol: "202403"},
		Issued:     date(2024, 10, 10),
		Due:        date(2024, 10, 24),
	}

	inv, err := New(base)
	require.NoError(t, err)
	assert.Equal(t, money.CZK, inv.Currency())
	assert.Equal(t, "Acme s.r.o.", inv.Party(RoleClient).Name)
	assert.Equal(t, "Jan Novák", inv.Party(RoleContractor).Name)

	p := base
	p.Due = date(2024, 10, 1)
	_, err = New(p)
	assert.ErrorIs(t, err, ErrDueBeforeIssue)

	p = base
	p.IBAN = iban.IBAN{}
	_, err = New(p)
	assert.ErrorIs(t, err, ErrMissingIBAN)

	p.Payment = Cash{}
	_, err = New(p)
	assert.NoError(t, err)

	p = base
	p.Client = nil
	_, err = New(p)
	assert.ErrorIs(t, err, ErrMissingParty)

	p = base
	p.Payment = BankTransfer{VariableSymbol: "12-34"}
	_, err = New(p)
	assert.ErrorIs(t, err, ErrInvalidVariableSymbol)

	p = base
	p.Payment = nil
	_, err = New(p)
	assert.ErrorIs(t, err, ErrMissingPayment)

	p = base
	p.Items = []Item{{Description: "bez druhu"}}
	_, err = New(p)
	assert.ErrorIs(t, err, ErrMissingItemKind)
}

func TestTotalIndependentOfOrder(t *testing.T) {
	items := []Item{
		{Kind: Hours{Time: Time{Hours: 1, Minutes: 20}}, PricePerUnit: decimal.RequireFromString("333.33")},
		{Kind: Quantity{Count: 7}, PricePerUnit: decimal.RequireFromString("0.1")},
		{Kind: Other{Unit: "paušál"}, PricePerUnit: decimal.RequireFromString("1999.99")},
	}
	params := Params{
		Contractor: testEntity("27082440", "A"),
		Client:     testEntity("29210372", "B"),
		Payment:    Cash{},
		Items:      items,
		Currency:   currency.EUR,
	}
	forward, err := New(params)
	require.NoError(t, err)

	params.Items = []Item{items[2], items[0], items[1]}
	backward, err := New(params)
	require.NoError(t, err)

	assert.True(t, forward.Total().Equal(backward.Total()))
	want := items[0].Price().Add(items[1].Price()).Add(items[2].Price())
	assert.True(t, want.Equal(forward.Total()))
}

func TestItemsAreCopied(t *testing.T) {
	items := []Item{{Kind: Other{}, Description: "a", PricePerUnit: decimal.NewFromInt(1)}}
	inv, err := New(Params{
		Contractor: testEntity("27082440", "A"),
		Client:     testEntity("29210372", "B"),
		Payment:    Cash{},
		Items:      items,
	})
	require.NoError(t, err)
	items[0].Description = "changed"
	got := inv.Items()
	got[0].Description = "changed again"
	assert.Equal(t, "a", inv.Items()[0].Description)
}

type stubResolver struct {
	entities map[RegistrationNumber]*Entity
	calls    []RegistrationNumber
}

func (s *stubResolver) Resolve(_ context.Context, id RegistrationNumber) (*Entity, error) {
	s.calls = append(s.calls, id)
	if e, ok := s.entities[id]; ok {
		return e, nil
	}
	return nil, errors.New("not found")
}

func TestDraftBuild(t *testing.T) {
	resolver := &stubResolver{entities: map[RegistrationNumber]*Entity{
		"27082440": testEntity("27082440", "Jan Novák"),
	}}
	draft := Draft{
		Number: decimal.NewFromInt(202403),
		Client: PartyRef{Entity: testEntity("29210372", "Acme s.r.o.")},
		Items:  []Item{{Kind: Other{}, PricePerUnit: decimal.NewFromInt(75)}},
	}
	defaults := Defaults{
		Contractor: "27082440",
		IBAN:       iban.MustParse("CZ6508000000192000145399"),
		DueDays:    14,
		Now:        func() time.Time { return time.Date(2024, 10, 10, 15, 4, 5, 0, time.Local) },
	}

	inv, err := draft.Build(context.Background(), resolver, defaults)
	require.NoError(t, err)
	assert.Equal(t, []RegistrationNumber{"27082440"}, resolver.calls)
	assert.Equal(t, "Jan Novák", inv.Contractor().Name)
	assert.Equal(t, time.Date(2024, 10, 10, 0, 0, 0, 0, time.Local), inv.Issued())
	assert.Equal(t, time.Date(2024, 10, 24, 0, 0, 0, 0, time.Local), inv.Due())
	assert.Equal(t, BankTransfer{VariableSymbol: "202403"}, inv.Payment())
	assert.Equal(t, money.CZK, inv.Currency())
}

func TestDraftBuildResolverFailure(t *testing.T) {
	draft := Draft{
		Contractor: PartyRef{ID: "27082440"},
		Client:     PartyRef{ID: "29210372"},
		Payment:    Cash{},
	}
	_, err := draft.Build(context.Background(), &stubResolver{}, Defaults{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "resolve contractor 27082440")

	_, err = Draft{Payment: Cash{}}.Build(context.Background(), nil, Defaults{})
	assert.ErrorIs(t, err, ErrMissingParty)
}
