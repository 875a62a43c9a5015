package dsl_test

import (
	"errors"
	"testing"
	"time"

	"github.com/ByLCY/faktura/dsl"
	"github.com/ByLCY/faktura/invoice"
)

const sampleInvoice = `
// Faktura za březen
invoice 2024001 {
  issued: 2024-03-01
  due-days: 14
  currency: CZK
  iban: "CZ65 0800 0000 1920 0014 5399"
  note: "Děkuji, ${contractor.name}"

  contractor 27082440
  client 25596641 {
    name: "Jan Novák"
    street: "Vodičkova"
    house: 12
    orientation: 3
    postal: "120 00"
    city: "Praha"
  }

  payment transfer "202403"

  item hours 1:30 100 "Programování"   # 150
  item quantity 3 50 "Konzultace"
  item other "paušál" 75 "Hosting"; item hours 2 0 "Zdarma"
}
`

func TestParseDocument(t *testing.T) {
	doc, err := dsl.ParseString(sampleInvoice)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if doc.Number != "2024001" {
		t.Fatalf("expected number 2024001, got %s", doc.Number)
	}
	if got := len(doc.Block.Statements); got != 12 {
		t.Fatalf("expected 12 statements, got %d", got)
	}
	first := doc.Block.Statements[0].Assignment
	if first == nil || first.Key != "issued" || first.Value.Type != "Date" {
		t.Fatalf("unexpected first statement: %+v", doc.Block.Statements[0])
	}

	client := doc.Block.Statements[6].Command
	if client == nil || client.Name != "client" || client.Block == nil {
		t.Fatalf("client command missing block: %+v", client)
	}
	if len(client.Block.Statements) != 6 {
		t.Fatalf("expected 6 client fields, got %d", len(client.Block.Statements))
	}

	item := doc.Block.Statements[8].Command
	if item == nil || len(item.Args) != 4 {
		t.Fatalf("item args mismatch: %+v", item)
	}
	if item.Args[1].Type != "Duration" || item.Args[1].Value != "1:30" {
		t.Fatalf("expected duration token, got %+v", item.Args[1])
	}
	if item.Args[3].Value != "Programování" {
		t.Fatalf("string should be unquoted, got %q", item.Args[3].Value)
	}
}

func TestDecodeDraft(t *testing.T) {
	d, err := dsl.ParseDraft(sampleInvoice)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if d.Number.String() != "2024001" {
		t.Fatalf("number mismatch: %s", d.Number)
	}
	wantIssued := time.Date(2024, 3, 1, 0, 0, 0, 0, time.Local)
	if !d.Issued.Equal(wantIssued) {
		t.Fatalf("issued mismatch: %v", d.Issued)
	}
	if d.DueDays != 14 || d.Currency.String() != "CZK" {
		t.Fatalf("due-days/currency mismatch: %d %s", d.DueDays, d.Currency)
	}
	if d.IBAN.Electronic() != "CZ6508000000192000145399" {
		t.Fatalf("iban mismatch: %s", d.IBAN.Electronic())
	}
	if d.Note != "Děkuji, ${contractor.name}" {
		t.Fatalf("note mismatch: %q", d.Note)
	}

	if d.Contractor.Entity != nil || d.Contractor.ID != "27082440" {
		t.Fatalf("contractor should be a registry reference: %+v", d.Contractor)
	}
	client := d.Client.Entity
	if client == nil || client.Name != "Jan Novák" {
		t.Fatalf("client entity missing: %+v", d.Client)
	}
	if got := client.Address.SecondLine(); got != "120 00 Praha" {
		t.Fatalf("client address mismatch: %q", got)
	}
	if got := client.Address.FirstLine(); got != "Vodičkova 12/3" {
		t.Fatalf("client street mismatch: %q", got)
	}

	if vs, ok := d.Payment.(invoice.BankTransfer); !ok || vs.VariableSymbol != "202403" {
		t.Fatalf("payment mismatch: %#v", d.Payment)
	}

	if len(d.Items) != 4 {
		t.Fatalf("expected 4 items, got %d", len(d.Items))
	}
	wantPrices := []string{"150", "150", "75", "0"}
	for i, want := range wantPrices {
		if got := d.Items[i].Price().String(); got != want {
			t.Fatalf("item %d price: got %s want %s", i, got, want)
		}
	}
	if other, ok := d.Items[2].Kind.(invoice.Other); !ok || other.Unit != "paušál" {
		t.Fatalf("other item mismatch: %#v", d.Items[2].Kind)
	}
}

func TestDecodePaymentVariants(t *testing.T) {
	cases := map[string]invoice.PaymentMethod{
		`payment cash`:            invoice.Cash{},
		`payment card "A-17"`:     invoice.Card{Reference: "A-17"},
		`payment transfer`:        invoice.BankTransfer{},
		`payment transfer "1234"`: invoice.BankTransfer{VariableSymbol: "1234"},
	}
	for line, want := range cases {
		d, err := dsl.ParseDraft("invoice 1 {\n" + line + "\n}")
		if err != nil {
			t.Fatalf("%s: %v", line, err)
		}
		if d.Payment != want {
			t.Fatalf("%s: got %#v want %#v", line, d.Payment, want)
		}
	}
}

func TestDecodeErrors(t *testing.T) {
	cases := []string{
		"invoice 1 {\n  colour: red\n}",
		"invoice 1 {\n  draw 1 2\n}",
		"invoice 1 {\n  item hours \"x\" 100 \"a\"\n}",
		"invoice 1 {\n  item quantity 3 50\n}",
		"invoice 1 {\n  item pieces 3 50 \"a\"\n}",
		"invoice 1 {\n  payment bitcoin\n}",
		"invoice 1 {\n  client 27082441\n}",
		"invoice 1 {\n  client 27082440 { city: \"Praha\" }\n}",
		"invoice 1 {\n  issued: 2024-13-01\n}",
		"invoice 1 {\n  currency: XX\n}",
	}
	for _, input := range cases {
		if _, err := dsl.ParseDraft(input); !errors.Is(err, dsl.ErrInvalidInvoice) {
			t.Fatalf("expected ErrInvalidInvoice for %q, got %v", input, err)
		}
	}
}

func TestParseSyntaxError(t *testing.T) {
	if _, err := dsl.ParseString("invoice {"); err == nil {
		t.Fatalf("expected syntax error")
	}
}
