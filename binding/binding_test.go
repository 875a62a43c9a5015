package binding

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestInterpolate(t *testing.T) {
	data := map[string]any{
		"invoice": map[string]any{"number": "202403", "total": decimal.RequireFromString("525.5")},
		"client":  map[string]string{"name": "Acme s.r.o."},
		"items":   []any{map[string]any{"description": "Programování"}},
		"tags":    []string{"a", "b"},
	}
	tests := []struct {
		in   string
		want string
	}{
		{"Faktura ${invoice.number}", "Faktura 202403"},
		{"${ client.name }", "Acme s.r.o."},
		{"${items[0].description}", "Programování"},
		{"${tags[1]}", "b"},
		{"${invoice.total}", "525.5"},
		{"${missing.path}", "${missing.path}"},
		{"${missing|bez poznámky}", "bez poznámky"},
		{"${items[3].description}", "${items[3].description}"},
		{"${items[x]}", "${items[x]}"},
		{"bez placeholderu", "bez placeholderu"},
	}
	for _, tt := range tests {
		if got := Interpolate(tt.in, data); got != tt.want {
			t.Fatalf("Interpolate(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestInterpolateNilData(t *testing.T) {
	if got := Interpolate("${a.b}", nil); got != "${a.b}" {
		t.Fatalf("nil data should keep placeholders, got %q", got)
	}
	if got := Interpolate("${a.b|x}", nil); got != "x" {
		t.Fatalf("nil data should use the fallback, got %q", got)
	}
}

func TestPlaceholders(t *testing.T) {
	got := Placeholders("${invoice.number} a ${client.name|?} a ${ }")
	if len(got) != 2 || got[0] != "invoice.number" || got[1] != "client.name" {
		t.Fatalf("unexpected placeholders %q", got)
	}
}
