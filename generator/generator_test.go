package generator

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ByLCY/faktura/iban"
	"github.com/ByLCY/faktura/invoice"
	"github.com/ByLCY/faktura/renderer"
	canvasrenderer "github.com/ByLCY/faktura/renderer/canvas"
	htmlrenderer "github.com/ByLCY/faktura/renderer/html"
)

var errLookup = errors.New("lookup failed")

type stubResolver map[invoice.RegistrationNumber]*invoice.Entity

func (s stubResolver) Resolve(_ context.Context, id invoice.RegistrationNumber) (*invoice.Entity, error) {
	if e, ok := s[id]; ok {
		return e, nil
	}
	return nil, errLookup
}

func entity(id, name string) *invoice.Entity {
	addr, _ := invoice.NewAddress("Vodičkova", 12, 3, "12000", "Praha")
	return &invoice.Entity{Identifier: invoice.RegistrationNumber(id), Name: name, Address: addr}
}

func newGenerator(t *testing.T, stylesheetHref string) *Generator {
	t.Helper()
	pdf, err := canvasrenderer.New(canvasrenderer.Options{})
	require.NoError(t, err)
	html, err := htmlrenderer.New(htmlrenderer.Options{Metrics: pdf, StylesheetHref: stylesheetHref})
	require.NoError(t, err)

	g, err := New(Options{
		Defaults: invoice.Defaults{
			Contractor: "27082440",
			IBAN:       iban.MustParse("CZ6508000000192000145399"),
			DueDays:    14,
			Now:        func() time.Time { return time.Date(2024, 3, 1, 9, 0, 0, 0, time.Local) },
		},
		Resolver:   stubResolver{"27082440": entity("27082440", "Alza.cz a.s.")},
		Typesetter: pdf,
		Renderers: map[renderer.Format]renderer.Renderer{
			renderer.FormatPDF:  pdf,
			renderer.FormatHTML: html,
		},
	})
	require.NoError(t, err)
	return g
}

func sampleDraft() invoice.Draft {
	t, _ := invoice.NewTime(1, 30)
	return invoice.Draft{
		Number: decimal.NewFromInt(202403),
		Client: invoice.PartyRef{Entity: entity("25596641", "Jan Novák")},
		Items: []invoice.Item{
			{Kind: invoice.Hours{Time: t}, Description: "Programování", PricePerUnit: decimal.NewFromInt(350)},
		},
	}
}

func TestGeneratePDF(t *testing.T) {
	g := newGenerator(t, "")
	out, err := g.Generate(context.Background(), sampleDraft(), renderer.FormatPDF)
	require.NoError(t, err)

	assert.True(t, bytes.HasPrefix(out.Data, []byte("%PDF")))
	assert.Equal(t, "application/pdf", out.ContentType())
	assert.Equal(t, "525,00 Kč", out.Layout.FormattedTotal)
	assert.Equal(t, "Alza.cz a.s.", out.Invoice.Contractor().Name)
	assert.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.Local), out.Invoice.Due())

	qr := out.Layout.Pages[0].Find("payment-qr")
	require.NotNil(t, qr)
	assert.Equal(t, "SPD*1.0*ACC:CZ6508000000192000145399*AM:525.00*CC:CZK*X-VS:202403", qr.QRCodes[0].Payload)
}

func TestGenerateHTML(t *testing.T) {
	g := newGenerator(t, "")
	out, err := g.Generate(context.Background(), sampleDraft(), renderer.FormatHTML)
	require.NoError(t, err)

	assert.Contains(t, string(out.Data), "525,00 Kč")
	assert.Contains(t, string(out.Data), "Jan Novák")
	assert.Equal(t, "text/html; charset=utf-8", out.ContentType())
}

func TestGenerateErrors(t *testing.T) {
	g := newGenerator(t, "")

	_, err := g.Generate(context.Background(), sampleDraft(), renderer.Format("docx"))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	draft := sampleDraft()
	draft.Client = invoice.PartyRef{ID: "25596641"}
	_, err = g.Generate(context.Background(), draft, renderer.FormatPDF)
	assert.ErrorIs(t, err, errLookup)
}

func TestWriteFileWithStylesheet(t *testing.T) {
	g := newGenerator(t, htmlrenderer.StylesheetName)
	path := filepath.Join(t.TempDir(), "faktura-202403.html")

	files, err := g.WriteFile(context.Background(), sampleDraft(), renderer.FormatHTML, path)
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, path, files[0])

	_, err = os.Stat(filepath.Join(filepath.Dir(path), htmlrenderer.StylesheetName))
	assert.NoError(t, err)
}

type countingResolver struct {
	invoice.Resolver
	calls int
}

func (c *countingResolver) Resolve(ctx context.Context, id invoice.RegistrationNumber) (*invoice.Entity, error) {
	c.calls++
	return c.Resolver.Resolve(ctx, id)
}

func TestWriteLayoutReusesResolvedInvoice(t *testing.T) {
	g := newGenerator(t, "")
	counter := &countingResolver{Resolver: g.opts.Resolver}
	g.opts.Resolver = counter

	inv, result, err := g.Layout(context.Background(), sampleDraft())
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "faktura.pdf")
	files, err := g.WriteLayout(inv, result, renderer.FormatPDF, path)
	require.NoError(t, err)

	assert.Equal(t, []string{path}, files)
	assert.Equal(t, 1, counter.calls)

	_, err = g.WriteLayout(inv, result, renderer.Format("docx"), path)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestNewValidatesOptions(t *testing.T) {
	_, err := New(Options{})
	assert.Error(t, err)
}
