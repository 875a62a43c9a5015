package canvasrenderer

import (
	"bytes"
	"errors"
	"math"
	"testing"

	"github.com/ByLCY/faktura/layout"
)

func newRenderer(t *testing.T) *Renderer {
	t.Helper()
	r, err := New(Options{})
	if err != nil {
		t.Fatalf("创建渲染器失败: %v", err)
	}
	return r
}

func TestMeasureIsDeterministic(t *testing.T) {
	r := newRenderer(t)
	a := r.Measure("Programování webu", layout.FontRegular, 10)
	b := r.Measure("Programování webu", layout.FontRegular, 10)
	if a <= 0 || a != b {
		t.Fatalf("expected stable positive width, got %g and %g", a, b)
	}
}

// 宽度应等于各词宽度之和加上 (词数-1) 个空格宽度。
func TestMeasureSumsWordsAndSpaces(t *testing.T) {
	r := newRenderer(t)
	words := []string{"Faktura", "2024", "Kč"}
	want := 0.0
	for _, w := range words {
		want += r.Measure(w, layout.FontBold, 17.5)
	}
	want += 2 * r.SpaceWidth(layout.FontBold, 17.5)

	got := r.Measure("Faktura 2024 Kč", layout.FontBold, 17.5)
	if math.Abs(got-want) > 1e-9 {
		t.Fatalf("width mismatch: got=%g want=%g", got, want)
	}
	// 多余空白不影响结果
	if spaced := r.Measure("  Faktura   2024 Kč ", layout.FontBold, 17.5); math.Abs(spaced-got) > 1e-9 {
		t.Fatalf("whitespace changed width: %g vs %g", spaced, got)
	}
}

func TestMeasureEmptyIsZero(t *testing.T) {
	r := newRenderer(t)
	if w := r.Measure("", layout.FontRegular, 10); w != 0 {
		t.Fatalf("expected 0 for empty text, got %g", w)
	}
	if w := r.Measure("   ", layout.FontRegular, 10); w != 0 {
		t.Fatalf("expected 0 for blank text, got %g", w)
	}
}

func TestMeasureScalesWithSize(t *testing.T) {
	r := newRenderer(t)
	small := r.Measure("Odběratel", layout.FontRegular, 10)
	large := r.Measure("Odběratel", layout.FontRegular, 20)
	if math.Abs(large-2*small) > 1e-3 {
		t.Fatalf("expected linear scaling, got %g vs %g", small, large)
	}
	if r.Ascent(layout.FontRegular, 10) <= 0 {
		t.Fatalf("ascent must be positive")
	}
	if d := r.Descent(layout.FontRegular, 10); d <= 0 || d >= r.Ascent(layout.FontRegular, 10) {
		t.Fatalf("descent must be positive and below ascent, got %g", d)
	}
}

func TestNewRejectsBrokenFont(t *testing.T) {
	_, err := New(Options{Fonts: map[layout.FontRef][]byte{layout.FontBold: []byte("not a font")}})
	if !errors.Is(err, ErrFontMetricsUnavailable) {
		t.Fatalf("expected ErrFontMetricsUnavailable, got %v", err)
	}
}

func TestRenderProducesPDF(t *testing.T) {
	r := newRenderer(t)
	page := layout.Page{
		Width:  layout.PageWidth,
		Height: layout.PageHeight,
		Blocks: []layout.Block{{
			Name:  "heading",
			Texts: []layout.TextBox{{Content: "Faktura 2024001", X: 116, Y: 18, Font: layout.FontBold, FontSize: 17.5}},
			Lines: []layout.Line{{X1: 116, Y1: 10.5, X2: 200, Y2: 10.5, Width: 0.8, Color: layout.Gray}},
			QRCodes: []layout.QRBox{{
				X: 10, Y: 200, Size: 40, Rounded: true,
				Modules: [][]bool{{true, false}, {false, true}},
			}},
		}},
	}
	out, err := r.Render(&layout.Result{
		Pages: []layout.Page{page},
		Meta:  layout.DocumentMeta{Title: "Faktura 2024001", Creator: "faktura"},
	})
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if !bytes.HasPrefix(out, []byte("%PDF")) {
		t.Fatalf("output is not a PDF: %q", out[:min(len(out), 16)])
	}
}

func TestRenderRejectsEmptyResult(t *testing.T) {
	r := newRenderer(t)
	if _, err := r.Render(nil); err == nil {
		t.Fatalf("expected error for nil result")
	}
	if _, err := r.Render(&layout.Result{}); err == nil {
		t.Fatalf("expected error for result without pages")
	}
}
