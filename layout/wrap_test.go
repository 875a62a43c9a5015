package layout

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func runeWidth(s string) float64 { return float64(utf8.RuneCountInString(s)) }

func TestWrapEmpty(t *testing.T) {
	for _, in := range []string{"", "   ", "\t\n"} {
		if lines := Wrap(in, 10, runeWidth); len(lines) != 0 {
			t.Fatalf("Wrap(%q) 应返回空切片，得到 %q", in, lines)
		}
	}
}

// 累加结果达到阈值时，越界的词与前面的词一起输出为一行。
func TestWrapFlushesOverflowingWord(t *testing.T) {
	lines := Wrap("alpha beta gamma delta epsilon", 12, runeWidth)
	want := []string{"alpha beta gamma", "delta epsilon"}
	if strings.Join(lines, "|") != strings.Join(want, "|") {
		t.Fatalf("expected %q, got %q", want, lines)
	}
}

func TestWrapNeverSplitsWords(t *testing.T) {
	text := "Programování   nového\tmodulu pro fakturaci a správa serveru supercalifragilistic"
	for _, width := range []float64{1, 5, 12, 30, 200} {
		lines := Wrap(text, width, runeWidth)
		words := map[string]bool{}
		for _, w := range strings.Fields(text) {
			words[w] = true
		}
		for _, line := range lines {
			for _, w := range strings.Split(line, " ") {
				if !words[w] {
					t.Fatalf("width %.0f: 词 %q 被拆开了 (%q)", width, w, lines)
				}
			}
		}
		if got, want := strings.Join(lines, " "), strings.Join(strings.Fields(text), " "); got != want {
			t.Fatalf("width %.0f: 拼接结果不一致\n got %q\nwant %q", width, got, want)
		}
	}
}

func TestWrapLongWordStaysWhole(t *testing.T) {
	lines := Wrap("supercalifragilistic", 3, runeWidth)
	if len(lines) != 1 || lines[0] != "supercalifragilistic" {
		t.Fatalf("expected the word on its own line, got %q", lines)
	}
}

func TestWrapFitsOnOneLine(t *testing.T) {
	lines := Wrap("krátký   popis", 100, runeWidth)
	if len(lines) != 1 || lines[0] != "krátký popis" {
		t.Fatalf("expected one collapsed line, got %q", lines)
	}
}
