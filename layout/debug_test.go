package layout

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestEncodeDebugJSON(t *testing.T) {
	res := &Result{
		FormattedTotal: "525,00 Kč",
		Currency:       "CZK",
		Pages: []Page{{
			Width: PageWidth, Height: PageHeight,
			Blocks: []Block{{Name: "items", Children: []Block{{Name: "item-0"}}}},
		}},
	}
	var buf bytes.Buffer
	if err := EncodeDebugJSON(&buf, res); err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	if !strings.Contains(buf.String(), `"formattedTotal": "525,00 Kč"`) {
		t.Fatalf("total missing from debug output:\n%s", buf.String())
	}

	var decoded Result
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("debug output is not valid JSON: %v", err)
	}
	if decoded.Pages[0].Find("item-0") == nil {
		t.Fatalf("nested block lost in debug output")
	}
}

func TestEncodeDebugJSONNil(t *testing.T) {
	if err := EncodeDebugJSON(&bytes.Buffer{}, nil); err == nil {
		t.Fatalf("expected error for nil result")
	}
}
