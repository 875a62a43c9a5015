package layout

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool { return math.Abs(a-b) < 1e-6 }

func TestPtMmRoundTrip(t *testing.T) {
	for _, v := range []float64{0, 1, 2.25, 10, 17.5} {
		if got := ToPt(FromPt(v)); !almostEqual(got, v) {
			t.Fatalf("round trip %v -> %v", v, got)
		}
	}
	if got := FromPt(72); !almostEqual(got, 72*PtToMm) {
		t.Fatalf("72pt should be %.4fmm, got %.4f", 72*PtToMm, got)
	}
}
