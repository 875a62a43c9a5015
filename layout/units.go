package layout

// pt 与 mm 之间的换算常量。
const (
	PtToMm = 0.352777
	MmToPt = 1.0 / PtToMm
)

// FromPt 将点(pt)转换为毫米(mm)。
func FromPt(pt float64) float64 { return pt * PtToMm }

// ToPt 将毫米(mm)转换为点(pt)。
func ToPt(mm float64) float64 { return mm * MmToPt }
