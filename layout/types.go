package layout

import "github.com/shopspring/decimal"

// 该文件定义布局结果，供布局计算、渲染与调试 JSON 共用。
// 所有坐标与长度单位均为 mm，原点在页面左上角，y 轴向下；字号单位为 pt。

// Result 保存布局后的页面、元信息与金额合计。
type Result struct {
	Pages          []Page          `json:"pages"`
	Meta           DocumentMeta    `json:"meta"`
	Total          decimal.Decimal `json:"total"`
	FormattedTotal string          `json:"formattedTotal"`
	Currency       string          `json:"currency"`
}

// Color 采用 0-255 的 RGB 数值。
type Color struct {
	R int `json:"r"`
	G int `json:"g"`
	B int `json:"b"`
}

// FontRef 指向渲染器内置的字体。
type FontRef string

const (
	FontRegular FontRef = "regular"
	FontBold    FontRef = "bold"
)

// 文本水平对齐方式。
const (
	AlignLeft  = "left"
	AlignRight = "right"
)

// Page 记录页面尺寸、边距与按阶段生成的块。
type Page struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Margin Margin  `json:"margin"`
	Blocks []Block `json:"blocks"`
}

// Margin 以毫米为单位。
type Margin struct {
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
	Left   float64 `json:"left"`
}

// Block 是一个已定位的矩形区域及其图元，可嵌套子块（例如表格行）。
type Block struct {
	Name     string    `json:"name"`
	X        float64   `json:"x"`
	Y        float64   `json:"y"`
	Width    float64   `json:"width"`
	Height   float64   `json:"height"`
	Texts    []TextBox `json:"texts,omitempty"`
	Lines    []Line    `json:"lines,omitempty"`
	QRCodes  []QRBox   `json:"qrCodes,omitempty"`
	Children []Block   `json:"children,omitempty"`
}

// TextBox 表示一段单行文本。Y 为基线位置，Width 为测量出的宽度。
// 右对齐文本的 X 已经减去了宽度，渲染器无需再次计算。
type TextBox struct {
	Content  string  `json:"content"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Width    float64 `json:"width"`
	Font     FontRef `json:"font"`
	FontSize float64 `json:"fontSize"`
	Color    Color   `json:"color"`
	Align    string  `json:"align,omitempty"`
}

// Line 表示一条线段。
type Line struct {
	X1    float64 `json:"x1"`
	Y1    float64 `json:"y1"`
	X2    float64 `json:"x2"`
	Y2    float64 `json:"y2"`
	Color Color   `json:"color"`
	Width float64 `json:"width"` // 线宽（mm），<=0 时由渲染器给默认值
}

// QRBox 是一个已定位的二维码。Modules[y][x] 为 true 表示深色模块，背景透明。
type QRBox struct {
	X       float64  `json:"x"`
	Y       float64  `json:"y"`
	Size    float64  `json:"size"`
	Payload string   `json:"payload"`
	Modules [][]bool `json:"modules"`
	Color   Color    `json:"color"`
	Rounded bool     `json:"rounded"`
}

// ModuleSize 返回单个模块的边长（mm）。
func (q QRBox) ModuleSize() float64 {
	if len(q.Modules) == 0 {
		return 0
	}
	return q.Size / float64(len(q.Modules))
}

// DocumentMeta 保存 PDF/HTML 元信息。
type DocumentMeta struct {
	Title    string   `json:"title"`
	Author   string   `json:"author"`
	Subject  string   `json:"subject"`
	Creator  string   `json:"creator"`
	Keywords []string `json:"keywords"`
}

// Walk 先序遍历页面上的所有块（父块先于子块）。
func (p *Page) Walk(fn func(b *Block)) {
	for i := range p.Blocks {
		walkBlock(&p.Blocks[i], fn)
	}
}

func walkBlock(b *Block, fn func(b *Block)) {
	fn(b)
	for i := range b.Children {
		walkBlock(&b.Children[i], fn)
	}
}

// Find 返回第一个名称匹配的块。
func (p *Page) Find(name string) *Block {
	var found *Block
	p.Walk(func(b *Block) {
		if found == nil && b.Name == name {
			found = b
		}
	})
	return found
}
