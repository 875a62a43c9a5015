package renderer

import "github.com/ByLCY/faktura/layout"

// Renderer 将布局结果输出为最终文件，例如 PDF 或 HTML。
// Render 返回生成的数据以及可能的错误。
type Renderer interface {
	Render(result *layout.Result) ([]byte, error)
}

// AssetProvider 由需要附带文件（例如样式表）的渲染器实现。
// 返回的键是相对于主输出文件所在目录的文件名。
type AssetProvider interface {
	Assets() (map[string][]byte, error)
}

// Format 是输出格式。
type Format string

const (
	FormatPDF  Format = "pdf"
	FormatHTML Format = "html"
)

// Extension 返回格式对应的文件扩展名。
func (f Format) Extension() string { return "." + string(f) }

// ContentType 返回格式对应的 MIME 类型。
func (f Format) ContentType() string {
	switch f {
	case FormatHTML:
		return "text/html; charset=utf-8"
	default:
		return "application/pdf"
	}
}
