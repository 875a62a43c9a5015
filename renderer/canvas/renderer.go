package canvasrenderer

import (
	"bytes"
	"errors"
	"fmt"
	"image/color"
	"strings"
	"sync"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/pdf"

	"github.com/ByLCY/faktura/fonts"
	"github.com/ByLCY/faktura/layout"
	"github.com/ByLCY/faktura/renderer"
)

// ErrFontMetricsUnavailable 表示内置字体无法加载，无法测量文本。
var ErrFontMetricsUnavailable = errors.New("font metrics unavailable")

const defaultStrokeWidth = 0.2

// Renderer 通过 github.com/tdewolff/canvas 绘制布局结果并输出 PDF，
// 同时作为布局阶段的 Typesetter 提供文本度量。
type Renderer struct {
	families map[layout.FontRef]*fontFamilyEntry

	fontMu sync.Mutex
	faces  map[faceKey]*canvas.FontFace
}

var (
	_ renderer.Renderer = (*Renderer)(nil)
	_ layout.Typesetter = (*Renderer)(nil)
)

type fontFamilyEntry struct {
	family *canvas.FontFamily
	style  canvas.FontStyle
}

type faceKey struct {
	font  layout.FontRef
	size  float64
	color layout.Color
}

// Options 配置 canvas 渲染器。
type Options struct {
	// Fonts 覆盖内置字体数据，键为 layout.FontRegular / layout.FontBold。
	Fonts map[layout.FontRef][]byte
}

// New 加载字体并创建渲染器。字体只在此处加载一次，之后只读共享。
func New(opts Options) (*Renderer, error) {
	r := &Renderer{
		families: map[layout.FontRef]*fontFamilyEntry{},
		faces:    map[faceKey]*canvas.FontFace{},
	}
	for _, ref := range []layout.FontRef{layout.FontRegular, layout.FontBold} {
		data := opts.Fonts[ref]
		if len(data) == 0 {
			blob, err := fonts.Load(string(ref))
			if err != nil {
				return nil, fmt.Errorf("%w: %v", ErrFontMetricsUnavailable, err)
			}
			data = blob
		}
		style := parseFontStyle(ref)
		family := canvas.NewFontFamily(fonts.Family + "-" + string(ref))
		if err := family.LoadFont(data, 0, style); err != nil {
			return nil, fmt.Errorf("%w: 加载字体 %s 失败: %v", ErrFontMetricsUnavailable, ref, err)
		}
		r.families[ref] = &fontFamilyEntry{family: family, style: style}
	}
	return r, nil
}

// Measure 实现 layout.Typesetter：各词宽度之和加上词间空格宽度（mm）。
func (r *Renderer) Measure(text string, font layout.FontRef, size float64) float64 {
	words := strings.Fields(text)
	if len(words) == 0 {
		return 0
	}
	face := r.fontFace(font, size, layout.Black)
	width := 0.0
	for _, w := range words {
		width += face.TextWidth(w)
	}
	return width + float64(len(words)-1)*face.TextWidth(" ")
}

// SpaceWidth 返回空格的宽度（mm）。
func (r *Renderer) SpaceWidth(font layout.FontRef, size float64) float64 {
	return r.fontFace(font, size, layout.Black).TextWidth(" ")
}

// Ascent 返回字体上升部高度（mm）。
func (r *Renderer) Ascent(font layout.FontRef, size float64) float64 {
	return r.fontFace(font, size, layout.Black).Metrics().Ascent
}

// Descent 返回字体下降部深度（mm，正值）。
func (r *Renderer) Descent(font layout.FontRef, size float64) float64 {
	return r.fontFace(font, size, layout.Black).Metrics().Descent
}

// Render 将结果渲染为 PDF 字节切片。
func (r *Renderer) Render(result *layout.Result) ([]byte, error) {
	if result == nil {
		return nil, fmt.Errorf("渲染结果为空")
	}
	if len(result.Pages) == 0 {
		return nil, fmt.Errorf("缺少可渲染的页面")
	}

	var buf bytes.Buffer
	writer := pdf.New(&buf, result.Pages[0].Width, result.Pages[0].Height, nil)
	applyMeta(writer, result.Meta)
	for i, page := range result.Pages {
		if i > 0 {
			writer.NewPage(page.Width, page.Height)
		}
		c := canvas.New(page.Width, page.Height)
		ctx := canvas.NewContext(c)
		ctx.SetCoordSystem(canvas.CartesianIV) // 使坐标与布局保持左上角为原点

		page.Walk(func(b *layout.Block) { r.drawBlock(ctx, b) })
		c.RenderTo(writer)
	}

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("写入 PDF 失败: %w", err)
	}
	return buf.Bytes(), nil
}

func applyMeta(writer *pdf.PDF, meta layout.DocumentMeta) {
	keywords := strings.Join(meta.Keywords, ", ")
	writer.SetInfo(meta.Title, meta.Subject, keywords, meta.Author, meta.Creator)
}

// drawBlock 先画线（作为背景），再画二维码与文本。子块由 Walk 负责。
func (r *Renderer) drawBlock(ctx *canvas.Context, b *layout.Block) {
	drawLines(ctx, b.Lines)
	for _, q := range b.QRCodes {
		drawQR(ctx, q)
	}
	for _, tb := range b.Texts {
		r.drawTextBox(ctx, tb)
	}
}

// drawTextBox 在基线位置绘制文本。右对齐的 X 已由布局算好，这里统一左对齐绘制。
func (r *Renderer) drawTextBox(ctx *canvas.Context, tb layout.TextBox) {
	if tb.Content == "" {
		return
	}
	face := r.fontFace(tb.Font, tb.FontSize, tb.Color)
	ctx.DrawText(tb.X, tb.Y, canvas.NewTextLine(face, tb.Content, canvas.Left))
}

// drawLines 绘制直线列表（毫米单位）
func drawLines(ctx *canvas.Context, lines []layout.Line) {
	for _, ln := range lines {
		w := ln.Width
		if w <= 0 {
			w = defaultStrokeWidth
		}
		ctx.SetFillColor(color.RGBA{0, 0, 0, 0})
		ctx.SetStrokeColor(colorFromLayout(ln.Color))
		ctx.SetStrokeWidth(w)
		p := &canvas.Path{}
		p.MoveTo(0, 0)
		p.LineTo(ln.X2-ln.X1, ln.Y2-ln.Y1)
		ctx.DrawPath(ln.X1, ln.Y1, p)
	}
}

// drawQR 将每个深色模块绘制为填充方块；Rounded 时使用小圆角，背景保持透明。
func drawQR(ctx *canvas.Context, q layout.QRBox) {
	size := q.ModuleSize()
	if size <= 0 {
		return
	}
	ctx.SetStrokeColor(color.RGBA{0, 0, 0, 0})
	ctx.SetStrokeWidth(0)
	ctx.SetFillColor(colorFromLayout(q.Color))
	cell := canvas.Rectangle(size, size)
	if q.Rounded {
		cell = canvas.RoundedRectangle(size, size, size*0.25)
	}
	for y, row := range q.Modules {
		for x, dark := range row {
			if dark {
				ctx.DrawPath(q.X+float64(x)*size, q.Y+float64(y)*size, cell)
			}
		}
	}
}

// fontFace 返回缓存的字体面；size 单位为 pt。
func (r *Renderer) fontFace(font layout.FontRef, size float64, col layout.Color) *canvas.FontFace {
	key := faceKey{font: font, size: size, color: col}
	r.fontMu.Lock()
	defer r.fontMu.Unlock()

	if face, ok := r.faces[key]; ok {
		return face
	}
	entry, ok := r.families[font]
	if !ok {
		entry = r.families[layout.FontRegular]
	}
	face := entry.family.Face(size, colorFromLayout(col), entry.style, canvas.FontNormal)
	r.faces[key] = face
	return face
}

func parseFontStyle(ref layout.FontRef) canvas.FontStyle {
	if ref == layout.FontBold {
		return canvas.FontBold
	}
	return canvas.FontRegular
}

func colorFromLayout(c layout.Color) color.Color {
	return canvas.RGBA(float64(c.R)/255.0, float64(c.G)/255.0, float64(c.B)/255.0, 1.0)
}
