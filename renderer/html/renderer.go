package htmlrenderer

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/a-h/templ"
	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/css"
	minhtml "github.com/tdewolff/minify/v2/html"

	"github.com/ByLCY/faktura/layout"
	"github.com/ByLCY/faktura/renderer"
)

// FontMetrics 提供把基线换算为 CSS top 所需的纵向字体度量（mm）。
type FontMetrics interface {
	Ascent(font layout.FontRef, size float64) float64
	Descent(font layout.FontRef, size float64) float64
}

// Options 配置 HTML 渲染器。
type Options struct {
	Metrics FontMetrics
	// StylesheetHref 非空时引用外部样式表，否则内联 <style>。
	StylesheetHref string
	// Minify 压缩输出的 HTML/CSS。
	Minify bool
}

// Renderer 将布局结果输出为一张绝对定位的 HTML 页面，坐标沿用布局的毫米单位。
type Renderer struct {
	opts     Options
	minifier *minify.M
}

var (
	_ renderer.Renderer      = (*Renderer)(nil)
	_ renderer.AssetProvider = (*Renderer)(nil)
)

// New 创建 HTML 渲染器。
func New(opts Options) (*Renderer, error) {
	if opts.Metrics == nil {
		return nil, fmt.Errorf("html: 缺少字体度量 Metrics")
	}
	r := &Renderer{opts: opts}
	if opts.Minify {
		m := minify.New()
		m.AddFunc("text/css", css.Minify)
		m.AddFunc("text/html", minhtml.Minify)
		r.minifier = m
	}
	return r, nil
}

// Render 渲染为 HTML 文档。
func (r *Renderer) Render(result *layout.Result) ([]byte, error) {
	if result == nil {
		return nil, fmt.Errorf("渲染结果为空")
	}
	if len(result.Pages) == 0 {
		return nil, fmt.Errorf("缺少可渲染的页面")
	}

	var style string
	if r.opts.StylesheetHref == "" {
		s, err := Stylesheet()
		if err != nil {
			return nil, err
		}
		style = s
	}

	var buf bytes.Buffer
	if err := document(r.documentView(result, style)).Render(context.Background(), &buf); err != nil {
		return nil, fmt.Errorf("生成 HTML 失败: %w", err)
	}
	if r.minifier == nil {
		return buf.Bytes(), nil
	}
	out, err := r.minifier.Bytes("text/html", buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("压缩 HTML 失败: %w", err)
	}
	return out, nil
}

// Assets 在使用外部样式表时返回需要写在 HTML 旁边的样式表文件。
func (r *Renderer) Assets() (map[string][]byte, error) {
	if r.opts.StylesheetHref == "" {
		return nil, nil
	}
	style, err := Stylesheet()
	if err != nil {
		return nil, err
	}
	data := []byte(style)
	if r.minifier != nil {
		if data, err = r.minifier.Bytes("text/css", data); err != nil {
			return nil, fmt.Errorf("压缩样式表失败: %w", err)
		}
	}
	return map[string][]byte{StylesheetName: data}, nil
}

// documentView 以及下面的视图类型是模板的输入，坐标已格式化为毫米字符串。
type documentView struct {
	Title   string
	Author  string
	Creator string
	Style   string
	Href    string
	Pages   []pageView
}

type pageView struct {
	Style   templ.SafeCSS
	Width   string
	Height  string
	ViewBox string
	Lines   []lineView
	QRCodes []qrView
	Texts   []textView
}

type lineView struct {
	X1, Y1, X2, Y2 string
	Stroke         string
	StrokeWidth    string
}

// qrView 每个深色模块一个 rect，背景透明。
type qrView struct {
	Fill    string
	Payload string
	Modules []moduleView
}

type moduleView struct {
	X, Y, Size, Radius string
}

type textView struct {
	Bold    bool
	Block   string
	Style   templ.SafeCSS
	Content string
}

func (r *Renderer) documentView(result *layout.Result, style string) documentView {
	v := documentView{
		Title:   result.Meta.Title,
		Author:  result.Meta.Author,
		Creator: result.Meta.Creator,
		Style:   style,
		Href:    r.opts.StylesheetHref,
	}
	for i := range result.Pages {
		v.Pages = append(v.Pages, r.pageView(&result.Pages[i]))
	}
	return v
}

// pageView 先收集线与二维码（画在整页 SVG 中），再收集绝对定位的文本。
func (r *Renderer) pageView(p *layout.Page) pageView {
	w, h := mm(p.Width), mm(p.Height)
	v := pageView{
		Style:   templ.SafeCSS("width:" + w + "mm;height:" + h + "mm"),
		Width:   w + "mm",
		Height:  h + "mm",
		ViewBox: "0 0 " + w + " " + h,
	}
	p.Walk(func(b *layout.Block) {
		for _, ln := range b.Lines {
			v.Lines = append(v.Lines, lineView{
				X1: mm(ln.X1), Y1: mm(ln.Y1), X2: mm(ln.X2), Y2: mm(ln.Y2),
				Stroke:      rgb(ln.Color),
				StrokeWidth: mm(strokeWidth(ln.Width)),
			})
		}
		for _, q := range b.QRCodes {
			if qv, ok := qrCodeView(q); ok {
				v.QRCodes = append(v.QRCodes, qv)
			}
		}
	})
	p.Walk(func(b *layout.Block) {
		for _, tb := range b.Texts {
			if tb.Content == "" {
				continue
			}
			v.Texts = append(v.Texts, textView{
				Bold:    tb.Font == layout.FontBold,
				Block:   b.Name,
				Style:   templ.SafeCSS(fmt.Sprintf("left:%smm;top:%smm;font-size:%spt;color:%s", mm(tb.X), mm(r.top(tb)), mm(tb.FontSize), rgb(tb.Color))),
				Content: tb.Content,
			})
		}
	})
	return v
}

// top 把基线换算为 line-height:1 的行框顶边。
// 行框高一个 em，字形框（上升部加下降部）在其中垂直居中。
func (r *Renderer) top(tb layout.TextBox) float64 {
	ascent := r.opts.Metrics.Ascent(tb.Font, tb.FontSize)
	descent := r.opts.Metrics.Descent(tb.Font, tb.FontSize)
	em := layout.FromPt(tb.FontSize)
	return tb.Y - ascent + (ascent+descent-em)/2
}

func qrCodeView(q layout.QRBox) (qrView, bool) {
	size := q.ModuleSize()
	if size <= 0 {
		return qrView{}, false
	}
	radius := "0"
	if q.Rounded {
		radius = mm(size * 0.25)
	}
	v := qrView{Fill: rgb(q.Color), Payload: q.Payload}
	for y, row := range q.Modules {
		for x, dark := range row {
			if !dark {
				continue
			}
			v.Modules = append(v.Modules, moduleView{
				X:      mm(q.X + float64(x)*size),
				Y:      mm(q.Y + float64(y)*size),
				Size:   mm(size),
				Radius: radius,
			})
		}
	}
	return v, true
}

func strokeWidth(w float64) float64 {
	if w <= 0 {
		return 0.2
	}
	return w
}

// mm 保留三位小数并去掉多余的零。
func mm(v float64) string {
	s := strconv.FormatFloat(v, 'f', 3, 64)
	s = strings.TrimRight(s, "0")
	s = strings.TrimSuffix(s, ".")
	if s == "-0" {
		return "0"
	}
	return s
}

func rgb(c layout.Color) string { return fmt.Sprintf("rgb(%d,%d,%d)", c.R, c.G, c.B) }
