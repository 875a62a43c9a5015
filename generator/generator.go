// Package generator 串联整个流程：草稿 → 发票 → 布局 → 渲染。
package generator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ByLCY/faktura/config"
	"github.com/ByLCY/faktura/invoice"
	"github.com/ByLCY/faktura/layout"
	"github.com/ByLCY/faktura/logger"
	"github.com/ByLCY/faktura/registry"
	"github.com/ByLCY/faktura/renderer"
	canvasrenderer "github.com/ByLCY/faktura/renderer/canvas"
	htmlrenderer "github.com/ByLCY/faktura/renderer/html"
)

// ErrUnsupportedFormat 表示请求了未配置渲染器的输出格式。
var ErrUnsupportedFormat = errors.New("unsupported output format")

// Options 配置生成器的依赖。
type Options struct {
	Defaults   invoice.Defaults
	Resolver   invoice.Resolver
	Typesetter layout.Typesetter
	Renderers  map[renderer.Format]renderer.Renderer
	NoteData   map[string]any
	Creator    string
	Logger     *logger.Logger
}

// Generator 可被多个 goroutine 共享。
type Generator struct {
	opts Options
	log  *logger.Logger
}

// Output 是一次生成的结果。
type Output struct {
	Invoice *invoice.Invoice
	Layout  *layout.Result
	Format  renderer.Format
	Data    []byte
}

// ContentType 返回输出的 MIME 类型。
func (o *Output) ContentType() string { return o.Format.ContentType() }

// New 创建生成器。
func New(opts Options) (*Generator, error) {
	if opts.Typesetter == nil {
		return nil, fmt.Errorf("generator: 缺少 Typesetter")
	}
	if len(opts.Renderers) == 0 {
		return nil, fmt.Errorf("generator: 至少需要一个渲染器")
	}
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}
	return &Generator{opts: opts, log: log.Child("component", "generator")}, nil
}

// FromConfig 按配置装配 PDF/HTML 渲染器与 ARES 客户端。stylesheetHref 为空时 HTML 内联样式。
func FromConfig(cfg *config.Config, log *logger.Logger, stylesheetHref string) (*Generator, error) {
	pdf, err := canvasrenderer.New(canvasrenderer.Options{})
	if err != nil {
		return nil, err
	}
	html, err := htmlrenderer.New(htmlrenderer.Options{
		Metrics:        pdf,
		StylesheetHref: stylesheetHref,
		Minify:         cfg.Output.HTMLMinify,
	})
	if err != nil {
		return nil, err
	}
	return New(Options{
		Defaults:   cfg.Invoice.Defaults(),
		Resolver:   registry.New(cfg.Registry.URL, cfg.Registry.Timeout),
		Typesetter: pdf,
		Renderers: map[renderer.Format]renderer.Renderer{
			renderer.FormatPDF:  pdf,
			renderer.FormatHTML: html,
		},
		Logger: log,
	})
}

// Renderer 返回指定格式的渲染器。
func (g *Generator) Renderer(format renderer.Format) (renderer.Renderer, error) {
	r, ok := g.opts.Renderers[format]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	return r, nil
}

// Layout 补全草稿并计算版式，不进行渲染。
func (g *Generator) Layout(ctx context.Context, draft invoice.Draft) (*invoice.Invoice, *layout.Result, error) {
	inv, err := draft.Build(ctx, g.opts.Resolver, g.opts.Defaults)
	if err != nil {
		return nil, nil, fmt.Errorf("构造发票失败: %w", err)
	}
	result, err := layout.Build(inv, layout.BuildOptions{
		Typesetter: g.opts.Typesetter,
		NoteData:   g.opts.NoteData,
		Creator:    g.opts.Creator,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("布局计算失败: %w", err)
	}
	return inv, result, nil
}

// Generate 生成指定格式的发票。
func (g *Generator) Generate(ctx context.Context, draft invoice.Draft, format renderer.Format) (*Output, error) {
	start := time.Now()
	r, err := g.Renderer(format)
	if err != nil {
		return nil, err
	}
	inv, result, err := g.Layout(ctx, draft)
	if err != nil {
		g.log.Warn().Err(err).Str("number", draft.Number.String()).Msg("发票生成失败")
		return nil, err
	}
	data, err := r.Render(result)
	if err != nil {
		return nil, fmt.Errorf("渲染 %s 失败: %w", format, err)
	}

	g.log.Info().
		Str("number", inv.Number().String()).
		Str("format", string(format)).
		Int("items", len(inv.Items())).
		Str("total", result.FormattedTotal).
		Int("bytes", len(data)).
		Dur("elapsed", time.Since(start)).
		Msg("发票已生成")

	return &Output{Invoice: inv, Layout: result, Format: format, Data: data}, nil
}

// WriteFile 生成发票并写入 path，渲染器的附带文件（样式表）写在同一目录下。
// 返回写入的全部文件路径（主文件在前）。
func (g *Generator) WriteFile(ctx context.Context, draft invoice.Draft, format renderer.Format, path string) ([]string, error) {
	if _, err := g.Renderer(format); err != nil {
		return nil, err
	}
	inv, result, err := g.Layout(ctx, draft)
	if err != nil {
		return nil, err
	}
	return g.WriteLayout(inv, result, format, path)
}

// WriteLayout 渲染已经计算好的版式并写入 path，不再访问登记处。
func (g *Generator) WriteLayout(inv *invoice.Invoice, result *layout.Result, format renderer.Format, path string) ([]string, error) {
	r, err := g.Renderer(format)
	if err != nil {
		return nil, err
	}
	files, err := renderer.Write(r, result, path)
	if err != nil {
		return nil, fmt.Errorf("输出 %s 失败: %w", format, err)
	}
	g.log.Info().
		Str("number", inv.Number().String()).
		Str("format", string(format)).
		Strs("files", files).
		Str("total", result.FormattedTotal).
		Msg("发票已写入")
	return files, nil
}
