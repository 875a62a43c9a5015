package layout

// BuildOptions 配置布局阶段所需的依赖，例如排版后端。
type BuildOptions struct {
	Typesetter Typesetter
	// NoteData 合并到备注插值数据中（${key.path}）。
	NoteData map[string]any
	Creator  string
}

// Typesetter 提供文本度量。宽度与上升部单位为 mm，字号单位为 pt。
type Typesetter interface {
	// Measure 返回按词测量的宽度：各词宽度之和加 (词数-1) 个空格宽度，空文本为 0。
	Measure(text string, font FontRef, size float64) float64
	SpaceWidth(font FontRef, size float64) float64
	Ascent(font FontRef, size float64) float64
}

// MeasureFunc 测量单行文本宽度（mm）。
type MeasureFunc func(text string) float64
