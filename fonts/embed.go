// Package fonts 提供渲染器内置的字体数据（Go 字体家族，覆盖捷克语字符与 € 符号）。
package fonts

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
)

// ErrUnknownFont 表示请求了未内置的字体。
var ErrUnknownFont = errors.New("unknown built-in font")

// 内置字体名称。
const (
	Regular = "regular"
	Bold    = "bold"
)

// Family 是内置字体在 CSS/PDF 中使用的族名。
const Family = "Go"

var builtin = map[string][]byte{
	Regular: goregular.TTF,
	Bold:    gobold.TTF,
}

// Load 返回内置字体的 TTF 数据，name 可写为 "regular" 或 "embed:bold"。
// 返回的切片与包内共享，调用方不得修改。
func Load(name string) ([]byte, error) {
	key := strings.ToLower(strings.TrimPrefix(name, "embed:"))
	data, ok := builtin[key]
	if !ok || len(data) == 0 {
		return nil, fmt.Errorf("读取内置字体 %s 失败: %w", name, ErrUnknownFont)
	}
	return data, nil
}

// Names 返回所有内置字体名称。
func Names() []string { return []string{Regular, Bold} }
