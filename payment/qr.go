package payment

import (
	"github.com/boombuler/barcode/qr"
)

// Matrix 是二维码模块矩阵（不含静区），Modules[y][x] 为 true 表示深色。
type Matrix struct {
	Size    int      `json:"size"`
	Modules [][]bool `json:"modules"`
}

// Encode 以 M 级纠错生成二维码。
func Encode(content string) (*Matrix, error) {
	code, err := qr.Encode(content, qr.M, qr.Auto)
	if err != nil {
		return nil, err
	}
	bounds := code.Bounds()
	size := bounds.Dx()
	modules := make([][]bool, size)
	for y := 0; y < size; y++ {
		row := make([]bool, size)
		for x := 0; x < size; x++ {
			r, _, _, _ := code.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			row[x] = r == 0
		}
		modules[y] = row
	}
	return &Matrix{Size: size, Modules: modules}, nil
}

// Dark 报告 (x, y) 处是否为深色模块，越界返回 false。
func (m *Matrix) Dark(x, y int) bool {
	if m == nil || y < 0 || y >= len(m.Modules) || x < 0 || x >= len(m.Modules[y]) {
		return false
	}
	return m.Modules[y][x]
}
