package renderer

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/ByLCY/faktura/layout"
)

// ErrRenderIO 表示输出文件写入失败，目标文件保持原样。
var ErrRenderIO = errors.New("render output write failed")

// WriteFile 先写入同目录下的临时文件，同步并关闭后再改名为目标文件；
// 任何一步失败都会删除临时文件。
func WriteFile(path string, data []byte) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%w: 创建输出目录失败: %v", ErrRenderIO, err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("%w: 创建临时文件失败: %v", ErrRenderIO, err)
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmpName)
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		return fmt.Errorf("%w: 写入 %s 失败: %v", ErrRenderIO, path, err)
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("%w: 同步 %s 失败: %v", ErrRenderIO, path, err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("%w: 关闭 %s 失败: %v", ErrRenderIO, path, err)
	}
	if err = os.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("%w: 设置 %s 权限失败: %v", ErrRenderIO, path, err)
	}
	if err = os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("%w: 重命名到 %s 失败: %v", ErrRenderIO, path, err)
	}
	return nil
}

// Write 渲染结果并写入 path；若渲染器提供附带文件，则写在同一目录下。
// 返回写入的全部文件路径（主文件在前）。
func Write(r Renderer, result *layout.Result, path string) ([]string, error) {
	if r == nil {
		return nil, fmt.Errorf("renderer 不能为空")
	}
	data, err := r.Render(result)
	if err != nil {
		return nil, err
	}
	var assets map[string][]byte
	if ap, ok := r.(AssetProvider); ok {
		if assets, err = ap.Assets(); err != nil {
			return nil, err
		}
	}
	// 先写主文件，再写附带文件。
	if err := WriteFile(path, data); err != nil {
		return nil, err
	}
	if err := WriteAssets(path, assets); err != nil {
		return nil, err
	}
	written := []string{path}
	for _, name := range sortedNames(assets) {
		written = append(written, filepath.Join(filepath.Dir(path), name))
	}
	return written, nil
}

// WriteAssets 把附带文件写在 path 所在目录下。
func WriteAssets(path string, assets map[string][]byte) error {
	dir := filepath.Dir(path)
	for _, name := range sortedNames(assets) {
		if err := WriteFile(filepath.Join(dir, name), assets[name]); err != nil {
			return err
		}
	}
	return nil
}

func sortedNames(assets map[string][]byte) []string {
	names := make([]string, 0, len(assets))
	for name := range assets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
