package htmlrenderer

import (
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/ByLCY/faktura/fonts"
)

// StylesheetName 是外部样式表的文件名。
const StylesheetName = "invoice.css"

// Stylesheet 返回页面样式，内置字体以 data URI 的形式嵌入。
func Stylesheet() (string, error) {
	var sb strings.Builder
	for _, name := range fonts.Names() {
		data, err := fonts.Load(name)
		if err != nil {
			return "", err
		}
		weight := 400
		if name == fonts.Bold {
			weight = 700
		}
		fmt.Fprintf(&sb, "@font-face{font-family:%q;font-weight:%d;src:url(data:font/ttf;base64,%s) format(\"truetype\");}\n",
			fonts.Family, weight, base64.StdEncoding.EncodeToString(data))
	}
	sb.WriteString(baseCSS)
	return sb.String(), nil
}

const baseCSS = `html, body { margin: 0; padding: 0; background: #e8e8e8; }
.page {
  position: relative;
  margin: 10mm auto;
  background: #fff;
  overflow: hidden;
  font-family: "Go", sans-serif;
}
.page > svg { position: absolute; left: 0; top: 0; }
.t { position: absolute; white-space: pre; line-height: 1; }
.b { font-weight: 700; }
@media print {
  html, body { background: none; }
  .page { margin: 0; }
  @page { size: A4; margin: 0; }
}
`
