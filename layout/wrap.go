package layout

import "strings"

// Wrap 按词贪心折行。逐词累加，当累加结果（含当前词）宽度 >= maxWidth 时，
// 连同该词一起作为一行输出；剩余的词组成最后一行。词不会被拆开，
// 连续空白视为一个空格，空文本返回空切片。
func Wrap(text string, maxWidth float64, measure MeasureFunc) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}
	var lines []string
	current := make([]string, 0, len(words))
	for _, word := range words {
		current = append(current, word)
		candidate := strings.Join(current, " ")
		if measure(candidate) >= maxWidth {
			lines = append(lines, candidate)
			current = current[:0]
		}
	}
	if len(current) > 0 {
		lines = append(lines, strings.Join(current, " "))
	}
	return lines
}
