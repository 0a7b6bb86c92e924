package prompt

import "strings"

// Builder 用固定的说明文字包裹文章文本
type Builder struct {
	Preamble string
	Suffix   string
}

// Build 返回 Preamble、原文、Suffix 以空行分隔的 prompt，原文不做任何截断或转义
func (b Builder) Build(text string) string {
	var sb strings.Builder
	sb.Grow(len(b.Preamble) + len(text) + len(b.Suffix) + 4)
	sb.WriteString(b.Preamble)
	sb.WriteString("\n\n")
	sb.WriteString(text)
	if b.Suffix != "" {
		sb.WriteString("\n\n")
		sb.WriteString(b.Suffix)
	}
	return sb.String()
}
