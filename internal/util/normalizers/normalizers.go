package normalizers

import (
	"strings"
)

const Indentation = `  `

type source struct {
	string
}

// LongDesc trims a command's long description so heredoc-style literals can
// keep their leading newline in source.
func LongDesc(s string) string {
	return source{s}.trim().string
}

// Examples trims and indents a command's examples block.
func Examples(s string) string {
	if len(s) == 0 {
		return s
	}
	return source{s}.trim().indent().string
}

func (s source) trim() source {
	s.string = strings.TrimSpace(s.string)
	return s
}

func (s source) indent() source {
	indentedLines := []string{}
	for _, line := range strings.Split(s.string, "\n") {
		trimmed := strings.TrimSpace(line)
		indented := Indentation + trimmed
		indentedLines = append(indentedLines, indented)
	}
	s.string = strings.Join(indentedLines, "\n")
	return s
}
