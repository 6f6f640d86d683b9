package utils

import "strings"

// TruncateForLog renders s as a single line for log previews: runs of
// whitespace, newlines included, become one space. Output longer than limit
// runes is cut and ends with "...".
func TruncateForLog(s string, limit int) string {
	if limit <= 0 {
		return ""
	}

	line := strings.Join(strings.Fields(s), " ")
	runes := []rune(line)
	if len(runes) <= limit {
		return line
	}
	return string(runes[:limit]) + "..."
}
