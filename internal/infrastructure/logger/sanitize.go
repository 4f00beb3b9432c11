package logger

import (
	"fmt"
	"strings"
)

// SanitizeForLog escapes control characters so caller-supplied strings
// (file names, upstream error bodies) cannot forge log lines or drive the
// terminal. Printable Unicode is preserved.
func SanitizeForLog(s string) string {
	var result strings.Builder
	result.Grow(len(s))

	for _, r := range s {
		switch r {
		case '\n':
			result.WriteString("\\n")
		case '\r':
			result.WriteString("\\r")
		case '\t':
			result.WriteString("\\t")
		default:
			if r < 32 || r == 127 {
				fmt.Fprintf(&result, "\\x%02x", r)
			} else {
				result.WriteRune(r)
			}
		}
	}
	return result.String()
}

// Truncate sanitizes s and caps it at max runes, marking the cut.
func Truncate(s string, max int) string {
	s = SanitizeForLog(s)
	runes := []rune(s)
	if max <= 0 || len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "...(truncated)"
}
