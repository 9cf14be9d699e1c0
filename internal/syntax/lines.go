package syntax

import "strings"

// OffsetLine is one line of a text fragment with its byte offset within
// that fragment.
type OffsetLine struct {
	Text  string
	Start int
}

// LinesWithOffset splits s on newlines, keeping each line's start offset.
// The trailing newline is not part of the line. A final empty segment after
// a trailing newline is included, matching the behavior of splitting.
func LinesWithOffset(s string) []OffsetLine {
	out := make([]OffsetLine, 0, 8)
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			out = append(out, OffsetLine{Text: s[start:i], Start: start})
			start = i + 1
		}
	}
	out = append(out, OffsetLine{Text: s[start:], Start: start})
	return out
}

// CountLeadingWhitespace returns the number of leading space and tab bytes.
func CountLeadingWhitespace(s string) int {
	for i := 0; i < len(s); i++ {
		if s[i] != ' ' && s[i] != '\t' {
			return i
		}
	}
	return len(s)
}

// LeadingWhitespace returns the leading space/tab prefix itself.
func LeadingWhitespace(s string) string {
	return s[:CountLeadingWhitespace(s)]
}

// IsBlank reports whether the line contains only spaces and tabs.
func IsBlank(s string) bool {
	return strings.TrimLeft(s, " \t") == ""
}
