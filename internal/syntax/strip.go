package syntax

import "strings"

// StripWhitespace returns the command parts with the leading blank line
// removed and the indentation common to all content lines stripped from
// every line start, together with the width of that indentation. ok is
// false when the command mixes tabs and spaces in its indentation; callers
// that feed the text to external tools must then decline, and the
// whitespace rule reports the problem instead.
//
// Only text parts are rewritten; placeholders keep their raw text and all
// spans stay in original coordinates.
func (n *Node) StripWhitespace() (parts []CommandPart, indent int, ok bool) {
	if n.Kind != KindCommandSection {
		return nil, 0, false
	}

	indents := collectIndents(n.Parts)
	if indents == nil && hasContent(n.Parts) {
		return nil, 0, false
	}

	common := -1
	for _, ind := range indents {
		if common < 0 || len(ind) < common {
			common = len(ind)
		}
	}
	if common < 0 {
		common = 0
	}

	out := make([]CommandPart, len(n.Parts))
	atLineStart := false
	for pi, part := range n.Parts {
		if part.Placeholder {
			out[pi] = part
			atLineStart = false
			continue
		}

		text := part.Text
		if pi == 0 {
			// Drop the blank remainder of the `command` line itself.
			if nl := strings.IndexByte(text, '\n'); nl >= 0 && IsBlank(text[:nl]) {
				text = text[nl+1:]
				atLineStart = true
			}
		}

		var b strings.Builder
		lines := LinesWithOffset(text)
		for li, line := range lines {
			if li > 0 {
				b.WriteByte('\n')
			}
			lineText := line.Text
			if li > 0 || atLineStart {
				strip := CountLeadingWhitespace(lineText)
				if strip > common {
					strip = common
				}
				lineText = lineText[strip:]
			}
			// The indentation of the closing delimiter is not content.
			if pi == len(n.Parts)-1 && li == len(lines)-1 && IsBlank(lineText) {
				lineText = ""
			}
			b.WriteString(lineText)
		}
		out[pi] = CommandPart{Placeholder: false, Text: b.String(), Span: part.Span}
		atLineStart = strings.HasSuffix(part.Text, "\n")
	}

	return out, common, true
}

// collectIndents gathers the leading whitespace of every content line.
// Returns nil when indentation mixes tabs and spaces.
func collectIndents(parts []CommandPart) []string {
	indents := make([]string, 0, 8)
	atLineStart := false
	sawTab, sawSpace := false, false

	for pi, part := range parts {
		if part.Placeholder {
			atLineStart = false
			continue
		}
		lines := LinesWithOffset(part.Text)
		for li, line := range lines {
			start := li > 0 || atLineStart
			if !start {
				continue
			}
			endsHere := li < len(lines)-1
			if IsBlank(line.Text) {
				// Blank lines and the closing delimiter's indentation
				// carry no indentation information.
				if endsHere || pi == len(parts)-1 {
					continue
				}
				// Whitespace leading into a placeholder counts.
			}
			ind := LeadingWhitespace(line.Text)
			if ind == "" {
				indents = append(indents, ind)
				continue
			}
			if strings.ContainsRune(ind, ' ') {
				sawSpace = true
			}
			if strings.ContainsRune(ind, '\t') {
				sawTab = true
			}
			if sawSpace && sawTab {
				return nil
			}
			indents = append(indents, ind)
		}
		atLineStart = strings.HasSuffix(part.Text, "\n")
	}
	return indents
}

func hasContent(parts []CommandPart) bool {
	for _, part := range parts {
		if part.Placeholder || !IsBlank(part.Text) {
			return true
		}
	}
	return false
}
