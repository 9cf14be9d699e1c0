package rules

import (
	"strings"

	"fortio.org/safecast"

	"wdlint/internal/diag"
	"wdlint/internal/lint"
	"wdlint/internal/source"
	"wdlint/internal/syntax"
)

const commandMixedIndentationID = "CommandMixedIndentation"

// CommandMixedIndentation flags command sections whose line indentation
// mixes tabs and spaces. Such commands cannot have their common indentation
// stripped reliably, so the external shell checker skips them; this rule is
// what tells the author why.
type CommandMixedIndentation struct{}

func NewCommandMixedIndentation() *CommandMixedIndentation {
	return &CommandMixedIndentation{}
}

func (r *CommandMixedIndentation) ID() string { return commandMixedIndentationID }

func (r *CommandMixedIndentation) Description() string {
	return "Ensures that command sections do not mix tabs and spaces in their indentation."
}

func (r *CommandMixedIndentation) Explanation() string {
	return "Mixed indentation widths depend on the reader's tab stops, and the " +
		"common indentation of a command cannot be determined when tabs and " +
		"spaces are mixed. Use one or the other consistently."
}

func (r *CommandMixedIndentation) Tags() lint.TagSet {
	return lint.NewTagSet(lint.TagCorrectness, lint.TagSpacing, lint.TagClarity)
}

func (r *CommandMixedIndentation) ExceptableNodes() []syntax.Kind {
	return []syntax.Kind{
		syntax.KindVersionStatement,
		syntax.KindTask,
		syntax.KindCommandSection,
	}
}

func (r *CommandMixedIndentation) Visitor() *lint.Visitor {
	return &lint.Visitor{
		CommandSection: func(ctx *lint.Context, reason lint.VisitReason, node *syntax.Node) {
			if reason == lint.VisitExit {
				return
			}
			r.checkIndentation(ctx, node)
		},
	}
}

func (r *CommandMixedIndentation) checkIndentation(ctx *lint.Context, node *syntax.Node) {
	conflict, ok := findIndentConflict(node.Parts)
	if !ok {
		return
	}

	file := ctx.File()
	span := source.Span{File: file.ID, Start: conflict.start, End: conflict.end}
	d := diag.NewWarning(r.ID(), node.Keyword, "mixed indentation within a command").
		WithLabel(span, "this line's indentation mixes with earlier lines").
		WithFixHint("use either tabs or spaces exclusively for indentation")
	ctx.ExceptableAdd(d, node, r.ExceptableNodes())
}

type indentConflict struct {
	start, end uint32
}

// findIndentConflict walks the command's content lines the same way the
// whitespace stripper does and returns the span of the first indentation
// that introduces the second whitespace kind.
func findIndentConflict(parts []syntax.CommandPart) (indentConflict, bool) {
	atLineStart := false
	sawTab, sawSpace := false, false

	for pi, part := range parts {
		if part.Placeholder {
			atLineStart = false
			continue
		}
		lines := syntax.LinesWithOffset(part.Text)
		for li, line := range lines {
			if li == 0 && !atLineStart {
				continue
			}
			endsHere := li < len(lines)-1
			if syntax.IsBlank(line.Text) && (endsHere || pi == len(parts)-1) {
				continue
			}
			ind := syntax.LeadingWhitespace(line.Text)
			if strings.ContainsRune(ind, ' ') {
				sawSpace = true
			}
			if strings.ContainsRune(ind, '\t') {
				sawTab = true
			}
			if sawTab && sawSpace {
				start, err := safecast.Conv[uint32](line.Start)
				if err != nil {
					return indentConflict{}, false
				}
				end, err := safecast.Conv[uint32](line.Start + len(ind))
				if err != nil {
					return indentConflict{}, false
				}
				return indentConflict{
					start: part.Span.Start + start,
					end:   part.Span.Start + end,
				}, true
			}
		}
		atLineStart = strings.HasSuffix(part.Text, "\n")
	}
	return indentConflict{}, false
}
