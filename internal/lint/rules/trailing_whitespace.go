package rules

import (
	"fmt"
	"strings"

	"fortio.org/safecast"

	"wdlint/internal/diag"
	"wdlint/internal/lint"
	"wdlint/internal/source"
	"wdlint/internal/syntax"
)

const trailingWhitespaceID = "TrailingWhitespace"

// Deletion fixes from this rule take priority over the final-newline
// insertion when both touch the end of the file.
const trailingWhitespacePrecedence = 2

// TrailingWhitespace flags lines that end in spaces or tabs and offers a
// deletion fix for each.
type TrailingWhitespace struct{}

func NewTrailingWhitespace() *TrailingWhitespace {
	return &TrailingWhitespace{}
}

func (r *TrailingWhitespace) ID() string { return trailingWhitespaceID }

func (r *TrailingWhitespace) Description() string {
	return "Ensures that lines do not end in whitespace."
}

func (r *TrailingWhitespace) Explanation() string {
	return "Trailing whitespace is invisible, yet it shows up in diffs and trips up " +
		"tools that compare output byte for byte. Removing it keeps revisions clean."
}

func (r *TrailingWhitespace) Tags() lint.TagSet {
	return lint.NewTagSet(lint.TagSpacing, lint.TagStyle)
}

func (r *TrailingWhitespace) ExceptableNodes() []syntax.Kind {
	return nil
}

func (r *TrailingWhitespace) Visitor() *lint.Visitor {
	return &lint.Visitor{
		Document: func(ctx *lint.Context, reason lint.VisitReason, node *syntax.Node) {
			if reason == lint.VisitExit {
				return
			}
			r.checkLines(ctx, node)
		},
	}
}

func (r *TrailingWhitespace) checkLines(ctx *lint.Context, root *syntax.Node) {
	file := ctx.File()
	for _, line := range syntax.LinesWithOffset(string(file.Content)) {
		trimmed := strings.TrimRight(line.Text, " \t")
		if len(trimmed) == len(line.Text) || trimmed == "" {
			// Whitespace-only lines are indentation, not trailing
			// whitespace; other rules own those.
			continue
		}

		start, err := safecast.Conv[uint32](line.Start + len(trimmed))
		if err != nil {
			continue
		}
		end, err := safecast.Conv[uint32](line.Start + len(line.Text))
		if err != nil {
			continue
		}
		span := source.Span{File: file.ID, Start: start, End: end}

		rep, err := diag.NewReplacement(start, end, diag.BeforeStart, "", trailingWhitespacePrecedence)
		if err != nil {
			continue
		}
		d := diag.NewWarning(r.ID(), span, fmt.Sprintf("line ends with %d whitespace character(s)", end-start)).
			WithFixHint("remove the trailing whitespace").
			WithReplacement(rep)
		ctx.ExceptableAdd(d, root, r.ExceptableNodes())
	}
}
