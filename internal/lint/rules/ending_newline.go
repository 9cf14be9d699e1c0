package rules

import (
	"strings"

	"fortio.org/safecast"

	"wdlint/internal/diag"
	"wdlint/internal/lint"
	"wdlint/internal/source"
	"wdlint/internal/syntax"
)

const endingNewlineID = "EndingNewline"

const endingNewlinePrecedence = 1

// EndingNewline requires a document to end with exactly one newline.
type EndingNewline struct{}

func NewEndingNewline() *EndingNewline {
	return &EndingNewline{}
}

func (r *EndingNewline) ID() string { return endingNewlineID }

func (r *EndingNewline) Description() string {
	return "Ensures that documents end with a single newline character."
}

func (r *EndingNewline) Explanation() string {
	return "POSIX defines a line as ending in a newline, so a file without a final " +
		"newline has an incomplete last line. More than one trailing newline is " +
		"needless padding."
}

func (r *EndingNewline) Tags() lint.TagSet {
	return lint.NewTagSet(lint.TagSpacing, lint.TagStyle)
}

func (r *EndingNewline) ExceptableNodes() []syntax.Kind {
	return []syntax.Kind{syntax.KindVersionStatement}
}

func (r *EndingNewline) Visitor() *lint.Visitor {
	return &lint.Visitor{
		Document: func(ctx *lint.Context, reason lint.VisitReason, node *syntax.Node) {
			if reason != lint.VisitExit {
				return
			}
			r.checkEnding(ctx, node)
		},
	}
}

func (r *EndingNewline) checkEnding(ctx *lint.Context, root *syntax.Node) {
	file := ctx.File()
	content := string(file.Content)
	if content == "" {
		return
	}

	length, err := safecast.Conv[uint32](len(content))
	if err != nil {
		return
	}

	if !strings.HasSuffix(content, "\n") {
		span := source.Span{File: file.ID, Start: length, End: length}
		rep := diag.MustReplacement(length, length, diag.AfterEnd, "\n", endingNewlinePrecedence)
		d := diag.NewWarning(r.ID(), span, "document does not end with a newline").
			WithFixHint("add a newline at the end of the document").
			WithReplacement(rep)
		ctx.ExceptableAdd(d, root, r.ExceptableNodes())
		return
	}

	trimmed := strings.TrimRight(content, "\n")
	keep, err := safecast.Conv[uint32](len(trimmed) + 1)
	if err != nil {
		return
	}
	if keep >= length {
		return
	}

	span := source.Span{File: file.ID, Start: keep, End: length}
	rep := diag.MustReplacement(keep, length, diag.BeforeStart, "", endingNewlinePrecedence)
	d := diag.NewWarning(r.ID(), span, "document ends with more than one newline").
		WithFixHint("remove the extra trailing newlines").
		WithReplacement(rep)
	ctx.ExceptableAdd(d, root, r.ExceptableNodes())
}
