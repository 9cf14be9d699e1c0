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

const versionStatementID = "VersionStatement"

// VersionStatement requires a version statement before any other item.
type VersionStatement struct{}

func NewVersionStatement() *VersionStatement {
	return &VersionStatement{}
}

func (r *VersionStatement) ID() string { return versionStatementID }

func (r *VersionStatement) Description() string {
	return "Ensures that documents declare their WDL version before any other item."
}

func (r *VersionStatement) Explanation() string {
	return "The version statement tells every consumer which revision of the " +
		"language the document is written against. Without one, execution engines " +
		"must guess, and guesses differ."
}

func (r *VersionStatement) Tags() lint.TagSet {
	return lint.NewTagSet(lint.TagCompleteness, lint.TagCorrectness)
}

func (r *VersionStatement) ExceptableNodes() []syntax.Kind {
	return []syntax.Kind{syntax.KindVersionStatement}
}

func (r *VersionStatement) Visitor() *lint.Visitor {
	return &lint.Visitor{
		Document: func(ctx *lint.Context, reason lint.VisitReason, node *syntax.Node) {
			if reason == lint.VisitExit {
				return
			}
			r.checkVersion(ctx, node)
		},
	}
}

func (r *VersionStatement) checkVersion(ctx *lint.Context, root *syntax.Node) {
	file := ctx.File()

	var version *syntax.Node
	versionIdx := -1
	for i, child := range root.Children {
		if child.Kind == syntax.KindVersionStatement {
			version = child
			versionIdx = i
			break
		}
	}

	if version == nil {
		end, err := safecast.Conv[uint32](len(file.Content))
		if err != nil {
			return
		}
		if end > 1 {
			end = 1
		}
		span := source.Span{File: file.ID, Start: 0, End: end}
		d := diag.NewError(r.ID(), span, "document does not declare a WDL version").
			WithFixHint("add a `version` statement at the top of the document")
		ctx.ExceptableAdd(d, root, r.ExceptableNodes())
		return
	}

	if versionIdx > 0 {
		first := root.Children[0]
		d := diag.NewError(r.ID(), version.Keyword, "the version statement must come before any other item").
			WithLabel(first.Keyword, fmt.Sprintf("this %s comes first", strings.ToLower(first.Kind.String()))).
			WithFixHint("move the `version` statement to the top of the document")
		ctx.ExceptableAdd(d, version, r.ExceptableNodes())
	}
}
