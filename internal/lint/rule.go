package lint

import (
	"wdlint/internal/syntax"
)

// VisitReason distinguishes the two dispatches every node receives.
type VisitReason uint8

const (
	// VisitEnter is dispatched before a node's children.
	VisitEnter VisitReason = iota
	// VisitExit is dispatched after a node's children.
	VisitExit
)

func (r VisitReason) String() string {
	if r == VisitEnter {
		return "enter"
	}
	return "exit"
}

// Handler is one rule's callback for one node kind.
type Handler func(ctx *Context, reason VisitReason, node *syntax.Node)

// Visitor is a flat table of optional per-kind handlers. Nil entries are
// no-ops; the walker performs a single switch per traversal step.
type Visitor struct {
	Document         Handler
	VersionStatement Handler
	Task             Handler
	Workflow         Handler
	CommandSection   Handler
	InputSection     Handler
	OutputSection    Handler
	RuntimeSection   Handler
	MetaSection      Handler
	Declaration      Handler
}

func (v *Visitor) handlerFor(kind syntax.Kind) Handler {
	switch kind {
	case syntax.KindDocument:
		return v.Document
	case syntax.KindVersionStatement:
		return v.VersionStatement
	case syntax.KindTask:
		return v.Task
	case syntax.KindWorkflow:
		return v.Workflow
	case syntax.KindCommandSection:
		return v.CommandSection
	case syntax.KindInputSection:
		return v.InputSection
	case syntax.KindOutputSection:
		return v.OutputSection
	case syntax.KindRuntimeSection:
		return v.RuntimeSection
	case syntax.KindMetaSection:
		return v.MetaSection
	case syntax.KindDeclaration:
		return v.Declaration
	}
	return nil
}

// Rule is one lint check. Implementations carry per-document state only;
// they reset it in their Document handler on VisitEnter, so a single
// instance can serve many documents in sequence.
type Rule interface {
	// ID is the stable identifier used in reports and `#@ except`
	// directives.
	ID() string
	// Description is a one-line summary for rule listings.
	Description() string
	// Explanation is the long-form rationale.
	Explanation() string
	// Tags classify the rule.
	Tags() TagSet
	// ExceptableNodes lists the node kinds at which an `#@ except`
	// directive may suppress this rule. Nil means any node.
	ExceptableNodes() []syntax.Kind
	// Visitor returns the rule's handler table. Called once per walk.
	Visitor() *Visitor
}
