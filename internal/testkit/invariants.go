// Package testkit holds assertions shared by parser and rule tests.
package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"wdlint/internal/source"
	"wdlint/internal/syntax"
)

// CheckSpanInvariants validates structural invariants of a parsed tree:
// 1) every span stays within the file content and names the right file
// 2) every child span is contained in its parent's span
// 3) child spans appear in source order and parent links are consistent
// 4) keyword spans fall inside their node's span
func CheckSpanInvariants(root *syntax.Node, sf *source.File) error {
	if root == nil || sf == nil {
		return fmt.Errorf("nil root or file")
	}
	lenContent, err := safecast.Conv[uint32](len(sf.Content))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}
	if root.Kind != syntax.KindDocument {
		return fmt.Errorf("root kind = %v, want document", root.Kind)
	}
	if root.Parent != nil {
		return fmt.Errorf("root has a parent")
	}
	return checkNode(root, sf, lenContent)
}

func checkNode(n *syntax.Node, sf *source.File, lenContent uint32) error {
	sp := n.Span
	if sp.End < sp.Start {
		return fmt.Errorf("%v: inverted span %v", n.Kind, sp)
	}
	if sp.File != sf.ID {
		return fmt.Errorf("%v: span file id %d, want %d", n.Kind, sp.File, sf.ID)
	}
	if sp.End > lenContent {
		return fmt.Errorf("%v: span end beyond content: %d > %d", n.Kind, sp.End, lenContent)
	}
	if kw := n.Keyword; !kw.Empty() {
		if kw.Start < sp.Start || kw.End > sp.End {
			return fmt.Errorf("%v: keyword span %v outside node span %v", n.Kind, kw, sp)
		}
	}
	for _, part := range n.Parts {
		if part.Span.Start < sp.Start || part.Span.End > sp.End {
			return fmt.Errorf("%v: command part span %v outside node span %v", n.Kind, part.Span, sp)
		}
	}

	var prevStart uint32
	for i, child := range n.Children {
		if child.Parent != n {
			return fmt.Errorf("%v: child %v has wrong parent link", n.Kind, child.Kind)
		}
		cs := child.Span
		if cs.Start < sp.Start || cs.End > sp.End {
			return fmt.Errorf("%v: child %v span %v outside parent span %v", n.Kind, child.Kind, cs, sp)
		}
		if i > 0 && cs.Start < prevStart {
			return fmt.Errorf("%v: child %v starts before its predecessor", n.Kind, child.Kind)
		}
		prevStart = cs.Start
		if err := checkNode(child, sf, lenContent); err != nil {
			return err
		}
	}
	return nil
}
