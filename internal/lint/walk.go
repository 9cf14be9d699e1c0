package lint

import (
	"wdlint/internal/syntax"
)

// Walk traverses the document depth-first in source order, dispatching
// every node to every rule twice: on entry before its children and on
// exit after them. Diagnostics therefore accumulate in traversal order;
// callers sort the bag before reporting.
func Walk(root *syntax.Node, rules []Rule, ctx *Context) {
	visitors := make([]*Visitor, len(rules))
	for i, rule := range rules {
		visitors[i] = rule.Visitor()
	}
	walk(root, visitors, ctx)
}

func walk(node *syntax.Node, visitors []*Visitor, ctx *Context) {
	dispatch(node, visitors, ctx, VisitEnter)
	for _, child := range node.Children {
		walk(child, visitors, ctx)
	}
	dispatch(node, visitors, ctx, VisitExit)
}

func dispatch(node *syntax.Node, visitors []*Visitor, ctx *Context, reason VisitReason) {
	for _, v := range visitors {
		if v == nil {
			continue
		}
		if h := v.handlerFor(node.Kind); h != nil {
			h(ctx, reason, node)
		}
	}
}
