package lint

import (
	"wdlint/internal/diag"
	"wdlint/internal/source"
	"wdlint/internal/syntax"
)

// Context is the shared state handed to every rule handler during one
// document traversal: the file being linted and the diagnostics
// collection. Handlers append diagnostics and read the file; they never
// mutate the tree.
type Context struct {
	bag  *diag.Bag
	file *source.File
	root *syntax.Node
}

// NewContext creates a traversal context for one document.
func NewContext(bag *diag.Bag, file *source.File, root *syntax.Node) *Context {
	return &Context{bag: bag, file: file, root: root}
}

// File returns the file under lint.
func (c *Context) File() *source.File {
	return c.file
}

// Root returns the document root node.
func (c *Context) Root() *syntax.Node {
	return c.root
}

// Add appends a diagnostic unconditionally.
func (c *Context) Add(d diag.Diagnostic) {
	c.bag.Add(d)
}

// ExceptableAdd appends a diagnostic unless a suppression directive covers
// it. Walking up from node, a `#@ except` directive naming the
// diagnostic's rule (or the wildcard) suppresses it when the carrying
// ancestor's kind appears in exceptable, or is the document root, or when
// exceptable is nil (any scope). Directives on other node kinds are
// ignored: the rule-declared exceptable list is exactly the suppression
// granularity offered to authors.
func (c *Context) ExceptableAdd(d diag.Diagnostic, node *syntax.Node, exceptable []syntax.Kind) {
	for n := node; n != nil; n = n.Parent {
		if !suppressionScope(n, exceptable) {
			continue
		}
		if n.ExceptsRule(d.Rule) {
			return
		}
	}
	c.bag.Add(d)
}

func suppressionScope(n *syntax.Node, exceptable []syntax.Kind) bool {
	if exceptable == nil || n.Kind == syntax.KindDocument {
		return true
	}
	for _, k := range exceptable {
		if n.Kind == k {
			return true
		}
	}
	return false
}
