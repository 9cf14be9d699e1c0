package syntax

import (
	"wdlint/internal/source"
)

// CommandPart is one segment of a command section: literal text or a
// placeholder expression. Text holds the raw source text of the segment;
// Span locates it in the file.
type CommandPart struct {
	Placeholder bool
	Text        string
	Span        source.Span
}

// Node is one element of the parsed document tree. The tree is consumed
// read-only by lint rules; only the parser constructs it.
type Node struct {
	Kind     Kind
	Span     source.Span
	Parent   *Node
	Children []*Node

	// Name is the identifier for tasks, workflows and declarations, and
	// the version string for version statements.
	Name string

	// Keyword is the span of the introducing keyword for sections and
	// items (e.g. the `command` keyword), used to anchor diagnostics.
	Keyword source.Span

	// Except lists rule identifiers from `#@ except:` directives attached
	// to this node.
	Except []string

	// Parts is populated for command sections only.
	Parts []CommandPart
	// Heredoc marks command sections using <<< >>> delimiters.
	Heredoc bool
}

func (n *Node) addChild(child *Node) {
	child.Parent = n
	n.Children = append(n.Children, child)
}

// ExceptsRule reports whether this node's directives suppress the given
// rule identifier. The wildcards "*" and "all" suppress every rule.
func (n *Node) ExceptsRule(rule string) bool {
	for _, id := range n.Except {
		if id == rule || id == "*" || id == "all" {
			return true
		}
	}
	return false
}

// FindChild returns the first direct child of the given kind, or nil.
func (n *Node) FindChild(kind Kind) *Node {
	for _, c := range n.Children {
		if c.Kind == kind {
			return c
		}
	}
	return nil
}

// EnclosingTask walks up to the nearest task ancestor, or nil.
func (n *Node) EnclosingTask() *Node {
	for p := n.Parent; p != nil; p = p.Parent {
		if p.Kind == KindTask {
			return p
		}
	}
	return nil
}

// Declarations collects the names of all declarations directly inside the
// node and inside its input section, the set a task's command can
// reference.
func (n *Node) Declarations() map[string]bool {
	decls := make(map[string]bool)
	var collect func(*Node)
	collect = func(node *Node) {
		for _, c := range node.Children {
			switch c.Kind {
			case KindDeclaration:
				decls[c.Name] = true
			case KindInputSection:
				collect(c)
			}
		}
	}
	collect(n)
	return decls
}
