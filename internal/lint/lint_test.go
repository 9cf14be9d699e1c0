package lint

import (
	"testing"

	"wdlint/internal/diag"
	"wdlint/internal/source"
	"wdlint/internal/syntax"
)

// probeRule records the traversal it observes and raises one diagnostic
// per command section through ExceptableAdd.
type probeRule struct {
	visits []string
	resets int
}

func (r *probeRule) ID() string          { return "Probe" }
func (r *probeRule) Description() string { return "test probe" }
func (r *probeRule) Explanation() string { return "test probe" }
func (r *probeRule) Tags() TagSet        { return NewTagSet(TagCorrectness) }

func (r *probeRule) ExceptableNodes() []syntax.Kind {
	return []syntax.Kind{syntax.KindTask, syntax.KindCommandSection}
}

func (r *probeRule) Visitor() *Visitor {
	return &Visitor{
		Document: func(ctx *Context, reason VisitReason, node *syntax.Node) {
			if reason == VisitExit {
				return
			}
			// Per-document state reset on entry.
			r.visits = r.visits[:0]
			r.resets++
		},
		Task: func(ctx *Context, reason VisitReason, node *syntax.Node) {
			r.visits = append(r.visits, "task:"+reason.String())
		},
		CommandSection: func(ctx *Context, reason VisitReason, node *syntax.Node) {
			if reason == VisitExit {
				return
			}
			r.visits = append(r.visits, "command:enter")
			ctx.ExceptableAdd(
				diag.NewWarning(r.ID(), node.Keyword, "probe finding"),
				node,
				r.ExceptableNodes(),
			)
		},
	}
}

func buildTree(taskExcept, commandExcept []string) (*syntax.Node, *source.File) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("t.wdl", []byte("stub"))

	root := &syntax.Node{Kind: syntax.KindDocument}
	task := &syntax.Node{Kind: syntax.KindTask, Name: "t", Except: taskExcept, Parent: root}
	cmd := &syntax.Node{Kind: syntax.KindCommandSection, Except: commandExcept, Parent: task}
	task.Children = append(task.Children, cmd)
	root.Children = append(root.Children, task)
	return root, fs.Get(id)
}

func TestWalkDispatchOrder(t *testing.T) {
	root, file := buildTree(nil, nil)
	rule := &probeRule{}
	bag := diag.NewBag(10)

	Walk(root, []Rule{rule}, NewContext(bag, file, root))

	want := []string{"task:enter", "command:enter", "task:exit"}
	if len(rule.visits) != len(want) {
		t.Fatalf("visits = %v, want %v", rule.visits, want)
	}
	for i := range want {
		if rule.visits[i] != want[i] {
			t.Fatalf("visits = %v, want %v", rule.visits, want)
		}
	}
	if bag.Len() != 1 {
		t.Fatalf("expected 1 diagnostic, got %d", bag.Len())
	}
}

func TestWalkResetsPerDocument(t *testing.T) {
	root, file := buildTree(nil, nil)
	rule := &probeRule{}

	for i := 0; i < 3; i++ {
		bag := diag.NewBag(10)
		Walk(root, []Rule{rule}, NewContext(bag, file, root))
		if bag.Len() != 1 {
			t.Fatalf("run %d: expected 1 diagnostic, got %d", i, bag.Len())
		}
	}
	if rule.resets != 3 {
		t.Fatalf("expected 3 document resets, got %d", rule.resets)
	}
}

func TestExceptableAddSuppression(t *testing.T) {
	tests := []struct {
		name          string
		taskExcept    []string
		commandExcept []string
		rootExcept    []string
		wantCount     int
	}{
		{name: "no directives", wantCount: 1},
		{name: "suppressed on task ancestor", taskExcept: []string{"Probe"}, wantCount: 0},
		{name: "suppressed on the node itself", commandExcept: []string{"Probe"}, wantCount: 0},
		{name: "suppressed document-wide", rootExcept: []string{"Probe"}, wantCount: 0},
		{name: "wildcard suppression", taskExcept: []string{"*"}, wantCount: 0},
		{name: "unrelated rule id", taskExcept: []string{"OtherRule"}, wantCount: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root, file := buildTree(tt.taskExcept, tt.commandExcept)
			root.Except = tt.rootExcept
			bag := diag.NewBag(10)

			Walk(root, []Rule{&probeRule{}}, NewContext(bag, file, root))

			if bag.Len() != tt.wantCount {
				t.Fatalf("got %d diagnostics, want %d", bag.Len(), tt.wantCount)
			}
		})
	}
}

func TestExceptableAddIgnoresDirectiveOutsideScope(t *testing.T) {
	// The directive sits on the input section, which the probe rule does
	// not declare exceptable, so the diagnostic survives.
	fs := source.NewFileSet()
	id := fs.AddVirtual("t.wdl", []byte("stub"))
	file := fs.Get(id)

	root := &syntax.Node{Kind: syntax.KindDocument}
	task := &syntax.Node{Kind: syntax.KindTask, Parent: root}
	input := &syntax.Node{Kind: syntax.KindInputSection, Except: []string{"Probe"}, Parent: task}
	cmd := &syntax.Node{Kind: syntax.KindCommandSection, Parent: input}
	input.Children = append(input.Children, cmd)
	task.Children = append(task.Children, input)
	root.Children = append(root.Children, task)

	bag := diag.NewBag(10)
	Walk(root, []Rule{&probeRule{}}, NewContext(bag, file, root))

	if bag.Len() != 1 {
		t.Fatalf("expected directive outside exceptable scope to be ignored, got %d diagnostics", bag.Len())
	}
}

func TestTagSet(t *testing.T) {
	s := NewTagSet(TagCorrectness, TagStyle)
	if !s.Contains(TagCorrectness) || !s.Contains(TagStyle) {
		t.Fatalf("missing members in %s", s)
	}
	if s.Contains(TagPortability) {
		t.Fatalf("unexpected member in %s", s)
	}
	if !s.Intersects(NewTagSet(TagStyle)) {
		t.Fatalf("expected intersection")
	}
	if s.Intersects(NewTagSet(TagSpacing)) {
		t.Fatalf("unexpected intersection")
	}
	if got := s.String(); got != "correctness, style" {
		t.Errorf("String() = %q", got)
	}

	if tag, ok := ParseTag("Portability"); !ok || tag != TagPortability {
		t.Errorf("ParseTag failed: %v %v", tag, ok)
	}
	if _, ok := ParseTag("nope"); ok {
		t.Errorf("expected ParseTag to reject unknown name")
	}
}
