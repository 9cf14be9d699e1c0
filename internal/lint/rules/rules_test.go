package rules

import (
	"testing"

	"wdlint/internal/diag"
	"wdlint/internal/lint"
	"wdlint/internal/source"
	"wdlint/internal/syntax"
)

// lintDoc parses content and runs the given rules over it, returning only
// the diagnostics the rules produced (parser diagnostics carry an empty
// rule identifier and are dropped).
func lintDoc(t *testing.T, content string, rules ...lint.Rule) []diag.Diagnostic {
	t.Helper()
	fileSet := source.NewFileSet()
	id := fileSet.AddVirtual("test.wdl", []byte(content))
	file := fileSet.Get(id)

	bag := diag.NewBag(256)
	root := syntax.Parse(file, bag)
	ctx := lint.NewContext(bag, file, root)
	lint.Walk(root, rules, ctx)

	var out []diag.Diagnostic
	for _, d := range bag.Items() {
		if d.Rule != "" {
			out = append(out, d)
		}
	}
	return out
}

func TestAllRuleIDsUnique(t *testing.T) {
	seen := make(map[string]bool)
	for _, r := range All() {
		if r.ID() == "" {
			t.Fatalf("rule %T has an empty identifier", r)
		}
		if seen[r.ID()] {
			t.Fatalf("duplicate rule id %q", r.ID())
		}
		seen[r.ID()] = true
		if r.Description() == "" {
			t.Errorf("rule %s has no description", r.ID())
		}
		if r.Explanation() == "" {
			t.Errorf("rule %s has no explanation", r.ID())
		}
		if r.Tags() == 0 {
			t.Errorf("rule %s has no tags", r.ID())
		}
		if r.Visitor() == nil {
			t.Errorf("rule %s has no visitor", r.ID())
		}
	}
}

func TestByID(t *testing.T) {
	if r := ByID("TrailingWhitespace"); r == nil || r.ID() != "TrailingWhitespace" {
		t.Fatalf("ByID(TrailingWhitespace) = %v", r)
	}
	if r := ByID("NoSuchRule"); r != nil {
		t.Fatalf("ByID(NoSuchRule) = %v, want nil", r)
	}
}
