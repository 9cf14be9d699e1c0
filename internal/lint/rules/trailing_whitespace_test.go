package rules

import (
	"testing"

	"wdlint/internal/diag"
)

func TestTrailingWhitespace(t *testing.T) {
	// Offsets: "version 1.1\n" occupies [0,12); the trailing spaces on the
	// second line span [20,23).
	content := "version 1.1\ntask t {   \n}\n"
	diags := lintDoc(t, content, NewTrailingWhitespace())
	if len(diags) != 1 {
		t.Fatalf("got %d diagnostics, want 1: %v", len(diags), diags)
	}

	d := diags[0]
	if d.Rule != "TrailingWhitespace" {
		t.Errorf("rule = %q", d.Rule)
	}
	if d.Severity != diag.SevWarning {
		t.Errorf("severity = %v, want warning", d.Severity)
	}
	if d.Primary.Start != 20 || d.Primary.End != 23 {
		t.Errorf("span = [%d,%d), want [20,23)", d.Primary.Start, d.Primary.End)
	}
	if d.Fix == nil || len(d.Fix.Replacements) != 1 {
		t.Fatalf("fix = %+v, want one replacement", d.Fix)
	}
	rep := d.Fix.Replacements[0]
	if rep.Start != 20 || rep.End != 23 || rep.Text != "" {
		t.Errorf("replacement = %+v, want deletion of [20,23)", rep)
	}
}

func TestTrailingWhitespaceIgnoresIndentOnlyLines(t *testing.T) {
	content := "version 1.1\n    \ntask t {\n}\n"
	if diags := lintDoc(t, content, NewTrailingWhitespace()); len(diags) != 0 {
		t.Fatalf("got %d diagnostics, want 0: %v", len(diags), diags)
	}
}

func TestTrailingWhitespaceCleanDocument(t *testing.T) {
	content := "version 1.1\n\ntask t {\n}\n"
	if diags := lintDoc(t, content, NewTrailingWhitespace()); len(diags) != 0 {
		t.Fatalf("got %d diagnostics, want 0: %v", len(diags), diags)
	}
}

func TestTrailingWhitespaceDocumentSuppression(t *testing.T) {
	content := "#@ except: TrailingWhitespace\nversion 1.1\ntask t {   \n}\n"
	if diags := lintDoc(t, content, NewTrailingWhitespace()); len(diags) != 0 {
		t.Fatalf("got %d diagnostics, want 0: %v", len(diags), diags)
	}
}
