package rules

import (
	"testing"

	"wdlint/internal/diag"
)

func TestCommandMixedIndentation(t *testing.T) {
	// The first content line is tab-indented, the second space-indented;
	// the conflict is reported against the second line's indentation.
	content := "version 1.1\n\ntask t {\n    command <<<\n\t\techo a\n        echo b\n    >>>\n}\n"
	diags := lintDoc(t, content, NewCommandMixedIndentation())
	if len(diags) != 1 {
		t.Fatalf("got %d diagnostics, want 1: %v", len(diags), diags)
	}

	d := diags[0]
	if d.Rule != "CommandMixedIndentation" || d.Severity != diag.SevWarning {
		t.Errorf("diagnostic = %s %s", d.Severity, d.Rule)
	}
	// Anchored at the `command` keyword.
	if d.Primary.Start != 26 || d.Primary.End != 33 {
		t.Errorf("primary = [%d,%d), want [26,33)", d.Primary.Start, d.Primary.End)
	}
	if len(d.Labels) != 1 {
		t.Fatalf("labels = %v, want one", d.Labels)
	}
	// The space-indented line starts at offset 47, its indentation is 8
	// bytes wide.
	if sp := d.Labels[0].Span; sp.Start != 47 || sp.End != 55 {
		t.Errorf("label span = [%d,%d), want [47,55)", sp.Start, sp.End)
	}
}

func TestCommandMixedIndentationConsistent(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name:    "spaces only",
			content: "version 1.1\n\ntask t {\n    command <<<\n        echo a\n        echo b\n    >>>\n}\n",
		},
		{
			name:    "tabs only",
			content: "version 1.1\n\ntask t {\n\tcommand <<<\n\t\techo a\n\t>>>\n}\n",
		},
		{
			name:    "empty command",
			content: "version 1.1\n\ntask t {\n    command <<<\n    >>>\n}\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diags := lintDoc(t, tt.content, NewCommandMixedIndentation()); len(diags) != 0 {
				t.Fatalf("got %d diagnostics, want 0: %v", len(diags), diags)
			}
		})
	}
}

func TestCommandMixedIndentationSuppression(t *testing.T) {
	content := "version 1.1\n\n#@ except: CommandMixedIndentation\ntask t {\n    command <<<\n\t\techo a\n        echo b\n    >>>\n}\n"
	if diags := lintDoc(t, content, NewCommandMixedIndentation()); len(diags) != 0 {
		t.Fatalf("got %d diagnostics, want 0: %v", len(diags), diags)
	}
}
