package rules

import (
	"testing"

	"wdlint/internal/diag"
)

func TestEndingNewline(t *testing.T) {
	tests := []struct {
		name    string
		content string
		// wantRep is the expected replacement; nil means no diagnostic.
		wantRep *diag.Replacement
	}{
		{
			name:    "single newline ok",
			content: "version 1.1\n",
		},
		{
			name:    "missing newline",
			content: "version 1.1",
			wantRep: &diag.Replacement{
				Start:      11,
				End:        11,
				Insertion:  diag.AfterEnd,
				Text:       "\n",
				Precedence: endingNewlinePrecedence,
			},
		},
		{
			name:    "extra newlines",
			content: "version 1.1\n\n\n",
			wantRep: &diag.Replacement{
				Start:      12,
				End:        14,
				Insertion:  diag.BeforeStart,
				Text:       "",
				Precedence: endingNewlinePrecedence,
			},
		},
		{
			name:    "empty document",
			content: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			diags := lintDoc(t, tt.content, NewEndingNewline())
			if tt.wantRep == nil {
				if len(diags) != 0 {
					t.Fatalf("got %d diagnostics, want 0: %v", len(diags), diags)
				}
				return
			}
			if len(diags) != 1 {
				t.Fatalf("got %d diagnostics, want 1: %v", len(diags), diags)
			}
			d := diags[0]
			if d.Rule != "EndingNewline" || d.Severity != diag.SevWarning {
				t.Errorf("diagnostic = %s %s", d.Severity, d.Rule)
			}
			if d.Fix == nil || len(d.Fix.Replacements) != 1 {
				t.Fatalf("fix = %+v, want one replacement", d.Fix)
			}
			if got := d.Fix.Replacements[0]; got != *tt.wantRep {
				t.Errorf("replacement = %+v, want %+v", got, *tt.wantRep)
			}
		})
	}
}

func TestEndingNewlineSuppression(t *testing.T) {
	content := "#@ except: EndingNewline\nversion 1.1"
	if diags := lintDoc(t, content, NewEndingNewline()); len(diags) != 0 {
		t.Fatalf("got %d diagnostics, want 0: %v", len(diags), diags)
	}
}
