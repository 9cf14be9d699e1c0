// Package rules holds the lint rule catalog. Each rule is a self-contained
// lint.Rule; All returns fresh instances so concurrent lint runs never
// share per-rule state.
package rules

import "wdlint/internal/lint"

// All returns the full rule set in a stable order.
func All() []lint.Rule {
	return []lint.Rule{
		NewVersionStatement(),
		NewCommandMixedIndentation(),
		NewShellCheck(),
		NewTrailingWhitespace(),
		NewEndingNewline(),
	}
}

// ByID returns the rule with the given identifier, or nil.
func ByID(id string) lint.Rule {
	for _, r := range All() {
		if r.ID() == id {
			return r
		}
	}
	return nil
}
