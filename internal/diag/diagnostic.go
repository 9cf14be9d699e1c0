package diag

import (
	"wdlint/internal/source"
)

// Label attaches a message to a span of the source.
type Label struct {
	Span source.Span
	Msg  string
}

// Fix is an optional suggestion attached to a diagnostic. Hint is the
// human-readable description; Replacements, when present, make the fix
// applicable automatically.
type Fix struct {
	Hint         string
	Replacements []Replacement
}

// Diagnostic is a single finding produced by a rule. Immutable once built;
// construction goes through New and the With* helpers.
type Diagnostic struct {
	Severity Severity
	Rule     string // identifier of the originating rule
	Message  string
	Primary  source.Span
	Labels   []Label
	Fix      *Fix
}
