package diag

import "wdlint/internal/source"

func New(sev Severity, rule string, primary source.Span, msg string) Diagnostic {
	return Diagnostic{
		Severity: sev,
		Rule:     rule,
		Primary:  primary,
		Message:  msg,
	}
}

func NewError(rule string, primary source.Span, msg string) Diagnostic {
	return New(SevError, rule, primary, msg)
}

func NewWarning(rule string, primary source.Span, msg string) Diagnostic {
	return New(SevWarning, rule, primary, msg)
}

func NewNote(rule string, primary source.Span, msg string) Diagnostic {
	return New(SevNote, rule, primary, msg)
}

// WithLabel attaches a labeled span. The first label also becomes the
// primary span when none was set at construction.
func (d Diagnostic) WithLabel(sp source.Span, msg string) Diagnostic {
	if d.Primary.Empty() && len(d.Labels) == 0 {
		d.Primary = sp
	}
	d.Labels = append(d.Labels, Label{Span: sp, Msg: msg})
	return d
}

// WithFixHint attaches a human-readable fix suggestion without edits.
func (d Diagnostic) WithFixHint(hint string) Diagnostic {
	if d.Fix == nil {
		d.Fix = &Fix{}
	} else {
		f := *d.Fix
		d.Fix = &f
	}
	d.Fix.Hint = hint
	return d
}

// WithReplacement attaches an applicable edit to the diagnostic's fix.
func (d Diagnostic) WithReplacement(r Replacement) Diagnostic {
	if d.Fix == nil {
		d.Fix = &Fix{}
	} else {
		f := *d.Fix
		f.Replacements = append([]Replacement(nil), f.Replacements...)
		d.Fix = &f
	}
	d.Fix.Replacements = append(d.Fix.Replacements, r)
	return d
}
