package diagfmt

import (
	"encoding/json"
	"io"

	"wdlint/internal/diag"
	"wdlint/internal/source"
)

// LocationJSON is a span rendered for machine consumption.
type LocationJSON struct {
	File      string `json:"file"`
	StartByte uint32 `json:"start_byte"`
	EndByte   uint32 `json:"end_byte"`
	StartLine uint32 `json:"start_line,omitempty"`
	StartCol  uint32 `json:"start_col,omitempty"`
	EndLine   uint32 `json:"end_line,omitempty"`
	EndCol    uint32 `json:"end_col,omitempty"`
}

// LabelJSON is a secondary annotated span.
type LabelJSON struct {
	Message  string       `json:"message"`
	Location LocationJSON `json:"location"`
}

// EditJSON is one applicable replacement of a fix.
type EditJSON struct {
	Location LocationJSON `json:"location"`
	NewText  string       `json:"new_text"`
	OldText  string       `json:"old_text,omitempty"`
}

// FixJSON is a diagnostic's fix suggestion.
type FixJSON struct {
	Hint  string     `json:"hint,omitempty"`
	Edits []EditJSON `json:"edits,omitempty"`
}

// DiagnosticJSON is one diagnostic in machine output.
type DiagnosticJSON struct {
	Severity string       `json:"severity"`
	Rule     string       `json:"rule,omitempty"`
	Message  string       `json:"message"`
	Location LocationJSON `json:"location"`
	Labels   []LabelJSON  `json:"labels,omitempty"`
	Fix      *FixJSON     `json:"fix,omitempty"`
}

// DiagnosticsOutput is the root of the JSON report.
type DiagnosticsOutput struct {
	Diagnostics []DiagnosticJSON `json:"diagnostics"`
	Count       int              `json:"count"`
}

// BuildDiagnosticsOutput assembles the JSON structure without serializing.
// The bag is expected to be sorted already.
func BuildDiagnosticsOutput(bag *diag.Bag, fs *source.FileSet, opts JSONOpts) DiagnosticsOutput {
	items := bag.Items()
	limit := len(items)
	if opts.Max > 0 && opts.Max < limit {
		limit = opts.Max
	}

	out := DiagnosticsOutput{
		Diagnostics: make([]DiagnosticJSON, 0, limit),
		Count:       bag.Len(),
	}
	for _, d := range items[:limit] {
		dj := DiagnosticJSON{
			Severity: d.Severity.String(),
			Rule:     d.Rule,
			Message:  d.Message,
			Location: makeLocation(d.Primary, fs, opts),
		}
		for _, label := range d.Labels {
			dj.Labels = append(dj.Labels, LabelJSON{
				Message:  label.Msg,
				Location: makeLocation(label.Span, fs, opts),
			})
		}
		if opts.IncludeFixes && d.Fix != nil {
			fix := &FixJSON{Hint: d.Fix.Hint}
			for _, rep := range d.Fix.Replacements {
				span := source.Span{File: d.Primary.File, Start: rep.Start, End: rep.End}
				fix.Edits = append(fix.Edits, EditJSON{
					Location: makeLocation(span, fs, opts),
					NewText:  rep.Text,
					OldText:  oldText(fs, span),
				})
			}
			dj.Fix = fix
		}
		out.Diagnostics = append(out.Diagnostics, dj)
	}
	return out
}

// WriteJSON serializes the bag as indented JSON.
func WriteJSON(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts JSONOpts) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(BuildDiagnosticsOutput(bag, fs, opts))
}

func makeLocation(span source.Span, fs *source.FileSet, opts JSONOpts) LocationJSON {
	loc := LocationJSON{
		StartByte: span.Start,
		EndByte:   span.End,
	}
	file := fs.Get(span.File)
	if file == nil {
		return loc
	}

	loc.File = formatPath(file, fs, opts.PathMode)

	if opts.IncludePositions {
		start, end := fs.Resolve(span)
		loc.StartLine = start.Line
		loc.StartCol = start.Col
		loc.EndLine = end.Line
		loc.EndCol = end.Col
	}
	return loc
}

func oldText(fs *source.FileSet, span source.Span) string {
	file := fs.Get(span.File)
	if file == nil || int(span.End) > len(file.Content) || span.Start > span.End {
		return ""
	}
	return string(file.Content[span.Start:span.End])
}
