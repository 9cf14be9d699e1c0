package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"wdlint/internal/diag"
	"wdlint/internal/source"
)

var (
	errorColor   = color.New(color.FgRed, color.Bold)
	warningColor = color.New(color.FgYellow, color.Bold)
	noteColor    = color.New(color.FgCyan, color.Bold)
	gutterColor  = color.New(color.FgBlue)
	hintColor    = color.New(color.FgGreen)
)

// Pretty renders diagnostics in a human-readable form, one block per
// diagnostic:
//
//	<path>:<line>:<col>: SEVERITY[Rule]: message
//	  <n> | source line
//	      | ^~~~~~~
//
// The bag is expected to be sorted already.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) error {
	for _, d := range bag.Items() {
		if err := prettyOne(w, d, fs, opts); err != nil {
			return err
		}
	}
	return nil
}

func prettyOne(w io.Writer, d diag.Diagnostic, fs *source.FileSet, opts PrettyOpts) error {
	file := fs.Get(d.Primary.File)
	if file == nil {
		_, err := fmt.Fprintf(w, "%s: %s\n", severityText(d, opts), d.Message)
		return err
	}

	start, _ := fs.Resolve(d.Primary)
	if _, err := fmt.Fprintf(w, "%s:%d:%d: %s: %s\n",
		formatPath(file, fs, opts.PathMode), start.Line, start.Col,
		severityText(d, opts), d.Message); err != nil {
		return err
	}

	if err := underline(w, fs, d.Primary, "", opts); err != nil {
		return err
	}
	for _, label := range d.Labels {
		if err := underline(w, fs, label.Span, label.Msg, opts); err != nil {
			return err
		}
	}

	if d.Fix != nil && d.Fix.Hint != "" {
		hint := "  = fix: " + d.Fix.Hint
		if opts.Color {
			hint = hintColor.Sprint(hint)
		}
		if _, err := fmt.Fprintln(w, hint); err != nil {
			return err
		}
	}
	if opts.ShowFixes && d.Fix != nil {
		if err := fixPreview(w, file, d.Fix, opts); err != nil {
			return err
		}
	}
	return nil
}

// underline prints the source line a span covers with a caret marker
// beneath it, followed by an optional label message.
func underline(w io.Writer, fs *source.FileSet, span source.Span, msg string, opts PrettyOpts) error {
	file := fs.Get(span.File)
	if file == nil || span.Empty() && msg == "" {
		return nil
	}

	start, end := fs.Resolve(span)
	line := file.GetLine(start.Line)
	gutter := fmt.Sprintf("%4d", start.Line)
	bar := "|"
	if opts.Color {
		gutter = gutterColor.Sprint(gutter)
		bar = gutterColor.Sprint(bar)
	}
	if _, err := fmt.Fprintf(w, "%s %s %s\n", gutter, bar, strings.ReplaceAll(line, "\t", " ")); err != nil {
		return err
	}

	// Marker column and width follow display cells, not bytes, so wide
	// runes do not skew the carets.
	prefix := sliceLine(line, int(start.Col)-1)
	width := 1
	if end.Line == start.Line && end.Col > start.Col {
		covered := sliceLineRange(line, int(start.Col)-1, int(end.Col)-1)
		if cells := runewidth.StringWidth(covered); cells > 0 {
			width = cells
		}
	}
	marker := "^" + strings.Repeat("~", width-1)
	if opts.Color {
		marker = warningColor.Sprint(marker)
	}
	pad := strings.Repeat(" ", runewidth.StringWidth(strings.ReplaceAll(prefix, "\t", " ")))
	text := marker
	if msg != "" {
		text += " " + msg
	}
	_, err := fmt.Fprintf(w, "     %s %s%s\n", bar, pad, text)
	return err
}

// fixPreview prints the line each replacement touches before and after
// applying just that edit.
func fixPreview(w io.Writer, file *source.File, fix *diag.Fix, opts PrettyOpts) error {
	for _, rep := range fix.Replacements {
		before, after, ok := previewLines(file, rep)
		if !ok {
			continue
		}
		minus, plus := "-", "+"
		if opts.Color {
			minus = errorColor.Sprint(minus)
			plus = hintColor.Sprint(plus)
		}
		if _, err := fmt.Fprintf(w, "     %s %s\n     %s %s\n", minus, before, plus, after); err != nil {
			return err
		}
	}
	return nil
}

// previewLines expands a replacement's range to whole lines and returns
// the text before and after applying just that edit. Newlines inside the
// preview are escaped so each side stays one line.
func previewLines(file *source.File, rep diag.Replacement) (before, after string, ok bool) {
	content := file.Content
	if int(rep.End) > len(content) || rep.Start > rep.End {
		return "", "", false
	}
	lineStart := int(rep.Start)
	for lineStart > 0 && content[lineStart-1] != '\n' {
		lineStart--
	}
	lineEnd := int(rep.End)
	for lineEnd < len(content) && content[lineEnd] != '\n' {
		lineEnd++
	}
	before = string(content[lineStart:lineEnd])
	after = string(content[lineStart:rep.Start]) + rep.Text + string(content[rep.End:lineEnd])
	escape := func(s string) string { return strings.ReplaceAll(s, "\n", `\n`) }
	return escape(before), escape(after), true
}

func severityText(d diag.Diagnostic, opts PrettyOpts) string {
	text := d.Severity.String()
	if d.Rule != "" {
		text += "[" + d.Rule + "]"
	}
	if !opts.Color {
		return text
	}
	switch d.Severity {
	case diag.SevError:
		return errorColor.Sprint(text)
	case diag.SevWarning:
		return warningColor.Sprint(text)
	default:
		return noteColor.Sprint(text)
	}
}

func formatPath(file *source.File, fs *source.FileSet, mode PathMode) string {
	switch mode {
	case PathModeAbsolute:
		return file.FormatPath("absolute", "")
	case PathModeRelative:
		return file.FormatPath("relative", fs.BaseDir())
	case PathModeBasename:
		return file.FormatPath("basename", "")
	default:
		return file.FormatPath("auto", "")
	}
}

// sliceLine returns the first n runes-worth of bytes of line, clamped.
func sliceLine(line string, n int) string {
	if n < 0 {
		return ""
	}
	if n > len(line) {
		return line
	}
	return line[:n]
}

func sliceLineRange(line string, from, to int) string {
	if from < 0 {
		from = 0
	}
	if to > len(line) {
		to = len(line)
	}
	if from >= to {
		return ""
	}
	return line[from:to]
}
