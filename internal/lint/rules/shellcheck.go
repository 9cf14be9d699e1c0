package rules

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"sync"
	"sync/atomic"

	"fortio.org/safecast"

	"wdlint/internal/diag"
	"wdlint/internal/lint"
	"wdlint/internal/source"
	"wdlint/internal/syntax"
)

const commandSectionShellCheckID = "CommandSectionShellCheck"

// DefaultShellCheckBin is the executable probed on PATH.
const DefaultShellCheckBin = "shellcheck"

// Codes suppressed on the shellcheck command line. They concern the shebang
// and shell dialect detection, which never apply to an embedded fragment.
var shellCheckSuppressedCodes = []string{"1009", "1072", "1083"}

// shellCheckUnassignedCode is shellcheck's "referenced but not assigned"
// finding. When it names one of the variables synthesized for placeholders
// it is an artifact of sanitization, not a real problem.
const shellCheckUnassignedCode = 2154

// ShellCheckFinding mirrors one entry of shellcheck's JSON output.
type ShellCheckFinding struct {
	Line      int    `json:"line"`
	EndLine   int    `json:"endLine"`
	Column    int    `json:"column"`
	EndColumn int    `json:"endColumn"`
	Level     string `json:"level"`
	Code      int    `json:"code"`
	Message   string `json:"message"`
}

// ShellCheckRunner invokes the external checker on a sanitized script and
// returns its findings. Implemented by the real subprocess runner and by
// test fakes.
type ShellCheckRunner interface {
	Run(script string) ([]ShellCheckFinding, error)
}

type execShellCheckRunner struct {
	bin string
}

func (r execShellCheckRunner) Run(script string) ([]ShellCheckFinding, error) {
	args := []string{
		"-s", "bash",
		"-f", "json",
		"-e", strings.Join(shellCheckSuppressedCodes, ","),
		"-S", "style",
		"-",
	}
	cmd := exec.Command(r.bin, args...)
	cmd.Stdin = strings.NewReader(script)
	var stdout bytes.Buffer
	cmd.Stdout = &stdout

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return nil, fmt.Errorf("spawning `%s`: %w", r.bin, err)
		}
		// Exit code 1 means findings were reported; anything else is a
		// protocol violation.
		if code := exitErr.ExitCode(); code != 1 {
			return nil, fmt.Errorf("unexpected `%s` exit code %d", r.bin, code)
		}
	}

	var findings []ShellCheckFinding
	if err := json.Unmarshal(stdout.Bytes(), &findings); err != nil {
		return nil, fmt.Errorf("decoding `%s` output: %w", r.bin, err)
	}
	return findings, nil
}

// ShellCheckProber answers whether the checker executable exists, caching
// the answer after the first lookup. Rule instances created for parallel
// lint runs share one prober, so the lookup and the missing-tool report
// both happen once regardless of how many documents run.
type ShellCheckProber struct {
	once     sync.Once
	ok       bool
	reported atomic.Bool

	// lookPath is swapped in tests; nil means exec.LookPath.
	lookPath func(string) (string, error)
}

func NewShellCheckProber() *ShellCheckProber {
	return &ShellCheckProber{}
}

// Available reports whether bin can be found. The lookup runs at most once
// for the lifetime of the prober; later calls return the cached answer.
func (p *ShellCheckProber) Available(bin string) bool {
	p.once.Do(func() {
		look := p.lookPath
		if look == nil {
			look = exec.LookPath
		}
		_, err := look(bin)
		p.ok = err == nil
	})
	return p.ok
}

// reportMissing returns true exactly once, electing the caller that emits
// the missing-tool diagnostic.
func (p *ShellCheckProber) reportMissing() bool {
	return !p.reported.Swap(true)
}

// processProber backs every rule instance that is not given its own, so the
// PATH lookup happens once per process no matter how many documents run.
var processProber = NewShellCheckProber()

// ShellCheck feeds each command section through the external `shellcheck`
// tool and reports its findings in document coordinates.
type ShellCheck struct {
	bin    string
	prober *ShellCheckProber
	runner ShellCheckRunner
}

func NewShellCheck() *ShellCheck {
	return NewShellCheckWith(DefaultShellCheckBin, processProber)
}

// NewShellCheckWith uses a configured executable name or path and a
// caller-owned probe cache, so many rule instances can share one probe.
func NewShellCheckWith(bin string, prober *ShellCheckProber) *ShellCheck {
	return &ShellCheck{
		bin:    bin,
		prober: prober,
		runner: execShellCheckRunner{bin: bin},
	}
}

func (r *ShellCheck) ID() string { return commandSectionShellCheckID }

func (r *ShellCheck) Description() string {
	return "Ensures that command sections pass shellcheck."
}

func (r *ShellCheck) Explanation() string {
	return "Command sections are bash fragments and inherit all of bash's " +
		"pitfalls. Running them through shellcheck catches quoting mistakes, " +
		"misused constructs and portability problems before the task ever runs."
}

func (r *ShellCheck) Tags() lint.TagSet {
	return lint.NewTagSet(lint.TagCorrectness, lint.TagPortability)
}

func (r *ShellCheck) ExceptableNodes() []syntax.Kind {
	return []syntax.Kind{
		syntax.KindVersionStatement,
		syntax.KindTask,
		syntax.KindCommandSection,
	}
}

func (r *ShellCheck) Visitor() *lint.Visitor {
	return &lint.Visitor{
		CommandSection: func(ctx *lint.Context, reason lint.VisitReason, node *syntax.Node) {
			if reason == lint.VisitExit {
				return
			}
			r.checkCommand(ctx, node)
		},
	}
}

func (r *ShellCheck) checkCommand(ctx *lint.Context, node *syntax.Node) {
	if !r.prober.Available(r.bin) {
		if r.prober.reportMissing() {
			d := diag.NewError(r.ID(), node.Keyword, fmt.Sprintf("running `%s` on command section", r.bin)).
				WithLabel(node.Keyword, fmt.Sprintf("could not find `%s` executable", r.bin)).
				WithFixHint(fmt.Sprintf("install `%s` or disable this lint", r.bin))
			ctx.ExceptableAdd(d, node, r.ExceptableNodes())
		}
		return
	}

	var declared map[string]bool
	if task := node.EnclosingTask(); task != nil {
		declared = task.Declarations()
	}

	script, synthetic, indent, ok := sanitizeCommand(node, declared)
	if !ok {
		// Mixed indentation; the whitespace rule reports it.
		return
	}

	findings, err := r.runner.Run(script)
	if err != nil {
		d := diag.NewError(r.ID(), node.Keyword, fmt.Sprintf("running `%s` on command section", r.bin)).
			WithLabel(node.Keyword, err.Error()).
			WithFixHint("address the reported error")
		ctx.ExceptableAdd(d, node, r.ExceptableNodes())
		return
	}

	lineStarts := commandLineMap(node)
	file := ctx.File()
	for _, f := range findings {
		if f.Code == shellCheckUnassignedCode && synthetic[firstMessageToken(f.Message)] {
			continue
		}
		span, ok := findingSpan(file, lineStarts, indent, f)
		if !ok {
			continue
		}
		d := diag.NewNote(r.ID(), span, fmt.Sprintf("`%s` reported a diagnostic", r.bin)).
			WithLabel(span, fmt.Sprintf("SC%d[%s]: %s", f.Code, f.Level, f.Message)).
			WithFixHint("address the diagnostic as recommended in the message")
		ctx.ExceptableAdd(d, node, r.ExceptableNodes())
	}
}

// sanitizeCommand turns a command section into plain bash: the common
// indentation is stripped and every placeholder is replaced with a quoted
// synthetic variable of the same byte length, so columns reported against
// the sanitized text line up with the original source. The synthetic names
// are returned so findings that reference them can be filtered. ok is false
// when the section's indentation mixes tabs and spaces.
func sanitizeCommand(node *syntax.Node, declared map[string]bool) (script string, synthetic map[string]bool, indent int, ok bool) {
	parts, indent, ok := node.StripWhitespace()
	if !ok {
		return "", nil, 0, false
	}

	synthetic = make(map[string]bool)
	var b strings.Builder
	seq := 0
	for _, part := range parts {
		if !part.Placeholder {
			b.WriteString(part.Text)
			continue
		}
		// A placeholder `~{...}` of n bytes becomes `"$name"` of the same
		// n bytes: the quotes and dollar take three, the name the rest.
		width := len(part.Text) - 3
		if width < 1 {
			width = 1
		}
		name := syntheticVarName(width, &seq, declared)
		synthetic[name] = true
		b.WriteString(`"$` + name + `"`)
	}
	return b.String(), synthetic, indent, true
}

// syntheticVarName produces a bash identifier of exactly width bytes that
// does not collide with any declared name, so the unassigned-variable
// filter never swallows a finding about a real declaration.
func syntheticVarName(width int, seq *int, declared map[string]bool) string {
	const letters = "vwxyzabcdefghijklmnopqrstu"
	for attempt := 0; ; attempt++ {
		suffix := fmt.Sprintf("%d", *seq)
		*seq++
		name := string(letters[attempt%len(letters)]) + suffix
		switch {
		case len(name) > width:
			name = name[:width]
		case len(name) < width:
			name += strings.Repeat("_", width-len(name))
		}
		if !declared[name] || attempt >= len(letters)-1 {
			return name
		}
	}
}

// commandLineMap maps 1-based sanitized line numbers to the file offset of
// the corresponding raw line start. The blank remainder of the `command`
// line is dropped by sanitization and gets no entry; a text segment that
// continues a line begun before a placeholder belongs to an already-mapped
// line and is skipped.
func commandLineMap(node *syntax.Node) map[int]uint32 {
	starts := make(map[int]uint32)
	lineNum := 1
	continuation := false
	for _, part := range node.Parts {
		if part.Placeholder {
			continuation = true
			continue
		}
		for li, line := range syntax.LinesWithOffset(part.Text) {
			if li == 0 && continuation {
				continuation = false
				continue
			}
			if lineNum == 1 && syntax.IsBlank(line.Text) {
				continue
			}
			off, err := safecast.Conv[uint32](line.Start)
			if err != nil {
				continue
			}
			starts[lineNum] = part.Span.Start + off
			lineNum++
		}
		continuation = false
	}
	return starts
}

// findingSpan translates a finding from sanitized coordinates back to a
// span in the original file. Findings past the mapped region (which can
// happen when a placeholder expression itself spans lines) are dropped.
func findingSpan(file *source.File, lineStarts map[int]uint32, indent int, f ShellCheckFinding) (source.Span, bool) {
	lineStart, ok := lineStarts[f.Line]
	if !ok || f.Column < 1 {
		return source.Span{}, false
	}
	width, err := safecast.Conv[uint32](indent)
	if err != nil {
		return source.Span{}, false
	}
	col, err := safecast.Conv[uint32](f.Column - 1)
	if err != nil {
		return source.Span{}, false
	}
	start := lineStart + width + col

	length := f.EndColumn - f.Column
	if f.EndLine != f.Line || length < 1 {
		length = 1
	}
	span := source.Span{File: file.ID, Start: start, End: start + uint32(length)}

	size, err := safecast.Conv[uint32](len(file.Content))
	if err != nil {
		return source.Span{}, false
	}
	if span.End > size {
		if span.Start >= size {
			return source.Span{}, false
		}
		span.End = size
	}
	return span, true
}

// firstMessageToken returns the leading word of a finding message, which
// for unassigned-variable findings is the variable name.
func firstMessageToken(msg string) string {
	if i := strings.IndexByte(msg, ' '); i >= 0 {
		return msg[:i]
	}
	return msg
}
