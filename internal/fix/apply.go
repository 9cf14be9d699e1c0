package fix

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"fortio.org/safecast"

	"wdlint/internal/diag"
	"wdlint/internal/source"
)

// ErrNoFixes is returned when no fixes were applied.
var ErrNoFixes = errors.New("no applicable fixes found")

// ApplyOptions configures fix application.
type ApplyOptions struct {
	// DryRun computes the fixed buffers without writing them back.
	DryRun bool
}

// AppliedFix records a successfully applied fix.
type AppliedFix struct {
	Rule      string
	Message   string
	Hint      string
	Path      string
	EditCount int
}

// SkippedFix captures a skipped fix with a reason.
type SkippedFix struct {
	Rule    string
	Message string
	Reason  string
}

// FileChange summarises modifications performed on a file.
type FileChange struct {
	Path      string
	EditCount int
	// NewContent holds the fixed buffer; on dry runs it is the only
	// place the result is visible.
	NewContent string
}

// ApplyResult aggregates applied fixes, skipped ones, and file changes.
type ApplyResult struct {
	Applied     []AppliedFix
	Skipped     []SkippedFix
	FileChanges []FileChange
}

type candidate struct {
	diag  diag.Diagnostic
	order int
}

// Apply collects replacement-backed fixes from diagnostics, groups them per
// file, validates them against the original buffers, and applies each
// file's batch through one Fixer. Fixes whose replacements overlap a fix
// accepted earlier (in Bag sort order) are skipped rather than risking a
// garbled splice.
func Apply(fs *source.FileSet, diagnostics []diag.Diagnostic, opts ApplyOptions) (*ApplyResult, error) {
	result := &ApplyResult{
		Applied:     make([]AppliedFix, 0),
		Skipped:     make([]SkippedFix, 0),
		FileChanges: make([]FileChange, 0),
	}
	if fs == nil {
		return result, fmt.Errorf("fix: FileSet is nil")
	}

	candidates := gatherCandidates(diagnostics)
	if len(candidates) == 0 {
		return result, ErrNoFixes
	}
	sortCandidates(candidates)

	accepted := make(map[source.FileID][]diag.Replacement)
	editCount := make(map[source.FileID]int)

	for _, cand := range candidates {
		fileID := cand.diag.Primary.File
		file := fs.Get(fileID)

		if reason := validateReplacements(file, cand.diag.Fix.Replacements); reason != "" {
			result.Skipped = append(result.Skipped, SkippedFix{
				Rule:    cand.diag.Rule,
				Message: cand.diag.Message,
				Reason:  reason,
			})
			continue
		}
		if conflictsWithAccepted(accepted[fileID], cand.diag.Fix.Replacements) {
			result.Skipped = append(result.Skipped, SkippedFix{
				Rule:    cand.diag.Rule,
				Message: cand.diag.Message,
				Reason:  fmt.Sprintf("conflicts with a previously accepted fix in %s", file.FormatPath("auto", fs.BaseDir())),
			})
			continue
		}

		accepted[fileID] = append(accepted[fileID], cand.diag.Fix.Replacements...)
		editCount[fileID] += len(cand.diag.Fix.Replacements)
		result.Applied = append(result.Applied, AppliedFix{
			Rule:      cand.diag.Rule,
			Message:   cand.diag.Message,
			Hint:      cand.diag.Fix.Hint,
			Path:      file.FormatPath("auto", fs.BaseDir()),
			EditCount: len(cand.diag.Fix.Replacements),
		})
	}

	if len(result.Applied) == 0 {
		return result, ErrNoFixes
	}

	for fileID, reps := range accepted {
		file := fs.Get(fileID)
		fixer := NewFixer(string(file.Content))
		fixer.ApplyReplacements(reps)
		fixed := fixer.Value()

		if !opts.DryRun {
			if file.Flags&source.FileVirtual != 0 {
				return result, fmt.Errorf("fix: cannot write virtual file %s", file.Path)
			}
			mode := os.FileMode(0o644)
			if info, err := os.Stat(file.Path); err == nil {
				mode = info.Mode()
			}
			if err := os.WriteFile(file.Path, []byte(fixed), mode); err != nil {
				return result, fmt.Errorf("write %s: %w", file.Path, err)
			}
		}

		result.FileChanges = append(result.FileChanges, FileChange{
			Path:       file.FormatPath("relative", fs.BaseDir()),
			EditCount:  editCount[fileID],
			NewContent: fixed,
		})
	}

	sort.SliceStable(result.FileChanges, func(i, j int) bool {
		return result.FileChanges[i].Path < result.FileChanges[j].Path
	})

	return result, nil
}

// gatherCandidates keeps diagnostics that carry at least one replacement.
// Each candidate remembers its insertion order for deterministic sorting.
func gatherCandidates(diagnostics []diag.Diagnostic) []candidate {
	cands := make([]candidate, 0)
	for i, d := range diagnostics {
		if d.Fix == nil || len(d.Fix.Replacements) == 0 {
			continue
		}
		cands = append(cands, candidate{diag: d, order: i})
	}
	return cands
}

// sortCandidates orders candidates by file, span, then insertion order so
// conflict resolution is deterministic: the earliest diagnostic wins.
func sortCandidates(candidates []candidate) {
	sort.SliceStable(candidates, func(i, j int) bool {
		di, dj := candidates[i].diag, candidates[j].diag
		if di.Primary.File != dj.Primary.File {
			return di.Primary.File < dj.Primary.File
		}
		if di.Primary.Start != dj.Primary.Start {
			return di.Primary.Start < dj.Primary.Start
		}
		if di.Primary.End != dj.Primary.End {
			return di.Primary.End < dj.Primary.End
		}
		return candidates[i].order < candidates[j].order
	})
}

// validateReplacements checks replacement bounds against the original
// buffer before anything reaches the fixer, where a bad range would be
// fatal. Returns a human-readable skip reason, or "" when valid.
func validateReplacements(file *source.File, reps []diag.Replacement) string {
	if file == nil {
		return "file is not loaded"
	}
	lenContent, err := safecast.Conv[uint32](len(file.Content))
	if err != nil {
		return fmt.Sprintf("file too large: %v", err)
	}
	for _, r := range reps {
		if r.Start > r.End {
			return fmt.Sprintf("replacement range inverted: [%d,%d)", r.Start, r.End)
		}
		if r.End > lenContent {
			return fmt.Sprintf("replacement range [%d,%d) exceeds file of %d bytes", r.Start, r.End, lenContent)
		}
	}
	return ""
}

func conflictsWithAccepted(accepted, reps []diag.Replacement) bool {
	for _, prev := range accepted {
		for _, cand := range reps {
			if replacementsConflict(prev, cand) {
				return true
			}
		}
	}
	return false
}

// replacementsConflict reports whether two replacements' ranges overlap.
// Ranges are half-open. Two zero-length insertions never conflict; a
// zero-length insertion conflicts with a non-zero range when its position
// lies inside that range.
func replacementsConflict(a, b diag.Replacement) bool {
	if a.Start == a.End && b.Start == b.End {
		return false
	}
	if a.Start == a.End {
		return b.Start <= a.Start && a.Start < b.End
	}
	if b.Start == b.End {
		return a.Start <= b.Start && b.Start < a.End
	}
	return a.Start < b.End && b.Start < a.End
}
