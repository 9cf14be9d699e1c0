package fix

import (
	"fmt"
	"sort"

	"fortio.org/safecast"

	"wdlint/internal/diag"
)

// Fixer applies a batch of replacements to a text buffer while keeping
// original-text coordinates valid. Replacement authors only ever think in
// original-text offsets; the fixer tracks cumulative length deltas in a
// Fenwick tree and translates offsets on demand.
//
// One Fixer serves one buffer for one fix-application session and is
// discarded afterwards.
type Fixer struct {
	value string
	tree  *fenwick
}

// NewFixer creates a Fixer over value.
func NewFixer(value string) *Fixer {
	return &Fixer{
		value: value,
		tree:  newFenwick(len(value) + 1),
	}
}

// Value returns the buffer with all applied replacements.
func (f *Fixer) Value() string {
	return f.value
}

// Transform maps an original-text offset to its position in the current
// buffer: the offset plus the sum of all deltas recorded below it. Panics
// when the index lies outside the original buffer; that means a rule
// produced a malformed replacement, which is not recoverable.
func (f *Fixer) Transform(index int) int {
	out := index + f.tree.PrefixSum(index)
	if out < 0 {
		panic(fmt.Sprintf("fix: transformed index underflows: %d -> %d", index, out))
	}
	return out
}

// AdjRange translates a half-open original-text range [start, end) into
// current-buffer coordinates.
func (f *Fixer) AdjRange(start, end int) (int, int) {
	return f.Transform(start), f.Transform(end)
}

// AdjRangeInc translates an inclusive original-text range [start, end]
// into current-buffer coordinates.
func (f *Fixer) AdjRangeInc(start, end int) (int, int) {
	return f.Transform(start), f.Transform(end)
}

// ApplyReplacement applies a single replacement. The edit's length delta is
// recorded at the start boundary for BeforeStart insertions and just past
// the end boundary for AfterEnd, so that later edits touching the same
// boundary land on the intended side.
func (f *Fixer) ApplyReplacement(rep diag.Replacement) {
	oldStart, err := safecast.Conv[int](rep.Start)
	if err != nil {
		panic(fmt.Errorf("fix: replacement start overflow: %w", err))
	}
	oldEnd, err := safecast.Conv[int](rep.End)
	if err != nil {
		panic(fmt.Errorf("fix: replacement end overflow: %w", err))
	}

	newStart, newEnd := f.AdjRange(oldStart, oldEnd)
	if newStart > newEnd || newEnd > len(f.value) {
		panic(fmt.Sprintf("fix: translated range [%d,%d) exceeds buffer of %d bytes", newStart, newEnd, len(f.value)))
	}

	shift := len(rep.Text) - (oldEnd - oldStart)
	insertAt := oldStart
	if rep.Insertion == diag.AfterEnd {
		insertAt = oldEnd + 1
	}
	f.tree.Add(insertAt, shift)

	f.value = f.value[:newStart] + rep.Text + f.value[newEnd:]
}

// ApplyReplacements applies reps ordered by precedence, descending. Ties
// keep their original input order (stable sort), so callers submitting
// non-overlapping edits get identical results regardless of call order.
func (f *Fixer) ApplyReplacements(reps []diag.Replacement) {
	ordered := append([]diag.Replacement(nil), reps...)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Precedence > ordered[j].Precedence
	})
	for _, rep := range ordered {
		f.ApplyReplacement(rep)
	}
}
