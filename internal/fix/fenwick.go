package fix

import "fmt"

// fenwick is a 0-indexed Fenwick (binary indexed) tree over signed deltas,
// one slot per text boundary position. Only the algebraic sum of deltas
// recorded below a boundary matters to the fixer, not the order in which
// they were recorded, so prefix sums are all it ever asks for.
type fenwick struct {
	tree []int
}

// newFenwick creates a tree with n zeroed slots.
func newFenwick(n int) *fenwick {
	return &fenwick{tree: make([]int, n)}
}

// Len returns the number of boundary slots.
func (f *fenwick) Len() int {
	return len(f.tree)
}

// Add records delta at boundary i. Boundaries at or past the end of the
// buffer can never affect an in-range query, so they are ignored (an
// after-end insertion at the last byte lands there). Negative boundaries
// are a fatal invariant violation.
func (f *fenwick) Add(i, delta int) {
	if i < 0 {
		panic(fmt.Sprintf("fix: fenwick Add with negative boundary %d", i))
	}
	if i >= len(f.tree) {
		return
	}
	for ; i < len(f.tree); i |= i + 1 {
		f.tree[i] += delta
	}
}

// PrefixSum returns the sum of deltas recorded at boundaries strictly
// below i. Out-of-range indices indicate a malformed replacement and are a
// fatal invariant violation.
func (f *fenwick) PrefixSum(i int) int {
	if i < 0 || i > len(f.tree) {
		panic(fmt.Sprintf("fix: fenwick PrefixSum out of range: %d (len %d)", i, len(f.tree)))
	}
	sum := 0
	for j := i; j > 0; j &= j - 1 {
		sum += f.tree[j-1]
	}
	return sum
}
