package diag

import "fmt"

// InsertionPoint disambiguates zero-length insertions at a boundary shared
// by several edits.
type InsertionPoint uint8

const (
	// BeforeStart records the edit's length delta at the start boundary.
	BeforeStart InsertionPoint = iota
	// AfterEnd records the edit's length delta just past the end boundary.
	AfterEnd
)

func (p InsertionPoint) String() string {
	switch p {
	case BeforeStart:
		return "before-start"
	case AfterEnd:
		return "after-end"
	}
	return "unknown"
}

// Replacement is an edit instruction replacing the half-open range
// [Start, End) of the original text with Text. Start and End always refer
// to original-text coordinates, never to the output of another replacement.
// Higher precedences are applied first.
type Replacement struct {
	Start      uint32
	End        uint32
	Insertion  InsertionPoint
	Text       string
	Precedence int
}

// NewReplacement validates the range and constructs a Replacement.
// Start > End is refused here so that malformed bounds never reach the
// fixer, where they would be a fatal invariant violation.
func NewReplacement(start, end uint32, insertion InsertionPoint, text string, precedence int) (Replacement, error) {
	if start > end {
		return Replacement{}, fmt.Errorf("replacement range inverted: start %d > end %d", start, end)
	}
	return Replacement{
		Start:      start,
		End:        end,
		Insertion:  insertion,
		Text:       text,
		Precedence: precedence,
	}, nil
}

// MustReplacement is NewReplacement for statically known-good bounds.
func MustReplacement(start, end uint32, insertion InsertionPoint, text string, precedence int) Replacement {
	r, err := NewReplacement(start, end, insertion, text, precedence)
	if err != nil {
		panic(err)
	}
	return r
}
