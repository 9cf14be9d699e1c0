package diag

import (
	"testing"

	"wdlint/internal/source"
)

func TestBagLimit(t *testing.T) {
	b := NewBag(2)

	if !b.Add(NewWarning("RuleA", source.Span{}, "first")) {
		t.Fatalf("expected first add to succeed")
	}
	if !b.Add(NewWarning("RuleA", source.Span{}, "second")) {
		t.Fatalf("expected second add to succeed")
	}
	if b.Add(NewWarning("RuleA", source.Span{}, "third")) {
		t.Fatalf("expected add beyond limit to fail")
	}
	if b.Len() != 2 {
		t.Fatalf("expected 2 diagnostics, got %d", b.Len())
	}
}

func TestBagSortOrder(t *testing.T) {
	b := NewBag(10)
	b.Add(NewWarning("B", source.Span{File: 0, Start: 10, End: 12}, "later"))
	b.Add(NewError("A", source.Span{File: 0, Start: 10, End: 12}, "error wins"))
	b.Add(NewWarning("A", source.Span{File: 0, Start: 2, End: 4}, "earlier"))

	b.Sort()

	items := b.Items()
	if items[0].Message != "earlier" {
		t.Errorf("expected span order first, got %q", items[0].Message)
	}
	if items[1].Message != "error wins" {
		t.Errorf("expected higher severity before lower at same span, got %q", items[1].Message)
	}
	if items[2].Message != "later" {
		t.Errorf("expected warning last, got %q", items[2].Message)
	}
}

func TestBagHasErrors(t *testing.T) {
	b := NewBag(10)
	b.Add(NewNote("A", source.Span{}, "just a note"))
	if b.HasErrors() || b.HasWarnings() {
		t.Fatalf("note alone should not count as warning or error")
	}

	b.Add(NewWarning("A", source.Span{}, "warn"))
	if b.HasErrors() {
		t.Fatalf("warning should not count as error")
	}
	if !b.HasWarnings() {
		t.Fatalf("expected HasWarnings after adding a warning")
	}
}

func TestWithLabelSetsPrimary(t *testing.T) {
	sp := source.Span{File: 1, Start: 5, End: 9}
	d := New(SevNote, "R", source.Span{}, "summary").WithLabel(sp, "detail")

	if d.Primary != sp {
		t.Errorf("expected first label span to become primary, got %+v", d.Primary)
	}
	if len(d.Labels) != 1 || d.Labels[0].Msg != "detail" {
		t.Errorf("unexpected labels: %+v", d.Labels)
	}
}

func TestWithReplacementCopiesFix(t *testing.T) {
	base := NewWarning("R", source.Span{}, "m").WithFixHint("remove it")
	r := MustReplacement(0, 3, BeforeStart, "", 1)

	derived := base.WithReplacement(r)

	if len(base.Fix.Replacements) != 0 {
		t.Fatalf("base diagnostic fix mutated: %+v", base.Fix)
	}
	if len(derived.Fix.Replacements) != 1 {
		t.Fatalf("expected one replacement on derived fix")
	}
	if derived.Fix.Hint != "remove it" {
		t.Errorf("expected hint to carry over, got %q", derived.Fix.Hint)
	}
}

func TestNewReplacementRejectsInvertedRange(t *testing.T) {
	if _, err := NewReplacement(5, 3, BeforeStart, "x", 0); err == nil {
		t.Fatalf("expected inverted range to be refused")
	}
	if _, err := NewReplacement(3, 3, AfterEnd, "x", 0); err != nil {
		t.Fatalf("zero-length range should be accepted: %v", err)
	}
}

func TestBagLimitBeyond16Bits(t *testing.T) {
	const limit = 1<<16 + 4
	b := NewBag(limit)
	if b.Cap() != limit {
		t.Fatalf("Cap() = %d, want %d", b.Cap(), limit)
	}
	for i := 0; i < limit; i++ {
		if !b.Add(NewNote("A", source.Span{}, "n")) {
			t.Fatalf("add %d rejected below the limit", i)
		}
	}
	if b.Add(NewNote("A", source.Span{}, "n")) {
		t.Fatal("expected add beyond limit to fail")
	}
	if b.Len() != limit {
		t.Fatalf("Len() = %d, want %d", b.Len(), limit)
	}
}

func TestBagMergeGrowsLimitBeyond16Bits(t *testing.T) {
	const big = 1<<16 + 2
	other := NewBag(big)
	for i := 0; i < big; i++ {
		other.Add(NewNote("A", source.Span{}, "n"))
	}

	b := NewBag(1)
	b.Add(NewNote("B", source.Span{}, "kept"))
	b.Merge(other)

	if b.Len() != big+1 {
		t.Fatalf("Len() = %d, want %d", b.Len(), big+1)
	}
	// The grown limit is exactly the merged total.
	if b.Add(NewNote("C", source.Span{}, "over")) {
		t.Fatal("expected add beyond merged total to fail")
	}
}

func TestBagNegativeLimit(t *testing.T) {
	b := NewBag(-1)
	if b.Add(NewNote("A", source.Span{}, "n")) {
		t.Fatal("expected add to fail on a non-positive limit")
	}
}
