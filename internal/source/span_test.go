package source

import (
	"testing"
)

func TestSpan_Cover(t *testing.T) {
	tests := []struct {
		name     string
		span     Span
		other    Span
		expected Span
	}{
		{
			name:     "disjoint spans merge to hull",
			span:     Span{File: 1, Start: 10, End: 20},
			other:    Span{File: 1, Start: 30, End: 40},
			expected: Span{File: 1, Start: 10, End: 40},
		},
		{
			name:     "contained span leaves outer unchanged",
			span:     Span{File: 1, Start: 10, End: 40},
			other:    Span{File: 1, Start: 20, End: 30},
			expected: Span{File: 1, Start: 10, End: 40},
		},
		{
			name:     "other extends start",
			span:     Span{File: 1, Start: 10, End: 20},
			other:    Span{File: 1, Start: 5, End: 15},
			expected: Span{File: 1, Start: 5, End: 20},
		},
		{
			name:     "different file is ignored",
			span:     Span{File: 1, Start: 10, End: 20},
			other:    Span{File: 2, Start: 0, End: 100},
			expected: Span{File: 1, Start: 10, End: 20},
		},
		{
			name:     "zero-length other at end",
			span:     Span{File: 1, Start: 10, End: 20},
			other:    Span{File: 1, Start: 25, End: 25},
			expected: Span{File: 1, Start: 10, End: 25},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.span.Cover(tt.other)
			if result != tt.expected {
				t.Errorf("Cover() = %+v, want %+v", result, tt.expected)
			}
		})
	}
}

func TestSpan_Contains(t *testing.T) {
	span := Span{File: 1, Start: 10, End: 20}

	tests := []struct {
		off  uint32
		want bool
	}{
		{9, false},
		{10, true},
		{19, true},
		{20, false},
	}

	for _, tt := range tests {
		if got := span.Contains(tt.off); got != tt.want {
			t.Errorf("Contains(%d) = %v, want %v", tt.off, got, tt.want)
		}
	}
}

func TestSpan_LenAndEmpty(t *testing.T) {
	empty := Span{File: 1, Start: 7, End: 7}
	if !empty.Empty() {
		t.Errorf("expected zero-length span to be empty")
	}
	if empty.Len() != 0 {
		t.Errorf("Len() = %d, want 0", empty.Len())
	}

	span := Span{File: 1, Start: 3, End: 11}
	if span.Empty() {
		t.Errorf("expected non-empty span")
	}
	if span.Len() != 8 {
		t.Errorf("Len() = %d, want 8", span.Len())
	}
}

func TestSpan_ShiftRight(t *testing.T) {
	span := Span{File: 2, Start: 5, End: 9}
	got := span.ShiftRight(3)
	want := Span{File: 2, Start: 8, End: 12}
	if got != want {
		t.Errorf("ShiftRight() = %+v, want %+v", got, want)
	}
}
