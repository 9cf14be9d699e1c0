package fix

import (
	"testing"
)

func TestFenwickPrefixSumExclusive(t *testing.T) {
	f := newFenwick(11)
	f.Add(3, 5)
	f.Add(7, -2)

	tests := []struct {
		boundary int
		want     int
	}{
		{0, 0},
		{3, 0}, // delta at 3 is not visible below 3
		{4, 5}, // now it is
		{7, 5},
		{8, 3},
		{10, 3},
	}

	for _, tt := range tests {
		if got := f.PrefixSum(tt.boundary); got != tt.want {
			t.Errorf("PrefixSum(%d) = %d, want %d", tt.boundary, got, tt.want)
		}
	}
}

func TestFenwickUpdateOrderIrrelevant(t *testing.T) {
	a := newFenwick(16)
	b := newFenwick(16)

	updates := []struct {
		boundary int
		delta    int
	}{
		{0, 2}, {5, -1}, {5, 4}, {12, 7}, {1, -3},
	}

	for _, u := range updates {
		a.Add(u.boundary, u.delta)
	}
	for i := len(updates) - 1; i >= 0; i-- {
		b.Add(updates[i].boundary, updates[i].delta)
	}

	for i := 0; i <= 16; i++ {
		if a.PrefixSum(i) != b.PrefixSum(i) {
			t.Fatalf("PrefixSum(%d) differs: %d vs %d", i, a.PrefixSum(i), b.PrefixSum(i))
		}
	}
}

func TestFenwickAddPastEndIsNoop(t *testing.T) {
	f := newFenwick(6)
	f.Add(6, 100)
	for i := 0; i <= 6; i++ {
		if got := f.PrefixSum(i); got != 0 {
			t.Fatalf("PrefixSum(%d) = %d, want 0 after past-end add", i, got)
		}
	}
}

func TestFenwickNegativeBoundaryPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic for negative boundary")
		}
	}()
	f := newFenwick(4)
	f.Add(-1, 1)
}
