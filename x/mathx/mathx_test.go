package mathx

import "testing"

func TestClamp(t *testing.T) {
	cases := []struct{ v, lo, hi, want int }{
		{5, 0, 10, 5},
		{-3, 0, 10, 0},
		{42, 0, 10, 10},
		{7, 10, 0, 7}, // swapped bounds
	}
	for _, c := range cases {
		if got := Clamp(c.v, c.lo, c.hi); got != c.want {
			t.Fatalf("Clamp(%d,%d,%d) = %d, want %d", c.v, c.lo, c.hi, got, c.want)
		}
	}
	if got := Clamp(2, 4, 114); got != 4 {
		t.Fatalf("values just under the floor must lift to it, got %d", got)
	}
}

func TestScale(t *testing.T) {
	cases := []struct {
		v, in, out uint32
		want       int
	}{
		{0, 4096, 5, 0},
		{4095, 4096, 5, 4},
		{4096, 4096, 5, 5},
		{2048, 4096, 128, 64},
		{819, 4096, 5, 0},
		{820, 4096, 5, 1},
		{123, 0, 5, 0},
	}
	for _, c := range cases {
		if got := Scale(c.v, c.in, c.out); got != c.want {
			t.Fatalf("Scale(%d,%d,%d) = %d, want %d", c.v, c.in, c.out, got, c.want)
		}
	}
}

func TestAbsDiff(t *testing.T) {
	if AbsDiff[uint16](10, 260) != 250 || AbsDiff[uint16](260, 10) != 250 {
		t.Fatal("AbsDiff must be symmetric")
	}
	if AbsDiff[uint16](7, 7) != 0 {
		t.Fatal("AbsDiff of equal values")
	}
}
