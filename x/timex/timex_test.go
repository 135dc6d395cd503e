package timex

import (
	"testing"
	"time"
)

func TestHalfPeriod(t *testing.T) {
	cases := map[uint32]time.Duration{
		440: 1136 * time.Microsecond,
		330: 1515 * time.Microsecond,
		0:   500 * time.Millisecond,
	}
	for f, want := range cases {
		if got := HalfPeriod(f); got != want {
			t.Fatalf("HalfPeriod(%d) = %v, want %v", f, got, want)
		}
	}
}

func TestCycles(t *testing.T) {
	if got := Cycles(392, 150*time.Millisecond); got != 58 {
		t.Fatalf("Cycles(392,150ms) = %d, want 58", got)
	}
	if got := Cycles(0, time.Second); got != 0 {
		t.Fatalf("Cycles(0,1s) = %d", got)
	}
}

func TestElapsed(t *testing.T) {
	t0 := time.Unix(0, 0)
	if Elapsed(t0, t0.Add(299*time.Millisecond), 300*time.Millisecond) {
		t.Fatal("299ms < 300ms")
	}
	if !Elapsed(t0, t0.Add(300*time.Millisecond), 300*time.Millisecond) {
		t.Fatal("300ms should count as elapsed")
	}
}
