package timex

import "time"

// NowMs returns Unix milliseconds as int64.
func NowMs() int64 { return time.Now().UnixMilli() }

// HalfPeriod returns half of one cycle at freqHz, truncated to whole
// microseconds (500000/freq µs). freqHz==0 is coerced to 1.
func HalfPeriod(freqHz uint32) time.Duration {
	if freqHz == 0 {
		freqHz = 1
	}
	return time.Duration(500_000/freqHz) * time.Microsecond
}

// Cycles returns the number of whole cycles of freqHz that fit in d,
// computed as freq*ms/1000.
func Cycles(freqHz uint32, d time.Duration) uint32 {
	return uint32(uint64(freqHz) * uint64(d.Milliseconds()) / 1000)
}

// Elapsed reports whether at least d has passed between since and now.
func Elapsed(since, now time.Time, d time.Duration) bool {
	return now.Sub(since) >= d
}
