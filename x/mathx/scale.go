package mathx

// Scale maps v in [0,inSpan) onto [0,outSpan) with a floored 32-bit product,
// the fixed-point transform used for ADC → pixel/cell conversions.
// inSpan==0 yields 0.
func Scale(v, inSpan, outSpan uint32) int {
	if inSpan == 0 {
		return 0
	}
	return int(uint64(v) * uint64(outSpan) / uint64(inSpan))
}

// AbsDiff returns |a-b| for unsigned operands without wrapping.
func AbsDiff[T ~uint8 | ~uint16 | ~uint32 | ~uint64](a, b T) T {
	if a > b {
		return a - b
	}
	return b - a
}
