// Package conv formats integers into caller-owned buffers without fmt or
// strconv, so log lines stay allocation-light on the MCU.
package conv

// Utoa writes n in base 10 at the end of buf and returns the used tail.
// A 20-byte buffer fits any uint64.
func Utoa(buf []byte, n uint64) []byte {
	i := len(buf)
	if i == 0 {
		return buf[:0]
	}
	if n == 0 {
		buf[i-1] = '0'
		return buf[i-1:]
	}
	for n > 0 && i > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	return buf[i:]
}

// Itoa is Utoa with a leading '-' for negative n.
func Itoa(buf []byte, n int64) []byte {
	if n >= 0 {
		return Utoa(buf, uint64(n))
	}
	if len(buf) < 2 {
		return buf[:0]
	}
	out := Utoa(buf, uint64(-(n+1))+1)
	start := len(buf) - len(out)
	if start == 0 {
		return out
	}
	buf[start-1] = '-'
	return buf[start-1:]
}

// U32Hex writes n as 8 uppercase hex digits, zero padded, without "0x".
func U32Hex(buf []byte, n uint32) []byte {
	const digits = "0123456789ABCDEF"
	if len(buf) < 8 {
		return buf[:0]
	}
	i := len(buf)
	for j := 0; j < 8; j++ {
		i--
		buf[i] = digits[n&0xF]
		n >>= 4
	}
	return buf[i:]
}
