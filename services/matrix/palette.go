package matrix

// GRB packs a color the way the PIO WS2812 program expects it: green in the
// top byte, then red, then blue, low byte unused.
func GRB(r, g, b uint8) uint32 {
	return uint32(g)<<24 | uint32(r)<<16 | uint32(b)<<8
}

// Named is a palette entry.
type Named struct {
	Name  string
	Color uint32
}

// Palette is indexed by the button B selection.
var Palette = [3]Named{
	{Name: "red", Color: GRB(0x55, 0, 0)},
	{Name: "blue", Color: GRB(0, 0, 0x55)},
	{Name: "green", Color: GRB(0, 0x55, 0)},
}

// ColorFor returns the palette entry for a selection, wrapping out-of-range
// values into [0,3).
func ColorFor(sel int) Named {
	n := len(Palette)
	return Palette[((sel%n)+n)%n]
}

// Split unpacks a GRB word.
func Split(grb uint32) (r, g, b uint8) {
	return uint8(grb >> 16), uint8(grb >> 24), uint8(grb >> 8)
}
