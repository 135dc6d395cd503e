// Package matrix addresses the 5×5 WS2812 matrix. The strip is wired as a
// serpentine: the first LED is the bottom-right cell of the grid and
// alternate rows run in opposite directions.
//
//	24 23 22 21 20
//	15 16 17 18 19
//	14 13 12 11 10
//	05 06 07 08 09
//	04 03 02 01 00
package matrix

import (
	"bitdoglab-go/hal/halcore"
)

const (
	Size   = 5
	Pixels = Size * Size
)

// Cell is a grid coordinate; row 0 is the first row streamed.
type Cell struct {
	Row, Col int
}

func (c Cell) OnGrid() bool {
	return c.Row >= 0 && c.Row < Size && c.Col >= 0 && c.Col < Size
}

// Buffer is one frame in wire order.
type Buffer [Pixels]uint32

// Frame returns the slice handed to the strip driver.
func (b *Buffer) Frame() []uint32 { return b[:] }

// Lit returns the wire index of the single lit LED, if any.
func (b Buffer) Lit() (int, bool) {
	for i, v := range b {
		if v != 0 {
			return i, true
		}
	}
	return -1, false
}

// Index returns the wire position of c. Even rows run right to left, odd
// rows left to right.
func Index(c Cell) (int, bool) {
	if !c.OnGrid() {
		return -1, false
	}
	if c.Row%2 == 0 {
		return c.Row*Size + (Size - 1 - c.Col), true
	}
	return c.Row*Size + c.Col, true
}

// CellAt is the inverse of Index.
func CellAt(i int) (Cell, bool) {
	if i < 0 || i >= Pixels {
		return Cell{-1, -1}, false
	}
	row, off := i/Size, i%Size
	if row%2 == 0 {
		return Cell{Row: row, Col: Size - 1 - off}, true
	}
	return Cell{Row: row, Col: off}, true
}

// Build lights exactly one cell. An off-grid cell yields an all-zero frame.
func Build(active Cell, color uint32) Buffer {
	var grid [Size][Size]uint32
	if active.OnGrid() {
		grid[active.Row][active.Col] = color
	}
	return Flatten(&grid)
}

// Flatten streams a grid in serpentine order.
func Flatten(grid *[Size][Size]uint32) Buffer {
	var out Buffer
	n := 0
	for row := 0; row < Size; row++ {
		if row%2 == 0 {
			for col := Size - 1; col >= 0; col-- {
				out[n] = grid[row][col]
				n++
			}
		} else {
			for col := 0; col < Size; col++ {
				out[n] = grid[row][col]
				n++
			}
		}
	}
	return out
}

// Grid rebuilds the row/column view of a frame.
func Grid(b *Buffer) [Size][Size]uint32 {
	var grid [Size][Size]uint32
	for i, v := range b {
		c, _ := CellAt(i)
		grid[c.Row][c.Col] = v
	}
	return grid
}

// Matrix owns the strip and the last frame sent to it.
type Matrix struct {
	strip halcore.Strip
	last  Buffer
}

func New(strip halcore.Strip) *Matrix { return &Matrix{strip: strip} }

// Show rebuilds the frame for active/color and streams it.
func (m *Matrix) Show(active Cell, color uint32) (Buffer, error) {
	m.last = Build(active, color)
	return m.last, m.strip.WriteRaw(m.last.Frame())
}

// Clear turns every LED off.
func (m *Matrix) Clear() error {
	m.last = Buffer{}
	return m.strip.WriteRaw(m.last.Frame())
}

func (m *Matrix) Last() Buffer { return m.last }
