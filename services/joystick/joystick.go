// Package joystick maps raw analog joystick samples onto the two output
// surfaces: the OLED cursor and the 5×5 LED matrix.
package joystick

import (
	"bitdoglab-go/hal/halcore"
	"bitdoglab-go/types"
	"bitdoglab-go/x/mathx"
)

// Reading is one joystick sample, each axis in [0, Period).
type Reading struct {
	X, Y uint16
}

// Cursor is the top-left pixel of the cursor glyph on the display.
type Cursor struct {
	X, Y int
}

// Cell is a matrix coordinate. Values outside [0,5) are off-grid.
type Cell struct {
	Row, Col int
}

const (
	GlyphSize   = 8
	glyphOffset = GlyphSize / 2
	// Far-edge clamp: glyph, 3 px border and 2 px gap.
	edgeInset = GlyphSize + 5
	gridSize  = 5
)

// Geometry fixes the analog range and the display extent.
type Geometry struct {
	Period   uint16
	Width    int
	Height   int
	Deadzone uint16
}

func GeometryFrom(c types.Config) Geometry {
	return Geometry{
		Period:   c.ADCPeriod,
		Width:    int(c.DisplayWidth),
		Height:   int(c.DisplayHeight),
		Deadzone: c.Deadzone,
	}
}

// Mapper holds the calibration center captured at startup. It is never
// mutated after construction.
type Mapper struct {
	geo    Geometry
	center Reading
}

func NewMapper(geo Geometry, center Reading) *Mapper {
	return &Mapper{geo: geo, center: center}
}

func (m *Mapper) Center() Reading    { return m.center }
func (m *Mapper) Geometry() Geometry { return m.geo }

// invertY flips the Y axis so "up" on the stick is towards row 0 / y 0.
func (m *Mapper) invertY(y uint16) uint32 {
	p := uint32(m.geo.Period)
	if uint32(y) >= p {
		return 0
	}
	return p - uint32(y)
}

// ToDisplay scales the reading onto the display and clamps it so the glyph
// stays inside the border.
func (m *Mapper) ToDisplay(r Reading) Cursor {
	p := uint32(m.geo.Period)
	x := mathx.Scale(uint32(r.X), p, uint32(m.geo.Width)) - glyphOffset
	y := mathx.Scale(m.invertY(r.Y), p, uint32(m.geo.Height)) - glyphOffset
	return Cursor{
		X: clampAxis(x, m.geo.Width),
		Y: clampAxis(y, m.geo.Height),
	}
}

// clampAxis keeps the glyph between the border margin and the far edge.
func clampAxis(v, extent int) int {
	return mathx.Clamp(v, glyphOffset, extent-1-edgeInset)
}

// ToMatrix maps the reading onto the LED matrix. The Y axis drives the row
// and the X axis the column, matching the matrix's mounting relative to
// the stick. The result is not clamped: raw Y == 0 lands on row -1.
func (m *Mapper) ToMatrix(r Reading) Cell {
	p := uint32(m.geo.Period)
	return Cell{
		Row: gridSize - 1 - mathx.Scale(m.invertY(r.Y), p, gridSize),
		Col: mathx.Scale(uint32(r.X), p, gridSize),
	}
}

// Moved reports, per axis, whether the reading is outside the deadzone
// around the calibration center.
func (m *Mapper) Moved(r Reading) (x, y bool) {
	x = mathx.AbsDiff(r.X, m.center.X) > m.geo.Deadzone
	y = mathx.AbsDiff(r.Y, m.center.Y) > m.geo.Deadzone
	return x, y
}

// Mapping bundles everything derived from one reading.
type Mapping struct {
	Reading Reading
	Cursor  Cursor
	Cell    Cell
	MovedX  bool
	MovedY  bool
}

func (m *Mapper) Map(r Reading) Mapping {
	mx, my := m.Moved(r)
	return Mapping{
		Reading: r,
		Cursor:  m.ToDisplay(r),
		Cell:    m.ToMatrix(r),
		MovedX:  mx,
		MovedY:  my,
	}
}

// FromADC16 converts a left-justified 16-bit ADC sample to the 12-bit range.
func FromADC16(v uint16) uint16 { return v >> 4 }

// Sampler reads both axes from their ADC channels.
type Sampler struct {
	X, Y halcore.ADC
}

func (s Sampler) Read() Reading {
	return Reading{X: FromADC16(s.X.Get()), Y: FromADC16(s.Y.Get())}
}
