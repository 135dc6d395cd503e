// Package screen draws the border, the optional blinking frame and the
// joystick cursor on the OLED.
package screen

import (
	"image/color"

	"tinygo.org/x/tinydraw"
	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/proggy"

	"bitdoglab-go/errcode"
	"bitdoglab-go/hal/halcore"
	"bitdoglab-go/services/joystick"
)

const borderInset = 3

var (
	on  = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	off = color.RGBA{A: 0xff}
)

func ink(v bool) color.RGBA {
	if v {
		return on
	}
	return off
}

type Screen struct {
	d     halcore.Display
	w, h  int16
	phase bool
}

func New(d halcore.Display) *Screen {
	w, h := d.Size()
	return &Screen{d: d, w: w, h: h}
}

// Render draws one frame and pushes it. The border phase flips on every
// call; with blink off the border stays a plain outline.
func (s *Screen) Render(cur joystick.Cursor, blink bool) error {
	s.phase = !s.phase
	fill := blink && !s.phase
	value := !blink || s.phase

	s.d.ClearBuffer()
	if fill {
		if err := tinydraw.FilledRectangle(s.d, 0, 0, s.w, s.h, on); err != nil {
			return s.wrap(err)
		}
	}

	x, y := int16(borderInset), int16(borderInset)
	w, h := s.w-2*borderInset, s.h-2*borderInset
	var err error
	if fill {
		err = tinydraw.FilledRectangle(s.d, x, y, w, h, ink(value))
	} else {
		err = tinydraw.Rectangle(s.d, x, y, w, h, ink(value))
	}
	if err != nil {
		return s.wrap(err)
	}

	if err := tinydraw.FilledRectangle(s.d, int16(cur.X), int16(cur.Y), joystick.GlyphSize, joystick.GlyphSize, on); err != nil {
		return s.wrap(err)
	}
	return s.push()
}

// Splash writes lines of text from the top-left corner.
func (s *Screen) Splash(lines ...string) error {
	s.d.ClearBuffer()
	y := int16(12)
	for _, l := range lines {
		tinyfont.WriteLine(s.d, &proggy.TinySZ8pt7b, 4, y, l, on)
		y += 12
	}
	return s.push()
}

// Phase reports the border phase used by the last Render.
func (s *Screen) Phase() bool { return s.phase }

func (s *Screen) push() error {
	if err := s.d.Display(); err != nil {
		return s.wrap(err)
	}
	return nil
}

func (s *Screen) wrap(err error) error {
	return errcode.Wrap(errcode.MapDriverErr(err), "screen", "draw", err)
}
