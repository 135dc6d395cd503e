// hal/halcore/types.go
package halcore

import (
	"context"

	"tinygo.org/x/drivers"
)

// ---- GPIO abstractions ----

type Pull uint8

const (
	PullNone Pull = iota
	PullUp
	PullDown
)

type Pin interface {
	ConfigureInput(pull Pull) error
	ConfigureOutput(initial bool) error
	Set(level bool)
	Get() bool
	Number() int
}

// Edge selection for IRQ.
type Edge uint8

const (
	EdgeNone Edge = iota
	EdgeRising
	EdgeFalling
	EdgeBoth
)

// IRQPin extends Pin with interrupts. The handler runs in interrupt context
// on MCU builds: it must not block or allocate.
type IRQPin interface {
	Pin
	SetIRQ(edge Edge, handler func()) error
	ClearIRQ() error
}

func EdgeToString(e Edge) string {
	switch e {
	case EdgeRising:
		return "rising"
	case EdgeFalling:
		return "falling"
	case EdgeBoth:
		return "both"
	default:
		return "none"
	}
}

// ---- Analog ----

// ADC returns a left-justified 16-bit sample, as machine.ADC.Get does.
type ADC interface {
	Get() uint16
}

// ---- LED strip ----

// Strip streams raw GRB words (green in bits 31..24, red 23..16, blue
// 15..8) to an addressable LED chain. WriteRaw blocks until queued.
type Strip interface {
	WriteRaw(grb []uint32) error
}

// ---- Display ----

// Display is the pixel surface used by the screen renderer.
type Display interface {
	drivers.Displayer
	ClearBuffer()
}

// RGB groups the three discrete channels of the RGB LED.
type RGB struct {
	Red, Green, Blue Pin
}

// Off drives all three channels low.
func (c RGB) Off() {
	c.Red.Set(false)
	c.Green.Set(false)
	c.Blue.Set(false)
}

// ---- Serial ----

// Serial is a byte stream with a cancellable receive, as uartx.UART offers.
type Serial interface {
	Write(p []byte) (int, error)
	RecvSomeContext(ctx context.Context, buf []byte) (int, error)
}
