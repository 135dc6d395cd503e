//go:build rp2040 || rp2350

package platform

import (
	"context"
	"io"
	"machine"

	uartx "github.com/jangala-dev/tinygo-uartx/uartx"
	pio "github.com/tinygo-org/pio/rp2-pio"
	"github.com/tinygo-org/pio/rp2-pio/piolib"
	"tinygo.org/x/drivers/ssd1306"

	"bitdoglab-go/errcode"
	"bitdoglab-go/hal/halcore"
	"bitdoglab-go/types"
	"bitdoglab-go/x/logx"
)

// Open binds the board pins named in cfg. Peripherals that fail are left nil
// and logged; Open never aborts so the rest of the firmware keeps running.
func Open(cfg types.Config) (*Board, error) {
	p := cfg.Pins
	b := &Board{
		ButtonA:   pin(p.ButtonA),
		ButtonB:   pin(p.ButtonB),
		JoyButton: pin(p.JoyButton),
		LED:       halcore.RGB{Red: pin(p.Red), Green: pin(p.Green), Blue: pin(p.Blue)},
		Buzzer:    pin(p.Buzzer),
	}
	first := b.initOutputs()
	keep := func(err error) {
		if err != nil && first == nil {
			first = err
		}
	}

	machine.InitADC()
	b.JoyX = openADC(p.JoyX)
	b.JoyY = openADC(p.JoyY)

	d, err := openDisplay(cfg)
	if err != nil {
		logx.Println(tag, "display:", err)
		keep(err)
	} else {
		b.Display = d
	}

	s, err := openStrip(p.Matrix)
	if err != nil {
		logx.Println(tag, "matrix:", err)
		keep(err)
	} else {
		b.Matrix = s
	}

	b.Serial = openSerial()
	return b, first
}

func openADC(n int) halcore.ADC {
	a := machine.ADC{Pin: machine.Pin(n)}
	a.Configure(machine.ADCConfig{})
	return a
}

func openDisplay(cfg types.Config) (halcore.Display, error) {
	bus := machine.I2C1
	if err := bus.Configure(machine.I2CConfig{
		Frequency: 400 * machine.KHz,
		SDA:       machine.Pin(cfg.Pins.I2CSDA),
		SCL:       machine.Pin(cfg.Pins.I2CSCL),
	}); err != nil {
		return nil, errcode.Wrap(errcode.MapDriverErr(err), "platform.openDisplay", "i2c1", err)
	}
	d := ssd1306.NewI2C(bus)
	d.Configure(ssd1306.Config{
		Address: cfg.DisplayAddr,
		Width:   cfg.DisplayWidth,
		Height:  cfg.DisplayHeight,
	})
	d.ClearDisplay()
	return d, nil
}

func openStrip(n int) (halcore.Strip, error) {
	sm, err := pio.PIO0.ClaimStateMachine()
	if err != nil {
		return nil, errcode.Wrap(errcode.Busy, "platform.openStrip", "no free state machine", err)
	}
	ws, err := piolib.NewWS2812B(sm, machine.Pin(n))
	if err != nil {
		return nil, errcode.Wrap(errcode.MapDriverErr(err), "platform.openStrip", "ws2812b", err)
	}
	if err := ws.EnableDMA(true); err != nil {
		logx.Println(tag, "matrix dma unavailable, using fifo:", err)
	}
	return ws, nil
}

// LogWriter returns the serial port for log lines, falling back to the
// runtime print sink when the port did not open.
func LogWriter(b *Board) io.Writer {
	if b == nil || b.Serial == nil {
		return nil
	}
	return b.Serial
}

// ---- serial ----

type rp2Serial struct{ u *uartx.UART }

func (s *rp2Serial) Write(b []byte) (int, error) { return s.u.Write(b) }
func (s *rp2Serial) RecvSomeContext(ctx context.Context, buf []byte) (int, error) {
	return s.u.RecvSomeContext(ctx, buf)
}

func openSerial() halcore.Serial {
	u := uartx.UART0
	_ = u.Configure(uartx.UARTConfig{
		BaudRate: 115200,
		TX:       machine.UART0_TX_PIN,
		RX:       machine.UART0_RX_PIN,
	})
	return &rp2Serial{u: u}
}

// ---- GPIO (includes IRQ support) ----

type rp2Pin struct {
	p machine.Pin
	n int
}

func pin(n int) *rp2Pin { return &rp2Pin{p: machine.Pin(n), n: n} }

func (r *rp2Pin) ConfigureInput(pull halcore.Pull) error {
	var mode machine.PinMode
	switch pull {
	case halcore.PullUp:
		mode = machine.PinInputPullup
	case halcore.PullDown:
		mode = machine.PinInputPulldown
	default:
		mode = machine.PinInput
	}
	r.p.Configure(machine.PinConfig{Mode: mode})
	return nil
}

func (r *rp2Pin) ConfigureOutput(initial bool) error {
	r.p.Configure(machine.PinConfig{Mode: machine.PinOutput})
	r.p.Set(initial)
	return nil
}

func (r *rp2Pin) Set(level bool) { r.p.Set(level) }
func (r *rp2Pin) Get() bool      { return r.p.Get() }
func (r *rp2Pin) Number() int    { return r.n }

func (r *rp2Pin) SetIRQ(edge halcore.Edge, handler func()) error {
	return r.p.SetInterrupt(toPinChange(edge), func(machine.Pin) { handler() })
}

func (r *rp2Pin) ClearIRQ() error {
	var zero machine.PinChange
	return r.p.SetInterrupt(zero, nil)
}

func toPinChange(e halcore.Edge) machine.PinChange {
	switch e {
	case halcore.EdgeRising:
		return machine.PinRising
	case halcore.EdgeFalling:
		return machine.PinFalling
	case halcore.EdgeBoth:
		return machine.PinToggle
	default:
		var zero machine.PinChange
		return zero
	}
}
