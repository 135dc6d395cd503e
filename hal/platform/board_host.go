//go:build !rp2040 && !rp2350

package platform

import (
	"context"
	"image/color"
	"io"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"bitdoglab-go/hal/halcore"
	"bitdoglab-go/types"
)

// Fakes exposes the host peripherals so tests and the simulator can drive
// inputs and inspect outputs.
type Fakes struct {
	JoyX, JoyY *FakeADC

	ButtonA, ButtonB, JoyButton *FakePin
	Red, Green, Blue, Buzzer    *FakePin

	Matrix  *FakeStrip
	Display *FakeDisplay
	Serial  *FakeSerial
}

// Open returns a host board whose fakes are not reachable by the caller.
func Open(cfg types.Config) (*Board, error) {
	b, _ := NewHost(cfg)
	return b, nil
}

// NewHost builds a board of fakes: buttons idle high (pulled up), the
// joystick centred.
func NewHost(cfg types.Config) (*Board, *Fakes) {
	p := cfg.Pins
	center := cfg.ADCPeriod / 2
	f := &Fakes{
		JoyX:      NewFakeADC(center),
		JoyY:      NewFakeADC(center),
		ButtonA:   &FakePin{number: p.ButtonA, level: true},
		ButtonB:   &FakePin{number: p.ButtonB, level: true},
		JoyButton: &FakePin{number: p.JoyButton, level: true},
		Red:       &FakePin{number: p.Red},
		Green:     &FakePin{number: p.Green},
		Blue:      &FakePin{number: p.Blue},
		Buzzer:    &FakePin{number: p.Buzzer},
		Matrix:    &FakeStrip{},
		Display:   NewFakeDisplay(cfg.DisplayWidth, cfg.DisplayHeight),
		Serial:    NewFakeSerial(),
	}
	b := &Board{
		JoyX:      f.JoyX,
		JoyY:      f.JoyY,
		ButtonA:   f.ButtonA,
		ButtonB:   f.ButtonB,
		JoyButton: f.JoyButton,
		LED:       halcore.RGB{Red: f.Red, Green: f.Green, Blue: f.Blue},
		Buzzer:    f.Buzzer,
		Matrix:    f.Matrix,
		Display:   f.Display,
		Serial:    f.Serial,
	}
	_ = b.initOutputs()
	return b, f
}

// Press pulls pin low then releases it, firing one falling edge.
func Press(p *FakePin) {
	p.Set(false)
	p.Set(true)
}

// ----------------------------- GPIO (host) -----------------------------------

// FakePin implements IRQPin. Set fires the registered handler on a matching
// edge, the way a pin interrupt would.
type FakePin struct {
	mu      sync.RWMutex
	number  int
	level   bool
	modeOut bool
	pull    halcore.Pull
	irqEdge halcore.Edge
	irqFunc func()
	toggles uint32
}

func NewFakePin(n int) *FakePin { return &FakePin{number: n} }

func (p *FakePin) ConfigureInput(pull halcore.Pull) error {
	p.mu.Lock()
	p.modeOut = false
	p.pull = pull
	if pull == halcore.PullUp {
		p.level = true
	}
	p.mu.Unlock()
	return nil
}

func (p *FakePin) ConfigureOutput(initial bool) error {
	p.mu.Lock()
	p.modeOut = true
	p.level = initial
	p.mu.Unlock()
	return nil
}

func (p *FakePin) Set(level bool) {
	p.mu.Lock()
	old := p.level
	p.level = level
	if old != level {
		p.toggles++
	}
	irq := p.irqFunc
	want := irqWanted(p.irqEdge, edgeFrom(old, level))
	p.mu.Unlock()
	if want && irq != nil {
		irq()
	}
}

func (p *FakePin) Get() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.level
}

func (p *FakePin) Number() int { return p.number }

// Toggles counts level changes since creation.
func (p *FakePin) Toggles() uint32 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.toggles
}

func (p *FakePin) IsOutput() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.modeOut
}

func (p *FakePin) SetIRQ(edge halcore.Edge, handler func()) error {
	p.mu.Lock()
	p.irqEdge = edge
	p.irqFunc = handler
	p.mu.Unlock()
	return nil
}

func (p *FakePin) ClearIRQ() error {
	p.mu.Lock()
	p.irqEdge = halcore.EdgeNone
	p.irqFunc = nil
	p.mu.Unlock()
	return nil
}

func edgeFrom(old, new bool) halcore.Edge {
	switch {
	case !old && new:
		return halcore.EdgeRising
	case old && !new:
		return halcore.EdgeFalling
	default:
		return halcore.EdgeNone
	}
}

func irqWanted(cfg, seen halcore.Edge) bool {
	switch cfg {
	case halcore.EdgeBoth:
		return seen == halcore.EdgeRising || seen == halcore.EdgeFalling
	default:
		return cfg != halcore.EdgeNone && cfg == seen
	}
}

// ----------------------------- ADC (host) ------------------------------------

// FakeADC holds a 12-bit reading and reports it left-justified like the
// RP2 ADC.
type FakeADC struct{ v atomic.Uint32 }

func NewFakeADC(v uint16) *FakeADC {
	a := &FakeADC{}
	a.Set(v)
	return a
}

// Set stores a 12-bit value.
func (a *FakeADC) Set(v uint16)  { a.v.Store(uint32(v)) }
func (a *FakeADC) Value() uint16 { return uint16(a.v.Load()) }
func (a *FakeADC) Get() uint16   { return uint16(a.v.Load()) << 4 }

// ----------------------------- Strip (host) ----------------------------------

type FakeStrip struct {
	mu     sync.Mutex
	last   []uint32
	frames int
	Err    error
}

func (s *FakeStrip) WriteRaw(grb []uint32) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.last = append(s.last[:0], grb...)
	s.frames++
	return s.Err
}

// Last returns a copy of the most recent frame.
func (s *FakeStrip) Last() []uint32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]uint32(nil), s.last...)
}

func (s *FakeStrip) Frames() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frames
}

// ----------------------------- Display (host) --------------------------------

// FakeDisplay is a monochrome framebuffer. A pixel is on when any colour
// channel is non-zero, matching how ssd1306 treats colours.
type FakeDisplay struct {
	mu     sync.Mutex
	w, h   int16
	buf    []bool
	shown  []bool
	frames int
}

func NewFakeDisplay(w, h int16) *FakeDisplay {
	if w <= 0 {
		w = 128
	}
	if h <= 0 {
		h = 64
	}
	return &FakeDisplay{w: w, h: h, buf: make([]bool, int(w)*int(h)), shown: make([]bool, int(w)*int(h))}
}

func (d *FakeDisplay) Size() (int16, int16) { return d.w, d.h }

func (d *FakeDisplay) SetPixel(x, y int16, c color.RGBA) {
	if x < 0 || y < 0 || x >= d.w || y >= d.h {
		return
	}
	d.mu.Lock()
	d.buf[int(y)*int(d.w)+int(x)] = c.R != 0 || c.G != 0 || c.B != 0
	d.mu.Unlock()
}

func (d *FakeDisplay) Display() error {
	d.mu.Lock()
	copy(d.shown, d.buf)
	d.frames++
	d.mu.Unlock()
	return nil
}

func (d *FakeDisplay) ClearBuffer() {
	d.mu.Lock()
	for i := range d.buf {
		d.buf[i] = false
	}
	d.mu.Unlock()
}

// Pixel reports the last pushed frame.
func (d *FakeDisplay) Pixel(x, y int16) bool {
	if x < 0 || y < 0 || x >= d.w || y >= d.h {
		return false
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.shown[int(y)*int(d.w)+int(x)]
}

// Lit counts pixels on in the last pushed frame.
func (d *FakeDisplay) Lit() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	n := 0
	for _, v := range d.shown {
		if v {
			n++
		}
	}
	return n
}

func (d *FakeDisplay) Frames() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.frames
}

// ----------------------------- Serial (host) ---------------------------------

// FakeSerial delivers fed bytes to RecvSomeContext and records writes.
type FakeSerial struct {
	in   chan []byte
	rest []byte
	mu   sync.Mutex
	out  []byte
}

func NewFakeSerial() *FakeSerial { return &FakeSerial{in: make(chan []byte, 16)} }

// Feed queues input, blocking if the queue is full.
func (s *FakeSerial) Feed(p string) { s.in <- []byte(p) }

// RecvSomeContext hands out fed chunks in order; a chunk larger than buf is
// split across calls. Only one reader is supported.
func (s *FakeSerial) RecvSomeContext(ctx context.Context, buf []byte) (int, error) {
	if len(s.rest) > 0 {
		n := copy(buf, s.rest)
		s.rest = s.rest[n:]
		return n, nil
	}
	select {
	case <-ctx.Done():
		return 0, ctx.Err()
	case p, ok := <-s.in:
		if !ok {
			return 0, io.EOF
		}
		s.rest = p
	}
	n := copy(buf, s.rest)
	s.rest = s.rest[n:]
	return n, nil
}

func (s *FakeSerial) Write(p []byte) (int, error) {
	s.mu.Lock()
	s.out = append(s.out, p...)
	s.mu.Unlock()
	return len(p), nil
}

// Output returns everything written so far.
func (s *FakeSerial) Output() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return string(s.out)
}

// WaitFor polls Output until it contains sub or d elapses.
func (s *FakeSerial) WaitFor(sub string, d time.Duration) bool {
	deadline := time.Now().Add(d)
	for time.Now().Before(deadline) {
		if strings.Contains(s.Output(), sub) {
			return true
		}
		time.Sleep(2 * time.Millisecond)
	}
	return strings.Contains(s.Output(), sub)
}

// LogWriter is where log lines go on the host: stdout.
func LogWriter(*Board) io.Writer { return os.Stdout }
