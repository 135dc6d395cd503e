// Package buttons turns debounced button edges into application state: the
// RGB enable flag, the colour/melody selection and the blinking border.
package buttons

import (
	"sync"

	"bitdoglab-go/services/matrix"
)

// Selections is the number of colour/melody slots button B cycles through.
const Selections = 3

// Effect describes what one edge changed.
type Effect struct {
	Button   Button
	Accepted bool

	ClearRGB   bool // A: channels must be driven low now
	RGBEnabled bool

	Selection int
	Color     matrix.Named
	Melody    int // 1..3 when B requested a melody, else 0

	Blink bool
}

// Snapshot is a consistent copy of the machine state.
type Snapshot struct {
	RGBEnabled bool
	Selection  int
	Color      matrix.Named
	Blink      bool
	Pending    uint8 // bit i set = melody i+1 requested
}

// Machine is shared between the edge worker and the main loop.
type Machine struct {
	mu   sync.Mutex
	gate *Gate

	rgb     bool
	sel     int
	next    int
	color   matrix.Named
	blink   bool
	pending uint8
}

// NewMachine starts with the RGB cycle enabled and the first palette colour.
func NewMachine(gate *Gate) *Machine {
	return &Machine{
		gate:  gate,
		rgb:   true,
		color: matrix.ColorFor(0),
	}
}

// Handle runs e through the gate and applies it.
func (m *Machine) Handle(e Edge) Effect {
	m.mu.Lock()
	defer m.mu.Unlock()

	eff := Effect{Button: e.Button}
	if !m.gate.Accept(e) {
		eff.RGBEnabled, eff.Selection, eff.Color, eff.Blink = m.rgb, m.sel, m.color, m.blink
		return eff
	}
	eff.Accepted = true

	switch e.Button {
	case A:
		m.rgb = !m.rgb
		eff.ClearRGB = true
	case B:
		m.sel = m.next
		m.next = (m.next + 1) % Selections
		m.color = matrix.ColorFor(m.sel)
		eff.Melody = m.sel + 1
		m.pending |= 1 << uint(m.sel)
	case Joy:
		m.blink = !m.blink
	}

	eff.RGBEnabled, eff.Selection, eff.Color, eff.Blink = m.rgb, m.sel, m.color, m.blink
	return eff
}

// Pending reports whether melody id (1..3) is waiting to be played.
func (m *Machine) Pending(id int) bool {
	if id < 1 || id > Selections {
		return false
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pending&(1<<uint(id-1)) != 0
}

// Clear drops the request for melody id. The loop calls it after playback,
// so presses of the same melody while it plays are absorbed.
func (m *Machine) Clear(id int) {
	if id < 1 || id > Selections {
		return
	}
	m.mu.Lock()
	m.pending &^= 1 << uint(id-1)
	m.mu.Unlock()
}

// Request raises the flag for melody id without touching the selection.
func (m *Machine) Request(id int) bool {
	if id < 1 || id > Selections {
		return false
	}
	m.mu.Lock()
	m.pending |= 1 << uint(id-1)
	m.mu.Unlock()
	return true
}

// SetRGB forces the RGB enable flag, bypassing the gate.
func (m *Machine) SetRGB(on bool) {
	m.mu.Lock()
	m.rgb = on
	m.mu.Unlock()
}

func (m *Machine) RGBEnabled() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.rgb
}

func (m *Machine) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return Snapshot{
		RGBEnabled: m.rgb,
		Selection:  m.sel,
		Color:      m.color,
		Blink:      m.blink,
		Pending:    m.pending,
	}
}
