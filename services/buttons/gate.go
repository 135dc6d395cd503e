package buttons

import (
	"time"

	"bitdoglab-go/errcode"
	"bitdoglab-go/types"
	"bitdoglab-go/x/strx"
)

type Button uint8

const (
	A Button = iota
	B
	Joy
	numButtons
)

func (b Button) String() string {
	switch b {
	case A:
		return "A"
	case B:
		return "B"
	case Joy:
		return "joy"
	default:
		return "?"
	}
}

// Parse accepts "a", "b" and "joy" in any case.
func Parse(s string) (Button, error) {
	switch strx.Fold(s) {
	case "a":
		return A, nil
	case "b":
		return B, nil
	case "joy", "j":
		return Joy, nil
	}
	return 0, errcode.Wrap(errcode.InvalidParams, "buttons.Parse", "unknown button "+s, nil)
}

// Edge is one falling edge seen on a button.
type Edge struct {
	Button Button
	At     time.Time
}

// Gate filters edges that arrive within window of the last accepted edge.
// In shared mode a press on one button also blocks the others.
type Gate struct {
	window time.Duration
	mode   types.DebounceMode
	last   [numButtons]time.Time
	seen   [numButtons]bool
}

func NewGate(window time.Duration, mode types.DebounceMode) *Gate {
	if mode == "" {
		mode = types.DebounceShared
	}
	return &Gate{window: window, mode: mode}
}

func (g *Gate) Mode() types.DebounceMode { return g.mode }

func (g *Gate) slot(b Button) int {
	if g.mode == types.DebouncePerButton {
		return int(b)
	}
	return 0
}

// Accept reports whether e passes the gate and, if so, records it.
func (g *Gate) Accept(e Edge) bool {
	if e.Button >= numButtons {
		return false
	}
	i := g.slot(e.Button)
	if g.seen[i] && e.At.Sub(g.last[i]) < g.window {
		return false
	}
	g.seen[i] = true
	g.last[i] = e.At
	return true
}
