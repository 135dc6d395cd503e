package halcore

import "testing"

type levelPin struct{ level bool }

func (p *levelPin) ConfigureInput(Pull) error       { return nil }
func (p *levelPin) ConfigureOutput(init bool) error { p.level = init; return nil }
func (p *levelPin) Set(b bool)                      { p.level = b }
func (p *levelPin) Get() bool                       { return p.level }
func (p *levelPin) Number() int                     { return 0 }

func TestEdgeToString(t *testing.T) {
	if EdgeToString(EdgeFalling) != "falling" || EdgeToString(Edge(99)) != "none" {
		t.Fatal("unexpected edge names")
	}
}

func TestRGBOff(t *testing.T) {
	r, g, b := &levelPin{true}, &levelPin{true}, &levelPin{true}
	RGB{Red: r, Green: g, Blue: b}.Off()
	if r.level || g.level || b.level {
		t.Fatal("Off should clear every channel")
	}
}
