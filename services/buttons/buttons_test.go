package buttons

import (
	"context"
	"testing"
	"time"

	"bitdoglab-go/bus"
	"bitdoglab-go/hal/gpioirq"
	"bitdoglab-go/hal/halcore"
	"bitdoglab-go/types"
)

var t0 = time.Unix(5000, 0)

func at(ms int) time.Time { return t0.Add(time.Duration(ms) * time.Millisecond) }

func TestGateShared(t *testing.T) {
	g := NewGate(200*time.Millisecond, types.DebounceShared)
	cases := []struct {
		e    Edge
		want bool
	}{
		{Edge{A, at(0)}, true},
		{Edge{A, at(150)}, false},
		{Edge{B, at(199)}, false}, // other button, same window
		{Edge{B, at(200)}, true},
		{Edge{A, at(300)}, false},
		{Edge{A, at(401)}, true},
	}
	for i, c := range cases {
		if got := g.Accept(c.e); got != c.want {
			t.Fatalf("case %d (%v @%v): got %v", i, c.e.Button, c.e.At.Sub(t0), got)
		}
	}
}

func TestGatePerButton(t *testing.T) {
	g := NewGate(200*time.Millisecond, types.DebouncePerButton)
	if !g.Accept(Edge{A, at(0)}) || !g.Accept(Edge{B, at(10)}) {
		t.Fatal("different buttons should not block each other")
	}
	if g.Accept(Edge{B, at(100)}) {
		t.Fatal("same button within window should be rejected")
	}
}

func TestGateFirstEdgeAccepted(t *testing.T) {
	g := NewGate(time.Hour, "")
	if g.Mode() != types.DebounceShared {
		t.Fatalf("default mode = %q", g.Mode())
	}
	if !g.Accept(Edge{B, time.Time{}}) {
		t.Fatal("first edge must pass even at the zero time")
	}
}

func TestSelectionSequence(t *testing.T) {
	m := NewMachine(NewGate(200*time.Millisecond, types.DebounceShared))
	wantSel := []int{0, 1, 2, 0, 1}
	wantMel := []int{1, 2, 3, 1, 2}
	wantColor := []string{"red", "blue", "green", "red", "blue"}
	for i := range wantSel {
		eff := m.Handle(Edge{B, at(i * 250)})
		if !eff.Accepted {
			t.Fatalf("press %d rejected", i)
		}
		if eff.Selection != wantSel[i] || eff.Melody != wantMel[i] || eff.Color.Name != wantColor[i] {
			t.Fatalf("press %d: sel=%d melody=%d color=%s", i, eff.Selection, eff.Melody, eff.Color.Name)
		}
		if !m.Pending(wantMel[i]) {
			t.Fatalf("press %d: melody %d not pending", i, wantMel[i])
		}
		m.Clear(wantMel[i])
	}
	if s := m.Snapshot(); s.Pending != 0 || s.Selection < 0 || s.Selection > 2 {
		t.Fatalf("bad snapshot %+v", s)
	}
}

func TestRejectedPressChangesNothing(t *testing.T) {
	m := NewMachine(NewGate(200*time.Millisecond, types.DebounceShared))
	m.Handle(Edge{B, at(0)})
	eff := m.Handle(Edge{B, at(50)})
	if eff.Accepted || eff.Melody != 0 || eff.Selection != 0 {
		t.Fatalf("bounce leaked through: %+v", eff)
	}
	if m.Pending(2) {
		t.Fatal("bounce requested melody 2")
	}
}

func TestButtonAToggles(t *testing.T) {
	m := NewMachine(NewGate(200*time.Millisecond, types.DebounceShared))
	if !m.RGBEnabled() {
		t.Fatal("rgb starts enabled")
	}
	eff := m.Handle(Edge{A, at(0)})
	if !eff.ClearRGB || eff.RGBEnabled {
		t.Fatalf("first A: %+v", eff)
	}
	eff = m.Handle(Edge{A, at(300)})
	if !eff.ClearRGB || !eff.RGBEnabled {
		t.Fatalf("second A: %+v", eff)
	}
}

func TestJoyTogglesBlink(t *testing.T) {
	m := NewMachine(NewGate(200*time.Millisecond, types.DebounceShared))
	if eff := m.Handle(Edge{Joy, at(0)}); !eff.Blink {
		t.Fatal("blink should toggle on")
	}
	if m.Handle(Edge{A, at(100)}).Accepted {
		t.Fatal("joystick press shares the gate")
	}
}

func TestRequestAndParse(t *testing.T) {
	m := NewMachine(NewGate(0, types.DebounceShared))
	if m.Request(0) || m.Request(4) {
		t.Fatal("out of range ids must be refused")
	}
	m.Request(3)
	if !m.Pending(3) || m.Snapshot().Pending != 0b100 {
		t.Fatal("Request(3) not recorded")
	}
	for s, want := range map[string]Button{"a": A, "B": B, " joy ": Joy} {
		if got, err := Parse(s); err != nil || got != want {
			t.Fatalf("Parse(%q) = %v, %v", s, got, err)
		}
	}
	if _, err := Parse("c"); err == nil {
		t.Fatal("Parse(c) should fail")
	}
}

type fakePin struct {
	n       int
	level   bool
	handler func()
}

func (p *fakePin) ConfigureInput(halcore.Pull) error { p.level = true; return nil }
func (p *fakePin) ConfigureOutput(v bool) error      { p.level = v; return nil }
func (p *fakePin) Set(v bool)                        { p.level = v }
func (p *fakePin) Get() bool                         { return p.level }
func (p *fakePin) Number() int                       { return p.n }
func (p *fakePin) SetIRQ(_ halcore.Edge, h func()) error {
	p.handler = h
	return nil
}
func (p *fakePin) ClearIRQ() error { p.handler = nil; return nil }

func TestWatcherEndToEnd(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	b := bus.NewBus(8)
	conn := b.NewConnection("test")
	events := conn.Subscribe(EventTopic())

	w := gpioirq.New(8, 8)
	w.Start(ctx)

	red, green, blue := &fakePin{n: 13, level: true}, &fakePin{n: 11}, &fakePin{n: 12}
	m := NewMachine(NewGate(200*time.Millisecond, types.DebounceShared))
	wt := NewWatcher(m, w, halcore.RGB{Red: red, Green: green, Blue: blue}, conn)

	pinA := &fakePin{n: 5}
	if err := wt.Arm(A, pinA); err != nil {
		t.Fatal(err)
	}
	if err := wt.Arm(Joy, nil); err != nil {
		t.Fatal("nil pin should be skipped")
	}
	go wt.Run(ctx)

	pinA.level = false
	pinA.handler()

	select {
	case msg := <-events.Channel():
		ev := msg.Payload.(types.ButtonEvent)
		if ev.Button != "A" || !ev.Accepted {
			t.Fatalf("unexpected event %+v", ev)
		}
	case <-time.After(time.Second):
		t.Fatal("no button event")
	}
	if red.level {
		t.Fatal("button A must clear the RGB channels")
	}
	if m.RGBEnabled() {
		t.Fatal("rgb should now be disabled")
	}

	// A synthetic press right after is debounced.
	if eff := wt.Inject(B); eff.Accepted {
		t.Fatal("injected press inside the window should be rejected")
	}
}
