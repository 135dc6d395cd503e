//go:build !rp2040 && !rp2350

package app

import (
	"context"
	"sync"
	"testing"
	"time"

	"bitdoglab-go/bus"
	"bitdoglab-go/errcode"
	"bitdoglab-go/hal/platform"
	"bitdoglab-go/services/buttons"
	"bitdoglab-go/services/config"
	"bitdoglab-go/services/melody"
	"bitdoglab-go/types"
)

type silentTone struct {
	mu    sync.Mutex
	notes int
}

func (s *silentTone) Tone(uint32, time.Duration) { s.mu.Lock(); s.notes++; s.mu.Unlock() }
func (s *silentTone) Silence(time.Duration)      { s.mu.Lock(); s.notes++; s.mu.Unlock() }

func (s *silentTone) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.notes
}

type rig struct {
	app  *App
	f    *platform.Fakes
	conn *bus.Connection
	tone *silentTone
	t0   time.Time
}

func newRig(t *testing.T) *rig {
	t.Helper()
	cfg := config.Default()
	board, f := platform.NewHost(cfg)
	b := bus.NewBus(16)
	conn := b.NewConnection("app")
	a := New(cfg, board, conn)

	t0 := time.Unix(10_000, 0)
	a.now = func() time.Time { return t0 }
	a.sleep = func(time.Duration) {}
	tone := &silentTone{}
	a.player = melody.NewPlayer(tone, 0)
	a.Calibrate()
	return &rig{app: a, f: f, conn: b.NewConnection("test"), tone: tone, t0: t0}
}

func TestTickAtCenter(t *testing.T) {
	r := newRig(t)
	f := r.app.Tick(context.Background(), r.t0)

	if f.Mapping.Cursor.X != 60 || f.Mapping.Cursor.Y != 28 {
		t.Fatalf("cursor = %+v", f.Mapping.Cursor)
	}
	if f.Mapping.Cell.Row != 2 || f.Mapping.Cell.Col != 2 {
		t.Fatalf("cell = %+v", f.Mapping.Cell)
	}
	if f.Mapping.MovedX || f.Mapping.MovedY {
		t.Fatal("centred stick reported movement")
	}
	last := r.f.Matrix.Last()
	if len(last) != 25 || last[12] != 0x00550000 {
		t.Fatalf("matrix frame = %#v", last)
	}
	if r.f.Display.Frames() != 1 || !r.f.Display.Pixel(60, 28) {
		t.Fatal("display not rendered")
	}
	if f.RGBStepped {
		t.Fatal("rgb stepped before its period")
	}
}

func TestTickRGBCycle(t *testing.T) {
	r := newRig(t)
	ctx := context.Background()
	f := r.app.Tick(ctx, r.t0.Add(300*time.Millisecond))
	if !f.RGBStepped || !r.f.Blue.Get() || r.f.Red.Get() {
		t.Fatalf("first step should assert blue: %+v", f.RGB)
	}
	f = r.app.Tick(ctx, r.t0.Add(600*time.Millisecond))
	if !r.f.Red.Get() || r.f.Blue.Get() {
		t.Fatalf("second step should assert red: %+v", f.RGB)
	}

	r.app.Machine().SetRGB(false)
	f = r.app.Tick(ctx, r.t0.Add(2*time.Second))
	if f.RGBStepped {
		t.Fatal("disabled cycle stepped")
	}
}

func TestJoystickMovesMatrixCell(t *testing.T) {
	r := newRig(t)
	r.f.JoyX.Set(4095)
	r.f.JoyY.Set(4095) // pushed up: top row
	f := r.app.Tick(context.Background(), r.t0)
	if f.Mapping.Cell.Row != 4 || f.Mapping.Cell.Col != 4 {
		t.Fatalf("cell = %+v", f.Mapping.Cell)
	}
	if idx, ok := f.Matrix.Lit(); !ok || idx != 20 {
		t.Fatalf("row 4 col 4 should be wire index 20, got %d", idx)
	}
	if !f.Mapping.MovedX || !f.Mapping.MovedY {
		t.Fatal("movement not detected")
	}

	r.f.JoyY.Set(0)
	f = r.app.Tick(context.Background(), r.t0)
	if _, lit := f.Matrix.Lit(); lit {
		t.Fatal("off-grid row should leave the matrix dark")
	}
}

func TestButtonBPlaysMelody(t *testing.T) {
	r := newRig(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events := r.conn.Subscribe(MelodyTopic())
	if err := r.app.Start(ctx); err != nil {
		t.Fatal(err)
	}
	platform.Press(r.f.ButtonB)

	deadline := time.Now().Add(time.Second)
	for !r.app.Machine().Pending(1) {
		if time.Now().After(deadline) {
			t.Fatal("press never reached the machine")
		}
		time.Sleep(time.Millisecond)
	}

	f := r.app.Tick(ctx, r.t0)
	if len(f.Played) != 1 || f.Played[0] != 1 {
		t.Fatalf("played = %v", f.Played)
	}
	if r.tone.count() != 8 {
		t.Fatalf("notes = %d", r.tone.count())
	}
	if r.app.Machine().Pending(1) {
		t.Fatal("flag not cleared after playback")
	}

	var phases []string
	for len(phases) < 2 {
		select {
		case m := <-events.Channel():
			phases = append(phases, m.Payload.(types.MelodyEvent).Phase)
		case <-time.After(time.Second):
			t.Fatalf("melody events = %v", phases)
		}
	}
	if phases[0] != "start" || phases[1] != "done" {
		t.Fatalf("phases = %v", phases)
	}
}

// pressingTone presses B once, on the first note it is asked to play.
type pressingTone struct {
	m    *buttons.Machine
	at   time.Time
	done bool
}

func (p *pressingTone) Tone(uint32, time.Duration) {
	if !p.done {
		p.done = true
		p.m.Handle(buttons.Edge{Button: buttons.B, At: p.at})
	}
}
func (p *pressingTone) Silence(time.Duration) {}

// pressB presses B n times, spaced outside the debounce window, and drops
// the melody requests they raise.
func pressB(m *buttons.Machine, from time.Time, n int) time.Time {
	for i := 0; i < n; i++ {
		from = from.Add(time.Second)
		m.Handle(buttons.Edge{Button: buttons.B, At: from})
	}
	for id := 1; id <= buttons.Selections; id++ {
		m.Clear(id)
	}
	return from
}

func TestPressDuringPlayback(t *testing.T) {
	cases := []struct {
		name     string
		primed   int // B presses before the tick, so the injected one picks the next slot
		playing  int
		sameTick []int
		nextTick []int
	}{
		{"later slot joins the same tick", 2, 1, []int{1, 3}, nil},
		{"earlier slot waits a tick", 3, 2, []int{2}, []int{1}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			r := newRig(t)
			m := r.app.Machine()
			last := pressB(m, r.t0, c.primed)
			r.app.player = melody.NewPlayer(&pressingTone{m: m, at: last.Add(time.Second)}, 0)

			if !m.Request(c.playing) {
				t.Fatalf("request %d refused", c.playing)
			}
			ctx := context.Background()
			if f := r.app.Tick(ctx, r.t0); !equalIDs(f.Played, c.sameTick) {
				t.Fatalf("first tick played %v, want %v", f.Played, c.sameTick)
			}
			if f := r.app.Tick(ctx, r.t0); !equalIDs(f.Played, c.nextTick) {
				t.Fatalf("second tick played %v, want %v", f.Played, c.nextTick)
			}
			if m.Snapshot().Pending != 0 {
				t.Fatalf("pending mask = %b", m.Snapshot().Pending)
			}
		})
	}
}

func equalIDs(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestStatePublishedRetained(t *testing.T) {
	r := newRig(t)
	r.app.Tick(context.Background(), r.t0)
	sub := r.conn.Subscribe(StateTopic())
	select {
	case m := <-sub.Channel():
		st := m.Payload.(types.AppState)
		if !m.Retained || st.ColorName != "red" || st.Row != 2 || !st.RGBEnabled {
			t.Fatalf("state = %+v", st)
		}
	case <-time.After(time.Second):
		t.Fatal("no retained state")
	}
}

func request(t *testing.T, c *bus.Connection, verb string, payload any) types.Reply {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	m, err := c.RequestWait(ctx, c.NewMessage(CtlTopic(verb), payload, false))
	if err != nil {
		t.Fatalf("%s: %v", verb, err)
	}
	return m.Payload.(types.Reply)
}

func TestControlVerbs(t *testing.T) {
	r := newRig(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := r.app.Start(ctx); err != nil {
		t.Fatal(err)
	}

	if rep := request(t, r.conn, "status", nil); !rep.OK {
		t.Fatalf("status: %+v", rep)
	}
	if rep := request(t, r.conn, "config", nil); !rep.OK || rep.Result.(types.Config).Tick != 50*time.Millisecond {
		t.Fatalf("config: %+v", rep)
	}

	rep := request(t, r.conn, "press", "b")
	if !rep.OK || !rep.Result.(PressResult).Accepted {
		t.Fatalf("press: %+v", rep)
	}
	rep = request(t, r.conn, "press", "b")
	if rep.OK || rep.Error != string(errcode.Debounced) {
		t.Fatalf("second press inside the window should be debounced: %+v", rep)
	}

	if rep := request(t, r.conn, "play", "3"); !rep.OK || !r.app.Machine().Pending(3) {
		t.Fatalf("play: %+v", rep)
	}
	if rep := request(t, r.conn, "play", 9); rep.OK || rep.Error != string(errcode.InvalidParams) {
		t.Fatalf("play 9: %+v", rep)
	}

	r.f.Red.Set(true)
	if rep := request(t, r.conn, "rgb", "off"); !rep.OK || r.app.Machine().RGBEnabled() || r.f.Red.Get() {
		t.Fatalf("rgb off: %+v", rep)
	}
	if rep := request(t, r.conn, "rgb", "maybe"); rep.OK || rep.Error != string(errcode.InvalidPayload) {
		t.Fatalf("rgb maybe: %+v", rep)
	}
	if rep := request(t, r.conn, "reboot", nil); rep.OK || rep.Error != string(errcode.UnknownCommand) {
		t.Fatalf("unknown verb: %+v", rep)
	}
}
