// Package app is the main loop: it ties the joystick, matrix, screen, RGB
// cycle, buttons and melody player together at a fixed tick.
package app

import (
	"context"
	"sync"
	"time"

	"bitdoglab-go/bus"
	"bitdoglab-go/hal/gpioirq"
	"bitdoglab-go/hal/halcore"
	"bitdoglab-go/hal/platform"
	"bitdoglab-go/services/buttons"
	"bitdoglab-go/services/joystick"
	"bitdoglab-go/services/matrix"
	"bitdoglab-go/services/melody"
	"bitdoglab-go/services/rgbcycle"
	"bitdoglab-go/services/screen"
	"bitdoglab-go/types"
	"bitdoglab-go/x/logx"
)

const tag = "app"

func StateTopic() bus.Topic  { return bus.T("app", "state") }
func MelodyTopic() bus.Topic { return bus.T("app", "event", "melody") }

// Frame is what one Tick produced.
type Frame struct {
	Mapping    joystick.Mapping
	Matrix     matrix.Buffer
	RGB        rgbcycle.Output
	RGBStepped bool
	Played     []int
}

type App struct {
	cfg   types.Config
	board *platform.Board
	conn  *bus.Connection

	sampler joystick.Sampler
	mapper  *joystick.Mapper
	matrix  *matrix.Matrix
	screen  *screen.Screen
	cycle   *rgbcycle.Cycle
	player  *melody.Player

	machine *buttons.Machine
	irq     *gpioirq.Worker
	watcher *buttons.Watcher

	now   func() time.Time
	sleep func(time.Duration)

	mu                sync.Mutex
	last              Frame
	drawErr, stripErr bool
}

// New wires the services over board. Peripherals missing from the board are
// skipped by the loop.
func New(cfg types.Config, board *platform.Board, conn *bus.Connection) *App {
	a := &App{
		cfg:     cfg,
		board:   board,
		conn:    conn,
		sampler: joystick.Sampler{X: board.JoyX, Y: board.JoyY},
		machine: buttons.NewMachine(buttons.NewGate(cfg.Debounce, cfg.DebounceMode)),
		irq:     gpioirq.New(16, 16),
		now:     time.Now,
		sleep:   time.Sleep,
	}
	if board.Matrix != nil {
		a.matrix = matrix.New(board.Matrix)
	}
	if board.Display != nil {
		a.screen = screen.New(board.Display)
	}
	if board.Buzzer != nil {
		a.player = melody.NewPlayer(melody.NewSquareWave(board.Buzzer), cfg.NoteGap)
	}
	a.watcher = buttons.NewWatcher(a.machine, a.irq, board.LED, conn)
	center := cfg.ADCPeriod / 2
	a.mapper = joystick.NewMapper(joystick.GeometryFrom(cfg), joystick.Reading{X: center, Y: center})
	a.cycle = rgbcycle.New(a.now(), cfg.RGBPeriod)
	return a
}

func (a *App) Machine() *buttons.Machine { return a.machine }
func (a *App) Watcher() *buttons.Watcher { return a.watcher }
func (a *App) Mapper() *joystick.Mapper  { return a.mapper }
func (a *App) Config() types.Config      { return a.cfg }

// Calibrate reads both axes once and fixes the centre used for movement
// detection. It also restarts the RGB clock.
func (a *App) Calibrate() joystick.Reading {
	c := a.mapper.Center()
	if a.board.JoyX != nil && a.board.JoyY != nil {
		c = a.sampler.Read()
	}
	a.mapper = joystick.NewMapper(joystick.GeometryFrom(a.cfg), c)
	a.cycle = rgbcycle.New(a.now(), a.cfg.RGBPeriod)
	logx.Println(tag, "calibrated center", int(c.X), int(c.Y))
	return c
}

// Start arms the button interrupts and the control handler. It does not
// run the loop. Arming failures are logged and the first is returned; the
// buttons that did arm keep working.
func (a *App) Start(ctx context.Context) error {
	a.irq.Start(ctx)
	var first error
	arm := func(id buttons.Button, pin halcore.IRQPin) {
		if err := a.watcher.Arm(id, pin); err != nil {
			logx.Println(tag, "button", id.String(), "not armed:", err)
			if first == nil {
				first = err
			}
		}
	}
	arm(buttons.A, a.board.ButtonA)
	arm(buttons.B, a.board.ButtonB)
	arm(buttons.Joy, a.board.JoyButton)

	go a.watcher.Run(ctx)
	if a.conn != nil {
		sub := a.conn.Subscribe(ControlTopic())
		go a.serveControl(ctx, sub)
	}
	return first
}

// Tick runs one loop iteration. Melody playback blocks inside it.
func (a *App) Tick(ctx context.Context, now time.Time) Frame {
	snap := a.machine.Snapshot()
	var f Frame

	f.RGB, f.RGBStepped = a.cycle.Step(now, snap.RGBEnabled)
	if f.RGBStepped && a.board.LED.Red != nil {
		rgbcycle.Apply(f.RGB, a.board.LED)
	}

	r := a.mapper.Center()
	if a.board.JoyX != nil && a.board.JoyY != nil {
		r = a.sampler.Read()
	}
	f.Mapping = a.mapper.Map(r)

	cell := matrix.Cell{Row: f.Mapping.Cell.Row, Col: f.Mapping.Cell.Col}
	if a.matrix != nil {
		buf, err := a.matrix.Show(cell, snap.Color.Color)
		a.report(&a.stripErr, "matrix", err)
		f.Matrix = buf
	} else {
		f.Matrix = matrix.Build(cell, snap.Color.Color)
	}

	if a.screen != nil {
		a.report(&a.drawErr, "screen", a.screen.Render(f.Mapping.Cursor, snap.Blink))
	}

	for id := 1; id <= buttons.Selections; id++ {
		if !a.machine.Pending(id) {
			continue
		}
		a.play(ctx, id)
		a.machine.Clear(id)
		f.Played = append(f.Played, id)
	}

	a.mu.Lock()
	a.last = f
	a.mu.Unlock()
	a.publishState(f, now)
	return f
}

// Run shows the splash, waits for the joystick to settle, calibrates and
// loops until ctx ends.
func (a *App) Run(ctx context.Context) error {
	if a.screen != nil {
		_ = a.screen.Splash("BitDogLab", "joystick + matrix", "calibrating...")
	}
	a.sleep(a.cfg.Settle)
	a.Calibrate()
	err := a.Start(ctx)
	logx.Println(tag, "running, tick", a.cfg.Tick)
	for {
		select {
		case <-ctx.Done():
			return err
		default:
		}
		a.Tick(ctx, a.now())
		a.sleep(a.cfg.Tick)
	}
}

// Last returns the frame produced by the most recent Tick.
func (a *App) Last() Frame {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.last
}

func (a *App) play(ctx context.Context, id int) {
	m, ok := melody.ByID(id)
	if !ok {
		return
	}
	logx.Println(tag, "playing melody", id)
	a.publishMelody(m, "start")
	if a.player != nil {
		if err := a.player.Play(ctx, m); err != nil {
			logx.Println(tag, "melody", id, "stopped:", err)
		}
	}
	a.publishMelody(m, "done")
}

// report logs a peripheral error once, then stays quiet until it recovers.
func (a *App) report(latched *bool, what string, err error) {
	switch {
	case err != nil && !*latched:
		logx.Println(tag, what, "error:", err)
		*latched = true
	case err == nil && *latched:
		logx.Println(tag, what, "recovered")
		*latched = false
	}
}

func (a *App) state(f Frame, now time.Time) types.AppState {
	snap := a.machine.Snapshot()
	cell := f.Mapping.Cell
	return types.AppState{
		RGBEnabled: snap.RGBEnabled,
		RGB:        f.RGB.String(),
		Selection:  snap.Selection,
		ColorName:  snap.Color.Name,
		Color:      snap.Color.Color,
		Blink:      snap.Blink,
		CursorX:    f.Mapping.Cursor.X,
		CursorY:    f.Mapping.Cursor.Y,
		Row:        cell.Row,
		Col:        cell.Col,
		OffGrid:    !matrix.Cell{Row: cell.Row, Col: cell.Col}.OnGrid(),
		MovedX:     f.Mapping.MovedX,
		MovedY:     f.Mapping.MovedY,
		Pending:    snap.Pending,
		TSms:       now.UnixMilli(),
	}
}

func (a *App) publishState(f Frame, now time.Time) {
	if a.conn == nil {
		return
	}
	a.conn.Publish(a.conn.NewMessage(StateTopic(), a.state(f, now), true))
}

func (a *App) publishMelody(m melody.Melody, phase string) {
	if a.conn == nil {
		return
	}
	a.conn.Publish(a.conn.NewMessage(MelodyTopic(), types.MelodyEvent{
		ID:    m.ID,
		Name:  m.Name,
		Phase: phase,
		TSms:  a.now().UnixMilli(),
	}, false))
}
