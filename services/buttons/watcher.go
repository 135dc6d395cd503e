package buttons

import (
	"context"
	"time"

	"bitdoglab-go/bus"
	"bitdoglab-go/errcode"
	"bitdoglab-go/hal/gpioirq"
	"bitdoglab-go/hal/halcore"
	"bitdoglab-go/types"
	"bitdoglab-go/x/logx"
)

const tag = "buttons"

// EventTopic carries a types.ButtonEvent for every edge, accepted or not.
func EventTopic() bus.Topic { return bus.T("app", "event", "button") }

// Watcher arms the button interrupts and feeds their edges to a Machine.
type Watcher struct {
	m      *Machine
	w      *gpioirq.Worker
	led    halcore.RGB
	conn   *bus.Connection
	names  map[string]Button
	disarm []func()
	now    func() time.Time
}

func NewWatcher(m *Machine, w *gpioirq.Worker, led halcore.RGB, conn *bus.Connection) *Watcher {
	return &Watcher{
		m:     m,
		w:     w,
		led:   led,
		conn:  conn,
		names: map[string]Button{},
		now:   time.Now,
	}
}

// Arm configures pin as a pulled-up input and listens for falling edges.
// A nil pin is skipped so boards without a joystick switch still work.
func (wt *Watcher) Arm(b Button, pin halcore.IRQPin) error {
	if pin == nil {
		return nil
	}
	if err := pin.ConfigureInput(halcore.PullUp); err != nil {
		return errcode.Wrap(errcode.MapDriverErr(err), "buttons.Arm", b.String(), err)
	}
	name := "btn_" + b.String()
	off, err := wt.w.Register(name, pin, halcore.EdgeFalling, 0, false)
	if err != nil {
		return errcode.Wrap(errcode.Of(err), "buttons.Arm", b.String(), err)
	}
	wt.names[name] = b
	wt.disarm = append(wt.disarm, off)
	return nil
}

// Run consumes worker events until ctx ends, then disarms every pin.
func (wt *Watcher) Run(ctx context.Context) {
	defer func() {
		for _, off := range wt.disarm {
			off()
		}
	}()
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-wt.w.Events():
			b, ok := wt.names[ev.Name]
			if !ok {
				continue
			}
			wt.dispatch(Edge{Button: b, At: ev.TS})
		}
	}
}

// Inject feeds a synthetic press through the same gate as hardware edges.
func (wt *Watcher) Inject(b Button) Effect {
	return wt.dispatch(Edge{Button: b, At: wt.now()})
}

func (wt *Watcher) dispatch(e Edge) Effect {
	eff := wt.m.Handle(e)
	if eff.Accepted {
		wt.apply(eff)
	}
	if wt.conn != nil {
		wt.conn.Publish(wt.conn.NewMessage(EventTopic(), types.ButtonEvent{
			Button:   e.Button.String(),
			Accepted: eff.Accepted,
			TSms:     e.At.UnixMilli(),
		}, false))
	}
	return eff
}

func (wt *Watcher) apply(eff Effect) {
	switch eff.Button {
	case A:
		if eff.ClearRGB && wt.led.Red != nil {
			wt.led.Off()
		}
		logx.Println(tag, "button A pressed, rgb", eff.RGBEnabled)
	case B:
		logx.Println(tag, "button B pressed, color ->", eff.Color.Name)
	case Joy:
		logx.Println(tag, "joystick pressed, blink", eff.Blink)
	}
}
