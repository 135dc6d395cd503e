// hal/gpioirq/irq_worker.go
package gpioirq

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"bitdoglab-go/errcode"
	"bitdoglab-go/hal/halcore"
)

// Event is delivered from the worker to its consumer.
type Event struct {
	Name  string
	Pin   int
	Level bool // after inversion
	Edge  halcore.Edge
	TS    time.Time
}

// Worker moves pin interrupts out of interrupt context. The ISR only samples
// the pin and performs a non-blocking send; everything else runs on the
// worker goroutine.
type Worker struct {
	// Written by ISR; MUST NOT block the ISR:
	isrQ chan isrEvent
	// Consumed by the owner:
	outQ    chan Event
	stopped chan struct{}

	mu     sync.RWMutex
	inputs map[string]*watch

	now   func() time.Time
	drops uint32 // ISR drop counter
}

type isrEvent struct {
	name  string
	level bool
}

type watch struct {
	name      string
	pin       halcore.IRQPin
	edge      halcore.Edge
	debounce  time.Duration
	invert    bool
	lastLevel bool
	lastEvent time.Time
}

func New(isrBuf, outBuf int) *Worker {
	if isrBuf <= 0 {
		isrBuf = 16
	}
	if outBuf <= 0 {
		outBuf = 16
	}
	return &Worker{
		isrQ:    make(chan isrEvent, isrBuf),
		outQ:    make(chan Event, outBuf),
		stopped: make(chan struct{}),
		inputs:  map[string]*watch{},
		now:     time.Now,
	}
}

func (w *Worker) Start(ctx context.Context) {
	go func() {
		defer close(w.stopped)
		for {
			select {
			case <-ctx.Done():
				return
			case ev := <-w.isrQ:
				w.handleISR(ev)
			}
		}
	}()
}

// Done is closed once the worker goroutine has exited.
func (w *Worker) Done() <-chan struct{} { return w.stopped }

func (w *Worker) Events() <-chan Event { return w.outQ }

// Register arms an interrupt on pin under name. debounce is a per-input
// filter applied before edge detection; zero disables it. The returned func
// disarms the interrupt.
func (w *Worker) Register(name string, pin halcore.IRQPin, edge halcore.Edge, debounce time.Duration, invert bool) (func(), error) {
	if edge == halcore.EdgeNone {
		return func() {}, nil
	}
	if pin == nil || name == "" {
		return nil, errcode.InvalidParams
	}
	w.mu.RLock()
	_, dup := w.inputs[name]
	w.mu.RUnlock()
	if dup {
		return nil, errcode.PinInUse
	}

	// Initial logical level, so later edge detection compares like-for-like.
	init := pin.Get()
	if invert {
		init = !init
	}
	wh := &watch{
		name:      name,
		pin:       pin,
		edge:      edge,
		debounce:  debounce,
		invert:    invert,
		lastLevel: init,
	}

	handler := func() {
		l := pin.Get()
		select {
		case w.isrQ <- isrEvent{name: name, level: l}:
		default:
			atomic.AddUint32(&w.drops, 1)
		}
	}
	if err := pin.SetIRQ(edge, handler); err != nil {
		return nil, err
	}

	w.mu.Lock()
	w.inputs[name] = wh
	w.mu.Unlock()

	return func() {
		w.mu.Lock()
		if cur, ok := w.inputs[name]; ok {
			_ = cur.pin.ClearIRQ()
			delete(w.inputs, name)
		}
		w.mu.Unlock()
	}, nil
}

func (w *Worker) handleISR(ev isrEvent) {
	w.mu.RLock()
	wh := w.inputs[ev.name]
	w.mu.RUnlock()
	if wh == nil {
		return
	}
	raw := ev.level
	if wh.invert {
		raw = !raw
	}
	now := w.now()

	if wh.debounce > 0 && !wh.lastEvent.IsZero() && now.Sub(wh.lastEvent) < wh.debounce {
		return
	}

	var e halcore.Edge
	if wh.edge == halcore.EdgeBoth {
		switch {
		case !wh.lastLevel && raw:
			e = halcore.EdgeRising
		case wh.lastLevel && !raw:
			e = halcore.EdgeFalling
		}
	} else {
		// Only called when the configured edge fired; trust the configuration.
		e = wh.edge
	}

	if e != halcore.EdgeNone {
		select {
		case w.outQ <- Event{Name: ev.name, Pin: wh.pin.Number(), Level: raw, Edge: e, TS: now}:
		default:
			// drop to protect system if consumer is slow
			atomic.AddUint32(&w.drops, 1)
		}
	}

	wh.lastLevel = raw
	wh.lastEvent = now
}

// Drops counts edges lost to full queues (ISR side or consumer side).
func (w *Worker) Drops() uint32 { return atomic.LoadUint32(&w.drops) }
