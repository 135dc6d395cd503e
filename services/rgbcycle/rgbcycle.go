// Package rgbcycle steps the discrete RGB LED through blue, red and green
// on a fixed period without blocking the caller.
package rgbcycle

import (
	"time"

	"bitdoglab-go/hal/halcore"
	"bitdoglab-go/x/timex"
)

type State uint8

const (
	Blue State = iota
	Red
	Green
)

func (s State) String() string {
	switch s {
	case Blue:
		return "blue"
	case Red:
		return "red"
	case Green:
		return "green"
	default:
		return "unknown"
	}
}

func (s State) next() State { return (s + 1) % 3 }

// Output is the channel set asserted by one step. The zero value is all off.
type Output struct {
	Red, Green, Blue bool
}

func (o Output) Any() bool { return o.Red || o.Green || o.Blue }

func (o Output) String() string {
	switch {
	case o.Red:
		return Red.String()
	case o.Green:
		return Green.String()
	case o.Blue:
		return Blue.String()
	default:
		return "off"
	}
}

func outputFor(s State) Output {
	switch s {
	case Red:
		return Output{Red: true}
	case Green:
		return Output{Green: true}
	default:
		return Output{Blue: true}
	}
}

// Cycle is not safe for concurrent use; the main loop owns it.
type Cycle struct {
	state  State
	last   time.Time
	period time.Duration
}

// New starts at Blue with the transition clock set to start.
func New(start time.Time, period time.Duration) *Cycle {
	return &Cycle{state: Blue, last: start, period: period}
}

func (c *Cycle) State() State          { return c.state }
func (c *Cycle) Last() time.Time       { return c.last }
func (c *Cycle) Period() time.Duration { return c.period }

// Step asserts the channel for the current state and advances once the
// period has elapsed. While disabled nothing advances and the transition
// clock is kept, so re-enabling after a long pause fires immediately.
func (c *Cycle) Step(now time.Time, enabled bool) (Output, bool) {
	if !enabled || !timex.Elapsed(c.last, now, c.period) {
		return Output{}, false
	}
	out := outputFor(c.state)
	c.state = c.state.next()
	c.last = now
	return out, true
}

// Apply drives the three channels so that only those set in o are high.
func Apply(o Output, led halcore.RGB) {
	led.Off()
	if o.Red {
		led.Red.Set(true)
	}
	if o.Green {
		led.Green.Set(true)
	}
	if o.Blue {
		led.Blue.Set(true)
	}
}
