// Package platform opens the BitDogLab peripherals. The RP2 build binds real
// hardware; the host build returns in-memory fakes with the same surface.
package platform

import (
	"bitdoglab-go/errcode"
	"bitdoglab-go/hal/halcore"
	"bitdoglab-go/x/logx"
)

const tag = "platform"

// Board bundles every peripheral the application drives.
type Board struct {
	JoyX, JoyY halcore.ADC

	ButtonA   halcore.IRQPin
	ButtonB   halcore.IRQPin
	JoyButton halcore.IRQPin

	LED    halcore.RGB
	Buzzer halcore.Pin

	Matrix  halcore.Strip
	Display halcore.Display
	Serial  halcore.Serial
}

// initOutputs drives the LED channels and buzzer low. Failures are logged
// and returned; the caller keeps running with whatever did configure.
func (b *Board) initOutputs() error {
	var first error
	for _, p := range []halcore.Pin{b.LED.Red, b.LED.Green, b.LED.Blue, b.Buzzer} {
		if p == nil {
			continue
		}
		if err := p.ConfigureOutput(false); err != nil {
			logx.Println(tag, "output pin", p.Number(), "failed:", err)
			if first == nil {
				first = errcode.Wrap(errcode.MapDriverErr(err), "platform.initOutputs", "", err)
			}
		}
	}
	return first
}

// Missing lists peripherals that failed to open.
func (b *Board) Missing() []string {
	var out []string
	if b.JoyX == nil || b.JoyY == nil {
		out = append(out, "joystick")
	}
	if b.Matrix == nil {
		out = append(out, "matrix")
	}
	if b.Display == nil {
		out = append(out, "display")
	}
	if b.Serial == nil {
		out = append(out, "serial")
	}
	return out
}
