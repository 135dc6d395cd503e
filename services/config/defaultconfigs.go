package config

import (
	"time"

	"bitdoglab-go/types"
)

// -----------------------------------------------------------------------------
// Board setups
//
// Key: board ID (same value placed in ctx under CtxBoardKey).
// -----------------------------------------------------------------------------

// BitDogLab is the Pico-based BitDogLab v6 wiring.
func BitDogLab() types.Config {
	return types.Config{
		Pins: types.Pins{
			I2CSDA:    14,
			I2CSCL:    15,
			JoyX:      27, // ADC1
			JoyY:      26, // ADC0
			JoyButton: 22,
			ButtonA:   5,
			ButtonB:   6,
			Red:       13,
			Green:     11,
			Blue:      12,
			Buzzer:    10,
			Matrix:    7,
		},
		DisplayAddr:   0x3C,
		DisplayWidth:  128,
		DisplayHeight: 64,
		ADCPeriod:     4096,
		Deadzone:      250,
		Tick:          50 * time.Millisecond,
		RGBPeriod:     300 * time.Millisecond,
		Debounce:      200 * time.Millisecond,
		DebounceMode:  types.DebounceShared,
		NoteGap:       20 * time.Millisecond,
		Settle:        time.Second,
		Heartbeat:     10 * time.Second,
	}
}

var boardSetups = map[string]func() types.Config{
	"bitdoglab": BitDogLab,
}
