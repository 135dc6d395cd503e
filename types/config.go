package types

import "time"

// Pins uses RP2040 GP numbering.
type Pins struct {
	I2CSDA    int `json:"i2c_sda"`
	I2CSCL    int `json:"i2c_scl"`
	JoyX      int `json:"joy_x"` // ADC-capable pin
	JoyY      int `json:"joy_y"` // ADC-capable pin
	JoyButton int `json:"joy_button"`
	ButtonA   int `json:"button_a"`
	ButtonB   int `json:"button_b"`
	Red       int `json:"red"`
	Green     int `json:"green"`
	Blue      int `json:"blue"`
	Buzzer    int `json:"buzzer"`
	Matrix    int `json:"matrix"`
}

// DebounceMode selects the scope of the button debounce window.
type DebounceMode string

const (
	DebounceShared    DebounceMode = "shared"     // one window across all buttons
	DebouncePerButton DebounceMode = "per_button" // one window per button
)

// Config is the application configuration supplied on topic "config/app".
type Config struct {
	Pins Pins `json:"pins"`

	DisplayAddr   uint16 `json:"display_addr"`
	DisplayWidth  int16  `json:"display_width"`
	DisplayHeight int16  `json:"display_height"`

	ADCPeriod uint16 `json:"adc_period"` // exclusive upper bound of a joystick sample
	Deadzone  uint16 `json:"deadzone"`

	Tick         time.Duration `json:"tick"`
	RGBPeriod    time.Duration `json:"rgb_period"`
	Debounce     time.Duration `json:"debounce"`
	DebounceMode DebounceMode  `json:"debounce_mode"`
	NoteGap      time.Duration `json:"note_gap"`
	Settle       time.Duration `json:"settle"`    // wait before joystick calibration
	Heartbeat    time.Duration `json:"heartbeat"` // monitor heartbeat, 0 disables
}
