package config

import (
	"context"

	"bitdoglab-go/bus"
	"bitdoglab-go/errcode"
	"bitdoglab-go/types"
	"bitdoglab-go/x/logx"
)

const (
	serviceName  = "config"
	configPrefix = "config"
	CtxBoardKey  = "board" // context key used for the board ID
)

// SetupLookup allows overriding how board setups are resolved.
var SetupLookup = func(board string) (types.Config, bool) {
	f, ok := boardSetups[board]
	if !ok {
		return types.Config{}, false
	}
	return f(), true
}

// Default returns the BitDogLab setup.
func Default() types.Config { return BitDogLab() }

// Validate checks the invariants the rest of the firmware relies on.
func Validate(c types.Config) error {
	const op = "config.Validate"
	switch {
	case c.ADCPeriod == 0:
		return errcode.Wrap(errcode.InvalidConfig, op, "adc_period must be > 0", nil)
	case c.DisplayWidth <= 16 || c.DisplayHeight <= 16:
		return errcode.Wrap(errcode.InvalidConfig, op, "display too small for cursor and border", nil)
	case c.Tick <= 0:
		return errcode.Wrap(errcode.InvalidConfig, op, "tick must be > 0", nil)
	case c.RGBPeriod <= 0:
		return errcode.Wrap(errcode.InvalidConfig, op, "rgb_period must be > 0", nil)
	case c.Debounce < 0 || c.NoteGap < 0 || c.Settle < 0 || c.Heartbeat < 0:
		return errcode.Wrap(errcode.InvalidConfig, op, "durations must not be negative", nil)
	}
	switch c.DebounceMode {
	case types.DebounceShared, types.DebouncePerButton:
	default:
		return errcode.Wrap(errcode.InvalidConfig, op, "unknown debounce_mode "+string(c.DebounceMode), nil)
	}
	return nil
}

// Topic is where the active configuration is retained.
func Topic() bus.Topic { return bus.T(configPrefix, "app") }

// -----------------------------------------------------------------------------
// Config Service
// -----------------------------------------------------------------------------

type ConfigService struct {
	Name string
}

func NewConfigService() *ConfigService {
	return &ConfigService{Name: serviceName}
}

// Resolve looks up and validates the setup for the board named in ctx.
func (s *ConfigService) Resolve(ctx context.Context) (types.Config, error) {
	board, _ := ctx.Value(CtxBoardKey).(string)
	if board == "" {
		return types.Config{}, errcode.Wrap(errcode.InvalidParams, "config.Resolve", "missing board ID in context", nil)
	}
	cfg, ok := SetupLookup(board)
	if !ok {
		return types.Config{}, errcode.Wrap(errcode.InvalidConfig, "config.Resolve", "no setup for board: "+board, nil)
	}
	if err := Validate(cfg); err != nil {
		return types.Config{}, err
	}
	return cfg, nil
}

// Publish retains cfg on config/app.
func (s *ConfigService) Publish(conn *bus.Connection, cfg types.Config) {
	conn.Publish(conn.NewMessage(Topic(), cfg, true))
}

// Start resolves the board setup, publishes it and returns it. On failure
// the default setup is published so the rest of the firmware still runs.
func (s *ConfigService) Start(ctx context.Context, conn *bus.Connection) types.Config {
	cfg, err := s.Resolve(ctx)
	if err != nil {
		logx.Println(s.Name, "falling back to defaults:", err)
		cfg = Default()
	}
	s.Publish(conn, cfg)
	return cfg
}
