//go:build !rp2040 && !rp2350

// Command sim runs the firmware loop against host fakes in the terminal.
package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"bitdoglab-go/bus"
	"bitdoglab-go/hal/platform"
	"bitdoglab-go/services/app"
	"bitdoglab-go/services/config"
	"bitdoglab-go/services/monitor"
	"bitdoglab-go/x/logx"
)

func main() {
	ctx, cancel := context.WithCancel(context.WithValue(context.Background(), config.CtxBoardKey, "bitdoglab"))
	defer cancel()

	logs := newLogRing(8)
	logx.SetOutput(logs)

	b := bus.NewBus(16)
	cfg := config.NewConfigService().Start(ctx, b.NewConnection("config"))
	cfg.Settle = 0

	board, fakes := platform.NewHost(cfg)
	_ = monitor.New().Start(ctx, b.NewConnection("monitor"))

	a := app.New(cfg, board, b.NewConnection("app"))
	go func() { _ = a.Run(ctx) }()

	m := newModel(cfg, fakes, b.NewConnection("sim"), logs)
	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		fmt.Fprintln(os.Stderr, "sim:", err)
		os.Exit(1)
	}
}
