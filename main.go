package main

import (
	"context"
	"time"

	"bitdoglab-go/bus"
	"bitdoglab-go/hal/platform"
	"bitdoglab-go/services/app"
	"bitdoglab-go/services/config"
	"bitdoglab-go/services/console"
	"bitdoglab-go/services/monitor"
	"bitdoglab-go/x/logx"
)

const board = "bitdoglab"

func main() {
	// Allow USB CDC to enumerate before we print.
	time.Sleep(2 * time.Second)
	println("[main] boot")

	ctx := context.WithValue(context.Background(), config.CtxBoardKey, board)
	b := bus.NewBus(8)

	cfg := config.NewConfigService().Start(ctx, b.NewConnection("config"))

	dev, err := platform.Open(cfg)
	logx.SetOutput(platform.LogWriter(dev))
	if err != nil {
		logx.Println("main", "board init:", err)
	}
	for _, m := range dev.Missing() {
		logx.Println("main", "running without", m)
	}

	_ = monitor.New().Start(ctx, b.NewConnection("monitor"))

	if dev.Serial != nil {
		con := console.New(dev.Serial, b.NewConnection("console"))
		go func() {
			if err := con.Run(ctx); err != nil {
				logx.Println("main", "console stopped:", err)
			}
		}()
	}

	a := app.New(cfg, dev, b.NewConnection("app"))
	if err := a.Run(ctx); err != nil {
		logx.Println("main", "app:", err)
	}
	select {}
}
