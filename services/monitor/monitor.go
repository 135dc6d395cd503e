// Package monitor logs bus traffic under app/# and emits a periodic
// heartbeat with runtime memory figures.
package monitor

import (
	"context"
	"runtime"
	"time"

	"bitdoglab-go/bus"
	"bitdoglab-go/services/config"
	"bitdoglab-go/types"
	"bitdoglab-go/x/logx"
	"bitdoglab-go/x/timex"
)

const tag = "monitor"

type Service struct {
	// Quiet suppresses topics whose second token matches, e.g. "state",
	// which is republished on every tick.
	Quiet map[string]bool

	beats uint32
}

func New() *Service {
	return &Service{Quiet: map[string]bool{"state": true}}
}

// Start subscribes synchronously, then runs the loop in a goroutine.
func (s *Service) Start(ctx context.Context, conn *bus.Connection) error {
	appSub := conn.Subscribe(bus.T("app", "#"))
	cfgSub := conn.Subscribe(config.Topic())
	go s.serviceLoop(ctx, conn, appSub, cfgSub)
	return nil
}

func (s *Service) serviceLoop(ctx context.Context, conn *bus.Connection, appSub, cfgSub *bus.Subscription) {
	defer conn.Unsubscribe(appSub)
	defer conn.Unsubscribe(cfgSub)

	// Disabled until config arrives.
	tick := time.NewTicker(time.Hour)
	tick.Stop()
	defer tick.Stop()

	for {
		select {
		case <-ctx.Done():
			logx.Println(tag, "stopping")
			return
		case <-tick.C:
			s.beat()
		case msg := <-cfgSub.Channel():
			cfg, ok := msg.Payload.(types.Config)
			if !ok {
				continue
			}
			if cfg.Heartbeat > 0 {
				tick.Reset(cfg.Heartbeat)
				logx.Println(tag, "heartbeat every", cfg.Heartbeat)
			} else {
				tick.Stop()
			}
		case msg := <-appSub.Channel():
			if tok, _ := msg.Topic.At(1).(string); s.Quiet[tok] {
				continue
			}
			logx.Println(tag, Describe(msg)...)
		}
	}
}

func (s *Service) beat() {
	s.beats++
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	logx.Println(tag, "alive", s.beats, "ts:", timex.NowMs(),
		"alloc:", uint32(ms.Alloc),
		"heapInuse:", uint32(ms.HeapInuse),
		"mallocs:", uint32(ms.Mallocs),
		"frees:", uint32(ms.Frees),
	)
}

// TopicString joins topic tokens with "/".
func TopicString(t bus.Topic) string {
	buf := make([]byte, 0, 32)
	for i := 0; i < t.Len(); i++ {
		if i > 0 {
			buf = append(buf, '/')
		}
		buf = logx.AppendAny(buf, t.At(i))
	}
	return string(buf)
}

// Describe renders a message as log parts: "<-", the topic, then payload
// details for known event types.
func Describe(m *bus.Message) []any {
	parts := []any{"<-", TopicString(m.Topic)}
	switch p := m.Payload.(type) {
	case types.ButtonEvent:
		parts = append(parts, p.Button, p.Accepted)
	case types.MelodyEvent:
		parts = append(parts, p.Name, p.Phase)
	case types.Reply:
		if !p.OK {
			parts = append(parts, "error", p.Error)
		}
	}
	return parts
}
