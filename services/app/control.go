package app

import (
	"context"
	"strconv"
	"strings"

	"bitdoglab-go/bus"
	"bitdoglab-go/errcode"
	"bitdoglab-go/services/buttons"
	"bitdoglab-go/types"
	"bitdoglab-go/x/logx"
	"bitdoglab-go/x/strx"
)

// ControlTopic matches every control verb: app/ctl/<verb>.
func ControlTopic() bus.Topic { return bus.T("app", "ctl", "+") }

// CtlTopic builds the request topic for verb.
func CtlTopic(verb string) bus.Topic { return bus.T("app", "ctl", verb) }

// PressResult is returned by the "press" verb.
type PressResult struct {
	Button   string `json:"button"`
	Accepted bool   `json:"accepted"`
}

func (a *App) serveControl(ctx context.Context, sub *bus.Subscription) {
	defer a.conn.Unsubscribe(sub)
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-sub.Channel():
			if !ok {
				return
			}
			a.conn.Reply(msg, a.handleControl(msg), false)
		}
	}
}

func (a *App) handleControl(msg *bus.Message) types.Reply {
	verb, _ := msg.Topic.At(2).(string)
	res, err := a.control(verb, msg.Payload)
	if err != nil {
		logx.Println(tag, "ctl", verb, "failed:", err)
		return types.Reply{OK: false, Error: string(errcode.Of(err))}
	}
	return types.Reply{OK: true, Result: res}
}

func (a *App) control(verb string, payload any) (any, error) {
	const op = "app.control"
	switch verb {
	case "status":
		return a.state(a.Last(), a.now()), nil
	case "config":
		return a.cfg, nil
	case "press":
		s, ok := payload.(string)
		if !ok {
			return nil, errcode.Wrap(errcode.InvalidPayload, op, "press wants a button name", nil)
		}
		b, err := buttons.Parse(s)
		if err != nil {
			return nil, err
		}
		if eff := a.watcher.Inject(b); !eff.Accepted {
			return nil, errcode.Wrap(errcode.Debounced, op, b.String(), nil)
		}
		return PressResult{Button: b.String(), Accepted: true}, nil
	case "play":
		id, err := asInt(payload)
		if err != nil {
			return nil, errcode.Wrap(errcode.InvalidPayload, op, "play wants 1..3", err)
		}
		if !a.machine.Request(id) {
			return nil, errcode.Wrap(errcode.InvalidParams, op, "no melody "+strconv.Itoa(id), nil)
		}
		return id, nil
	case "rgb":
		on, err := asBool(payload)
		if err != nil {
			return nil, errcode.Wrap(errcode.InvalidPayload, op, "rgb wants on|off", err)
		}
		a.machine.SetRGB(on)
		if a.board.LED.Red != nil {
			a.board.LED.Off()
		}
		return on, nil
	}
	return nil, errcode.Wrap(errcode.UnknownCommand, op, verb, nil)
}

func asInt(v any) (int, error) {
	switch x := v.(type) {
	case int:
		return x, nil
	case string:
		return strconv.Atoi(strings.TrimSpace(x))
	}
	return 0, errcode.InvalidPayload
}

func asBool(v any) (bool, error) {
	switch x := v.(type) {
	case bool:
		return x, nil
	case string:
		switch strx.Fold(x) {
		case "on", "true", "1":
			return true, nil
		case "off", "false", "0":
			return false, nil
		}
	}
	return false, errcode.InvalidPayload
}
