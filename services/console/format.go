package console

import (
	"bitdoglab-go/services/app"
	"bitdoglab-go/types"
	"bitdoglab-go/x/logx"
)

type kv struct {
	k string
	v any
}

// Format renders a control result as " key=value" pairs. Types without a
// layout fall back to logx rendering.
func Format(v any) string {
	var pairs []kv
	switch x := v.(type) {
	case nil:
		return ""
	case types.AppState:
		pairs = []kv{
			{"rgb", x.RGBEnabled}, {"led", x.RGB}, {"sel", x.Selection},
			{"color", x.ColorName}, {"blink", x.Blink},
			{"x", x.CursorX}, {"y", x.CursorY}, {"row", x.Row}, {"col", x.Col},
			{"offgrid", x.OffGrid}, {"pending", x.Pending},
		}
	case types.Config:
		pairs = []kv{
			{"tick", x.Tick}, {"rgb_period", x.RGBPeriod}, {"debounce", x.Debounce},
			{"mode", string(x.DebounceMode)}, {"gap", x.NoteGap},
			{"period", x.ADCPeriod}, {"deadzone", x.Deadzone},
			{"display", logx.Hex(x.DisplayAddr)},
		}
	case app.PressResult:
		pairs = []kv{{"button", x.Button}, {"accepted", x.Accepted}}
	default:
		return " " + string(logx.AppendAny(nil, v))
	}
	buf := make([]byte, 0, 96)
	for _, p := range pairs {
		buf = append(buf, ' ')
		buf = append(buf, p.k...)
		buf = append(buf, '=')
		buf = logx.AppendAny(buf, p.v)
	}
	return string(buf)
}
