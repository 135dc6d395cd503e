package types

// ------------------------
// Application state (retained on app/state)
// ------------------------

type AppState struct {
	RGBEnabled bool   `json:"rgb_enabled"`
	RGB        string `json:"rgb"` // channel asserted on the last cycle step
	Selection  int    `json:"selection"`
	ColorName  string `json:"color_name"`
	Color      uint32 `json:"color"` // GRB word streamed to the matrix
	Blink      bool   `json:"blink"`
	CursorX    int    `json:"cursor_x"`
	CursorY    int    `json:"cursor_y"`
	Row        int    `json:"row"`
	Col        int    `json:"col"`
	OffGrid    bool   `json:"off_grid"`
	MovedX     bool   `json:"moved_x"`
	MovedY     bool   `json:"moved_y"`
	Pending    uint8  `json:"pending"` // melody request bitmask, bit0 = melody 1
	TSms       int64  `json:"ts_ms"`
}

// ------------------------
// Events (non-retained)
// ------------------------

type ButtonEvent struct {
	Button   string `json:"button"`
	Accepted bool   `json:"accepted"`
	TSms     int64  `json:"ts_ms"`
}

type MelodyEvent struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Phase string `json:"phase"` // "start" | "done"
	TSms  int64  `json:"ts_ms"`
}

// ------------------------
// Control replies
// ------------------------

type Reply struct {
	OK     bool   `json:"ok"`
	Error  string `json:"error,omitempty"`
	Result any    `json:"result,omitempty"`
}
