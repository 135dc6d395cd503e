//go:build !rp2040 && !rp2350

package main

import (
	"fmt"
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"bitdoglab-go/bus"
	"bitdoglab-go/hal/platform"
	"bitdoglab-go/services/app"
	"bitdoglab-go/services/matrix"
	"bitdoglab-go/types"
	"bitdoglab-go/x/mathx"
)

const (
	stickStep = 256
	refresh   = 50 * time.Millisecond
	// Each character cell covers cellW×cellH display pixels.
	cellW, cellH = 2, 4
)

var (
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#555"))
	titleStyle  = lipgloss.NewStyle().Bold(true)
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#888"))
	panelStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

// logRing keeps the last n log lines for the footer.
type logRing struct {
	mu    sync.Mutex
	n     int
	lines []string
}

func newLogRing(n int) *logRing { return &logRing{n: n} }

func (r *logRing) Write(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, l := range strings.Split(strings.TrimRight(string(p), "\n"), "\n") {
		r.lines = append(r.lines, l)
	}
	if len(r.lines) > r.n {
		r.lines = r.lines[len(r.lines)-r.n:]
	}
	return len(p), nil
}

func (r *logRing) String() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return strings.Join(r.lines, "\n")
}

type model struct {
	cfg   types.Config
	fakes *platform.Fakes
	state *bus.Subscription
	logs  *logRing

	x, y int
	last types.AppState
}

type refreshMsg struct{}

func newModel(cfg types.Config, f *platform.Fakes, conn *bus.Connection, logs *logRing) model {
	c := int(cfg.ADCPeriod / 2)
	return model{
		cfg:   cfg,
		fakes: f,
		state: conn.Subscribe(app.StateTopic()),
		logs:  logs,
		x:     c,
		y:     c,
	}
}

func tick() tea.Cmd {
	return tea.Tick(refresh, func(time.Time) tea.Msg { return refreshMsg{} })
}

func (m model) Init() tea.Cmd { return tick() }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "left", "h":
			m.x -= stickStep
		case "right", "l":
			m.x += stickStep
		case "up", "k":
			m.y += stickStep
		case "down", "j":
			m.y -= stickStep
		case "c":
			m.x, m.y = int(m.cfg.ADCPeriod/2), int(m.cfg.ADCPeriod/2)
		case "a":
			platform.Press(m.fakes.ButtonA)
		case "b":
			platform.Press(m.fakes.ButtonB)
		case " ":
			platform.Press(m.fakes.JoyButton)
		}
		m.x = mathx.Clamp(m.x, 0, int(m.cfg.ADCPeriod)-1)
		m.y = mathx.Clamp(m.y, 0, int(m.cfg.ADCPeriod)-1)
		m.fakes.JoyX.Set(uint16(m.x))
		m.fakes.JoyY.Set(uint16(m.y))
	case refreshMsg:
		for drained := false; !drained; {
			select {
			case s := <-m.state.Channel():
				m.last = s.Payload.(types.AppState)
			default:
				drained = true
			}
		}
		return m, tick()
	}
	return m, nil
}

func (m model) View() string {
	left := panelStyle.Render(titleStyle.Render("OLED") + "\n" + m.oled())
	right := panelStyle.Render(titleStyle.Render("Matrix") + "\n" + m.matrix() + "\n\n" + titleStyle.Render("RGB") + " " + m.rgb())
	body := lipgloss.JoinHorizontal(lipgloss.Top, left, right)

	s := m.last
	status := statusStyle.Render(fmt.Sprintf(
		"stick %4d,%4d  cursor %3d,%2d  cell %2d,%2d  color %-5s  rgb %-5v  blink %-5v  pending %03b",
		m.x, m.y, s.CursorX, s.CursorY, s.Row, s.Col, s.ColorName, s.RGBEnabled, s.Blink, s.Pending))
	help := dimStyle.Render("arrows: stick  c: centre  a/b: buttons  space: stick press  q: quit")
	return lipgloss.JoinVertical(lipgloss.Left, body, status, help, dimStyle.Render(m.logs.String()))
}

func (m model) oled() string {
	d := m.fakes.Display
	w, h := d.Size()
	var sb strings.Builder
	for y := int16(0); y < h; y += cellH {
		for x := int16(0); x < w; x += cellW {
			if lit(d, x, y) {
				sb.WriteRune('█')
			} else {
				sb.WriteRune(' ')
			}
		}
		if y+cellH < h {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

func lit(d *platform.FakeDisplay, x0, y0 int16) bool {
	for y := y0; y < y0+cellH; y++ {
		for x := x0; x < x0+cellW; x++ {
			if d.Pixel(x, y) {
				return true
			}
		}
	}
	return false
}

// matrix draws the grid as mounted: row 4 at the top.
func (m model) matrix() string {
	var buf matrix.Buffer
	copy(buf[:], m.fakes.Matrix.Last())
	grid := matrix.Grid(&buf)
	var sb strings.Builder
	for row := matrix.Size - 1; row >= 0; row-- {
		for col := 0; col < matrix.Size; col++ {
			v := grid[row][col]
			if v == 0 {
				sb.WriteString(dimStyle.Render("·") + " ")
				continue
			}
			r, g, b := matrix.Split(v)
			style := lipgloss.NewStyle().Foreground(lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", scale(r), scale(g), scale(b))))
			sb.WriteString(style.Render("●") + " ")
		}
		if row > 0 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

// scale brightens the dim hardware palette for the terminal.
func scale(c uint8) uint8 {
	if c == 0 {
		return 0
	}
	return 0xff
}

func (m model) rgb() string {
	f := m.fakes
	switch {
	case f.Red.Get():
		return lipgloss.NewStyle().Foreground(lipgloss.Color("#f00")).Render("● red")
	case f.Green.Get():
		return lipgloss.NewStyle().Foreground(lipgloss.Color("#0f0")).Render("● green")
	case f.Blue.Get():
		return lipgloss.NewStyle().Foreground(lipgloss.Color("#00f")).Render("● blue")
	}
	return dimStyle.Render("○ off")
}
