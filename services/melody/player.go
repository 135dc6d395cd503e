package melody

import (
	"context"
	"time"

	"bitdoglab-go/hal/halcore"
	"bitdoglab-go/x/timex"
)

// DefaultGap is the pause after every note.
const DefaultGap = 20 * time.Millisecond

// Tone renders one note. Both calls block for d.
type Tone interface {
	Tone(freq uint32, d time.Duration)
	Silence(d time.Duration)
}

// Player plays melodies note by note. Play blocks for the whole melody; ctx
// is checked between notes only.
type Player struct {
	out   Tone
	gap   time.Duration
	sleep func(time.Duration)
}

func NewPlayer(out Tone, gap time.Duration) *Player {
	if gap < 0 {
		gap = DefaultGap
	}
	return &Player{out: out, gap: gap, sleep: time.Sleep}
}

func (p *Player) Play(ctx context.Context, m Melody) error {
	for _, n := range m.Notes {
		if err := ctx.Err(); err != nil {
			return err
		}
		if n.IsRest() {
			p.out.Silence(n.Dur)
		} else {
			p.out.Tone(n.Freq, n.Dur)
		}
		p.sleep(p.gap)
	}
	return nil
}

// Total is the wall time Play takes for m with this player's gap.
func (p *Player) Total(m Melody) time.Duration {
	var d time.Duration
	for _, n := range m.Notes {
		d += n.Dur + p.gap
	}
	return d
}

// SquareWave bit-bangs a buzzer pin.
type SquareWave struct {
	pin   halcore.Pin
	sleep func(time.Duration)
}

func NewSquareWave(pin halcore.Pin) *SquareWave {
	return &SquareWave{pin: pin, sleep: time.Sleep}
}

// Tone toggles the pin for freq*d/1000 whole cycles.
func (s *SquareWave) Tone(freq uint32, d time.Duration) {
	half := timex.HalfPeriod(freq)
	for i := uint32(0); i < timex.Cycles(freq, d); i++ {
		s.pin.Set(true)
		s.sleep(half)
		s.pin.Set(false)
		s.sleep(half)
	}
}

func (s *SquareWave) Silence(d time.Duration) {
	s.pin.Set(false)
	s.sleep(d)
}
