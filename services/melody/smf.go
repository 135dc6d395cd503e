//go:build !rp2040 && !rp2350

package melody

import (
	"io"
	"math"
	"time"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"

	"bitdoglab-go/errcode"
)

const (
	ticksPerQuarter = 960
	exportBPM       = 120
	velocity        = 100
)

// MIDINote returns the nearest MIDI key for freq (A4 = 440 Hz = 69).
func MIDINote(freq uint32) uint8 {
	if freq == Rest {
		return 0
	}
	n := math.Round(69 + 12*math.Log2(float64(freq)/440))
	if n < 0 {
		return 0
	}
	if n > 127 {
		return 127
	}
	return uint8(n)
}

func ticks(d time.Duration) uint32 {
	quarter := time.Minute / exportBPM
	return uint32(int64(d) * ticksPerQuarter / int64(quarter))
}

// WriteSMF encodes m as a single-track Standard MIDI File. Rests and the
// inter-note gap become silent ticks.
func WriteSMF(w io.Writer, m Melody, gap time.Duration) error {
	s := smf.New()
	s.TimeFormat = smf.MetricTicks(ticksPerQuarter)

	var tr smf.Track
	tr.Add(0, smf.MetaTrackSequenceName(m.Name))
	tr.Add(0, smf.MetaTempo(exportBPM))

	var wait uint32
	for _, n := range m.Notes {
		if n.IsRest() {
			wait += ticks(n.Dur) + ticks(gap)
			continue
		}
		key := MIDINote(n.Freq)
		tr.Add(wait, midi.NoteOn(0, key, velocity))
		tr.Add(ticks(n.Dur), midi.NoteOff(0, key))
		wait = ticks(gap)
	}
	tr.Close(wait)

	if err := s.Add(tr); err != nil {
		return errcode.Wrap(errcode.Error, "melody.WriteSMF", m.Name, err)
	}
	if _, err := s.WriteTo(w); err != nil {
		return errcode.Wrap(errcode.Error, "melody.WriteSMF", m.Name, err)
	}
	return nil
}
