// Package melody holds the three built-in tunes and the blocking player
// that renders them on the buzzer.
package melody

import (
	"time"

	"bitdoglab-go/errcode"
)

// Rest is the frequency that means silence.
const Rest = 0

// Note pitches in Hz.
const (
	E4 = 330
	G4 = 392
	A4 = 440
	B4 = 494
	C5 = 523
	D5 = 587
	E5 = 659
)

type Note struct {
	Freq uint32
	Dur  time.Duration
}

func (n Note) IsRest() bool { return n.Freq == Rest }

type Melody struct {
	ID    int
	Name  string
	Notes []Note
}

// New pairs pitches with durations in milliseconds.
func New(id int, name string, pitches []uint32, durMs []uint32) (Melody, error) {
	if len(pitches) != len(durMs) {
		return Melody{}, errcode.Wrap(errcode.InvalidParams, "melody.New", name+": pitch and duration counts differ", nil)
	}
	notes := make([]Note, len(pitches))
	for i := range pitches {
		notes[i] = Note{Freq: pitches[i], Dur: time.Duration(durMs[i]) * time.Millisecond}
	}
	return Melody{ID: id, Name: name, Notes: notes}, nil
}

func repeat(ms uint32, n int) []uint32 {
	out := make([]uint32, n)
	for i := range out {
		out[i] = ms
	}
	return out
}

func must(m Melody, err error) Melody {
	if err != nil {
		panic(err)
	}
	return m
}

var songs = [...]Melody{
	must(New(1, "melody 1", []uint32{G4, E4, G4, E4, G4, E4, G4, E4}, repeat(150, 8))),
	must(New(2, "melody 2", []uint32{E5, B4, C5, D5, C5, B4, A4, A4}, repeat(125, 8))),
	must(New(3, "melody 3", []uint32{A4, D5, B4, A4, D5, E5}, repeat(250, 6))),
}

// All returns the built-in melodies in id order.
func All() []Melody { return songs[:] }

// ByID returns melody 1, 2 or 3.
func ByID(id int) (Melody, bool) {
	if id < 1 || id > len(songs) {
		return Melody{}, false
	}
	return songs[id-1], true
}
