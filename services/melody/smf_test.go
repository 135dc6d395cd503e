//go:build !rp2040 && !rp2350

package melody

import (
	"bytes"
	"testing"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

func TestMIDINote(t *testing.T) {
	cases := map[uint32]uint8{A4: 69, E4: 64, G4: 67, B4: 71, C5: 72, D5: 74, E5: 76, Rest: 0}
	for f, want := range cases {
		if got := MIDINote(f); got != want {
			t.Fatalf("MIDINote(%d) = %d, want %d", f, got, want)
		}
	}
}

func TestWriteSMF(t *testing.T) {
	m, _ := ByID(3)
	var buf bytes.Buffer
	if err := WriteSMF(&buf, m, DefaultGap); err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("MThd")) {
		t.Fatal("missing SMF header")
	}
	s, err := smf.ReadFrom(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatal(err)
	}
	if len(s.Tracks) != 1 {
		t.Fatalf("tracks = %d", len(s.Tracks))
	}
	var keys []uint8
	for _, ev := range s.Tracks[0] {
		var ch, key, vel uint8
		if midi.Message(ev.Message).GetNoteOn(&ch, &key, &vel) && vel > 0 {
			keys = append(keys, key)
		}
	}
	want := []uint8{69, 74, 71, 69, 74, 76}
	if len(keys) != len(want) {
		t.Fatalf("note-ons = %v", keys)
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Fatalf("key %d = %d, want %d", i, keys[i], want[i])
		}
	}
}
