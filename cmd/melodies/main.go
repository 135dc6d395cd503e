//go:build !rp2040 && !rp2350

// Command melodies writes the built-in melodies as Standard MIDI Files.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"bitdoglab-go/services/config"
	"bitdoglab-go/services/melody"
)

func main() {
	dir := flag.String("out", ".", "output directory")
	flag.Parse()

	gap := config.Default().NoteGap
	for _, m := range melody.All() {
		path := filepath.Join(*dir, fmt.Sprintf("melody%d.mid", m.ID))
		if err := write(path, m, gap); err != nil {
			fmt.Fprintln(os.Stderr, "melodies:", err)
			os.Exit(1)
		}
		fmt.Println("wrote", path)
	}
}

func write(path string, m melody.Melody, gap time.Duration) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := melody.WriteSMF(f, m, gap); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
