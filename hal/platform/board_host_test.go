//go:build !rp2040 && !rp2350

package platform

import (
	"context"
	"image/color"
	"testing"
	"time"

	"bitdoglab-go/hal/halcore"
	"bitdoglab-go/services/config"
)

func TestNewHostDefaults(t *testing.T) {
	cfg := config.Default()
	b, f := NewHost(cfg)
	if len(b.Missing()) != 0 {
		t.Fatalf("missing = %v", b.Missing())
	}
	if f.JoyX.Get()>>4 != cfg.ADCPeriod/2 {
		t.Fatalf("joystick should start centred, got %d", f.JoyX.Get()>>4)
	}
	if !f.Red.IsOutput() || !f.Buzzer.IsOutput() || f.Red.Get() {
		t.Fatal("LED and buzzer must be low outputs")
	}
	if !f.ButtonA.Get() {
		t.Fatal("buttons idle high")
	}
}

func TestFakePinIRQ(t *testing.T) {
	p := NewFakePin(5)
	_ = p.ConfigureInput(halcore.PullUp)
	hits := 0
	_ = p.SetIRQ(halcore.EdgeFalling, func() { hits++ })
	Press(p)
	Press(p)
	if hits != 2 {
		t.Fatalf("falling edges = %d, want 2", hits)
	}
	_ = p.ClearIRQ()
	Press(p)
	if hits != 2 {
		t.Fatal("cleared IRQ still fired")
	}
	if p.Toggles() != 6 {
		t.Fatalf("toggles = %d", p.Toggles())
	}
}

func TestFakeDisplayFrames(t *testing.T) {
	d := NewFakeDisplay(16, 8)
	d.SetPixel(3, 2, color.RGBA{R: 1})
	d.SetPixel(100, 100, color.RGBA{R: 1})
	if d.Pixel(3, 2) {
		t.Fatal("pixel visible before Display")
	}
	_ = d.Display()
	if !d.Pixel(3, 2) || d.Lit() != 1 {
		t.Fatal("pixel not pushed")
	}
	d.ClearBuffer()
	_ = d.Display()
	if d.Lit() != 0 || d.Frames() != 2 {
		t.Fatal("clear not pushed")
	}
}

func TestFakeSerial(t *testing.T) {
	s := NewFakeSerial()
	s.Feed("status\n")
	buf := make([]byte, 32)
	n, err := s.RecvSomeContext(context.Background(), buf)
	if err != nil || string(buf[:n]) != "status\n" {
		t.Fatalf("recv = %q, %v", buf[:n], err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := s.RecvSomeContext(ctx, buf); err == nil {
		t.Fatal("cancelled recv should fail")
	}
	_, _ = s.Write([]byte("ok\n"))
	if !s.WaitFor("ok", 10*time.Millisecond) {
		t.Fatal("write not recorded")
	}
}
