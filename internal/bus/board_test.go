package bus

import "testing"

func TestBoard_InputsAndDIP(t *testing.T) {
	b := New(Options{})
	b.Board().SetInputs(0xFE, 0xDF)
	if got := b.Read(0x5000); got != 0xFE {
		t.Fatalf("IN0 got %02x want fe", got)
	}
	if got := b.Read(0x503F); got != 0xFE {
		t.Fatalf("IN0 mirror got %02x want fe", got)
	}
	if got := b.Read(0x5040); got != 0xDF {
		t.Fatalf("IN1 got %02x want df", got)
	}
	if got := b.Read(0x5080); got != DefaultDIP {
		t.Fatalf("DIP got %02x want %02x", got, DefaultDIP)
	}
	if got := b.Read(0x50C0); got != 0xFF {
		t.Fatalf("50C0 got %02x want ff", got)
	}
}

func TestBoard_Latches(t *testing.T) {
	b := New(Options{})
	b.Write(0x5000, 1)
	if !b.Board().InterruptsEnabled() {
		t.Fatalf("irq latch not set")
	}
	b.Write(0x5008, 0) // mirror of 0x5000
	if b.Board().InterruptsEnabled() {
		t.Fatalf("irq latch mirror did not clear")
	}
	b.Write(0x5003, 0xFF)
	if !b.Board().Latch(LatchFlip) {
		t.Fatalf("flip latch not set")
	}
	for i := 0; i < 3; i++ {
		b.Write(0x5007, 1)
		b.Write(0x5007, 0)
	}
	b.Write(0x5007, 1)
	b.Write(0x5007, 1) // held high, no new pulse
	if got := b.Board().Coins(); got != 4 {
		t.Fatalf("coin pulses got %d want 4", got)
	}
}

func TestBoard_SpriteCoordsAndWatchdog(t *testing.T) {
	b := New(Options{})
	b.Write(0x5062, 0x80)
	if s := b.Snapshot(); s.SpriteXY[2] != 0x80 {
		t.Fatalf("sprite x got %02x want 80", s.SpriteXY[2])
	}
	bd := b.Board()
	for i := 0; i < 15; i++ {
		if bd.TickWatchdog(16) {
			t.Fatalf("watchdog fired early at frame %d", i+1)
		}
	}
	b.Write(0x50C0, 0)
	if bd.TickWatchdog(16) {
		t.Fatalf("watchdog fired after kick")
	}
	if bd.TickWatchdog(0) {
		t.Fatalf("limit 0 should disable the watchdog")
	}
}
