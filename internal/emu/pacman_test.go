package emu

import (
	"os"
	"testing"

	"github.com/FabianRolfMatthiasNoll/PacmanEmulator/internal/cpu"
)

// TestPacmanBoots runs the real game when PACMAN_ROM points at a ROM set.
func TestPacmanBoots(t *testing.T) {
	path := os.Getenv("PACMAN_ROM")
	if path == "" {
		t.Skip("set PACMAN_ROM to a pacman.zip to run")
	}
	m := New(Config{Watchdog: true})
	if err := m.LoadROMFromFile(path); err != nil {
		t.Fatalf("load ROM: %v", err)
	}
	const frames = 600
	for i := 0; i < frames; i++ {
		if err := m.StepFrame(); err != nil {
			t.Fatalf("frame %d: %v", i, err)
		}
	}
	if m.Frames() != frames {
		t.Fatalf("machine reset during boot, frames %d", m.Frames())
	}
	if m.CPU().IM != cpu.IM2 {
		t.Fatalf("interrupt mode got %v want IM2", m.CPU().IM)
	}
	snap := m.Bus().Snapshot()
	blank := true
	for _, c := range snap.TileCodes {
		if c != 0 && c != 0x40 {
			blank = false
			break
		}
	}
	if blank {
		t.Fatal("tile RAM is blank after boot")
	}
}
