package emu

import (
	"bytes"
	"errors"
	"log"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/FabianRolfMatthiasNoll/PacmanEmulator/internal/bus"
	"github.com/FabianRolfMatthiasNoll/PacmanEmulator/internal/cpu"
	"github.com/FabianRolfMatthiasNoll/PacmanEmulator/internal/input"
	"github.com/FabianRolfMatthiasNoll/PacmanEmulator/internal/rom"
)

const counterAddr = 0x4C00

// irqProgram enables IM 1 interrupts through the board latch and counts
// them at counterAddr. With kick set the handler also feeds the watchdog.
func irqProgram(enableLatch, kick bool) []byte {
	p := make([]byte, 0x50)
	copy(p, []byte{
		0x31, 0xF0, 0x4F, // LD SP,4FF0h
		0xED, 0x56, // IM 1
		0x3E, 0x00, // LD A,0
		0x32, 0x00, 0x50, // LD (5000h),A
		0xFB,       // EI
		0x76,       // HALT
		0x18, 0xFD, // JR -3
	})
	if enableLatch {
		p[6] = 0x01
	}
	handler := []byte{
		0x3A, 0x00, 0x4C, // LD A,(4C00h)
		0x3C,             // INC A
		0x32, 0x00, 0x4C, // LD (4C00h),A
	}
	if kick {
		handler = append(handler, 0x32, 0xC0, 0x50) // LD (50C0h),A
	}
	handler = append(handler, 0xFB, 0xED, 0x4D) // EI; RETI
	copy(p[0x38:], handler)
	return p
}

func newMachine(t *testing.T, cfg Config, program []byte) *Machine {
	t.Helper()
	m := New(cfg)
	if err := m.LoadROMSet(&rom.Set{Program: program}); err != nil {
		t.Fatalf("LoadROMSet: %v", err)
	}
	return m
}

func runFrames(t *testing.T, m *Machine, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		if err := m.StepFrame(); err != nil {
			t.Fatalf("frame %d: %v", i, err)
		}
	}
}

func TestStepFrame_ServicesVBlank(t *testing.T) {
	m := newMachine(t, Config{}, irqProgram(true, false))
	runFrames(t, m, 10)
	if got := m.Bus().Read(counterAddr); got != 9 {
		t.Fatalf("interrupt count got %d want 9", got)
	}
	if m.Frames() != 10 {
		t.Fatalf("frames got %d", m.Frames())
	}
	if !m.CPU().Halted() {
		t.Fatal("CPU not halted between interrupts")
	}
}

func TestStepFrame_LatchGatesInterrupt(t *testing.T) {
	m := newMachine(t, Config{}, irqProgram(false, false))
	runFrames(t, m, 5)
	if got := m.Bus().Read(counterAddr); got != 0 {
		t.Fatalf("interrupt count got %d want 0", got)
	}
	if m.CPU().InterruptPending() {
		t.Fatal("interrupt asserted with the enable latch off")
	}
}

func TestStepFrame_DecodeError(t *testing.T) {
	m := newMachine(t, Config{}, []byte{0x00, 0xED, 0x00})
	err := m.StepFrame()
	var de *cpu.DecodeError
	if !errors.As(err, &de) {
		t.Fatalf("got %v want *cpu.DecodeError", err)
	}
	if de.Addr != 0x0001 {
		t.Fatalf("decode error at %04X want 0001", de.Addr)
	}
	if m.Frames() != 0 {
		t.Fatal("failed frame was counted")
	}
}

func TestWatchdog(t *testing.T) {
	m := newMachine(t, Config{Watchdog: true}, []byte{0xF3, 0x76}) // DI; HALT
	runFrames(t, m, WatchdogFrames-1)
	if m.Frames() != WatchdogFrames-1 {
		t.Fatalf("frames got %d", m.Frames())
	}
	runFrames(t, m, 1)
	if m.Frames() != 0 {
		t.Fatalf("watchdog did not reset, frames %d", m.Frames())
	}

	kicked := newMachine(t, Config{Watchdog: true}, irqProgram(true, true))
	runFrames(t, kicked, 3*WatchdogFrames)
	if kicked.Frames() != 3*WatchdogFrames {
		t.Fatalf("kicked machine reset at frame %d", kicked.Frames())
	}

	off := newMachine(t, Config{}, []byte{0xF3, 0x76})
	runFrames(t, off, 2*WatchdogFrames)
	if off.Frames() != 2*WatchdogFrames {
		t.Fatal("watchdog fired while disabled")
	}
}

func TestButtonsReachIOWindow(t *testing.T) {
	m := newMachine(t, Config{}, []byte{0xF3, 0x76})
	m.SetButtons(input.Buttons{Up: true, Start1: true})
	runFrames(t, m, 1)
	if got := m.Bus().Read(bus.IOStart); got&0x01 != 0 {
		t.Fatalf("IN0 got %02x, up should read low", got)
	}
	if got := m.Bus().Read(bus.IOStart + 0x40); got&0x20 != 0 {
		t.Fatalf("IN1 got %02x, start1 should read low", got)
	}
	if got := m.Bus().Read(bus.IOStart + 0x80); got != bus.DefaultDIP {
		t.Fatalf("DIP got %02x", got)
	}
}

func TestDIPSurvivesReset(t *testing.T) {
	dip := byte(0x41)
	m := newMachine(t, Config{DIP: &dip}, []byte{0x76})
	if got := m.Bus().Read(bus.IOStart + 0x80); got != 0x41 {
		t.Fatalf("DIP got %02x want 41", got)
	}
	m.SetDIP(0x33)
	m.Reset()
	if got := m.Bus().Read(bus.IOStart + 0x80); got != 0x33 {
		t.Fatalf("DIP after reset got %02x want 33", got)
	}
}

func TestDIPZeroIsASetting(t *testing.T) {
	var dip byte // free play, one life
	m := newMachine(t, Config{DIP: &dip}, []byte{0x76})
	if got := m.Bus().Read(bus.IOStart + 0x80); got != 0 {
		t.Fatalf("DIP got %02x want 00", got)
	}
	m.Reset()
	if got := m.Bus().Read(bus.IOStart + 0x80); got != 0 {
		t.Fatalf("DIP after reset got %02x want 00", got)
	}
}

func TestTraceLogsDisassembly(t *testing.T) {
	var buf bytes.Buffer
	prev := log.Writer()
	log.SetOutput(&buf)
	defer log.SetOutput(prev)

	m := newMachine(t, Config{Trace: true}, []byte{0x3E, 0x42, 0x76})
	if _, err := (tracer{m}).Step(); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "0000  LD A,42H") {
		t.Fatalf("trace output %q", buf.String())
	}
	m.SetTrace(false)
	buf.Reset()
	if _, err := (tracer{m}).Step(); err != nil {
		t.Fatal(err)
	}
	if buf.Len() != 0 {
		t.Fatalf("trace logged while off: %q", buf.String())
	}
}

func TestLoadROMFromFile(t *testing.T) {
	m := New(Config{})
	if err := m.LoadROMFromFile(filepath.Join(t.TempDir(), "missing.zip")); err == nil {
		t.Fatal("loading a missing file succeeded")
	}
	if m.ROMPath() != "" {
		t.Fatal("rom path set after failed load")
	}
	if err := m.LoadROMSet(&rom.Set{Program: make([]byte, bus.ROMSize+1)}); !errors.Is(err, bus.ErrProgramTooLarge) {
		t.Fatalf("got %v want ErrProgramTooLarge", err)
	}
}

// The audio player drains the ring on its own goroutine while frames are
// produced; run with -race.
func TestAudioPullWhileStepping(t *testing.T) {
	m := newMachine(t, Config{}, irqProgram(true, false))
	m.AudioClearLatency()

	done := make(chan struct{})
	var wg sync.WaitGroup
	pulled := 0
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-done:
				return
			default:
			}
			if m.AudioBufferedStereo() > 0 {
				pulled += len(m.AudioPullStereo(256)) / 2
			}
		}
	}()
	runFrames(t, m, 20)
	close(done)
	wg.Wait()

	if got := pulled + m.AudioBufferedStereo(); got != 20*735 {
		t.Fatalf("frames produced got %d want %d", got, 20*735)
	}
}
