package ui

import (
	"encoding/binary"
	"sync/atomic"
	"testing"

	"github.com/FabianRolfMatthiasNoll/PacmanEmulator/internal/emu"
	"github.com/FabianRolfMatthiasNoll/PacmanEmulator/internal/rom"
)

// toneMachine runs a program that enables sound and plays voice 1.
func toneMachine(t *testing.T) *emu.Machine {
	t.Helper()
	m := emu.New(emu.Config{})
	prog := []byte{
		0x3E, 0x01, // LD A,1
		0x32, 0x01, 0x50, // LD (5001h),A  sound on
		0x3E, 0x0F, // LD A,0Fh
		0x32, 0x55, 0x50, // LD (5055h),A  voice 1 volume
		0x3E, 0x08, // LD A,8
		0x32, 0x53, 0x50, // LD (5053h),A  voice 1 freq nibble 3
		0x76, // HALT
	}
	if err := m.LoadROMSet(&rom.Set{Program: prog}); err != nil {
		t.Fatal(err)
	}
	if err := m.StepFrame(); err != nil {
		t.Fatal(err)
	}
	return m
}

func TestMachineStreamReadsFrames(t *testing.T) {
	m := toneMachine(t)
	buffered := m.AudioBufferedStereo()
	if buffered == 0 {
		t.Fatal("no audio after one frame")
	}
	s := &machineStream{m: m}
	p := make([]byte, 4*100)
	n, err := s.Read(p)
	if err != nil || n != len(p) {
		t.Fatalf("Read got %d, %v", n, err)
	}
	if m.AudioBufferedStereo() != buffered-100 {
		t.Fatalf("buffered got %d want %d", m.AudioBufferedStereo(), buffered-100)
	}
	nonzero := false
	for i := 0; i < n; i += 4 {
		l := binary.LittleEndian.Uint16(p[i:])
		r := binary.LittleEndian.Uint16(p[i+2:])
		if l != r {
			t.Fatalf("frame %d: left %04x right %04x", i/4, l, r)
		}
		if l != 0 {
			nonzero = true
		}
	}
	if !nonzero {
		t.Fatal("stream is silent")
	}
}

func TestMachineStreamMutedAndUnderrun(t *testing.T) {
	m := toneMachine(t)
	var muted atomic.Bool
	muted.Store(true)
	s := &machineStream{m: m, muted: &muted, lowLatency: true}
	p := make([]byte, 64)
	for i := range p {
		p[i] = 0xAA
	}
	if n, _ := s.Read(p); n != len(p) || p[0] != 0 || p[63] != 0 {
		t.Fatalf("muted read got %d bytes, %x", n, p[:4])
	}

	muted.Store(false)
	m.AudioClearLatency()
	n, _ := s.Read(make([]byte, 4096))
	if n != 256*4 || s.underruns != 1 {
		t.Fatalf("underrun read got %d bytes, %d underruns", n, s.underruns)
	}
}
