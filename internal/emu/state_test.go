package emu

import (
	"errors"
	"path/filepath"
	"testing"
)

func TestSaveLoadState_Resumes(t *testing.T) {
	m := newMachine(t, Config{}, irqProgram(true, false))
	runFrames(t, m, 3)
	data, err := m.SaveState()
	if err != nil {
		t.Fatalf("SaveState: %v", err)
	}

	runFrames(t, m, 4)
	wantCPU, wantBus, wantFrames := m.CPU().State(), m.Bus().State(), m.Frames()

	if err := m.LoadState(data); err != nil {
		t.Fatalf("LoadState: %v", err)
	}
	if m.Frames() != 3 {
		t.Fatalf("frames after load got %d want 3", m.Frames())
	}
	runFrames(t, m, 4)
	if got := m.CPU().State(); got != wantCPU {
		t.Fatalf("cpu state diverged:\n got %+v\nwant %+v", got, wantCPU)
	}
	if got := m.Bus().State(); got != wantBus {
		t.Fatal("bus state diverged after reload")
	}
	if m.Frames() != wantFrames {
		t.Fatalf("frames got %d want %d", m.Frames(), wantFrames)
	}
}

func TestSaveLoadState_File(t *testing.T) {
	m := newMachine(t, Config{}, irqProgram(true, false))
	runFrames(t, m, 2)
	path := filepath.Join(t.TempDir(), "slot0.state")
	if err := m.SaveStateToFile(path); err != nil {
		t.Fatalf("SaveStateToFile: %v", err)
	}
	counter := m.Bus().Read(counterAddr)

	other := newMachine(t, Config{}, irqProgram(true, false))
	if err := other.LoadStateFromFile(path); err != nil {
		t.Fatalf("LoadStateFromFile: %v", err)
	}
	if got := other.Bus().Read(counterAddr); got != counter {
		t.Fatalf("counter got %d want %d", got, counter)
	}
	if err := other.LoadStateFromFile(filepath.Join(t.TempDir(), "none")); err == nil {
		t.Fatal("loading a missing state succeeded")
	}
}

func TestLoadState_Rejects(t *testing.T) {
	m := newMachine(t, Config{}, irqProgram(true, false))
	runFrames(t, m, 2)
	good, err := m.SaveState()
	if err != nil {
		t.Fatal(err)
	}
	before := m.CPU().State()

	corrupt := func(f func(b []byte) []byte) []byte {
		b := append([]byte(nil), good...)
		return f(b)
	}
	cases := map[string][]byte{
		"empty":     nil,
		"magic":     corrupt(func(b []byte) []byte { b[0] = 'X'; return b }),
		"version":   corrupt(func(b []byte) []byte { b[5] = 99; return b }),
		"flags":     corrupt(func(b []byte) []byte { b[7] = flagMirrorA15; return b }),
		"truncated": corrupt(func(b []byte) []byte { return b[:len(b)-1] }),
		"payload":   corrupt(func(b []byte) []byte { b[len(b)-1] ^= 0xFF; return b }),
	}
	for name, data := range cases {
		if err := m.LoadState(data); !errors.Is(err, ErrBadState) {
			t.Fatalf("%s: got %v want ErrBadState", name, err)
		}
	}
	if m.CPU().State() != before {
		t.Fatal("rejected state modified the machine")
	}
}
