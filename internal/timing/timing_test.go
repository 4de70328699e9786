package timing

import (
	"errors"
	"testing"

	"github.com/FabianRolfMatthiasNoll/PacmanEmulator/internal/bus"
	"github.com/FabianRolfMatthiasNoll/PacmanEmulator/internal/cpu"
)

// fixedStepper charges the same cost for every step.
type fixedStepper struct {
	cost       int
	steps      int
	interrupts int
	pending    bool
}

func (f *fixedStepper) Step() (int, error) {
	f.steps++
	f.pending = false
	return f.cost, nil
}
func (f *fixedStepper) Interrupt()             { f.interrupts++; f.pending = true }
func (f *fixedStepper) InterruptPending() bool { return f.pending }

func TestCyclesPerFrame(t *testing.T) {
	if CyclesPerFrame != 51200 {
		t.Fatalf("CyclesPerFrame got %d want 51200", CyclesPerFrame)
	}
}

func TestRunSlice_OvershootCarries(t *testing.T) {
	s := &fixedStepper{cost: 7}
	c := New(s)
	used, err := c.RunSlice(20)
	if err != nil {
		t.Fatal(err)
	}
	if used != 21 || c.Overshoot() != 1 {
		t.Fatalf("slice 1 used %d overshoot %d, want 21 and 1", used, c.Overshoot())
	}
	total := used
	for i := 0; i < 99; i++ {
		n, _ := c.RunSlice(20)
		total += n
	}
	if want := 100*20 + c.Overshoot(); total != want {
		t.Fatalf("100 slices used %d want %d", total, want)
	}
	if c.Overshoot() >= 7 {
		t.Fatalf("overshoot %d not below one instruction", c.Overshoot())
	}
}

func TestRunSlice_AssertsOncePerSlice(t *testing.T) {
	s := &fixedStepper{cost: 4}
	c := New(s)
	for i := 0; i < 5; i++ {
		c.RunSlice(100)
	}
	if s.interrupts != 5 {
		t.Fatalf("interrupts got %d want 5", s.interrupts)
	}
	if c.Slices() != 5 {
		t.Fatalf("slices got %d want 5", c.Slices())
	}
	c.SetGate(func() bool { return false })
	c.RunSlice(100)
	if s.interrupts != 5 {
		t.Fatalf("gated slice asserted the interrupt")
	}
}

func TestRunSlice_LargeDebtSkipsSlice(t *testing.T) {
	s := &fixedStepper{cost: 30}
	c := New(s)
	c.RunSlice(10) // one 30-cycle step, 20 over
	steps := s.steps
	used, _ := c.RunSlice(10)
	if used != 0 || s.steps != steps {
		t.Fatalf("slice with target <= 0 ran %d cycles", used)
	}
	if c.Overshoot() != 10 {
		t.Fatalf("overshoot got %d want 10", c.Overshoot())
	}
}

func newMachine(t *testing.T, prog []byte) (*cpu.CPU, *bus.Bus, *Controller) {
	t.Helper()
	b := bus.New(bus.Options{})
	if err := b.LoadProgram(prog); err != nil {
		t.Fatal(err)
	}
	c := cpu.New(b)
	return c, b, New(c)
}

func TestRunSlice_EndToEnd(t *testing.T) {
	// LD A,42h; LD (4C00h),A; HALT
	c, b, ctl := newMachine(t, []byte{0x3E, 0x42, 0x32, 0x00, 0x4C, 0x76})
	used, err := ctl.RunSlice(7 + 13 + 4)
	if err != nil {
		t.Fatal(err)
	}
	if used != 24 || c.Cycles != 24 {
		t.Fatalf("used %d cycles %d, want 24", used, c.Cycles)
	}
	if got := b.Read(0x4C00); got != 0x42 {
		t.Fatalf("RAM got %02x want 42", got)
	}
	if !c.Halted() {
		t.Fatalf("CPU not halted")
	}
}

func TestRunSlice_PendingWhileDisabled(t *testing.T) {
	// DI; JR $
	c, _, ctl := newMachine(t, []byte{0xF3, 0x18, 0xFE})
	ctl.RunSlice(100)
	if ctl.State() != InterruptPending {
		t.Fatalf("state got %s want interrupt-pending", ctl.State())
	}
	ctl.RunSlice(100)
	if ctl.State() != InterruptPending || c.PC != 1 {
		t.Fatalf("interrupt lost or serviced with DI: state %s PC %04x", ctl.State(), c.PC)
	}
}

func TestRunSlice_ServicedWhenEnabled(t *testing.T) {
	prog := make([]byte, 0x40)
	prog[0] = 0xED // IM 1
	prog[1] = 0x56
	prog[2] = 0xFB // EI
	prog[3] = 0x18 // JR $
	prog[4] = 0xFE
	prog[0x38] = 0x18 // JR $ in the handler
	prog[0x39] = 0xFE
	c, _, ctl := newMachine(t, prog)
	c.SP = 0x4FF0
	ctl.RunSlice(40)
	if ctl.State() != InterruptPending {
		t.Fatalf("state got %s want interrupt-pending", ctl.State())
	}
	ctl.RunSlice(40)
	if c.PC != 0x38 {
		t.Fatalf("PC got %04x want 0038", c.PC)
	}
	if c.SP != 0x4FEE {
		t.Fatalf("SP got %04x want 4fee", c.SP)
	}
	if ret := uint16(c.Bus().Read(0x4FEF))<<8 | uint16(c.Bus().Read(0x4FEE)); ret != 0x0003 {
		t.Fatalf("stacked PC got %04x want 0003", ret)
	}
	// The handler runs with interrupts off, so the second assertion waits.
	if ctl.State() != InterruptPending {
		t.Fatalf("state got %s want interrupt-pending", ctl.State())
	}
}

func TestRunSlice_DecodeErrorStopsSlice(t *testing.T) {
	// NOP; ED 00 (undefined)
	c, _, ctl := newMachine(t, []byte{0x00, 0xED, 0x00})
	used, err := ctl.RunSlice(100)
	var de *cpu.DecodeError
	if !errors.As(err, &de) {
		t.Fatalf("got %v want DecodeError", err)
	}
	if used != 4 || de.Addr != 1 {
		t.Fatalf("used %d addr %04x, want 4 and 0001", used, de.Addr)
	}
	if c.InterruptPending() {
		t.Fatalf("failed slice asserted the interrupt")
	}
}
