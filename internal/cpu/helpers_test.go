package cpu

import (
	"testing"

	"github.com/FabianRolfMatthiasNoll/PacmanEmulator/internal/bus"
)

// newCPUWithROM loads code at 0 on a Pac-Man bus with the stack at the top
// of RAM.
func newCPUWithROM(t *testing.T, code []byte) *CPU {
	t.Helper()
	b := bus.New(bus.Options{})
	if err := b.LoadProgram(code); err != nil {
		t.Fatalf("load: %v", err)
	}
	c := New(b)
	c.SP = 0x4FF0
	return c
}

// flatBus is 64 KiB of RAM with a scriptable data bus byte.
type flatBus struct {
	mem    [0x10000]byte
	ports  [0x100]byte
	outs   []uint16
	vector byte
}

func (f *flatBus) Read(addr uint16) byte      { return f.mem[addr] }
func (f *flatBus) Write(addr uint16, v byte)  { f.mem[addr] = v }
func (f *flatBus) In(port uint16) byte        { return f.ports[port&0xFF] }
func (f *flatBus) Out(port uint16, v byte)    { f.outs = append(f.outs, port); f.ports[port&0xFF] = v }
func (f *flatBus) AcknowledgeInterrupt() byte { return f.vector }

func newFlatCPU(org uint16, code ...byte) (*CPU, *flatBus) {
	fb := &flatBus{}
	copy(fb.mem[org:], code)
	c := New(fb)
	c.PC = org
	c.SP = 0x8000
	return c, fb
}

func mustStep(t *testing.T, c *CPU) int {
	t.Helper()
	n, err := c.Step()
	if err != nil {
		t.Fatalf("step at %04x: %v", c.PC, err)
	}
	return n
}
