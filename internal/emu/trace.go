package emu

import (
	"log"

	"github.com/FabianRolfMatthiasNoll/PacmanEmulator/internal/cpu"
)

// tracer is the CPU as the frame controller sees it. With tracing on it logs
// each instruction before running it.
type tracer struct{ m *Machine }

func (t tracer) Step() (int, error) {
	c := t.m.cpu
	if t.m.cfg.Trace {
		text, _ := cpu.Disassemble(t.m.bus.Read, c.PC)
		log.Printf("%04X  %-20s AF=%04X BC=%04X DE=%04X HL=%04X IX=%04X IY=%04X SP=%04X",
			c.PC, text, c.AF(), c.BC(), c.DE(), c.HL(), c.IX, c.IY, c.SP)
	}
	return c.Step()
}

func (t tracer) Interrupt()             { t.m.cpu.Interrupt() }
func (t tracer) InterruptPending() bool { return t.m.cpu.InterruptPending() }
