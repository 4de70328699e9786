package main

import (
	"io"

	"github.com/pkg/errors"

	"github.com/FabianRolfMatthiasNoll/PacmanEmulator/internal/cpu"
)

// errBreak stops a run at a breakpoint.
var errBreak = errors.New("breakpoint")

// errHalted is returned when the CPU halts with interrupts disabled.
var errHalted = errors.New("halted with interrupts disabled")

// errExit is returned when a CP/M program jumps to the warm boot vector.
var errExit = errors.New("program exited")

type runner struct {
	c      *cpu.CPU
	mem    *flatMemory
	ring   *traceRing
	record bool // fill the ring
	live   bool // print every instruction
	color  bool
	cpm    bool
	out    io.Writer
	breaks map[uint16]bool

	steps uint64
	last  *cpu.Registers
}

func newRunner(mem *flatMemory, out io.Writer, window int) *runner {
	return &runner{
		c:      cpu.New(mem),
		mem:    mem,
		ring:   newTraceRing(window),
		out:    out,
		breaks: make(map[uint16]bool),
	}
}

// step executes one instruction, servicing CP/M calls first.
func (r *runner) step() error {
	pc := r.c.PC
	if r.cpm {
		switch pc {
		case cpmWarmBoot:
			return errExit
		case cpmBDOS:
			bdos(r.c, r.mem, r.out)
		}
	}
	var text string
	if r.record || r.live {
		text, _ = cpu.Disassemble(r.mem.Read, pc)
	}
	n, err := r.c.Step()
	if err != nil {
		return err
	}
	r.steps++
	if r.record || r.live {
		e := traceEntry{PC: pc, Text: text, Cycles: n, Regs: r.c.Registers}
		r.ring.add(e)
		if r.live {
			io.WriteString(r.out, e.format(r.last, r.color)+"\n")
		}
		regs := r.c.Registers
		r.last = &regs
	}
	if r.c.Halted() && !r.c.IFF1 {
		return errHalted
	}
	return nil
}

// run steps until max instructions, a breakpoint, an exit or an error. The
// instruction at a breakpoint has not executed when run returns errBreak.
func (r *runner) run(max uint64) error {
	for i := uint64(0); max == 0 || i < max; i++ {
		if i > 0 && r.breaks[r.c.PC] {
			return errBreak
		}
		if err := r.step(); err != nil {
			return err
		}
	}
	return nil
}
