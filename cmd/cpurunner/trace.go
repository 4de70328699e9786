package main

import (
	"fmt"
	"strings"

	"github.com/mgutz/ansi"

	"github.com/FabianRolfMatthiasNoll/PacmanEmulator/internal/cpu"
)

var (
	colAddr = ansi.ColorCode("cyan")
	colText = ansi.ColorCode("green+b")
	colSame = ansi.ColorCode("default:default")
	colNew  = ansi.ColorCode("default+bu:default")
)

type traceEntry struct {
	PC     uint16
	Text   string
	Cycles int
	Regs   cpu.Registers // after the instruction
}

// traceRing keeps the most recent entries.
type traceRing struct {
	buf  []traceEntry
	idx  int
	fill int
}

func newTraceRing(n int) *traceRing {
	if n < 1 {
		n = 1
	}
	return &traceRing{buf: make([]traceEntry, n)}
}

func (r *traceRing) add(e traceEntry) {
	r.buf[r.idx] = e
	r.idx = (r.idx + 1) % len(r.buf)
	if r.fill < len(r.buf) {
		r.fill++
	}
}

// entries returns the ring in chronological order.
func (r *traceRing) entries() []traceEntry {
	out := make([]traceEntry, 0, r.fill)
	start := (r.idx - r.fill + len(r.buf)) % len(r.buf)
	for j := 0; j < r.fill; j++ {
		out = append(out, r.buf[(start+j)%len(r.buf)])
	}
	return out
}

type regField struct {
	name string
	get  func(r *cpu.Registers) uint16
	bsz  int
}

var regFields = []regField{
	{"AF", func(r *cpu.Registers) uint16 { return r.AF() }, 4},
	{"BC", func(r *cpu.Registers) uint16 { return r.BC() }, 4},
	{"DE", func(r *cpu.Registers) uint16 { return r.DE() }, 4},
	{"HL", func(r *cpu.Registers) uint16 { return r.HL() }, 4},
	{"IX", func(r *cpu.Registers) uint16 { return r.IX }, 4},
	{"IY", func(r *cpu.Registers) uint16 { return r.IY }, 4},
	{"SP", func(r *cpu.Registers) uint16 { return r.SP }, 4},
}

// format renders one entry. With color, registers that differ from prev are
// highlighted.
func (e traceEntry) format(prev *cpu.Registers, color bool) string {
	var sb strings.Builder
	if color {
		fmt.Fprintf(&sb, "%s%04X%s  %s%-20s%s", colAddr, e.PC, ansi.Reset, colText, e.Text, ansi.Reset)
	} else {
		fmt.Fprintf(&sb, "%04X  %-20s", e.PC, e.Text)
	}
	for _, f := range regFields {
		v := f.get(&e.Regs)
		s := fmt.Sprintf("%0*X", f.bsz, v)
		if color {
			col := colSame
			if prev != nil && f.get(prev) != v {
				col = colNew
			}
			s = col + s + ansi.Reset
		}
		fmt.Fprintf(&sb, " %s=%s", f.name, s)
	}
	fmt.Fprintf(&sb, " cyc=%d", e.Cycles)
	return sb.String()
}

func formatRegs(r *cpu.Registers) string {
	return fmt.Sprintf("AF=%04X BC=%04X DE=%04X HL=%04X IX=%04X IY=%04X SP=%04X PC=%04X\n"+
		"AF'=%02X%02X BC'=%02X%02X DE'=%02X%02X HL'=%02X%02X I=%02X R=%02X IFF1=%t IFF2=%t %v",
		r.AF(), r.BC(), r.DE(), r.HL(), r.IX, r.IY, r.SP, r.PC,
		r.A2, r.F2, r.B2, r.C2, r.D2, r.E2, r.H2, r.L2, r.I, r.R, r.IFF1, r.IFF2, r.IM)
}
