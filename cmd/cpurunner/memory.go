package main

import (
	"io"

	"github.com/FabianRolfMatthiasNoll/PacmanEmulator/internal/cpu"
)

// flatMemory is 64K of RAM with a port space, for running bare Z80 images.
type flatMemory struct {
	mem   [0x10000]byte
	ports [0x100]byte
}

func (m *flatMemory) Read(addr uint16) byte     { return m.mem[addr] }
func (m *flatMemory) Write(addr uint16, v byte) { m.mem[addr] = v }
func (m *flatMemory) In(port uint16) byte       { return m.ports[port&0xFF] }
func (m *flatMemory) Out(port uint16, v byte)   { m.ports[port&0xFF] = v }

func (m *flatMemory) load(org uint16, img []byte) {
	copy(m.mem[org:], img)
}

// CP/M entry points used by test programs such as ZEXDOC.
const (
	cpmWarmBoot = 0x0000
	cpmBDOS     = 0x0005
	cpmTPA      = 0x0100
)

// setupCPM places a RET at the BDOS entry so the call returns after the
// host has handled it.
func (m *flatMemory) setupCPM() {
	m.mem[cpmBDOS] = 0xC9
}

// bdos services console output functions 2 (char in E) and 9 (string at DE
// terminated by '$').
func bdos(c *cpu.CPU, mem *flatMemory, out io.Writer) {
	switch c.C {
	case 2:
		out.Write([]byte{c.E})
	case 9:
		var s []byte
		for a := c.DE(); mem.mem[a] != '$' && len(s) < 0x10000; a++ {
			s = append(s, mem.mem[a])
		}
		out.Write(s)
	}
}
