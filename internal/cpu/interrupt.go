package cpu

import "fmt"

// InterruptMode is the maskable interrupt response selected by IM 0/1/2.
type InterruptMode uint8

const (
	IM0 InterruptMode = iota // execute the byte on the data bus (an RST)
	IM1                      // RST 38h
	IM2                      // vectored through the table at I<<8
)

func (m InterruptMode) String() string {
	switch m {
	case IM0, IM1, IM2:
		return fmt.Sprintf("IM%d", uint8(m))
	}
	return fmt.Sprintf("InterruptMode(%d)", uint8(m))
}

// entry returns the handler address and acknowledge cost for mode m. data is
// the byte the device put on the data bus; read16 reads the IM 2 table.
func (m InterruptMode) entry(data, i byte, read16 func(uint16) uint16) (uint16, int) {
	switch m {
	case IM1:
		return 0x0038, 13
	case IM2:
		return read16(uint16(i)<<8 | uint16(data)), 19
	default:
		// Only RST opcodes are meaningful here; anything else lands on 38h
		// the way an undriven bus (0xFF) does.
		if data&0xC7 == 0xC7 {
			return uint16(data & 0x38), 13
		}
		return 0x0038, 13
	}
}

// acknowledge services the pending interrupt: leave HALT, clear both
// flip-flops, push PC and jump to the mode's entry point.
func (c *CPU) acknowledge() int {
	c.irq = false
	c.halted = false
	c.IFF1, c.IFF2 = false, false
	c.incR()

	data := byte(0xFF)
	if a, ok := c.bus.(InterruptAcknowledger); ok {
		data = a.AcknowledgeInterrupt()
	}
	c.push16(c.PC)
	pc, cycles := c.IM.entry(data, c.I, c.read16)
	c.PC = pc
	return cycles
}
