package cpu

// Bus is what the CPU needs from the board: a 16-bit memory space and the
// separate 16-bit port space reached by IN/OUT.
type Bus interface {
	Read(addr uint16) byte
	Write(addr uint16, v byte)
	In(port uint16) byte
	Out(port uint16, v byte)
}

// InterruptAcknowledger is implemented by buses that drive the data bus
// during an interrupt acknowledge cycle. Without it the CPU reads 0xFF.
type InterruptAcknowledger interface {
	AcknowledgeInterrupt() byte
}

type indexReg uint8

const (
	useHL indexReg = iota
	useIX
	useIY
)

// CPU is a Z80 core. It owns its register file and talks to memory only
// through the Bus it was built with.
type CPU struct {
	Registers

	// Cycles counts T-states since the last reset.
	Cycles uint64

	halted  bool
	afterEI bool // previous instruction was EI
	irq     bool // interrupt line asserted, not yet acknowledged

	// per-instruction decode state
	index indexReg
	ea    uint16 // address of the (HL)/(IX+d) operand
	n     byte
	nn    uint16

	bus Bus
}

// New creates a CPU attached to b in its reset state.
func New(b Bus) *CPU {
	c := &CPU{bus: b}
	c.Reset()
	return c
}

// Bus exposes the underlying bus for tests/tools.
func (c *CPU) Bus() Bus { return c.bus }

// Reset puts the CPU in its power-on state: PC and SP zero, both interrupt
// flip-flops clear, IM 0, cycle counter zero, interrupt line released.
func (c *CPU) Reset() {
	c.Registers = Registers{IM: IM0}
	c.Cycles = 0
	c.halted = false
	c.afterEI = false
	c.irq = false
}

// Halted reports whether the CPU is sitting in HALT.
func (c *CPU) Halted() bool { return c.halted }

// Interrupt asserts the maskable interrupt line. The request stays pending
// until the CPU acknowledges it or is reset.
func (c *CPU) Interrupt() { c.irq = true }

// InterruptPending reports whether an asserted interrupt is still waiting.
func (c *CPU) InterruptPending() bool { return c.irq }

// Step executes one instruction, or acknowledges a pending interrupt, and
// returns the T-states spent. An undefined opcode returns a *DecodeError and
// leaves PC on the offending instruction.
func (c *CPU) Step() (int, error) {
	if c.irq && c.IFF1 && !c.afterEI {
		cycles := c.acknowledge()
		c.Cycles += uint64(cycles)
		return cycles, nil
	}
	c.afterEI = false
	if c.halted {
		c.incR()
		c.Cycles += 4
		return 4, nil
	}
	in, err := c.decode()
	if err != nil {
		return 0, err
	}
	cycles := c.execute(in)
	c.Cycles += uint64(cycles)
	return cycles, nil
}

// decode fetches the opcode, any prefixes, the displacement and the
// immediate operands of the next instruction.
func (c *CPU) decode() (*instruction, error) {
	start, r := c.PC, c.R
	c.index = useHL
	c.ea = c.HL()

	op := c.fetchOpcode()
	in := &baseTable[op]
	switch op {
	case 0xCB:
		in = &cbTable[c.fetchOpcode()]
	case 0xED:
		in = &edTable[c.fetchOpcode()]
	case 0xDD, 0xFD:
		c.index = useIX
		if op == 0xFD {
			c.index = useIY
		}
		op = c.fetchOpcode()
		if op == 0xCB {
			c.ea = c.hlx() + uint16(int8(c.fetch8()))
			in = &indexCBTable[c.fetch8()]
			break
		}
		in = &indexTable[op]
		if in.indexed {
			c.ea = c.hlx() + uint16(int8(c.fetch8()))
		}
	}
	if in.kind == kInvalid {
		err := &DecodeError{Addr: start}
		for a := start; a != c.PC; a++ {
			err.Bytes = append(err.Bytes, c.read8(a))
		}
		c.PC, c.R = start, r
		return nil, err
	}

	switch in.operand {
	case operImm8, operRel:
		c.n = c.fetch8()
	case operImm16:
		c.nn = c.fetch16()
	}
	return in, nil
}

// State is everything needed to resume the CPU exactly.
type State struct {
	Registers
	Cycles  uint64
	Halted  bool
	AfterEI bool
	IRQ     bool
}

func (c *CPU) State() State {
	return State{Registers: c.Registers, Cycles: c.Cycles, Halted: c.halted, AfterEI: c.afterEI, IRQ: c.irq}
}

func (c *CPU) Restore(s State) {
	c.Registers = s.Registers
	c.Cycles = s.Cycles
	c.halted = s.Halted
	c.afterEI = s.AfterEI
	c.irq = s.IRQ
}

func (c *CPU) read8(addr uint16) byte     { return c.bus.Read(addr) }
func (c *CPU) write8(addr uint16, v byte) { c.bus.Write(addr, v) }

// fetchOpcode is an M1 fetch: it also advances R.
func (c *CPU) fetchOpcode() byte {
	c.incR()
	return c.fetch8()
}

func (c *CPU) fetch8() byte {
	v := c.read8(c.PC)
	c.PC++
	return v
}

func (c *CPU) fetch16() uint16 {
	lo := c.fetch8()
	hi := c.fetch8()
	return uint16(hi)<<8 | uint16(lo)
}

func (c *CPU) read16(addr uint16) uint16 {
	lo := c.read8(addr)
	hi := c.read8(addr + 1)
	return uint16(hi)<<8 | uint16(lo)
}

func (c *CPU) write16(addr uint16, v uint16) {
	c.write8(addr, byte(v))
	c.write8(addr+1, byte(v>>8))
}

func (c *CPU) push16(v uint16) {
	c.SP--
	c.write8(c.SP, byte(v>>8))
	c.SP--
	c.write8(c.SP, byte(v))
}

func (c *CPU) pop16() uint16 {
	lo := c.read8(c.SP)
	c.SP++
	hi := c.read8(c.SP)
	c.SP++
	return uint16(hi)<<8 | uint16(lo)
}
