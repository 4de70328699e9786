package cpu

// execute runs a decoded instruction and returns its T-states.
func (c *CPU) execute(in *instruction) int {
	switch in.kind {
	case kNOP:
	case kEXAF:
		c.exAF()
	case kDJNZ:
		c.B--
		if c.B != 0 {
			c.jr()
			return in.taken
		}
	case kJR:
		c.jr()
	case kJRcc:
		if c.cond(in.y - 4) {
			c.jr()
			return in.taken
		}
	case kLDrpnn:
		c.setRP(in.p, c.nn)
	case kADDHL:
		v, f := add16(c.hlx(), c.rp(in.p), c.F)
		c.setHLx(v)
		c.F = f
	case kLDmemA:
		c.write8(c.rp(in.p), c.A)
	case kLDAmem:
		c.A = c.read8(c.rp(in.p))
	case kLDnnHL:
		c.write16(c.nn, c.hlx())
	case kLDHLnn:
		c.setHLx(c.read16(c.nn))
	case kLDnnA:
		c.write8(c.nn, c.A)
	case kLDAnn:
		c.A = c.read8(c.nn)
	case kINCrp:
		c.setRP(in.p, c.rp(in.p)+1)
	case kDECrp:
		c.setRP(in.p, c.rp(in.p)-1)
	case kINCr:
		v, f := inc8(c.reg(in.y), c.F)
		c.setReg(in.y, v)
		c.F = f
	case kDECr:
		v, f := dec8(c.reg(in.y), c.F)
		c.setReg(in.y, v)
		c.F = f
	case kLDrn:
		c.setReg(in.y, c.n)
	case kRotA:
		c.A, c.F = rotA(in.y, c.A, c.F)
	case kDAA:
		c.A, c.F = daa(c.A, c.F)
	case kCPL:
		c.A, c.F = cpl(c.A, c.F)
	case kSCF:
		c.F = scf(c.A, c.F)
	case kCCF:
		c.F = ccf(c.A, c.F)
	case kLDrr:
		c.setReg(in.y, c.reg(in.z))
	case kHALT:
		c.halted = true
	case kALU:
		c.alu(in.y, c.reg(in.z))
	case kALUn:
		c.alu(in.y, c.n)
	case kRETcc:
		if c.cond(in.y) {
			c.PC = c.pop16()
			return in.taken
		}
	case kPOP:
		c.setRP2(in.p, c.pop16())
	case kRET:
		c.PC = c.pop16()
	case kEXX:
		c.exx()
	case kJPHL:
		c.PC = c.hlx()
	case kLDSPHL:
		c.SP = c.hlx()
	case kJPcc:
		if c.cond(in.y) {
			c.PC = c.nn
			return in.taken
		}
	case kJP:
		c.PC = c.nn
	case kOUTnA:
		c.bus.Out(uint16(c.A)<<8|uint16(c.n), c.A)
	case kINAn:
		c.A = c.bus.In(uint16(c.A)<<8 | uint16(c.n))
	case kEXSPHL:
		v := c.read16(c.SP)
		c.write16(c.SP, c.hlx())
		c.setHLx(v)
	case kEXDEHL:
		de := c.DE()
		c.SetDE(c.HL())
		c.SetHL(de)
	case kDI:
		c.IFF1, c.IFF2 = false, false
	case kEI:
		c.IFF1, c.IFF2 = true, true
		c.afterEI = true
	case kCALLcc:
		if c.cond(in.y) {
			c.push16(c.PC)
			c.PC = c.nn
			return in.taken
		}
	case kPUSH:
		c.push16(c.rp2(in.p))
	case kCALL:
		c.push16(c.PC)
		c.PC = c.nn
	case kRST:
		c.push16(c.PC)
		c.PC = uint16(in.y) * 8

	case kROT:
		v, f := rot(in.y, c.reg(in.z), c.F)
		c.setReg(in.z, v)
		c.F = f
	case kBIT:
		v := c.reg(in.z)
		xy := v
		if in.z == 6 {
			xy = byte(c.ea >> 8)
		}
		c.F = bit(in.y, v, c.F, xy)
	case kRES:
		c.setReg(in.z, c.reg(in.z)&^(1<<in.y))
	case kSET:
		c.setReg(in.z, c.reg(in.z)|1<<in.y)

	case kINrC:
		v := c.bus.In(c.BC())
		c.setReg(in.y, v)
		c.F = sz53p[v] | c.F&FlagC
	case kOUTCr:
		c.bus.Out(c.BC(), c.reg(in.y))
	case kSBCHL:
		v, f := sbc16(c.HL(), c.rp(in.p), c.F&FlagC)
		c.SetHL(v)
		c.F = f
	case kADCHL:
		v, f := adc16(c.HL(), c.rp(in.p), c.F&FlagC)
		c.SetHL(v)
		c.F = f
	case kLDnnRP:
		c.write16(c.nn, c.rp(in.p))
	case kLDRPnn:
		c.setRP(in.p, c.read16(c.nn))
	case kNEG:
		c.A, c.F = sub8(0, c.A, 0)
	case kRETN, kRETI:
		c.PC = c.pop16()
		c.IFF1 = c.IFF2
	case kIM:
		c.IM = [8]InterruptMode{IM0, IM0, IM1, IM2}[in.y]
	case kLDIA:
		c.I = c.A
	case kLDRA:
		c.R = c.A
	case kLDAI:
		c.A = c.I
		c.F = c.irFlags()
	case kLDAR:
		c.A = c.R
		c.F = c.irFlags()
	case kRRD:
		v := c.read8(c.HL())
		c.write8(c.HL(), c.A<<4|v>>4)
		c.A = c.A&0xF0 | v&0x0F
		c.F = sz53p[c.A] | c.F&FlagC
	case kRLD:
		v := c.read8(c.HL())
		c.write8(c.HL(), v<<4|c.A&0x0F)
		c.A = c.A&0xF0 | v>>4
		c.F = sz53p[c.A] | c.F&FlagC
	case kBlock:
		if c.block(in.y, in.z) && in.y >= 6 {
			c.PC -= 2
			return in.taken
		}
	}
	return in.cycles
}

func (c *CPU) jr() { c.PC += uint16(int8(c.n)) }

func (c *CPU) cond(cc byte) bool {
	switch cc {
	case 0:
		return c.F&FlagZ == 0
	case 1:
		return c.F&FlagZ != 0
	case 2:
		return c.F&FlagC == 0
	case 3:
		return c.F&FlagC != 0
	case 4:
		return c.F&FlagPV == 0
	case 5:
		return c.F&FlagPV != 0
	case 6:
		return c.F&FlagS == 0
	default:
		return c.F&FlagS != 0
	}
}

// alu performs the accumulator operation selected by op (the y field).
func (c *CPU) alu(op, v byte) {
	switch op {
	case 0:
		c.A, c.F = add8(c.A, v, 0)
	case 1:
		c.A, c.F = add8(c.A, v, c.F&FlagC)
	case 2:
		c.A, c.F = sub8(c.A, v, 0)
	case 3:
		c.A, c.F = sub8(c.A, v, c.F&FlagC)
	case 4:
		c.A, c.F = and8(c.A, v)
	case 5:
		c.A, c.F = xor8(c.A, v)
	case 6:
		c.A, c.F = or8(c.A, v)
	case 7:
		c.F = cp8(c.A, v)
	}
}

func (c *CPU) irFlags() byte {
	f := sz53[c.A] | c.F&FlagC
	if c.IFF2 {
		f |= FlagPV
	}
	return f
}

// block runs one iteration of an ED block instruction and reports whether a
// repeating form would go again.
func (c *CPU) block(y, z byte) bool {
	step := uint16(1)
	if y&1 != 0 {
		step = 0xFFFF
	}
	switch z {
	case 0: // LDI/LDD
		v := c.read8(c.HL())
		c.write8(c.DE(), v)
		c.SetHL(c.HL() + step)
		c.SetDE(c.DE() + step)
		c.SetBC(c.BC() - 1)
		n := v + c.A
		f := c.F&(FlagS|FlagZ|FlagC) | n&FlagX | n<<4&FlagY
		if c.BC() != 0 {
			f |= FlagPV
		}
		c.F = f
		return c.BC() != 0
	case 1: // CPI/CPD
		v := c.read8(c.HL())
		r, sf := sub8(c.A, v, 0)
		c.SetHL(c.HL() + step)
		c.SetBC(c.BC() - 1)
		n := r
		if sf&FlagH != 0 {
			n--
		}
		f := sf&(FlagS|FlagZ|FlagH) | FlagN | c.F&FlagC | n&FlagX | n<<4&FlagY
		if c.BC() != 0 {
			f |= FlagPV
		}
		c.F = f
		return c.BC() != 0 && r != 0
	case 2: // INI/IND
		v := c.bus.In(c.BC())
		c.write8(c.HL(), v)
		c.SetHL(c.HL() + step)
		c.B--
	default: // OUTI/OUTD
		v := c.read8(c.HL())
		c.B--
		c.bus.Out(c.BC(), v)
		c.SetHL(c.HL() + step)
	}
	c.F = sz53[c.B] | FlagN | c.F&FlagC
	return c.B != 0
}

// reg reads register index i; 6 is the memory operand at ea.
func (c *CPU) reg(i byte) byte {
	switch i {
	case 0:
		return c.B
	case 1:
		return c.C
	case 2:
		return c.D
	case 3:
		return c.E
	case 4:
		return c.H
	case 5:
		return c.L
	case 6:
		return c.read8(c.ea)
	default:
		return c.A
	}
}

func (c *CPU) setReg(i, v byte) {
	switch i {
	case 0:
		c.B = v
	case 1:
		c.C = v
	case 2:
		c.D = v
	case 3:
		c.E = v
	case 4:
		c.H = v
	case 5:
		c.L = v
	case 6:
		c.write8(c.ea, v)
	default:
		c.A = v
	}
}

// hlx is HL, or IX/IY under a DD/FD prefix.
func (c *CPU) hlx() uint16 {
	switch c.index {
	case useIX:
		return c.IX
	case useIY:
		return c.IY
	}
	return c.HL()
}

func (c *CPU) setHLx(v uint16) {
	switch c.index {
	case useIX:
		c.IX = v
	case useIY:
		c.IY = v
	default:
		c.SetHL(v)
	}
}

func (c *CPU) rp(p byte) uint16 {
	switch p {
	case 0:
		return c.BC()
	case 1:
		return c.DE()
	case 2:
		return c.hlx()
	}
	return c.SP
}

func (c *CPU) setRP(p byte, v uint16) {
	switch p {
	case 0:
		c.SetBC(v)
	case 1:
		c.SetDE(v)
	case 2:
		c.setHLx(v)
	default:
		c.SP = v
	}
}

func (c *CPU) rp2(p byte) uint16 {
	if p == 3 {
		return c.AF()
	}
	return c.rp(p)
}

func (c *CPU) setRP2(p byte, v uint16) {
	if p == 3 {
		c.SetAF(v)
		return
	}
	c.setRP(p, v)
}
