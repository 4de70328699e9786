package cpu

import "math/bits"

// Flag results are computed from operands, result and carry only. Callers
// assign the returned byte to F; nothing sets individual bits in place.

var (
	sz53  [256]byte // S, Z and the X/Y copies for a result byte
	sz53p [256]byte // sz53 plus even parity in PV
)

func init() {
	for i := 0; i < 256; i++ {
		v := byte(i)
		f := v & (FlagS | FlagY | FlagX)
		if v == 0 {
			f |= FlagZ
		}
		sz53[i] = f
		if bits.OnesCount8(v)%2 == 0 {
			f |= FlagPV
		}
		sz53p[i] = f
	}
}

// add8 is ADD/ADC: a + b + carry.
func add8(a, b, carry byte) (byte, byte) {
	sum := uint16(a) + uint16(b) + uint16(carry)
	res := byte(sum)
	f := sz53[res]
	if (a^b^res)&0x10 != 0 {
		f |= FlagH
	}
	if (a^res)&(b^res)&0x80 != 0 {
		f |= FlagPV
	}
	if sum > 0xFF {
		f |= FlagC
	}
	return res, f
}

// sub8 is SUB/SBC/NEG: a - b - carry.
func sub8(a, b, carry byte) (byte, byte) {
	diff := int(a) - int(b) - int(carry)
	res := byte(diff)
	f := sz53[res] | FlagN
	if (a^b^res)&0x10 != 0 {
		f |= FlagH
	}
	if (a^b)&(a^res)&0x80 != 0 {
		f |= FlagPV
	}
	if diff < 0 {
		f |= FlagC
	}
	return res, f
}

// cp8 is CP: flags of a - b with X/Y taken from the operand.
func cp8(a, b byte) byte {
	_, f := sub8(a, b, 0)
	return f&^(FlagX|FlagY) | b&(FlagX|FlagY)
}

func and8(a, b byte) (byte, byte) { r := a & b; return r, sz53p[r] | FlagH }
func xor8(a, b byte) (byte, byte) { r := a ^ b; return r, sz53p[r] }
func or8(a, b byte) (byte, byte)  { r := a | b; return r, sz53p[r] }

// inc8 leaves C untouched.
func inc8(v, f byte) (byte, byte) {
	r := v + 1
	nf := f&FlagC | sz53[r]
	if v&0x0F == 0x0F {
		nf |= FlagH
	}
	if v == 0x7F {
		nf |= FlagPV
	}
	return r, nf
}

// dec8 leaves C untouched.
func dec8(v, f byte) (byte, byte) {
	r := v - 1
	nf := f&FlagC | sz53[r] | FlagN
	if v&0x0F == 0 {
		nf |= FlagH
	}
	if v == 0x80 {
		nf |= FlagPV
	}
	return r, nf
}

// add16 is ADD HL,rp. S, Z and PV survive; H is the carry out of bit 11.
func add16(a, b uint16, f byte) (uint16, byte) {
	sum := uint32(a) + uint32(b)
	r := uint16(sum)
	nf := f&(FlagS|FlagZ|FlagPV) | byte(r>>8)&(FlagX|FlagY)
	if (a^b^r)&0x1000 != 0 {
		nf |= FlagH
	}
	if sum > 0xFFFF {
		nf |= FlagC
	}
	return r, nf
}

func adc16(a, b uint16, carry byte) (uint16, byte) {
	sum := uint32(a) + uint32(b) + uint32(carry)
	r := uint16(sum)
	f := byte(r>>8) & (FlagS | FlagX | FlagY)
	if r == 0 {
		f |= FlagZ
	}
	if (a^b^r)&0x1000 != 0 {
		f |= FlagH
	}
	if (a^r)&(b^r)&0x8000 != 0 {
		f |= FlagPV
	}
	if sum > 0xFFFF {
		f |= FlagC
	}
	return r, f
}

func sbc16(a, b uint16, carry byte) (uint16, byte) {
	diff := int32(a) - int32(b) - int32(carry)
	r := uint16(diff)
	f := byte(r>>8)&(FlagS|FlagX|FlagY) | FlagN
	if r == 0 {
		f |= FlagZ
	}
	if (a^b^r)&0x1000 != 0 {
		f |= FlagH
	}
	if (a^b)&(a^r)&0x8000 != 0 {
		f |= FlagPV
	}
	if diff < 0 {
		f |= FlagC
	}
	return r, f
}

// rot is the CB rotate/shift group selected by op (the y field).
func rot(op, v, f byte) (byte, byte) {
	var r, c byte
	switch op {
	case 0: // RLC
		c = v >> 7
		r = v<<1 | c
	case 1: // RRC
		c = v & 1
		r = v>>1 | c<<7
	case 2: // RL
		c = v >> 7
		r = v<<1 | f&FlagC
	case 3: // RR
		c = v & 1
		r = v>>1 | (f&FlagC)<<7
	case 4: // SLA
		c = v >> 7
		r = v << 1
	case 5: // SRA
		c = v & 1
		r = v>>1 | v&0x80
	case 7: // SRL
		c = v & 1
		r = v >> 1
	}
	return r, sz53p[r] | c
}

// rotA is RLCA/RRCA/RLA/RRA: like rot but S, Z and PV survive.
func rotA(op, a, f byte) (byte, byte) {
	r, rf := rot(op, a, f)
	return r, f&(FlagS|FlagZ|FlagPV) | r&(FlagX|FlagY) | rf&FlagC
}

// bit is BIT n. xy supplies the X/Y copies, which come from the operand for
// registers and from the address high byte for memory forms.
func bit(n, v, f, xy byte) byte {
	r := v & (1 << n)
	nf := f&FlagC | FlagH | xy&(FlagX|FlagY)
	if r == 0 {
		nf |= FlagZ | FlagPV
	}
	if r&0x80 != 0 {
		nf |= FlagS
	}
	return nf
}

func daa(a, f byte) (byte, byte) {
	var diff, c, h byte
	lo := a & 0x0F
	if f&FlagH != 0 || lo > 9 {
		diff = 0x06
	}
	c = f & FlagC
	if c != 0 || a > 0x99 {
		diff |= 0x60
		c = FlagC
	}
	var r byte
	if f&FlagN != 0 {
		r = a - diff
		if f&FlagH != 0 && lo < 6 {
			h = FlagH
		}
	} else {
		r = a + diff
		if lo > 9 {
			h = FlagH
		}
	}
	return r, sz53p[r] | h | c | f&FlagN
}

func cpl(a, f byte) (byte, byte) {
	r := ^a
	return r, f&(FlagS|FlagZ|FlagPV|FlagC) | FlagH | FlagN | r&(FlagX|FlagY)
}

func scf(a, f byte) byte {
	return f&(FlagS|FlagZ|FlagPV) | FlagC | a&(FlagX|FlagY)
}

func ccf(a, f byte) byte {
	nf := f&(FlagS|FlagZ|FlagPV) | a&(FlagX|FlagY)
	if f&FlagC != 0 {
		nf |= FlagH
	} else {
		nf |= FlagC
	}
	return nf
}
