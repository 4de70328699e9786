package cpu

// Flag bits of F.
const (
	FlagC  byte = 1 << 0
	FlagN  byte = 1 << 1
	FlagPV byte = 1 << 2
	FlagX  byte = 1 << 3 // undocumented copy of bit 3
	FlagH  byte = 1 << 4
	FlagY  byte = 1 << 5 // undocumented copy of bit 5
	FlagZ  byte = 1 << 6
	FlagS  byte = 1 << 7
)

// Registers is the Z80 register file. Byte and word fields wrap on their own
// width; nothing here validates.
type Registers struct {
	A, F byte
	B, C byte
	D, E byte
	H, L byte

	// Alternate set, swapped in by EX AF,AF' and EXX.
	A2, F2 byte
	B2, C2 byte
	D2, E2 byte
	H2, L2 byte

	IX, IY uint16
	SP     uint16
	PC     uint16

	I byte
	R byte // bit 7 is only changed by LD R,A

	IFF1, IFF2 bool
	IM         InterruptMode
}

func (r *Registers) AF() uint16     { return uint16(r.A)<<8 | uint16(r.F) }
func (r *Registers) SetAF(v uint16) { r.A = byte(v >> 8); r.F = byte(v) }
func (r *Registers) BC() uint16     { return uint16(r.B)<<8 | uint16(r.C) }
func (r *Registers) SetBC(v uint16) { r.B = byte(v >> 8); r.C = byte(v) }
func (r *Registers) DE() uint16     { return uint16(r.D)<<8 | uint16(r.E) }
func (r *Registers) SetDE(v uint16) { r.D = byte(v >> 8); r.E = byte(v) }
func (r *Registers) HL() uint16     { return uint16(r.H)<<8 | uint16(r.L) }
func (r *Registers) SetHL(v uint16) { r.H = byte(v >> 8); r.L = byte(v) }

// Flag reports whether every bit in mask is set in F.
func (r *Registers) Flag(mask byte) bool { return r.F&mask == mask }

func (r *Registers) exAF() {
	r.A, r.A2 = r.A2, r.A
	r.F, r.F2 = r.F2, r.F
}

func (r *Registers) exx() {
	r.B, r.B2 = r.B2, r.B
	r.C, r.C2 = r.C2, r.C
	r.D, r.D2 = r.D2, r.D
	r.E, r.E2 = r.E2, r.E
	r.H, r.H2 = r.H2, r.H
	r.L, r.L2 = r.L2, r.L
}

// incR bumps the refresh counter once per opcode fetch, keeping bit 7.
func (r *Registers) incR() { r.R = r.R&0x80 | (r.R+1)&0x7F }
