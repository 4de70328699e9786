package cpu

import (
	"fmt"
	"strings"
)

// kind selects the handler for a table entry.
type kind uint8

const (
	kInvalid kind = iota
	kPrefix

	// unprefixed
	kNOP
	kEXAF
	kDJNZ
	kJR
	kJRcc
	kLDrpnn
	kADDHL
	kLDmemA
	kLDAmem
	kLDnnHL
	kLDHLnn
	kLDnnA
	kLDAnn
	kINCrp
	kDECrp
	kINCr
	kDECr
	kLDrn
	kRotA
	kDAA
	kCPL
	kSCF
	kCCF
	kLDrr
	kHALT
	kALU
	kALUn
	kRETcc
	kPOP
	kRET
	kEXX
	kJPHL
	kLDSPHL
	kJPcc
	kJP
	kOUTnA
	kINAn
	kEXSPHL
	kEXDEHL
	kDI
	kEI
	kCALLcc
	kPUSH
	kCALL
	kRST

	// CB
	kROT
	kBIT
	kRES
	kSET

	// ED
	kINrC
	kOUTCr
	kSBCHL
	kADCHL
	kLDnnRP
	kLDRPnn
	kNEG
	kRETN
	kRETI
	kIM
	kLDIA
	kLDRA
	kLDAI
	kLDAR
	kRRD
	kRLD
	kBlock
)

// operandMode says which immediate bytes follow the opcode.
type operandMode uint8

const (
	operNone  operandMode = iota
	operImm8              // n
	operImm16             // nn, little endian
	operRel               // e, signed offset from the next instruction
)

// instruction is one opcode table entry.
type instruction struct {
	mnemonic string // {n} {nn} {e} {d} are filled in by the disassembler
	kind     kind
	operand  operandMode
	indexed  bool // has a (HL) memory operand, (IX+d) under DD/FD
	cycles   int  // T-states, or not-taken cost for conditionals
	taken    int  // T-states when a condition holds or a block op repeats
	y, z     byte
	p, q     byte
}

var (
	baseTable    [256]instruction
	cbTable      [256]instruction
	edTable      [256]instruction
	indexTable   [256]instruction // DD/FD, written with IX
	indexCBTable [256]instruction // DD CB d op / FD CB d op
)

var (
	regNames = [8]string{"B", "C", "D", "E", "H", "L", "(HL)", "A"}
	rpNames  = [4]string{"BC", "DE", "HL", "SP"}
	rp2Names = [4]string{"BC", "DE", "HL", "AF"}
	ccNames  = [8]string{"NZ", "Z", "NC", "C", "PO", "PE", "P", "M"}
	aluNames = [8]string{"ADD A,", "ADC A,", "SUB ", "SBC A,", "AND ", "XOR ", "OR ", "CP "}
	rotNames = [8]string{"RLC", "RRC", "RL", "RR", "SLA", "SRA", "SLL", "SRL"}
)

// Indexed forms whose cost is not the common 19 T-states of the (IX+d) loads
// and ALU ops.
var indexCycles = map[byte]int{
	0x09: 15, 0x19: 15, 0x29: 15, 0x39: 15, // ADD IX,rp
	0x21: 14, // LD IX,nn
	0x22: 20, // LD (nn),IX
	0x23: 10, // INC IX
	0x2A: 20, // LD IX,(nn)
	0x2B: 10, // DEC IX
	0x34: 23, // INC (IX+d)
	0x35: 23, // DEC (IX+d)
	0x36: 19, // LD (IX+d),n
	0xE1: 14, // POP IX
	0xE3: 23, // EX (SP),IX
	0xE5: 15, // PUSH IX
	0xE9: 8,  // JP (IX)
	0xF9: 10, // LD SP,IX
}

func init() {
	for i := 0; i < 256; i++ {
		op := byte(i)
		baseTable[i] = decodeBase(op)
		cbTable[i] = decodeCB(op)
		edTable[i] = decodeED(op)
	}
	// indexed tables derive from the ones above
	for i := 0; i < 256; i++ {
		op := byte(i)
		indexTable[i] = decodeIndex(op)
		indexCBTable[i] = decodeIndexCB(op)
	}
}

func fields(op byte) (x, y, z, p, q byte) {
	return op >> 6, op >> 3 & 7, op & 7, op >> 4 & 3, op >> 3 & 1
}

func decodeBase(op byte) instruction {
	x, y, z, p, q := fields(op)
	in := instruction{y: y, z: z, p: p, q: q}
	set := func(k kind, mn string, cycles int) { in.kind, in.mnemonic, in.cycles = k, mn, cycles }

	switch x {
	case 0:
		switch z {
		case 0:
			switch y {
			case 0:
				set(kNOP, "NOP", 4)
			case 1:
				set(kEXAF, "EX AF,AF'", 4)
			case 2:
				set(kDJNZ, "DJNZ {e}", 8)
				in.taken, in.operand = 13, operRel
			case 3:
				set(kJR, "JR {e}", 12)
				in.operand = operRel
			default:
				set(kJRcc, "JR "+ccNames[y-4]+",{e}", 7)
				in.taken, in.operand = 12, operRel
			}
		case 1:
			if q == 0 {
				set(kLDrpnn, "LD "+rpNames[p]+",{nn}", 10)
				in.operand = operImm16
			} else {
				set(kADDHL, "ADD HL,"+rpNames[p], 11)
			}
		case 2:
			switch {
			case q == 0 && p < 2:
				set(kLDmemA, "LD ("+rpNames[p]+"),A", 7)
			case q == 0 && p == 2:
				set(kLDnnHL, "LD ({nn}),HL", 16)
			case q == 0:
				set(kLDnnA, "LD ({nn}),A", 13)
			case p < 2:
				set(kLDAmem, "LD A,("+rpNames[p]+")", 7)
			case p == 2:
				set(kLDHLnn, "LD HL,({nn})", 16)
			default:
				set(kLDAnn, "LD A,({nn})", 13)
			}
			if p >= 2 {
				in.operand = operImm16
			}
		case 3:
			if q == 0 {
				set(kINCrp, "INC "+rpNames[p], 6)
			} else {
				set(kDECrp, "DEC "+rpNames[p], 6)
			}
		case 4, 5:
			k, name := kINCr, "INC "
			if z == 5 {
				k, name = kDECr, "DEC "
			}
			set(k, name+regNames[y], 4)
			if y == 6 {
				in.cycles, in.indexed = 11, true
			}
		case 6:
			set(kLDrn, "LD "+regNames[y]+",{n}", 7)
			in.operand = operImm8
			if y == 6 {
				in.cycles, in.indexed = 10, true
			}
		case 7:
			names := [8]string{"RLCA", "RRCA", "RLA", "RRA", "DAA", "CPL", "SCF", "CCF"}
			kinds := [8]kind{kRotA, kRotA, kRotA, kRotA, kDAA, kCPL, kSCF, kCCF}
			set(kinds[y], names[y], 4)
		}
	case 1:
		if op == 0x76 {
			set(kHALT, "HALT", 4)
			break
		}
		set(kLDrr, "LD "+regNames[y]+","+regNames[z], 4)
		if y == 6 || z == 6 {
			in.cycles, in.indexed = 7, true
		}
	case 2:
		set(kALU, aluNames[y]+regNames[z], 4)
		if z == 6 {
			in.cycles, in.indexed = 7, true
		}
	case 3:
		switch z {
		case 0:
			set(kRETcc, "RET "+ccNames[y], 5)
			in.taken = 11
		case 1:
			if q == 0 {
				set(kPOP, "POP "+rp2Names[p], 10)
				break
			}
			switch p {
			case 0:
				set(kRET, "RET", 10)
			case 1:
				set(kEXX, "EXX", 4)
			case 2:
				set(kJPHL, "JP (HL)", 4)
			case 3:
				set(kLDSPHL, "LD SP,HL", 6)
			}
		case 2:
			set(kJPcc, "JP "+ccNames[y]+",{nn}", 10)
			in.taken, in.operand = 10, operImm16
		case 3:
			switch y {
			case 0:
				set(kJP, "JP {nn}", 10)
				in.operand = operImm16
			case 1:
				set(kPrefix, "CB", 0)
			case 2:
				set(kOUTnA, "OUT ({n}),A", 11)
				in.operand = operImm8
			case 3:
				set(kINAn, "IN A,({n})", 11)
				in.operand = operImm8
			case 4:
				set(kEXSPHL, "EX (SP),HL", 19)
			case 5:
				set(kEXDEHL, "EX DE,HL", 4)
			case 6:
				set(kDI, "DI", 4)
			case 7:
				set(kEI, "EI", 4)
			}
		case 4:
			set(kCALLcc, "CALL "+ccNames[y]+",{nn}", 10)
			in.taken, in.operand = 17, operImm16
		case 5:
			switch {
			case q == 0:
				set(kPUSH, "PUSH "+rp2Names[p], 11)
			case p == 0:
				set(kCALL, "CALL {nn}", 17)
				in.operand = operImm16
			default:
				set(kPrefix, [4]string{"", "DD", "ED", "FD"}[p], 0)
			}
		case 6:
			set(kALUn, aluNames[y]+"{n}", 7)
			in.operand = operImm8
		case 7:
			set(kRST, fmt.Sprintf("RST %02XH", y*8), 11)
		}
	}
	return in
}

func decodeCB(op byte) instruction {
	x, y, z, p, q := fields(op)
	in := instruction{y: y, z: z, p: p, q: q, cycles: 8}
	switch x {
	case 0:
		if y == 6 {
			return instruction{} // SLL is undocumented
		}
		in.kind, in.mnemonic = kROT, rotNames[y]+" "+regNames[z]
	case 1:
		in.kind, in.mnemonic = kBIT, fmt.Sprintf("BIT %d,%s", y, regNames[z])
	case 2:
		in.kind, in.mnemonic = kRES, fmt.Sprintf("RES %d,%s", y, regNames[z])
	case 3:
		in.kind, in.mnemonic = kSET, fmt.Sprintf("SET %d,%s", y, regNames[z])
	}
	if z == 6 {
		in.indexed = true
		in.cycles = 15
		if in.kind == kBIT {
			in.cycles = 12
		}
	}
	return in
}

func decodeED(op byte) instruction {
	x, y, z, p, q := fields(op)
	in := instruction{y: y, z: z, p: p, q: q}
	set := func(k kind, mn string, cycles int) { in.kind, in.mnemonic, in.cycles = k, mn, cycles }

	switch {
	case x == 1:
		switch z {
		case 0:
			if y != 6 {
				set(kINrC, "IN "+regNames[y]+",(C)", 12)
			}
		case 1:
			if y != 6 {
				set(kOUTCr, "OUT (C),"+regNames[y], 12)
			}
		case 2:
			if q == 0 {
				set(kSBCHL, "SBC HL,"+rpNames[p], 15)
			} else {
				set(kADCHL, "ADC HL,"+rpNames[p], 15)
			}
		case 3:
			if q == 0 {
				set(kLDnnRP, "LD ({nn}),"+rpNames[p], 20)
			} else {
				set(kLDRPnn, "LD "+rpNames[p]+",({nn})", 20)
			}
			in.operand = operImm16
		case 4:
			if y == 0 {
				set(kNEG, "NEG", 8)
			}
		case 5:
			switch y {
			case 0:
				set(kRETN, "RETN", 14)
			case 1:
				set(kRETI, "RETI", 14)
			}
		case 6:
			switch y {
			case 0:
				set(kIM, "IM 0", 8)
			case 2:
				set(kIM, "IM 1", 8)
			case 3:
				set(kIM, "IM 2", 8)
			}
		case 7:
			switch y {
			case 0:
				set(kLDIA, "LD I,A", 9)
			case 1:
				set(kLDRA, "LD R,A", 9)
			case 2:
				set(kLDAI, "LD A,I", 9)
			case 3:
				set(kLDAR, "LD A,R", 9)
			case 4:
				set(kRRD, "RRD", 18)
			case 5:
				set(kRLD, "RLD", 18)
			}
		}
	case x == 2 && z <= 3 && y >= 4:
		names := [4][4]string{
			{"LDI", "CPI", "INI", "OUTI"},
			{"LDD", "CPD", "IND", "OUTD"},
			{"LDIR", "CPIR", "INIR", "OTIR"},
			{"LDDR", "CPDR", "INDR", "OTDR"},
		}
		set(kBlock, names[y-4][z], 16)
		in.taken = 21
	}
	return in
}

func decodeIndex(op byte) instruction {
	base := baseTable[op]
	if op == 0xCB {
		return base
	}
	cycles, ok := indexCycles[op]
	if !ok && base.indexed {
		cycles, ok = 19, true
	}
	if !ok {
		return instruction{}
	}
	in := base
	in.cycles = cycles
	in.mnemonic = indexMnemonic(in)
	return in
}

func decodeIndexCB(op byte) instruction {
	base := cbTable[op]
	if base.kind == kInvalid || !base.indexed {
		return instruction{} // register copies of DDCB are undocumented
	}
	in := base
	in.cycles = 23
	if in.kind == kBIT {
		in.cycles = 20
	}
	in.mnemonic = indexMnemonic(in)
	return in
}

func indexMnemonic(in instruction) string {
	mn := in.mnemonic
	if in.indexed {
		mn = strings.Replace(mn, "(HL)", "(IX{d})", 1)
	}
	return strings.ReplaceAll(mn, "HL", "IX")
}
