package cpu

import "testing"

func countValid(tbl *[256]instruction) int {
	n := 0
	for i := range tbl {
		if k := tbl[i].kind; k != kInvalid && k != kPrefix {
			n++
		}
	}
	return n
}

func TestTables_DocumentedOpcodeCounts(t *testing.T) {
	cases := []struct {
		name string
		tbl  *[256]instruction
		want int
	}{
		{"base", &baseTable, 252},
		{"CB", &cbTable, 248},
		{"ED", &edTable, 58},
		{"DD/FD", &indexTable, 39},
		{"DDCB/FDCB", &indexCBTable, 31},
	}
	for _, c := range cases {
		if got := countValid(c.tbl); got != c.want {
			t.Fatalf("%s table has %d documented opcodes want %d", c.name, got, c.want)
		}
	}
}

func TestTables_Cycles(t *testing.T) {
	cases := []struct {
		name   string
		in     instruction
		cycles int
		taken  int
	}{
		{"NOP", baseTable[0x00], 4, 0},
		{"LD BC,nn", baseTable[0x01], 10, 0},
		{"INC (HL)", baseTable[0x34], 11, 0},
		{"LD (HL),n", baseTable[0x36], 10, 0},
		{"LD (nn),HL", baseTable[0x22], 16, 0},
		{"LD A,(nn)", baseTable[0x3A], 13, 0},
		{"JR Z", baseTable[0x28], 7, 12},
		{"LD B,(HL)", baseTable[0x46], 7, 0},
		{"ADD A,(HL)", baseTable[0x86], 7, 0},
		{"RET C", baseTable[0xD8], 5, 11},
		{"JP PE", baseTable[0xEA], 10, 10},
		{"CALL M", baseTable[0xFC], 10, 17},
		{"EX (SP),HL", baseTable[0xE3], 19, 0},
		{"RST 38h", baseTable[0xFF], 11, 0},
		{"RLC (HL)", cbTable[0x06], 15, 0},
		{"BIT 7,(HL)", cbTable[0x7E], 12, 0},
		{"SET 0,A", cbTable[0xC7], 8, 0},
		{"LD (nn),SP", edTable[0x73], 20, 0},
		{"LD I,A", edTable[0x47], 9, 0},
		{"OTDR", edTable[0xBB], 16, 21},
		{"ADD IY,SP", indexTable[0x39], 15, 0},
		{"EX (SP),IX", indexTable[0xE3], 23, 0},
		{"XOR (IX+d)", indexTable[0xAE], 19, 0},
		{"RR (IX+d)", indexCBTable[0x1E], 23, 0},
		{"BIT 0,(IX+d)", indexCBTable[0x46], 20, 0},
	}
	for _, c := range cases {
		if c.in.cycles != c.cycles || c.in.taken != c.taken {
			t.Fatalf("%s (%s) cycles %d/%d want %d/%d", c.name, c.in.mnemonic, c.in.cycles, c.in.taken, c.cycles, c.taken)
		}
	}
}

func TestTables_StepMatchesTable(t *testing.T) {
	// Every documented unprefixed opcode with no condition must cost what its
	// table entry says when run.
	for op := 0; op < 256; op++ {
		in := baseTable[op]
		if in.kind == kInvalid || in.kind == kPrefix || in.taken != 0 || in.kind == kJR {
			continue
		}
		c, _ := newFlatCPU(0x1000, byte(op), 0x00, 0x20)
		c.SetHL(0x9000)
		n, err := c.Step()
		if err != nil {
			t.Fatalf("%02x: %v", op, err)
		}
		if n != in.cycles {
			t.Fatalf("%02x %s cost %d want %d", op, in.mnemonic, n, in.cycles)
		}
	}
}
