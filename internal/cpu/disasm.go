package cpu

import (
	"fmt"
	"strings"
)

// Disassemble decodes the instruction at pc using the same tables as the
// CPU and returns its text and encoded length. Undefined sequences come back
// as a DB directive.
func Disassemble(read func(uint16) byte, pc uint16) (string, int) {
	addr := pc
	next := func() byte {
		b := read(addr)
		addr++
		return b
	}

	op := next()
	in := &baseTable[op]
	index := ""
	var disp int8
	switch op {
	case 0xCB:
		in = &cbTable[next()]
	case 0xED:
		in = &edTable[next()]
	case 0xDD, 0xFD:
		index = "IX"
		if op == 0xFD {
			index = "IY"
		}
		op = next()
		if op == 0xCB {
			disp = int8(next())
			in = &indexCBTable[next()]
			break
		}
		in = &indexTable[op]
		if in.indexed {
			disp = int8(next())
		}
	}
	if in.kind == kInvalid {
		var sb strings.Builder
		sb.WriteString("DB ")
		for a := pc; a != addr; a++ {
			if a != pc {
				sb.WriteByte(',')
			}
			fmt.Fprintf(&sb, "%02XH", read(a))
		}
		return sb.String(), int(addr - pc)
	}

	text := in.mnemonic
	switch in.operand {
	case operImm8:
		text = strings.Replace(text, "{n}", fmt.Sprintf("%02XH", next()), 1)
	case operImm16:
		lo := next()
		hi := next()
		text = strings.Replace(text, "{nn}", fmt.Sprintf("%04XH", uint16(hi)<<8|uint16(lo)), 1)
	case operRel:
		e := int8(next())
		text = strings.Replace(text, "{e}", fmt.Sprintf("%04XH", addr+uint16(e)), 1)
	}
	if index != "" {
		text = strings.ReplaceAll(text, "IX", index)
		text = strings.Replace(text, "{d}", fmt.Sprintf("%+d", disp), 1)
	}
	return text, int(addr - pc)
}
