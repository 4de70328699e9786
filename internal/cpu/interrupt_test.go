package cpu

import "testing"

func TestInterruptMode_Entry(t *testing.T) {
	table := func(addr uint16) uint16 {
		if addr != 0x12FE {
			t.Fatalf("IM 2 read table at %04x want 12fe", addr)
		}
		return 0x3456
	}
	cases := []struct {
		mode   InterruptMode
		data   byte
		pc     uint16
		cycles int
	}{
		{IM0, 0xCF, 0x0008, 13}, // RST 08h
		{IM0, 0xFF, 0x0038, 13},
		{IM0, 0x00, 0x0038, 13}, // not an RST
		{IM1, 0xCF, 0x0038, 13},
		{IM2, 0xFE, 0x3456, 19},
	}
	for _, tc := range cases {
		pc, cycles := tc.mode.entry(tc.data, 0x12, table)
		if pc != tc.pc || cycles != tc.cycles {
			t.Fatalf("%s data %02x got %04x/%d want %04x/%d", tc.mode, tc.data, pc, cycles, tc.pc, tc.cycles)
		}
	}
}

func TestInterrupt_IM2Acknowledge(t *testing.T) {
	c, fb := newFlatCPU(0x1000, 0x00)
	fb.mem[0x1234] = 0x00
	fb.mem[0x1235] = 0x56
	fb.vector = 0x34
	c.I = 0x12
	c.IM = IM2
	c.IFF1, c.IFF2 = true, true
	c.Interrupt()
	if n := mustStep(t, c); n != 19 {
		t.Fatalf("IM 2 acknowledge cycles got %d want 19", n)
	}
	if c.PC != 0x5600 || c.SP != 0x7FFE {
		t.Fatalf("PC %04x SP %04x, want 5600 7ffe", c.PC, c.SP)
	}
	if fb.mem[0x7FFE] != 0x00 || fb.mem[0x7FFF] != 0x10 {
		t.Fatalf("stacked bytes %02x %02x want 00 10", fb.mem[0x7FFE], fb.mem[0x7FFF])
	}
	if c.IFF1 || c.IFF2 || c.InterruptPending() {
		t.Fatalf("acknowledge left IFF1 %v IFF2 %v pending %v", c.IFF1, c.IFF2, c.InterruptPending())
	}
}

func TestInterrupt_PendingUntilEnabled(t *testing.T) {
	// DI; NOP; NOP; EI; NOP; NOP
	c := newCPUWithROM(t, []byte{0xF3, 0x00, 0x00, 0xFB, 0x00, 0x00})
	c.Interrupt()
	for i := 0; i < 3; i++ {
		mustStep(t, c)
	}
	if !c.InterruptPending() || c.PC != 3 {
		t.Fatalf("interrupt taken with DI: PC %04x", c.PC)
	}
	mustStep(t, c) // EI
	mustStep(t, c) // the instruction after EI still runs
	if c.PC != 5 || !c.InterruptPending() {
		t.Fatalf("interrupt taken inside the EI shadow: PC %04x", c.PC)
	}
	sp := c.SP
	if n := mustStep(t, c); n != 13 {
		t.Fatalf("IM 0 acknowledge cycles got %d want 13", n)
	}
	if c.SP != sp-2 {
		t.Fatalf("SP got %04x want %04x", c.SP, sp-2)
	}
	b := c.Bus()
	if ret := uint16(b.Read(c.SP+1))<<8 | uint16(b.Read(c.SP)); ret != 5 {
		t.Fatalf("stacked PC got %04x want 0005", ret)
	}
	if c.PC != 0x38 {
		t.Fatalf("PC got %04x want 0038", c.PC)
	}
}

func TestInterrupt_ServicedOnce(t *testing.T) {
	prog := make([]byte, 0x40)
	prog[0] = 0xFB    // EI
	prog[1] = 0x00    // NOP
	prog[2] = 0x00    // NOP
	prog[0x38] = 0xFB // EI
	prog[0x39] = 0x00 // NOP
	prog[0x3A] = 0x00 // NOP
	c := newCPUWithROM(t, prog)
	c.Interrupt()
	mustStep(t, c)
	mustStep(t, c)
	mustStep(t, c) // acknowledge
	for i := 0; i < 3; i++ {
		mustStep(t, c)
	}
	if c.PC != 0x3B {
		t.Fatalf("PC got %04x want 003b", c.PC)
	}
	if c.SP != 0x4FEE {
		t.Fatalf("SP got %04x want 4fee", c.SP)
	}
}

func TestInterrupt_WakesHalt(t *testing.T) {
	c := newCPUWithROM(t, []byte{0xFB, 0x76}) // EI; HALT
	mustStep(t, c)
	mustStep(t, c)
	mustStep(t, c)
	if !c.Halted() || c.PC != 2 {
		t.Fatalf("halted %v PC %04x", c.Halted(), c.PC)
	}
	c.Interrupt()
	mustStep(t, c)
	if c.Halted() {
		t.Fatalf("still halted after acknowledge")
	}
	b := c.Bus()
	if ret := uint16(b.Read(c.SP+1))<<8 | uint16(b.Read(c.SP)); ret != 2 {
		t.Fatalf("stacked PC got %04x want 0002", ret)
	}
}

func TestInterrupt_RETNRestoresIFF1(t *testing.T) {
	c, fb := newFlatCPU(0x0100, 0xED, 0x45) // RETN
	fb.mem[0x7FFE] = 0x00
	fb.mem[0x7FFF] = 0x20
	c.SP = 0x7FFE
	c.IFF1, c.IFF2 = false, true
	if n := mustStep(t, c); n != 14 {
		t.Fatalf("RETN cycles got %d want 14", n)
	}
	if c.PC != 0x2000 || !c.IFF1 {
		t.Fatalf("PC %04x IFF1 %v", c.PC, c.IFF1)
	}
}

func TestInterrupt_IMInstructions(t *testing.T) {
	c := newCPUWithROM(t, []byte{0xED, 0x5E, 0xED, 0x56, 0xED, 0x46})
	for _, want := range []InterruptMode{IM2, IM1, IM0} {
		if n := mustStep(t, c); n != 8 {
			t.Fatalf("IM cycles got %d want 8", n)
		}
		if c.IM != want {
			t.Fatalf("mode got %s want %s", c.IM, want)
		}
	}
}
