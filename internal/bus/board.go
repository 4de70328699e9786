package bus

// DefaultDIP is the factory DIP setting: 1 coin 1 credit, 3 lives, bonus
// life at 10000, normal difficulty, normal ghost names.
const DefaultDIP = 0xC9

// Latch numbers of the 74LS259 at 0x5000-0x5007.
const (
	LatchIRQEnable = iota
	LatchSoundEnable
	LatchAuxEnable
	LatchFlip
	LatchLamp1
	LatchLamp2
	LatchCoinLockout
	LatchCoinCounter
)

// Board implements the I/O window at 0x5000-0x50FF. Offsets are relative to
// the window start.
//
//	reads:  00-3F IN0, 40-7F IN1, 80-BF DIP switches, C0-FF 0xFF
//	writes: 00-3F latches (offset & 7), 40-5F sound, 60-6F sprite x/y,
//	        C0-FF watchdog
type Board struct {
	in0, in1 byte
	dip      byte

	latches  [8]bool
	coins    int
	sound    [32]byte
	spriteXY [16]byte

	sinceKick int // frames since the last watchdog write
}

func newBoard() *Board {
	b := &Board{dip: DefaultDIP}
	b.Reset()
	return b
}

// Reset clears latches and registers and releases all inputs. The DIP
// setting and coin count survive.
func (b *Board) Reset() {
	b.in0, b.in1 = 0xFF, 0xFF
	b.latches = [8]bool{}
	b.sound = [32]byte{}
	b.spriteXY = [16]byte{}
	b.sinceKick = 0
}

// SetInputs sets the active-low IN0 and IN1 port values.
func (b *Board) SetInputs(in0, in1 byte) { b.in0, b.in1 = in0, in1 }

func (b *Board) SetDIP(v byte) { b.dip = v }
func (b *Board) DIP() byte     { return b.dip }

func (b *Board) Read(off byte) byte {
	switch {
	case off < 0x40:
		return b.in0
	case off < 0x80:
		return b.in1
	case off < 0xC0:
		return b.dip
	}
	return 0xFF
}

func (b *Board) Write(off byte, v byte) {
	switch {
	case off < 0x40:
		b.latch(off&7, v&1 != 0)
	case off < 0x60:
		b.sound[off-0x40] = v & 0x0F
	case off < 0x70:
		b.spriteXY[off-0x60] = v
	case off >= 0xC0:
		b.sinceKick = 0
	}
}

func (b *Board) latch(n byte, on bool) {
	if n == LatchCoinCounter && on && !b.latches[n] {
		b.coins++
	}
	b.latches[n] = on
}

// Latch reports the state of latch n.
func (b *Board) Latch(n int) bool { return b.latches[n&7] }

// InterruptsEnabled reports the vblank interrupt enable latch.
func (b *Board) InterruptsEnabled() bool { return b.latches[LatchIRQEnable] }

// Coins is the number of coin counter pulses since power-on.
func (b *Board) Coins() int { return b.coins }

// TickWatchdog advances the watchdog by one frame and reports whether limit
// frames have passed without a write to 0x50C0.
func (b *Board) TickWatchdog(limit int) bool {
	b.sinceKick++
	return limit > 0 && b.sinceKick >= limit
}
