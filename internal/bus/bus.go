package bus

import "github.com/pkg/errors"

// Pac-Man memory map. Each region is a fixed array; nothing resizes.
const (
	ROMStart      = 0x0000
	ROMSize       = 0x4000
	TileCodeStart = 0x4000
	TileCodeSize  = 0x0400
	TileAttrStart = 0x4400
	TileAttrSize  = 0x0400
	RAMStart      = 0x4800
	RAMSize       = 0x07F0
	SpriteStart   = 0x4FF0
	SpriteSize    = 0x0010
	IOStart       = 0x5000
	IOSize        = 0x0100
)

// ErrProgramTooLarge is returned by LoadProgram for images over ROMSize.
var ErrProgramTooLarge = errors.New("bus: program image exceeds ROM region")

// Region identifies the backing store an address decodes to.
type Region uint8

const (
	Unmapped Region = iota
	ROM
	TileCodes
	TileAttrs
	RAM
	Sprites
	IO
)

func (r Region) String() string {
	switch r {
	case ROM:
		return "rom"
	case TileCodes:
		return "tiles"
	case TileAttrs:
		return "attrs"
	case RAM:
		return "ram"
	case Sprites:
		return "sprites"
	case IO:
		return "io"
	}
	return "unmapped"
}

// Options tweak address decoding.
type Options struct {
	// MirrorA15 ignores address line 15 like the board's decoder, so
	// 0x8000-0xFFFF aliases the lower half. Off, the upper half is unmapped.
	MirrorA15 bool
}

// Bus is the Pac-Man board as seen from the Z80: memory regions, the I/O
// window at 0x5000 and the port space.
type Bus struct {
	rom     [ROMSize]byte
	tiles   [TileCodeSize]byte
	attrs   [TileAttrSize]byte
	ram     [RAMSize]byte
	sprites [SpriteSize]byte

	board  *Board
	vector byte // IM 2 vector latched by OUT (0),A
	mirror bool
}

func New(opts Options) *Bus {
	return &Bus{board: newBoard(), mirror: opts.MirrorA15}
}

// Board returns the I/O window handler.
func (b *Bus) Board() *Board { return b.board }

// LoadProgram copies img to the start of ROM and clears the rest of it.
func (b *Bus) LoadProgram(img []byte) error {
	if len(img) > ROMSize {
		return errors.Wrapf(ErrProgramTooLarge, "%d bytes", len(img))
	}
	b.rom = [ROMSize]byte{}
	copy(b.rom[:], img)
	return nil
}

// Reset zeroes every writable region and the board latches. ROM is kept.
func (b *Bus) Reset() {
	b.tiles = [TileCodeSize]byte{}
	b.attrs = [TileAttrSize]byte{}
	b.ram = [RAMSize]byte{}
	b.sprites = [SpriteSize]byte{}
	b.vector = 0
	b.board.Reset()
}

// Decode maps addr to its region and the offset inside it. Ranges are
// checked in ascending order; the first match wins.
func (b *Bus) Decode(addr uint16) (Region, uint16) {
	if b.mirror {
		addr &= 0x7FFF
	}
	switch {
	case addr < TileCodeStart:
		return ROM, addr - ROMStart
	case addr < TileAttrStart:
		return TileCodes, addr - TileCodeStart
	case addr < RAMStart:
		return TileAttrs, addr - TileAttrStart
	case addr < SpriteStart:
		return RAM, addr - RAMStart
	case addr < IOStart:
		return Sprites, addr - SpriteStart
	case addr < IOStart+IOSize:
		return IO, addr - IOStart
	}
	return Unmapped, 0
}

func (b *Bus) Read(addr uint16) byte {
	region, off := b.Decode(addr)
	switch region {
	case ROM:
		return b.rom[off]
	case TileCodes:
		return b.tiles[off]
	case TileAttrs:
		return b.attrs[off]
	case RAM:
		return b.ram[off]
	case Sprites:
		return b.sprites[off]
	case IO:
		return b.board.Read(byte(off))
	}
	return 0
}

func (b *Bus) Write(addr uint16, v byte) {
	region, off := b.Decode(addr)
	switch region {
	case TileCodes:
		b.tiles[off] = v
	case TileAttrs:
		b.attrs[off] = v
	case RAM:
		b.ram[off] = v
	case Sprites:
		b.sprites[off] = v
	case IO:
		b.board.Write(byte(off), v)
	}
}

// In reads the Z80 port space. Nothing on the board drives it.
func (b *Bus) In(port uint16) byte { return 0 }

// Out writes the Z80 port space. Port 0 latches the interrupt vector.
func (b *Bus) Out(port uint16, v byte) {
	if port&0xFF == 0 {
		b.vector = v
	}
}

// AcknowledgeInterrupt returns the byte the board drives during an
// interrupt acknowledge cycle.
func (b *Bus) AcknowledgeInterrupt() byte { return b.vector }
