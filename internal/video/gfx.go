package video

// Graphics ROMs store two bitplanes packed into the nibbles of each byte.
// Offsets below are bit positions in MSB-first order, as in MAME gfx layouts.
var planeOffsets = [2]int{0, 4}

var (
	tileXOffsets = []int{64, 65, 66, 67, 0, 1, 2, 3}
	tileYOffsets = []int{0, 8, 16, 24, 32, 40, 48, 56}

	spriteXOffsets = []int{64, 65, 66, 67, 128, 129, 130, 131, 192, 193, 194, 195, 0, 1, 2, 3}
	spriteYOffsets = []int{0, 8, 16, 24, 32, 40, 48, 56, 256, 264, 272, 280, 288, 296, 304, 312}
)

const (
	tileBytes   = 16
	spriteBytes = 64
	numTiles    = 256
	numSprites  = 64
)

// decode expands one glyph into 2-bit pixel values, row-major.
func decode(data []byte, xo, yo []int) []byte {
	out := make([]byte, len(xo)*len(yo))
	for y, ybit := range yo {
		for x, xbit := range xo {
			var v byte
			for _, p := range planeOffsets {
				bit := p + xbit + ybit
				v = v<<1 | (data[bit>>3]>>(7-uint(bit&7)))&1
			}
			out[y*len(xo)+x] = v
		}
	}
	return out
}

// decodeSet decodes n glyphs. Without a ROM every glyph but 0 is a solid
// block of pen 3, enough to see where things are.
func decodeSet(rom []byte, n, size int, xo, yo []int) [][]byte {
	set := make([][]byte, n)
	if len(rom) == 0 {
		for i := range set {
			set[i] = make([]byte, len(xo)*len(yo))
			if i != 0 {
				for j := range set[i] {
					set[i][j] = 3
				}
			}
		}
		return set
	}
	for i := range set {
		start := i * size
		if start+size > len(rom) {
			set[i] = make([]byte, len(xo)*len(yo))
			continue
		}
		set[i] = decode(rom[start:start+size], xo, yo)
	}
	return set
}
