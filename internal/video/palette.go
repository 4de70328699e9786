package video

import "image/color"

// Resistor weights of the colour PROM outputs.
var (
	rgWeights = [3]int{0x21, 0x47, 0x97}
	bWeights  = [2]int{0x51, 0xAE}
)

func decodePalette(prom []byte) [32]color.RGBA {
	var pal [32]color.RGBA
	if len(prom) < 32 {
		// No PROM: a grey ramp keeps output visible.
		for i := range pal {
			v := uint8(i * 255 / 31)
			pal[i] = color.RGBA{v, v, v, 0xFF}
		}
		return pal
	}
	for i := range pal {
		c := int(prom[i])
		r, g, b := 0, 0, 0
		for n, w := range rgWeights {
			r += (c >> n & 1) * w
			g += (c >> (3 + n) & 1) * w
		}
		for n, w := range bWeights {
			b += (c >> (6 + n) & 1) * w
		}
		pal[i] = color.RGBA{uint8(r), uint8(g), uint8(b), 0xFF}
	}
	return pal
}

// decodeLookup maps (colour set, pixel) to a palette index.
func decodeLookup(prom []byte) [256]byte {
	var lut [256]byte
	for i := range lut {
		if len(prom) >= 256 {
			lut[i] = prom[i] & 0x0F
		} else {
			lut[i] = byte(i & 3)
		}
	}
	return lut
}
