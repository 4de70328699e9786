// Package video renders the Pac-Man tilemap and sprites into an RGBA frame.
//
// The monitor is mounted on its side: the board draws a 288x224 picture
// which is shown rotated clockwise as 224x288.
package video

import (
	"image"
	"image/color"

	"github.com/FabianRolfMatthiasNoll/PacmanEmulator/internal/bus"
)

const (
	Width  = 224
	Height = 288

	nativeW = 288
	nativeH = 224
	cols    = nativeW / 8
	rows    = nativeH / 8

	// Sprites are clipped to the playfield columns of the native picture.
	clipLeft  = 2 * 8
	clipRight = 34 * 8
)

// Renderer owns decoded graphics and the output frame.
type Renderer struct {
	tiles   [][]byte
	sprites [][]byte
	palette [32]color.RGBA
	lookup  [256]byte

	native [nativeW * nativeH]byte // palette indices
	fb     []byte                  // RGBA Width*Height*4
}

// New decodes the graphics ROMs. Any of them may be nil.
func New(tileROM, spriteROM, paletteROM, lookupROM []byte) *Renderer {
	return &Renderer{
		tiles:   decodeSet(tileROM, numTiles, tileBytes, tileXOffsets, tileYOffsets),
		sprites: decodeSet(spriteROM, numSprites, spriteBytes, spriteXOffsets, spriteYOffsets),
		palette: decodePalette(paletteROM),
		lookup:  decodeLookup(lookupROM),
		fb:      make([]byte, Width*Height*4),
	}
}

// Framebuffer returns the last rendered frame, RGBA, row-major, portrait.
func (r *Renderer) Framebuffer() []byte { return r.fb }

// Image wraps the framebuffer without copying.
func (r *Renderer) Image() *image.RGBA {
	return &image.RGBA{Pix: r.fb, Stride: Width * 4, Rect: image.Rect(0, 0, Width, Height)}
}

// Render draws one frame from a display snapshot.
func (r *Renderer) Render(s *bus.Snapshot) {
	r.renderTiles(s)
	r.renderSprites(s)
	r.rotate()
}

// tileOffset maps a native tile position to its video RAM offset. The two
// leftmost and rightmost columns hold the score and credit rows.
func tileOffset(col, row int) int {
	c := uint(col) - 2
	rr := uint(row) + 2
	if c&0x20 != 0 {
		return int(rr + (c&0x1F)<<5)
	}
	return int(c + rr<<5)
}

func (r *Renderer) renderTiles(s *bus.Snapshot) {
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			offs := tileOffset(col, row)
			glyph := r.tiles[s.TileCodes[offs]]
			set := int(s.TileAttrs[offs]&0x1F) * 4
			for ty := 0; ty < 8; ty++ {
				line := r.native[(row*8+ty)*nativeW+col*8:]
				for tx := 0; tx < 8; tx++ {
					line[tx] = r.lookup[set+int(glyph[ty*8+tx])]
				}
			}
		}
	}
}

// renderSprites draws sprites 7 down to 0 so lower numbers win. The first
// three sit one line lower to line up with the maze.
func (r *Renderer) renderSprites(s *bus.Snapshot) {
	for n := 7; n >= 0; n-- {
		attr := s.Sprites[n*2]
		set := int(s.Sprites[n*2+1] & 0x1F)
		sx := 272 - int(s.SpriteXY[n*2+1])
		sy := int(s.SpriteXY[n*2]) - 31
		if n <= 2 {
			sy++
		}
		code := int(attr >> 2)
		flipX := attr&1 != 0
		flipY := attr&2 != 0
		r.drawSprite(code, set, flipX, flipY, sx, sy)
		r.drawSprite(code, set, flipX, flipY, sx-256, sy)
	}
}

func (r *Renderer) drawSprite(code, colorSet int, flipX, flipY bool, sx, sy int) {
	glyph := r.sprites[code&(numSprites-1)]
	set := colorSet * 4
	for y := 0; y < 16; y++ {
		py := sy + y
		if py < 0 || py >= nativeH {
			continue
		}
		gy := y
		if flipY {
			gy = 15 - y
		}
		for x := 0; x < 16; x++ {
			px := sx + x
			if px < clipLeft || px >= clipRight {
				continue
			}
			gx := x
			if flipX {
				gx = 15 - x
			}
			pen := r.lookup[set+int(glyph[gy*16+gx])]
			if pen == 0 {
				continue
			}
			r.native[py*nativeW+px] = pen
		}
	}
}

// rotate turns the native picture clockwise into the portrait framebuffer.
func (r *Renderer) rotate() {
	for ny := 0; ny < nativeH; ny++ {
		px := Width - 1 - ny
		for nx := 0; nx < nativeW; nx++ {
			c := r.palette[r.native[ny*nativeW+nx]]
			i := (nx*Width + px) * 4
			r.fb[i] = c.R
			r.fb[i+1] = c.G
			r.fb[i+2] = c.B
			r.fb[i+3] = 0xFF
		}
	}
}
