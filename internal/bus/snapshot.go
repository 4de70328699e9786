package bus

// Snapshot is a copy of the display and sound state taken between frames.
// It never aliases live memory.
type Snapshot struct {
	TileCodes [TileCodeSize]byte
	TileAttrs [TileAttrSize]byte
	Sprites   [SpriteSize]byte // code<<2|yflip<<1|xflip, color; 8 pairs
	SpriteXY  [16]byte         // x, y; 8 pairs
	Sound     [32]byte         // WSG registers, low nibble
	SoundOn   bool
	Flip      bool
}

func (b *Bus) Snapshot() Snapshot {
	return Snapshot{
		TileCodes: b.tiles,
		TileAttrs: b.attrs,
		Sprites:   b.sprites,
		SpriteXY:  b.board.spriteXY,
		Sound:     b.board.sound,
		SoundOn:   b.board.latches[LatchSoundEnable],
		Flip:      b.board.latches[LatchFlip],
	}
}

// State is the writable part of the bus for save states.
type State struct {
	Tiles     [TileCodeSize]byte
	Attrs     [TileAttrSize]byte
	RAM       [RAMSize]byte
	Sprites   [SpriteSize]byte
	Vector    byte
	DIP       byte
	Latches   [8]bool
	Coins     int
	Sound     [32]byte
	SpriteXY  [16]byte
	SinceKick int
}

func (b *Bus) State() State {
	return State{
		Tiles:     b.tiles,
		Attrs:     b.attrs,
		RAM:       b.ram,
		Sprites:   b.sprites,
		Vector:    b.vector,
		DIP:       b.board.dip,
		Latches:   b.board.latches,
		Coins:     b.board.coins,
		Sound:     b.board.sound,
		SpriteXY:  b.board.spriteXY,
		SinceKick: b.board.sinceKick,
	}
}

func (b *Bus) Restore(s State) {
	b.tiles = s.Tiles
	b.attrs = s.Attrs
	b.ram = s.RAM
	b.sprites = s.Sprites
	b.vector = s.Vector
	b.board.dip = s.DIP
	b.board.latches = s.Latches
	b.board.coins = s.Coins
	b.board.sound = s.Sound
	b.board.spriteXY = s.SpriteXY
	b.board.sinceKick = s.SinceKick
}
