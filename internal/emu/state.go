package emu

import (
	"bytes"
	"hash/crc32"
	"os"

	"github.com/golang/snappy"
	"github.com/lunixbochs/struc"
	"github.com/pkg/errors"

	"github.com/FabianRolfMatthiasNoll/PacmanEmulator/internal/bus"
	"github.com/FabianRolfMatthiasNoll/PacmanEmulator/internal/cpu"
	"github.com/FabianRolfMatthiasNoll/PacmanEmulator/internal/sound"
)

// ErrBadState is returned for save states that are truncated, corrupt or
// from an incompatible build.
var ErrBadState = errors.New("emu: bad save state")

const (
	stateMagic   = "PACS"
	stateVersion = 1

	flagMirrorA15 = 1 << 0
)

// stateHeader precedes the snappy-compressed body. CRC and Length cover the
// compressed bytes.
type stateHeader struct {
	Magic   [4]byte
	Version uint16
	Flags   uint16
	CRC     uint32
	Length  uint32
}

type stateBody struct {
	// CPU
	A, F, B, C, D, E, H, L         uint8
	A2, F2, B2, C2, D2, E2, H2, L2 uint8
	IX, IY, SP, PC                 uint16
	I, R                           uint8
	IFF1, IFF2                     bool
	IM                             uint8
	Cycles                         uint64
	Halted, AfterEI, IRQ           bool

	// frame timing
	Overshoot int32
	Slices    uint64
	Frames    uint64

	// bus and board
	Tiles     [bus.TileCodeSize]byte
	Attrs     [bus.TileAttrSize]byte
	RAM       [bus.RAMSize]byte
	Sprites   [bus.SpriteSize]byte
	Vector    uint8
	DIP       uint8
	Latches   uint8
	Coins     uint32
	Sound     [32]byte
	SpriteXY  [16]byte
	SinceKick uint32

	// sound
	Acc   [3]uint32
	Phase uint32
}

func (m *Machine) captureState() *stateBody {
	c := m.cpu.State()
	b := m.bus.State()
	w := m.wsg.State()
	s := &stateBody{
		A: c.A, F: c.F, B: c.B, C: c.C, D: c.D, E: c.E, H: c.H, L: c.L,
		A2: c.A2, F2: c.F2, B2: c.B2, C2: c.C2, D2: c.D2, E2: c.E2, H2: c.H2, L2: c.L2,
		IX: c.IX, IY: c.IY, SP: c.SP, PC: c.PC,
		I: c.I, R: c.R, IFF1: c.IFF1, IFF2: c.IFF2, IM: uint8(c.IM),
		Cycles: c.Cycles, Halted: c.Halted, AfterEI: c.AfterEI, IRQ: c.IRQ,

		Overshoot: int32(m.timer.Overshoot()),
		Slices:    m.timer.Slices(),
		Frames:    m.frames,

		Tiles: b.Tiles, Attrs: b.Attrs, RAM: b.RAM, Sprites: b.Sprites,
		Vector: b.Vector, DIP: b.DIP, Coins: uint32(b.Coins),
		Sound: b.Sound, SpriteXY: b.SpriteXY, SinceKick: uint32(b.SinceKick),

		Acc: w.Acc, Phase: w.Phase,
	}
	for i, on := range b.Latches {
		if on {
			s.Latches |= 1 << uint(i)
		}
	}
	return s
}

func (m *Machine) applyState(s *stateBody) error {
	if s.IM > uint8(cpu.IM2) {
		return errors.Wrapf(ErrBadState, "interrupt mode %d", s.IM)
	}
	var c cpu.State
	c.A, c.F, c.B, c.C, c.D, c.E, c.H, c.L = s.A, s.F, s.B, s.C, s.D, s.E, s.H, s.L
	c.A2, c.F2, c.B2, c.C2, c.D2, c.E2, c.H2, c.L2 = s.A2, s.F2, s.B2, s.C2, s.D2, s.E2, s.H2, s.L2
	c.IX, c.IY, c.SP, c.PC = s.IX, s.IY, s.SP, s.PC
	c.I, c.R = s.I, s.R
	c.IFF1, c.IFF2, c.IM = s.IFF1, s.IFF2, cpu.InterruptMode(s.IM)
	c.Cycles, c.Halted, c.AfterEI, c.IRQ = s.Cycles, s.Halted, s.AfterEI, s.IRQ

	b := bus.State{
		Tiles: s.Tiles, Attrs: s.Attrs, RAM: s.RAM, Sprites: s.Sprites,
		Vector: s.Vector, DIP: s.DIP, Coins: int(s.Coins),
		Sound: s.Sound, SpriteXY: s.SpriteXY, SinceKick: int(s.SinceKick),
	}
	for i := range b.Latches {
		b.Latches[i] = s.Latches&(1<<uint(i)) != 0
	}

	m.cpu.Restore(c)
	m.bus.Restore(b)
	m.timer.Restore(int(s.Overshoot), s.Slices)
	m.wsg.Restore(sound.State{Acc: s.Acc, Phase: s.Phase})
	m.frames = s.Frames
	m.dip = s.DIP
	return nil
}

// SaveState serializes the running machine. ROM contents are not included.
func (m *Machine) SaveState() ([]byte, error) {
	var body bytes.Buffer
	if err := struc.Pack(&body, m.captureState()); err != nil {
		return nil, errors.Wrap(err, "emu: pack state")
	}
	payload := snappy.Encode(nil, body.Bytes())

	h := stateHeader{
		Version: stateVersion,
		CRC:     crc32.ChecksumIEEE(payload),
		Length:  uint32(len(payload)),
	}
	copy(h.Magic[:], stateMagic)
	if m.cfg.MirrorA15 {
		h.Flags |= flagMirrorA15
	}
	var out bytes.Buffer
	if err := struc.Pack(&out, &h); err != nil {
		return nil, errors.Wrap(err, "emu: pack state header")
	}
	out.Write(payload)
	return out.Bytes(), nil
}

// LoadState restores a state written by SaveState. The machine is unchanged
// if an error is returned.
func (m *Machine) LoadState(data []byte) error {
	r := bytes.NewReader(data)
	var h stateHeader
	if err := struc.Unpack(r, &h); err != nil {
		return errors.Wrap(ErrBadState, "short header")
	}
	if string(h.Magic[:]) != stateMagic {
		return errors.Wrapf(ErrBadState, "magic %q", h.Magic[:])
	}
	if h.Version != stateVersion {
		return errors.Wrapf(ErrBadState, "version %d, want %d", h.Version, stateVersion)
	}
	if mirror := h.Flags&flagMirrorA15 != 0; mirror != m.cfg.MirrorA15 {
		return errors.Wrapf(ErrBadState, "saved with A15 mirror=%v", mirror)
	}
	payload := data[len(data)-r.Len():]
	if uint32(len(payload)) != h.Length {
		return errors.Wrapf(ErrBadState, "body is %d bytes, header says %d", len(payload), h.Length)
	}
	if crc32.ChecksumIEEE(payload) != h.CRC {
		return errors.Wrap(ErrBadState, "checksum mismatch")
	}
	raw, err := snappy.Decode(nil, payload)
	if err != nil {
		return errors.Wrapf(ErrBadState, "decompress: %v", err)
	}
	var s stateBody
	if err := struc.Unpack(bytes.NewReader(raw), &s); err != nil {
		return errors.Wrapf(ErrBadState, "unpack: %v", err)
	}
	return m.applyState(&s)
}

func (m *Machine) SaveStateToFile(path string) error {
	data, err := m.SaveState()
	if err != nil {
		return err
	}
	return errors.Wrap(os.WriteFile(path, data, 0644), "emu: write state")
}

func (m *Machine) LoadStateFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrap(err, "emu: read state")
	}
	return m.LoadState(data)
}
