// Package emu wires the Pac-Man board together: CPU, bus, frame timing,
// video, sound and inputs.
package emu

import (
	"image"
	"log"

	"github.com/pkg/errors"

	"github.com/FabianRolfMatthiasNoll/PacmanEmulator/internal/bus"
	"github.com/FabianRolfMatthiasNoll/PacmanEmulator/internal/cpu"
	"github.com/FabianRolfMatthiasNoll/PacmanEmulator/internal/input"
	"github.com/FabianRolfMatthiasNoll/PacmanEmulator/internal/rom"
	"github.com/FabianRolfMatthiasNoll/PacmanEmulator/internal/sound"
	"github.com/FabianRolfMatthiasNoll/PacmanEmulator/internal/timing"
	"github.com/FabianRolfMatthiasNoll/PacmanEmulator/internal/video"
)

type Machine struct {
	cfg     Config
	romPath string
	dip     byte

	// core components
	bus   *bus.Bus
	cpu   *cpu.CPU
	timer *timing.Controller

	video *video.Renderer
	wsg   *sound.WSG
	input *input.State

	frames uint64
}

// New returns a machine with an empty ROM. Load a set before running it.
func New(cfg Config) *Machine {
	cfg.Defaults()
	m := &Machine{cfg: cfg, dip: *cfg.DIP, input: input.New()}
	m.input.SetCocktail(cfg.Cocktail)
	m.bus = bus.New(bus.Options{MirrorA15: cfg.MirrorA15})
	m.cpu = cpu.New(m.bus)
	m.timer = timing.New(tracer{m})
	m.timer.SetGate(m.bus.Board().InterruptsEnabled)
	m.video = video.New(nil, nil, nil, nil)
	m.wsg = sound.New(nil, cfg.SampleRate)
	m.Reset()
	return m
}

// LoadROMSet installs a ROM set and resets the machine.
func (m *Machine) LoadROMSet(set *rom.Set) error {
	if err := m.bus.LoadProgram(set.Program); err != nil {
		return errors.Wrap(err, "emu: load program")
	}
	for _, name := range set.Mismatched {
		log.Printf("rom: %s does not match the known dump", name)
	}
	m.video = video.New(set.Tiles, set.Sprites, set.Palette, set.Lookup)
	m.wsg = sound.New(set.Waves, m.cfg.SampleRate)
	m.Reset()
	return nil
}

// LoadROMFromFile loads a zip set or raw program image from disk.
func (m *Machine) LoadROMFromFile(path string) error {
	set, err := rom.Load(path)
	if err != nil {
		return err
	}
	if err := m.LoadROMSet(set); err != nil {
		return err
	}
	m.romPath = path
	return nil
}

// ROMPath returns the last loaded ROM path if known.
func (m *Machine) ROMPath() string { return m.romPath }

// Reset is a power cycle: RAM, latches, CPU and timing start over. ROM, DIP
// switches and the coin count survive.
func (m *Machine) Reset() {
	m.bus.Reset()
	m.bus.Board().SetDIP(m.dip)
	m.cpu.Reset()
	m.timer.Reset()
	m.wsg.ClearStereoBuffer()
	m.frames = 0
}

// StepFrame runs one 1/60 s slice, then renders video and sound from the
// state the game left behind.
func (m *Machine) StepFrame() error {
	in0, in1 := m.input.Ports()
	m.bus.Board().SetInputs(in0, in1)

	if _, err := m.timer.RunSlice(timing.CyclesPerFrame); err != nil {
		return errors.Wrapf(err, "emu: frame %d", m.frames)
	}
	m.frames++

	snap := m.bus.Snapshot()
	m.video.Render(&snap)
	m.wsg.Run(&snap.Sound, snap.SoundOn, sound.ChipHz/timing.RefreshHz)

	limit := 0
	if m.cfg.Watchdog {
		limit = WatchdogFrames
	}
	if m.bus.Board().TickWatchdog(limit) {
		log.Printf("emu: watchdog expired at frame %d, PC=%04X; resetting", m.frames, m.cpu.PC)
		m.Reset()
	}
	return nil
}

// Frames is the number of frames run since reset.
func (m *Machine) Frames() uint64 { return m.frames }

func (m *Machine) Framebuffer() []byte { return m.video.Framebuffer() }

// Image returns the current frame as an image sharing the framebuffer.
func (m *Machine) Image() *image.RGBA { return m.video.Image() }

// SetButtons latches the host's button state for the next frame.
func (m *Machine) SetButtons(b input.Buttons) { m.input.Update(b) }

// Input exposes button edges for the host.
func (m *Machine) Input() *input.State { return m.input }

// SetTrace toggles per-instruction logging.
func (m *Machine) SetTrace(on bool) { m.cfg.Trace = on }

// SetDIP changes the DIP switches. The game reads them at boot, so most
// settings take effect after Reset.
func (m *Machine) SetDIP(v byte) {
	m.dip = v
	m.bus.Board().SetDIP(v)
}

func (m *Machine) CPU() *cpu.CPU { return m.cpu }
func (m *Machine) Bus() *bus.Bus { return m.bus }

// AudioPullStereo returns up to max stereo frames as interleaved int16 L,R pairs.
func (m *Machine) AudioPullStereo(max int) []int16 { return m.wsg.PullStereo(max) }

// AudioBufferedStereo returns the number of stereo frames ready.
func (m *Machine) AudioBufferedStereo() int { return m.wsg.StereoAvailable() }

// AudioClearLatency drops all buffered frames to re-sync audio with video.
func (m *Machine) AudioClearLatency() { m.wsg.ClearStereoBuffer() }

// AudioCapBufferedStereo trims the buffered frames to at most target frames.
func (m *Machine) AudioCapBufferedStereo(target int) { m.wsg.TrimStereoTo(target) }

// SampleRate is the audio output rate.
func (m *Machine) SampleRate() int { return m.cfg.SampleRate }
