package emu

import "github.com/FabianRolfMatthiasNoll/PacmanEmulator/internal/bus"

// WatchdogFrames is how many frames the game may go without kicking the
// watchdog before the board resets.
const WatchdogFrames = 16

// Config contains settings that affect emulation behavior.
type Config struct {
	Trace      bool  // log every instruction with its disassembly
	Watchdog   bool  // reset when the watchdog is not kicked
	MirrorA15  bool  // alias 0x8000-0xFFFF onto the lower half
	Cocktail   bool  // cocktail cabinet instead of upright
	DIP        *byte // DIP switch bank; nil selects bus.DefaultDIP
	SampleRate int   // audio output rate in Hz
}

// Defaults fills missing fields with reasonable defaults.
func (c *Config) Defaults() {
	if c.DIP == nil {
		dip := byte(bus.DefaultDIP)
		c.DIP = &dip
	}
	if c.SampleRate <= 0 {
		c.SampleRate = 44100
	}
}
