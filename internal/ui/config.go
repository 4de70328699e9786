package ui

// Config contains window/input/audio related settings. It is persisted as
// JSON between runs.
type Config struct {
	Title       string `json:"-"`            // window title
	Scale       int    `json:"scale"`        // integer upscaling factor
	AudioStereo bool   `json:"audio_stereo"` // if false, fold to mono
	Muted       bool   `json:"muted"`
	// Audio buffering
	AudioBufferMs   int  `json:"audio_buffer_ms"`   // initial desired buffer in ms (approx)
	AudioLowLatency bool `json:"audio_low_latency"` // hard-cap buffering for minimal latency

	ROMsDir  string `json:"roms_dir"`  // directory to browse for ROM sets
	StateDir string `json:"state_dir"` // where save slots go
	LastROM  string `json:"last_rom"`
	Cocktail bool   `json:"cocktail"` // cocktail cabinet inputs
}

// Defaults fills missing fields with reasonable defaults.
func (c *Config) Defaults() {
	if c.Title == "" {
		c.Title = "pacemu"
	}
	if c.Scale <= 0 {
		c.Scale = 2
	}
	if c.AudioBufferMs <= 0 {
		c.AudioBufferMs = 40
	}
	if c.ROMsDir == "" {
		c.ROMsDir = "roms"
	}
	if c.StateDir == "" {
		c.StateDir = "states"
	}
}
