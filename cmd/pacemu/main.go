package main

import (
	"flag"
	"fmt"
	"hash/crc32"
	"image/png"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/FabianRolfMatthiasNoll/PacmanEmulator/internal/emu"
	"github.com/FabianRolfMatthiasNoll/PacmanEmulator/internal/sound"
	"github.com/FabianRolfMatthiasNoll/PacmanEmulator/internal/statsview"
	"github.com/FabianRolfMatthiasNoll/PacmanEmulator/internal/ui"
)

type CLIFlags struct {
	ROMPath  string
	Scale    int
	Title    string
	Trace    bool
	Watchdog bool
	Mirror   bool
	Cocktail bool
	DIP      string // hex
	State    string // save state to load after the ROM
	Stats    string // statsview address, empty to disable

	// headless
	Headless bool
	Frames   int
	PNGOut   string
	Expect   string // expected framebuffer CRC32 hex (e.g., "1a2b3c4d")
	WAVOut   string
}

func parseFlags() CLIFlags {
	var f CLIFlags
	flag.StringVar(&f.ROMPath, "rom", "", "path to ROM set (.zip) or raw program image")
	flag.IntVar(&f.Scale, "scale", 0, "window scale (default from settings)")
	flag.StringVar(&f.Title, "title", "pacemu", "window title")
	flag.BoolVar(&f.Trace, "trace", false, "CPU trace log")
	flag.BoolVar(&f.Watchdog, "watchdog", true, "reset when the game stops kicking the watchdog")
	flag.BoolVar(&f.Mirror, "mirror", false, "alias 0x8000-0xFFFF onto the lower 32K")
	flag.BoolVar(&f.Cocktail, "cocktail", false, "cocktail cabinet")
	flag.StringVar(&f.DIP, "dip", "", "DIP switch byte in hex (default c9)")
	flag.StringVar(&f.State, "state", "", "load a save state before running")
	flag.StringVar(&f.Stats, "statsview", "", "serve runtime stats at this address (needs -tags statsview)")

	// headless options
	flag.BoolVar(&f.Headless, "headless", false, "run without a window")
	flag.IntVar(&f.Frames, "frames", 300, "frames to run in headless mode")
	flag.StringVar(&f.PNGOut, "outpng", "", "write last framebuffer to PNG at path")
	flag.StringVar(&f.Expect, "expect", "", "assert framebuffer CRC32 (hex)")
	flag.StringVar(&f.WAVOut, "wav", "", "record sound to a WAV file in headless mode")
	flag.Parse()
	return f
}

func parseHexByte(s string) (byte, error) {
	v, err := strconv.ParseUint(strings.TrimPrefix(strings.ToLower(s), "0x"), 16, 8)
	return byte(v), errors.Wrapf(err, "bad hex byte %q", s)
}

func runHeadless(m *emu.Machine, frames int, pngPath, expectCRC, wavPath string) error {
	if frames <= 0 {
		frames = 1
	}
	var wav *sound.WAVWriter
	if wavPath != "" {
		wf, err := os.Create(wavPath)
		if err != nil {
			return errors.Wrap(err, "create WAV")
		}
		defer wf.Close()
		wav = sound.NewWAVWriter(wf, m.SampleRate())
	}

	start := time.Now()
	for i := 0; i < frames; i++ {
		if err := m.StepFrame(); err != nil {
			return err
		}
		if wav != nil {
			if err := wav.Write(m.AudioPullStereo(m.AudioBufferedStereo())); err != nil {
				return err
			}
		} else {
			m.AudioClearLatency()
		}
	}
	dur := time.Since(start)
	if wav != nil {
		if err := wav.Close(); err != nil {
			return err
		}
		log.Printf("wrote %s", wavPath)
	}

	crc := crc32.ChecksumIEEE(m.Framebuffer())
	fps := float64(frames) / dur.Seconds()
	log.Printf("headless: frames=%d elapsed=%s fps=%.2f fb_crc32=%08x",
		frames, dur.Truncate(time.Millisecond), fps, crc)

	if pngPath != "" {
		if err := saveFramePNG(m, pngPath); err != nil {
			return errors.Wrap(err, "write PNG")
		}
		log.Printf("wrote %s", pngPath)
	}

	if expectCRC != "" {
		// normalize expected hex (allow with/without 0x, upper/lowercase)
		want := strings.TrimPrefix(strings.ToLower(expectCRC), "0x")
		got := fmt.Sprintf("%08x", crc)
		if got != want {
			return errors.Errorf("checksum mismatch: got %s, want %s", got, want)
		}
	}
	return nil
}

func saveFramePNG(m *emu.Machine, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, m.Image())
}

func main() {
	f := parseFlags()

	if f.Stats != "" {
		statsview.Launch(f.Stats)
	}

	var uiCfg ui.Config
	settings := ui.NewSettings()
	if !f.Headless {
		if err := settings.Load(&uiCfg); err != nil {
			log.Printf("settings: %v", err)
		}
	}
	uiCfg.Title = f.Title
	if f.Scale > 0 {
		uiCfg.Scale = f.Scale
	}
	if f.Cocktail {
		uiCfg.Cocktail = true
	}

	emuCfg := emu.Config{
		Trace:     f.Trace,
		Watchdog:  f.Watchdog,
		MirrorA15: f.Mirror,
		Cocktail:  uiCfg.Cocktail,
	}
	if f.DIP != "" {
		dip, err := parseHexByte(f.DIP)
		if err != nil {
			log.Fatal(err)
		}
		emuCfg.DIP = &dip
	}
	m := emu.New(emuCfg)

	romPath := f.ROMPath
	if romPath == "" && !f.Headless {
		romPath = uiCfg.LastROM
	}
	if romPath != "" {
		// prefer absolute path for state placement consistency
		if abs, err := filepath.Abs(romPath); err == nil {
			romPath = abs
		}
		if err := m.LoadROMFromFile(romPath); err != nil {
			log.Fatalf("load ROM: %v", err)
		}
		log.Printf("ROM: %s", romPath)
		uiCfg.LastROM = romPath
	} else if f.Headless {
		log.Fatal("-rom is required with -headless")
	}

	if f.State != "" {
		if err := m.LoadStateFromFile(f.State); err != nil {
			log.Fatalf("load state: %v", err)
		}
		log.Printf("loaded state %s at frame %d", f.State, m.Frames())
	}

	if f.Headless {
		if err := runHeadless(m, f.Frames, f.PNGOut, f.Expect, f.WAVOut); err != nil {
			log.Fatal(err)
		}
		return
	}

	app := ui.NewApp(uiCfg, settings, m)
	if err := app.Run(); err != nil {
		log.Fatal(err)
	}
}
