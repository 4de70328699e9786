package ui

import (
	"fmt"
	"image/color"
	"image/png"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/FabianRolfMatthiasNoll/PacmanEmulator/internal/emu"
	"github.com/FabianRolfMatthiasNoll/PacmanEmulator/internal/input"
	"github.com/FabianRolfMatthiasNoll/PacmanEmulator/internal/video"
)

const numSlots = 4

type App struct {
	cfg      Config
	settings *Settings
	m        *emu.Machine
	tex      *ebiten.Image
	shade    *ebiten.Image
	paused   bool
	fast     bool
	halted   error // set when the CPU hit an undefined opcode

	// overlay/menu
	showMenu      bool
	menuMode      string // main, slot, rom, settings, keys
	menuIdx       int
	currentSlot   int
	romList       []string
	romSel        int
	romOff        int
	keysOff       int
	editingROMDir bool
	romDirInput   string

	toastMsg   string
	toastUntil time.Time
	curW, curH int

	audioCtx    *audio.Context
	audioPlayer *audio.Player
	audioSrc    *machineStream
	audioMuted  atomic.Bool // read by the audio player goroutine
}

func NewApp(cfg Config, settings *Settings, m *emu.Machine) *App {
	cfg.Defaults()
	ebiten.SetWindowTitle(cfg.Title)
	a := &App{cfg: cfg, settings: settings, m: m, menuMode: "main",
		curW: video.Width, curH: video.Height}
	a.audioMuted.Store(cfg.Muted)
	a.applyWindowSize()
	a.audioCtx = audio.NewContext(m.SampleRate())
	a.startAudio()
	return a
}

func (a *App) Run() error {
	defer a.saveSettings()
	return ebiten.RunGame(a)
}

func (a *App) toggleMute() { a.audioMuted.Store(!a.audioMuted.Load()) }

func (a *App) applyWindowSize() {
	ebiten.SetWindowSize(video.Width*a.cfg.Scale, video.Height*a.cfg.Scale)
}

func (a *App) saveSettings() {
	if a.settings == nil {
		return
	}
	a.cfg.Muted = a.audioMuted.Load()
	if err := a.settings.Save(a.cfg); err != nil {
		log.Printf("settings: %v", err)
	}
}

// readButtons maps the keyboard onto the cabinet controls.
func readButtons() input.Buttons {
	var b input.Buttons
	for _, k := range bindings {
		if ebiten.IsKeyPressed(k.key) {
			k.set(&b)
		}
	}
	return b
}

type binding struct {
	key   ebiten.Key
	label string
	set   func(*input.Buttons)
}

var bindings = []binding{
	{ebiten.KeyArrowUp, "Up", func(b *input.Buttons) { b.Up = true }},
	{ebiten.KeyArrowDown, "Down", func(b *input.Buttons) { b.Down = true }},
	{ebiten.KeyArrowLeft, "Left", func(b *input.Buttons) { b.Left = true }},
	{ebiten.KeyArrowRight, "Right", func(b *input.Buttons) { b.Right = true }},
	{ebiten.KeyDigit1, "1P Start", func(b *input.Buttons) { b.Start1 = true }},
	{ebiten.KeyDigit2, "2P Start", func(b *input.Buttons) { b.Start2 = true }},
	{ebiten.KeyDigit5, "Coin 1", func(b *input.Buttons) { b.Coin1 = true }},
	{ebiten.KeyDigit6, "Coin 2", func(b *input.Buttons) { b.Coin2 = true }},
	{ebiten.KeyDigit7, "Service credit", func(b *input.Buttons) { b.Credit = true }},
	{ebiten.KeyF1, "Rack test", func(b *input.Buttons) { b.RackTest = true }},
	{ebiten.KeyF2, "Service mode", func(b *input.Buttons) { b.Service = true }},
}

func (a *App) Update() error {
	// Toggle menu (Escape)
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) && (!a.showMenu || a.menuMode == "main") {
		a.showMenu = !a.showMenu
		a.menuMode = "main"
		a.menuIdx = 0
		return nil
	}
	if a.showMenu {
		switch a.menuMode {
		case "slot":
			a.updateSlotMenu()
		case "rom":
			a.updateRomMenu()
		case "settings":
			a.updateSettingsMenu()
		case "keys":
			a.updateKeysMenu()
		default:
			a.updateMainMenu()
		}
		return nil
	}

	a.m.SetButtons(readButtons())

	// Pause toggle (P)
	if inpututil.IsKeyJustPressed(ebiten.KeyP) {
		a.paused = !a.paused
	}
	// Fast-forward (Tab): while held, run multiple frames per Ebiten update
	a.fast = ebiten.IsKeyPressed(ebiten.KeyTab)
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		a.m.Reset()
		a.halted = nil
		a.toast("Reset")
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyM) {
		a.toggleMute()
		a.m.AudioClearLatency()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF5) {
		a.quickSave()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF9) {
		a.quickLoad()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF11) {
		ebiten.SetFullscreen(!ebiten.IsFullscreen())
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF12) {
		if name, err := a.saveScreenshot(); err != nil {
			a.toast("Screenshot failed: " + err.Error())
		} else {
			a.toast("Saved " + name)
		}
	}

	if a.halted != nil {
		return nil
	}
	// Frame-step when paused (N)
	if a.paused {
		if inpututil.IsKeyJustPressed(ebiten.KeyN) {
			a.stepFrame()
		}
		return nil
	}
	frames := 1
	if a.fast {
		frames = 5
	}
	for i := 0; i < frames && a.halted == nil; i++ {
		a.stepFrame()
	}
	if a.fast {
		a.m.AudioClearLatency()
	}
	return nil
}

func (a *App) stepFrame() {
	if err := a.m.StepFrame(); err != nil {
		log.Printf("emulation stopped: %v", err)
		a.halted = err
	}
}

func (a *App) Draw(screen *ebiten.Image) {
	if a.tex == nil {
		a.tex = ebiten.NewImage(video.Width, video.Height)
	}
	a.tex.WritePixels(a.m.Framebuffer())
	screen.DrawImage(a.tex, nil)

	if a.showMenu {
		if a.shade == nil {
			a.shade = ebiten.NewImage(video.Width, video.Height)
			a.shade.Fill(color.RGBA{0, 0, 0, 0xC0})
		}
		screen.DrawImage(a.shade, nil)
		switch a.menuMode {
		case "slot":
			a.drawSlotMenu(screen)
		case "rom":
			a.drawRomMenu(screen)
		case "settings":
			a.drawSettingsMenu(screen)
		case "keys":
			a.drawKeysMenu(screen)
		default:
			a.drawMainMenu(screen)
		}
		return
	}
	if a.halted != nil {
		for i, line := range a.wrapText(a.halted.Error(), a.maxCharsForText(4)) {
			ebitenutil.DebugPrintAt(screen, line, 4, 4+i*14)
		}
	}
	if a.paused {
		ebitenutil.DebugPrintAt(screen, "PAUSED", 4, a.curH-16)
	}
	if time.Now().Before(a.toastUntil) {
		ebitenutil.DebugPrintAt(screen, a.truncateText(a.toastMsg, a.maxCharsForText(4)), 4, a.curH-30)
	}
}

func (a *App) Layout(outW, outH int) (int, int) { return video.Width, video.Height }

func (a *App) toast(msg string) {
	a.toastMsg = msg
	a.toastUntil = time.Now().Add(2 * time.Second)
}

func (a *App) statePath(slot int) string {
	base := "pacman"
	if p := a.m.ROMPath(); p != "" {
		base = strings.TrimSuffix(filepath.Base(p), filepath.Ext(p))
	}
	return filepath.Join(a.cfg.StateDir, fmt.Sprintf("%s.slot%d.state", base, slot+1))
}

func (a *App) saveSlot(slot int) error {
	if err := os.MkdirAll(a.cfg.StateDir, 0o755); err != nil {
		return err
	}
	return a.m.SaveStateToFile(a.statePath(slot))
}

func (a *App) loadSlot(slot int) error {
	if err := a.m.LoadStateFromFile(a.statePath(slot)); err != nil {
		return err
	}
	a.halted = nil
	a.m.AudioClearLatency()
	return nil
}

func (a *App) quickSave() {
	if err := a.saveSlot(a.currentSlot); err != nil {
		a.toast("Save failed: " + err.Error())
		return
	}
	a.toast(fmt.Sprintf("Saved slot %d", a.currentSlot+1))
}

func (a *App) quickLoad() {
	if err := a.loadSlot(a.currentSlot); err != nil {
		a.toast("Load failed: " + err.Error())
		return
	}
	a.toast(fmt.Sprintf("Loaded slot %d", a.currentSlot+1))
}

func (a *App) saveScreenshot() (string, error) {
	ts := time.Now().Format("20060102_150405")
	name := fmt.Sprintf("screenshot_%s.png", ts)
	f, err := os.Create(name)
	if err != nil {
		return "", err
	}
	defer f.Close()
	return name, png.Encode(f, a.m.Image())
}

// findROMs lists zip sets and raw images under the ROMs directory.
func (a *App) findROMs() []string {
	var out []string
	_ = filepath.WalkDir(a.cfg.ROMsDir, func(path string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		switch strings.ToLower(filepath.Ext(path)) {
		case ".zip", ".bin", ".rom":
			out = append(out, path)
		}
		return nil
	})
	return out
}

// The debug font is 6x16; lines are spaced 14 px apart.
func (a *App) maxCharsForText(x int) int {
	n := (a.curW - x) / 6
	if n < 1 {
		n = 1
	}
	return n
}

func (a *App) truncateText(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return s[:max-3] + "..."
}

func (a *App) wrapText(s string, max int) []string {
	var lines []string
	line := ""
	for _, w := range strings.Fields(s) {
		switch {
		case line == "":
			line = w
		case len(line)+1+len(w) <= max:
			line += " " + w
		default:
			lines = append(lines, line)
			line = w
		}
	}
	if line != "" {
		lines = append(lines, line)
	}
	return lines
}
