package ui

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

func (a *App) updateMainMenu() {
	max := 6
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowUp) && a.menuIdx > 0 {
		a.menuIdx--
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowDown) && a.menuIdx < max {
		a.menuIdx++
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
		switch a.menuIdx {
		case 0:
			a.quickSave()
		case 1:
			if _, err := os.Stat(a.statePath(a.currentSlot)); err != nil {
				a.toast("Slot is empty")
			} else {
				a.quickLoad()
			}
		case 2:
			a.menuMode = "slot"
			a.menuIdx = a.currentSlot
		case 3:
			a.romList = a.findROMs()
			a.romSel = 0
			a.romOff = 0
			a.menuMode = "rom"
		case 4:
			a.menuMode = "settings"
			a.menuIdx = 0
			a.editingROMDir = false
		case 5:
			a.menuMode = "keys"
			a.keysOff = 0
		case 6:
			a.showMenu = false
		}
	}
	// Back with Backspace
	if inpututil.IsKeyJustPressed(ebiten.KeyBackspace) {
		a.showMenu = false
	}
}

func (a *App) backToMain(idx int) {
	a.menuMode = "main"
	a.menuIdx = idx
}

func (a *App) updateSlotMenu() {
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowUp) && a.menuIdx > 0 {
		a.menuIdx--
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowDown) && a.menuIdx < numSlots-1 {
		a.menuIdx++
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
		a.currentSlot = a.menuIdx
		a.toast(fmt.Sprintf("Slot set to %d", a.currentSlot+1))
		a.backToMain(2)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) || inpututil.IsKeyJustPressed(ebiten.KeyBackspace) {
		a.backToMain(2)
	}
}

func (a *App) updateRomMenu() {
	n := len(a.romList)
	if n == 0 {
		if inpututil.IsKeyJustPressed(ebiten.KeyEnter) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) || inpututil.IsKeyJustPressed(ebiten.KeyBackspace) {
			a.backToMain(3)
		}
		return
	}
	// keep the selection inside the visible window
	baseY := 40
	maxRows := (a.curH - baseY) / 14
	if maxRows < 1 {
		maxRows = 1
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowUp) && a.romSel > 0 {
		a.romSel--
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowDown) && a.romSel < n-1 {
		a.romSel++
	}
	if a.romSel < a.romOff {
		a.romOff = a.romSel
	}
	if a.romSel >= a.romOff+maxRows {
		a.romOff = a.romSel - maxRows + 1
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
		path := a.romList[a.romSel]
		if err := a.m.LoadROMFromFile(path); err == nil {
			a.toast("Loaded ROM: " + filepath.Base(path))
			a.cfg.LastROM = path
			a.halted = nil
			a.saveSettings()
			ebiten.SetWindowTitle(a.cfg.Title + " - [" + filepath.Base(path) + "]")
			a.showMenu = false
		} else {
			a.toast("ROM load failed: " + err.Error())
		}
		a.backToMain(3)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) || inpututil.IsKeyJustPressed(ebiten.KeyBackspace) {
		a.backToMain(3)
	}
}

func (a *App) updateKeysMenu() {
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowUp) && a.keysOff > 0 {
		a.keysOff--
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowDown) {
		a.keysOff++
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) || inpututil.IsKeyJustPressed(ebiten.KeyBackspace) {
		a.backToMain(5)
	}
}

// Settings rows, in display order.
const (
	setScale = iota
	setStereo
	setLowLatency
	setMute
	setCocktail
	setROMDir
	numSettings
)

func (a *App) updateSettingsMenu() {
	if a.editingROMDir {
		a.updateROMDirInput()
		return
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowUp) && a.menuIdx > 0 {
		a.menuIdx--
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowDown) && a.menuIdx < numSettings-1 {
		a.menuIdx++
	}
	left := inpututil.IsKeyJustPressed(ebiten.KeyArrowLeft)
	right := inpututil.IsKeyJustPressed(ebiten.KeyArrowRight)
	enter := inpututil.IsKeyJustPressed(ebiten.KeyEnter)
	toggle := left || right || enter

	switch a.menuIdx {
	case setScale:
		if left && a.cfg.Scale > 1 {
			a.cfg.Scale--
			a.applyWindowSize()
			a.saveSettings()
		}
		if right && a.cfg.Scale < 6 {
			a.cfg.Scale++
			a.applyWindowSize()
			a.saveSettings()
		}
	case setStereo:
		if toggle {
			a.cfg.AudioStereo = !a.cfg.AudioStereo
			a.startAudio()
			a.saveSettings()
		}
	case setLowLatency:
		if toggle {
			a.cfg.AudioLowLatency = !a.cfg.AudioLowLatency
			if a.cfg.AudioLowLatency {
				a.m.AudioCapBufferedStereo(a.m.SampleRate() * 30 / 1000)
			}
			if a.audioSrc != nil {
				a.audioSrc.lowLatency = a.cfg.AudioLowLatency
			}
			a.applyPlayerBufferSize()
			a.saveSettings()
		}
	case setMute:
		if toggle {
			a.toggleMute()
			a.saveSettings()
		}
	case setCocktail:
		if toggle {
			in := a.m.Input()
			a.cfg.Cocktail = !a.cfg.Cocktail
			in.SetCocktail(a.cfg.Cocktail)
			a.saveSettings()
		}
	case setROMDir:
		if enter {
			a.editingROMDir = true
			a.romDirInput = a.cfg.ROMsDir
			return
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) || inpututil.IsKeyJustPressed(ebiten.KeyBackspace) {
		a.backToMain(4)
	}
}

func (a *App) updateROMDirInput() {
	a.romDirInput = string(ebiten.AppendInputChars([]rune(a.romDirInput)))
	if inpututil.IsKeyJustPressed(ebiten.KeyBackspace) && len(a.romDirInput) > 0 {
		a.romDirInput = a.romDirInput[:len(a.romDirInput)-1]
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
		if val := strings.TrimSpace(a.romDirInput); val != "" {
			a.cfg.ROMsDir = val
			a.saveSettings()
			a.toast("ROMs dir set")
		}
		a.editingROMDir = false
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		a.editingROMDir = false
		a.romDirInput = a.cfg.ROMsDir
	}
}
