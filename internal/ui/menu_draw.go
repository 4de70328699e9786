package ui

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

var onOff = map[bool]string{true: "On", false: "Off"}

func (a *App) drawList(screen *ebiten.Image, title string, items []string, sel, off int) {
	cursorY := 10
	for _, w := range a.wrapText(title, a.maxCharsForText(10)) {
		ebitenutil.DebugPrintAt(screen, w, 10, cursorY)
		cursorY += 14
	}
	baseY := cursorY + 4
	maxRows := (a.curH - baseY) / 14
	if maxRows < 1 {
		maxRows = 1
	}
	end := off + maxRows
	if end > len(items) {
		end = len(items)
	}
	maxChars := a.maxCharsForText(10)
	for i := off; i < end; i++ {
		prefix := "  "
		if i == sel {
			prefix = "> "
		}
		ebitenutil.DebugPrintAt(screen, a.truncateText(prefix+items[i], maxChars), 10, baseY+(i-off)*14)
	}
	// scroll indicators
	if off > 0 {
		ebitenutil.DebugPrintAt(screen, "^", 2, baseY)
	}
	if end < len(items) {
		ebitenutil.DebugPrintAt(screen, "v", 2, baseY+(maxRows-1)*14)
	}
}

func (a *App) drawMainMenu(screen *ebiten.Image) {
	items := []string{
		fmt.Sprintf("Save state (slot %d)", a.currentSlot+1),
		fmt.Sprintf("Load state (slot %d)", a.currentSlot+1),
		"Select Slot",
		"Switch ROM",
		"Settings",
		"Keybindings",
		"Close",
	}
	a.drawList(screen, "Menu:", items, a.menuIdx, 0)
	ebitenutil.DebugPrintAt(screen, a.truncateText("F5: Save  F9: Load  Esc: Close", a.maxCharsForText(10)), 10, a.curH-20)
}

func (a *App) drawSlotMenu(screen *ebiten.Image) {
	items := make([]string, numSlots)
	for i := range items {
		state := "[empty]"
		if _, err := os.Stat(a.statePath(i)); err == nil {
			state = ""
		}
		items[i] = fmt.Sprintf("%d %s", i+1, state)
	}
	a.drawList(screen, "Select Slot:", items, a.menuIdx, 0)
}

func (a *App) drawRomMenu(screen *ebiten.Image) {
	if len(a.romList) == 0 {
		a.drawList(screen, "Dir: "+a.cfg.ROMsDir, []string{"No ROMs found"}, -1, 0)
		return
	}
	names := make([]string, len(a.romList))
	for i, p := range a.romList {
		names[i] = filepath.Base(p)
	}
	a.drawList(screen, "Select ROM in "+a.cfg.ROMsDir, names, a.romSel, a.romOff)
}

func (a *App) drawKeysMenu(screen *ebiten.Image) {
	rows := make([]string, 0, len(bindings)+10)
	for _, b := range bindings {
		rows = append(rows, fmt.Sprintf("%s: %s", b.key, b.label))
	}
	rows = append(rows,
		"P: Pause",
		"N: Step (when paused)",
		"Tab: Fast-forward",
		"R: Reset",
		"M: Mute",
		"F5/F9: Save/Load slot",
		"F11: Fullscreen",
		"F12: Screenshot",
		"Esc: Open/Close Menu",
	)
	if a.keysOff > len(rows)-1 {
		a.keysOff = len(rows) - 1
	}
	a.drawList(screen, "Keybindings:", rows, -1, a.keysOff)
}

func (a *App) drawSettingsMenu(screen *ebiten.Image) {
	romDir := a.cfg.ROMsDir
	if a.editingROMDir {
		romDir = a.romDirInput + "_"
	}
	items := make([]string, numSettings)
	items[setScale] = fmt.Sprintf("Scale: %dx", a.cfg.Scale)
	items[setStereo] = "Audio: " + map[bool]string{true: "Stereo", false: "Mono"}[a.cfg.AudioStereo]
	items[setLowLatency] = "Low-Latency Audio: " + onOff[a.cfg.AudioLowLatency]
	items[setMute] = "Mute: " + onOff[a.audioMuted.Load()]
	items[setCocktail] = "Cabinet: " + map[bool]string{true: "Cocktail", false: "Upright"}[a.cfg.Cocktail]
	items[setROMDir] = "ROMs Dir: " + romDir

	a.drawList(screen, "Settings (Left/Right change, Enter edit, Esc back)", items, a.menuIdx, 0)
}
