// Package rom loads Pac-Man ROM sets from a MAME-style zip archive or a raw
// program image.
package rom

import (
	"archive/zip"
	"bytes"
	"hash/crc32"
	"io"
	"os"
	"path"
	"strings"

	"github.com/pkg/errors"
)

var (
	ErrMissingFile = errors.New("rom: required file missing")
	ErrBadSize     = errors.New("rom: wrong file size")
)

// Kind is the role a file plays on the board.
type Kind uint8

const (
	Program Kind = iota
	Tiles
	Sprites
	Palette
	Lookup
	Waves
)

// File describes one chip image of a set.
type File struct {
	Name     string
	Size     int
	Kind     Kind
	Required bool
	CRC      uint32 // CRC32 of the known good dump
}

// PacmanFiles lists the Midway Pac-Man set. Program chips are concatenated
// in this order.
var PacmanFiles = []File{
	{"pacman.6e", 0x1000, Program, true, 0xC1E6AB10},
	{"pacman.6f", 0x1000, Program, true, 0x1A6FB2D4},
	{"pacman.6h", 0x1000, Program, true, 0xBCDD1BEB},
	{"pacman.6j", 0x1000, Program, true, 0x817D94E3},
	{"pacman.5e", 0x1000, Tiles, false, 0x0C944964},
	{"pacman.5f", 0x1000, Sprites, false, 0x958FEDF9},
	{"82s123.7f", 0x0020, Palette, false, 0x2FC650BD},
	{"82s126.4a", 0x0100, Lookup, false, 0x3EB3A8E4},
	{"82s126.1m", 0x0100, Waves, false, 0xA9CC86BF},
}

// Set is a loaded ROM set. Optional parts are nil when absent.
type Set struct {
	Program []byte
	Tiles   []byte
	Sprites []byte
	Palette []byte
	Lookup  []byte
	Waves   []byte

	// Mismatched lists files whose checksum differs from the known dump.
	Mismatched []string
}

func (s *Set) add(k Kind, data []byte) {
	switch k {
	case Program:
		s.Program = append(s.Program, data...)
	case Tiles:
		s.Tiles = data
	case Sprites:
		s.Sprites = data
	case Palette:
		s.Palette = data
	case Lookup:
		s.Lookup = data
	case Waves:
		s.Waves = data
	}
}

// Load reads a zip archive or, for anything else, a raw program image.
func Load(filename string) (*Set, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, errors.Wrap(err, "rom: read")
	}
	if isZip(data) {
		set, err := FromZip(bytes.NewReader(data), int64(len(data)))
		return set, errors.Wrap(err, filename)
	}
	return &Set{Program: data}, nil
}

func isZip(data []byte) bool {
	return len(data) >= 4 && bytes.Equal(data[:4], []byte("PK\x03\x04"))
}

// FromZip extracts the set from a zip archive. Names match case-insensitively
// and directories inside the archive are ignored.
func FromZip(r io.ReaderAt, size int64) (*Set, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, errors.Wrap(err, "rom: open zip")
	}
	index := make(map[string]*zip.File, len(zr.File))
	for _, f := range zr.File {
		index[strings.ToLower(path.Base(f.Name))] = f
	}

	set := &Set{}
	for _, want := range PacmanFiles {
		zf, ok := index[want.Name]
		if !ok {
			if want.Required {
				return nil, errors.Wrap(ErrMissingFile, want.Name)
			}
			continue
		}
		data, err := readZipFile(zf)
		if err != nil {
			return nil, errors.Wrapf(err, "rom: extract %s", want.Name)
		}
		if len(data) != want.Size {
			return nil, errors.Wrapf(ErrBadSize, "%s is %d bytes, want %d", want.Name, len(data), want.Size)
		}
		if crc32.ChecksumIEEE(data) != want.CRC {
			set.Mismatched = append(set.Mismatched, want.Name)
		}
		set.add(want.Kind, data)
	}
	return set, nil
}

func readZipFile(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}
