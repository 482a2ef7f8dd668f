// Package loader handles ROM file loading operations.
package loader

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/retroenv/nesgoemu/internal/options"
	"github.com/retroenv/retrogolib/arch/system/nes/cartridge"
)

var errEmptyFile = errors.New("file is empty")

// Image is a loaded executable, either a parsed cartridge or a raw program.
type Image struct {
	Format    string
	Cartridge *cartridge.Cartridge // set for the iNES format
	Program   []byte               // set for the raw binary format
}

// Loader handles loading ROM files from disk.
type Loader struct{}

// New creates a new ROM loader.
func New() *Loader {
	return &Loader{}
}

// Load loads and parses a ROM file in the given format.
func (l *Loader) Load(opts options.Program, format string) (*Image, error) {
	file, err := os.Open(opts.Input)
	if err != nil {
		return nil, fmt.Errorf("opening file %s: %w", opts.Input, err)
	}
	defer func() { _ = file.Close() }()

	return l.load(file, format)
}

// LoadFromBytes parses an in memory ROM image in the given format.
func (l *Loader) LoadFromBytes(data []byte, format string) (*Image, error) {
	return l.load(bytes.NewReader(data), format)
}

func (l *Loader) load(r io.Reader, format string) (*Image, error) {
	img := &Image{Format: format}

	switch format {
	case options.FormatBinary:
		// raw programs are staged as is, without padding to a PRG bank
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("reading program: %w", err)
		}
		if len(data) == 0 {
			return nil, errEmptyFile
		}
		img.Program = data

	case options.FormatNES:
		cart, err := cartridge.LoadFile(r)
		if err != nil {
			return nil, fmt.Errorf("loading cartridge: %w", err)
		}
		img.Cartridge = cart

	default:
		return nil, fmt.Errorf("unsupported format '%s'", format)
	}

	return img, nil
}
