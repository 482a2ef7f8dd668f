// Package options contains the program options.
package options

import (
	"github.com/retroenv/retrogolib/set"
)

// Supported input formats.
const (
	FormatNES    = "nes"
	FormatBinary = "bin"
)

// DefaultCycles is the default cycle limit of an emulation run.
const DefaultCycles = 100000

// Positional contains positional arguments.
type Positional struct {
	File string `arg:"positional" usage:"file to emulate"`
}

// Parameters contains file path options.
type Parameters struct {
	Input string `flag:"i" usage:"input ROM file"`
	Trace string `flag:"trace" usage:"instruction trace output file, - for stdout"`
	Batch string `flag:"batch" usage:"batch process files matching pattern (e.g. *.nes)"`
}

// Flags contains behavior options.
type Flags struct {
	Format string `flag:"f" usage:"input format: nes, bin (default: auto-detect)"`
	Debug  bool   `flag:"debug" usage:"enable debug logging"`
	Quiet  bool   `flag:"q" usage:"quiet mode"`
}

// RunFlags contains the unparsed emulation run options.
type RunFlags struct {
	Cycles      uint64 `flag:"cycles" usage:"stop after this many cycles, 0 runs until interrupted" default:"100000"`
	StartPC     string `flag:"pc" usage:"hex start address overriding the reset vector"`
	Breakpoints string `flag:"break" usage:"comma separated hex addresses to stop at"`
}

// Program options of the emulator.
type Program struct {
	Parameters
	Flags
	RunFlags
}

// Emulator defines options to control an emulation run.
type Emulator struct {
	MaxCycles   uint64          // 0 runs until the context is canceled
	StartPC     uint16          // program counter after power on
	HasStartPC  bool            // StartPC overrides the reset vector
	Breakpoints set.Set[uint16] // stop before executing these addresses
}

// NewEmulator returns a new options instance with default options.
func NewEmulator() Emulator {
	return Emulator{
		MaxCycles:   DefaultCycles,
		Breakpoints: set.New[uint16](),
	}
}
