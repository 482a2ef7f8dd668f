// Package detector handles input format detection.
package detector

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/retroenv/nesgoemu/internal/options"
	"github.com/retroenv/retrogolib/log"
)

// inesMagic starts every file in the iNES container format.
var inesMagic = []byte{'N', 'E', 'S', 0x1a}

// Detector handles input format detection from options, file extensions and file content.
type Detector struct {
	logger *log.Logger
}

// New creates a new format detector.
func New(logger *log.Logger) *Detector {
	return &Detector{
		logger: logger,
	}
}

// Detect determines the input format from options or file auto-detection.
// It first checks if a format is explicitly specified in options, otherwise
// attempts to detect the format from the input filename and its header.
func (d *Detector) Detect(opts options.Program) string {
	if opts.Format != "" {
		return opts.Format
	}

	format := d.detectFromFile(opts.Input)
	d.logger.Debug("Auto-detected format",
		log.String("format", format),
		log.String("file", opts.Input))
	return format
}

// detectFromFile determines the format based on file extension, files
// without a known extension are checked for the iNES header.
func (d *Detector) detectFromFile(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".nes":
		return options.FormatNES
	case ".bin", ".raw", ".prg":
		return options.FormatBinary
	}

	file, err := os.Open(filename)
	if err != nil {
		// the loader reports the error
		return options.FormatNES
	}
	defer func() { _ = file.Close() }()

	return detectFromHeader(file)
}

// detectFromHeader returns the iNES format if the data starts with the
// iNES magic and the raw binary format otherwise.
func detectFromHeader(r io.Reader) string {
	header := make([]byte, len(inesMagic))
	if _, err := io.ReadFull(r, header); err != nil {
		return options.FormatBinary
	}
	if bytes.Equal(header, inesMagic) {
		return options.FormatNES
	}
	return options.FormatBinary
}
