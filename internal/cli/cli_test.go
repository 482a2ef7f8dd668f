package cli

import (
	"errors"
	"os"
	"testing"

	"github.com/retroenv/nesgoemu/internal/options"
	"github.com/retroenv/retrogolib/assert"
)

func parseArgs(t *testing.T, args ...string) (options.Program, options.Emulator, error) {
	t.Helper()

	oldArgs := os.Args
	t.Cleanup(func() { os.Args = oldArgs })
	os.Args = append([]string{"prog"}, args...)
	return ParseFlags()
}

func TestParseFlags_EmulatorOptions(t *testing.T) {
	tests := []struct {
		name        string
		args        []string
		maxCycles   uint64
		hasStartPC  bool
		startPC     uint16
		breakpoints []uint16
	}{
		{
			name:      "default flags",
			args:      []string{"test.nes"},
			maxCycles: options.DefaultCycles,
		},
		{
			name:      "unlimited cycles",
			args:      []string{"-cycles", "0", "test.nes"},
			maxCycles: 0,
		},
		{
			name:       "start address",
			args:       []string{"-pc", "c000", "test.nes"},
			maxCycles:  options.DefaultCycles,
			hasStartPC: true,
			startPC:    0xc000,
		},
		{
			name:        "breakpoints",
			args:        []string{"-break", "$8000, 0xC5F5,fffe", "test.nes"},
			maxCycles:   options.DefaultCycles,
			breakpoints: []uint16{0x8000, 0xc5f5, 0xfffe},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts, got, err := parseArgs(t, tt.args...)
			assert.NoError(t, err)
			assert.Equal(t, "test.nes", opts.Input)
			assert.Equal(t, tt.maxCycles, got.MaxCycles)
			assert.Equal(t, tt.hasStartPC, got.HasStartPC)
			assert.Equal(t, tt.startPC, got.StartPC)
			assert.Equal(t, len(tt.breakpoints), len(got.Breakpoints))
			for _, address := range tt.breakpoints {
				assert.True(t, got.Breakpoints.Contains(address))
			}
		})
	}
}

func TestParseFlags_Errors(t *testing.T) {
	_, _, err := parseArgs(t)
	var usageErr *UsageError
	assert.True(t, errors.As(err, &usageErr))

	_, _, err = parseArgs(t, "a.nes", "-debug")
	assert.True(t, errors.As(err, &usageErr))

	_, _, err = parseArgs(t, "-f", "zip", "a.nes")
	assert.ErrorContains(t, err, "unsupported format")

	_, _, err = parseArgs(t, "-pc", "xyz", "a.nes")
	assert.ErrorContains(t, err, "parsing start address")

	_, _, err = parseArgs(t, "-break", "10000", "a.nes")
	assert.ErrorContains(t, err, "parsing breakpoint")
}

func TestParseFlags_InputFlag(t *testing.T) {
	opts, _, err := parseArgs(t, "-i", "game.nes", "-f", "RAW", "-trace", "-")
	assert.NoError(t, err)
	assert.Equal(t, "game.nes", opts.Input)
	assert.Equal(t, options.FormatBinary, opts.Format)
	assert.Equal(t, "-", opts.Trace)
}

func TestParseAddress(t *testing.T) {
	tests := []struct {
		input   string
		want    uint16
		wantErr bool
	}{
		{"c000", 0xc000, false},
		{"$C000", 0xc000, false},
		{"0x8000", 0x8000, false},
		{"ffff", 0xffff, false},
		{"10000", 0, true},
		{"", 0, true},
		{"zz", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseAddress(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
