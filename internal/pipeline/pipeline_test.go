package pipeline

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/retroenv/nesgoemu/internal/bus"
	"github.com/retroenv/nesgoemu/internal/loader"
	"github.com/retroenv/nesgoemu/internal/options"
	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"
)

// testProgram is LDA #$05, STA $10, LDA $10, ADC #$03 followed by an endless loop at $C008.
var testProgram = []byte{
	0xa9, 0x05, // LDA #$05
	0x85, 0x10, // STA $10
	0xa5, 0x10, // LDA $10
	0x69, 0x03, // ADC #$03
	0x4c, 0x08, 0xc0, // JMP $C008
}

func TestNew(t *testing.T) {
	logger := log.NewTestLogger(t)
	p := New(logger)

	assert.NotNil(t, p)
	assert.NotNil(t, p.logger)
	assert.NotNil(t, p.detector)
	assert.NotNil(t, p.loader)
}

//nolint:funlen // test functions can be long
func TestExecuteWithImage(t *testing.T) {
	cartImage := buildNESImage(t, testProgram)

	tests := []struct {
		name        string
		image       *loader.Image
		emuOpts     func() options.Emulator
		wantReason  StopReason
		wantA       uint8
		wantPC      uint16
		wantCycles  uint64
		wantInstrs  uint64
		wantIllegal uint64
	}{
		{
			name:  "raw program stops at breakpoint",
			image: &loader.Image{Format: options.FormatBinary, Program: testProgram},
			emuOpts: func() options.Emulator {
				opts := options.NewEmulator()
				opts.Breakpoints.Add(0xc008)
				return opts
			},
			wantReason: StopBreakpoint,
			wantA:      0x08,
			wantPC:     0xc008,
			wantCycles: 17,
			wantInstrs: 4,
		},
		{
			name:  "cartridge stops at breakpoint",
			image: cartImage,
			emuOpts: func() options.Emulator {
				opts := options.NewEmulator()
				opts.Breakpoints.Add(0xc008)
				return opts
			},
			wantReason: StopBreakpoint,
			wantA:      0x08,
			wantPC:     0xc008,
			wantCycles: 17,
			wantInstrs: 4,
		},
		{
			name:  "cycle limit",
			image: &loader.Image{Format: options.FormatBinary, Program: testProgram},
			emuOpts: func() options.Emulator {
				opts := options.NewEmulator()
				opts.MaxCycles = 100
				return opts
			},
			wantReason: StopCycleLimit,
			wantA:      0x08,
			wantPC:     0xc008,
			wantCycles: 101,
			wantInstrs: 32,
		},
		{
			name: "start address override",
			image: &loader.Image{Format: options.FormatBinary, Program: []byte{
				0x4c, 0x00, 0xc0, // JMP $C000
				0xa9, 0x42, // LDA #$42
				0x4c, 0x05, 0xc0, // JMP $C005
			}},
			emuOpts: func() options.Emulator {
				opts := options.NewEmulator()
				opts.StartPC = 0xc003
				opts.HasStartPC = true
				opts.Breakpoints.Add(0xc005)
				return opts
			},
			wantReason: StopBreakpoint,
			wantA:      0x42,
			wantPC:     0xc005,
			wantCycles: 9,
			wantInstrs: 1,
		},
		{
			name: "illegal opcodes are counted",
			image: &loader.Image{Format: options.FormatBinary, Program: []byte{
				0x1a,             // *NOP
				0xea,             // NOP
				0x4c, 0x02, 0xc0, // JMP $C002
			}},
			emuOpts: func() options.Emulator {
				opts := options.NewEmulator()
				opts.Breakpoints.Add(0xc002)
				return opts
			},
			wantReason:  StopBreakpoint,
			wantPC:      0xc002,
			wantCycles:  11,
			wantInstrs:  2,
			wantIllegal: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := New(log.NewTestLogger(t))
			opts := options.Program{Flags: options.Flags{Quiet: true}}

			result, err := p.ExecuteWithImage(context.Background(), tt.image, opts, tt.emuOpts(), nil)
			assert.NoError(t, err)
			assert.Equal(t, tt.wantReason, result.StopReason)
			assert.Equal(t, tt.wantA, result.Registers.A)
			assert.Equal(t, tt.wantPC, result.Registers.PC)
			assert.Equal(t, tt.wantCycles, result.Cycles)
			assert.Equal(t, tt.wantInstrs, result.Instructions)
			assert.Equal(t, tt.wantIllegal, result.Illegal)
		})
	}
}

func TestExecuteTrace(t *testing.T) {
	p := New(log.NewTestLogger(t))
	opts := options.Program{Flags: options.Flags{Quiet: true, Debug: true}}
	emuOpts := options.NewEmulator()
	emuOpts.Breakpoints.Add(0xc008)

	var buf bytes.Buffer
	img := &loader.Image{Format: options.FormatBinary, Program: testProgram}
	_, err := p.ExecuteWithImage(context.Background(), img, opts, emuOpts, &buf)
	assert.NoError(t, err)

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	assert.Equal(t, 4, len(lines))
	assert.True(t, strings.HasPrefix(lines[0], "C000  A9 05     LDA #$05"))
	assert.True(t, strings.HasSuffix(lines[0], "A:00 X:00 Y:00 P:24 SP:FD CYC:7"))
	assert.True(t, strings.HasPrefix(lines[3], "C006  69 03     ADC #$03"))
	assert.True(t, strings.HasSuffix(lines[3], "A:05 X:00 Y:00 P:24 SP:FD CYC:15"))
}

func TestExecuteErrors(t *testing.T) {
	t.Run("canceled context", func(t *testing.T) {
		p := New(log.NewTestLogger(t))
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		img := &loader.Image{Format: options.FormatBinary, Program: testProgram}
		_, err := p.ExecuteWithImage(ctx, img, options.Program{}, options.NewEmulator(), nil)
		assert.True(t, errors.Is(err, context.Canceled))
	})

	t.Run("empty image", func(t *testing.T) {
		p := New(log.NewTestLogger(t))

		_, err := p.ExecuteWithImage(context.Background(), &loader.Image{}, options.Program{}, options.NewEmulator(), nil)
		assert.True(t, errors.Is(err, errNoImage))
	})

	t.Run("unmapped access", func(t *testing.T) {
		p := New(log.NewTestLogger(t))
		img := &loader.Image{Format: options.FormatBinary, Program: []byte{
			0xad, 0x00, 0x50, // LDA $5000
		}}

		_, err := p.ExecuteWithImage(context.Background(), img, options.Program{}, options.NewEmulator(), nil)
		assert.True(t, errors.Is(err, bus.ErrUnmappedAddress))
	})

	t.Run("missing file", func(t *testing.T) {
		p := New(log.NewTestLogger(t))
		opts := options.Program{
			Parameters: options.Parameters{Input: filepath.Join(t.TempDir(), "missing.nes")},
		}

		_, err := p.Execute(context.Background(), opts, options.NewEmulator(), nil)
		assert.ErrorContains(t, err, "loading image")
	})
}

func TestExecuteFromFile(t *testing.T) {
	p := New(log.NewTestLogger(t))
	tmpFile := createTempFile(t, "program.bin", testProgram)
	defer os.Remove(tmpFile) //nolint:errcheck // test cleanup

	opts := options.Program{
		Parameters: options.Parameters{Input: tmpFile},
	}
	emuOpts := options.NewEmulator()
	emuOpts.Breakpoints.Add(0xc008)

	result, err := p.Execute(context.Background(), opts, emuOpts, nil)
	assert.NoError(t, err)
	assert.Equal(t, uint8(0x08), result.Registers.A)
	assert.False(t, result.Registers.P.Carry())
	assert.False(t, result.Registers.P.Zero())
	assert.False(t, result.Registers.P.Negative())
}

// buildNESImage returns an NROM-128 image with the program at the start of
// the PRG bank and the reset vector pointing at its $C000 mirror.
func buildNESImage(t *testing.T, program []byte) *loader.Image {
	t.Helper()
	const nesHeaderSize = 16
	const prgBankSize = 16384

	data := make([]byte, nesHeaderSize+prgBankSize)
	copy(data[0:4], []byte{'N', 'E', 'S', 0x1A})
	data[4] = 1 // 1 PRG bank
	copy(data[nesHeaderSize:], program)
	data[nesHeaderSize+0x3ffc] = 0x00
	data[nesHeaderSize+0x3ffd] = 0xc0

	img, err := loader.New().LoadFromBytes(data, options.FormatNES)
	if err != nil {
		t.Fatalf("Failed to load cartridge: %v", err)
	}
	return img
}

func createTempFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	tmpFile := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(tmpFile, data, 0600); err != nil {
		t.Fatalf("Failed to create temp file: %v", err)
	}
	return tmpFile
}
