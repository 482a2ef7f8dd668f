// Package cli handles command line interface logic
package cli

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/retroenv/nesgoemu/internal/options"
)

// ParseFlags parses command line flags and returns program and emulator options
func ParseFlags() (options.Program, options.Emulator, error) {
	flags := flag.NewFlagSet(os.Args[0], flag.ExitOnError)
	var opts options.Program
	readOptionFlags(flags, &opts)

	err := flags.Parse(os.Args[1:])
	args := flags.Args()
	if err != nil || (len(args) == 0 && opts.Input == "" && opts.Batch == "") {
		return opts, options.Emulator{}, &UsageError{flags: flags}
	}

	if err := validateArgs(args); err != nil {
		return opts, options.Emulator{}, err
	}

	if err := normalizeOptions(&opts); err != nil {
		return opts, options.Emulator{}, err
	}

	if opts.Batch == "" && len(args) > 0 {
		opts.Input = args[0]
	}

	emuOptions, err := createEmulatorOptions(opts)
	if err != nil {
		return opts, options.Emulator{}, err
	}

	return opts, emuOptions, nil
}

// UsageError represents an error that should show usage information
type UsageError struct {
	flags *flag.FlagSet
	msg   string
}

func (e *UsageError) Error() string {
	return e.msg
}

func (e *UsageError) ShowUsage() {
	fmt.Printf("usage: nesgoemu [options] <file to emulate>\n\n")
	if e.flags != nil {
		e.flags.PrintDefaults()
	}
	fmt.Println()
}

// validateArgs checks if arguments are in correct order
func validateArgs(args []string) error {
	for i, arg := range args {
		if i > 0 && arg != "" && arg[0] == '-' {
			return &UsageError{
				msg: fmt.Sprintf("Potential argument %s found after file to emulate, please pass the file to emulate as last argument", arg),
			}
		}
	}
	return nil
}

// normalizeOptions normalizes and validates option values
func normalizeOptions(opts *options.Program) error {
	opts.Format = strings.ToLower(opts.Format)
	if opts.Format == "" {
		return nil
	}
	if opts.Format == "binary" || opts.Format == "raw" {
		opts.Format = options.FormatBinary
	}

	validFormats := []string{options.FormatNES, options.FormatBinary}
	for _, valid := range validFormats {
		if opts.Format == valid {
			return nil
		}
	}

	return fmt.Errorf("unsupported format: %s. Valid options: %s",
		opts.Format, strings.Join(validFormats, ", "))
}

// createEmulatorOptions creates emulator options based on program options
func createEmulatorOptions(opts options.Program) (options.Emulator, error) {
	emuOptions := options.NewEmulator()
	emuOptions.MaxCycles = opts.Cycles

	if opts.StartPC != "" {
		pc, err := ParseAddress(opts.StartPC)
		if err != nil {
			return options.Emulator{}, fmt.Errorf("parsing start address: %w", err)
		}
		emuOptions.StartPC = pc
		emuOptions.HasStartPC = true
	}

	for _, s := range strings.Split(opts.Breakpoints, ",") {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		address, err := ParseAddress(s)
		if err != nil {
			return options.Emulator{}, fmt.Errorf("parsing breakpoint: %w", err)
		}
		emuOptions.Breakpoints.Add(address)
	}

	return emuOptions, nil
}

// ParseAddress parses a 16 bit hex address with an optional $ or 0x prefix.
func ParseAddress(s string) (uint16, error) {
	trimmed := strings.TrimPrefix(strings.TrimPrefix(strings.ToLower(s), "$"), "0x")
	value, err := strconv.ParseUint(trimmed, 16, 16)
	if err != nil {
		return 0, fmt.Errorf("invalid address '%s': %w", s, err)
	}
	return uint16(value), nil
}

func readOptionFlags(flags *flag.FlagSet, opts *options.Program) {
	flags.StringVar(&opts.Input, "i", "", "name of the input ROM file")
	flags.StringVar(&opts.Trace, "trace", "", "name of the instruction trace file, - prints it on console")
	flags.StringVar(&opts.Batch, "batch", "", "process a batch of given path and file mask and automatically .log trace file naming, for example *.nes")
	flags.StringVar(&opts.Format, "f", "", "input file format (nes/bin) - if not auto-detected from file content")
	flags.Uint64Var(&opts.Cycles, "cycles", options.DefaultCycles, "number of cycles to emulate, 0 runs until interrupted")
	flags.StringVar(&opts.StartPC, "pc", "", "hex start address that overrides the reset vector")
	flags.StringVar(&opts.Breakpoints, "break", "", "comma separated list of hex addresses to stop execution at")
	flags.BoolVar(&opts.Debug, "debug", false, "enable debugging options for extended logging")
	flags.BoolVar(&opts.Quiet, "q", false, "perform operations quietly")
}
