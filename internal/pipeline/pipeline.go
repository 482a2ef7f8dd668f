// Package pipeline orchestrates the emulation workflow stages.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/retroenv/nesgoemu/internal/bus"
	"github.com/retroenv/nesgoemu/internal/cpu"
	"github.com/retroenv/nesgoemu/internal/detector"
	"github.com/retroenv/nesgoemu/internal/loader"
	"github.com/retroenv/nesgoemu/internal/options"
	"github.com/retroenv/nesgoemu/internal/tracer"
	"github.com/retroenv/retrogolib/log"
)

// cancelCheckInterval is the number of instructions between context checks.
const cancelCheckInterval = 1024

var errNoImage = errors.New("image contains no program")

// StopReason describes why an emulation run ended.
type StopReason string

// Stop reasons of a run that ended without error.
const (
	StopCycleLimit StopReason = "cycle limit"
	StopBreakpoint StopReason = "breakpoint"
)

// Result summarizes a finished emulation run.
type Result struct {
	Cycles       uint64
	Instructions uint64
	Illegal      uint64
	Registers    cpu.Registers
	StopReason   StopReason
}

// Pipeline orchestrates the complete emulation workflow.
type Pipeline struct {
	logger   *log.Logger
	detector *detector.Detector
	loader   *loader.Loader
}

// New creates a new emulation pipeline.
func New(logger *log.Logger) *Pipeline {
	return &Pipeline{
		logger:   logger,
		detector: detector.New(logger),
		loader:   loader.New(),
	}
}

// Execute runs the complete emulation pipeline. Executed instructions are
// traced to traceWriter if it is not nil.
func (p *Pipeline) Execute(ctx context.Context, opts options.Program, emuOpts options.Emulator,
	traceWriter io.Writer) (*Result, error) {

	// Detect input format
	format := p.detector.Detect(opts)

	// Load image
	img, err := p.loader.Load(opts, format)
	if err != nil {
		return nil, fmt.Errorf("loading image: %w", err)
	}

	return p.ExecuteWithImage(ctx, img, opts, emuOpts, traceWriter)
}

// ExecuteWithImage runs the emulation pipeline with a pre-loaded image.
// This is useful for testing and programmatic usage where the image is already in memory.
func (p *Pipeline) ExecuteWithImage(ctx context.Context, img *loader.Image, opts options.Program,
	emuOpts options.Emulator, traceWriter io.Writer) (*Result, error) {

	interconnect := bus.NewInterconnect()
	processor := cpu.New(interconnect)

	if err := p.install(processor, interconnect, img); err != nil {
		return nil, fmt.Errorf("installing image: %w", err)
	}

	// Print info before processing
	p.printInfo(opts, img)

	if err := processor.PowerOn(); err != nil {
		return nil, fmt.Errorf("powering on: %w", err)
	}
	if emuOpts.HasStartPC {
		if err := processor.SetPC(emuOpts.StartPC); err != nil {
			return nil, fmt.Errorf("applying start address: %w", err)
		}
	}

	writer := p.attachTracers(processor, opts, traceWriter)

	result, err := p.run(ctx, processor, emuOpts)
	if err != nil {
		return nil, err
	}
	if writer != nil && writer.Err() != nil {
		return nil, writer.Err()
	}

	if !opts.Quiet {
		p.logger.Info("Emulation stopped",
			log.String("reason", string(result.StopReason)),
			log.Hex("pc", result.Registers.PC),
			log.Int("cycles", int(result.Cycles)),
			log.Int("instructions", int(result.Instructions)),
		)
	}
	return result, nil
}

// install places the program of the image in the program storage of the bus.
func (p *Pipeline) install(processor *cpu.CPU, interconnect *bus.Interconnect, img *loader.Image) error {
	switch {
	case img.Cartridge != nil:
		if err := interconnect.LoadPRG(img.Cartridge.PRG); err != nil {
			return fmt.Errorf("loading cartridge: %w", err)
		}
		return nil

	case len(img.Program) > 0:
		if err := processor.LoadProgram(img.Program); err != nil {
			return fmt.Errorf("loading raw program: %w", err)
		}
		return nil

	default:
		return errNoImage
	}
}

// attachTracers installs the trace sinks requested by the options and
// returns the trace file writer, if any.
func (p *Pipeline) attachTracers(processor *cpu.CPU, opts options.Program, traceWriter io.Writer) *tracer.Writer {
	var tracers []cpu.Tracer
	var writer *tracer.Writer

	if traceWriter != nil {
		writer = tracer.NewWriter(traceWriter)
		tracers = append(tracers, writer)
	}
	if opts.Debug {
		tracers = append(tracers, tracer.NewLogger(p.logger))
	}

	switch len(tracers) {
	case 0:
	case 1:
		processor.SetTracer(tracers[0])
	default:
		processor.SetTracer(tracer.Multi(tracers...))
	}
	return writer
}

// run steps the processor until a stop condition is reached.
func (p *Pipeline) run(ctx context.Context, processor *cpu.CPU, emuOpts options.Emulator) (*Result, error) {
	for steps := 0; ; steps++ {
		if steps%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, fmt.Errorf("emulating: %w", err)
			}
		}

		if emuOpts.MaxCycles > 0 && processor.Cycles() >= emuOpts.MaxCycles {
			return newResult(processor, StopCycleLimit), nil
		}

		if _, err := processor.Step(); err != nil {
			return nil, fmt.Errorf("emulating: %w", err)
		}

		if emuOpts.Breakpoints.Contains(processor.PC) {
			p.logger.Debug("Breakpoint reached", log.Hex("pc", processor.PC))
			return newResult(processor, StopBreakpoint), nil
		}
	}
}

func newResult(processor *cpu.CPU, reason StopReason) *Result {
	return &Result{
		Cycles:       processor.Cycles(),
		Instructions: processor.Instructions(),
		Illegal:      processor.IllegalCount(),
		Registers:    processor.Registers,
		StopReason:   reason,
	}
}

// printInfo prints information about the image being processed.
func (p *Pipeline) printInfo(opts options.Program, img *loader.Image) {
	if opts.Quiet {
		return
	}

	switch {
	case img.Cartridge != nil:
		p.logger.Info("Emulating NES ROM",
			log.String("file", opts.Input),
			log.Uint16("mapper", img.Cartridge.Mapper),
			log.Int("prg", len(img.Cartridge.PRG)),
		)
		if img.Cartridge.Mapper != 0 {
			p.logger.Warn("Only NROM is supported, bank switching of this mapper is not emulated")
		}

	default:
		p.logger.Info("Emulating raw program",
			log.String("file", opts.Input),
			log.Int("size", len(img.Program)),
			log.Hex("address", bus.ProgramLoadAddress),
		)
	}
}
