// Package fileprocessor handles file loading and processing operations
package fileprocessor

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/retroenv/nesgoemu/internal/config"
	"github.com/retroenv/nesgoemu/internal/options"
	"github.com/retroenv/nesgoemu/internal/pipeline"
	"github.com/retroenv/retrogolib/log"
)

// ProcessFile handles the complete file processing workflow
func ProcessFile(ctx context.Context, logger *log.Logger, opts options.Program, emuOpts options.Emulator) error {
	traceFile, err := config.CreateTraceWriter(opts.Trace)
	if err != nil {
		return fmt.Errorf("creating trace writer: %w", err)
	}

	var traceWriter io.Writer
	if traceFile != nil {
		traceWriter = traceFile
	}

	pipe := pipeline.New(logger)
	_, err = pipe.Execute(ctx, opts, emuOpts, traceWriter)

	if traceFile != nil {
		if closeErr := traceFile.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("closing trace writer: %w", closeErr)
		}
	}
	return err
}

// GetFilesToProcess returns list of files to process based on options
func GetFilesToProcess(opts *options.Program) ([]string, error) {
	if opts.Batch != "" {
		matches, err := filepath.Glob(opts.Batch)
		if err != nil {
			return nil, fmt.Errorf("globbing batch pattern: %w", err)
		}
		return matches, nil
	}
	return []string{opts.Input}, nil
}

// GenerateTraceFilename generates the trace filename for a given input file
func GenerateTraceFilename(inputFile string) string {
	ext := filepath.Ext(inputFile)
	return inputFile[:len(inputFile)-len(ext)] + ".log"
}

// PrintBanner prints application version information
func PrintBanner(logger *log.Logger, opts options.Program, version, commit, date string) {
	if opts.Quiet {
		return
	}

	versionString := version
	if commit != "" {
		if len(commit) > 7 {
			commit = commit[:7]
		}
		versionString += fmt.Sprintf(" (%s)", commit)
	}

	logger.Info("nesgoemu", log.String("version", versionString))

	if date != "" && !strings.Contains(date, "unknown") {
		logger.Info("Build", log.String("date", date))
	}
}
