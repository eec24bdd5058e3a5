package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	bizdoc "github.com/alnah/go-bizdoc"
)

// Sentinel errors for the render and import commands.
var (
	ErrNoInput       = errors.New("no input document specified")
	ErrReadDocument  = errors.New("failed to read document file")
	ErrParseDocument = errors.New("failed to parse document file")
	ErrWriteOutput   = errors.New("failed to write output file")
	ErrInvalidFormat = errors.New("invalid output format")
)

const (
	formatBoth = "both"

	dirPermissions  = 0o750
	filePermissions = 0o644
)

// runRender renders every input file to the requested formats. Failures on
// one input do not stop the others; all errors are joined.
func runRender(ctx context.Context, args []string, env *Environment) error {
	f, inputs, err := parseRenderFlags(args)
	if err != nil {
		return err
	}
	if len(inputs) == 0 {
		return ErrNoInput
	}
	formats, err := parseFormats(f.format)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(f.common.config, env)
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg, f.common)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	r, err := env.newRenderer(cfg, logger, nil)
	if err != nil {
		return err
	}
	defer func() { _ = r.Close() }()

	if f.output != "" {
		if err := os.MkdirAll(f.output, dirPermissions); err != nil {
			return fmt.Errorf("%w: %w", ErrWriteOutput, err)
		}
	}

	var errs []error
	for _, input := range inputs {
		doc, err := readDocument(input)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if doc.Status == "" {
			doc.Status = bizdoc.StatusCompleted
		}

		for _, format := range formats {
			out := outputPath(input, f.output, format)
			start := env.Now()
			if err := renderTo(ctx, r, doc, format, out); err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", input, err))
				continue
			}
			if !f.common.quiet {
				fmt.Fprintf(env.Stdout, "%s -> %s (%s)\n", input, out, env.Now().Sub(start).Round(time.Millisecond))
			}
		}

		if ctx.Err() != nil {
			errs = append(errs, ctx.Err())
			break
		}
	}
	return errors.Join(errs...)
}

// parseFormats expands the --format value into output formats.
func parseFormats(s string) ([]string, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case bizdoc.FormatPDF:
		return []string{bizdoc.FormatPDF}, nil
	case bizdoc.FormatPPTX:
		return []string{bizdoc.FormatPPTX}, nil
	case formatBoth, "":
		return []string{bizdoc.FormatPDF, bizdoc.FormatPPTX}, nil
	}
	return nil, fmt.Errorf("%w: %q (expected pdf, pptx or both)", ErrInvalidFormat, s)
}

// readDocument loads a stored-document JSON file.
func readDocument(path string) (*bizdoc.Document, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- user-provided input path
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrReadDocument, err)
	}

	var doc bizdoc.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrParseDocument, path, err)
	}
	return &doc, nil
}

// outputPath places <input base>.<format> in dir, or next to the input.
func outputPath(input, dir, format string) string {
	base := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	if dir == "" {
		dir = filepath.Dir(input)
	}
	return filepath.Join(dir, base+"."+format)
}

func renderTo(ctx context.Context, r documentRenderer, doc *bizdoc.Document, format, out string) error {
	var (
		data []byte
		err  error
	)
	switch format {
	case bizdoc.FormatPDF:
		data, err = r.GeneratePDF(ctx, doc)
	case bizdoc.FormatPPTX:
		data, err = r.GeneratePPTX(ctx, doc)
	default:
		return fmt.Errorf("%w: %q", ErrInvalidFormat, format)
	}
	if err != nil {
		return err
	}

	if err := os.WriteFile(out, data, filePermissions); err != nil { // #nosec G306 -- output is meant to be shared
		return fmt.Errorf("%w: %w", ErrWriteOutput, err)
	}
	return nil
}
