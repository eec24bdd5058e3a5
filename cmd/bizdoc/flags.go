package main

import (
	"errors"
	"fmt"
	"io"

	flag "github.com/spf13/pflag"
)

// ErrUsage marks invalid command lines.
var ErrUsage = errors.New("invalid usage")

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// renderFlags holds flags for the render command.
type renderFlags struct {
	common commonFlags
	output string
	format string
}

// serveFlags holds flags for the serve command.
type serveFlags struct {
	common commonFlags
	addr   string
}

// importFlags holds flags for the import command.
type importFlags struct {
	common commonFlags
	status string
}

// doctorFlags holds flags for the doctor command.
type doctorFlags struct {
	config string
	json   bool
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "debug logging")
}

// parse runs fs and wraps flag errors in ErrUsage. flag.ErrHelp is
// returned as-is.
func parse(fs *flag.FlagSet, args []string) error {
	fs.SetOutput(io.Discard)
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return err
		}
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}
	return nil
}

// parseRenderFlags parses render flags and returns positional args.
func parseRenderFlags(args []string) (*renderFlags, []string, error) {
	fs := flag.NewFlagSet("render", flag.ContinueOnError)
	f := &renderFlags{}

	fs.StringVarP(&f.output, "output", "o", "", "output directory (default: next to the input)")
	fs.StringVarP(&f.format, "format", "f", formatBoth, "output format: pdf, pptx, both")
	addCommonFlags(fs, &f.common)

	if err := parse(fs, args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

// parseServeFlags parses serve flags.
func parseServeFlags(args []string) (*serveFlags, error) {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	f := &serveFlags{}

	fs.StringVarP(&f.addr, "addr", "a", "", "listen address (default: server.addr)")
	addCommonFlags(fs, &f.common)

	if err := parse(fs, args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("%w: unexpected argument %q", ErrUsage, fs.Arg(0))
	}
	return f, nil
}

// parseImportFlags parses import flags and returns positional args.
func parseImportFlags(args []string) (*importFlags, []string, error) {
	fs := flag.NewFlagSet("import", flag.ContinueOnError)
	f := &importFlags{}

	fs.StringVar(&f.status, "status", "", "override the document status: pending, completed, failed")
	addCommonFlags(fs, &f.common)

	if err := parse(fs, args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

// parseDoctorFlags parses doctor flags.
func parseDoctorFlags(args []string) (*doctorFlags, error) {
	fs := flag.NewFlagSet("doctor", flag.ContinueOnError)
	f := &doctorFlags{}

	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVar(&f.json, "json", false, "print results as JSON")

	if err := parse(fs, args); err != nil {
		return nil, err
	}
	return f, nil
}
