package main

import (
	"context"
	"errors"
	"fmt"

	flag "github.com/spf13/pflag"
	"go.uber.org/zap"

	bizdoc "github.com/alnah/go-bizdoc"
	"github.com/alnah/go-bizdoc/internal/config"
	"github.com/alnah/go-bizdoc/internal/hints"
	"github.com/alnah/go-bizdoc/internal/logging"
)

// runMain dispatches the command in args and returns the exit code.
func runMain(args []string, env *Environment) int {
	if len(args) < 2 {
		printUsage(env.Stderr)
		return ExitUsage
	}
	cmd, rest := args[1], args[2:]

	ctx, stop := notifyContext(context.Background())
	defer stop()

	var err error
	switch cmd {
	case "render":
		err = runRender(ctx, rest, env)
	case "serve":
		err = runServe(ctx, rest, env)
	case "import":
		err = runImport(ctx, rest, env)
	case "doctor":
		return runDoctorCmd(rest, env)
	case "version", "--version":
		fmt.Fprintf(env.Stdout, "bizdoc %s\n", Version)
		return ExitSuccess
	case "help", "-h", "--help":
		runHelp(rest, env)
		return ExitSuccess
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", cmd)
		printUsage(env.Stderr)
		return ExitUsage
	}

	if errors.Is(err, flag.ErrHelp) {
		runHelp([]string{cmd}, env)
		return ExitSuccess
	}
	if err != nil {
		fmt.Fprintf(env.Stderr, "error: %v%s\n", err, hintFor(err))
		return exitCodeFor(err)
	}
	return ExitSuccess
}

// hintFor returns an actionable hint for err, or "".
func hintFor(err error) string {
	switch {
	case errors.Is(err, config.ErrConfigNotFound):
		return hints.ForConfigNotFound(config.SearchPaths("bizdoc"))
	case errors.Is(err, bizdoc.ErrDocumentNotCompleted):
		return hints.ForNotCompleted()
	case errors.Is(err, bizdoc.ErrFontsLoad):
		return hints.ForMissingFonts()
	case errors.Is(err, bizdoc.ErrEngineCrashed):
		return hints.ForEngineCrash()
	case errors.Is(err, bizdoc.ErrRenderTimeout):
		return hints.ForTimeout()
	case errors.Is(err, bizdoc.ErrBrowserConnect):
		return hints.ForBrowserConnect()
	}
	return ""
}

// newLogger builds the logger from cfg; --verbose and --quiet override the
// configured level.
func newLogger(cfg *config.Config, f commonFlags) (*zap.Logger, error) {
	level := cfg.Log.Level
	switch {
	case f.verbose:
		level = "debug"
	case f.quiet:
		level = "error"
	}
	return logging.New(logging.Config{Level: level, Development: cfg.Log.Development})
}
