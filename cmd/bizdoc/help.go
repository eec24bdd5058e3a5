package main

import (
	"fmt"
	"io"
)

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: bizdoc <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  render     Render document JSON files to PDF and PPTX")
	fmt.Fprintln(w, "  serve      Serve stored documents over HTTP")
	fmt.Fprintln(w, "  import     Store document JSON files in the database")
	fmt.Fprintln(w, "  doctor     Check the browser, fonts and config")
	fmt.Fprintln(w, "  version    Show version information")
	fmt.Fprintln(w, "  help       Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'bizdoc help <command>' for details on a specific command.")
}

func printCommonFlags(w io.Writer) {
	fmt.Fprintln(w, "Common:")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path (env: BIZDOC_CONFIG)")
	fmt.Fprintln(w, "  -q, --quiet               Only log errors")
	fmt.Fprintln(w, "  -v, --verbose             Debug logging")
}

func printRenderUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: bizdoc render <document.json>... [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Render stored-document JSON files. A missing status counts as completed.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output:")
	fmt.Fprintln(w, "  -o, --output <dir>        Output directory (default: next to each input)")
	fmt.Fprintln(w, "  -f, --format <s>          pdf, pptx or both (default: both)")
	fmt.Fprintln(w)
	printCommonFlags(w)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Examples:")
	fmt.Fprintln(w, "  bizdoc render quote.json")
	fmt.Fprintln(w, "  bizdoc render -f pdf -o out/ docs/*.json")
}

func printServeUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: bizdoc serve [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Serve the document API, /metrics and /healthz.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Server:")
	fmt.Fprintln(w, "  -a, --addr <host:port>    Listen address (default: server.addr)")
	fmt.Fprintln(w)
	printCommonFlags(w)
}

func printImportUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: bizdoc import <document.json>... [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Store documents in database.path and print their IDs.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Document:")
	fmt.Fprintln(w, "      --status <s>          Override status: pending, completed, failed")
	fmt.Fprintln(w)
	printCommonFlags(w)
}

func printDoctorUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: bizdoc doctor [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Check that documents can be rendered on this machine.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "      --json                Print results as JSON")
}

// runHelp prints help for the command named in args, or the general usage.
func runHelp(args []string, env *Environment) {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return
	}

	switch args[0] {
	case "render":
		printRenderUsage(env.Stdout)
	case "serve":
		printServeUsage(env.Stdout)
	case "import":
		printImportUsage(env.Stdout)
	case "doctor":
		printDoctorUsage(env.Stdout)
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: bizdoc version")
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", args[0])
		printUsage(env.Stderr)
	}
}
