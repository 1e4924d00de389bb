// Package main is the entry point for the meg editor.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"

	"github.com/dshills/meg/internal/app"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

const usageLine = "Usage: meg <filename>"

// isTerminal reports whether fd is a terminal.
var isTerminal = term.IsTerminal

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	opts, exit, done := parseFlags(args, stdout, stderr)
	if done {
		return exit
	}

	if !isTerminal(int(os.Stdin.Fd())) {
		fmt.Fprintf(stderr, "meg: %v: standard input is not a terminal\n", app.ErrTerminal)
		return 1
	}

	application, err := app.New(opts)
	if err != nil {
		fmt.Fprintf(stderr, "meg: failed to initialize: %v\n", err)
		return 1
	}
	defer application.Close()

	// Run restores the terminal before returning, so the diagnostic lands
	// on a sane screen.
	if err := application.Run(); err != nil {
		fmt.Fprintf(stderr, "meg: %v\n", err)
		return 1
	}

	return 0
}

// parseFlags parses the command line. When done is true the process
// should exit with code without starting the editor.
func parseFlags(args []string, stdout, stderr io.Writer) (opts app.Options, code int, done bool) {
	var showVersion bool
	var showHelp bool

	fs := flag.NewFlagSet("meg", flag.ContinueOnError)
	fs.SetOutput(stderr)

	fs.StringVar(&opts.ConfigPath, "config", "", "Path to configuration file")
	fs.StringVar(&opts.ConfigPath, "c", "", "Path to configuration file (shorthand)")
	fs.StringVar(&opts.LogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	fs.StringVar(&opts.LogFile, "log-file", "", "Write logs to this file")
	fs.BoolVar(&showVersion, "version", false, "Show version information")
	fs.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")
	fs.BoolVar(&showHelp, "help", false, "Show help message")
	fs.BoolVar(&showHelp, "h", false, "Show help message (shorthand)")

	usage := func(w io.Writer) {
		fmt.Fprintf(w, "meg - minimal terminal text editor\n\n")
		fmt.Fprintf(w, "%s\n\n", usageLine)
		fmt.Fprintf(w, "Options:\n")
		fs.SetOutput(w)
		fs.PrintDefaults()
		fs.SetOutput(stderr)
		fmt.Fprintf(w, "\nKeys:\n")
		fmt.Fprintf(w, "  Ctrl+S    Save\n")
		fmt.Fprintf(w, "  Ctrl+Q    Quit (asks to save unsaved changes)\n")
	}
	fs.Usage = func() { usage(stderr) }

	if err := fs.Parse(args); err != nil {
		return opts, 1, true
	}

	if showHelp {
		usage(stdout)
		return opts, 0, true
	}

	if showVersion {
		fmt.Fprintf(stdout, "meg %s\n", version)
		fmt.Fprintf(stdout, "Commit: %s\n", commit)
		fmt.Fprintf(stdout, "Built: %s\n", date)
		return opts, 0, true
	}

	if fs.NArg() != 1 {
		fmt.Fprintln(stderr, usageLine)
		return opts, 1, true
	}
	opts.Filename = fs.Arg(0)

	return opts, 0, false
}
