package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
)

// ExitCodeFailure is the process status for fatal command errors.
const ExitCodeFailure = 1

// Exitf writes a formatted error message to stderr and exits with
// ExitCodeFailure.
func Exitf(format string, args ...any) {
	exitf(os.Stderr, os.Exit, format, args...)
}

// ExitOnParseError exits when err is non-nil. A help request (-h) exits 0
// because the flag package already printed usage.
func ExitOnParseError(err error) {
	exitOnParseError(err, os.Stderr, os.Exit)
}

func exitOnParseError(err error, w io.Writer, exit func(int)) {
	switch {
	case err == nil:
	case errors.Is(err, flag.ErrHelp):
		exit(0)
	default:
		exitf(w, exit, "parse flags: %v", err)
	}
}

func exitf(w io.Writer, exit func(int), format string, args ...any) {
	fmt.Fprintf(w, format+"\n", args...)
	exit(ExitCodeFailure)
}
