package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/ShayCichocki/daneel/internal/source"
)

// Process exit codes.
const (
	exitOK                = 0
	exitTerminal          = 1
	exitSourceUnavailable = 2
)

// exitError carries the process exit code for a failure.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }

func (e *exitError) Unwrap() error { return e.err }

func terminalError(err error) error {
	return &exitError{code: exitTerminal, err: err}
}

func sourceError(err error) error {
	return &exitError{code: exitSourceUnavailable, err: err}
}

// exitCode maps an error returned by the root command to a process exit code.
func exitCode(err error) int {
	if err == nil {
		return exitOK
	}
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	if errors.Is(err, source.ErrSourceUnavailable) {
		return exitSourceUnavailable
	}
	return exitTerminal
}

// reportError prints err to w. fatih/color drops the styling when w is not a
// terminal or NO_COLOR is set.
func reportError(w io.Writer, err error) {
	fmt.Fprintf(w, "%s %v\n", color.New(color.FgRed, color.Bold).Sprint("Error:"), err)
}
