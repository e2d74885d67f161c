// Package cli implements the agentdeck command line: render, diff, serve, and version.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
)

// Version is the agentdeck version. It is a var (not a const) so build tooling can override it (for example via `-ldflags "-X .../internal/cli.Version=1.2.3"`).
var Version = "0.1.0"

// In/Out/Err override standard I/O. If nil, defaults are used. Overriding is useful for testing.
type RunOptions struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

// exitError attaches an exit code to err.
type exitError struct {
	code int
	err  error
}

func (e exitError) Error() string { return e.err.Error() }
func (e exitError) Unwrap() error { return e.err }

func usageError(err error) error {
	return exitError{code: 2, err: err}
}

func usageErrorf(format string, args ...any) error {
	return usageError(fmt.Errorf(format, args...))
}

// errDifferent is returned by diff when the renderings differ. It sets exit code 1 but prints no message.
var errDifferent = errors.New("renderings differ")

// Run runs the CLI with args (typically you'd use os.Args).
//
// It returns a recommended exit code (0, 1, or 2) and an error, if any:
//   - 0 -> err == nil
//   - 1 -> err != nil, but the structure of args is sound (flags are correct, etc). Also `diff` when the transcripts render differently.
//   - 2 -> err != nil, args parse error or misuse of flags, etc.
//
// Note that in cases of errors, Run has already displayed an error message to opts.Err || Stderr. Callers may use os.Exit with the exit code.
func Run(args []string, opts *RunOptions) (int, error) {
	argv := args
	if len(argv) > 0 {
		argv = argv[1:]
	}

	a := &app{in: os.Stdin, out: os.Stdout, err: os.Stderr}
	if opts != nil {
		if opts.In != nil {
			a.in = opts.In
		}
		if opts.Out != nil {
			a.out = opts.Out
		}
		if opts.Err != nil {
			a.err = opts.Err
		}
	}

	root := newRootCommand(a)
	root.SetArgs(argv)
	root.SetIn(a.in)
	root.SetOut(a.out)
	root.SetErr(a.err)

	err := root.ExecuteContext(context.Background())
	if err == nil {
		return 0, nil
	}

	code := 1
	var ee exitError
	if errors.As(err, &ee) {
		code = ee.code
	}
	if !errors.Is(err, errDifferent) {
		fmt.Fprintf(a.err, "Error: %v\n", err)
		if code == 2 {
			fmt.Fprintln(a.err, "Run 'agentdeck --help' for usage.")
		}
	}
	return code, err
}
