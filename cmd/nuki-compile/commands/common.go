package commands

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/nuki-esphome/nuki-go/pkg/compiler"
)

const (
	exitSuccess      = 0
	exitCommandError = 1
	exitValidation   = 2
)

// commonFlags are accepted by every command.
type commonFlags struct {
	Schema   string
	LogLevel string
}

func (c *commonFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&c.Schema, "schema", "", "Schema version (default: document selector or current)")
	fs.StringVar(&c.LogLevel, "log-level", "warn", "Log level: debug, info, warn, error")
}

func (c *commonFlags) logger(w io.Writer) (*slog.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToLower(c.LogLevel))); err != nil {
		return nil, fmt.Errorf("invalid log level %q", c.LogLevel)
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})), nil
}

func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.Usage = func() {}
	return fs
}

// singleFile returns the one positional argument.
func singleFile(fs *flag.FlagSet) (string, error) {
	switch fs.NArg() {
	case 0:
		return "", errors.New("no file specified")
	case 1:
		return fs.Arg(0), nil
	default:
		return "", fmt.Errorf("expected one file, got %d", fs.NArg())
	}
}

// compileFile runs the pipeline up to stop and maps the outcome to an exit
// code. Errors are reported on stderr.
func compileFile(path string, opts compiler.Options, stderr io.Writer) (*compiler.Result, int) {
	res, err := compiler.CompileFile(path, opts)
	if err == nil {
		return res, exitSuccess
	}
	fmt.Fprintf(stderr, "%s: %v\n", path, err)
	if compiler.IsInvalid(err) {
		return res, exitValidation
	}
	return res, exitCommandError
}

// parseError reports a flag parse failure. Help requests print usage and
// succeed.
func parseError(err error, stderr io.Writer, usage func(io.Writer)) int {
	if errors.Is(err, flag.ErrHelp) {
		usage(stderr)
		return exitSuccess
	}
	fmt.Fprintf(stderr, "Error: %v\n", err)
	return exitCommandError
}
