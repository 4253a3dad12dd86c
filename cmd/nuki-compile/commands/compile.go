package commands

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/tools/txtar"

	"github.com/nuki-esphome/nuki-go/pkg/compiler"
)

// CompileOptions configures the compile command.
type CompileOptions struct {
	commonFlags
	Variant string
	RunID   string
	Output  string
	Dir     string
	File    string
}

// RunCompile runs the full pipeline. The bundle goes to -o, is extracted
// under -dir, or is written to stdout.
func RunCompile(args []string, stdout, stderr io.Writer) int {
	opts, err := parseCompileArgs(args)
	if err != nil {
		return parseError(err, stderr, printCompileUsage)
	}

	if opts.Output != "" && opts.Dir != "" {
		fmt.Fprintln(stderr, "Error: -o and -dir are mutually exclusive")
		return exitCommandError
	}

	logger, err := opts.logger(stderr)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitCommandError
	}

	res, code := compileFile(opts.File, compiler.Options{
		Variant:       opts.Variant,
		SchemaVersion: opts.Schema,
		RunID:         opts.RunID,
		Logger:        logger,
	}, stderr)
	if code != exitSuccess {
		return code
	}

	ar, err := res.Bundle()
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitCommandError
	}

	switch {
	case opts.Output != "":
		err = os.WriteFile(opts.Output, txtar.Format(ar), 0644)
	case opts.Dir != "":
		err = compiler.Extract(ar, opts.Dir)
	default:
		_, err = stdout.Write(txtar.Format(ar))
	}
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitCommandError
	}

	if opts.Output != "" || opts.Dir != "" {
		fmt.Fprintf(stdout, "%s: compiled run %s (%s, %d entities, %d warnings)\n",
			opts.File, res.RunID, res.Variant, res.Device.Len(), len(res.Report.Warnings()))
	}
	return exitSuccess
}

func parseCompileArgs(args []string) (CompileOptions, error) {
	fs := newFlagSet("compile")
	opts := CompileOptions{}
	opts.register(fs)
	fs.StringVar(&opts.Variant, "variant", "", "Override esp32.framework.type")
	fs.StringVar(&opts.RunID, "run-id", "", "Run identifier stamped into the bundle")
	fs.StringVar(&opts.Output, "o", "", "Write the bundle archive to this file")
	fs.StringVar(&opts.Dir, "dir", "", "Extract the bundle files into this directory")

	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	file, err := singleFile(fs)
	if err != nil {
		return opts, err
	}
	opts.File = file
	return opts, nil
}

func printCompileUsage(w io.Writer) {
	fmt.Fprintln(w, `
Usage: nuki-compile compile [options] <file>

Options:
  -o FILE          Write the bundle archive to FILE
  --dir DIR        Extract the bundle into DIR
  --variant NAME   Override esp32.framework.type
  --run-id ID      Run identifier (default: random UUID)

Examples:
  nuki-compile compile front-door.yaml > bundle.txtar
  nuki-compile compile --dir build/ front-door.yaml`)
}
