package commands

import (
	"fmt"
	"io"

	"github.com/nuki-esphome/nuki-go/pkg/compiler"
	"github.com/nuki-esphome/nuki-go/pkg/inspect"
	"github.com/nuki-esphome/nuki-go/pkg/schema"
)

// GraphOptions configures the graph command.
type GraphOptions struct {
	commonFlags
	Path  string
	Brief bool
	File  string
}

// RunGraph runs the graph command.
func RunGraph(args []string, stdout, stderr io.Writer) int {
	opts, err := parseGraphArgs(args)
	if err != nil {
		return parseError(err, stderr, printGraphUsage)
	}

	logger, err := opts.logger(stderr)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitCommandError
	}

	res, code := compileFile(opts.File, compiler.Options{
		SchemaVersion: opts.Schema,
		StopAfter:     compiler.StageBuild,
		Logger:        logger,
	}, stderr)
	if code != exitSuccess {
		return code
	}

	f := inspect.NewFormatter()
	f.ShowMetadata = !opts.Brief

	if opts.Path == "" {
		fmt.Fprint(stdout, f.FormatDevice(res.Device))
		return exitSuccess
	}

	path, err := inspect.ParsePath(opts.Path)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitCommandError
	}
	nodes, err := inspect.NewInspector(res.Device).Resolve(path)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitCommandError
	}
	for _, n := range nodes {
		fmt.Fprintln(stdout, f.FormatEntity(n))
		if n.Kind() == schema.EntitySelect {
			fmt.Fprint(stdout, f.FormatOptions(n))
		}
	}
	return exitSuccess
}

func parseGraphArgs(args []string) (GraphOptions, error) {
	fs := newFlagSet("graph")
	opts := GraphOptions{}
	opts.register(fs)
	fs.StringVar(&opts.Path, "path", "", "Show only the entities at kind/key, kind or key")
	fs.BoolVar(&opts.Brief, "brief", false, "Omit entity metadata")

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

func printGraphUsage(w io.Writer) {
	fmt.Fprintln(w, `
Usage: nuki-compile graph [options] <file>

Options:
  --path PATH   Select entities (e.g. select/motor_speed, number, battery_level)
  --brief       Omit entity metadata

Examples:
  nuki-compile graph front-door.yaml
  nuki-compile graph --path select front-door.yaml`)
}
